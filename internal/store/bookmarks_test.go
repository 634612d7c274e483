package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/noorweb/noorweb/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bm(surah, ayah int, created time.Time) store.Bookmark {
	return store.Bookmark{
		SurahNumber: surah,
		SurahName:   fmt.Sprintf("Surah %d", surah),
		AyahNumber:  ayah,
		ArabicText:  "بِسْمِ ٱللَّهِ",
		CreatedAt:   created,
	}
}

func TestBookmarks_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()
	b := store.NewBookmarks(s)

	added, err := b.Add(ctx, bm(2, 255, time.Time{}))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = b.Add(ctx, bm(2, 255, time.Time{}))
	require.NoError(t, err)
	assert.False(t, added)

	all := b.All(ctx)
	require.Len(t, all, 1)
	assert.False(t, all[0].CreatedAt.IsZero(), "CreatedAt is stamped")
}

func TestBookmarks_Remove(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()
	b := store.NewBookmarks(s)

	_, err := b.Add(ctx, bm(1, 1, time.Time{}))
	require.NoError(t, err)
	assert.True(t, b.Exists(ctx, 1, 1))

	removed, err := b.Remove(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, b.Exists(ctx, 1, 1))

	removed, err = b.Remove(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestBookmarks_AddRereadsStoredState(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()

	// Two managers over the same store stand in for two writers.
	first, second := store.NewBookmarks(s), store.NewBookmarks(s)
	_, err := first.Add(ctx, bm(1, 1, time.Time{}))
	require.NoError(t, err)
	_, err = second.Add(ctx, bm(1, 2, time.Time{}))
	require.NoError(t, err)

	assert.Len(t, first.All(ctx), 2, "no write may be lost")
}

func TestBookmarks_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()
	b := store.NewBookmarks(s)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(ayah int) {
			defer wg.Done()
			_, _ = b.Add(ctx, bm(36, ayah, time.Time{}))
		}(i)
	}
	wg.Wait()

	assert.Len(t, b.All(ctx), 20)
}

func TestBookmarks_GroupBySurah(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()
	b := store.NewBookmarks(s)

	for _, pair := range [][2]int{{18, 10}, {2, 255}, {18, 1}, {2, 1}} {
		_, err := b.Add(ctx, bm(pair[0], pair[1], time.Time{}))
		require.NoError(t, err)
	}

	groups := b.GroupBySurah(ctx)
	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups[0].SurahNumber)
	assert.Equal(t, 18, groups[1].SurahNumber)
	assert.Equal(t, 1, groups[0].Bookmarks[0].AyahNumber)
	assert.Equal(t, 255, groups[0].Bookmarks[1].AyahNumber)
	assert.Equal(t, 1, groups[1].Bookmarks[0].AyahNumber)
}

func TestBookmarks_GroupByDate(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()
	b := store.NewBookmarks(s)
	b.Location = time.UTC

	day1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	for _, item := range []store.Bookmark{bm(1, 1, day1), bm(2, 2, day2), bm(3, 3, day1.Add(time.Hour))} {
		_, err := b.Add(ctx, item)
		require.NoError(t, err)
	}

	groups := b.GroupByDate(ctx)
	require.Len(t, groups, 2)
	assert.Equal(t, "2025-03-02", groups[0].Date, "newest day first")
	assert.Equal(t, "2025-03-01", groups[1].Date)
	require.Len(t, groups[1].Bookmarks, 2)
	assert.Equal(t, 1, groups[1].Bookmarks[0].SurahNumber, "insertion order within a day")
	assert.Equal(t, 3, groups[1].Bookmarks[1].SurahNumber)
}

func TestBookmarks_GroupByDateUsesLocation(t *testing.T) {
	ctx := context.Background()
	s, _ := newMemoryStore()
	b := store.NewBookmarks(s)

	karachi, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)
	b.Location = karachi

	// 21:00 UTC is already the next day in Karachi.
	_, err = b.Add(ctx, bm(1, 1, time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-02", b.GroupByDate(ctx)[0].Date)
}

func TestBookmarks_ReadFailureKeepsList(t *testing.T) {
	ctx := context.Background()
	s, b := newFlakyStore()
	bms := store.NewBookmarks(s)

	for ayah := 1; ayah <= 3; ayah++ {
		_, err := bms.Add(ctx, bm(1, ayah, time.Time{}))
		require.NoError(t, err)
	}

	b.failLoads = 1
	added, err := bms.Add(ctx, bm(2, 255, time.Time{}))
	require.ErrorIs(t, err, errBackendDown)
	assert.False(t, added)
	assert.Len(t, bms.All(ctx), 3)

	b.failLoads = 1
	removed, err := bms.Remove(ctx, 1, 1)
	require.ErrorIs(t, err, errBackendDown)
	assert.False(t, removed)
	assert.Len(t, bms.All(ctx), 3)

	added, err = bms.Add(ctx, bm(2, 255, time.Time{}))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, bms.All(ctx), 4)
}
