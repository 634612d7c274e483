package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/noorweb/noorweb/internal/config"
)

// Bookmark is a saved verse. The texts are a snapshot taken when saving.
type Bookmark struct {
	SurahNumber     int       `json:"surahNumber"`
	SurahName       string    `json:"surahName"`
	AyahNumber      int       `json:"ayahNumber"`
	ArabicText      string    `json:"arabicText"`
	TranslationText string    `json:"urduText"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SurahGroup is the set of bookmarks of one surah, by ascending ayah.
type SurahGroup struct {
	SurahNumber int        `json:"surahNumber"`
	SurahName   string     `json:"surahName"`
	Bookmarks   []Bookmark `json:"bookmarks"`
}

// DateGroup is the set of bookmarks created on one local calendar day.
type DateGroup struct {
	Date      string     `json:"date"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// Bookmarks manages the bookmark list. Writers hold the mutex across the
// read-modify-write, and every write starts from freshly loaded state.
type Bookmarks struct {
	store *Store
	now   func() time.Time
	// Location sets the calendar day used by GroupByDate. Nil means local.
	Location *time.Location

	mu sync.Mutex
}

// NewBookmarks returns a bookmark manager over s.
func NewBookmarks(s *Store) *Bookmarks {
	return &Bookmarks{store: s, now: time.Now}
}

// All returns every bookmark in insertion order.
func (b *Bookmarks) All(ctx context.Context) []Bookmark {
	return Get(ctx, b.store, config.KeyBookmarks, []Bookmark{})
}

// Exists reports whether the verse is bookmarked.
func (b *Bookmarks) Exists(ctx context.Context, surah, ayah int) bool {
	return indexOf(b.All(ctx), surah, ayah) >= 0
}

// Add saves bm unless the verse is already bookmarked. It reports whether
// the list changed. A zero CreatedAt is stamped with the current time.
func (b *Bookmarks) Add(ctx context.Context, bm Bookmark) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := Load(ctx, b.store, config.KeyBookmarks, []Bookmark{})
	if err != nil {
		return false, err
	}
	log := slog.With(
		config.LogKeyComponent, config.CompStore,
		config.LogKeySurah, bm.SurahNumber,
		config.LogKeyAyah, bm.AyahNumber,
	)
	if indexOf(list, bm.SurahNumber, bm.AyahNumber) >= 0 {
		log.Debug(config.MsgBookmarkDup)
		return false, nil
	}
	if bm.CreatedAt.IsZero() {
		bm.CreatedAt = b.now()
	}
	if err := Set(ctx, b.store, config.KeyBookmarks, append(list, bm)); err != nil {
		return false, err
	}
	log.Info(config.MsgBookmarkAdded)
	return true, nil
}

// Remove deletes the bookmark of a verse. It reports whether one existed.
func (b *Bookmarks) Remove(ctx context.Context, surah, ayah int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := Load(ctx, b.store, config.KeyBookmarks, []Bookmark{})
	if err != nil {
		return false, err
	}
	i := indexOf(list, surah, ayah)
	if i < 0 {
		return false, nil
	}
	list = append(list[:i], list[i+1:]...)
	if err := Set(ctx, b.store, config.KeyBookmarks, list); err != nil {
		return false, err
	}
	slog.Info(config.MsgBookmarkRemoved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeySurah, surah,
		config.LogKeyAyah, ayah,
	)
	return true, nil
}

// GroupBySurah groups bookmarks by ascending surah, ayahs ascending.
func (b *Bookmarks) GroupBySurah(ctx context.Context) []SurahGroup {
	groups := map[int]*SurahGroup{}
	var keys []int
	for _, bm := range b.All(ctx) {
		g, ok := groups[bm.SurahNumber]
		if !ok {
			g = &SurahGroup{SurahNumber: bm.SurahNumber, SurahName: bm.SurahName}
			groups[bm.SurahNumber] = g
			keys = append(keys, bm.SurahNumber)
		}
		g.Bookmarks = append(g.Bookmarks, bm)
	}
	sort.Ints(keys)

	out := make([]SurahGroup, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		sort.SliceStable(g.Bookmarks, func(i, j int) bool {
			return g.Bookmarks[i].AyahNumber < g.Bookmarks[j].AyahNumber
		})
		out = append(out, *g)
	}
	return out
}

// GroupByDate groups bookmarks by creation day, newest day first, keeping
// insertion order within a day.
func (b *Bookmarks) GroupByDate(ctx context.Context) []DateGroup {
	loc := b.Location
	if loc == nil {
		loc = time.Local
	}

	groups := map[string]*DateGroup{}
	var keys []string
	for _, bm := range b.All(ctx) {
		day := bm.CreatedAt.In(loc).Format(config.DateFormatDay)
		g, ok := groups[day]
		if !ok {
			g = &DateGroup{Date: day}
			groups[day] = g
			keys = append(keys, day)
		}
		g.Bookmarks = append(g.Bookmarks, bm)
	}
	// ISO dates sort lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]DateGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out
}

func indexOf(list []Bookmark, surah, ayah int) int {
	for i, bm := range list {
		if bm.SurahNumber == surah && bm.AyahNumber == ayah {
			return i
		}
	}
	return -1
}
