package store

import (
	"context"
	"time"

	"github.com/noorweb/noorweb/internal/config"
)

// Progress marks the last verse read.
type Progress struct {
	SurahNumber int       `json:"surahNumber"`
	AyahNumber  int       `json:"ayahNumber"`
	LastRead    time.Time `json:"lastRead"`
}

// ReadingProgress stores a single Progress marker.
type ReadingProgress struct {
	store *Store
	now   func() time.Time
}

// NewReadingProgress returns a marker backed by s.
func NewReadingProgress(s *Store) *ReadingProgress {
	return &ReadingProgress{store: s, now: time.Now}
}

// Save records surah:ayah as the last verse read.
func (r *ReadingProgress) Save(ctx context.Context, surah, ayah int) (Progress, error) {
	p := Progress{SurahNumber: surah, AyahNumber: ayah, LastRead: r.now().UTC()}
	return p, Set(ctx, r.store, config.KeyReadingProgress, p)
}

// Load returns the marker and whether one was saved.
func (r *ReadingProgress) Load(ctx context.Context) (Progress, bool) {
	p := Get(ctx, r.store, config.KeyReadingProgress, Progress{})
	return p, p.SurahNumber > 0
}
