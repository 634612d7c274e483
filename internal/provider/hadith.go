package provider

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/noorweb/noorweb/internal/config"
)

// Hadith reads collection sections from the hadith-api CDN.
type Hadith struct {
	Client *Client
}

// NewHadith returns a client for the public hadith CDN.
func NewHadith() *Hadith {
	return &Hadith{Client: NewClient(config.ProviderHadith, config.HadithBaseURL)}
}

// HadithEntry is one narration in up to three languages.
type HadithEntry struct {
	Number  float64 `json:"number"`
	Urdu    string  `json:"urdu"`
	Arabic  string  `json:"arabic,omitempty"`
	English string  `json:"english,omitempty"`
}

type hadithSection struct {
	Hadiths []struct {
		Number float64 `json:"hadithnumber"`
		Text   string  `json:"text"`
	} `json:"hadiths" validate:"required"`
}

// Section returns one section of book, merged by hadith number. The Urdu
// edition drives the order and is required; Arabic and English are filled
// in when available.
func (h *Hadith) Section(ctx context.Context, book string, section int) ([]HadithEntry, error) {
	if !slices.Contains(config.HadithBooks, book) || section < 1 {
		return nil, fmt.Errorf("%w: %s/%d", ErrBadBook, book, section)
	}

	// The three editions are fetched concurrently. Only the Urdu one can
	// fail the request.
	var urdu *hadithSection
	others := make(map[string]*hadithSection, 2)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		urdu, err = h.fetch(gctx, config.HadithEditionUrdu, book, section)
		return err
	})
	for _, lang := range []string{config.HadithEditionArabic, config.HadithEditionEnglish} {
		g.Go(func() error {
			other, err := h.fetch(gctx, lang, book, section)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if gctx.Err() == nil {
					slog.Warn(config.MsgFetchStatus,
						config.LogKeyComponent, config.CompProvider,
						config.LogKeyProvider, config.ProviderHadith,
						config.LogKeyLang, lang,
						config.LogKeyError, err,
					)
				}
				return nil
			}
			mu.Lock()
			others[lang] = other
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]HadithEntry, 0, len(urdu.Hadiths))
	index := make(map[float64]int, len(urdu.Hadiths))
	for _, e := range urdu.Hadiths {
		index[e.Number] = len(out)
		out = append(out, HadithEntry{Number: e.Number, Urdu: e.Text})
	}

	for lang, other := range others {
		for _, e := range other.Hadiths {
			i, ok := index[e.Number]
			if !ok {
				continue
			}
			if lang == config.HadithEditionArabic {
				out[i].Arabic = e.Text
			} else {
				out[i].English = e.Text
			}
		}
	}
	return out, nil
}

func (h *Hadith) fetch(ctx context.Context, edition, book string, section int) (*hadithSection, error) {
	var resp hadithSection
	path := fmt.Sprintf(config.RouteHadithSection, edition, book, section)
	if err := h.Client.GetJSON(ctx, "section_"+edition, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
