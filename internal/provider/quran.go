package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/noorweb/noorweb/internal/config"
)

// Quran reads surahs, recitations and search results from alquran.cloud.
type Quran struct {
	Client *Client
}

// NewQuran returns a client for the public alquran.cloud API.
func NewQuran() *Quran {
	return &Quran{Client: NewClient(config.ProviderQuran, config.QuranBaseURL)}
}

// Ayah is one verse with its Arabic text and a translation.
type Ayah struct {
	Number        int    `json:"number"`
	NumberInSurah int    `json:"numberInSurah"`
	Arabic        string `json:"arabic"`
	Translation   string `json:"translation"`
	Juz           int    `json:"juz"`
	Page          int    `json:"page"`
}

// Surah is a chapter with merged verses.
type Surah struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	RevelationType         string `json:"revelationType"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	Edition                string `json:"edition"`
	Ayahs                  []Ayah `json:"ayahs"`
}

// SearchMatch is one verse matching a search.
type SearchMatch struct {
	Number        int    `json:"number"`
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah"`
	Surah         struct {
		Number      int    `json:"number"`
		Name        string `json:"name"`
		EnglishName string `json:"englishName"`
	} `json:"surah"`
}

// SearchResult lists the verses matching a search.
type SearchResult struct {
	Count   int           `json:"count"`
	Matches []SearchMatch `json:"matches"`
}

type quranAyah struct {
	Number        int    `json:"number"`
	Text          string `json:"text"`
	NumberInSurah int    `json:"numberInSurah" validate:"gte=1"`
	Juz           int    `json:"juz"`
	Page          int    `json:"page"`
}

type quranSurah struct {
	Number                 int         `json:"number" validate:"gte=1,lte=114"`
	Name                   string      `json:"name"`
	EnglishName            string      `json:"englishName"`
	EnglishNameTranslation string      `json:"englishNameTranslation"`
	RevelationType         string      `json:"revelationType"`
	NumberOfAyahs          int         `json:"numberOfAyahs"`
	Ayahs                  []quranAyah `json:"ayahs" validate:"required,dive"`
}

type surahResponse struct {
	Code int        `json:"code" validate:"eq=200"`
	Data quranSurah `json:"data"`
}

type ayahAudioResponse struct {
	Code int `json:"code" validate:"eq=200"`
	Data struct {
		Audio string `json:"audio" validate:"required,url"`
	} `json:"data"`
}

type searchResponse struct {
	Code int          `json:"code" validate:"eq=200"`
	Data SearchResult `json:"data"`
}

// Surah returns chapter number with the Arabic text merged with the given
// translation edition. An empty edition selects config.DefaultTranslation.
func (q *Quran) Surah(ctx context.Context, number int, edition string) (*Surah, error) {
	if number < config.MinSurah || number > config.MaxSurah {
		return nil, fmt.Errorf("%w: %d", ErrBadSurah, number)
	}
	if edition == "" {
		edition = config.DefaultTranslation
	}

	var arabic, translated surahResponse
	if err := q.Client.GetJSON(ctx, "surah", fmt.Sprintf(config.RouteSurah, number), nil, &arabic); err != nil {
		return nil, err
	}
	path := fmt.Sprintf(config.RouteSurahEdition, number, url.PathEscape(edition))
	if err := q.Client.GetJSON(ctx, "surah_translation", path, nil, &translated); err != nil {
		return nil, err
	}
	if len(arabic.Data.Ayahs) != len(translated.Data.Ayahs) {
		return nil, fmt.Errorf("%w: %d arabic verses, %d translated", ErrMalformed,
			len(arabic.Data.Ayahs), len(translated.Data.Ayahs))
	}

	src := arabic.Data
	out := &Surah{
		Number:                 src.Number,
		Name:                   src.Name,
		EnglishName:            src.EnglishName,
		EnglishNameTranslation: src.EnglishNameTranslation,
		RevelationType:         src.RevelationType,
		NumberOfAyahs:          src.NumberOfAyahs,
		Edition:                edition,
		Ayahs:                  make([]Ayah, len(src.Ayahs)),
	}
	for i, a := range src.Ayahs {
		out.Ayahs[i] = Ayah{
			Number:        a.Number,
			NumberInSurah: a.NumberInSurah,
			Arabic:        a.Text,
			Translation:   translated.Data.Ayahs[i].Text,
			Juz:           a.Juz,
			Page:          a.Page,
		}
	}
	return out, nil
}

// AyahAudio returns the recitation URL of one verse. An empty reciter
// selects config.DefaultReciter.
func (q *Quran) AyahAudio(ctx context.Context, surah, ayah int, reciter string) (string, error) {
	if surah < config.MinSurah || surah > config.MaxSurah || ayah < 1 {
		return "", fmt.Errorf("%w: %d:%d", ErrBadSurah, surah, ayah)
	}
	if reciter == "" {
		reciter = config.DefaultReciter
	}
	var resp ayahAudioResponse
	path := fmt.Sprintf(config.RouteAyahEdition, surah, ayah, url.PathEscape(reciter))
	if err := q.Client.GetJSON(ctx, "ayah_audio", path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.Audio, nil
}

// Search looks text up in an edition. The API answers 404 when nothing
// matches, which is reported as an empty result.
func (q *Quran) Search(ctx context.Context, text, edition string) (SearchResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SearchResult{}, nil
	}
	if edition == "" {
		edition = config.DefaultTranslation
	}
	var resp searchResponse
	path := fmt.Sprintf(config.RouteQuranSearch, url.PathEscape(text), url.PathEscape(edition))
	err := q.Client.GetJSON(ctx, "search", path, nil, &resp)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return SearchResult{}, nil
	}
	if err != nil {
		return SearchResult{}, err
	}
	return resp.Data, nil
}
