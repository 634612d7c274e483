package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/noorweb/noorweb/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quranServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/surah/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"number":1,"name":"سُورَةُ ٱلْفَاتِحَةِ","englishName":"Al-Faatiha","numberOfAyahs":2,
			"ayahs":[{"number":1,"text":"بِسْمِ ٱللَّهِ","numberInSurah":1,"juz":1,"page":1},{"number":2,"text":"ٱلْحَمْدُ لِلَّهِ","numberInSurah":2,"juz":1,"page":1}]}}`))
	})
	mux.HandleFunc("/surah/1/ur.jalandhry", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"number":1,"ayahs":[{"number":1,"text":"شروع اللہ کا نام لے کر","numberInSurah":1},{"number":2,"text":"سب طرح کی تعریف خدا ہی کو","numberInSurah":2}]}}`))
	})
	mux.HandleFunc("/surah/2/ur.jalandhry", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"number":2,"ayahs":[{"number":8,"text":"x","numberInSurah":1}]}}`))
	})
	mux.HandleFunc("/surah/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"number":2,"ayahs":[{"number":8,"text":"a","numberInSurah":1},{"number":9,"text":"b","numberInSurah":2}]}}`))
	})
	mux.HandleFunc("/ayah/1:1/ar.alafasy", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"audio":"https://cdn.islamic.network/quran/audio/128/ar.alafasy/1.mp3"}}`))
	})
	mux.HandleFunc("/search/mercy/en.sahih", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{"count":1,"matches":[{"number":1,"text":"In the name of Allah, the Most Merciful","numberInSurah":1,"surah":{"number":1,"englishName":"Al-Faatiha"}}]}}`))
	})
	mux.HandleFunc("/search/zzz/en.sahih", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"data":"Not found"}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestQuran_Surah(t *testing.T) {
	q := &provider.Quran{Client: newTestClient(quranServer(t))}

	s, err := q.Surah(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, "ur.jalandhry", s.Edition)
	require.Len(t, s.Ayahs, 2)
	assert.Equal(t, "بِسْمِ ٱللَّهِ", s.Ayahs[0].Arabic)
	assert.Equal(t, "شروع اللہ کا نام لے کر", s.Ayahs[0].Translation)
	assert.Equal(t, 2, s.Ayahs[1].NumberInSurah)
}

func TestQuran_Surah_Errors(t *testing.T) {
	q := &provider.Quran{Client: newTestClient(quranServer(t))}

	_, err := q.Surah(context.Background(), 0, "")
	assert.ErrorIs(t, err, provider.ErrBadSurah)
	_, err = q.Surah(context.Background(), 115, "")
	assert.ErrorIs(t, err, provider.ErrBadSurah)

	_, err = q.Surah(context.Background(), 2, "")
	assert.ErrorIs(t, err, provider.ErrMalformed, "verse counts must match")
}

func TestQuran_AyahAudio(t *testing.T) {
	q := &provider.Quran{Client: newTestClient(quranServer(t))}

	audio, err := q.AyahAudio(context.Background(), 1, 1, "")
	require.NoError(t, err)
	assert.Contains(t, audio, "ar.alafasy/1.mp3")

	_, err = q.AyahAudio(context.Background(), 1, 0, "")
	assert.ErrorIs(t, err, provider.ErrBadSurah)
}

func TestQuran_Search(t *testing.T) {
	q := &provider.Quran{Client: newTestClient(quranServer(t))}

	res, err := q.Search(context.Background(), "mercy", "en.sahih")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "Al-Faatiha", res.Matches[0].Surah.EnglishName)

	res, err = q.Search(context.Background(), "zzz", "en.sahih")
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	res, err = q.Search(context.Background(), "   ", "en.sahih")
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
}
