package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/noorweb/noorweb/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHadith_Section_MergesByNumber(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/editions/urd-bukhari/sections/1.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hadiths":[{"hadithnumber":1,"text":"اعمال کا دارومدار نیت پر ہے"},{"hadithnumber":2,"text":"دوسری"}]}`))
	})
	mux.HandleFunc("/editions/ara-bukhari/sections/1.json", func(w http.ResponseWriter, r *http.Request) {
		// Reversed order and an extra entry; the Urdu order must win.
		_, _ = w.Write([]byte(`{"hadiths":[{"hadithnumber":2,"text":"الثاني"},{"hadithnumber":1,"text":"إنما الأعمال بالنيات"},{"hadithnumber":3,"text":"extra"}]}`))
	})
	mux.HandleFunc("/editions/eng-bukhari/sections/1.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	h := &provider.Hadith{Client: newTestClient(ts)}
	got, err := h.Section(context.Background(), "bukhari", 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1.0, got[0].Number)
	assert.Equal(t, "اعمال کا دارومدار نیت پر ہے", got[0].Urdu)
	assert.Equal(t, "إنما الأعمال بالنيات", got[0].Arabic)
	assert.Equal(t, "الثاني", got[1].Arabic)
	assert.Empty(t, got[0].English, "a failing edition is skipped")
}

func TestHadith_Section_Errors(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()
	h := &provider.Hadith{Client: newTestClient(ts)}

	_, err := h.Section(context.Background(), "unknown", 1)
	assert.ErrorIs(t, err, provider.ErrBadBook)
	_, err = h.Section(context.Background(), "muslim", 0)
	assert.ErrorIs(t, err, provider.ErrBadBook)

	_, err = h.Section(context.Background(), "muslim", 1)
	assert.ErrorIs(t, err, provider.ErrStatus, "the Urdu edition is required")
}

func TestHadith_Section_FetchesEditionsConcurrently(t *testing.T) {
	// Every edition handler waits until all three requests are in flight,
	// so a sequential client would stall until the barrier times out.
	var arrived sync.WaitGroup
	arrived.Add(3)
	all := make(chan struct{})
	go func() {
		arrived.Wait()
		close(all)
	}()

	texts := map[string]string{"urd": "اردو", "ara": "عربي", "eng": "English"}
	mux := http.NewServeMux()
	for ed, text := range texts {
		mux.HandleFunc("/editions/"+ed+"-bukhari/sections/1.json", func(w http.ResponseWriter, r *http.Request) {
			arrived.Done()
			select {
			case <-all:
			case <-time.After(2 * time.Second):
				w.WriteHeader(http.StatusGatewayTimeout)
				return
			}
			_, _ = w.Write([]byte(`{"hadiths":[{"hadithnumber":1,"text":"` + text + `"}]}`))
		})
	}
	ts := httptest.NewServer(mux)
	defer ts.Close()

	h := &provider.Hadith{Client: newTestClient(ts)}
	got, err := h.Section(context.Background(), "bukhari", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, provider.HadithEntry{Number: 1, Urdu: "اردو", Arabic: "عربي", English: "English"}, got[0])
}
