package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtrank/league-data/internal/cache"
	"github.com/courtrank/league-data/internal/config"
	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/store"
)

type fakeSource struct {
	matches []store.Match
}

func (f *fakeSource) MatchesInScope(ctx context.Context, scope ranking.Scope) ([]store.Match, error) {
	return f.matches, nil
}

func (f *fakeSource) ListPlayers(ctx context.Context) ([]store.Player, error) {
	return []store.Player{{ID: 1, Name: "Anna"}, {ID: 2, Name: "Boris"}}, nil
}

func (f *fakeSource) SeasonFees(ctx context.Context) (map[int64]int64, error) {
	return map[int64]int64{}, nil
}

func testHandler(src ranking.Source) *Handler {
	return &Handler{
		src:   src,
		cache: cache.New(true),
		cfg: &config.Config{
			TTLLifetime: time.Minute,
			TTLSeason:   time.Minute,
			TTLDate:     time.Minute,
			LossFee:     config.DefaultLossFee,
			FormLength:  config.DefaultFormLength,
		},
	}
}

func oneMatch() []store.Match {
	played, _ := time.Parse(ranking.DateFormat, "2026-08-05")
	a, b := int64(1), int64(2)
	return []store.Match{{
		ID: 1, SeasonID: 1, PlayedOn: played,
		Team1A: &a, Team2A: &b, WinnerTeam: 1,
	}}
}

func TestLifetimeRankingsCacheFlow(t *testing.T) {
	h := testHandler(&fakeSource{matches: oneMatch()})

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.GetLifetimeRankings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rankings/lifetime", nil))
		return rec
	}

	// First read computes and caches.
	first := get()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	var rows []ranking.Row
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Anna", rows[0].Name)
	assert.Equal(t, 4, rows[0].Points)

	// Second read hits the cache with an identical body.
	second := get()
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, first.Header().Get("ETag"), second.Header().Get("ETag"))

	// A clear (what every mutation issues) forces recomputation.
	h.cache.Clear()
	third := get()
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
}

func TestLifetimeRankingsNotModified(t *testing.T) {
	h := testHandler(&fakeSource{matches: oneMatch()})

	rec := httptest.NewRecorder()
	h.GetLifetimeRankings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rankings/lifetime", nil))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rankings/lifetime", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.GetLifetimeRankings(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestDateRankingsRejectsMalformedDate(t *testing.T) {
	h := testHandler(&fakeSource{})

	r := chi.NewRouter()
	r.Get("/rankings/date/{date}", h.GetDateRankings)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rankings/date/30-08-2026", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeasonRankingsRejectsNonIntegerID(t *testing.T) {
	h := testHandler(&fakeSource{})

	r := chi.NewRouter()
	r.Get("/rankings/season/{id}", h.GetSeasonRankings)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rankings/season/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
