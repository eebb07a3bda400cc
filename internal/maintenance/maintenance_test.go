package maintenance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtrank/league-data/internal/cache"
	"github.com/courtrank/league-data/internal/config"
	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/store"
)

type fakeWarmSource struct {
	matches []store.Match
	players []store.Player
	season  *store.Season
	latest  time.Time
}

func (f *fakeWarmSource) MatchesInScope(ctx context.Context, scope ranking.Scope) ([]store.Match, error) {
	return f.matches, nil
}

func (f *fakeWarmSource) ListPlayers(ctx context.Context) ([]store.Player, error) {
	return f.players, nil
}

func (f *fakeWarmSource) SeasonFees(ctx context.Context) (map[int64]int64, error) {
	return map[int64]int64{}, nil
}

func (f *fakeWarmSource) ActiveSeason(ctx context.Context) (*store.Season, error) {
	if f.season == nil {
		return nil, store.ErrNoActiveSeason
	}
	return f.season, nil
}

func (f *fakeWarmSource) LatestPlayDate(ctx context.Context) (time.Time, error) {
	if f.latest.IsZero() {
		return time.Time{}, store.ErrNotFound
	}
	return f.latest, nil
}

func testConfig() *config.Config {
	return &config.Config{
		TTLLifetime: time.Minute,
		TTLSeason:   time.Minute,
		TTLDate:     time.Minute,
		LossFee:     config.DefaultLossFee,
		FormLength:  config.DefaultFormLength,
		WarmupDelay: time.Hour, // keep the delayed warm-up out of test timing
	}
}

func player(id int64) *int64 { return &id }

func fixtureSource() *fakeWarmSource {
	played, _ := time.Parse(ranking.DateFormat, "2026-08-05")
	return &fakeWarmSource{
		players: []store.Player{{ID: 1, Name: "Anna"}, {ID: 2, Name: "Boris"}},
		matches: []store.Match{{
			ID: 1, SeasonID: 3, PlayedOn: played,
			Team1A: player(1), Team2A: player(2), WinnerTeam: 1,
		}},
		season: &store.Season{ID: 3, Name: "Autumn 2026", Active: true},
		latest: played,
	}
}

func TestPreloadCommonData(t *testing.T) {
	c := cache.New(true)
	inv := NewInvalidator(fixtureSource(), c, testConfig(), slog.Default())

	inv.PreloadCommonData(context.Background())

	for _, key := range []string{
		"rankings:lifetime",
		"rankings:season:3",
		"rankings:date:2026-08-05",
	} {
		data, _, ok := c.Get(key)
		require.True(t, ok, "expected %s warmed", key)
		assert.NotEmpty(t, data)
	}
}

func TestPreloadSkipsMissingScopes(t *testing.T) {
	src := fixtureSource()
	src.season = nil
	src.latest = time.Time{}

	c := cache.New(true)
	inv := NewInvalidator(src, c, testConfig(), slog.Default())
	inv.PreloadCommonData(context.Background())

	_, _, ok := c.Get("rankings:lifetime")
	assert.True(t, ok)
	_, _, ok = c.Get("rankings:season:3")
	assert.False(t, ok)
}

func TestOnMutationClearsSynchronously(t *testing.T) {
	c := cache.New(true)
	inv := NewInvalidator(fixtureSource(), c, testConfig(), slog.Default())

	c.Set("rankings:lifetime", []byte("stale"), time.Minute)
	inv.OnMutation()

	// The clear completed before OnMutation returned; the delayed warm-up is
	// an hour away.
	_, _, ok := c.Get("rankings:lifetime")
	assert.False(t, ok)
}
