package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtrank/league-data/internal/config"
)

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "rankings:lifetime", Lifetime().CacheKey())
	assert.Equal(t, "rankings:season:7", ForSeason(7).CacheKey())
	assert.Equal(t, "rankings:date:2026-08-30", ForDate(day("2026-08-30")).CacheKey())

	// Distinct scopes never collide.
	keys := map[string]bool{}
	for _, s := range []Scope{
		Lifetime(), ForSeason(1), ForSeason(2), ForSeason(12),
		ForDate(day("2026-08-30")), ForDate(day("2026-08-31")),
	} {
		assert.False(t, keys[s.CacheKey()], "duplicate key %s", s.CacheKey())
		keys[s.CacheKey()] = true
	}
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("lifetime")
	require.NoError(t, err)
	assert.Equal(t, ModeLifetime, s.Mode)

	s, err = ParseScope("season/42")
	require.NoError(t, err)
	assert.Equal(t, ModeSeason, s.Mode)
	assert.Equal(t, int64(42), s.SeasonID)

	s, err = ParseScope("date/2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, ModeDate, s.Mode)
	assert.Equal(t, day("2026-08-30"), s.Date)

	for _, bad := range []string{"", "seasons/1", "season/abc", "date/30-08-2026", "date/not-a-date", "everything"} {
		_, err := ParseScope(bad)
		assert.Error(t, err, "selector %q", bad)
	}
}

func TestParseScopeRoundTrip(t *testing.T) {
	for _, s := range []Scope{Lifetime(), ForSeason(3), ForDate(day("2026-08-05"))} {
		parsed, err := ParseScope(s.String())
		require.NoError(t, err)
		assert.Equal(t, s.CacheKey(), parsed.CacheKey())
	}
}

func TestScopeTTL(t *testing.T) {
	cfg := &config.Config{
		TTLLifetime: 10 * time.Minute,
		TTLSeason:   3 * time.Minute,
		TTLDate:     15 * time.Minute,
	}
	assert.Equal(t, 10*time.Minute, Lifetime().TTL(cfg))
	assert.Equal(t, 3*time.Minute, ForSeason(1).TTL(cfg))
	assert.Equal(t, 15*time.Minute, ForDate(day("2026-08-30")).TTL(cfg))
}
