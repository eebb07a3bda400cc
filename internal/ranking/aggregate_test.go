package ranking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtrank/league-data/internal/store"
)

// fakeSource serves canned data; matches are returned as stored regardless
// of scope unless filterScope is set.
type fakeSource struct {
	players []store.Player
	matches []store.Match
	fees    map[int64]int64
	err     error
}

func (f *fakeSource) MatchesInScope(ctx context.Context, scope Scope) ([]store.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	if scope.Mode == ModeSeason {
		var out []store.Match
		for _, m := range f.matches {
			if m.SeasonID == scope.SeasonID {
				out = append(out, m)
			}
		}
		return out, nil
	}
	if scope.Mode == ModeDate {
		var out []store.Match
		for _, m := range f.matches {
			if m.PlayedOn.Equal(scope.Date) {
				out = append(out, m)
			}
		}
		return out, nil
	}
	return f.matches, nil
}

func (f *fakeSource) ListPlayers(ctx context.Context) ([]store.Player, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.players, nil
}

func (f *fakeSource) SeasonFees(ctx context.Context) (map[int64]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.fees == nil {
		return map[int64]int64{}, nil
	}
	return f.fees, nil
}

func day(s string) time.Time {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr(v int64) *int64 { return &v }

func doubles(id, season int64, played string, t1a, t1b, t2a, t2b int64, winner int) store.Match {
	return store.Match{
		ID:         id,
		SeasonID:   season,
		PlayedOn:   day(played),
		Team1A:     ptr(t1a),
		Team1B:     ptr(t1b),
		Team2A:     ptr(t2a),
		Team2B:     ptr(t2b),
		WinnerTeam: winner,
		CreatedAt:  day(played),
	}
}

func fourPlayers() []store.Player {
	return []store.Player{
		{ID: 1, Name: "Anna"},
		{ID: 2, Name: "Boris"},
		{ID: 3, Name: "Carla"},
		{ID: 4, Name: "Dmitri"},
	}
}

func TestComputeLifetimeSingleMatch(t *testing.T) {
	// A+B beat C+D 6-2: winners get 4 points and no fee, losers get 1 point
	// and pay the default fee.
	src := &fakeSource{
		players: fourPlayers(),
		matches: []store.Match{doubles(1, 1, "2026-08-03", 1, 2, 3, 4, 1)},
	}

	rows, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Winners first (4 points), ordered by name within the tie.
	assert.Equal(t, "Anna", rows[0].Name)
	assert.Equal(t, "Boris", rows[1].Name)
	for _, r := range rows[:2] {
		assert.Equal(t, 1, r.TotalMatches)
		assert.Equal(t, 1, r.Wins)
		assert.Equal(t, 0, r.Losses)
		assert.Equal(t, 4, r.Points)
		assert.Equal(t, 100, r.WinPercentage)
		assert.Equal(t, int64(0), r.MoneyLost)
	}

	assert.Equal(t, "Carla", rows[2].Name)
	assert.Equal(t, "Dmitri", rows[3].Name)
	for _, r := range rows[2:] {
		assert.Equal(t, 1, r.TotalMatches)
		assert.Equal(t, 0, r.Wins)
		assert.Equal(t, 1, r.Losses)
		assert.Equal(t, 1, r.Points)
		assert.Equal(t, 0, r.WinPercentage)
		assert.Equal(t, int64(20000), r.MoneyLost)
	}
}

func TestComputeSeasonFeeOverride(t *testing.T) {
	src := &fakeSource{
		players: fourPlayers(),
		matches: []store.Match{doubles(1, 7, "2026-08-03", 1, 2, 3, 4, 1)},
		fees:    map[int64]int64{7: 50000},
	}

	rows, err := Compute(context.Background(), src, ForSeason(7), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	for _, r := range rows {
		if r.Losses == 1 {
			assert.Equal(t, int64(50000), r.MoneyLost)
		} else {
			assert.Equal(t, int64(0), r.MoneyLost)
		}
	}
}

func TestComputeWinPercentageRounding(t *testing.T) {
	// Anna wins 3 of 4 → 75%.
	matches := []store.Match{
		doubles(1, 1, "2026-08-01", 1, 2, 3, 4, 1),
		doubles(2, 1, "2026-08-02", 1, 3, 2, 4, 1),
		doubles(3, 1, "2026-08-03", 1, 4, 2, 3, 1),
		doubles(4, 1, "2026-08-04", 1, 2, 3, 4, 2),
	}
	src := &fakeSource{players: fourPlayers(), matches: matches}

	rows, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)

	anna := findRow(t, rows, "Anna")
	assert.Equal(t, 4, anna.TotalMatches)
	assert.Equal(t, 3, anna.Wins)
	assert.Equal(t, 1, anna.Losses)
	assert.Equal(t, 75, anna.WinPercentage)
	assert.Equal(t, 13, anna.Points)
}

func TestComputeExcludesPlayersWithoutMatches(t *testing.T) {
	players := append(fourPlayers(), store.Player{ID: 5, Name: "Elena"})
	src := &fakeSource{
		players: players,
		matches: []store.Match{doubles(1, 1, "2026-08-03", 1, 2, 3, 4, 1)},
	}

	rows, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.NotEqual(t, "Elena", r.Name)
		assert.Positive(t, r.TotalMatches)
	}
}

func TestComputeParticipationSums(t *testing.T) {
	// Total wins across the table equals winning-team participations, same
	// for losses; points follow 4w+1l.
	matches := []store.Match{
		doubles(1, 1, "2026-08-01", 1, 2, 3, 4, 1),
		doubles(2, 1, "2026-08-02", 1, 3, 2, 4, 2),
		doubles(3, 1, "2026-08-03", 2, 3, 1, 4, 1),
	}
	src := &fakeSource{players: fourPlayers(), matches: matches}

	rows, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)

	winPart, lossPart := 0, 0
	for _, m := range matches {
		winPart += len(m.Winners())
		lossPart += len(m.Losers())
	}

	sumWins, sumLosses, sumPoints := 0, 0, 0
	for _, r := range rows {
		sumWins += r.Wins
		sumLosses += r.Losses
		sumPoints += r.Points
	}
	assert.Equal(t, winPart, sumWins)
	assert.Equal(t, lossPart, sumLosses)
	assert.Equal(t, PointsPerWin*winPart+PointsPerLoss*lossPart, sumPoints)
}

func TestComputeDeterministicOrder(t *testing.T) {
	matches := []store.Match{
		doubles(1, 1, "2026-08-01", 1, 2, 3, 4, 1),
		doubles(2, 1, "2026-08-02", 3, 4, 1, 2, 1),
		doubles(3, 1, "2026-08-03", 1, 3, 2, 4, 2),
	}
	src := &fakeSource{players: fourPlayers(), matches: matches}

	first, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Compute(context.Background(), src, Lifetime(), Options{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeTieBreakByName(t *testing.T) {
	// One match: all four players have distinct records, but the two winners
	// tie exactly, as do the two losers. Names break both ties.
	src := &fakeSource{
		players: []store.Player{
			{ID: 1, Name: "Zoe"},
			{ID: 2, Name: "Abel"},
			{ID: 3, Name: "Yuri"},
			{ID: 4, Name: "Bea"},
		},
		matches: []store.Match{doubles(1, 1, "2026-08-03", 1, 2, 3, 4, 1)},
	}

	rows, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Abel", "Zoe", "Bea", "Yuri"},
		[]string{rows[0].Name, rows[1].Name, rows[2].Name, rows[3].Name})
}

func TestComputeForm(t *testing.T) {
	// Seven matches for Anna; the form keeps the last five, oldest first.
	var matches []store.Match
	days := []string{
		"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04",
		"2026-08-05", "2026-08-06", "2026-08-07",
	}
	for i, d := range days {
		winner := 1
		if i%3 == 2 { // losses on the 3rd and 6th outing
			winner = 2
		}
		matches = append(matches, doubles(int64(i+1), 1, d, 1, 2, 3, 4, winner))
	}
	src := &fakeSource{players: fourPlayers(), matches: matches}

	rows, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)

	anna := findRow(t, rows, "Anna")
	require.Len(t, anna.Form, 5)
	assert.Equal(t, FormEntry{Result: ResultLoss, PlayDate: "2026-08-03"}, anna.Form[0])
	assert.Equal(t, FormEntry{Result: ResultWin, PlayDate: "2026-08-04"}, anna.Form[1])
	assert.Equal(t, FormEntry{Result: ResultWin, PlayDate: "2026-08-05"}, anna.Form[2])
	assert.Equal(t, FormEntry{Result: ResultLoss, PlayDate: "2026-08-06"}, anna.Form[3])
	assert.Equal(t, FormEntry{Result: ResultWin, PlayDate: "2026-08-07"}, anna.Form[4])
}

func TestComputeSoloVariant(t *testing.T) {
	// One-a-side match: only two participants, both counted once.
	m := store.Match{
		ID: 1, SeasonID: 1, PlayedOn: day("2026-08-03"),
		Team1A: ptr(int64(1)), Team2A: ptr(int64(3)), WinnerTeam: 2,
	}
	src := &fakeSource{players: fourPlayers(), matches: []store.Match{m}}

	rows, err := Compute(context.Background(), src, Lifetime(), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Carla", rows[0].Name)
	assert.Equal(t, 1, rows[0].Wins)
	assert.Equal(t, "Anna", rows[1].Name)
	assert.Equal(t, 1, rows[1].Losses)
}

func TestComputeEmptyScope(t *testing.T) {
	src := &fakeSource{players: fourPlayers()}
	rows, err := Compute(context.Background(), src, ForSeason(99), Options{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestComputePropagatesStoreError(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	_, err := Compute(context.Background(), src, Lifetime(), Options{})
	assert.Error(t, err)
}

func findRow(t *testing.T, rows []Row, name string) Row {
	t.Helper()
	for _, r := range rows {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no row for %s", name)
	return Row{}
}
