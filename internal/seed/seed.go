// Package seed provides demo-data insertion for local development.
package seed

import (
	"context"
	"fmt"

	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/store"
)

// Result tracks counts and errors from a seeding operation.
type Result struct {
	Players int
	Seasons int
	Matches int
	Errors  []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	return fmt.Sprintf("players=%d seasons=%d matches=%d errors=%d",
		r.Players, r.Seasons, r.Matches, len(r.Errors))
}

// Demo inserts a small sample league: six players, one active season with a
// fee override, and a week of matches. Intended for empty databases; on a
// populated one the unique player names will collide and be reported.
func Demo(ctx context.Context, st *store.Store) Result {
	var result Result

	names := []string{"Anna", "Boris", "Carla", "Dmitri", "Elena", "Farid"}
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		p, err := st.CreatePlayer(ctx, name)
		if err != nil {
			result.AddErrorf("player %s: %v", name, err)
			continue
		}
		ids[name] = p.ID
		result.Players++
	}

	fee := int64(50000)
	start, _ := ranking.ParseDate("2026-08-01")
	season, err := st.CreateSeason(ctx, store.CreateSeasonParams{
		Name:      "Autumn 2026",
		StartDate: start,
		Active:    true,
		LossFee:   &fee,
	})
	if err != nil {
		result.AddErrorf("season: %v", err)
		return result
	}
	result.Seasons++

	matches := []struct {
		day    string
		team1  [2]string
		team2  [2]string
		s1, s2 int
		winner int
	}{
		{"2026-08-03", [2]string{"Anna", "Boris"}, [2]string{"Carla", "Dmitri"}, 6, 2, 1},
		{"2026-08-03", [2]string{"Elena", "Farid"}, [2]string{"Anna", "Carla"}, 6, 4, 1},
		{"2026-08-05", [2]string{"Boris", "Dmitri"}, [2]string{"Elena", "Anna"}, 3, 6, 2},
		{"2026-08-05", [2]string{"Carla", "Farid"}, [2]string{"Boris", "Elena"}, 7, 5, 1},
		{"2026-08-08", [2]string{"Anna", "Dmitri"}, [2]string{"Farid", "Boris"}, 6, 1, 1},
	}
	for _, m := range matches {
		day, _ := ranking.ParseDate(m.day)
		t1a, t1b := ids[m.team1[0]], ids[m.team1[1]]
		t2a, t2b := ids[m.team2[0]], ids[m.team2[1]]
		_, err := st.CreateMatch(ctx, store.MatchParams{
			SeasonID:   season.ID,
			PlayedOn:   day,
			Team1A:     &t1a,
			Team1B:     &t1b,
			Team2A:     &t2a,
			Team2B:     &t2b,
			Score1:     m.s1,
			Score2:     m.s2,
			WinnerTeam: m.winner,
		})
		if err != nil {
			result.AddErrorf("match on %s: %v", m.day, err)
			continue
		}
		result.Matches++
	}

	return result
}
