// Package store is the canonical persistence layer for league data:
// players, seasons, rosters, and the match log. All access goes through
// prepared statements registered in internal/db.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/courtrank/league-data/internal/db"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicatePlayers is returned when a match names the same player twice.
	ErrDuplicatePlayers = errors.New("store: match players must be distinct")

	// ErrDuplicateName is returned when a player name is already taken.
	ErrDuplicateName = errors.New("store: player name already exists")

	// ErrInvalidWinner is returned when the winning team is not 1 or 2.
	ErrInvalidWinner = errors.New("store: winner team must be 1 or 2")

	// ErrSeasonActive is returned when deleting a season that is still active.
	ErrSeasonActive = errors.New("store: cannot delete an active season")

	// ErrActiveSeasonExists is returned when activating a season while
	// another one is already active.
	ErrActiveSeasonExists = errors.New("store: another season is already active")

	// ErrNoActiveSeason is returned when an operation needs an active season
	// and none exists.
	ErrNoActiveSeason = errors.New("store: no active season")
)

// Player is a league member. Names are unique.
type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Season groups matches into a ranking period. At most one season is active
// at a time. LossFee, when set, overrides the global default fee for matches
// played in this season.
type Season struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Active    bool       `json:"active"`
	LossFee   *int64     `json:"loss_fee,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Match is one doubles match. Team slots are nullable so reduced rosters
// (one-a-side) can be recorded; non-nil slots must be pairwise distinct.
type Match struct {
	ID         int64     `json:"id"`
	SeasonID   int64     `json:"season_id"`
	PlayedOn   time.Time `json:"played_on"`
	Team1A     *int64    `json:"team1_a,omitempty"`
	Team1B     *int64    `json:"team1_b,omitempty"`
	Team2A     *int64    `json:"team2_a,omitempty"`
	Team2B     *int64    `json:"team2_b,omitempty"`
	Score1     int       `json:"score1"`
	Score2     int       `json:"score2"`
	WinnerTeam int       `json:"winner_team"`
	CreatedAt  time.Time `json:"created_at"`
}

// Team1 returns the non-nil player IDs on team 1.
func (m *Match) Team1() []int64 { return nonNil(m.Team1A, m.Team1B) }

// Team2 returns the non-nil player IDs on team 2.
func (m *Match) Team2() []int64 { return nonNil(m.Team2A, m.Team2B) }

// Winners returns the player IDs on the winning team.
func (m *Match) Winners() []int64 {
	if m.WinnerTeam == 1 {
		return m.Team1()
	}
	return m.Team2()
}

// Losers returns the player IDs on the losing team.
func (m *Match) Losers() []int64 {
	if m.WinnerTeam == 1 {
		return m.Team2()
	}
	return m.Team1()
}

func nonNil(ids ...*int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}

// Store exposes all league persistence operations over a shared pool.
type Store struct {
	pool *db.Pool
}

// New creates a Store over an established pool.
func New(pool *db.Pool) *Store {
	return &Store{pool: pool}
}

// HealthCheck verifies the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.HealthCheck(ctx)
}
