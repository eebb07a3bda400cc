package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// MatchParams are the inputs for CreateMatch and UpdateMatch.
type MatchParams struct {
	SeasonID   int64
	PlayedOn   time.Time
	Team1A     *int64
	Team1B     *int64
	Team2A     *int64
	Team2B     *int64
	Score1     int
	Score2     int
	WinnerTeam int
}

func (p *MatchParams) validate() error {
	if p.WinnerTeam != 1 && p.WinnerTeam != 2 {
		return ErrInvalidWinner
	}
	seen := make(map[int64]bool, 4)
	for _, id := range nonNil(p.Team1A, p.Team1B, p.Team2A, p.Team2B) {
		if seen[id] {
			return ErrDuplicatePlayers
		}
		seen[id] = true
	}
	if len(seen) == 0 {
		return fmt.Errorf("store: match needs at least one player")
	}
	return nil
}

// CreateMatch inserts a match after validating the player slots.
func (s *Store) CreateMatch(ctx context.Context, params MatchParams) (*Match, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	m := Match{
		SeasonID:   params.SeasonID,
		PlayedOn:   params.PlayedOn,
		Team1A:     params.Team1A,
		Team1B:     params.Team1B,
		Team2A:     params.Team2A,
		Team2B:     params.Team2B,
		Score1:     params.Score1,
		Score2:     params.Score2,
		WinnerTeam: params.WinnerTeam,
	}
	err := s.pool.QueryRow(ctx, "match_insert",
		m.SeasonID, m.PlayedOn, m.Team1A, m.Team1B, m.Team2A, m.Team2B,
		m.Score1, m.Score2, m.WinnerTeam).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	return &m, nil
}

// UpdateMatch rewrites an existing match in place.
func (s *Store) UpdateMatch(ctx context.Context, id int64, params MatchParams) error {
	if err := params.validate(); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, "match_update",
		id, params.SeasonID, params.PlayedOn, params.Team1A, params.Team1B,
		params.Team2A, params.Team2B, params.Score1, params.Score2, params.WinnerTeam)
	if err != nil {
		return fmt.Errorf("update match %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMatch returns one match by id.
func (s *Store) GetMatch(ctx context.Context, id int64) (*Match, error) {
	var m Match
	err := s.pool.QueryRow(ctx, "match_by_id", id).
		Scan(&m.ID, &m.SeasonID, &m.PlayedOn, &m.Team1A, &m.Team1B,
			&m.Team2A, &m.Team2B, &m.Score1, &m.Score2, &m.WinnerTeam, &m.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return &m, nil
}

// DeleteMatch removes a match from the log.
func (s *Store) DeleteMatch(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "match_delete", id)
	if err != nil {
		return fmt.Errorf("delete match %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMatches returns every match on record, ordered chronologically
// (played_on, created_at, id). The order is load-bearing for form
// computation.
func (s *Store) ListMatches(ctx context.Context) ([]Match, error) {
	return s.scanMatches(ctx, "matches_all")
}

// MatchesBySeason returns a season's matches in chronological order.
func (s *Store) MatchesBySeason(ctx context.Context, seasonID int64) ([]Match, error) {
	return s.scanMatches(ctx, "matches_by_season", seasonID)
}

// MatchesByDate returns one play date's matches in chronological order.
func (s *Store) MatchesByDate(ctx context.Context, day time.Time) ([]Match, error) {
	return s.scanMatches(ctx, "matches_by_date", day)
}

func (s *Store) scanMatches(ctx context.Context, stmt string, args ...any) ([]Match, error) {
	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stmt, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.SeasonID, &m.PlayedOn, &m.Team1A, &m.Team1B,
			&m.Team2A, &m.Team2B, &m.Score1, &m.Score2, &m.WinnerTeam, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// LatestPlayDate returns the most recent play date on record, or ErrNotFound
// when no matches exist.
func (s *Store) LatestPlayDate(ctx context.Context) (time.Time, error) {
	var d *time.Time
	err := s.pool.QueryRow(ctx, "latest_play_date").Scan(&d)
	if err != nil {
		return time.Time{}, fmt.Errorf("latest play date: %w", err)
	}
	if d == nil {
		return time.Time{}, ErrNotFound
	}
	return *d, nil
}
