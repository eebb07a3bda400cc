package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateSeasonParams are the inputs for CreateSeason.
type CreateSeasonParams struct {
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	Active    bool
	LossFee   *int64
}

// CreateSeason inserts a season. The partial unique index on active seasons
// rejects a second active season; that surfaces as ErrActiveSeasonExists.
func (s *Store) CreateSeason(ctx context.Context, params CreateSeasonParams) (*Season, error) {
	var sn Season
	err := s.pool.QueryRow(ctx, "season_insert",
		params.Name, params.StartDate, params.EndDate, params.Active, params.LossFee).
		Scan(&sn.ID, &sn.Name, &sn.StartDate, &sn.EndDate, &sn.Active, &sn.LossFee, &sn.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrActiveSeasonExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert season: %w", err)
	}
	return &sn, nil
}

// GetSeason returns one season by id.
func (s *Store) GetSeason(ctx context.Context, id int64) (*Season, error) {
	var sn Season
	err := s.pool.QueryRow(ctx, "season_by_id", id).
		Scan(&sn.ID, &sn.Name, &sn.StartDate, &sn.EndDate, &sn.Active, &sn.LossFee, &sn.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get season %d: %w", id, err)
	}
	return &sn, nil
}

// ListSeasons returns all seasons, newest first.
func (s *Store) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := s.pool.Query(ctx, "seasons_list")
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var sn Season
		if err := rows.Scan(&sn.ID, &sn.Name, &sn.StartDate, &sn.EndDate,
			&sn.Active, &sn.LossFee, &sn.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, sn)
	}
	return seasons, rows.Err()
}

// ActiveSeason returns the currently active season, or ErrNoActiveSeason.
func (s *Store) ActiveSeason(ctx context.Context) (*Season, error) {
	var sn Season
	err := s.pool.QueryRow(ctx, "season_active").
		Scan(&sn.ID, &sn.Name, &sn.StartDate, &sn.EndDate, &sn.Active, &sn.LossFee, &sn.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNoActiveSeason
	}
	if err != nil {
		return nil, fmt.Errorf("get active season: %w", err)
	}
	return &sn, nil
}

// EndSeason closes a season: end date set, active flag cleared.
func (s *Store) EndSeason(ctx context.Context, id int64, endDate time.Time) error {
	tag, err := s.pool.Exec(ctx, "season_end", id, endDate)
	if err != nil {
		return fmt.Errorf("end season %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReactivateSeason reopens an ended season. Fails with ErrActiveSeasonExists
// if another season is active.
func (s *Store) ReactivateSeason(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "season_reopen", id)
	if isUniqueViolation(err) {
		return ErrActiveSeasonExists
	}
	if err != nil {
		return fmt.Errorf("reactivate season %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSeason removes an inactive season and, via cascade, its matches and
// roster. Active seasons must be ended first.
func (s *Store) DeleteSeason(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "season_delete", id)
	if err != nil {
		return fmt.Errorf("delete season %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "missing" from "still active" for a useful client error.
		if _, getErr := s.GetSeason(ctx, id); getErr == nil {
			return ErrSeasonActive
		}
		return ErrNotFound
	}
	return nil
}

// SeasonFees returns the per-season loss fee overrides. Seasons without an
// override are absent from the map.
func (s *Store) SeasonFees(ctx context.Context) (map[int64]int64, error) {
	rows, err := s.pool.Query(ctx, "season_fees")
	if err != nil {
		return nil, fmt.Errorf("list season fees: %w", err)
	}
	defer rows.Close()

	fees := make(map[int64]int64)
	for rows.Next() {
		var id, fee int64
		if err := rows.Scan(&id, &fee); err != nil {
			return nil, fmt.Errorf("scan season fee: %w", err)
		}
		fees[id] = fee
	}
	return fees, rows.Err()
}

// SeasonRoster returns the explicit roster for a season, empty when the
// season is open to all players.
func (s *Store) SeasonRoster(ctx context.Context, seasonID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, "roster_list", seasonID)
	if err != nil {
		return nil, fmt.Errorf("list roster for season %d: %w", seasonID, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetSeasonRoster replaces a season's roster with the given player ids.
func (s *Store) SetSeasonRoster(ctx context.Context, seasonID int64, playerIDs []int64) error {
	if _, err := s.GetSeason(ctx, seasonID); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "roster_clear", seasonID); err != nil {
			return fmt.Errorf("clear roster: %w", err)
		}
		for _, pid := range playerIDs {
			if _, err := tx.Exec(ctx, "roster_insert", seasonID, pid); err != nil {
				return fmt.Errorf("insert roster entry %d: %w", pid, err)
			}
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
