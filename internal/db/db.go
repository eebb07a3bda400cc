// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtrank/league-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers every statement the store uses.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Players
		"player_insert": "INSERT INTO players (name) VALUES ($1) RETURNING id, name, created_at",
		"player_by_id":  "SELECT id, name, created_at FROM players WHERE id = $1",
		"players_list":  "SELECT id, name, created_at FROM players ORDER BY name",
		"player_delete": "DELETE FROM players WHERE id = $1",

		// Seasons
		"season_insert": "INSERT INTO seasons (name, start_date, end_date, active, loss_fee) VALUES ($1, $2, $3, $4, $5) RETURNING id, name, start_date, end_date, active, loss_fee, created_at",
		"season_by_id":  "SELECT id, name, start_date, end_date, active, loss_fee, created_at FROM seasons WHERE id = $1",
		"seasons_list":  "SELECT id, name, start_date, end_date, active, loss_fee, created_at FROM seasons ORDER BY start_date DESC, id DESC",
		"season_active": "SELECT id, name, start_date, end_date, active, loss_fee, created_at FROM seasons WHERE active LIMIT 1",
		"season_end":    "UPDATE seasons SET active = FALSE, end_date = $2 WHERE id = $1",
		"season_reopen": "UPDATE seasons SET active = TRUE, end_date = NULL WHERE id = $1",
		"season_delete": "DELETE FROM seasons WHERE id = $1 AND NOT active",
		"season_fees":   "SELECT id, loss_fee FROM seasons WHERE loss_fee IS NOT NULL",

		// Season rosters
		"roster_list":   "SELECT player_id FROM season_players WHERE season_id = $1 ORDER BY player_id",
		"roster_clear":  "DELETE FROM season_players WHERE season_id = $1",
		"roster_insert": "INSERT INTO season_players (season_id, player_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",

		// Matches
		"match_insert": "INSERT INTO matches (season_id, played_on, team1_a, team1_b, team2_a, team2_b, score1, score2, winner_team) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at",
		"match_update": "UPDATE matches SET season_id = $2, played_on = $3, team1_a = $4, team1_b = $5, team2_a = $6, team2_b = $7, score1 = $8, score2 = $9, winner_team = $10 WHERE id = $1",
		"match_by_id":  "SELECT id, season_id, played_on, team1_a, team1_b, team2_a, team2_b, score1, score2, winner_team, created_at FROM matches WHERE id = $1",
		"match_delete": "DELETE FROM matches WHERE id = $1",

		// Match listings by scope
		"matches_all":       "SELECT id, season_id, played_on, team1_a, team1_b, team2_a, team2_b, score1, score2, winner_team, created_at FROM matches ORDER BY played_on, created_at, id",
		"matches_by_season": "SELECT id, season_id, played_on, team1_a, team1_b, team2_a, team2_b, score1, score2, winner_team, created_at FROM matches WHERE season_id = $1 ORDER BY played_on, created_at, id",
		"matches_by_date":   "SELECT id, season_id, played_on, team1_a, team1_b, team2_a, team2_b, score1, score2, winner_team, created_at FROM matches WHERE played_on = $1 ORDER BY played_on, created_at, id",
		"latest_play_date":  "SELECT MAX(played_on) FROM matches",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
