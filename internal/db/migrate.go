package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL is the full league schema. Every statement is idempotent so
// Migrate can run on every deploy.
//
// Deleting a player cascades into matches: any match the player took part in
// is removed outright. That mirrors the league's house rule that a departed
// player's results are struck from the record.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS players (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS seasons (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    loss_fee BIGINT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_loss_fee CHECK (loss_fee IS NULL OR loss_fee >= 0)
);

-- At most one season may be active at a time.
CREATE UNIQUE INDEX IF NOT EXISTS idx_seasons_single_active
    ON seasons ((TRUE)) WHERE active;

CREATE TABLE IF NOT EXISTS season_players (
    season_id BIGINT NOT NULL REFERENCES seasons(id) ON DELETE CASCADE,
    player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    PRIMARY KEY (season_id, player_id)
);

CREATE TABLE IF NOT EXISTS matches (
    id BIGSERIAL PRIMARY KEY,
    season_id BIGINT NOT NULL REFERENCES seasons(id) ON DELETE CASCADE,
    played_on DATE NOT NULL,
    team1_a BIGINT REFERENCES players(id) ON DELETE CASCADE,
    team1_b BIGINT REFERENCES players(id) ON DELETE CASCADE,
    team2_a BIGINT REFERENCES players(id) ON DELETE CASCADE,
    team2_b BIGINT REFERENCES players(id) ON DELETE CASCADE,
    score1 INT NOT NULL DEFAULT 0,
    score2 INT NOT NULL DEFAULT 0,
    winner_team INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_winner CHECK (winner_team IN (1, 2)),
    CONSTRAINT valid_scores CHECK (score1 >= 0 AND score2 >= 0)
);

CREATE INDEX IF NOT EXISTS idx_matches_season ON matches(season_id);
CREATE INDEX IF NOT EXISTS idx_matches_played_on ON matches(played_on);
`

// Migrate applies the embedded schema. Safe to run repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
