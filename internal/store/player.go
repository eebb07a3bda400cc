package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreatePlayer inserts a new player. Name uniqueness is enforced by the
// database.
func (s *Store) CreatePlayer(ctx context.Context, name string) (*Player, error) {
	var p Player
	err := s.pool.QueryRow(ctx, "player_insert", name).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return &p, nil
}

// GetPlayer returns one player by id.
func (s *Store) GetPlayer(ctx context.Context, id int64) (*Player, error) {
	var p Player
	err := s.pool.QueryRow(ctx, "player_by_id", id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return &p, nil
}

// ListPlayers returns all players ordered by name.
func (s *Store) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := s.pool.Query(ctx, "players_list")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// DeletePlayer removes a player. Matches the player took part in are removed
// by the schema's ON DELETE CASCADE — the league strikes a departed player's
// results from the record.
func (s *Store) DeletePlayer(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, "player_delete", id)
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
