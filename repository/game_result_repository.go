package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"casinobot/database"
	"casinobot/models"
)

// GameResultRepository stores closed wager sessions on postgres
type GameResultRepository struct {
	q queryable
}

// NewGameResultRepository creates a new game result repository
func NewGameResultRepository(db *database.DB) *GameResultRepository {
	return &GameResultRepository{q: db.Pool}
}

func newGameResultRepositoryWithTx(tx queryable) *GameResultRepository {
	return &GameResultRepository{q: tx}
}

// Save inserts a result; saving the same session twice keeps the first row
func (r *GameResultRepository) Save(ctx context.Context, result *models.GameResult) error {
	detail, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal game result: %w", err)
	}

	players := make([]int64, len(result.Players))
	for i, p := range result.Players {
		players[i] = int64(p)
	}

	query := `
		INSERT INTO game_results (session_id, kind, guild_id, status, wagered, paid_out, players, detail, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id) DO NOTHING
	`

	_, err = r.q.Exec(ctx, query,
		result.SessionID,
		string(result.Kind),
		result.GuildID,
		string(result.Status),
		result.Wagered,
		result.PaidOut,
		players,
		detail,
		result.StartedAt,
		result.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save game result %s: %w", result.SessionID, err)
	}
	return nil
}

// Recent returns the latest results of one game kind
func (r *GameResultRepository) Recent(ctx context.Context, kind models.GameKind, limit int) ([]*models.GameResult, error) {
	query := `
		SELECT detail
		FROM game_results
		WHERE kind = $1
		ORDER BY ended_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent %s results: %w", kind, err)
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		var detail []byte
		if err := rows.Scan(&detail); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		var result models.GameResult
		if err := json.Unmarshal(detail, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game result: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %w", err)
	}
	return results, nil
}
