package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prizehub/competitions-api/internal/models"
)

// SavedRepository manages per-user bookmarked competitions.
type SavedRepository struct {
	db *sqlx.DB
}

// NewSavedRepository constructs a SavedRepository.
func NewSavedRepository(db *sqlx.DB) *SavedRepository {
	return &SavedRepository{db: db}
}

// Toggle flips the bookmark for a user/competition pair and reports the
// resulting state (true when the competition is now saved).
func (r *SavedRepository) Toggle(ctx context.Context, userID, competitionID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM saved_competitions WHERE user_id = $1 AND competition_id = $2", userID, competitionID)
	if err != nil {
		return false, fmt.Errorf("remove saved competition: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		return false, nil
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO saved_competitions (user_id, competition_id, created_at) VALUES ($1, $2, $3)",
		userID, competitionID, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("save competition: %w", err)
	}
	return true, nil
}

// ListForUser returns the competitions a user has bookmarked, most recently
// saved first.
func (r *SavedRepository) ListForUser(ctx context.Context, userID string) ([]models.CompetitionRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM competitions c
        JOIN saved_competitions s ON s.competition_id = c.id
        WHERE s.user_id = $1 ORDER BY s.created_at DESC`, prefixedCompetitionColumns("c"))
	var rows []models.CompetitionRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list saved competitions: %w", err)
	}
	return rows, nil
}

func prefixedCompetitionColumns(alias string) string {
	cols := []string{"id", "title", "description", "image_url", "competition_url", "category", "difficulty",
		"entry_difficulty", "prize_value", "requirements", "rules", "start_date", "end_date", "deadline",
		"entry_url", "status", "created_at", "updated_at", "created_by"}
	for i, col := range cols {
		cols[i] = alias + "." + col
	}
	return strings.Join(cols, ", ")
}
