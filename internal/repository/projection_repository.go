package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prizehub/competitions-api/internal/models"
)

// ProjectionRepository manages the denormalized side tables derived from a
// competition's free-text requirements and ordered rules. These tables are
// projections, not sources of truth; writes here are best-effort.
type ProjectionRepository struct {
	db *sqlx.DB
}

// NewProjectionRepository constructs a ProjectionRepository.
func NewProjectionRepository(db *sqlx.DB) *ProjectionRepository {
	return &ProjectionRepository{db: db}
}

// ReplaceEligibility rewrites the eligibility rows for a competition, one row
// per criterion, preserving order.
func (r *ProjectionRepository) ReplaceEligibility(ctx context.Context, competitionID string, criteria []string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM competition_eligibility WHERE competition_id = $1", competitionID); err != nil {
		return fmt.Errorf("clear eligibility: %w", err)
	}
	now := time.Now().UTC()
	for i, criterion := range criteria {
		row := models.EligibilityRow{
			ID:            uuid.NewString(),
			CompetitionID: competitionID,
			Criteria:      criterion,
			Position:      i,
			CreatedAt:     now,
		}
		const query = `INSERT INTO competition_eligibility (id, competition_id, criteria, position, created_at)
            VALUES (:id, :competition_id, :criteria, :position, :created_at)`
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("insert eligibility row: %w", err)
		}
	}
	return nil
}

// ReplaceRequirements rewrites the requirement rows for a competition from
// its ordered rules list.
func (r *ProjectionRepository) ReplaceRequirements(ctx context.Context, competitionID string, rules []string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM competition_requirements WHERE competition_id = $1", competitionID); err != nil {
		return fmt.Errorf("clear requirements: %w", err)
	}
	now := time.Now().UTC()
	for i, rule := range rules {
		row := models.RequirementRow{
			ID:            uuid.NewString(),
			CompetitionID: competitionID,
			Requirement:   rule,
			Position:      i,
			CreatedAt:     now,
		}
		const query = `INSERT INTO competition_requirements (id, competition_id, requirement, position, created_at)
            VALUES (:id, :competition_id, :requirement, :position, :created_at)`
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("insert requirement row: %w", err)
		}
	}
	return nil
}

// ListEligibility returns eligibility criteria in display order.
func (r *ProjectionRepository) ListEligibility(ctx context.Context, competitionID string) ([]models.EligibilityRow, error) {
	const query = `SELECT id, competition_id, criteria, position, created_at FROM competition_eligibility
        WHERE competition_id = $1 ORDER BY position ASC`
	var rows []models.EligibilityRow
	if err := r.db.SelectContext(ctx, &rows, query, competitionID); err != nil {
		return nil, fmt.Errorf("list eligibility: %w", err)
	}
	return rows, nil
}

// ListRequirements returns requirement rows in display order.
func (r *ProjectionRepository) ListRequirements(ctx context.Context, competitionID string) ([]models.RequirementRow, error) {
	const query = `SELECT id, competition_id, requirement, position, created_at FROM competition_requirements
        WHERE competition_id = $1 ORDER BY position ASC`
	var rows []models.RequirementRow
	if err := r.db.SelectContext(ctx, &rows, query, competitionID); err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return rows, nil
}
