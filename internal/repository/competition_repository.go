package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/models"
)

const competitionColumns = `id, title, description, image_url, competition_url, category, difficulty, entry_difficulty,
        prize_value, requirements, rules, start_date, end_date, deadline, entry_url, status, created_at, updated_at, created_by`

// CompetitionRepository manages persistence for competition records.
// Competitions are never deleted; archival happens through status.
type CompetitionRepository struct {
	db *sqlx.DB
}

// NewCompetitionRepository constructs a CompetitionRepository.
func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

// List returns competitions matching the compiled filter predicates, most
// recently created first. Prize-range criteria are not part of the pushdown;
// the caller applies them after mapping (see filter.Spec.HasPrizeRange).
func (r *CompetitionRepository) List(ctx context.Context, spec filter.Spec) ([]models.CompetitionRow, error) {
	query := fmt.Sprintf("SELECT %s FROM competitions", competitionColumns)

	conditions, args := spec.Compile(1)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var rows []models.CompetitionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	return rows, nil
}

// FindByID fetches a single competition row.
func (r *CompetitionRepository) FindByID(ctx context.Context, id string) (*models.CompetitionRow, error) {
	query := fmt.Sprintf("SELECT %s FROM competitions WHERE id = $1", competitionColumns)
	var row models.CompetitionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new competition, assigning id and created_at.
func (r *CompetitionRepository) Create(ctx context.Context, rec *models.CompetitionWrite) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	const query = `INSERT INTO competitions (id, title, description, image_url, competition_url, category, difficulty, entry_difficulty,
        prize_value, requirements, rules, start_date, end_date, deadline, entry_url, status, created_at, updated_at, created_by)
        VALUES (:id, :title, :description, :image_url, :competition_url, :category, :difficulty, :entry_difficulty,
        :prize_value, :requirements, :rules, :start_date, :end_date, :deadline, :entry_url, :status, :created_at, :updated_at, :created_by)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("create competition: %w", err)
	}
	return nil
}

// Update modifies an existing competition. The id is immutable and created_at
// and created_by are left untouched.
func (r *CompetitionRepository) Update(ctx context.Context, rec *models.CompetitionWrite) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	const query = `UPDATE competitions SET title = :title, description = :description, image_url = :image_url,
        competition_url = :competition_url, category = :category, difficulty = :difficulty, entry_difficulty = :entry_difficulty,
        prize_value = :prize_value, requirements = :requirements, rules = :rules, start_date = :start_date,
        end_date = :end_date, deadline = :deadline, entry_url = :entry_url, status = :status, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("update competition: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
