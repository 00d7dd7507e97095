package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func competitionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "image_url", "competition_url", "category", "difficulty", "entry_difficulty",
		"prize_value", "requirements", "rules", "start_date", "end_date", "deadline", "entry_url", "status",
		"created_at", "updated_at", "created_by",
	})
}

func TestCompetitionRepositoryListNoFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompetitionRepository(db)

	rows := competitionRows().
		AddRow("c1", "Win a Camera", nil, "https://img/c1", nil, "Photography", "Easy", nil,
			"$1,000", "", "{}", nil, nil, nil, nil, "active", time.Now(), time.Now(), nil)
	mock.ExpectQuery(`(?s)SELECT .+ FROM competitions ORDER BY created_at DESC`).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), filter.Spec{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionRepositoryListPushesFilterDown(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompetitionRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM competitions WHERE status = \$1 AND COALESCE\(NULLIF\(entry_difficulty, ''\), difficulty\) = \$2 ORDER BY created_at DESC`).
		WithArgs("active", "Hard").
		WillReturnRows(competitionRows())

	list, err := repo.List(context.Background(), filter.Spec{Status: "active", Difficulty: "Hard"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionRepositoryListPrizeRangeNotPushedDown(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompetitionRepository(db)

	min := 100
	// No WHERE clause: the prize range is evaluated client-side.
	mock.ExpectQuery(`(?s)SELECT .+ FROM competitions ORDER BY created_at DESC`).
		WillReturnRows(competitionRows())

	_, err := repo.List(context.Background(), filter.Spec{PrizeMin: &min})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompetitionRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM competitions WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompetitionRepository(db)

	mock.ExpectExec("INSERT INTO competitions").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &models.CompetitionWrite{Title: "New", Status: "active"}
	require.NoError(t, repo.Create(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompetitionRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCompetitionRepository(db)

	mock.ExpectExec("UPDATE competitions SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := &models.CompetitionWrite{ID: "missing", Title: "X", Status: "active"}
	err := repo.Update(context.Background(), rec)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
