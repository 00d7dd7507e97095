package mapper

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prizehub/competitions-api/internal/models"
)

func TestToCompetitionDefaults(t *testing.T) {
	row := models.CompetitionRow{
		ID:        "c1",
		Title:     "Win a Camera",
		ImageURL:  "https://img.example.com/c1.png",
		Category:  "Photography",
		Status:    "active",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	c := ToCompetition(row)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "", c.Description)
	assert.Equal(t, "", c.CompetitionURL)
	assert.NotNil(t, c.Rules)
	assert.Empty(t, c.Rules)
	assert.Equal(t, "", c.StartDate)
	assert.Equal(t, "", c.EndDate)
	assert.Equal(t, "", c.Deadline)
	assert.Equal(t, "2024-03-01T10:00:00Z", c.CreatedAt)
}

func TestToCompetitionLegacyDifficultyWins(t *testing.T) {
	row := models.CompetitionRow{
		ID:              "c1",
		Title:           "Win a Camera",
		Difficulty:      sql.NullString{String: "Easy", Valid: true},
		EntryDifficulty: sql.NullString{String: "Hard", Valid: true},
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	assert.Equal(t, models.DifficultyHard, ToCompetition(row).Difficulty)

	row.EntryDifficulty = sql.NullString{String: "", Valid: true}
	assert.Equal(t, models.DifficultyEasy, ToCompetition(row).Difficulty,
		"empty legacy value falls through to the modern column")

	row.EntryDifficulty = sql.NullString{}
	assert.Equal(t, models.DifficultyEasy, ToCompetition(row).Difficulty)
}

func TestToCompetitionRulesCopied(t *testing.T) {
	row := models.CompetitionRow{
		ID:        "c1",
		Rules:     pq.StringArray{"one entry per person", "18+"},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	c := ToCompetition(row)
	c.Rules[0] = "mutated"
	assert.Equal(t, "one entry per person", row.Rules[0])
}

func TestToWriteRecordMirrorsLegacyColumns(t *testing.T) {
	form := models.CompetitionFormData{
		Title:          "Win a Camera",
		ImageURL:       "https://img.example.com/c1.png",
		CompetitionURL: "https://enter.example.com/c1",
		Category:       "Photography",
		Difficulty:     models.DifficultyMedium,
		PrizeValue:     "1500",
		EndDate:        "2024-06-30",
		Status:         models.StatusActive,
	}

	rec := ToWriteRecord(form, "c1")

	assert.Equal(t, "c1", rec.ID)
	assert.Equal(t, "Medium", rec.Difficulty)
	assert.Equal(t, "Medium", rec.EntryDifficulty)
	require.True(t, rec.EndDate.Valid)
	assert.Equal(t, rec.EndDate, rec.Deadline)
	require.True(t, rec.EntryURL.Valid)
	assert.Equal(t, "https://enter.example.com/c1", rec.EntryURL.String)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestToWriteRecordNullsOptionalFields(t *testing.T) {
	form := models.CompetitionFormData{
		Title:      "Bare",
		ImageURL:   "https://img.example.com/bare.png",
		Category:   "Technology",
		Difficulty: models.DifficultyEasy,
		Status:     models.StatusUpcoming,
	}

	rec := ToWriteRecord(form, "")

	assert.Equal(t, "", rec.ID)
	assert.False(t, rec.Description.Valid)
	assert.False(t, rec.CompetitionURL.Valid)
	assert.False(t, rec.EntryURL.Valid)
	assert.False(t, rec.StartDate.Valid)
	assert.False(t, rec.EndDate.Valid)
	assert.False(t, rec.Deadline.Valid)
}

func TestRoundTripPreservesFields(t *testing.T) {
	form := models.CompetitionFormData{
		Title:        "Round Trip",
		Description:  "desc",
		ImageURL:     "https://img.example.com/rt.png",
		Category:     "Design",
		Difficulty:   models.DifficultyExpert,
		PrizeValue:   "$1,000",
		Requirements: "18+\nUS only",
		Rules:        []string{"no purchase necessary"},
		StartDate:    "2024-01-01",
		EndDate:      "2024-12-31",
		Status:       models.StatusActive,
	}

	rec := ToWriteRecord(form, "c9")
	row := models.CompetitionRow{
		ID:              rec.ID,
		Title:           rec.Title,
		Description:     rec.Description,
		ImageURL:        rec.ImageURL,
		CompetitionURL:  rec.CompetitionURL,
		Category:        rec.Category,
		Difficulty:      sql.NullString{String: rec.Difficulty, Valid: true},
		EntryDifficulty: sql.NullString{String: rec.EntryDifficulty, Valid: true},
		PrizeValue:      rec.PrizeValue,
		Requirements:    rec.Requirements,
		Rules:           rec.Rules,
		StartDate:       rec.StartDate,
		EndDate:         rec.EndDate,
		Deadline:        rec.Deadline,
		EntryURL:        rec.EntryURL,
		Status:          rec.Status,
		CreatedAt:       time.Now(),
		UpdatedAt:       rec.UpdatedAt,
	}

	c := ToCompetition(row)
	assert.Equal(t, form.Title, c.Title)
	assert.Equal(t, form.Description, c.Description)
	assert.Equal(t, form.Difficulty, c.Difficulty)
	assert.Equal(t, "$1,000", c.PrizeValue)
	assert.Equal(t, form.Rules, c.Rules)
	assert.Equal(t, form.Status, c.Status)
	assert.Equal(t, "2024-12-31T00:00:00Z", c.EndDate)
	assert.Equal(t, c.EndDate, c.Deadline)
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2024-05-01T12:30:00Z")
	require.True(t, ok)
	assert.Equal(t, 12, ts.Hour())

	ts, ok = ParseTimestamp("2024-05-01")
	require.True(t, ok)
	assert.Equal(t, time.May, ts.Month())

	_, ok = ParseTimestamp("not a date")
	assert.False(t, ok)

	_, ok = ParseTimestamp("")
	assert.False(t, ok)
}
