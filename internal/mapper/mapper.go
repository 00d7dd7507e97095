// Package mapper converts between the storage schema (snake_case, nullable
// columns, legacy duplicates) and the API shape (camelCase, non-null
// defaults). Both directions are pure functions with no I/O.
package mapper

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/prizehub/competitions-api/internal/models"
)

// Timestamp layouts accepted on the write path. Reads always render RFC 3339.
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

// ToCompetition maps a storage row to the API shape. It never fails: missing
// optional columns map to empty strings, a missing rules array to an empty
// slice.
func ToCompetition(row models.CompetitionRow) models.Competition {
	rules := make([]string, len(row.Rules))
	copy(rules, row.Rules)

	// entry_difficulty is legacy but still wins over difficulty when both
	// are populated. Old rows only carry the legacy column.
	difficulty := row.Difficulty.String
	if row.EntryDifficulty.Valid && row.EntryDifficulty.String != "" {
		difficulty = row.EntryDifficulty.String
	}

	return models.Competition{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description.String,
		ImageURL:       row.ImageURL,
		CompetitionURL: row.CompetitionURL.String,
		Category:       row.Category,
		Difficulty:     models.CompetitionDifficulty(difficulty),
		PrizeValue:     row.PrizeValue,
		Requirements:   row.Requirements,
		Rules:          rules,
		StartDate:      formatTime(row.StartDate),
		EndDate:        formatTime(row.EndDate),
		Deadline:       formatTime(row.Deadline),
		Status:         models.CompetitionStatus(row.Status),
		CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      row.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ToWriteRecord maps editor form data to a storage write record. Empty
// optional strings become NULL so the storage layer can tell "not provided"
// from "empty", and updated_at is stamped with the current time. The legacy
// columns (deadline, entry_difficulty, entry_url) are mirrored from their
// modern counterparts on every write.
func ToWriteRecord(form models.CompetitionFormData, existingID string) models.CompetitionWrite {
	rules := make(pq.StringArray, len(form.Rules))
	copy(rules, form.Rules)

	endDate := parseTime(form.EndDate)

	return models.CompetitionWrite{
		ID:              existingID,
		Title:           form.Title,
		Description:     nullIfEmpty(form.Description),
		ImageURL:        form.ImageURL,
		CompetitionURL:  nullIfEmpty(form.CompetitionURL),
		Category:        form.Category,
		Difficulty:      string(form.Difficulty),
		EntryDifficulty: string(form.Difficulty),
		PrizeValue:      form.PrizeValue.String(),
		Requirements:    form.Requirements,
		Rules:           rules,
		StartDate:       parseTime(form.StartDate),
		EndDate:         endDate,
		Deadline:        endDate,
		EntryURL:        nullIfEmpty(form.CompetitionURL),
		Status:          string(form.Status),
		UpdatedAt:       time.Now().UTC(),
	}
}

// ParseTimestamp parses an ISO-8601 timestamp or a plain date.
func ParseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseTime(raw string) sql.NullTime {
	if raw == "" {
		return sql.NullTime{}
	}
	ts, ok := ParseTimestamp(raw)
	if !ok {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: ts, Valid: true}
}

func formatTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
