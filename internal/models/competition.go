package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// CompetitionStatus is the primary listing facet.
type CompetitionStatus string

const (
	StatusActive   CompetitionStatus = "active"
	StatusUpcoming CompetitionStatus = "upcoming"
	StatusPast     CompetitionStatus = "past"
	StatusArchived CompetitionStatus = "archived"
)

// CompetitionStatuses lists every recognised status value.
var CompetitionStatuses = []CompetitionStatus{StatusActive, StatusUpcoming, StatusPast, StatusArchived}

// CompetitionDifficulty grades the entry effort.
type CompetitionDifficulty string

const (
	DifficultyEasy   CompetitionDifficulty = "Easy"
	DifficultyMedium CompetitionDifficulty = "Medium"
	DifficultyHard   CompetitionDifficulty = "Hard"
	DifficultyExpert CompetitionDifficulty = "Expert"
)

// CompetitionDifficulties lists every recognised difficulty value.
var CompetitionDifficulties = []CompetitionDifficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// CompetitionCategories is the recommended, unenforced category set.
var CompetitionCategories = []string{
	"Photography",
	"Technology",
	"Food",
	"Fitness",
	"Writing",
	"Design",
	"Sweepstakes",
	"Video Contest",
	"Social Media",
	"Instant Win",
}

// CompetitionRow is the storage shape of a competition. Optional columns are
// nullable; difficulty exists in two columns due to an old schema migration
// (entry_difficulty is the legacy one and wins when both are set).
type CompetitionRow struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     sql.NullString `db:"description"`
	ImageURL        string         `db:"image_url"`
	CompetitionURL  sql.NullString `db:"competition_url"`
	Category        string         `db:"category"`
	Difficulty      sql.NullString `db:"difficulty"`
	EntryDifficulty sql.NullString `db:"entry_difficulty"`
	PrizeValue      string         `db:"prize_value"`
	Requirements    string         `db:"requirements"`
	Rules           pq.StringArray `db:"rules"`
	StartDate       sql.NullTime   `db:"start_date"`
	EndDate         sql.NullTime   `db:"end_date"`
	Deadline        sql.NullTime   `db:"deadline"`
	EntryURL        sql.NullString `db:"entry_url"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	CreatedBy       sql.NullString `db:"created_by"`
}

// Competition is the API shape. Every optional field carries a non-null
// default so consumers never need nil checks.
type Competition struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	ImageURL       string                `json:"imageUrl"`
	CompetitionURL string                `json:"competitionUrl"`
	Category       string                `json:"category"`
	Difficulty     CompetitionDifficulty `json:"difficulty"`
	PrizeValue     string                `json:"prizeValue"`
	Requirements   string                `json:"requirements"`
	Rules          []string              `json:"rules"`
	StartDate      string                `json:"startDate"`
	EndDate        string                `json:"endDate"`
	Deadline       string                `json:"deadline"`
	Status         CompetitionStatus     `json:"status"`
	CreatedAt      string                `json:"createdAt"`
	UpdatedAt      string                `json:"updatedAt"`
}

// FlexString accepts either a JSON string or a JSON number. Stored prize
// values are free text but older clients submitted bare numbers.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("prize value must be a string or number")
}

// String returns the underlying value.
func (f FlexString) String() string {
	return string(f)
}

// CompetitionFormData is the admin editor payload for create and update.
type CompetitionFormData struct {
	Title          string                `json:"title" validate:"required"`
	Description    string                `json:"description"`
	ImageURL       string                `json:"imageUrl" validate:"required,url"`
	CompetitionURL string                `json:"competitionUrl" validate:"omitempty,url"`
	Category       string                `json:"category" validate:"required"`
	Difficulty     CompetitionDifficulty `json:"difficulty" validate:"required,oneof=Easy Medium Hard Expert"`
	PrizeValue     FlexString            `json:"prizeValue"`
	Requirements   string                `json:"requirements"`
	Rules          []string              `json:"rules"`
	StartDate      string                `json:"startDate"`
	EndDate        string                `json:"endDate"`
	Status         CompetitionStatus     `json:"status" validate:"required,oneof=active upcoming past archived"`
}

// CompetitionWrite is the storage write record produced by the mapper. Empty
// optional strings become NULL at the storage boundary.
type CompetitionWrite struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     sql.NullString `db:"description"`
	ImageURL        string         `db:"image_url"`
	CompetitionURL  sql.NullString `db:"competition_url"`
	Category        string         `db:"category"`
	Difficulty      string         `db:"difficulty"`
	EntryDifficulty string         `db:"entry_difficulty"`
	PrizeValue      string         `db:"prize_value"`
	Requirements    string         `db:"requirements"`
	Rules           pq.StringArray `db:"rules"`
	StartDate       sql.NullTime   `db:"start_date"`
	EndDate         sql.NullTime   `db:"end_date"`
	Deadline        sql.NullTime   `db:"deadline"`
	EntryURL        sql.NullString `db:"entry_url"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	CreatedBy       sql.NullString `db:"created_by"`
}

// EligibilityRow is a denormalized projection of the requirements free text,
// one criterion per line.
type EligibilityRow struct {
	ID            string    `db:"id" json:"id"`
	CompetitionID string    `db:"competition_id" json:"competitionId"`
	Criteria      string    `db:"criteria" json:"criteria"`
	Position      int       `db:"position" json:"position"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// RequirementRow is a denormalized projection of the ordered rules list.
type RequirementRow struct {
	ID            string    `db:"id" json:"id"`
	CompetitionID string    `db:"competition_id" json:"competitionId"`
	Requirement   string    `db:"requirement" json:"requirement"`
	Position      int       `db:"position" json:"position"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// SavedCompetition links a user to a bookmarked competition.
type SavedCompetition struct {
	UserID        string    `db:"user_id" json:"userId"`
	CompetitionID string    `db:"competition_id" json:"competitionId"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
