// Package filter defines a single filter specification interpreted by two
// backends: Compile translates it into SQL predicates for the remote query
// path, Match evaluates it over in-memory records for the client fallback.
// Both interpreters share the same helpers so they cannot drift apart.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prizehub/competitions-api/internal/mapper"
	"github.com/prizehub/competitions-api/internal/models"
)

// Spec is an immutable set of filter criteria. Zero values mean "no filter".
type Spec struct {
	Status     string
	Category   string
	Difficulty string
	Search     string
	PrizeMin   *int
	PrizeMax   *int
	// EndBefore matches records whose effective end date is on or before
	// the cutoff. The effective end date is the legacy deadline column when
	// present, otherwise end_date.
	EndBefore *time.Time
}

// IsZero reports whether no criteria are set.
func (s Spec) IsZero() bool {
	return s.Status == "" && s.Category == "" && s.Difficulty == "" && s.Search == "" &&
		s.PrizeMin == nil && s.PrizeMax == nil && s.EndBefore == nil
}

// HasPrizeRange reports whether a prize range is set. Prize filtering is
// always evaluated client-side after retrieval: stored prize values are free
// text and cannot be compared numerically in SQL.
func (s Spec) HasPrizeRange() bool {
	return s.PrizeMin != nil || s.PrizeMax != nil
}

// CacheKey returns a stable string identifying the criteria, used for
// listing cache keys.
func (s Spec) CacheKey() string {
	parts := []string{s.Status, s.Category, s.Difficulty, strings.ToLower(s.Search)}
	if s.PrizeMin != nil {
		parts = append(parts, strconv.Itoa(*s.PrizeMin))
	}
	if s.PrizeMax != nil {
		parts = append(parts, strconv.Itoa(*s.PrizeMax))
	}
	if s.EndBefore != nil {
		parts = append(parts, s.EndBefore.UTC().Format(time.RFC3339))
	}
	return strings.Join(parts, "|")
}

// Match is the in-memory interpreter. Status, category and difficulty are
// exact case-sensitive matches; search is a case-insensitive substring match
// over title or description.
func (s Spec) Match(c models.Competition) bool {
	if s.Status != "" && string(c.Status) != s.Status {
		return false
	}
	if s.Category != "" && c.Category != s.Category {
		return false
	}
	if s.Difficulty != "" && string(c.Difficulty) != s.Difficulty {
		return false
	}
	if s.Search != "" && !matchesSearch(c, s.Search) {
		return false
	}
	if s.HasPrizeRange() && !s.matchesPrize(c) {
		return false
	}
	if s.EndBefore != nil && !matchesEndCutoff(c, *s.EndBefore) {
		return false
	}
	return true
}

// Apply evaluates the full spec over an in-memory record set, preserving
// order.
func (s Spec) Apply(records []models.Competition) []models.Competition {
	matched := make([]models.Competition, 0, len(records))
	for _, c := range records {
		if s.Match(c) {
			matched = append(matched, c)
		}
	}
	return matched
}

// ApplyPrizeRange runs only the prize-range predicate. The remote query path
// uses it as the mandatory client-side pass after the SQL pushdown.
func (s Spec) ApplyPrizeRange(records []models.Competition) []models.Competition {
	if !s.HasPrizeRange() {
		return records
	}
	matched := make([]models.Competition, 0, len(records))
	for _, c := range records {
		if s.matchesPrize(c) {
			matched = append(matched, c)
		}
	}
	return matched
}

// Compile is the remote interpreter: it renders every pushdown-capable
// criterion as a SQL predicate with positional arguments starting at
// startIndex. The prize range is deliberately absent (see HasPrizeRange).
func (s Spec) Compile(startIndex int) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	next := func() int { return startIndex + len(args) }

	if s.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", next()))
		args = append(args, s.Status)
	}
	if s.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", next()))
		args = append(args, s.Category)
	}
	if s.Difficulty != "" {
		// Same precedence as the read mapper: the legacy column wins.
		conditions = append(conditions, fmt.Sprintf("COALESCE(NULLIF(entry_difficulty, ''), difficulty) = $%d", next()))
		args = append(args, s.Difficulty)
	}
	if s.Search != "" {
		n := next()
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(COALESCE(description, '')) LIKE $%d)", n, n))
		args = append(args, "%"+strings.ToLower(s.Search)+"%")
	}
	if s.EndBefore != nil {
		conditions = append(conditions, fmt.Sprintf("COALESCE(deadline, end_date) <= $%d", next()))
		args = append(args, s.EndBefore.UTC())
	}

	return conditions, args
}

// ParsePrize extracts a numeric value from a free-text prize by stripping
// every non-digit character ("$1,000" parses as 1000). This is a lossy,
// best-effort parse kept bug-compatible with the original listing behaviour;
// values with no digits report ok=false and never match a prize range.
func ParsePrize(raw string) (int, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return v, true
}

// EffectiveEndDate resolves the end date used by cutoff filtering: the
// legacy deadline field when present, otherwise endDate.
func EffectiveEndDate(c models.Competition) (time.Time, bool) {
	raw := c.Deadline
	if raw == "" {
		raw = c.EndDate
	}
	if raw == "" {
		return time.Time{}, false
	}
	return mapper.ParseTimestamp(raw)
}

func (s Spec) matchesPrize(c models.Competition) bool {
	v, ok := ParsePrize(c.PrizeValue)
	if !ok {
		return false
	}
	if s.PrizeMin != nil && v < *s.PrizeMin {
		return false
	}
	if s.PrizeMax != nil && v > *s.PrizeMax {
		return false
	}
	return true
}

func matchesSearch(c models.Competition, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}

func matchesEndCutoff(c models.Competition, cutoff time.Time) bool {
	end, ok := EffectiveEndDate(c)
	if !ok {
		return false
	}
	return !end.After(cutoff)
}
