package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prizehub/competitions-api/internal/models"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func sampleRecords() []models.Competition {
	return []models.Competition{
		{ID: "a", Title: "Win a Camera", Description: "A photography giveaway", Category: "Photography", Difficulty: models.DifficultyEasy, Status: models.StatusActive, PrizeValue: "$1,000", EndDate: "2024-06-30T00:00:00Z"},
		{ID: "b", Title: "Code Jam", Description: "Programming contest", Category: "Technology", Difficulty: models.DifficultyHard, Status: models.StatusActive, PrizeValue: "5000", Deadline: "2024-03-15T00:00:00Z", EndDate: "2024-09-01T00:00:00Z"},
		{ID: "c", Title: "Bake Off", Category: "Food", Difficulty: models.DifficultyMedium, Status: models.StatusUpcoming, PrizeValue: "A mystery box"},
	}
}

func TestMatchStatusCategoryDifficultyExact(t *testing.T) {
	records := sampleRecords()

	assert.Len(t, Spec{Status: "active"}.Apply(records), 2)
	assert.Len(t, Spec{Category: "Food"}.Apply(records), 1)
	assert.Len(t, Spec{Difficulty: "Hard"}.Apply(records), 1)

	// Facet matching is case-sensitive.
	assert.Empty(t, Spec{Status: "Active"}.Apply(records))
	assert.Empty(t, Spec{Difficulty: "hard"}.Apply(records))
}

func TestMatchSearchCaseInsensitive(t *testing.T) {
	records := sampleRecords()

	got := Spec{Search: "CAMERA"}.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	// Matches over description too.
	got = Spec{Search: "programming"}.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	assert.Empty(t, Spec{Search: "quilting"}.Apply(records))
}

func TestMatchPreservesOrder(t *testing.T) {
	records := sampleRecords()
	got := Spec{Status: "active"}.Apply(records)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestParsePrize(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"$1,000", 1000, true},
		{"2500", 2500, true},
		{"$0", 0, true},
		{"USD 2,500 cash", 2500, true},
		{"A mystery box", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePrize(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestPrizeRangeExcludesUnparseable(t *testing.T) {
	records := sampleRecords()

	got := Spec{PrizeMin: intPtr(500)}.Apply(records)
	require.Len(t, got, 2, "the mystery box has no digits and never matches a range")

	got = Spec{PrizeMin: intPtr(2000)}.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got = Spec{PrizeMax: intPtr(1500)}.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	// Without a range the unparseable record passes through untouched.
	assert.Len(t, Spec{}.Apply(records), 3)
}

func TestPrizeRangeBounds(t *testing.T) {
	records := []models.Competition{
		{ID: "low", PrizeValue: "$2,500"},
		{ID: "high", PrizeValue: "$10,000"},
	}

	got := Spec{PrizeMin: intPtr(500), PrizeMax: intPtr(5000)}.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "low", got[0].ID)
}

func TestApplyPrizeRangeOnlyRunsPrizePredicate(t *testing.T) {
	records := sampleRecords()

	// Status would exclude "c", but ApplyPrizeRange must ignore it.
	spec := Spec{Status: "active", PrizeMin: intPtr(2000)}
	got := spec.ApplyPrizeRange(records)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	// No range set: input returned as-is.
	same := Spec{Status: "active"}.ApplyPrizeRange(records)
	assert.Len(t, same, 3)
}

func TestEndCutoffPrefersDeadline(t *testing.T) {
	records := sampleRecords()

	// Record "b" has deadline 2024-03-15 and end_date 2024-09-01; the deadline
	// must decide.
	cutoff := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	got := Spec{EndBefore: timePtr(cutoff)}.Apply(records)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	// Inclusive comparison: a cutoff equal to the effective end date matches.
	cutoff = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got = Spec{EndBefore: timePtr(cutoff)}.Apply(records)
	require.Len(t, got, 1)

	// Records with no dates at all never match a cutoff.
	cutoff = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	got = Spec{EndBefore: timePtr(cutoff)}.Apply(records)
	assert.Len(t, got, 2)
}

func TestCompilePositionalArgs(t *testing.T) {
	cutoff := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	spec := Spec{
		Status:     "active",
		Category:   "Photography",
		Difficulty: "Easy",
		Search:     "Camera",
		EndBefore:  &cutoff,
	}

	conditions, args := spec.Compile(1)
	require.Len(t, conditions, 5)
	require.Len(t, args, 5)

	assert.Equal(t, "status = $1", conditions[0])
	assert.Equal(t, "category = $2", conditions[1])
	assert.Equal(t, "COALESCE(NULLIF(entry_difficulty, ''), difficulty) = $3", conditions[2])
	assert.Equal(t, "(LOWER(title) LIKE $4 OR LOWER(COALESCE(description, '')) LIKE $4)", conditions[3])
	assert.Equal(t, "COALESCE(deadline, end_date) <= $5", conditions[4])

	assert.Equal(t, "%camera%", args[3])
	assert.Equal(t, cutoff.UTC(), args[4])
}

func TestCompileStartIndexOffset(t *testing.T) {
	spec := Spec{Category: "Food"}
	conditions, args := spec.Compile(3)
	require.Len(t, conditions, 1)
	assert.Equal(t, "category = $3", conditions[0])
	assert.Equal(t, []interface{}{"Food"}, args)
}

func TestCompileNeverPushesPrizeRange(t *testing.T) {
	spec := Spec{PrizeMin: intPtr(100), PrizeMax: intPtr(900)}
	conditions, args := spec.Compile(1)
	assert.Empty(t, conditions)
	assert.Empty(t, args)
	assert.True(t, spec.HasPrizeRange())
	assert.False(t, spec.IsZero())
}

func TestCacheKeyStable(t *testing.T) {
	a := Spec{Status: "active", Search: "Camera", PrizeMin: intPtr(10)}
	b := Spec{Status: "active", Search: "camera", PrizeMin: intPtr(10)}
	assert.Equal(t, a.CacheKey(), b.CacheKey(), "search is case-insensitive so the key folds case")

	c := Spec{Status: "active"}
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}

func TestIsZero(t *testing.T) {
	assert.True(t, Spec{}.IsZero())
	assert.False(t, Spec{Search: "x"}.IsZero())
	assert.False(t, Spec{EndBefore: timePtr(time.Now())}.IsZero())
}
