package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/models"
)

type staticLister struct {
	records []models.Competition
}

func (s *staticLister) List(_ context.Context, spec filter.Spec) ([]models.Competition, error) {
	return spec.Apply(s.records), nil
}

func TestExportCSVHonoursFilter(t *testing.T) {
	lister := &staticLister{records: []models.Competition{
		{ID: "a", Title: "Win a Camera", Category: "Photography", Status: models.StatusActive, PrizeValue: "$1,000"},
		{ID: "b", Title: "Bake Off", Category: "Food", Status: models.StatusUpcoming},
	}}
	svc := NewExportService(lister, true)

	file, err := svc.Export(context.Background(), filter.Spec{Status: "active"}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, string(file.Body), "Win a Camera")
	assert.NotContains(t, string(file.Body), "Bake Off")
}

func TestExportUnknownFormat(t *testing.T) {
	svc := NewExportService(&staticLister{}, true)
	_, err := svc.Export(context.Background(), filter.Spec{}, ExportFormat("xlsx"))
	assert.Error(t, err)
}
