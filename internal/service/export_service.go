package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prizehub/competitions-api/internal/filter"
	"github.com/prizehub/competitions-api/internal/models"
	"github.com/prizehub/competitions-api/pkg/export"
)

// ExportFormat identifies a supported export encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type listingProvider interface {
	List(ctx context.Context, spec filter.Spec) ([]models.Competition, error)
}

// ExportService renders filtered competition listings as downloadable files.
type ExportService struct {
	listings listingProvider
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	enabled  bool
}

// NewExportService constructs an export service.
func NewExportService(listings listingProvider, enabled bool) *ExportService {
	return &ExportService{
		listings: listings,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		enabled:  enabled,
	}
}

// Enabled reports whether exports are switched on.
func (s *ExportService) Enabled() bool {
	return s != nil && s.enabled
}

var exportHeaders = []string{"Title", "Category", "Difficulty", "Prize", "Status", "End Date"}

// Export lists competitions for the filter and renders them in the requested
// format.
func (s *ExportService) Export(ctx context.Context, spec filter.Spec, format ExportFormat) (*ExportFile, error) {
	competitions, err := s.listings.List(ctx, spec)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(competitions))}
	for _, comp := range competitions {
		endDate := comp.Deadline
		if endDate == "" {
			endDate = comp.EndDate
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Title":      comp.Title,
			"Category":   comp.Category,
			"Difficulty": string(comp.Difficulty),
			"Prize":      comp.PrizeValue,
			"Status":     string(comp.Status),
			"End Date":   endDate,
		})
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case FormatCSV:
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("competitions-%s.csv", stamp),
			ContentType: "text/csv",
			Body:        body,
		}, nil
	case FormatPDF:
		body, err := s.pdf.Render(dataset, "Competitions")
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("competitions-%s.pdf", stamp),
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", strings.TrimSpace(string(format)))
	}
}
