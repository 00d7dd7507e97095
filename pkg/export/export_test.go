package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Title", "Category", "Prize"},
		Rows: []map[string]string{
			{"Title": "Win a Camera", "Category": "Photography", "Prize": "$1,000"},
			{"Title": "Code Jam", "Category": "Technology", "Prize": "5000"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	body, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(body), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "Title,Category,Prize", string(bytes.TrimRight(lines[0], "\r")))
	assert.Contains(t, string(lines[1]), `"$1,000"`)
}

func TestCSVRendersEmptyCellForMissingColumn(t *testing.T) {
	data := Dataset{
		Headers: []string{"Title", "Prize"},
		Rows:    []map[string]string{{"Title": "Bake Off"}},
	}
	body, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(body), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "Bake Off,", string(bytes.TrimRight(lines[1], "\r")))
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	body, err := NewPDFExporter().Render(sampleDataset(), "Competitions")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
