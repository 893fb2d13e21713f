package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PlateMap/internal/model"
	"github.com/piwi3910/PlateMap/internal/render"
)

func buildTestPlates(t *testing.T, n int) []*model.Plate {
	t.Helper()
	var plates []*model.Plate
	for i := 0; i < n; i++ {
		plate, err := model.NewPlate("Plate", 8, 12, model.Vertical)
		require.NoError(t, err)

		alpha := model.NewProjectWithSamples("Alpha", "red", 10)
		beta := model.NewProjectWithSamples("Beta", "#3366cc", 4)
		start, err := plate.PositionFromLabel("A1")
		require.NoError(t, err)
		require.NoError(t, plate.AddProject(alpha, start))
		start, err = plate.PositionFromLabel("A4")
		require.NoError(t, err)
		require.NoError(t, plate.AddProject(beta, start))
		plates = append(plates, plate)
	}
	return plates
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plates.pdf")
	opts := DefaultOptions()
	opts.Title = "plates.csv"

	require.NoError(t, ExportPDF(path, buildTestPlates(t, 2), opts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "missing PDF header")
	assert.Greater(t, len(data), 1000)
}

func TestExportPDF_Letter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plates.pdf")
	opts := Options{Page: render.Letter, Title: "letter"}

	require.NoError(t, ExportPDF(path, buildTestPlates(t, 5), opts))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestExportPDF_NoPlatesStillSavesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, nil, DefaultOptions())
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "the document is saved even when drawing fails")
}

func TestExportPDF_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "plates.pdf")
	assert.Error(t, ExportPDF(path, buildTestPlates(t, 1), DefaultOptions()))
}

func TestPDFSurface_TextWidth(t *testing.T) {
	s := NewPDFSurface(render.A4)
	s.SetFont(render.FontName, 10)
	narrow := s.TextWidth("i")
	wide := s.TextWidth("WWWW")

	assert.Greater(t, narrow, 0.0)
	assert.Greater(t, wide, narrow)

	s.SetFont(render.FontName, 20)
	assert.InDelta(t, 2*wide, s.TextWidth("WWWW"), 1e-6)
	assert.Equal(t, render.A4, s.PageSize())
}
