// Package store reads and writes plate collections in the multi-plate CSV
// format: each plate is a header row followed by one row per well in well order.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/piwi3910/PlateMap/internal/model"
)

// Sentinel values of the plate file format.
const (
	HeaderSentinel   = "Index"
	EmptyField       = "EMPTY"
	NoNumber         = "-"
	DefaultPlateName = "Unnamed Plate"
)

// headerFields are the fixed leading fields of every plate header row.
var headerFields = []string{HeaderSentinel, "Position", "Project", "Sample", "Number"}

// ParseError reports a malformed line of a plate file. Line is 1-based.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Save writes plates to w in the given order.
func Save(w io.Writer, plates []*model.Plate) error {
	writer := csv.NewWriter(w)
	for _, plate := range plates {
		if err := writePlate(writer, plate); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writePlate(writer *csv.Writer, plate *model.Plate) error {
	header := append(append([]string{}, headerFields...),
		strconv.Itoa(plate.Rows),
		strconv.Itoa(plate.Columns),
		formatOrientation(plate.Orientation),
		plate.Name,
	)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header of plate %q: %w", plate.Name, err)
	}

	for _, pos := range plate.Positions() {
		row := []string{strconv.Itoa(pos.Index), pos.Label(), EmptyField, EmptyField, NoNumber}
		if s := plate.At(pos); s != nil {
			row[2] = s.Project.Name
			row[3] = s.Name
			if s.Number != nil {
				row[4] = strconv.Itoa(*s.Number)
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write well %s of plate %q: %w", pos.Label(), plate.Name, err)
		}
	}
	return nil
}

// formatOrientation writes the orientation the way existing plate files do.
func formatOrientation(o model.Orientation) string {
	if o == model.Horizontal {
		return "False"
	}
	return "True"
}

// parseOrientation treats only "False" as horizontal.
func parseOrientation(s string) model.Orientation {
	if s == "False" {
		return model.Horizontal
	}
	return model.Vertical
}

// Loader reads plate files. The zero value uses model.Palette.
type Loader struct {
	// Palette assigns colors to projects in the order they are discovered.
	Palette []model.Color
}

// Load reads every plate from r using the default palette.
func Load(r io.Reader) ([]*model.Plate, error) {
	return Loader{}.Load(r)
}

// Load reads every plate from r. A project name seen anywhere in the file
// maps to a single Project shared by all plates. On error no plates are returned.
func (l Loader) Load(r io.Reader) ([]*model.Plate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read plate file: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("plate file is empty")
	}

	var (
		plates   []*model.Plate
		current  *model.Plate
		projects = make(map[string]*model.Project)
	)

	for i, row := range records {
		line := i + 1
		if row[0] == HeaderSentinel {
			plate, err := parseHeader(row)
			if err != nil {
				return nil, &ParseError{Line: line, Err: err}
			}
			plates = append(plates, plate)
			current = plate
			continue
		}
		if current == nil {
			return nil, &ParseError{Line: line, Err: errors.New("well row before any plate header")}
		}
		if err := l.loadWell(current, row, projects); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
	}
	return plates, nil
}

func parseHeader(row []string) (*model.Plate, error) {
	if len(row) < 8 {
		return nil, fmt.Errorf("plate header has %d fields, want at least 8", len(row))
	}
	rows, err := strconv.Atoi(strings.TrimSpace(row[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid row count %q: %w", row[5], err)
	}
	columns, err := strconv.Atoi(strings.TrimSpace(row[6]))
	if err != nil {
		return nil, fmt.Errorf("invalid column count %q: %w", row[6], err)
	}
	name := DefaultPlateName
	if len(row) > 8 {
		name = row[8]
	}
	return model.NewPlate(name, rows, columns, parseOrientation(row[7]))
}

// loadWell places the sample described by row into plate. projects holds
// every project discovered so far in the file, keyed by name.
func (l Loader) loadWell(plate *model.Plate, row []string, projects map[string]*model.Project) error {
	if len(row) < 4 {
		return fmt.Errorf("well row has %d fields, want at least 4", len(row))
	}
	label, projectName, sampleName := row[1], row[2], row[3]

	if _, err := plate.PositionFromLabel(label); err != nil {
		return err
	}
	if projectName == EmptyField || sampleName == EmptyField {
		return nil
	}

	var number *int
	if len(row) > 4 && row[4] != NoNumber && row[4] != "" {
		n, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil {
			return fmt.Errorf("invalid sample number %q in well %s: %w", row[4], label, err)
		}
		number = &n
	}

	project, ok := projects[projectName]
	if !ok {
		project = model.NewProject(projectName, model.PaletteColor(l.Palette, len(projects)))
		projects[projectName] = project
	}

	sample := model.NewSample(project, sampleName, number)
	project.AddSample(sample)
	return plate.SetWell(label, sample)
}
