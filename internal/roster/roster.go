// Package roster reads sample lists: spreadsheets with a "sample identifier"
// column whose entries end in an underscore and the sample number, such as
// "LIVER_A_12". Excel (.xlsx) and CSV files are supported.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"

	"github.com/piwi3910/PlateMap/internal/model"
)

// IdentifierHeader is the header cell that marks the start of the sample table.
const IdentifierHeader = "sample identifier"

var (
	// ErrSampleListNaming is returned when no project name was given and the
	// file name does not follow <name>_<6 digits>..._SampleList.<ext>.
	ErrSampleListNaming = errors.New("sample list file name must look like <name>_<yymmdd>..._SampleList.xlsx")

	// ErrHeaderRowNotFound is returned when no row has a sample identifier cell.
	ErrHeaderRowNotFound = fmt.Errorf("no %q header row found", IdentifierHeader)
)

// SampleNumberError reports an identifier without a trailing _<digits>.
type SampleNumberError struct {
	Row int // 1-based spreadsheet row
	ID  string
}

func (e *SampleNumberError) Error() string {
	return fmt.Sprintf("row %d: sample identifier %q does not end in _<number>", e.Row, e.ID)
}

var (
	projectPattern = regexp.MustCompile(`^(.+_\d{6}.*)_SampleList\.(?i:xlsx|csv)$`)
	numberPattern  = regexp.MustCompile(`_(\d+)$`)
)

// Options control how a sample list is read.
type Options struct {
	// ProjectName overrides the name parsed from the file name.
	ProjectName string
}

// Roster is the sample table of one sample list.
type Roster struct {
	ProjectName   string
	SampleIDs     []string
	SampleNumbers []int
}

// Len returns the number of samples.
func (r *Roster) Len() int {
	return len(r.SampleIDs)
}

// Project builds a project with one sample per roster entry, in file order.
func (r *Roster) Project(color model.Color) *model.Project {
	p := model.NewProject(r.ProjectName, color)
	for i, id := range r.SampleIDs {
		num := r.SampleNumbers[i]
		p.AddSample(model.NewSample(p, id, &num))
	}
	return p
}

// ProjectNameFromPath extracts the project name from a sample list file name,
// e.g. "Smith_240115_Liver_SampleList.xlsx" gives "Smith_240115_Liver".
func ProjectNameFromPath(path string) (string, error) {
	m := projectPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", ErrSampleListNaming
	}
	return m[1], nil
}

// ReadFile reads a sample list. The format is chosen by file extension and
// only the first worksheet of a workbook is used.
func ReadFile(path string, opts Options) (*Roster, error) {
	name := opts.ProjectName
	if name == "" {
		var err error
		if name, err = ProjectNameFromPath(path); err != nil {
			return nil, err
		}
	}

	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	r, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	r.ProjectName = name
	return r, nil
}

// FromRows extracts the sample table from spreadsheet rows. The header row is
// the first one holding a cell equal to IdentifierHeader, ignoring case and
// surrounding space. Samples run from the next row to the first blank row.
func FromRows(rows [][]string) (*Roster, error) {
	fold := cases.Fold()
	headerRow, idCol := -1, -1
	for i, row := range rows {
		for j, cell := range row {
			if fold.String(strings.TrimSpace(cell)) == IdentifierHeader {
				headerRow, idCol = i, j
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return nil, ErrHeaderRowNotFound
	}

	r := &Roster{SampleIDs: []string{}, SampleNumbers: []int{}}
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			break
		}
		id := cell(row, idCol)
		num, err := sampleNumber(id)
		if err != nil {
			return nil, &SampleNumberError{Row: i + 1, ID: id}
		}
		r.SampleIDs = append(r.SampleIDs, id)
		r.SampleNumbers = append(r.SampleNumbers, num)
	}
	return r, nil
}

func sampleNumber(id string) (int, error) {
	m := numberPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, errors.New("no trailing number")
	}
	return strconv.Atoi(m[1])
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readExcel(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported sample list format %q", filepath.Ext(path))
	}
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in Excel file")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse CSV: %w", err)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
