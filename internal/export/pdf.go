// Package export writes plate layouts to PDF and PNG files and prints
// QR-coded sample labels.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PlateMap/internal/model"
	"github.com/piwi3910/PlateMap/internal/render"
)

// Options control a layout export.
type Options struct {
	Page  render.PageSize
	Title string  // printed in the top-left corner of every page
	DPI   float64 // PNG only; 72 means one pixel per point
}

// DefaultOptions returns A4 at 150 DPI.
func DefaultOptions() Options {
	return Options{Page: render.A4, DPI: 150}
}

// PDFSurface draws onto a PDF document measured in points. It converts the
// renderer's bottom-left origin to fpdf's top-left one.
type PDFSurface struct {
	pdf  *fpdf.Fpdf
	page render.PageSize
}

// NewPDFSurface creates an empty document with pages of the given size.
func NewPDFSurface(page render.PageSize) *PDFSurface {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(render.FontName, "", 12)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1)
	return &PDFSurface{pdf: pdf, page: page}
}

func (s *PDFSurface) PageSize() render.PageSize { return s.page }

func (s *PDFSurface) AddPage() { s.pdf.AddPage() }

func (s *PDFSurface) SetFont(name string, size float64) {
	s.pdf.SetFont(name, "", size)
}

func (s *PDFSurface) TextWidth(text string) float64 {
	return s.pdf.GetStringWidth(text)
}

// SetFillColor sets both the fill and the text color. Unknown colors draw black.
func (s *PDFSurface) SetFillColor(c model.Color) {
	r, g, b, _ := c.RGB()
	s.pdf.SetFillColor(int(r), int(g), int(b))
	s.pdf.SetTextColor(int(r), int(g), int(b))
}

func (s *PDFSurface) DrawText(x, y float64, text, font string, size float64) {
	s.pdf.SetFont(font, "", size)
	s.pdf.Text(x, s.page.Height-y, text)
}

func (s *PDFSurface) Rect(x, y, w, h float64, filled bool) {
	style := "D"
	if filled {
		style = "F"
	}
	s.pdf.Rect(x, s.page.Height-y-h, w, h, style)
}

func (s *PDFSurface) Circle(x, y, r float64, filled bool) {
	style := "D"
	if filled {
		style = "FD"
	}
	s.pdf.Circle(x, s.page.Height-y, r, style)
}

// Save writes the document to path and closes it.
func (s *PDFSurface) Save(path string) error {
	if err := s.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ExportPDF renders plates into a PDF at path. The file is written once,
// after drawing, whether or not drawing succeeded.
func ExportPDF(path string, plates []*model.Plate, opts Options) (err error) {
	s := NewPDFSurface(opts.Page)
	defer func() {
		if serr := s.Save(path); err == nil {
			err = serr
		}
	}()
	return render.Draw(s, plates, opts.Title)
}
