// Package render lays out plate diagrams and their project legends on a
// fixed-size page and draws them onto a Surface.
//
// All coordinates are in points with the origin at the bottom-left corner
// of the page and y growing upwards.
package render

import (
	"fmt"
	"strings"

	"github.com/piwi3910/PlateMap/internal/model"
)

// FontName is the font family used for every label.
const FontName = "Helvetica"

// TextMeasurer measures text in the current font.
type TextMeasurer interface {
	SetFont(name string, size float64)
	TextWidth(text string) float64
}

// Surface is the set of drawing primitives the renderer needs.
// SetFillColor also sets the text color.
type Surface interface {
	TextMeasurer
	SetFillColor(c model.Color)
	DrawText(x, y float64, text, font string, size float64)
	Rect(x, y, w, h float64, filled bool)
	Circle(x, y, r float64, filled bool)
}

// Document is a Surface spanning one or more pages of the same size.
type Document interface {
	Surface
	PageSize() PageSize
	AddPage()
}

// PageSize is a page's dimensions in points.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	A4     = PageSize{Name: "A4", Width: 595.2755905511812, Height: 841.8897637795277}
	Letter = PageSize{Name: "Letter", Width: 612, Height: 792}
)

// PageSizeByName returns a known page size, matching the name case-insensitively.
func PageSizeByName(name string) (PageSize, error) {
	for _, p := range []PageSize{A4, Letter} {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return PageSize{}, fmt.Errorf("unknown page size %q", name)
}

// Box is an axis-aligned rectangle given by its bottom-left corner.
type Box struct {
	X, Y          float64
	Width, Height float64
}
