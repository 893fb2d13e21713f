package render

import (
	"math"

	"github.com/piwi3910/PlateMap/internal/model"
)

const (
	initialLegendDepth = 3
	legendPadding      = 5.0
	legendLineSpacing  = 1.1
	legendBaseline     = 0.2
	minLegendFontSize  = 1.0
)

// Legend is the outcome of the legend fitting search.
type Legend struct {
	FontSize    float64
	Depth       int // entries per column
	Columns     int
	ColumnWidth float64
	Iterations  int // font-size reductions performed
}

// legendColumns returns ceil(count/depth).
func legendColumns(count, depth int) int {
	cols := count / depth
	if count%depth != 0 {
		cols++
	}
	return cols
}

// LayoutLegend searches for a font size and column depth at which every name
// fits its column and depth+1 lines fit the box height. Starting from three
// entries per column, it repeatedly shrinks the font by one point and then
// deepens the columns while another line would still fit. The font size never
// drops below one point, so the loop ends after at most the initial size
// iterations.
func LayoutLegend(m TextMeasurer, names []string, width, height float64) Legend {
	l := Legend{
		Depth:    initialLegendDepth,
		FontSize: math.Floor(height / initialLegendDepth),
	}
	recompute := func() {
		l.Columns = legendColumns(len(names), l.Depth)
		l.ColumnWidth = width
		if l.Columns > 0 {
			l.ColumnWidth = width / float64(l.Columns)
		}
	}
	widest := func() float64 {
		var w float64
		for _, name := range names {
			if n := m.TextWidth(name) + legendPadding; n > w {
				w = n
			}
		}
		return w
	}

	m.SetFont(FontName, l.FontSize)
	recompute()

	for l.FontSize > minLegendFontSize &&
		(widest() > l.ColumnWidth || height < l.FontSize*float64(l.Depth+1)) {
		l.FontSize--
		l.Iterations++
		for height >= l.FontSize*float64(l.Depth+2) {
			l.Depth++
			recompute()
		}
		m.SetFont(FontName, l.FontSize)
	}
	return l
}

// EntryOrigin returns the bottom-left corner of the i-th legend swatch in box.
// Entries run down a column before starting the next one.
func (l Legend) EntryOrigin(i int, box Box) (x, y float64) {
	col, row := i/l.Depth, i%l.Depth
	x = box.X + float64(col)*l.ColumnWidth + legendPadding
	y = box.Y + box.Height - l.FontSize/2 - float64(row+1)*l.FontSize*legendLineSpacing
	return x, y
}

// DrawLegend draws the legend box and one swatch plus name per project on the plate.
func DrawLegend(s Surface, plate *model.Plate, box Box) {
	projects := plate.Projects()
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}

	l := LayoutLegend(s, names, box.Width, box.Height)

	s.SetFillColor(foregroundColor)
	s.Rect(box.X, box.Y, box.Width, box.Height, false)
	for i, p := range projects {
		x, y := l.EntryOrigin(i, box)
		s.SetFillColor(p.Color)
		s.Rect(x, y, s.TextWidth(p.Name), l.FontSize, true)
		s.SetFillColor(foregroundColor)
		s.DrawText(x, y+l.FontSize*legendBaseline, p.Name, FontName, l.FontSize)
	}
}
