package render

import (
	"math"
	"strconv"

	"github.com/piwi3910/PlateMap/internal/model"
)

const (
	nameSize        = 15.0
	nameOffset      = 5.0
	insetFraction   = 10.0 // the vertical inset is 1/10 of the diagram height
	radiusFraction  = 0.45
	labelFraction   = 1.3 // header and number text height relative to the radius
	headerOffset    = 0.9
	numberBaseline  = 0.9
	emptyWellColor  = model.ColorWhite
	foregroundColor = model.ColorBlack
)

// Grid is the geometry of one plate diagram.
type Grid struct {
	Box      Box // the diagram, after any height reduction
	InsetX   float64
	InsetY   float64
	WellSize float64
	Radius   float64
}

// GridLayout fits plate into box. The height is cut down when the plate's
// column/row ratio would otherwise stretch the wells vertically.
func GridLayout(plate *model.Plate, box Box) Grid {
	ratio := float64(plate.Columns) / float64(plate.Rows)
	if box.Height > box.Width/ratio {
		box.Height = math.Floor(box.Width / ratio)
	}

	insetY := math.Floor(box.Height / insetFraction)
	wellSize := math.Floor((box.Height - 2*insetY) / float64(plate.Rows))
	return Grid{
		Box:      box,
		InsetX:   math.Floor((box.Width - float64(plate.Columns)*wellSize) / 2),
		InsetY:   insetY,
		WellSize: wellSize,
		Radius:   math.Floor(wellSize * radiusFraction),
	}
}

// WellCenter returns the center of the well at the given row and column.
func (g Grid) WellCenter(row, col int) (x, y float64) {
	x = g.Box.X + g.InsetX + g.WellSize*float64(col) + g.WellSize/2
	y = g.Box.Y + g.Box.Height - g.InsetY - g.WellSize*float64(row) - g.WellSize/2
	return x, y
}

// DrawPlate draws the plate outline, name, row and column headers, and one
// circle per well colored by the occupying sample's project.
func DrawPlate(s Surface, plate *model.Plate, box Box) {
	g := GridLayout(plate, box)
	b := g.Box

	s.SetFillColor(foregroundColor)
	s.DrawText(b.X, b.Y+nameOffset, plate.Name, FontName, nameSize)
	s.Rect(b.X, b.Y, b.Width, b.Height, false)

	headerSize := math.Floor(g.Radius * labelFraction)
	s.SetFont(FontName, headerSize)
	for col := 0; col < plate.Columns; col++ {
		label := strconv.Itoa(col + 1)
		x := b.X + g.InsetX + float64(col)*g.WellSize + g.WellSize/2 - s.TextWidth(label)/2
		y := b.Y - g.InsetY*headerOffset + b.Height
		s.DrawText(x, y, label, FontName, headerSize)
	}
	for row := 0; row < plate.Rows; row++ {
		label := string(model.RowLetters[row])
		x := b.X + g.InsetX*headerOffset - s.TextWidth(label)
		y := b.Y + b.Height - g.InsetY - float64(row)*g.WellSize - g.WellSize/2 - headerSize/2
		s.DrawText(x, y, label, FontName, headerSize)
	}

	numberSize := g.Radius * labelFraction
	s.SetFont(FontName, numberSize)
	for _, pos := range plate.Positions() {
		sample := plate.At(pos)
		x, y := g.WellCenter(pos.Row(), pos.Column())

		fill := emptyWellColor
		if sample != nil {
			fill = sample.Project.Color
		}
		s.SetFillColor(fill)
		s.Circle(x, y, g.Radius, true)

		s.SetFillColor(foregroundColor)
		if label := sample.NumberLabel(); label != "" {
			s.DrawText(x-s.TextWidth(label)/2, y-numberSize/2*numberBaseline, label, FontName, numberSize)
		}
	}
}
