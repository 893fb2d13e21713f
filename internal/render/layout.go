package render

import (
	"errors"

	"github.com/piwi3910/PlateMap/internal/model"
)

// Page layout constants, in points.
const (
	pageMargin    = 20.0 // subtracted from the page width before sizing plates
	frameLeft     = 15.0
	columnGap     = 10.0
	plateGutter   = 20.0 // taken off each half-width plate when tiling
	topOffset     = 50.0
	rowGap        = 25.0
	legendHeight  = 60.0
	twoPlateScale = 0.66
	diagramAspect = 8.0 / 12.0
	titleInset    = 20.0
	titleSize     = 12.0

	// PlatesPerPage is the number of plate slots on one page: two columns of two.
	PlatesPerPage = 4
)

// Frame is where one plate goes: its page, diagram box and legend box.
type Frame struct {
	Page    int
	Diagram Box
	Legend  Box
}

// PageLayout computes frames for n plates. Plates fill a column top to bottom
// before moving to the second column; a fifth plate starts a new page.
func PageLayout(page PageSize, n int) []Frame {
	totalWidth := page.Width - pageMargin

	var plateWidth float64
	switch n {
	case 1:
		plateWidth = totalWidth
	case 2:
		plateWidth = totalWidth * twoPlateScale
	default:
		plateWidth = totalWidth/2 - plateGutter
	}
	plateHeight := plateWidth * diagramAspect

	frames := make([]Frame, n)
	for i := range frames {
		slot := i % PlatesPerPage
		x := frameLeft
		if slot > 1 {
			x += plateWidth + columnGap
		}
		y := page.Height - topOffset - plateHeight
		if slot%2 == 1 {
			y -= plateHeight + rowGap + legendHeight
		}
		frames[i] = Frame{
			Page:    i / PlatesPerPage,
			Diagram: Box{X: x, Y: y, Width: plateWidth, Height: plateHeight},
			Legend:  Box{X: x, Y: y - legendHeight, Width: plateWidth, Height: legendHeight},
		}
	}
	return frames
}

// Draw renders every plate with its legend onto doc, adding pages as needed.
// Each page starts with title in the top-left corner.
func Draw(doc Document, plates []*model.Plate, title string) error {
	if len(plates) == 0 {
		return errors.New("no plates to draw")
	}
	page := doc.PageSize()
	frames := PageLayout(page, len(plates))

	for i, plate := range plates {
		frame := frames[i]
		if i%PlatesPerPage == 0 {
			doc.AddPage()
			doc.SetFillColor(model.ColorBlack)
			doc.DrawText(titleInset, page.Height-titleInset, title, FontName, titleSize)
		}
		DrawPlate(doc, plate, frame.Diagram)
		DrawLegend(doc, plate, frame.Legend)
	}
	return nil
}
