package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PlateMap/internal/model"
)

// op is one recorded drawing call.
type op struct {
	kind   string // "text", "rect", "circle"
	x, y   float64
	w, h   float64
	text   string
	size   float64
	color  model.Color
	filled bool
}

// recorder is a Document that records calls. Text is half as wide as its
// font size per character.
type recorder struct {
	page  PageSize
	pages int
	size  float64
	color model.Color
	ops   []op
}

func newRecorder() *recorder {
	return &recorder{page: A4, color: model.ColorBlack}
}

func (r *recorder) PageSize() PageSize { return r.page }
func (r *recorder) AddPage()           { r.pages++ }
func (r *recorder) SetFont(_ string, size float64) { r.size = size }
func (r *recorder) SetFillColor(c model.Color) { r.color = c }

func (r *recorder) TextWidth(text string) float64 {
	return float64(len(text)) * r.size * 0.5
}

func (r *recorder) DrawText(x, y float64, text, _ string, size float64) {
	r.size = size
	r.ops = append(r.ops, op{kind: "text", x: x, y: y, text: text, size: size, color: r.color})
}

func (r *recorder) Rect(x, y, w, h float64, filled bool) {
	r.ops = append(r.ops, op{kind: "rect", x: x, y: y, w: w, h: h, color: r.color, filled: filled})
}

func (r *recorder) Circle(x, y, radius float64, filled bool) {
	r.ops = append(r.ops, op{kind: "circle", x: x, y: y, w: radius, color: r.color, filled: filled})
}

func (r *recorder) filter(kind string) []op {
	var out []op
	for _, o := range r.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func testPlate(t *testing.T, projects ...*model.Project) *model.Plate {
	t.Helper()
	plate, err := model.NewPlate("Plate 1", 8, 12, model.Vertical)
	require.NoError(t, err)
	next := 0
	for _, p := range projects {
		start, err := plate.PositionAt(next)
		require.NoError(t, err)
		require.NoError(t, plate.AddProject(p, start))
		next += p.SampleCount()
	}
	return plate
}

func TestPageLayout_SinglePlate(t *testing.T) {
	frames := PageLayout(A4, 1)
	require.Len(t, frames, 1)

	f := frames[0]
	width := A4.Width - 20
	assert.InDelta(t, 15.0, f.Diagram.X, 1e-9)
	assert.InDelta(t, width, f.Diagram.Width, 1e-9)
	assert.InDelta(t, width*8/12, f.Diagram.Height, 1e-9)
	assert.InDelta(t, A4.Height-50-width*8/12, f.Diagram.Y, 1e-9)
	assert.InDelta(t, f.Diagram.Y-60, f.Legend.Y, 1e-9)
	assert.InDelta(t, 60.0, f.Legend.Height, 1e-9)
}

func TestPageLayout_TwoPlates(t *testing.T) {
	frames := PageLayout(A4, 2)
	require.Len(t, frames, 2)

	width := (A4.Width - 20) * 0.66
	height := width * 8 / 12
	assert.InDelta(t, width, frames[0].Diagram.Width, 1e-9)
	assert.Equal(t, frames[0].Diagram.X, frames[1].Diagram.X)
	assert.InDelta(t, frames[0].Diagram.Y-height-25-60, frames[1].Diagram.Y, 1e-9)
}

func TestPageLayout_TilesAndPaginates(t *testing.T) {
	frames := PageLayout(A4, 5)
	require.Len(t, frames, 5)

	width := (A4.Width-20)/2 - 20
	assert.InDelta(t, width, frames[0].Diagram.Width, 1e-9)

	assert.Equal(t, frames[0].Diagram.Y, frames[2].Diagram.Y, "slot 2 is beside slot 0")
	assert.InDelta(t, 15+width+10, frames[2].Diagram.X, 1e-9)
	assert.Equal(t, frames[1].Diagram.Y, frames[3].Diagram.Y)
	assert.Less(t, frames[1].Diagram.Y, frames[0].Diagram.Y)

	for i := 0; i < 4; i++ {
		assert.Equal(t, 0, frames[i].Page)
	}
	assert.Equal(t, 1, frames[4].Page)
	assert.Equal(t, frames[0].Diagram, frames[4].Diagram)
}

func TestGridLayout(t *testing.T) {
	plate := testPlate(t)
	g := GridLayout(plate, Box{X: 0, Y: 0, Width: 300, Height: 200})

	assert.Equal(t, 200.0, g.Box.Height)
	assert.Equal(t, 20.0, g.InsetY)
	assert.Equal(t, 20.0, g.WellSize)
	assert.Equal(t, 30.0, g.InsetX)
	assert.Equal(t, 9.0, g.Radius)

	x, y := g.WellCenter(0, 0)
	assert.Equal(t, 40.0, x)
	assert.Equal(t, 170.0, y)
	x, y = g.WellCenter(7, 11)
	assert.Equal(t, 260.0, x)
	assert.Equal(t, 30.0, y)
}

func TestGridLayout_WidePlateShrinksHeight(t *testing.T) {
	plate, err := model.NewPlate("Strip", 2, 12, model.Horizontal)
	require.NoError(t, err)

	g := GridLayout(plate, Box{Width: 300, Height: 200})
	assert.Equal(t, 50.0, g.Box.Height)
	assert.Equal(t, 300.0, g.Box.Width)
}

func TestLayoutLegend_ShortNamesShrinkForHeight(t *testing.T) {
	r := newRecorder()
	l := LayoutLegend(r, []string{"A", "B"}, 300, 60)

	assert.Equal(t, 15.0, l.FontSize)
	assert.Equal(t, 3, l.Depth)
	assert.Equal(t, 1, l.Columns)
	assert.Equal(t, 300.0, l.ColumnWidth)
	assert.Equal(t, 5, l.Iterations)
	assert.Equal(t, 15.0, r.size, "measurer is left at the chosen size")
}

func TestLayoutLegend_WideNameShrinksAndDeepens(t *testing.T) {
	r := newRecorder()
	names := []string{"A very long project name"}
	l := LayoutLegend(r, names, 100, 60)

	initial := 20.0
	assert.Equal(t, 7.0, l.FontSize)
	assert.Equal(t, 7, l.Depth)
	assert.LessOrEqual(t, l.FontSize, initial)
	assert.LessOrEqual(t, float64(l.Iterations), initial)
	assert.LessOrEqual(t, r.TextWidth(names[0])+5, l.ColumnWidth)
	assert.GreaterOrEqual(t, 60.0, l.FontSize*float64(l.Depth+1))
}

func TestLayoutLegend_ManyProjectsSplitColumns(t *testing.T) {
	r := newRecorder()
	names := []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"}
	l := LayoutLegend(r, names, 400, 60)

	assert.Equal(t, (len(names)+l.Depth-1)/l.Depth, l.Columns)
	assert.InDelta(t, 400/float64(l.Columns), l.ColumnWidth, 1e-9)
}

func TestLayoutLegend_NoProjects(t *testing.T) {
	l := LayoutLegend(newRecorder(), nil, 100, 60)

	assert.Equal(t, 0, l.Columns)
	assert.Equal(t, 100.0, l.ColumnWidth)
	assert.Equal(t, 15.0, l.FontSize)
}

func TestLayoutLegend_TerminatesWhenNothingFits(t *testing.T) {
	names := make([]string, 50)
	for i := range names {
		names[i] = strings.Repeat("X", 40)
	}
	l := LayoutLegend(newRecorder(), names, 10, 60)

	assert.Equal(t, 1.0, l.FontSize)
	assert.LessOrEqual(t, l.Iterations, 20)
}

func TestLegend_EntryOrigin(t *testing.T) {
	l := Legend{FontSize: 10, Depth: 2, ColumnWidth: 50}
	box := Box{Width: 100, Height: 60}

	x, y := l.EntryOrigin(0, box)
	assert.Equal(t, 5.0, x)
	assert.InDelta(t, 44.0, y, 1e-9)

	x, y = l.EntryOrigin(1, box)
	assert.Equal(t, 5.0, x)
	assert.InDelta(t, 33.0, y, 1e-9)

	x, y = l.EntryOrigin(2, box)
	assert.Equal(t, 55.0, x)
	assert.InDelta(t, 44.0, y, 1e-9)
}

func TestDrawPlate_ColorsAndNumbers(t *testing.T) {
	alpha := model.NewProjectWithSamples("Alpha", "red", 5)
	plate := testPlate(t, alpha)
	r := newRecorder()

	DrawPlate(r, plate, Box{X: 10, Y: 10, Width: 300, Height: 200})

	circles := r.filter("circle")
	require.Len(t, circles, 96)
	for i, c := range circles {
		assert.True(t, c.filled)
		assert.Equal(t, 9.0, c.w)
		if i < 5 {
			assert.Equal(t, model.Color("red"), c.color, "well %d", i)
		} else {
			assert.Equal(t, model.ColorWhite, c.color, "well %d", i)
		}
	}

	var texts []string
	for _, o := range r.filter("text") {
		texts = append(texts, o.text)
		assert.Equal(t, model.ColorBlack, o.color)
	}
	assert.Contains(t, texts, "Plate 1")
	assert.Contains(t, texts, "12")
	assert.Contains(t, texts, "H")
	// name + 12 column headers + 8 row headers + 5 sample numbers
	assert.Len(t, texts, 1+12+8+5)

	rects := r.filter("rect")
	require.Len(t, rects, 1)
	assert.False(t, rects[0].filled)
}

func TestDrawLegend(t *testing.T) {
	alpha := model.NewProjectWithSamples("Alpha", "red", 2)
	beta := model.NewProjectWithSamples("Beta", "orange", 2)
	plate := testPlate(t, alpha, beta)
	r := newRecorder()

	DrawLegend(r, plate, Box{X: 0, Y: 0, Width: 300, Height: 60})

	rects := r.filter("rect")
	require.Len(t, rects, 3)
	assert.False(t, rects[0].filled, "legend outline")
	assert.Equal(t, model.Color("red"), rects[1].color)
	assert.Equal(t, model.Color("orange"), rects[2].color)
	assert.True(t, rects[1].filled)

	texts := r.filter("text")
	require.Len(t, texts, 2)
	assert.Equal(t, "Alpha", texts[0].text)
	assert.Equal(t, "Beta", texts[1].text)
	assert.Greater(t, texts[0].y, texts[1].y, "entries run down the column")
}

func TestDrawLegend_EmptyPlate(t *testing.T) {
	r := newRecorder()
	DrawLegend(r, testPlate(t), Box{Width: 300, Height: 60})

	assert.Len(t, r.filter("rect"), 1)
	assert.Empty(t, r.filter("text"))
}

func TestDraw_Pages(t *testing.T) {
	var plates []*model.Plate
	for i := 0; i < 5; i++ {
		plates = append(plates, testPlate(t, model.NewProjectWithSamples("P", "green", 3)))
	}
	r := newRecorder()

	require.NoError(t, Draw(r, plates, "plates.csv"))

	assert.Equal(t, 2, r.pages)
	titles := 0
	for _, o := range r.filter("text") {
		if o.text == "plates.csv" {
			titles++
		}
	}
	assert.Equal(t, 2, titles)
	assert.Len(t, r.filter("circle"), 5*96)
}

func TestDraw_NoPlates(t *testing.T) {
	assert.Error(t, Draw(newRecorder(), nil, "x"))
}

func TestPageSizeByName(t *testing.T) {
	p, err := PageSizeByName("letter")
	require.NoError(t, err)
	assert.Equal(t, Letter, p)

	_, err = PageSizeByName("A0")
	assert.Error(t, err)
}
