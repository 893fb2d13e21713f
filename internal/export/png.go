package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/piwi3910/PlateMap/internal/model"
	"github.com/piwi3910/PlateMap/internal/render"
)

// PNGSurface rasterises pages into RGBA images. Text uses Go Regular whatever
// font name is asked for.
type PNGSurface struct {
	page  render.PageSize
	dpi   float64
	scale float64 // pixels per point

	pages []*image.RGBA
	img   *image.RGBA

	font  *opentype.Font
	faces map[float64]font.Face
	face  font.Face
	fill  color.RGBA
	err   error
}

// NewPNGSurface creates a surface with no pages. dpi <= 0 means 72.
func NewPNGSurface(page render.PageSize, dpi float64) (*PNGSurface, error) {
	if dpi <= 0 {
		dpi = 72
	}
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	s := &PNGSurface{
		page:  page,
		dpi:   dpi,
		scale: dpi / 72,
		font:  f,
		faces: make(map[float64]font.Face),
		fill:  color.RGBA{A: 255},
	}
	s.SetFont(render.FontName, 12)
	return s, nil
}

func (s *PNGSurface) PageSize() render.PageSize { return s.page }

// Pages returns the images drawn so far.
func (s *PNGSurface) Pages() []*image.RGBA { return s.pages }

func (s *PNGSurface) AddPage() {
	w := int(math.Ceil(s.page.Width * s.scale))
	h := int(math.Ceil(s.page.Height * s.scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	s.pages = append(s.pages, img)
	s.img = img
}

func (s *PNGSurface) SetFont(_ string, size float64) {
	if face, ok := s.faces[size]; ok {
		s.face = face
		return
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     s.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		s.err = errors.Join(s.err, fmt.Errorf("font size %v: %w", size, err))
		return
	}
	s.faces[size] = face
	s.face = face
}

func (s *PNGSurface) TextWidth(text string) float64 {
	if s.face == nil {
		return 0
	}
	return float64(font.MeasureString(s.face, text)) / 64 / s.scale
}

func (s *PNGSurface) SetFillColor(c model.Color) {
	r, g, b, _ := c.RGB()
	s.fill = color.RGBA{R: r, G: g, B: b, A: 255}
}

func (s *PNGSurface) DrawText(x, y float64, text, fontName string, size float64) {
	s.SetFont(fontName, size)
	if s.face == nil {
		return
	}
	px, py := s.toPixels(x, y)
	d := &font.Drawer{
		Dst:  s.current(),
		Src:  image.NewUniform(s.fill),
		Face: s.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(px * 64), Y: fixed.Int26_6(py * 64)},
	}
	d.DrawString(text)
}

// Rect fills without an outline, or outlines in black.
func (s *PNGSurface) Rect(x, y, w, h float64, filled bool) {
	x0, y1 := s.toPixels(x, y)
	x1, y0 := s.toPixels(x+w, y+h)
	r := image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
	img := s.current()
	if filled {
		draw.Draw(img, r, image.NewUniform(s.fill), image.Point{}, draw.Src)
		return
	}
	lw := s.lineWidth()
	black := image.NewUniform(color.Black)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+lw),
		image.Rect(r.Min.X, r.Max.Y-lw, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+lw, r.Max.Y),
		image.Rect(r.Max.X-lw, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(img, edge, black, image.Point{}, draw.Src)
	}
}

// Circle scanline-fills the disc when filled and always draws a black rim.
func (s *PNGSurface) Circle(x, y, r float64, filled bool) {
	cx, cy := s.toPixels(x, y)
	radius := r * s.scale
	rim := float64(s.lineWidth())
	img := s.current()
	b := img.Bounds()

	minY := max(int(math.Floor(cy-radius)), b.Min.Y)
	maxY := min(int(math.Ceil(cy+radius)), b.Max.Y-1)
	for py := minY; py <= maxY; py++ {
		dy := float64(py) + 0.5 - cy
		if dy*dy > radius*radius {
			continue
		}
		half := math.Sqrt(radius*radius - dy*dy)
		minX := max(int(math.Floor(cx-half)), b.Min.X)
		maxX := min(int(math.Ceil(cx+half)), b.Max.X-1)
		for px := minX; px <= maxX; px++ {
			d := math.Hypot(float64(px)+0.5-cx, dy)
			switch {
			case d > radius:
			case d > radius-rim:
				img.SetRGBA(px, py, color.RGBA{A: 255})
			case filled:
				img.SetRGBA(px, py, s.fill)
			}
		}
	}
}

// Save writes each page as a PNG. The first page goes to path, page n to
// "<stem>-n.png" beside it.
func (s *PNGSurface) Save(path string) error {
	if s.err != nil {
		return s.err
	}
	if len(s.pages) == 0 {
		return errors.New("no pages to save")
	}
	for i, img := range s.pages {
		if err := writePNG(pagePath(path, i), img); err != nil {
			return err
		}
	}
	return nil
}

func pagePath(path string, i int) string {
	if i == 0 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), i+1, ext)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

func (s *PNGSurface) current() *image.RGBA {
	if s.img == nil {
		s.AddPage()
	}
	return s.img
}

// toPixels maps a point in page coordinates to image pixels, flipping y.
func (s *PNGSurface) toPixels(x, y float64) (float64, float64) {
	return x * s.scale, (s.page.Height - y) * s.scale
}

func (s *PNGSurface) lineWidth() int {
	return max(1, int(math.Round(s.scale)))
}

// ExportPNG renders plates into one PNG per page. Files are written once,
// after drawing, whether or not drawing succeeded.
func ExportPNG(path string, plates []*model.Plate, opts Options) (err error) {
	s, err := NewPNGSurface(opts.Page, opts.DPI)
	if err != nil {
		return err
	}
	defer func() {
		if serr := s.Save(path); err == nil {
			err = serr
		}
	}()
	return render.Draw(s, plates, opts.Title)
}
