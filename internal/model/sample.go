package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Color is a display color token: a palette name such as "red" or a
// "#rrggbb" hex string.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// Palette is the default cycle of project colors.
var Palette = []Color{"red", "orange", "yellow", "green", "purple", "cyan", "magenta", "brown"}

// PaletteColor returns the i-th color of palette, cycling by modulo.
// An empty palette falls back to the default one.
func PaletteColor(palette []Color, i int) Color {
	if len(palette) == 0 {
		palette = Palette
	}
	return palette[i%len(palette)]
}

// Sample is one specimen of a project. Number is nil until assigned.
type Sample struct {
	Project *Project
	Name    string
	Number  *int
}

// NewSample creates a sample that points back at project. The sample is not
// added to the project's sample list.
func NewSample(project *Project, name string, number *int) *Sample {
	return &Sample{Project: project, Name: name, Number: number}
}

// NumberLabel returns the sample number as text, or "" when it has none.
func (s *Sample) NumberLabel() string {
	if s == nil || s.Number == nil {
		return ""
	}
	return strconv.Itoa(*s.Number)
}

// Project is a named group of samples sharing a display color. The order of
// Samples is the default placement order.
type Project struct {
	ID      string
	Name    string
	Color   Color
	Samples []*Sample
}

// NewProject creates an empty project.
func NewProject(name string, color Color) *Project {
	return &Project{
		ID:      uuid.New().String()[:8],
		Name:    name,
		Color:   color,
		Samples: []*Sample{},
	}
}

// NewProjectWithSamples creates a project holding n placeholder samples
// named Sample1..Sample<n> and numbered 1..n.
func NewProjectWithSamples(name string, color Color, n int) *Project {
	p := NewProject(name, color)
	for i := 0; i < n; i++ {
		num := i + 1
		p.Samples = append(p.Samples, NewSample(p, fmt.Sprintf("Sample%d", num), &num))
	}
	return p
}

// SampleCount returns the number of samples in the project.
func (p *Project) SampleCount() int {
	return len(p.Samples)
}

// AddSample appends s. A sample without a number is numbered with the
// project's sample count after the append.
func (p *Project) AddSample(s *Sample) {
	p.Samples = append(p.Samples, s)
	if s.Number == nil {
		n := p.SampleCount()
		s.Number = &n
	}
}

// RemoveSample drops the first reference to s from the project.
// Wells holding s on any plate are left untouched; remove it from plates first.
func (p *Project) RemoveSample(s *Sample) {
	for i, existing := range p.Samples {
		if existing == s {
			p.Samples = append(p.Samples[:i], p.Samples[i+1:]...)
			return
		}
	}
}
