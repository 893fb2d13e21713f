package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestAddSample_AutoNumbers(t *testing.T) {
	p := NewProject("Alpha", "red")

	p.AddSample(NewSample(p, "s1", nil))
	p.AddSample(NewSample(p, "s2", intPtr(42)))
	p.AddSample(NewSample(p, "s3", nil))

	require.Equal(t, 3, p.SampleCount())
	assert.Equal(t, 1, *p.Samples[0].Number)
	assert.Equal(t, 42, *p.Samples[1].Number)
	assert.Equal(t, 3, *p.Samples[2].Number)
}

func TestRemoveSample_FirstReferenceOnly(t *testing.T) {
	p := NewProject("Alpha", "red")
	s := NewSample(p, "dup", nil)
	other := NewSample(p, "other", nil)

	p.AddSample(s)
	p.AddSample(other)
	p.Samples = append(p.Samples, s)

	p.RemoveSample(s)

	require.Equal(t, 2, p.SampleCount())
	assert.Same(t, other, p.Samples[0])
	assert.Same(t, s, p.Samples[1])

	p.RemoveSample(NewSample(p, "stranger", nil))
	assert.Equal(t, 2, p.SampleCount())
}

func TestNewProjectWithSamples(t *testing.T) {
	p := NewProjectWithSamples("Alpha", "red", 3)

	require.Equal(t, 3, p.SampleCount())
	assert.Equal(t, "Sample2", p.Samples[1].Name)
	assert.Equal(t, "2", p.Samples[1].NumberLabel())
	assert.Same(t, p, p.Samples[1].Project)
	assert.Len(t, p.ID, 8)
}

func TestNumberLabel_Nil(t *testing.T) {
	var s *Sample
	assert.Equal(t, "", s.NumberLabel())
	assert.Equal(t, "", NewSample(nil, "x", nil).NumberLabel())
}

func TestPaletteColor_Cycles(t *testing.T) {
	assert.Equal(t, Color("red"), PaletteColor(nil, 0))
	assert.Equal(t, Color("brown"), PaletteColor(Palette, 7))
	assert.Equal(t, Color("red"), PaletteColor(Palette, 8))
	assert.Equal(t, Color("#00ff00"), PaletteColor([]Color{"#00ff00"}, 5))
}
