package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlate(t *testing.T, o Orientation) *Plate {
	t.Helper()
	plate, err := NewPlate("Plate 1", 8, 12, o)
	require.NoError(t, err)
	return plate
}

// occupancy snapshots which sample each well holds, in well order.
func occupancy(p *Plate) []*Sample {
	out := make([]*Sample, 0, p.NumberOfWells())
	for _, pos := range p.Positions() {
		out = append(out, p.At(pos))
	}
	return out
}

func TestNewPlate_InvalidGeometry(t *testing.T) {
	_, err := NewPlate("bad", 0, 12, Vertical)
	assert.Error(t, err)
	_, err = NewPlate("bad", 27, 12, Vertical)
	assert.Error(t, err)
	_, err = NewPlate("bad", 8, 0, Vertical)
	assert.Error(t, err)
}

func TestNewPlate_StartsEmpty(t *testing.T) {
	plate := newTestPlate(t, Vertical)

	assert.Equal(t, 96, plate.NumberOfWells())
	assert.Len(t, plate.FreeWells(), 96)
	assert.Empty(t, plate.UsedWells())
	assert.Empty(t, plate.Projects())
}

func TestAddProject_VerticalFill(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 5)

	start, err := plate.PositionFromLabel("A1")
	require.NoError(t, err)
	require.NoError(t, plate.AddProject(alpha, start))

	for i, label := range []string{"A1", "B1", "C1", "D1", "E1"} {
		s, err := plate.Well(label)
		require.NoError(t, err)
		assert.Same(t, alpha.Samples[i], s, "well %s", label)
	}
	f1, _ := plate.Well("F1")
	assert.Nil(t, f1)
	assert.Len(t, plate.UsedWells(), 5)
}

func TestAddProject_HorizontalFill(t *testing.T) {
	plate := newTestPlate(t, Horizontal)
	alpha := NewProjectWithSamples("Alpha", "red", 3)

	start, _ := plate.PositionFromLabel("A11")
	require.NoError(t, plate.AddProject(alpha, start))

	for i, label := range []string{"A11", "A12", "B1"} {
		s, _ := plate.Well(label)
		assert.Same(t, alpha.Samples[i], s, "well %s", label)
	}
}

func TestAddProjectRange_SubRange(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 10)

	start, _ := plate.PositionAt(8)
	require.NoError(t, plate.AddProjectRange(alpha, start, 2, 4))

	used := plate.UsedWells()
	require.Len(t, used, 3)
	for i, pos := range used {
		assert.Equal(t, 8+i, pos.Index)
		assert.Same(t, alpha.Samples[2+i], plate.At(pos))
	}
}

func TestAddProjectRange_LastPastEndIsClamped(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 4)

	start, _ := plate.PositionAt(0)
	require.NoError(t, plate.AddProjectRange(alpha, start, 1, 99))
	assert.Len(t, plate.UsedWells(), 3)
}

func TestAddProjectRange_BadFirst(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 4)
	start, _ := plate.PositionAt(0)

	assert.Error(t, plate.AddProjectRange(alpha, start, 4, -1))
	assert.Error(t, plate.AddProjectRange(alpha, start, 3, 1))
	assert.Error(t, plate.AddProject(NewProject("Empty", "red"), start))
	assert.Empty(t, plate.UsedWells())
}

func TestAddProject_NotEnoughWells(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 5)

	start, _ := plate.PositionAt(93)
	before := occupancy(plate)

	err := plate.AddProject(alpha, start)

	var notEnough *NotEnoughWellsError
	require.ErrorAs(t, err, &notEnough)
	assert.Equal(t, 5, notEnough.Requested)
	assert.Equal(t, 3, notEnough.Available)
	assert.Equal(t, before, occupancy(plate))
}

func TestAddProject_NotEnoughWellsReportsFullProject(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 20)

	start, _ := plate.PositionAt(94)
	err := plate.AddProjectRange(alpha, start, 0, 4)

	var notEnough *NotEnoughWellsError
	require.ErrorAs(t, err, &notEnough)
	assert.Equal(t, 20, notEnough.Requested)
	assert.Equal(t, 2, notEnough.Available)
}

func TestAddProject_WellNotFreeIsAllOrNothing(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 2)
	beta := NewProjectWithSamples("Beta", "orange", 6)

	c1, _ := plate.PositionFromLabel("C1")
	require.NoError(t, plate.AddProject(alpha, c1))
	before := occupancy(plate)

	a1, _ := plate.PositionFromLabel("A1")
	err := plate.AddProject(beta, a1)

	var notFree *WellNotFreeError
	require.ErrorAs(t, err, &notFree)
	assert.Equal(t, "C1", notFree.Well)
	assert.Equal(t, before, occupancy(plate))
}

func TestAddProject_StartFromOtherPlate(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	other := newTestPlate(t, Horizontal)
	alpha := NewProjectWithSamples("Alpha", "red", 1)

	start, _ := other.PositionFromLabel("B3")
	require.NoError(t, plate.AddProject(alpha, start))

	positions := plate.SamplePositions(alpha.Samples[0])
	require.Len(t, positions, 1)
	assert.Equal(t, "B3", positions[0].Label())
	assert.Same(t, plate, positions[0].Plate())
}

func TestProjects_FirstOccurrenceOrder(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 2)
	beta := NewProjectWithSamples("Beta", "orange", 2)

	b, _ := plate.PositionFromLabel("A2")
	a, _ := plate.PositionFromLabel("A5")
	require.NoError(t, plate.AddProject(alpha, a))
	require.NoError(t, plate.AddProject(beta, b))

	projects := plate.Projects()
	require.Len(t, projects, 2)
	assert.Same(t, beta, projects[0])
	assert.Same(t, alpha, projects[1])
}

func TestRemoveSample_ClearsAllPlacements(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 1)
	s := alpha.Samples[0]

	require.NoError(t, plate.SetWell("A1", s))
	require.NoError(t, plate.SetWell("H12", s))
	assert.Len(t, plate.SamplePositions(s), 2)

	plate.RemoveSample(s)

	assert.Empty(t, plate.SamplePositions(s))
	assert.Empty(t, plate.UsedWells())
	assert.Equal(t, 1, alpha.SampleCount(), "sample must stay in its project")

	plate.RemoveSample(nil)
	plate.RemoveSample(s)
}

func TestRemoveProject(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 3)
	beta := NewProjectWithSamples("Beta", "orange", 2)

	a1, _ := plate.PositionFromLabel("A1")
	a2, _ := plate.PositionFromLabel("A2")
	require.NoError(t, plate.AddProject(alpha, a1))
	require.NoError(t, plate.AddProject(beta, a2))

	plate.RemoveProject(alpha)

	assert.Len(t, plate.UsedWells(), 2)
	assert.Equal(t, []*Project{beta}, plate.Projects())
	assert.Equal(t, 3, alpha.SampleCount())

	ghost := NewProjectWithSamples("Ghost", "green", 2)
	plate.RemoveProject(ghost)
	assert.Len(t, plate.UsedWells(), 2)
}

func TestProjectRemoveSample_LeavesPlateInconsistent(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 2)
	a1, _ := plate.PositionFromLabel("A1")
	require.NoError(t, plate.AddProject(alpha, a1))

	removed := alpha.Samples[0]
	alpha.RemoveSample(removed)

	assert.Equal(t, 1, alpha.SampleCount())
	s, _ := plate.Well("A1")
	assert.Same(t, removed, s)
}

func TestSamplePositions_NotPlaced(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	alpha := NewProjectWithSamples("Alpha", "red", 1)

	assert.Empty(t, plate.SamplePositions(alpha.Samples[0]))
	assert.Empty(t, plate.SamplePositions(nil))
}

func TestSetWell_UnknownLabel(t *testing.T) {
	plate := newTestPlate(t, Vertical)
	var invalid *InvalidLabelError
	assert.ErrorAs(t, plate.SetWell("Z99", nil), &invalid)
	_, err := plate.Well("Z99")
	assert.ErrorAs(t, err, &invalid)
}
