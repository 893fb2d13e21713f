// Package model defines plates, wells, projects and samples, and the
// placement rules that put samples into wells.
package model

import "fmt"

// Plate is a fixed grid of wells. Geometry never changes after NewPlate;
// only well contents do.
type Plate struct {
	Name        string
	Rows        int
	Columns     int
	Orientation Orientation

	order []string       // well labels in fill order
	index map[string]int // label -> position in order
	wells []*Sample      // occupancy, aligned with order
}

// NewPlate creates an empty plate.
func NewPlate(name string, rows, columns int, o Orientation) (*Plate, error) {
	if rows < 1 || rows > MaxRows {
		return nil, fmt.Errorf("plate %q: rows must be between 1 and %d, got %d", name, MaxRows, rows)
	}
	if columns < 1 {
		return nil, fmt.Errorf("plate %q: columns must be positive, got %d", name, columns)
	}
	order := WellOrder(rows, columns, o)
	index := make(map[string]int, len(order))
	for i, label := range order {
		index[label] = i
	}
	return &Plate{
		Name:        name,
		Rows:        rows,
		Columns:     columns,
		Orientation: o,
		order:       order,
		index:       index,
		wells:       make([]*Sample, len(order)),
	}, nil
}

// NumberOfWells returns rows * columns.
func (pl *Plate) NumberOfWells() int {
	return len(pl.order)
}

// WellOrder returns a copy of the plate's well labels in fill order.
func (pl *Plate) WellOrder() []string {
	out := make([]string, len(pl.order))
	copy(out, pl.order)
	return out
}

// Well returns the sample in the labelled well, or nil if it is empty.
func (pl *Plate) Well(label string) (*Sample, error) {
	pos, err := pl.PositionFromLabel(label)
	if err != nil {
		return nil, err
	}
	return pl.wells[pos.Index], nil
}

// At returns the sample at pos, or nil if the well is empty.
func (pl *Plate) At(pos Position) *Sample {
	return pl.wells[pos.Index]
}

// SetWell puts s into the labelled well. A nil s empties the well.
func (pl *Plate) SetWell(label string, s *Sample) error {
	pos, err := pl.PositionFromLabel(label)
	if err != nil {
		return err
	}
	pl.wells[pos.Index] = s
	return nil
}

// UsedWells returns the occupied wells in well order.
func (pl *Plate) UsedWells() []Position {
	var used []Position
	for i, s := range pl.wells {
		if s != nil {
			used = append(used, Position{plate: pl, Index: i})
		}
	}
	return used
}

// FreeWells returns the empty wells in well order.
func (pl *Plate) FreeWells() []Position {
	var free []Position
	for i, s := range pl.wells {
		if s == nil {
			free = append(free, Position{plate: pl, Index: i})
		}
	}
	return free
}

// Samples returns the samples in occupied wells, in well order.
func (pl *Plate) Samples() []*Sample {
	var samples []*Sample
	for _, s := range pl.wells {
		if s != nil {
			samples = append(samples, s)
		}
	}
	return samples
}

// Projects returns the distinct projects of the placed samples in the order
// they first occur along the well order. It is recomputed on every call, so a
// project with nothing placed on this plate does not appear.
func (pl *Plate) Projects() []*Project {
	var projects []*Project
	seen := make(map[*Project]bool)
	for _, s := range pl.wells {
		if s == nil || seen[s.Project] {
			continue
		}
		seen[s.Project] = true
		projects = append(projects, s.Project)
	}
	return projects
}

// SamplePositions returns every position holding s. An empty result means
// the sample is not on this plate.
func (pl *Plate) SamplePositions(s *Sample) []Position {
	if s == nil {
		return nil
	}
	var positions []Position
	for i, w := range pl.wells {
		if w == s {
			positions = append(positions, Position{plate: pl, Index: i})
		}
	}
	return positions
}

// RemoveSample empties every well holding s. The sample stays in its project.
func (pl *Plate) RemoveSample(s *Sample) {
	for _, pos := range pl.SamplePositions(s) {
		pl.wells[pos.Index] = nil
	}
}

// RemoveProject empties every well holding a sample of project. Projects
// with nothing on the plate are ignored.
func (pl *Plate) RemoveProject(project *Project) {
	for _, p := range pl.Projects() {
		if p != project {
			continue
		}
		samples := make([]*Sample, len(p.Samples))
		copy(samples, p.Samples)
		for _, s := range samples {
			pl.RemoveSample(s)
		}
	}
}

// AddProject places all samples of project into consecutive wells starting at start.
func (pl *Plate) AddProject(project *Project, start Position) error {
	return pl.AddProjectRange(project, start, 0, -1)
}

// AddProjectRange places project.Samples[first..last] into consecutive wells
// of the well order beginning at start. A negative last, or one past the end
// of the project, means the last sample. Nothing is written unless every
// target well is inside the plate and empty.
func (pl *Plate) AddProjectRange(project *Project, start Position, first, last int) error {
	var err error
	switch start.plate {
	case pl:
	case nil:
		start, err = pl.PositionAt(start.Index)
	default:
		start, err = pl.PositionFromLabel(start.Label())
	}
	if err != nil {
		return err
	}
	if last < 0 || last >= project.SampleCount() {
		last = project.SampleCount() - 1
	}
	if first < 0 || first >= project.SampleCount() {
		return fmt.Errorf("project %q: first sample %d out of range (%d samples)", project.Name, first, project.SampleCount())
	}
	count := last - first + 1
	if count <= 0 {
		return fmt.Errorf("project %q: empty sample range %d..%d", project.Name, first, last)
	}

	if start.Index+count > pl.NumberOfWells() {
		return &NotEnoughWellsError{
			Requested: project.SampleCount(),
			Available: pl.NumberOfWells() - start.Index,
		}
	}

	targets := pl.wells[start.Index : start.Index+count]
	for i, s := range targets {
		if s != nil {
			return &WellNotFreeError{Well: pl.order[start.Index+i]}
		}
	}
	copy(targets, project.Samples[first:last+1])
	return nil
}
