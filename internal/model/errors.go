package model

import "fmt"

// InvalidLabelError reports a well label, index or row/column pair that does
// not exist on a plate.
type InvalidLabelError struct {
	Plate string
	Label string
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("well %s does not exist on plate %q", e.Label, e.Plate)
}

// NotEnoughWellsError reports a placement that would run past the last well.
// Requested is the full sample count of the project, even when only a
// sub-range was being placed.
type NotEnoughWellsError struct {
	Requested int
	Available int
}

func (e *NotEnoughWellsError) Error() string {
	return fmt.Sprintf("not enough wells: %d requested, %d available", e.Requested, e.Available)
}

// WellNotFreeError reports the first occupied well in a placement's target range.
type WellNotFreeError struct {
	Well string
}

func (e *WellNotFreeError) Error() string {
	return fmt.Sprintf("well %s is not free", e.Well)
}
