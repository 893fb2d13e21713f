package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RowLetters is the alphabet used to label plate rows, in order.
const RowLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxRows is the largest number of rows a plate can have.
const MaxRows = len(RowLetters)

// Orientation is the fill direction used to generate a plate's well order.
type Orientation int

const (
	Vertical   Orientation = iota // Column-major: A1, B1, C1, ...
	Horizontal                    // Row-major: A1, A2, A3, ...
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "Horizontal"
	}
	return "Vertical"
}

// ParseOrientation accepts "vertical"/"v" and "horizontal"/"h" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v", "":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("unknown orientation %q", s)
	}
}

// WellLabel formats a zero-based row and column as a well label such as "C7".
func WellLabel(row, col int) string {
	return string(RowLetters[row]) + strconv.Itoa(col+1)
}

// WellOrder returns every well label of a rows x columns plate in fill order.
func WellOrder(rows, columns int, o Orientation) []string {
	order := make([]string, 0, rows*columns)
	if o == Vertical {
		for c := 0; c < columns; c++ {
			for r := 0; r < rows; r++ {
				order = append(order, WellLabel(r, c))
			}
		}
		return order
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			order = append(order, WellLabel(r, c))
		}
	}
	return order
}

// Position is a well on a specific plate, identified by its index in the
// plate's well order.
type Position struct {
	plate *Plate
	Index int
}

// Plate returns the plate the position belongs to.
func (p Position) Plate() *Plate {
	return p.plate
}

// Label returns the well label, e.g. "C7".
func (p Position) Label() string {
	return p.plate.order[p.Index]
}

// Row returns the zero-based row of the well.
func (p Position) Row() int {
	return strings.IndexByte(RowLetters, p.Label()[0])
}

// Column returns the zero-based column of the well.
func (p Position) Column() int {
	col, _ := strconv.Atoi(p.Label()[1:])
	return col - 1
}

func (p Position) String() string {
	return p.Label()
}

// LabelAt returns the label of the well at index i of the well order.
func (pl *Plate) LabelAt(i int) (string, error) {
	if i < 0 || i >= len(pl.order) {
		return "", &InvalidLabelError{Plate: pl.Name, Label: "#" + strconv.Itoa(i)}
	}
	return pl.order[i], nil
}

// PositionAt returns the position at index i of the well order.
func (pl *Plate) PositionAt(i int) (Position, error) {
	if _, err := pl.LabelAt(i); err != nil {
		return Position{}, err
	}
	return Position{plate: pl, Index: i}, nil
}

// PositionFromLabel looks up a well by label.
func (pl *Plate) PositionFromLabel(label string) (Position, error) {
	idx, ok := pl.index[label]
	if !ok {
		return Position{}, &InvalidLabelError{Plate: pl.Name, Label: label}
	}
	return Position{plate: pl, Index: idx}, nil
}

// PositionFromRowCol looks up a well by zero-based row and column.
func (pl *Plate) PositionFromRowCol(row, col int) (Position, error) {
	if row < 0 || row >= MaxRows || col < 0 {
		return Position{}, &InvalidLabelError{Plate: pl.Name, Label: fmt.Sprintf("row %d col %d", row, col)}
	}
	return pl.PositionFromLabel(WellLabel(row, col))
}

// Positions returns every well of the plate in well order.
func (pl *Plate) Positions() []Position {
	positions := make([]Position, len(pl.order))
	for i := range pl.order {
		positions[i] = Position{plate: pl, Index: i}
	}
	return positions
}
