package core

import (
	"errors"
	"fmt"
)

// DefaultDaysPerColumn lays the sheet out one column per week, one row per weekday.
const DefaultDaysPerColumn = 7

var ErrInvalidDaysPerColumn = errors.New("days per column must be positive")

// Resolve maps a calendar day to its cell in a sheet laid out in blocks of
// daysPerColumn rows, starting at anchorCell on anchorDate. Days before the
// anchor resolve to earlier columns; the row offset is always in
// [0, daysPerColumn).
func Resolve(ref Date, anchorCell CellAddress, anchorDate Date, daysPerColumn int) (CellAddress, error) {
	if daysPerColumn <= 0 {
		return CellAddress{}, fmt.Errorf("%w: %d", ErrInvalidDaysPerColumn, daysPerColumn)
	}
	days := ref.DaysSince(anchorDate)
	cols, rows := floorDivMod(days, daysPerColumn)

	addr, err := anchorCell.Offset(cols, rows)
	if err != nil {
		return CellAddress{}, fmt.Errorf("resolve %s from %s@%s: %w", ref, anchorCell, anchorDate, err)
	}
	return addr, nil
}

// ResolveAnchor is Resolve using the anchor's own cell and date.
func ResolveAnchor(ref Date, a AnchorSpec, daysPerColumn int) (CellAddress, error) {
	return Resolve(ref, a.Cell, a.Date, daysPerColumn)
}

// floorDivMod is integer division rounding toward negative infinity, with a
// remainder that has the sign of d.
func floorDivMod(n, d int) (q, r int) {
	q, r = n/d, n%d
	if r < 0 {
		q--
		r += d
	}
	return q, r
}
