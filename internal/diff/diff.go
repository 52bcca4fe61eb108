// Package diff computes structured deltas between two screen snapshots.
package diff

import "github.com/pepegar/tui-wright/internal/screen"

// DimensionChange records a change in terminal geometry between two snapshots.
type DimensionChange struct {
	OldRows int `json:"old_rows"`
	OldCols int `json:"old_cols"`
	NewRows int `json:"new_rows"`
	NewCols int `json:"new_cols"`
}

// CursorChange records a change in cursor position between two snapshots.
type CursorChange struct {
	OldRow int `json:"old_row"`
	OldCol int `json:"old_col"`
	NewRow int `json:"new_row"`
	NewCol int `json:"new_col"`
}

// CellChange records one cell that differs between the two snapshots.
type CellChange struct {
	Row int         `json:"row"`
	Col int         `json:"col"`
	Old screen.Cell `json:"old"`
	New screen.Cell `json:"new"`
}

// Summary aggregates counts over a Diff.
type Summary struct {
	TotalCellsCompared int  `json:"total_cells_compared"`
	ChangedCellCount   int  `json:"changed_cell_count"`
	DimensionsMatch    bool `json:"dimensions_match"`
	CursorMatches      bool `json:"cursor_matches"`
}

// Diff is the structured delta between two screen snapshots.
type Diff struct {
	Identical         bool              `json:"identical"`
	DimensionsChanged *DimensionChange  `json:"dimensions_changed,omitempty"`
	CursorChanged     *CursorChange     `json:"cursor_changed,omitempty"`
	ChangedCells      []CellChange      `json:"changed_cells"`
	Summary           Summary           `json:"summary"`
}

// Compute is a pure function comparing two screen snapshots and producing a
// structured delta. Iteration order when building ChangedCells: the
// overlapping rectangle in row-major order, then rows below the overlap in
// current, then columns right of the overlap in current, then rows below
// the overlap in baseline, then columns right of the overlap in baseline.
// Consumers must not rely on this order semantically; the only guarantee is
// that each coordinate appears at most once.
func Compute(baseline, current screen.Snapshot) Diff {
	var dimensionsChanged *DimensionChange
	if baseline.Rows != current.Rows || baseline.Cols != current.Cols {
		dimensionsChanged = &DimensionChange{
			OldRows: baseline.Rows,
			OldCols: baseline.Cols,
			NewRows: current.Rows,
			NewCols: current.Cols,
		}
	}

	var cursorChanged *CursorChange
	if baseline.CursorRow != current.CursorRow || baseline.CursorCol != current.CursorCol {
		cursorChanged = &CursorChange{
			OldRow: baseline.CursorRow,
			OldCol: baseline.CursorCol,
			NewRow: current.CursorRow,
			NewCol: current.CursorCol,
		}
	}

	changedCells := []CellChange{}
	compareRows := min(baseline.Rows, current.Rows)
	compareCols := min(baseline.Cols, current.Cols)

	for row := 0; row < compareRows; row++ {
		for col := 0; col < compareCols; col++ {
			oldCell := baseline.Cells[row][col]
			newCell := current.Cells[row][col]
			if oldCell != newCell {
				changedCells = append(changedCells, CellChange{Row: row, Col: col, Old: oldCell, New: newCell})
			}
		}
	}

	for row := compareRows; row < current.Rows; row++ {
		for col := 0; col < current.Cols; col++ {
			changedCells = append(changedCells, CellChange{Row: row, Col: col, Old: screen.BlankCell(), New: current.Cells[row][col]})
		}
	}

	for row := 0; row < compareRows; row++ {
		for col := compareCols; col < current.Cols; col++ {
			changedCells = append(changedCells, CellChange{Row: row, Col: col, Old: screen.BlankCell(), New: current.Cells[row][col]})
		}
	}

	for row := compareRows; row < baseline.Rows; row++ {
		for col := 0; col < baseline.Cols; col++ {
			changedCells = append(changedCells, CellChange{Row: row, Col: col, Old: baseline.Cells[row][col], New: screen.BlankCell()})
		}
	}

	for row := 0; row < compareRows; row++ {
		for col := compareCols; col < baseline.Cols; col++ {
			changedCells = append(changedCells, CellChange{Row: row, Col: col, Old: baseline.Cells[row][col], New: screen.BlankCell()})
		}
	}

	totalCells := max(baseline.Rows, current.Rows) * max(baseline.Cols, current.Cols)
	identical := dimensionsChanged == nil && cursorChanged == nil && len(changedCells) == 0

	return Diff{
		Identical:         identical,
		DimensionsChanged: dimensionsChanged,
		CursorChanged:     cursorChanged,
		ChangedCells:      changedCells,
		Summary: Summary{
			TotalCellsCompared: totalCells,
			ChangedCellCount:   len(changedCells),
			DimensionsMatch:    dimensionsChanged == nil,
			CursorMatches:      cursorChanged == nil,
		},
	}
}
