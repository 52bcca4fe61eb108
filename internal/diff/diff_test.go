package diff

import (
	"testing"

	"github.com/pepegar/tui-wright/internal/screen"
)

func blankRow(cols int) []screen.Cell {
	row := make([]screen.Cell, cols)
	for i := range row {
		row[i] = screen.BlankCell()
	}
	return row
}

func snapshotFromText(rows, cols int, text string) screen.Snapshot {
	cells := make([][]screen.Cell, rows)
	for r := range cells {
		cells[r] = blankRow(cols)
	}
	row, col := 0, 0
	for _, ch := range text {
		if row >= rows {
			break
		}
		cells[row][col] = screen.Cell{Char: string(ch), Fg: screen.Color{R: 255, G: 255, B: 255}, Bg: screen.Color{R: 0, G: 0, B: 0}}
		col++
		if col >= cols {
			col = 0
			row++
		}
	}
	return screen.Snapshot{Rows: rows, Cols: cols, CursorRow: row, CursorCol: col, Cells: cells}
}

func TestIdenticalSnapshots(t *testing.T) {
	snap := snapshotFromText(4, 10, "hello")
	d := Compute(snap, snap)
	if !d.Identical {
		t.Fatalf("expected identical diff, got %+v", d)
	}
	if d.DimensionsChanged != nil || d.CursorChanged != nil {
		t.Fatalf("expected no dimension/cursor change, got %+v", d)
	}
	if len(d.ChangedCells) != 0 {
		t.Fatalf("expected no changed cells, got %d", len(d.ChangedCells))
	}
}

func TestTextChange(t *testing.T) {
	snap1 := snapshotFromText(4, 10, "hello")
	snap2 := snapshotFromText(4, 10, "world")
	d := Compute(snap1, snap2)
	if d.Identical {
		t.Fatalf("expected non-identical diff")
	}
	if d.DimensionsChanged != nil {
		t.Fatalf("expected no dimension change")
	}
	if len(d.ChangedCells) == 0 {
		t.Fatalf("expected changed cells")
	}
}

func TestCursorChange(t *testing.T) {
	snap1 := snapshotFromText(4, 10, "ab")
	snap2 := snapshotFromText(4, 10, "abcd")
	d := Compute(snap1, snap2)
	if d.CursorChanged == nil {
		t.Fatalf("expected cursor change")
	}
	if d.CursorChanged.OldCol != 2 || d.CursorChanged.NewCol != 4 {
		t.Fatalf("unexpected cursor change: %+v", d.CursorChanged)
	}
}

func TestDimensionChange(t *testing.T) {
	snap1 := snapshotFromText(4, 10, "test")
	snap2 := snapshotFromText(6, 12, "test")
	d := Compute(snap1, snap2)
	if d.DimensionsChanged == nil {
		t.Fatalf("expected dimension change")
	}
	want := DimensionChange{OldRows: 4, OldCols: 10, NewRows: 6, NewCols: 12}
	if *d.DimensionsChanged != want {
		t.Fatalf("got %+v want %+v", *d.DimensionsChanged, want)
	}
}

func TestDiffCoordinatesUnique(t *testing.T) {
	snap1 := snapshotFromText(4, 10, "test")
	snap2 := snapshotFromText(6, 12, "testing more")
	d := Compute(snap1, snap2)
	seen := make(map[[2]int]bool)
	for _, c := range d.ChangedCells {
		key := [2]int{c.Row, c.Col}
		if seen[key] {
			t.Fatalf("coordinate (%d,%d) emitted more than once", c.Row, c.Col)
		}
		seen[key] = true
	}
}
