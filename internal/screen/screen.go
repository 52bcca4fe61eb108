// Package screen builds the wire-format screen projection of the Terminal
// Model: a dense matrix of colored, attributed cells plus cursor position.
// Field names and color semantics follow the daemon's JSON protocol exactly.
package screen

import (
	"image/color"
	"strings"

	"github.com/pepegar/tui-wright/internal/term"
)

// Color is an RGB triple as it appears on the wire.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Cell is a single styled grid position as it appears on the wire.
type Cell struct {
	Char      string `json:"char"`
	Fg        Color  `json:"fg"`
	Bg        Color  `json:"bg"`
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	Underline bool   `json:"underline"`
	Inverse   bool   `json:"inverse"`
}

// Snapshot is the full structured view of a terminal's current display.
type Snapshot struct {
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	CursorRow int    `json:"cursor_row"`
	CursorCol int    `json:"cursor_col"`
	Cells     [][]Cell `json:"cells"`
}

// defaultForeground and defaultBackground are the wire-contract defaults,
// distinct from the Terminal Model's own rendering defaults (which favor a
// light-gray foreground to look reasonable on a dark terminal). These match
// the canonical xterm default colors: white text on a black background.
var (
	defaultForeground = Color{255, 255, 255}
	defaultBackground = Color{0, 0, 0}
)

// basic16 is the canonical xterm 16-color table used to resolve indexed
// colors 0-15. These are the standard xterm values, not the Terminal
// Model's own VS-Code-flavored DefaultPalette, which uses different RGB
// values for the same indices and is tuned for on-screen rendering rather
// than wire-contract fidelity.
var basic16 = [16]Color{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// indexToColor resolves a 0-255 palette index to its canonical RGB value:
// the 16-entry basic table, the 6x6x6 color cube, or the 24-step greyscale
// ramp, in that order.
func indexToColor(idx int) Color {
	if idx < 16 {
		return basic16[idx]
	}
	if idx < 232 {
		i := idx - 16
		return Color{
			R: uint8((i / 36) * 51),
			G: uint8(((i % 36) / 6) * 51),
			B: uint8((i % 6) * 51),
		}
	}
	gray := uint8(8 + (idx-232)*10)
	return Color{gray, gray, gray}
}

// resolveColor converts a Cell's stored color.Color to its wire RGB value.
// The Terminal Model's colors arrive in three flavors: Default (nil or the
// foreground/background NamedColor sentinels), Indexed, or true RGB. Any
// other NamedColor (cursor color, dim variants) falls back to the Terminal
// Model's own palette resolution, since those never reach an exported
// Cell.Fg/Bg in practice but the type switch must still be total.
func resolveColor(c color.Color, fg bool) Color {
	if c == nil {
		if fg {
			return defaultForeground
		}
		return defaultBackground
	}

	switch v := c.(type) {
	case *term.NamedColor:
		if v.Name == term.NamedColorForeground {
			return defaultForeground
		}
		if v.Name == term.NamedColorBackground {
			return defaultBackground
		}
		rgba := term.ResolveDefaultColor(c, fg)
		return Color{rgba.R, rgba.G, rgba.B}
	case *term.IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			return indexToColor(v.Index)
		}
		if fg {
			return defaultForeground
		}
		return defaultBackground
	case color.RGBA:
		return Color{v.R, v.G, v.B}
	default:
		r, g, b, _ := c.RGBA()
		return Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
}

// Capture builds a Snapshot by querying every cell of t directly, bypassing
// the Terminal Model's own richer internal Snapshot type (which carries
// detail levels not part of this wire contract).
func Capture(t *term.Terminal) Snapshot {
	rows, cols := t.Rows(), t.Cols()
	cursorRow, cursorCol := t.CursorPos()

	cells := make([][]Cell, rows)
	for r := 0; r < rows; r++ {
		row := make([]Cell, cols)
		for c := 0; c < cols; c++ {
			cell := t.Cell(r, c)
			row[c] = cellToWire(cell)
		}
		cells[r] = row
	}

	return Snapshot{
		Rows:      rows,
		Cols:      cols,
		CursorRow: cursorRow,
		CursorCol: cursorCol,
		Cells:     cells,
	}
}

func cellToWire(cell *term.Cell) Cell {
	if cell == nil {
		return BlankCell()
	}
	ch := string(cell.Char)
	if cell.Char == 0 {
		ch = ""
	}
	return Cell{
		Char:      ch,
		Fg:        resolveColor(cell.Fg, true),
		Bg:        resolveColor(cell.Bg, false),
		Bold:      cell.HasFlag(term.CellFlagBold),
		Italic:    cell.HasFlag(term.CellFlagItalic),
		Underline: cell.HasFlag(term.CellFlagUnderline),
		Inverse:   cell.HasFlag(term.CellFlagReverse),
	}
}

// BlankCell is the canonical blank cell used wherever a coordinate exists
// in only one of two snapshots being compared: a space glyph, default
// colors, and no attributes.
func BlankCell() Cell {
	return Cell{
		Char: " ",
		Fg:   defaultForeground,
		Bg:   defaultBackground,
	}
}

// Text renders a snapshot's cells as plain text: one line per row, each
// cell's grapheme concatenated (a space substituted for empty cells), each
// row right-trimmed, trailing empty rows dropped, and the result joined
// with newlines. Embedded blank rows are preserved.
func Text(s Snapshot) string {
	lines := make([]string, 0, s.Rows)
	for _, row := range s.Cells {
		var b strings.Builder
		for _, cell := range row {
			if cell.Char == "" {
				b.WriteByte(' ')
			} else {
				b.WriteString(cell.Char)
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n")
}
