package screen

import "testing"

func TestIndexToColorBasic16(t *testing.T) {
	cases := []struct {
		idx  int
		want Color
	}{
		{0, Color{0, 0, 0}},
		{1, Color{205, 0, 0}},
		{7, Color{229, 229, 229}},
		{15, Color{255, 255, 255}},
	}
	for _, c := range cases {
		if got := indexToColor(c.idx); got != c.want {
			t.Errorf("indexToColor(%d) = %+v, want %+v", c.idx, got, c.want)
		}
	}
}

func TestIndexToColorCube(t *testing.T) {
	// Index 16 is the cube's first entry: r=g=b=0.
	if got := indexToColor(16); got != (Color{0, 0, 0}) {
		t.Errorf("indexToColor(16) = %+v, want {0 0 0}", got)
	}
	// Index 231 is the cube's last entry: r=g=b=5*51=255.
	if got := indexToColor(231); got != (Color{255, 255, 255}) {
		t.Errorf("indexToColor(231) = %+v, want {255 255 255}", got)
	}
	// Index 21 = 16 + 5: i=5 -> r=0, g=0, b=5*51=255.
	if got := indexToColor(21); got != (Color{0, 0, 255}) {
		t.Errorf("indexToColor(21) = %+v, want {0 0 255}", got)
	}
}

func TestIndexToColorGreyscale(t *testing.T) {
	// Index 232 is the ramp's darkest step: gray = 8.
	if got := indexToColor(232); got != (Color{8, 8, 8}) {
		t.Errorf("indexToColor(232) = %+v, want {8 8 8}", got)
	}
	// Index 255 is the ramp's lightest step: gray = 8 + 23*10 = 238.
	if got := indexToColor(255); got != (Color{238, 238, 238}) {
		t.Errorf("indexToColor(255) = %+v, want {238 238 238}", got)
	}
}

func TestTextTrimsTrailingSpacesAndRows(t *testing.T) {
	snap := Snapshot{
		Rows: 3,
		Cols: 3,
		Cells: [][]Cell{
			{{Char: "a"}, {Char: "b"}, {Char: ""}},
			{{Char: ""}, {Char: ""}, {Char: ""}},
			{{Char: ""}, {Char: ""}, {Char: ""}},
		},
	}

	got := Text(snap)
	want := "ab"
	if got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestTextPreservesEmbeddedBlankRows(t *testing.T) {
	snap := Snapshot{
		Rows: 3,
		Cols: 1,
		Cells: [][]Cell{
			{{Char: "a"}},
			{{Char: ""}},
			{{Char: "b"}},
		},
	}

	got := Text(snap)
	want := "a\n\nb"
	if got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
