package input

import "testing"

func TestParseBasicKeys(t *testing.T) {
	cases := map[string]KeyKind{
		"enter": KeyEnter, "Enter": KeyEnter, "return": KeyEnter,
		"tab": KeyTab, "escape": KeyEscape, "esc": KeyEscape,
	}
	for name, want := range cases {
		k, err := ParseKeyName(name)
		if err != nil {
			t.Fatalf("ParseKeyName(%q): %v", name, err)
		}
		if k.Kind != want {
			t.Errorf("ParseKeyName(%q) = %v, want %v", name, k.Kind, want)
		}
	}

	k, err := ParseKeyName("space")
	if err != nil || k.Kind != KeyChar || k.Char != ' ' {
		t.Errorf("ParseKeyName(space) = %+v, %v", k, err)
	}
}

func TestParseArrowKeys(t *testing.T) {
	cases := map[string]KeyKind{"up": KeyUp, "down": KeyDown, "left": KeyLeft, "right": KeyRight}
	for name, want := range cases {
		k, err := ParseKeyName(name)
		if err != nil || k.Kind != want {
			t.Errorf("ParseKeyName(%q) = %+v, %v, want %v", name, k, err, want)
		}
	}
}

func TestParseFunctionKeys(t *testing.T) {
	cases := map[string]int{"f1": 1, "F5": 5, "f12": 12}
	for name, want := range cases {
		k, err := ParseKeyName(name)
		if err != nil || k.Kind != KeyF || k.N != want {
			t.Errorf("ParseKeyName(%q) = %+v, %v, want F(%d)", name, k, err, want)
		}
	}
	if _, err := ParseKeyName("f13"); err == nil {
		t.Errorf("ParseKeyName(f13) expected error")
	}
	if _, err := ParseKeyName("f0"); err == nil {
		t.Errorf("ParseKeyName(f0) expected error")
	}
}

func TestParseCtrlKeys(t *testing.T) {
	cases := map[string]rune{"ctrl+c": 'c', "ctrl-z": 'z', "Ctrl+A": 'a'}
	for name, want := range cases {
		k, err := ParseKeyName(name)
		if err != nil || k.Kind != KeyCtrl || k.Char != want {
			t.Errorf("ParseKeyName(%q) = %+v, %v, want Ctrl(%c)", name, k, err, want)
		}
	}
}

func TestParseAltKeys(t *testing.T) {
	cases := map[string]rune{"alt+x": 'x', "Alt-F": 'f'}
	for name, want := range cases {
		k, err := ParseKeyName(name)
		if err != nil || k.Kind != KeyAlt || k.Char != want {
			t.Errorf("ParseKeyName(%q) = %+v, %v, want Alt(%c)", name, k, err, want)
		}
	}
}

func TestUnknownKey(t *testing.T) {
	if _, err := ParseKeyName("this is not a key"); err == nil {
		t.Errorf("expected error for unrecognizable name")
	}
}

func TestEscapeSequences(t *testing.T) {
	cases := []struct {
		key  Key
		want string
	}{
		{Key{Kind: KeyEnter}, "\x0d"},
		{Key{Kind: KeyTab}, "\x09"},
		{Key{Kind: KeyUp}, "\x1b[A"},
		{Key{Kind: KeyCtrl, Char: 'c'}, "\x03"},
		{Key{Kind: KeyCtrl, Char: 'a'}, "\x01"},
		{Key{Kind: KeyF, N: 1}, "\x1bOP"},
		{Key{Kind: KeyChar, Char: 'a'}, "a"},
	}
	for _, c := range cases {
		got := string(c.key.ToEscapeSequence())
		if got != c.want {
			t.Errorf("%+v.ToEscapeSequence() = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestMouseSGR(t *testing.T) {
	cases := []struct {
		action MouseAction
		col    int
		row    int
		want   string
	}{
		{MousePress, 10, 5, "\x1b[<0;11;6M"},
		{MouseRelease, 10, 5, "\x1b[<0;11;6m"},
		{MouseScrollUp, 0, 0, "\x1b[<64;1;1M"},
	}
	for _, c := range cases {
		got := string(MouseSGRSequence(c.action, c.col, c.row))
		if got != c.want {
			t.Errorf("MouseSGRSequence(%v,%d,%d) = %q, want %q", c.action, c.col, c.row, got, c.want)
		}
	}
}

func TestParseMouseAction(t *testing.T) {
	cases := map[string]MouseAction{
		"press": MousePress, "click": MousePress, "release": MouseRelease, "scrollup": MouseScrollUp,
	}
	for name, want := range cases {
		a, err := ParseMouseAction(name)
		if err != nil || a != want {
			t.Errorf("ParseMouseAction(%q) = %v, %v, want %v", name, a, err, want)
		}
	}
	if _, err := ParseMouseAction("invalid"); err == nil {
		t.Errorf("expected error for invalid mouse action")
	}
}
