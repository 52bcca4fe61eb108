// Package input translates symbolic key names and mouse actions into the
// byte sequences a PTY child expects: control bytes, CSI/SS3 escape
// sequences, and SGR mouse reports. Pure translation, no I/O.
package input

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownKey is returned when a symbolic key name has no known encoding.
type ErrUnknownKey struct{ Name string }

func (e *ErrUnknownKey) Error() string { return fmt.Sprintf("unknown key name: %s", e.Name) }

// ErrUnknownMouseAction is returned when a mouse action name is not recognized.
type ErrUnknownMouseAction struct{ Action string }

func (e *ErrUnknownMouseAction) Error() string {
	return fmt.Sprintf("unknown mouse action: %s", e.Action)
}

// KeyKind discriminates the parsed form of a symbolic key name.
type KeyKind int

const (
	KeyChar KeyKind = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF
	KeyCtrl
	KeyAlt
)

// Key is a parsed symbolic key: Kind discriminates the variant, Char and N
// carry the payload for KeyChar/KeyCtrl/KeyAlt and KeyF respectively.
type Key struct {
	Kind KeyKind
	Char rune
	N    int
}

// MouseAction is a parsed symbolic mouse action.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
	MouseScrollUp
	MouseScrollDown
)

// ToEscapeSequence returns the byte sequence a PTY child expects for k.
func (k Key) ToEscapeSequence() []byte {
	switch k.Kind {
	case KeyChar:
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, k.Char)
		return buf[:n]
	case KeyEnter:
		return []byte{13}
	case KeyTab:
		return []byte{9}
	case KeyBackspace:
		return []byte{127}
	case KeyEscape:
		return []byte{27}
	case KeyUp:
		return []byte("\x1b[A")
	case KeyDown:
		return []byte("\x1b[B")
	case KeyLeft:
		return []byte("\x1b[D")
	case KeyRight:
		return []byte("\x1b[C")
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyF:
		switch k.N {
		case 1:
			return []byte("\x1bOP")
		case 2:
			return []byte("\x1bOQ")
		case 3:
			return []byte("\x1bOR")
		case 4:
			return []byte("\x1bOS")
		case 5:
			return []byte("\x1b[15~")
		case 6:
			return []byte("\x1b[17~")
		case 7:
			return []byte("\x1b[18~")
		case 8:
			return []byte("\x1b[19~")
		case 9:
			return []byte("\x1b[20~")
		case 10:
			return []byte("\x1b[21~")
		case 11:
			return []byte("\x1b[23~")
		case 12:
			return []byte("\x1b[24~")
		default:
			return nil
		}
	case KeyCtrl:
		return []byte{byte(k.Char-'a') + 1}
	case KeyAlt:
		buf := make([]byte, 1+utf8.UTFMax)
		buf[0] = 27
		n := utf8.EncodeRune(buf[1:], k.Char)
		return buf[:1+n]
	default:
		return nil
	}
}

// ParseKeyName parses a case-insensitive symbolic key name per the grammar:
// ctrl+<letter>/ctrl-<letter>, alt+<char>/alt-<char>, f1..f12, the named
// keys below, or a single printable character.
func ParseKeyName(name string) (Key, error) {
	lower := strings.ToLower(name)

	if strings.HasPrefix(lower, "ctrl+") || strings.HasPrefix(lower, "ctrl-") {
		rest := lower[5:]
		ch, _ := utf8.DecodeRuneInString(rest)
		if ch == utf8.RuneError || !unicode.IsLower(ch) || ch > unicode.MaxASCII {
			return Key{}, &ErrUnknownKey{Name: name}
		}
		return Key{Kind: KeyCtrl, Char: ch}, nil
	}

	if strings.HasPrefix(lower, "alt+") || strings.HasPrefix(lower, "alt-") {
		rest := lower[4:]
		ch, size := utf8.DecodeRuneInString(rest)
		if ch == utf8.RuneError && size == 0 {
			return Key{}, &ErrUnknownKey{Name: name}
		}
		return Key{Kind: KeyAlt, Char: ch}, nil
	}

	if strings.HasPrefix(lower, "f") && len(lower) >= 2 {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 12 {
			return Key{Kind: KeyF, N: n}, nil
		}
	}

	switch lower {
	case "enter", "return":
		return Key{Kind: KeyEnter}, nil
	case "tab":
		return Key{Kind: KeyTab}, nil
	case "backspace", "bs":
		return Key{Kind: KeyBackspace}, nil
	case "escape", "esc":
		return Key{Kind: KeyEscape}, nil
	case "up":
		return Key{Kind: KeyUp}, nil
	case "down":
		return Key{Kind: KeyDown}, nil
	case "left":
		return Key{Kind: KeyLeft}, nil
	case "right":
		return Key{Kind: KeyRight}, nil
	case "home":
		return Key{Kind: KeyHome}, nil
	case "end":
		return Key{Kind: KeyEnd}, nil
	case "pageup", "pgup":
		return Key{Kind: KeyPageUp}, nil
	case "pagedown", "pgdn":
		return Key{Kind: KeyPageDown}, nil
	case "insert", "ins":
		return Key{Kind: KeyInsert}, nil
	case "delete", "del":
		return Key{Kind: KeyDelete}, nil
	case "space":
		return Key{Kind: KeyChar, Char: ' '}, nil
	}

	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError {
		return Key{Kind: KeyChar, Char: r}, nil
	}

	return Key{}, &ErrUnknownKey{Name: name}
}

// ParseMouseAction parses a case-insensitive symbolic mouse action name.
func ParseMouseAction(action string) (MouseAction, error) {
	switch strings.ToLower(action) {
	case "press", "click":
		return MousePress, nil
	case "release":
		return MouseRelease, nil
	case "move":
		return MouseMove, nil
	case "scrollup", "scroll-up":
		return MouseScrollUp, nil
	case "scrolldown", "scroll-down":
		return MouseScrollDown, nil
	default:
		return 0, &ErrUnknownMouseAction{Action: action}
	}
}

// MouseSGRSequence builds the SGR mouse report for action at 0-based col/row.
func MouseSGRSequence(action MouseAction, col, row int) []byte {
	var button int
	var suffix byte
	switch action {
	case MousePress:
		button, suffix = 0, 'M'
	case MouseRelease:
		button, suffix = 0, 'm'
	case MouseMove:
		button, suffix = 32, 'M'
	case MouseScrollUp:
		button, suffix = 64, 'M'
	case MouseScrollDown:
		button, suffix = 65, 'M'
	}
	return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", button, col+1, row+1, suffix))
}
