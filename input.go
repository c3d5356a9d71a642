package vterm

import "unicode"

// KeyMod is a bitset of modifier keys held alongside a key or pointer
// event.
type KeyMod uint8

const (
	ModShift KeyMod = 1 << iota
	ModAlt
	ModCtrl
	ModSuper // Cmd on macOS, Super/Win elsewhere
)

// Key identifies a non-printable key. Printable keys are routed by their
// rune instead (see KeyEvent.Rune).
type Key int

const (
	KeyNone Key = iota
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
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// KeyEvent is a single keystroke: either a non-printable Key or a
// printable Rune (never both set).
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods KeyMod
}

// MouseButton identifies which pointer button (or wheel direction)
// produced a MouseEvent.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction distinguishes press/release/drag for a MouseEvent.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseDrag
)

// MouseEvent is a single pointer action at a cell position.
type MouseEvent struct {
	Button MouseButton
	Action MouseAction
	Row    int
	Col    int
	Mods   KeyMod
}

// EditorAction is a resolved non-byte-sending outcome: something the host
// application performs itself rather than forwarding to the child.
type EditorAction int

const (
	ActionNone EditorAction = iota
	ActionCopy
	ActionPaste
	ActionOpenLink
)

// Resolution is what an InputRouter decided for an event: send bytes to
// the child, or perform a host-side EditorAction. Exactly one of Bytes or
// Action is meaningful (Action is ActionNone when Bytes is the result).
type Resolution struct {
	Bytes  []byte
	Action EditorAction
}

func bytesResolution(b string) Resolution { return Resolution{Bytes: []byte(b)} }
func actionResolution(a EditorAction) Resolution { return Resolution{Action: a} }

// keyBinding matches a KeyEvent against required/forbidden mode bits. A
// binding matches on Key when rune is 0, or on Rune (case-insensitive)
// when key is KeyNone — covering both non-printable keys and
// modifier-decorated printable ones (e.g. Cmd+C).
type keyBinding struct {
	key         Key
	rune        rune
	mods        KeyMod
	includeMode Mode // must be set
	excludeMode Mode // must be clear
	resolve     func(mods KeyMod) Resolution
}

func (b keyBinding) matches(ev KeyEvent) bool {
	if b.rune != 0 {
		return unicode.ToLower(ev.Rune) == unicode.ToLower(b.rune) && b.mods == ev.Mods
	}
	return b.key == ev.Key && b.mods == ev.Mods
}

// mouseBinding matches a MouseEvent the same way.
type mouseBinding struct {
	button      MouseButton
	mods        KeyMod
	includeMode Mode
	excludeMode Mode
	resolve     func(ev MouseEvent, linkUnderCursor bool) Resolution
}

// InputRouter resolves key and pointer events against an ordered binding
// table plus the terminal's current Mode bitset (so, e.g., arrow keys
// encode differently in application-cursor mode). Platform determines
// which modifier the "open link" / "copy" gestures use (Cmd on macOS,
// Shift+Ctrl elsewhere), mirroring common terminal-emulator convention.
type InputRouter struct {
	keyBindings   []keyBinding
	mouseBindings []mouseBinding
	platformMod   KeyMod // the platform's "open-link"/copy-paste modifier
}

// NewInputRouter returns a router with the default binding tables.
// macOS passes ModSuper for platformMod; other platforms pass
// ModShift|ModCtrl.
func NewInputRouter(platformMod KeyMod) *InputRouter {
	r := &InputRouter{platformMod: platformMod}
	r.installDefaults()
	return r
}

// ResolveKey finds the first matching binding for ev under mode. With no
// matching binding, a rune event falls back to its literal encoding (a C0
// control for Ctrl+letter, otherwise the rune's UTF-8 bytes); a non-rune
// key falls back to an empty Resolution.
func (r *InputRouter) ResolveKey(ev KeyEvent, mode Mode) Resolution {
	for _, b := range r.keyBindings {
		if !b.matches(ev) {
			continue
		}
		if !mode.Has(b.includeMode) {
			continue
		}
		if b.excludeMode != 0 && mode.Has(b.excludeMode) {
			continue
		}
		return b.resolve(ev.Mods)
	}
	return r.fallback(ev)
}

func (r *InputRouter) fallback(ev KeyEvent) Resolution {
	if ev.Key == KeyNone && ev.Rune != 0 {
		if ev.Mods&ModCtrl != 0 {
			if c, ok := ctrlControlByte(ev.Rune); ok {
				return Resolution{Bytes: []byte{c}}
			}
		}
		return Resolution{Bytes: []byte(string(ev.Rune))}
	}
	return Resolution{}
}

// ctrlControlByte maps Ctrl+letter to its C0 control byte (Ctrl+A through
// Ctrl+Z -> 0x01-0x1A; a few punctuation companions per common convention).
func ctrlControlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	case r == '@':
		return 0x00, true
	case r == '[':
		return 0x1B, true
	case r == '\\':
		return 0x1C, true
	case r == ']':
		return 0x1D, true
	case r == '^':
		return 0x1E, true
	case r == '_':
		return 0x1F, true
	}
	return 0, false
}

// ResolveMouse finds the first matching binding for ev under mode;
// linkUnderCursor tells the router whether the cell at ev.Row/Col carries
// a hyperlink, needed for the open-link-vs-selection decision.
func (r *InputRouter) ResolveMouse(ev MouseEvent, mode Mode, linkUnderCursor bool) Resolution {
	for _, b := range r.mouseBindings {
		if b.button != ev.Button || b.mods != ev.Mods {
			continue
		}
		if !mode.Has(b.includeMode) {
			continue
		}
		if b.excludeMode != 0 && mode.Has(b.excludeMode) {
			continue
		}
		return b.resolve(ev, linkUnderCursor)
	}
	return Resolution{}
}

func (r *InputRouter) installDefaults() {
	const appCursor = ModeAppCursor

	arrow := func(k Key, normal, app string) {
		r.keyBindings = append(r.keyBindings,
			keyBinding{key: k, excludeMode: appCursor, resolve: func(KeyMod) Resolution { return bytesResolution(normal) }},
			keyBinding{key: k, includeMode: appCursor, resolve: func(KeyMod) Resolution { return bytesResolution(app) }},
		)
	}
	arrow(KeyUp, "\x1b[A", "\x1bOA")
	arrow(KeyDown, "\x1b[B", "\x1bOB")
	arrow(KeyRight, "\x1b[C", "\x1bOC")
	arrow(KeyLeft, "\x1b[D", "\x1bOD")
	arrow(KeyHome, "\x1b[H", "\x1bOH")
	arrow(KeyEnd, "\x1b[F", "\x1bOF")

	nav := map[Key]string{
		KeyPageUp: "\x1b[5~", KeyPageDown: "\x1b[6~",
		KeyInsert: "\x1b[2~", KeyDelete: "\x1b[3~",
	}
	for k, seq := range nav {
		seq := seq
		r.keyBindings = append(r.keyBindings, keyBinding{key: k, resolve: func(KeyMod) Resolution { return bytesResolution(seq) }})
	}

	fkeys := map[Key]string{
		KeyF1: "\x1bOP", KeyF2: "\x1bOQ", KeyF3: "\x1bOR", KeyF4: "\x1bOS",
		KeyF5: "\x1b[15~", KeyF6: "\x1b[17~", KeyF7: "\x1b[18~", KeyF8: "\x1b[19~",
		KeyF9: "\x1b[20~", KeyF10: "\x1b[21~", KeyF11: "\x1b[23~", KeyF12: "\x1b[24~",
	}
	for k, seq := range fkeys {
		seq := seq
		r.keyBindings = append(r.keyBindings, keyBinding{key: k, resolve: func(KeyMod) Resolution { return bytesResolution(seq) }})
	}

	r.keyBindings = append(r.keyBindings,
		keyBinding{key: KeyBackspace, resolve: func(KeyMod) Resolution { return bytesResolution("\x7f") }},
		keyBinding{key: KeyTab, resolve: func(KeyMod) Resolution { return bytesResolution("\t") }},
		keyBinding{key: KeyTab, mods: ModShift, resolve: func(KeyMod) Resolution { return bytesResolution("\x1b[Z") }},
		keyBinding{key: KeyEnter, resolve: func(KeyMod) Resolution { return bytesResolution("\r") }},
		keyBinding{key: KeyEscape, resolve: func(KeyMod) Resolution { return bytesResolution("\x1b") }},
	)

	r.keyBindings = append(r.keyBindings,
		keyBinding{rune: 'c', mods: r.platformMod, resolve: func(KeyMod) Resolution { return actionResolution(ActionCopy) }},
		keyBinding{rune: 'v', mods: r.platformMod, resolve: func(KeyMod) Resolution { return actionResolution(ActionPaste) }},
	)

	r.mouseBindings = append(r.mouseBindings,
		mouseBinding{button: MouseLeft, mods: r.platformMod, resolve: func(ev MouseEvent, link bool) Resolution {
			if link {
				return actionResolution(ActionOpenLink)
			}
			return Resolution{}
		}},
	)
}
