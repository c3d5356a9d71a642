package vterm

import (
	"fmt"
	"strings"
)

// Interpreter translates parsed Actions into Surface operations,
// implementing Handler so a Parser can drive it directly. It also
// produces outbound report bytes (DA1, DSR, DECRQM, keyboard-mode
// reports) via Report, and brackets synchronized-update batches through
// a SyncBuffer.
type Interpreter struct {
	surf   *Surface
	sync   *SyncBuffer
	Report func([]byte) // set by the Runtime; nil is safe (reports are dropped)
	OnBell func()       // set by the Runtime; nil is safe (BEL is dropped)

	dcs dcsPassthroughState
}

// NewInterpreter returns an Interpreter driving surf, buffering
// synchronized updates through sb.
func NewInterpreter(surf *Surface, sb *SyncBuffer) *Interpreter {
	return &Interpreter{surf: surf, sync: sb}
}

func (it *Interpreter) emit(b []byte) {
	if it.Report != nil {
		it.Report(b)
	}
}

func (it *Interpreter) Surface() *Surface { return it.surf }

// ---- Handler capability set ----

func (it *Interpreter) Print(r rune) {
	if it.sync.Active() {
		it.sync.Push(func(s *Surface) { s.Print(r) })
		return
	}
	it.surf.Print(r)
}

func (it *Interpreter) Execute(b byte) {
	if it.sync.Active() {
		it.sync.Push(func(s *Surface) { it.execute(s, b) })
		return
	}
	it.execute(it.surf, b)
}

func (it *Interpreter) execute(s *Surface, b byte) {
	switch b {
	case 0x07: // BEL
		if it.OnBell != nil {
			it.OnBell()
		}
	case 0x08: // BS
		s.Backspace()
	case 0x09: // HT
		s.TabForward(1)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		s.LineFeed()
	case 0x0D: // CR
		s.CarriageReturn()
	}
}

func (it *Interpreter) Hook(params []CsiParam, intermediates []byte, truncated bool, final byte) {
	it.dcs = dcsPassthroughState{intermediates: append([]byte(nil), intermediates...), params: params, final: final}
}

func (it *Interpreter) Put(b byte) {
	it.dcs.payload = append(it.dcs.payload, b)
}

func (it *Interpreter) Unhook() {
	it.dispatchDCS(it.dcs)
	it.dcs = dcsPassthroughState{}
}

func (it *Interpreter) EscDispatch(intermediates []byte, final byte) {
	intermediates = append([]byte(nil), intermediates...) // the parser reuses its buffer
	apply := func(s *Surface) { it.escDispatch(s, intermediates, final) }
	if it.sync.Active() {
		it.sync.Push(apply)
		return
	}
	apply(it.surf)
}

func (it *Interpreter) escDispatch(s *Surface, intermediates []byte, final byte) {
	switch {
	case len(intermediates) == 0 && final == '7':
		s.SaveCursor()
	case len(intermediates) == 0 && final == '8':
		s.RestoreCursor()
	case len(intermediates) == 0 && final == 'D':
		s.LineFeed()
	case len(intermediates) == 0 && final == 'M':
		s.ReverseIndex()
	case len(intermediates) == 0 && final == 'E':
		s.CarriageReturn()
		s.LineFeed()
	case len(intermediates) == 0 && final == 'c':
		*s = *NewSurface(s.grid.Height(), s.grid.Width(), s.main.MaxScrollLimit())
	case len(intermediates) == 1 && intermediates[0] == '(':
		s.charsets[CharsetIndexG0] = charsetFromFinal(final)
	case len(intermediates) == 1 && intermediates[0] == ')':
		s.charsets[CharsetIndexG1] = charsetFromFinal(final)
	}
}

func charsetFromFinal(final byte) Charset {
	switch final {
	case '0':
		return CharsetLineDrawing
	case 'A':
		return CharsetUK
	default:
		return CharsetASCII
	}
}

func (it *Interpreter) CsiDispatch(params []CsiParam, intermediates []byte, truncated bool, final byte) {
	// Synchronized-update mode itself (CSI ? 2026 h/l) controls the queue
	// and must never be queued behind its own region.
	if (final == 'h' || final == 'l') && isPrivate(params) && hasPrivateMode(intItems(params), PrivateModeSyncUpdate) {
		it.csiDispatch(it.surf, params, intermediates, final)
		return
	}
	intermediates = append([]byte(nil), intermediates...) // the parser reuses its buffer
	apply := func(s *Surface) { it.csiDispatch(s, params, intermediates, final) }
	if it.sync.Active() {
		it.sync.Push(apply)
		return
	}
	apply(it.surf)
}

func hasPrivateMode(nums []CsiParam, pm PrivateMode) bool {
	for _, item := range nums {
		if item.Kind == CsiParamInteger && PrivateMode(item.Integer) == pm {
			return true
		}
	}
	return false
}

func (it *Interpreter) OscDispatch(fields [][]byte, final byte) {
	// fields alias the parser's reused OSC buffer; copy them so a closure
	// queued behind a synchronized update still sees this sequence's bytes.
	owned := make([][]byte, len(fields))
	for i, f := range fields {
		owned[i] = append([]byte(nil), f...)
	}
	apply := func(s *Surface) { it.oscDispatch(s, owned) }
	if it.sync.Active() {
		it.sync.Push(apply)
		return
	}
	apply(it.surf)
}

// ---- CSI ----

func intParam(items []CsiParam, idx int, def int64) int64 {
	if idx < 0 || idx >= len(items) {
		return def
	}
	return items[idx].AsInt(def)
}

// motionParam returns the first integer parameter, defaulting to 1 and
// treating an explicit 0 as 1 (standard CUU/CUD/etc. behavior).
func motionParam(items []CsiParam) int {
	v := intParam(items, 0, 1)
	if v <= 0 {
		v = 1
	}
	return int(v)
}

func isPrivate(items []CsiParam) bool {
	return len(items) > 0 && items[0].Kind == CsiParamByte && items[0].Byte == '?'
}

func intItems(items []CsiParam) []CsiParam {
	if isPrivate(items) {
		return items[1:]
	}
	return items
}

func (it *Interpreter) csiDispatch(s *Surface, items []CsiParam, intermediates []byte, final byte) {
	private := isPrivate(items)
	nums := intItems(items)

	switch {
	case final == 'A':
		s.MoveUp(motionParam(nums))
	case final == 'B' || final == 'e':
		s.MoveDown(motionParam(nums))
	case final == 'C' || final == 'a':
		s.MoveForward(motionParam(nums))
	case final == 'D':
		s.MoveBackward(motionParam(nums))
	case final == 'E':
		s.CarriageReturn()
		s.MoveDown(motionParam(nums))
	case final == 'F':
		s.CarriageReturn()
		s.MoveUp(motionParam(nums))
	case final == 'G' || final == '`':
		s.GotoCol(int(intParam(nums, 0, 1)) - 1)
	case final == 'd':
		s.GotoRow(int(intParam(nums, 0, 1)) - 1)
	case final == 'H' || final == 'f':
		row := int(intParam(nums, 0, 1)) - 1
		col := int(intParam(nums, 1, 1)) - 1
		s.Goto(row, col)
	case final == 'I':
		s.TabForward(motionParam(nums))
	case final == 'Z':
		s.TabBackward(motionParam(nums))
	case final == 'g':
		s.ClearTabs(int(intParam(nums, 0, 0)))
	case final == 'J':
		s.ClearScreen(EraseMode(intParam(nums, 0, 0)))
	case final == 'K':
		s.ClearLine(EraseMode(intParam(nums, 0, 0)))
	case final == 'L':
		s.InsertBlankLines(int(motionParam(nums)))
	case final == 'M':
		s.DeleteLines(int(motionParam(nums)))
	case final == 'P':
		s.DeleteChars(int(motionParam(nums)))
	case final == '@':
		s.InsertBlank(int(motionParam(nums)))
	case final == 'X':
		s.EraseChars(int(motionParam(nums)))
	case final == 'S':
		top, bottom := s.clampScrollRegion()
		s.grid.ScrollUp(top, bottom, motionParam(nums), BlankCell(s.cursor.Template))
	case final == 'T':
		top, bottom := s.clampScrollRegion()
		s.grid.ScrollDown(top, bottom, motionParam(nums), BlankCell(s.cursor.Template))
	case final == 'm' && len(items) > 0 && items[0].Kind == CsiParamByte && items[0].Byte == '>':
		it.setModifyOtherKeys(nums)
	case final == 'm':
		it.applySGR(nums)
	case final == 'h':
		it.setModes(s, nums, private, true)
	case final == 'l':
		it.setModes(s, nums, private, false)
	case final == 'r':
		top := int(intParam(nums, 0, 1))
		bottom := int(intParam(nums, 1, 0))
		s.SetScrollingRegion(top-1, bottom)
	case final == 's' && !private:
		s.SaveCursor()
	case final == 'u' && !private && len(intermediates) == 0 && (len(items) == 0 || items[0].Kind != CsiParamByte):
		s.RestoreCursor()
	case final == 'c' && len(intermediates) == 0:
		it.reportDA1()
	case final == 'n' && !private:
		it.reportDSR(int(intParam(nums, 0, 0)))
	case final == 'p' && len(intermediates) == 1 && intermediates[0] == '$':
		it.reportDECRQM(nums, private)
	case final == 'q' && len(intermediates) == 1 && intermediates[0] == ' ':
		it.setCursorStyle(s, int(intParam(nums, 0, 0)))
	case final == 't':
		it.windowManipulation(s, int(intParam(nums, 0, 1)))
	case final == 'u' && len(items) > 0 && items[0].Kind == CsiParamByte:
		it.keyboardProtocol(s, items)
	}
}

func (it *Interpreter) setModes(s *Surface, nums []CsiParam, private, on bool) {
	for _, item := range nums {
		if item.Kind != CsiParamInteger {
			continue
		}
		if private {
			pm := PrivateMode(item.Integer)
			if pm == PrivateModeSyncUpdate {
				if on {
					it.sync.Begin()
				} else {
					it.sync.End()
				}
				continue
			}
			s.applyPrivateMode(pm, on)
		} else {
			switch item.Integer {
			case 4:
				s.toggle(ModeInsert, on)
			case 20:
				s.toggle(ModeLineFeedNewLine, on)
			}
		}
	}
}

func (it *Interpreter) setCursorStyle(s *Surface, id int) {
	styles := map[int]CursorStyle{
		0: CursorStyleBlinkingBlock, 1: CursorStyleBlinkingBlock, 2: CursorStyleSteadyBlock,
		3: CursorStyleBlinkingUnderline, 4: CursorStyleSteadyUnderline,
		5: CursorStyleBlinkingBar, 6: CursorStyleSteadyBar,
	}
	if st, ok := styles[id]; ok {
		s.SetCursorStyle(st)
	}
}

func (it *Interpreter) windowManipulation(s *Surface, op int) {
	switch op {
	case 14:
		it.emit([]byte(fmt.Sprintf("\x1b[4;%d;%dt", s.grid.Height()*16, s.grid.Width()*8)))
	case 18:
		it.emit([]byte(fmt.Sprintf("\x1b[8;%d;%dt", s.grid.Height(), s.grid.Width())))
	case 22:
		s.PushTitle()
	case 23:
		s.PopTitle()
	}
}

func (it *Interpreter) setModifyOtherKeys(nums []CsiParam) {
	// modify-other-keys state is consumed by the Input Router, not stored
	// on Surface; this is a no-op placeholder acknowledging the sequence
	// so it doesn't fall through to CsiIgnore-equivalent silence at a
	// higher level. Nothing to report back.
}

// keyboardProtocol handles the kitty keyboard protocol's `CSI = flags u`
// (set), `CSI > flags u` (push) and `CSI < [n] u` (pop) forms, plus the
// bare `CSI ? u` query.
func (it *Interpreter) keyboardProtocol(s *Surface, items []CsiParam) {
	lead := items[0].Byte
	rest := items[1:]
	switch lead {
	case '=':
		s.SetKeyboardMode(keyboardModeFlags(intParam(rest, 0, 0)))
	case '>':
		s.PushKeyboardMode(keyboardModeFlags(intParam(rest, 0, 0)))
	case '<':
		s.PopKeyboardModes(int(intParam(rest, 0, 1)))
	case '?':
		it.reportKeyboardMode(s)
	}
}

func (it *Interpreter) reportKeyboardMode(s *Surface) {
	it.emit([]byte(fmt.Sprintf("\x1b[?%du", s.CurrentKeyboardMode())))
}

func (it *Interpreter) reportDA1() {
	it.emit([]byte("\x1b[?62;22c"))
}

func (it *Interpreter) reportDSR(code int) {
	switch code {
	case 5:
		it.emit([]byte("\x1b[0n"))
	case 6:
		it.emit([]byte(fmt.Sprintf("\x1b[%d;%dR", it.surf.cursor.Row+1, it.surf.cursor.Col+1)))
	}
}

// reportDECRQM answers `CSI ? Pm $ p` / `CSI Pm $ p` with 0 unknown, 1
// set, 2 reset, 3 permanently set or 4 permanently reset. The private
// modes listed in privateModeState report their current state 1/2, and
// synchronized update (2026) always reports 2; any other private mode,
// and every ANSI mode, reports 0.
func (it *Interpreter) reportDECRQM(nums []CsiParam, private bool) {
	mode := intParam(nums, 0, 0)
	var state int
	if private {
		state = it.privateModeState(PrivateMode(mode))
	} else {
		state = 0
	}
	prefix := ""
	if private {
		prefix = "?"
	}
	it.emit([]byte(fmt.Sprintf("\x1b[%s%d;%d$y", prefix, mode, state)))
}

func (it *Interpreter) privateModeState(pm PrivateMode) int {
	s := it.surf
	set := false
	switch pm {
	case PrivateModeAppCursor:
		set = s.mode.Has(ModeAppCursor)
	case PrivateModeOrigin:
		set = s.mode.Has(ModeOrigin)
	case PrivateModeLineWrap:
		set = s.mode.Has(ModeLineWrap)
	case PrivateModeShowCursor:
		set = s.mode.Has(ModeShowCursor)
	case PrivateModeBracketedPaste:
		set = s.mode.Has(ModeBracketedPaste)
	case PrivateModeSwapScreenAndSetRestoreCursor:
		set = s.mode.Has(ModeAltScreen)
	case PrivateModeSyncUpdate:
		return 2
	default:
		return 0
	}
	if set {
		return 1
	}
	return 2
}

// ---- OSC ----

func (it *Interpreter) oscDispatch(s *Surface, fields [][]byte) {
	if len(fields) == 0 {
		return
	}
	code := string(fields[0])
	switch code {
	case "0", "2":
		if len(fields) > 1 {
			s.SetWindowTitle(string(fields[1]))
		}
	case "8":
		it.oscHyperlink(s, fields)
	case "133":
		it.oscShellIntegration133(s, fields)
	case "633":
		it.oscShellIntegration633(s, fields)
	}
}

func (it *Interpreter) oscHyperlink(s *Surface, fields [][]byte) {
	if len(fields) < 3 {
		s.ClearHyperlink()
		return
	}
	id := ""
	for _, kv := range strings.Split(string(fields[1]), ":") {
		if strings.HasPrefix(kv, "id=") {
			id = strings.TrimPrefix(kv, "id=")
		}
	}
	uri := string(fields[2])
	if uri == "" {
		s.ClearHyperlink()
		return
	}
	s.SetHyperlink(uri, id)
}

func (it *Interpreter) oscShellIntegration133(s *Surface, fields [][]byte) {
	if len(fields) < 2 || len(fields[1]) == 0 {
		return
	}
	switch fields[1][0] {
	case 'A':
		s.StartPromptBlock()
	case 'B':
		s.StartCommandBlock("")
	case 'C':
		s.FinishCommandBlock()
	case 'D':
		s.ExtendCurrentBlock()
	}
}

// oscShellIntegration633 handles the VS Code-style OSC 633 variant, which
// folds the command text and cwd into the marker itself
// (633;C, 633;E;<cmd>, 633;P;Cwd=<dir>).
func (it *Interpreter) oscShellIntegration633(s *Surface, fields [][]byte) {
	if len(fields) < 2 || len(fields[1]) == 0 {
		return
	}
	switch fields[1][0] {
	case 'A':
		s.StartPromptBlock()
	case 'B':
		s.StartCommandBlock("")
	case 'E':
		if len(fields) > 2 {
			s.SetBlockCommandText(string(fields[2]))
		}
	case 'C':
		s.FinishCommandBlock()
	case 'D':
		s.ExtendCurrentBlock()
	case 'P':
		if len(fields) > 2 {
			kv := string(fields[2])
			if strings.HasPrefix(kv, "Cwd=") {
				s.StartCommandBlock(strings.TrimPrefix(kv, "Cwd="))
			}
		}
	}
}

// ---- DCS (structural only; no pixel decode, per Non-goals) ----

type dcsPassthroughState struct {
	intermediates []byte
	params        []CsiParam
	final         byte
	payload       []byte
}

// dispatchDCS recognizes the sixel and DECRQSS families enough to
// acknowledge them structurally — recording that a payload of N bytes was
// received — without decoding pixels, matching the explicit non-goal.
func (it *Interpreter) dispatchDCS(d dcsPassthroughState) {
	switch {
	case d.final == 'q' && len(d.intermediates) == 0:
		// Sixel graphics: the raster header is not parsed, so the placement
		// carries zero width and height, and the pixel payload is discarded
		// per Non-goals; the placement is still recorded so a client knows
		// an image occupies this cursor position.
		it.surf.RecordGraphicsPlacement(GraphicsSixel, 0, 0, len(d.payload))
	case d.final == 'q' && len(d.intermediates) == 1 && d.intermediates[0] == '$':
		it.reportDECRQSS(d)
	}
}

func (it *Interpreter) reportDECRQSS(d dcsPassthroughState) {
	// Unsupported status requests are answered with an invalid-request
	// reply (`0`) per DECRQSS convention, since no request string in
	// d.payload maps to tracked Surface state beyond SGR (handled
	// elsewhere by higher-level callers that care to extend this).
	it.emit([]byte("\x1bP0$r\x1b\\"))
}
