package vterm

// applySGR interprets a fully-parsed CSI `m` parameter list (colons
// preserved as CsiParamByte entries) against the cursor's template cell.
// An empty list means SGR 0 (full reset).
func (it *Interpreter) applySGR(items []CsiParam) {
	if len(items) == 0 {
		it.sgrReset()
		return
	}

	i := 0
	for i < len(items) {
		item := items[i]
		if item.Kind != CsiParamInteger {
			i++
			continue
		}
		code := item.Integer
		switch {
		case code == 0:
			it.sgrReset()
		case code == 1:
			it.surf.cursor.Template.SetFlag(FlagBold)
			if it.surf.cursor.Template.HasFlag(FlagDim) {
				it.surf.cursor.Template.SetFlag(FlagDimBold)
			}
		case code == 2:
			it.surf.cursor.Template.SetFlag(FlagDim)
			if it.surf.cursor.Template.HasFlag(FlagBold) {
				it.surf.cursor.Template.SetFlag(FlagDimBold)
			}
		case code == 3:
			it.surf.cursor.Template.SetFlag(FlagItalic)
		case code == 4:
			sub, consumed := peekSubParam(items, i)
			i += consumed
			it.applyUnderline(sub)
		case code == 5:
			it.surf.cursor.Template.SetFlag(FlagBlinkSlow)
		case code == 6:
			it.surf.cursor.Template.SetFlag(FlagBlinkFast)
		case code == 7:
			it.surf.cursor.Template.SetFlag(FlagReverse)
		case code == 8:
			it.surf.cursor.Template.SetFlag(FlagHidden)
		case code == 9:
			it.surf.cursor.Template.SetFlag(FlagStrike)
		case code == 21:
			// Open question resolved per DESIGN.md: 21 cancels bold (not
			// double-underline), matching the source's own convention.
			it.surf.cursor.Template.ClearFlag(FlagBold)
		case code == 22:
			it.surf.cursor.Template.ClearFlag(FlagBold | FlagDim | FlagDimBold)
		case code == 23:
			it.surf.cursor.Template.ClearFlag(FlagItalic)
		case code == 24:
			it.surf.cursor.Template.ClearFlag(underlineFlags)
		case code == 25:
			it.surf.cursor.Template.ClearFlag(FlagBlinkSlow | FlagBlinkFast)
		case code == 27:
			it.surf.cursor.Template.ClearFlag(FlagReverse)
		case code == 28:
			it.surf.cursor.Template.ClearFlag(FlagHidden)
		case code == 29:
			it.surf.cursor.Template.ClearFlag(FlagStrike)
		case code >= 30 && code <= 37:
			it.surf.cursor.Template.Fg = NamedColorOf(uint8(code - 30))
		case code == 38:
			color, consumed := parseExtendedColor(items, i+1)
			i += consumed
			it.surf.cursor.Template.Fg = color
		case code == 39:
			it.surf.cursor.Template.Fg = Color{Kind: ColorDefault}
		case code >= 40 && code <= 47:
			it.surf.cursor.Template.Bg = NamedColorOf(uint8(code - 40))
		case code == 48:
			color, consumed := parseExtendedColor(items, i+1)
			i += consumed
			it.surf.cursor.Template.Bg = color
		case code == 49:
			it.surf.cursor.Template.Bg = Color{Kind: ColorDefault}
		case code == 58:
			color, consumed := parseExtendedColor(items, i+1)
			i += consumed
			it.surf.cursor.Template.UnderlineColor = color
		case code == 59:
			it.surf.cursor.Template.UnderlineColor = Color{}
		case code >= 90 && code <= 97:
			it.surf.cursor.Template.Fg = NamedColorOf(uint8(code - 90 + 8))
		case code >= 100 && code <= 107:
			it.surf.cursor.Template.Bg = NamedColorOf(uint8(code - 100 + 8))
		}
		i++
	}
}

func (it *Interpreter) sgrReset() {
	t := &it.surf.cursor.Template
	t.Fg = Color{Kind: ColorDefault}
	t.Bg = Color{Kind: ColorDefault}
	t.UnderlineColor = Color{}
	t.Flags = 0
	t.Hyperlink = 0
}

// applyUnderline interprets the 4:N sub-form per the DEC/kitty
// convention decided in DESIGN.md. sub is -1 when SGR 4 appeared bare
// (plain `;`-delimited), which means "single underline".
func (it *Interpreter) applyUnderline(sub int64) {
	t := &it.surf.cursor.Template
	t.ClearFlag(underlineFlags)
	switch sub {
	case 0:
		// cancel, nothing to set
	case 2:
		t.SetFlag(FlagDoubleUnderline)
	case 3:
		t.SetFlag(FlagCurlyUnderline)
	case 4:
		t.SetFlag(FlagDottedUnderline)
	case 5:
		t.SetFlag(FlagDashedUnderline)
	default:
		t.SetFlag(FlagUnderline)
	}
}

// peekSubParam looks at items[i+1] for a colon-attached sub-parameter
// (4:N form) vs. a semicolon-separated next attribute (plain 4 then N as
// its own code, which must NOT be consumed here). Because colons are
// preserved verbatim as CsiParamByte(':') entries in the stream, a 4:N
// group looks like [Integer(4), Byte(':'), Integer(N)]; a bare 4 followed
// by an unrelated attribute looks like [Integer(4), Integer(N)] with no
// colon between them — which is NOT the 4:N form, so for bare `;`-joined
// `4` we return sub=-1 (single underline) and consume nothing extra.
func peekSubParam(items []CsiParam, i int) (sub int64, consumed int) {
	if i+1 < len(items) && items[i+1].Kind == CsiParamByte && items[i+1].Byte == ':' {
		if i+2 < len(items) && items[i+2].Kind == CsiParamInteger {
			return items[i+2].Integer, 2
		}
		return 0, 1
	}
	return -1, 0
}

// parseExtendedColor handles 38/48/58's payload starting at items[start],
// in both semicolon form (38;5;N or 38;2;R;G;B, each its own CsiParam
// Integer) and colon sub-parameter form (38:2::R:G:B, 38:5:N). Returns
// the resolved Color and how many items were consumed after the leading
// 38/48/58 code.
func parseExtendedColor(items []CsiParam, start int) (Color, int) {
	colonForm := start < len(items) && items[start].Kind == CsiParamByte && items[start].Byte == ':'
	if colonForm {
		vals, n := collectColonGroup(items, start)
		return colorFromGroup(vals), n
	}

	if start >= len(items) || items[start].Kind != CsiParamInteger {
		return Color{Kind: ColorDefault}, 0
	}
	switch items[start].Integer {
	case 5:
		if start+1 < len(items) && items[start+1].Kind == CsiParamInteger {
			return IndexedColorOf(uint8(items[start+1].Integer)), 2
		}
		return Color{Kind: ColorDefault}, 1
	case 2:
		if start+3 < len(items) &&
			items[start+1].Kind == CsiParamInteger &&
			items[start+2].Kind == CsiParamInteger &&
			items[start+3].Kind == CsiParamInteger {
			return RGBColor(
				uint8(items[start+1].Integer),
				uint8(items[start+2].Integer),
				uint8(items[start+3].Integer),
			), 4
		}
		return Color{Kind: ColorDefault}, 1
	default:
		return Color{Kind: ColorDefault}, 1
	}
}

// collectColonGroup walks a run of colon-separated integers starting at
// items[start] (which is itself the leading colon), returning the
// integers seen (empty sub-fields become -1) and the total item count
// consumed.
func collectColonGroup(items []CsiParam, start int) ([]int64, int) {
	var vals []int64
	i := start
	for i < len(items) {
		if items[i].Kind == CsiParamByte && items[i].Byte == ':' {
			i++
			if i < len(items) && items[i].Kind == CsiParamInteger {
				vals = append(vals, items[i].Integer)
				i++
			} else {
				vals = append(vals, -1)
			}
			continue
		}
		break
	}
	return vals, i - start
}

// colorFromGroup interprets a colon group's values. The 38:2::R:G:B form
// carries an empty colorspace-id sub-field (the second ':' with nothing
// between), which collectColonGroup records as -1; it's simply skipped.
func colorFromGroup(vals []int64) Color {
	if len(vals) == 0 {
		return Color{Kind: ColorDefault}
	}
	switch vals[0] {
	case 5:
		if len(vals) >= 2 {
			return IndexedColorOf(uint8(vals[1]))
		}
	case 2:
		// vals may be [2, R, G, B] or [2, -1(colorspace), R, G, B]
		rest := vals[1:]
		if len(rest) >= 4 {
			rest = rest[1:] // drop colorspace id
		}
		if len(rest) >= 3 {
			return RGBColor(uint8(rest[0]), uint8(rest[1]), uint8(rest[2]))
		}
	}
	return Color{Kind: ColorDefault}
}
