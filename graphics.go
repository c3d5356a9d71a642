package vterm

import (
	"strconv"
	"strings"
)

// GraphicsKind distinguishes which protocol a structurally-recognized
// graphics payload used. Per Non-goals, no pixel data is decoded — a
// GraphicsPlacement records enough of the header to acknowledge the
// sequence and let a client fetch/render the image out of band if it
// chooses to.
type GraphicsKind int

const (
	GraphicsSixel GraphicsKind = iota
	GraphicsKitty
)

// GraphicsPlacement is what a sixel DCS or kitty graphics APC sequence
// resolves to: a stable handle plus the placement's declared geometry,
// with the pixel payload itself discarded.
type GraphicsPlacement struct {
	ID     string
	Kind   GraphicsKind
	Row    int
	Col    int
	Width  int // declared width in cells, 0 if unspecified
	Height int // declared height in cells, 0 if unspecified
	Bytes  int // size of the payload that was skipped, for diagnostics
}

// graphicsTable interns placements, giving each one a uuid-backed ID from
// stableSessionID. Snapshot carries no placements.
type graphicsTable struct {
	placements []GraphicsPlacement
}

func newGraphicsTable() *graphicsTable {
	return &graphicsTable{}
}

func (t *graphicsTable) add(p GraphicsPlacement) GraphicsPlacement {
	p.ID = stableSessionID()
	t.placements = append(t.placements, p)
	return p
}

func (t *graphicsTable) Placements() []GraphicsPlacement {
	out := make([]GraphicsPlacement, len(t.placements))
	copy(out, t.placements)
	return out
}

// parseSixelHeader reads a sixel DCS's leading parameter list (before the
// introducing 'q'), per the P1;P2;P3 convention: P1 is unused here, P2
// selects background handling, P3 is an aspect hint. No raster-attribute
// or pixel data is interpreted.
func parseSixelHeader(nums []CsiParam) (bg int64, ok bool) {
	if len(nums) < 2 {
		return 0, false
	}
	return intParam(nums, 1, 0), true
}

// parseKittyAPC reads a kitty graphics protocol control-data header:
// comma-separated `key=value` pairs up to the first `;`, which
// introduces the (here discarded) base64 payload. Grounded on the
// key/value vocabulary kitty.go's enums name (action 'a', image id 'i',
// format 'f', declared cell geometry 'c'/'r').
func parseKittyAPC(payload []byte) (action byte, imageID string, cols, rows int) {
	s := string(payload)
	if semi := strings.IndexByte(s, ';'); semi >= 0 {
		s = s[:semi]
	}
	for _, kv := range strings.Split(s, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, val := parts[0], parts[1]
		switch key {
		case "a":
			if len(val) > 0 {
				action = val[0]
			}
		case "i":
			imageID = val
		case "c":
			cols, _ = strconv.Atoi(val)
		case "r":
			rows, _ = strconv.Atoi(val)
		}
	}
	return
}
