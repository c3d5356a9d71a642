package vterm

import "github.com/google/uuid"

// Hyperlink is a URI plus the optional explicit id OSC 8 carries
// (`id=...` parameter), used to group multiple spans as one link.
type Hyperlink struct {
	URI string
	ID  string // explicit OSC 8 id, empty if the host didn't supply one
}

// hyperlinkTable is a Surface's side table mapping the small HyperlinkID
// cells carry to the (potentially large) URI string, deduplicated so
// repeated OSC 8 opens of the same link share one handle.
type hyperlinkTable struct {
	links []Hyperlink
	byKey map[string]HyperlinkID
}

func newHyperlinkTable() *hyperlinkTable {
	return &hyperlinkTable{byKey: make(map[string]HyperlinkID)}
}

// Intern returns the HyperlinkID for (uri, id), reusing an existing entry
// if this exact pair was seen before. An empty uri returns 0 (no link).
func (t *hyperlinkTable) Intern(uri, id string) HyperlinkID {
	if uri == "" {
		return 0
	}
	key := id + "\x00" + uri
	if existing, ok := t.byKey[key]; ok {
		return existing
	}
	t.links = append(t.links, Hyperlink{URI: uri, ID: id})
	newID := HyperlinkID(len(t.links))
	t.byKey[key] = newID
	return newID
}

// Lookup resolves a HyperlinkID back to its Hyperlink; ok is false for 0
// or an id from a table that has since been reset.
func (t *hyperlinkTable) Lookup(id HyperlinkID) (Hyperlink, bool) {
	if id == 0 || int(id) > len(t.links) {
		return Hyperlink{}, false
	}
	return t.links[id-1], true
}

// Snapshot returns an id->URI map suitable for the wire-free snapshot
// shape; a link's explicit OSC 8 id is not included.
func (t *hyperlinkTable) Snapshot() map[HyperlinkID]string {
	out := make(map[HyperlinkID]string, len(t.links))
	for i, l := range t.links {
		out[HyperlinkID(i+1)] = l.URI
	}
	return out
}

// stableSessionID generates a collision-resistant identifier used for
// Block ids and other per-session handles where a small integer counter
// would be ambiguous across snapshot generations.
func stableSessionID() string {
	return uuid.NewString()
}
