// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import "strings"

// Selection is the ordered set of field IDs requested for one run. Order is
// the export column order. IDs the catalog does not know are kept; they are
// ignored by extraction and exported under their raw ID.
type Selection struct {
	ids []string
	set map[string]struct{}
}

// NewSelection builds a selection, dropping blanks and repeated IDs while
// keeping first-occurrence order.
func NewSelection(ids ...string) Selection {
	s := Selection{set: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := s.set[id]; dup {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

// Intersects reports whether any of ids is selected.
func (s Selection) Intersects(ids []string) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// IDs returns the selected IDs in order.
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected IDs.
func (s Selection) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.ids) == 0
}
