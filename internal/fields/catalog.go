// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fields defines the catalog of extractable land-registry fields and
// the per-run selection of field IDs.
package fields

import (
	"fmt"

	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// defaultFields is the built-in catalog in display order.
var defaultFields = []types.Field{
	{ID: "nesach_number", Name: "מספר נסח", Group: types.GroupGeneral, Default: true},
	{ID: "date", Name: "תאריך הפקה", Group: types.GroupGeneral, Default: true},
	{ID: "gush", Name: "גוש", Group: types.GroupGeneral, Default: true},
	{ID: "helka", Name: "חלקה", Group: types.GroupGeneral, Default: true},
	{ID: "area", Name: "שטח במ\"ר", Group: types.GroupGeneral, Default: true},
	{ID: "authority", Name: "רשות מקומית", Group: types.GroupGeneral, Default: true},
	{ID: "land_type", Name: "סוג מקרקעין", Group: types.GroupGeneral, Default: true},

	{ID: "owner_name", Name: "בעלים - שם", Group: types.GroupOwners, Default: true},
	{ID: "owner_id", Name: "בעלים - מספר זיהוי", Group: types.GroupOwners, Default: true},
	{ID: "owner_id_type", Name: "בעלים - סוג זיהוי", Group: types.GroupOwners, Default: true},
	{ID: "owner_share", Name: "בעלים - חלק בנכס", Group: types.GroupOwners, Default: true},

	{ID: "mortgage_holder", Name: "משכנתאות - בעל המשכנתה", Group: types.GroupMortgages, Default: true},
	{ID: "mortgage_amount", Name: "משכנתאות - סכום", Group: types.GroupMortgages, Default: true},
	{ID: "mortgage_rank", Name: "משכנתאות - דרגה", Group: types.GroupMortgages, Default: true},

	{ID: "remark_type", Name: "הערות - סוג הערה", Group: types.GroupRemarks, Default: true},
	{ID: "remark_content", Name: "הערות - תוכן", Group: types.GroupRemarks, Default: true},
}

// Catalog is an immutable set of fields grouped by section. Build it once
// and pass it to the components that need labels or group membership.
type Catalog struct {
	fields []types.Field
	byID   map[string]int
	byName map[string]string
}

// Default returns the built-in land-registry catalog.
func Default() *Catalog {
	c, err := New(defaultFields)
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from fields. IDs must be non-empty and unique across
// all groups, and every field must belong to a known group.
func New(fs []types.Field) (*Catalog, error) {
	known := make(map[types.FieldGroup]bool, len(types.FieldGroups))
	for _, g := range types.FieldGroups {
		known[g] = true
	}

	c := &Catalog{
		fields: make([]types.Field, 0, len(fs)),
		byID:   make(map[string]int, len(fs)),
		byName: make(map[string]string, len(fs)),
	}
	for _, f := range fs {
		if f.ID == "" {
			return nil, fmt.Errorf("field %q: empty id", f.Name)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("field %q: duplicate id", f.ID)
		}
		if !known[f.Group] {
			return nil, fmt.Errorf("field %q: unknown group %q", f.ID, f.Group)
		}
		c.byID[f.ID] = len(c.fields)
		c.byName[f.Name] = f.ID
		c.fields = append(c.fields, f)
	}
	return c, nil
}

// Groups returns the groups in catalog order.
func (c *Catalog) Groups() []types.FieldGroup {
	out := make([]types.FieldGroup, len(types.FieldGroups))
	copy(out, types.FieldGroups)
	return out
}

// All returns every field in display order.
func (c *Catalog) All() []types.Field {
	out := make([]types.Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Fields returns the fields of one group in display order.
func (c *Catalog) Fields(group types.FieldGroup) []types.Field {
	var out []types.Field
	for _, f := range c.fields {
		if f.Group == group {
			out = append(out, f)
		}
	}
	return out
}

// GroupIDs returns the IDs of one group's fields.
func (c *Catalog) GroupIDs(group types.FieldGroup) []string {
	var ids []string
	for _, f := range c.fields {
		if f.Group == group {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Lookup returns the field with the given ID.
func (c *Catalog) Lookup(id string) (types.Field, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Field{}, false
	}
	return c.fields[i], true
}

// DisplayName returns the display name for id, or id itself when the
// catalog has no such field.
func (c *Catalog) DisplayName(id string) string {
	if f, ok := c.Lookup(id); ok {
		return f.Name
	}
	return id
}

// IDByName maps a display name back to its field ID.
func (c *Catalog) IDByName(name string) (string, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// DefaultSelection returns the selection of all default-selected fields.
func (c *Catalog) DefaultSelection() Selection {
	var ids []string
	for _, f := range c.fields {
		if f.Default {
			ids = append(ids, f.ID)
		}
	}
	return NewSelection(ids...)
}

// SelectionFromNames builds a selection from display names. Names the
// catalog does not know are dropped.
func (c *Catalog) SelectionFromNames(names ...string) Selection {
	ids := make([]string, 0, len(names))
	for _, n := range names {
		if id, ok := c.byName[n]; ok {
			ids = append(ids, id)
		}
	}
	return NewSelection(ids...)
}
