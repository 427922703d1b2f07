// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// Group list keys as they appear in a record's key set.
const (
	KeyOwners    = "owners"
	KeyMortgages = "mortgages"
	KeyRemarks   = "remarks"
)

// IDType classifies an owner's identification number. It is derived from
// the number's shape and never read from the document.
type IDType string

const (
	IDPersonal  IDType = "ת.ז"
	IDCorporate IDType = "חברה"
	IDOther     IDType = "אחר"
)

// OwnerEntry is one row of the ownership table. Attributes that were not
// selected for extraction are left empty.
type OwnerEntry struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	IDNumber string `json:"id_number,omitempty" yaml:"id_number,omitempty"`
	IDType   IDType `json:"id_type,omitempty" yaml:"id_type,omitempty"`
	Share    string `json:"share,omitempty" yaml:"share,omitempty"`
}

// Attr returns the entry value for an export attribute ("name", "id",
// "id_type", "share"). ok is false for an attribute the owners table does
// not define.
func (e OwnerEntry) Attr(attr string) (value string, ok bool) {
	switch attr {
	case "name":
		return e.Name, true
	case "id":
		return e.IDNumber, true
	case "id_type":
		return string(e.IDType), true
	case "share":
		return e.Share, true
	}
	return "", false
}

// MortgageEntry is one registered mortgage.
type MortgageEntry struct {
	Holder string `json:"holder,omitempty" yaml:"holder,omitempty"`
	Rank   string `json:"rank,omitempty" yaml:"rank,omitempty"`
	Amount string `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// Attr returns the entry value for an export attribute ("holder", "amount",
// "rank").
func (e MortgageEntry) Attr(attr string) (value string, ok bool) {
	switch attr {
	case "holder":
		return e.Holder, true
	case "amount":
		return e.Amount, true
	case "rank":
		return e.Rank, true
	}
	return "", false
}

// RemarkEntry is one registered remark (warning note, order, lien).
type RemarkEntry struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Attr returns the entry value for an export attribute ("type", "content").
func (e RemarkEntry) Attr(attr string) (value string, ok bool) {
	switch attr {
	case "type":
		return e.Type, true
	case "content":
		return e.Content, true
	}
	return "", false
}

// Record is the structured data extracted from one document.
//
// General holds scalar fields keyed by field ID and contains only fields
// that matched. A group slice is non-nil only when its section was found
// and yielded at least one entry; a missing section and an empty one are
// both represented as nil.
type Record struct {
	General   map[string]string `json:"general,omitempty" yaml:"general,omitempty"`
	Owners    []OwnerEntry      `json:"owners,omitempty" yaml:"owners,omitempty"`
	Mortgages []MortgageEntry   `json:"mortgages,omitempty" yaml:"mortgages,omitempty"`
	Remarks   []RemarkEntry     `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// Keys returns the record's key set: matched scalar field IDs followed by
// the names of the attached group lists, sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.General)+3)
	for id := range r.General {
		keys = append(keys, id)
	}
	if len(r.Owners) > 0 {
		keys = append(keys, KeyOwners)
	}
	if len(r.Mortgages) > 0 {
		keys = append(keys, KeyMortgages)
	}
	if len(r.Remarks) > 0 {
		keys = append(keys, KeyRemarks)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether nothing was extracted.
func (r Record) IsEmpty() bool {
	return len(r.General) == 0 && len(r.Owners) == 0 && len(r.Mortgages) == 0 && len(r.Remarks) == 0
}

// GroupAttr collects an attribute across the entries of a group list. It
// returns ok=false when the group or attribute is unknown.
func (r Record) GroupAttr(group FieldGroup, attr string) (values []string, ok bool) {
	switch group {
	case GroupOwners:
		if _, known := (OwnerEntry{}).Attr(attr); !known {
			return nil, false
		}
		for _, e := range r.Owners {
			v, _ := e.Attr(attr)
			values = append(values, v)
		}
	case GroupMortgages:
		if _, known := (MortgageEntry{}).Attr(attr); !known {
			return nil, false
		}
		for _, e := range r.Mortgages {
			v, _ := e.Attr(attr)
			values = append(values, v)
		}
	case GroupRemarks:
		if _, known := (RemarkEntry{}).Attr(attr); !known {
			return nil, false
		}
		for _, e := range r.Remarks {
			v, _ := e.Attr(attr)
			values = append(values, v)
		}
	default:
		return nil, false
	}
	return values, true
}
