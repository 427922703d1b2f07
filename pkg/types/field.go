// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FieldGroup names one of the four sections of a land-registry extract that
// fields are grouped under.
type FieldGroup string

const (
	GroupGeneral   FieldGroup = "general"
	GroupOwners    FieldGroup = "owners"
	GroupMortgages FieldGroup = "mortgages"
	GroupRemarks   FieldGroup = "remarks"
)

// FieldGroups lists the groups in catalog order.
var FieldGroups = []FieldGroup{GroupGeneral, GroupOwners, GroupMortgages, GroupRemarks}

// Field is one extractable datum (or attribute of a multi-entry group).
type Field struct {
	// ID is the stable key used in selections, templates, and records
	// (e.g. "gush", "owner_share").
	ID string `json:"id" yaml:"id"`

	// Name is the Hebrew display name used as the export column label.
	Name string `json:"name" yaml:"name"`

	// Group is the section the field belongs to.
	Group FieldGroup `json:"group" yaml:"group"`

	// Default reports whether the field is selected when the user has not
	// chosen a selection explicitly.
	Default bool `json:"default" yaml:"default"`
}
