// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"sort"
)

// Group names used in pattern keys.
const (
	groupOwners    = "owners"
	groupMortgages = "mortgages"
	groupRemarks   = "remarks"
)

// GroupPatterns locates a multi-entry section and parses its entries.
type GroupPatterns struct {
	Section Section
	Entry   *regexp.Regexp
}

// Patterns is the full set of expressions the extractor applies. Values are
// read-only after construction and safe for concurrent use.
type Patterns struct {
	// General maps a scalar field ID to a pattern with one capture group.
	General map[string]*regexp.Regexp

	Owners    GroupPatterns
	Mortgages GroupPatterns
	Remarks   GroupPatterns
}

// Building blocks shared by the default patterns. All matching runs on
// normalised text (see Normalize): LF line endings, ASCII quotes.
const (
	lineEnd     = `[ \t]*:?[ \t]*$`
	ownerName   = `[\p{Hebrew}\p{Latin}][\p{Hebrew}\p{Latin}0-9"'()&,\-\. ]*?`
	endOfNesach = `סוף (?:ה)?נסח`
)

var defaultSources = map[string]string{
	"nesach_number": `(?:מספר\s+נסח|נסח\s+מס(?:פר|')?\.?)\s*:?\s*(\d+)`,
	"date":          `תאריך(?:\s+הפקה|\s+(?:ה)?נסח)?\s*:?\s*(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`,
	"gush":          `גוש\s*:?\s*(\d+)`,
	"helka":         `חלקה\s*:?\s*(\d+)`,
	"area":          `שטח(?:\s+רשום)?(?:\s+ב?מ"ר)?\s*:?\s*(\d[\d,]*(?:\.\d+)?)`,
	"authority":     `רשות\s+מקומית[ \t]*:?[ \t]*([^\n]*\S)`,
	"land_type":     `סוג\s+(?:ה)?מקרקעין[ \t]*:?[ \t]*([^\n]*\S)`,

	"owners_header": `(?m)^[ \t]*(?:בעלויות|בעלים)` + lineEnd,
	"owners_footer": `(?m)^[ \t]*(?:חכירות|משכנתאות|שעבודים|הערות|זיקות הנאה|` + endOfNesach + `)` + lineEnd,
	"owner_entry": `(?m)^[ \t]*(` + ownerName + `)[ \t]+` +
		`(?:(?:ת\.?ז\.?|ח\.?פ\.?|דרכון|ע\.?ר\.?)[ \t]*:?[ \t]+)?` +
		`([0-9A-Za-z][0-9A-Za-z\-]*)[ \t]+` +
		`(\d+[ \t]*/[ \t]*\d+|בשלמות)[ \t]*$`,

	"mortgages_header": `(?m)^[ \t]*(?:משכנתאות|משכנתות)` + lineEnd,
	"mortgages_footer": `(?m)^[ \t]*(?:הערות|חכירות|שעבודים|זיקות הנאה|בעלויות|` + endOfNesach + `)` + lineEnd,
	"mortgage_entry": `(?m)^[ \t]*(\p{Hebrew}[^\n]*?)[ \t]+דרגה[ \t]*:?[ \t]*(\S+)` +
		`[ \t]+סכום[ \t]*:?[ \t]*(\S[^\n]*?)[ \t]*$`,

	"remarks_header": `(?m)^[ \t]*הערות` + lineEnd,
	"remarks_footer": `(?m)^[ \t]*(?:זיקות הנאה|חכירות|משכנתאות|שעבודים|בעלויות|` + endOfNesach + `)` + lineEnd,
	"remark_entry":   `(?m)^[ \t]*(\p{Hebrew}[^\n]*?)[ \t]+לטובת[ \t]*:?[ \t]*(\S[^\n]*?)[ \t]*$`,
}

// minGroups is the number of capture groups each pattern must provide.
var minGroups = map[string]int{
	"owner_entry":    3,
	"mortgage_entry": 3,
	"remark_entry":   2,
}

// generalIDs lists the scalar field IDs that have patterns.
var generalIDs = []string{"nesach_number", "date", "gush", "helka", "area", "authority", "land_type"}

// DefaultPatterns returns the built-in pattern set.
func DefaultPatterns() *Patterns {
	p, err := compilePatterns(defaultSources)
	if err != nil {
		panic(err)
	}
	return p
}

// PatternNames returns the names accepted by Override, sorted.
func PatternNames() []string {
	names := make([]string, 0, len(defaultSources))
	for name := range defaultSources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Override returns a copy of the default patterns with the named sources
// replaced. Unknown names, invalid expressions, and expressions with too few
// capture groups are errors.
func Override(sources map[string]string) (*Patterns, error) {
	merged := make(map[string]string, len(defaultSources))
	for k, v := range defaultSources {
		merged[k] = v
	}
	for name, src := range sources {
		if _, ok := defaultSources[name]; !ok {
			return nil, fmt.Errorf("unknown pattern %q", name)
		}
		merged[name] = src
	}
	return compilePatterns(merged)
}

func compilePatterns(src map[string]string) (*Patterns, error) {
	compiled := make(map[string]*regexp.Regexp, len(src))
	for name, s := range src {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", name, err)
		}
		want := minGroups[name]
		if isGeneral(name) {
			want = 1
		}
		if re.NumSubexp() < want {
			return nil, fmt.Errorf("pattern %q: need %d capture group(s), have %d", name, want, re.NumSubexp())
		}
		compiled[name] = re
	}

	p := &Patterns{General: make(map[string]*regexp.Regexp, len(generalIDs))}
	for _, id := range generalIDs {
		p.General[id] = compiled[id]
	}
	p.Owners = GroupPatterns{
		Section: Section{Header: compiled["owners_header"], Footer: compiled["owners_footer"]},
		Entry:   compiled["owner_entry"],
	}
	p.Mortgages = GroupPatterns{
		Section: Section{Header: compiled["mortgages_header"], Footer: compiled["mortgages_footer"]},
		Entry:   compiled["mortgage_entry"],
	}
	p.Remarks = GroupPatterns{
		Section: Section{Header: compiled["remarks_header"], Footer: compiled["remarks_footer"]},
		Entry:   compiled["remark_entry"],
	}
	return p, nil
}

func isGeneral(name string) bool {
	for _, id := range generalIDs {
		if id == name {
			return true
		}
	}
	return false
}
