// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

// hebrewPunct folds Hebrew geresh/gershayim and non-breaking spaces to the
// ASCII forms the patterns are written against.
var hebrewPunct = runes.Map(func(r rune) rune {
	switch r {
	case '\u05f4', '\u201c', '\u201d':
		return '"'
	case '\u05f3', '\u2018', '\u2019':
		return '\''
	case '\u00a0', '\u202f':
		return ' '
	case '\u05be':
		return '-'
	}
	return r
})

// Normalize prepares extracted document text for matching: NFC
// composition, removal of bidi control marks, ASCII quotes, and LF line
// endings.
func Normalize(text string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Bidi_Control)), hebrewPunct)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	out = strings.ReplaceAll(out, "\r\n", "\n")
	return strings.ReplaceAll(out, "\r", "\n")
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var (
	allDigits   = regexp.MustCompile(`^\d+$`)
	corporateID = regexp.MustCompile(`^\d{3,9}$`)
)

// ClassifyID derives the identification type from the shape of an owner's
// ID number. The all-digits test runs first, so the corporate branch is
// never reached by a numeric value; the order matches exports produced by
// earlier versions of the tool.
func ClassifyID(id string) types.IDType {
	switch {
	case allDigits.MatchString(id):
		return types.IDPersonal
	case corporateID.MatchString(id):
		return types.IDCorporate
	default:
		return types.IDOther
	}
}
