// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// Section bounds a sub-section of the document between a header line and
// the first footer line after it.
type Section struct {
	Header *regexp.Regexp
	Footer *regexp.Regexp
}

// Locate returns the text from the start of the first header match up to
// the first footer match that follows it, or to the end of text when no
// footer follows. ok is false when the header does not occur.
func (s Section) Locate(text string) (section string, ok bool) {
	if s.Header == nil {
		return "", false
	}
	loc := s.Header.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	end := len(text)
	if s.Footer != nil {
		if f := s.Footer.FindStringIndex(text[loc[1]:]); f != nil {
			end = loc[1] + f[0]
		}
	}
	return text[loc[0]:end], true
}

// EachEntry calls fn for every non-overlapping match of re in text, in
// document order, with the trimmed capture groups. Groups that did not
// participate in the match are passed as "".
func EachEntry(re *regexp.Regexp, text string, fn func(groups []string)) {
	if re == nil {
		return
	}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		groups := make([]string, len(m)-1)
		for i := range groups {
			groups[i] = strings.TrimSpace(m[i+1])
		}
		fn(groups)
	}
}
