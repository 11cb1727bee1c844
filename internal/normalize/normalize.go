// Package normalize folds raw filing text into a canonical ASCII-biased form
// and strips layout artifacts (page numbers, footers, dot leaders).
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

var (
	// Dot leaders and the raw ellipsis glyph collapse to a plain ellipsis.
	reDots = regexp.MustCompile(`\.{5,}|…`)
	// Runs of horizontal whitespace collapse to one space.
	reSpace = regexp.MustCompile(`[ \t]+`)
	// Page artifacts, matched against whole lines.
	rePageNum  = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`)
	rePageMark = regexp.MustCompile(`(?m)^[ \t]*[-–—]?[ \t]*\d+[ \t]*[-–—]?[ \t]*$`)
	rePageWord = regexp.MustCompile(`(?mi)^[ \t]*Page[ \t]+\d+([ \t]+of[ \t]+\d+)?[ \t]*$`)
	// Three or more newlines collapse to one blank line.
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Normalize returns the canonical form of raw. It is total: malformed input is
// folded, never rejected, and applying it twice gives the same result.
//
// Order matters: dot and whitespace collapsing run before page-artifact
// stripping because the stripping patterns are line-exact.
func Normalize(raw string) string {
	text := foldRunes(raw)
	text = reDots.ReplaceAllString(text, "...")
	text = reSpace.ReplaceAllString(text, " ")
	text = rePageNum.ReplaceAllString(text, "")
	text = rePageMark.ReplaceAllString(text, "")
	text = rePageWord.ReplaceAllString(text, "")
	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// foldRunes canonicalizes line endings, applies NFKC, then remaps every rune
// by its Unicode general category:
//
//   - separators (Z*) become a single ASCII space
//   - controls, format, surrogate, private-use and unassigned runes are dropped
//   - dash punctuation (Pd) and MINUS SIGN become '-'
//   - quote punctuation (Pi/Pf) becomes a straight double quote when the rune
//     name says DOUBLE, else a straight single quote
//   - other punctuation maps by name: ELLIPSIS -> "...", BULLET / MIDDLE DOT -> '-'
//   - everything else passes through unchanged
//
// Newline and tab are always preserved verbatim.
func foldRunes(s string) string {
	s = strings.ReplaceAll(s, "\r", "\n")
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.In(r, unicode.Z) {
			b.WriteByte(' ')
			continue
		}
		if unicode.In(r, unicode.C) || !unicode.IsGraphic(r) {
			continue
		}
		if unicode.Is(unicode.Pd, r) || r == '−' {
			b.WriteByte('-')
			continue
		}
		if unicode.In(r, unicode.Pi, unicode.Pf) {
			if strings.Contains(runenames.Name(r), "DOUBLE") {
				b.WriteByte('"')
			} else {
				b.WriteByte('\'')
			}
			continue
		}
		if unicode.In(r, unicode.P) {
			name := runenames.Name(r)
			switch {
			case strings.Contains(name, "ELLIPSIS"):
				b.WriteString("...")
			case strings.Contains(name, "BULLET"), strings.Contains(name, "MIDDLE DOT"):
				b.WriteByte('-')
			case name == "MINUS SIGN":
				b.WriteByte('-')
			default:
				b.WriteRune(r)
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
