// Package normalize prepares raw statement text for the dependency parser.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Replacement rewrites every occurrence of From with To.
type Replacement struct {
	From string `koanf:"from" json:"from" yaml:"from"`
	To   string `koanf:"to" json:"to" yaml:"to"`
}

// DefaultReplacements spells out the pound sign abbreviation used in Bank of
// England statements.
func DefaultReplacements() []Replacement {
	return []Replacement{{From: " stg ", To: " £ "}}
}

// Normalizer collapses whitespace, capitalizes the text and applies
// replacements in order. A Normalizer is safe for concurrent use.
type Normalizer struct {
	replacements []Replacement
}

// New returns a Normalizer applying replacements in the given order.
// Replacements with an empty From are ignored.
func New(replacements []Replacement) *Normalizer {
	n := &Normalizer{}
	for _, r := range replacements {
		if r.From == "" {
			continue
		}
		n.replacements = append(n.replacements, r)
	}
	return n
}

// Default returns a Normalizer with DefaultReplacements.
func Default() *Normalizer {
	return New(DefaultReplacements())
}

// Replacements returns a copy of the configured replacements.
func (n *Normalizer) Replacements() []Replacement {
	return append([]Replacement(nil), n.replacements...)
}

// Normalize splits text on whitespace, joins the fields with single spaces,
// upper-cases the first rune and lower-cases the rest, then applies the
// replacements.
func (n *Normalizer) Normalize(text string) string {
	out := Capitalize(strings.Join(strings.Fields(text), " "))
	for _, r := range n.replacements {
		out = strings.ReplaceAll(out, r.From, r.To)
	}
	return out
}

// Capitalize returns s with its first rune in title case and the rest in
// lower case.
func Capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(first)) + strings.ToLower(s[size:])
}
