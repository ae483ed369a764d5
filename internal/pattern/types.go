// Package pattern defines the declarative templates ("context trees") that
// describe the grammatical shape of a fact, and the builder that turns flat
// node definitions into validated trees.
package pattern

import (
	"sort"
	"strings"
)

// StringSet is a set of lowercase strings. A nil set is a wildcard.
type StringSet map[string]struct{}

// NewStringSet lowercases values into a set. It returns nil for no values,
// so an explicitly empty list behaves exactly like an absent one.
func NewStringSet(values ...string) StringSet {
	if len(values) == 0 {
		return nil
	}
	s := make(StringSet, len(values))
	for _, v := range values {
		s[strings.ToLower(v)] = struct{}{}
	}
	return s
}

// Allows reports whether value satisfies the set, case-insensitively.
func (s StringSet) Allows(value string) bool {
	if s == nil {
		return true
	}
	_, ok := s[strings.ToLower(value)]
	return ok
}

// Values returns the sorted members.
func (s StringSet) Values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Validator holds the optional per-property constraints of a node.
type Validator struct {
	POS   StringSet
	Dep   StringSet
	Lemma StringSet
	Text  StringSet
}

// Node is one constraint-bearing node of a Template.
type Node struct {
	Label             string
	Validator         Validator
	GoodSubtreeTokens []string
	BadSubtreeTokens  []string
	Extract           bool

	index    int
	parent   int
	children []int
}

// Index returns the node position in the template preorder.
func (n *Node) Index() int { return n.index }

// Template is a tree of pattern nodes stored in preorder; index 0 is the
// root. It is immutable after Build and safe for concurrent use.
type Template struct {
	name  string
	nodes []Node
	index map[string]int
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Len returns the number of nodes.
func (t *Template) Len() int { return len(t.nodes) }

// Root returns the root node.
func (t *Template) Root() *Node { return &t.nodes[0] }

// Node returns the node at preorder index i.
func (t *Template) Node(i int) *Node { return &t.nodes[i] }

// Lookup returns the node with the given label.
func (t *Template) Lookup(label string) (*Node, bool) {
	i, ok := t.index[label]
	if !ok {
		return nil, false
	}
	return &t.nodes[i], true
}

// Parent returns the preorder index of the parent of node i, or -1 at the root.
func (t *Template) Parent(i int) int { return t.nodes[i].parent }

// Children returns the preorder indices of the children of node i.
func (t *Template) Children(i int) []int {
	return append([]int(nil), t.nodes[i].children...)
}

// Labels returns node labels in preorder.
func (t *Template) Labels() []string {
	out := make([]string, len(t.nodes))
	for i := range t.nodes {
		out[i] = t.nodes[i].Label
	}
	return out
}

// Equal reports whether two templates have the same name, labels, topology,
// validators, filters and extract flags.
func (t *Template) Equal(o *Template) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.name != o.name || len(t.nodes) != len(o.nodes) {
		return false
	}
	for i := range t.nodes {
		a, b := &t.nodes[i], &o.nodes[i]
		if a.Label != b.Label || a.Extract != b.Extract || a.parent != b.parent {
			return false
		}
		if !equalInts(a.children, b.children) ||
			!equalStrings(a.GoodSubtreeTokens, b.GoodSubtreeTokens) ||
			!equalStrings(a.BadSubtreeTokens, b.BadSubtreeTokens) {
			return false
		}
		if !a.Validator.equal(b.Validator) {
			return false
		}
	}
	return true
}

func (v Validator) equal(o Validator) bool {
	return equalSets(v.POS, o.POS) && equalSets(v.Dep, o.Dep) &&
		equalSets(v.Lemma, o.Lemma) && equalSets(v.Text, o.Text)
}

func equalSets(a, b StringSet) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Group is a named fact group with templates in priority order.
type Group struct {
	Name      string
	Templates []*Template
}
