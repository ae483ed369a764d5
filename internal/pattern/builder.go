package pattern

import (
	"fmt"
	"strings"
)

// ValidatorSpec is the configuration form of a Validator. Subtree filters
// are also accepted here for templates written in the older layout.
type ValidatorSpec struct {
	POS               []string `json:"pos,omitempty" yaml:"pos,omitempty"`
	Dep               []string `json:"dep,omitempty" yaml:"dep,omitempty"`
	Lemma             []string `json:"lemma,omitempty" yaml:"lemma,omitempty"`
	Text              []string `json:"text,omitempty" yaml:"text,omitempty"`
	GoodSubtreeTokens []string `json:"good_subtree_tokens,omitempty" yaml:"good_subtree_tokens,omitempty"`
	BadSubtreeTokens  []string `json:"bad_subtree_tokens,omitempty" yaml:"bad_subtree_tokens,omitempty"`
}

// Definition is the flat configuration form of one pattern node.
type Definition struct {
	Label             string        `json:"label" yaml:"label"`
	Validator         ValidatorSpec `json:"validator" yaml:"validator"`
	GoodSubtreeTokens []string      `json:"good_subtree_tokens,omitempty" yaml:"good_subtree_tokens,omitempty"`
	BadSubtreeTokens  []string      `json:"bad_subtree_tokens,omitempty" yaml:"bad_subtree_tokens,omitempty"`
	Children          []string      `json:"children,omitempty" yaml:"children,omitempty"`
	Parent            string        `json:"parent,omitempty" yaml:"parent,omitempty"`
	Extract           bool          `json:"extract,omitempty" yaml:"extract,omitempty"`
}

// TemplateDefinition names the node definitions of one template.
type TemplateDefinition struct {
	Name  string
	Nodes []Definition
}

// Build resolves parent and child labels of defs into a template tree.
//
// A node with an empty parent label that another node lists as a child
// takes that node as its parent. A node naming a parent that does not list
// it is appended to that parent's children after the listed ones. Exactly
// one node must remain without a parent.
func Build(name string, defs []Definition) (*Template, error) {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		if d.Label == "" {
			return nil, buildErr(name, "", ErrEmptyLabel, "definition %d", i)
		}
		if _, dup := index[d.Label]; dup {
			return nil, buildErr(name, d.Label, ErrDuplicateLabel, "")
		}
		index[d.Label] = i
	}

	parentOf := make([]int, len(defs))
	for i := range parentOf {
		parentOf[i] = -1
	}
	for i, d := range defs {
		if d.Parent == "" {
			continue
		}
		p, ok := index[d.Parent]
		if !ok {
			return nil, buildErr(name, d.Label, ErrUnresolvedParent, "%q", d.Parent)
		}
		parentOf[i] = p
	}

	listedBy := make([]int, len(defs))
	for i := range listedBy {
		listedBy[i] = -1
	}
	children := make([][]int, len(defs))
	for i, d := range defs {
		seen := make(map[int]bool, len(d.Children))
		for _, label := range d.Children {
			c, ok := index[label]
			if !ok {
				return nil, buildErr(name, d.Label, ErrUnresolvedChild, "%q", label)
			}
			if seen[c] {
				return nil, buildErr(name, d.Label, ErrDuplicateChild, "%q", label)
			}
			seen[c] = true
			if c == i {
				return nil, buildErr(name, d.Label, ErrCycle, "node lists itself as a child")
			}
			if listedBy[c] >= 0 {
				return nil, buildErr(name, label, ErrConflictingParent, "listed by %q and %q", defs[listedBy[c]].Label, d.Label)
			}
			if parentOf[c] >= 0 && parentOf[c] != i {
				return nil, buildErr(name, label, ErrConflictingParent, "declares parent %q but is listed by %q", defs[parentOf[c]].Label, d.Label)
			}
			listedBy[c] = i
			parentOf[c] = i
			children[i] = append(children[i], c)
		}
	}
	for i := range defs {
		if p := parentOf[i]; p >= 0 && listedBy[i] < 0 {
			if p == i {
				return nil, buildErr(name, defs[i].Label, ErrCycle, "node names itself as parent")
			}
			children[p] = append(children[p], i)
		}
	}

	root := -1
	for i := range defs {
		if parentOf[i] >= 0 {
			continue
		}
		if root >= 0 {
			return nil, buildErr(name, defs[i].Label, ErrMultipleRoots, "%q is also a root", defs[root].Label)
		}
		root = i
	}
	if root < 0 {
		if len(defs) == 0 {
			return nil, buildErr(name, "", ErrNoRoot, "no node definitions")
		}
		return nil, buildErr(name, "", ErrNoRoot, "")
	}

	// Preorder layout. Every non-root node has exactly one parent, so any node
	// missed here sits on a parent loop.
	t := &Template{
		name:  name,
		nodes: make([]Node, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	var place func(def, parent int)
	place = func(def, parent int) {
		at := len(t.nodes)
		t.nodes = append(t.nodes, newNode(defs[def], at, parent))
		t.index[defs[def].Label] = at
		if parent >= 0 {
			t.nodes[parent].children = append(t.nodes[parent].children, at)
		}
		for _, c := range children[def] {
			place(c, at)
		}
	}
	place(root, -1)

	if len(t.nodes) != len(defs) {
		for _, d := range defs {
			if _, ok := t.index[d.Label]; !ok {
				return nil, buildErr(name, d.Label, ErrCycle, "node is not reachable from root %q", defs[root].Label)
			}
		}
	}

	return t, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(name string, defs []Definition) *Template {
	t, err := Build(name, defs)
	if err != nil {
		panic(fmt.Sprintf("pattern: %v", err))
	}
	return t
}

// BuildGroup builds the templates of one fact group, keeping their order.
func BuildGroup(name string, defs []TemplateDefinition) (*Group, error) {
	g := &Group{Name: name, Templates: make([]*Template, 0, len(defs))}
	for _, d := range defs {
		t, err := Build(d.Name, d.Nodes)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", name, err)
		}
		g.Templates = append(g.Templates, t)
	}
	return g, nil
}

func newNode(d Definition, index, parent int) Node {
	return Node{
		Label: d.Label,
		Validator: Validator{
			POS:   NewStringSet(d.Validator.POS...),
			Dep:   NewStringSet(d.Validator.Dep...),
			Lemma: NewStringSet(d.Validator.Lemma...),
			Text:  NewStringSet(d.Validator.Text...),
		},
		GoodSubtreeTokens: mergeTokens(d.GoodSubtreeTokens, d.Validator.GoodSubtreeTokens),
		BadSubtreeTokens:  mergeTokens(d.BadSubtreeTokens, d.Validator.BadSubtreeTokens),
		Extract:           d.Extract,
		index:             index,
		parent:            parent,
	}
}

// mergeTokens lowercases and de-duplicates filter tokens, keeping first
// occurrence order.
func mergeTokens(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, tok := range list {
			tok = strings.ToLower(tok)
			if tok == "" || seen[tok] {
				continue
			}
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
