// Package templates loads fact group templates from JSON or YAML files.
//
// A file maps group names to templates, and template names to their flat
// node definitions:
//
//	{
//	  "Bank_Rate": {
//	    "rate-is": [
//	      {"label": "verb", "validator": {"lemma": ["be"]}, "children": ["value"]},
//	      {"label": "value", "validator": {"dep": ["attr"]}, "parent": "verb", "extract": true}
//	    ]
//	  },
//	  "QE": { ... }
//	}
//
// Mapping order is significant: groups keep file order in the output record
// and templates keep file order as their priority. A group may also be a list
// of node lists, in which case its templates are named "<group>#1",
// "<group>#2", and so on.
package templates

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/factd/internal/pattern"
)

// Errors returned for malformed files. Template build failures wrap
// pattern.ErrInvalidTemplate instead.
var (
	ErrEmptyFile         = errors.New("templates file is empty")
	ErrLayout            = errors.New("unexpected templates layout")
	ErrDuplicateGroup    = errors.New("duplicate group")
	ErrDuplicateTemplate = errors.New("duplicate template")
	ErrUnknownField      = errors.New("unknown node field")
)

// GroupDefinition is the unbuilt form of one group.
type GroupDefinition struct {
	Name      string
	Templates []pattern.TemplateDefinition
}

// Set is an ordered collection of built groups.
type Set struct {
	groups []*pattern.Group
}

// Load reads and builds the templates file at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds every group of a JSON or YAML document.
func Parse(data []byte) (*Set, error) {
	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, err
	}
	return Build(defs)
}

// Build builds group definitions, failing on the first invalid template.
func Build(defs []GroupDefinition) (*Set, error) {
	s := &Set{groups: make([]*pattern.Group, 0, len(defs))}
	for _, d := range defs {
		g, err := pattern.BuildGroup(d.Name, d.Templates)
		if err != nil {
			return nil, err
		}
		s.groups = append(s.groups, g)
	}
	return s, nil
}

// NewSet wraps already built groups.
func NewSet(groups ...*pattern.Group) *Set {
	return &Set{groups: append([]*pattern.Group(nil), groups...)}
}

// Groups returns the groups in file order.
func (s *Set) Groups() []*pattern.Group {
	return append([]*pattern.Group(nil), s.groups...)
}

// Names returns the group names in file order.
func (s *Set) Names() []string {
	out := make([]string, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.Name
	}
	return out
}

// Group returns the group called name.
func (s *Set) Group(name string) (*pattern.Group, bool) {
	for _, g := range s.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// TemplateCount returns the number of templates across all groups.
func (s *Set) TemplateCount() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.Templates)
	}
	return n
}

// ParseDefinitions decodes a document into group definitions without
// building them.
func ParseDefinitions(data []byte) ([]GroupDefinition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid templates document: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmptyFile
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, layoutErr(root, "top level must map group names to templates")
	}
	if len(root.Content) == 0 {
		return nil, ErrEmptyFile
	}

	seen := make(map[string]bool)
	defs := make([]GroupDefinition, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		name := key.Value
		if name == "" {
			return nil, layoutErr(key, "group name is empty")
		}
		if seen[name] {
			return nil, fmt.Errorf("%w %q (line %d)", ErrDuplicateGroup, name, key.Line)
		}
		seen[name] = true

		templates, err := parseGroup(name, value)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", name, err)
		}
		defs = append(defs, GroupDefinition{Name: name, Templates: templates})
	}
	return defs, nil
}

func parseGroup(group string, n *yaml.Node) ([]pattern.TemplateDefinition, error) {
	switch n.Kind {
	case yaml.MappingNode:
		seen := make(map[string]bool)
		out := make([]pattern.TemplateDefinition, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if seen[key.Value] {
				return nil, fmt.Errorf("%w %q (line %d)", ErrDuplicateTemplate, key.Value, key.Line)
			}
			seen[key.Value] = true

			nodes, err := parseNodes(value)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", key.Value, err)
			}
			out = append(out, pattern.TemplateDefinition{Name: key.Value, Nodes: nodes})
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]pattern.TemplateDefinition, 0, len(n.Content))
		for i, item := range n.Content {
			name := fmt.Sprintf("%s#%d", group, i+1)
			nodes, err := parseNodes(item)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", name, err)
			}
			out = append(out, pattern.TemplateDefinition{Name: name, Nodes: nodes})
		}
		return out, nil

	default:
		return nil, layoutErr(n, "group must be a mapping of templates or a list of node lists")
	}
}

var knownNodeFields = map[string]bool{
	"label":               true,
	"validator":           true,
	"good_subtree_tokens": true,
	"bad_subtree_tokens":  true,
	"children":            true,
	"parent":              true,
	"extract":             true,
}

var knownValidatorFields = map[string]bool{
	"pos":                 true,
	"dep":                 true,
	"lemma":               true,
	"text":                true,
	"good_subtree_tokens": true,
	"bad_subtree_tokens":  true,
}

func parseNodes(n *yaml.Node) ([]pattern.Definition, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, layoutErr(n, "template must be a list of nodes")
	}
	out := make([]pattern.Definition, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			return nil, layoutErr(item, "node must be a mapping")
		}
		if err := checkFields(item, knownNodeFields, ""); err != nil {
			return nil, err
		}
		if v := mappingValue(item, "validator"); v != nil && v.Kind == yaml.MappingNode {
			if err := checkFields(v, knownValidatorFields, "validator."); err != nil {
				return nil, err
			}
		}

		var def pattern.Definition
		if err := item.Decode(&def); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		out = append(out, def)
	}
	return out, nil
}

func checkFields(n *yaml.Node, known map[string]bool, prefix string) error {
	var unknown []string
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !known[n.Content[i].Value] {
			unknown = append(unknown, prefix+n.Content[i].Value)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w (line %d): %s", ErrUnknownField, n.Line, strings.Join(unknown, ", "))
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func layoutErr(n *yaml.Node, msg string) error {
	return fmt.Errorf("%w (line %d): %s", ErrLayout, n.Line, msg)
}
