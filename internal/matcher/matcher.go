// Package matcher walks a pattern template against one sentence tree.
//
// Matching state never lives on the template. Each attempt gets its own
// Session, so one template can be matched by many goroutines at once.
package matcher

import (
	"github.com/fyrsmithlabs/factd/internal/parsetree"
	"github.com/fyrsmithlabs/factd/internal/pattern"
)

// NodeState is the outcome of one pattern node in one attempt.
type NodeState struct {
	Validated  bool
	FoundValue string
	// Candidates are the parse nodes that satisfied the pattern node, in
	// preorder of the parent candidate subtree that produced them.
	Candidates []parsetree.Node
}

// Session records one matching attempt of a template against a sentence.
type Session struct {
	template *pattern.Template
	states   []NodeState
}

// NewSession returns an unvalidated session for t.
func NewSession(t *pattern.Template) *Session {
	return &Session{template: t, states: make([]NodeState, t.Len())}
}

// Template returns the template the session belongs to.
func (s *Session) Template() *pattern.Template { return s.template }

// State returns the state of the node at preorder index i.
func (s *Session) State(i int) NodeState { return s.states[i] }

// StateOf returns the state of the node with the given label.
func (s *Session) StateOf(label string) (NodeState, bool) {
	n, ok := s.template.Lookup(label)
	if !ok {
		return NodeState{}, false
	}
	return s.states[n.Index()], true
}

// ValidatedCount returns the number of validated nodes.
func (s *Session) ValidatedCount() int {
	n := 0
	for i := range s.states {
		if s.states[i].Validated {
			n++
		}
	}
	return n
}

// FullMatch reports whether every node of the template validated.
func (s *Session) FullMatch() bool {
	return s.ValidatedCount() == len(s.states)
}

// Match anchors t anywhere in the tree below root and validates the rest of
// the template top-down.
//
// The root pattern node is searched over the whole tree and keeps every
// satisfying token as a candidate. Each later node, in template preorder,
// searches the subtrees of its parent's candidates in order and binds to the
// first candidate subtree that yields anything. The first node that finds
// nothing ends the attempt; it and every node after it stay unvalidated.
func Match(root parsetree.Node, t *pattern.Template) *Session {
	s := NewSession(t)
	s.run(root)
	return s
}

func (s *Session) run(root parsetree.Node) {
	t := s.template

	found := t.Root().FindAccepted(root)
	if len(found) == 0 {
		return
	}
	s.bind(0, found)

	for i := 1; i < t.Len(); i++ {
		node := t.Node(i)
		parent := s.states[t.Parent(i)]
		for _, candidate := range parent.Candidates {
			if found := node.FindAccepted(candidate); len(found) > 0 {
				s.bind(i, found)
				break
			}
		}
		if !s.states[i].Validated {
			return
		}
	}
}

func (s *Session) bind(i int, found []parsetree.Node) {
	s.states[i] = NodeState{
		Validated:  true,
		FoundValue: found[0].Text(),
		Candidates: found,
	}
}

// Extract returns the found values of validated nodes marked for
// extraction, in template preorder. Callers should only extract from a
// FullMatch.
func (s *Session) Extract() []string {
	var out []string
	for i := range s.states {
		if s.template.Node(i).Extract && s.states[i].Validated {
			out = append(out, s.states[i].FoundValue)
		}
	}
	return out
}
