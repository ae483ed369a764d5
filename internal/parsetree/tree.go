package parsetree

import (
	"errors"
	"fmt"
)

// Node is one token of a parsed sentence.
type Node interface {
	Text() string
	Lemma() string
	POS() string
	Dep() string
	Tag() string
	Children() []Node
}

// Token is the wire form of one parsed token.
//
// Head is the ID of the syntactic head. The sentence root points at
// itself or carries a negative head.
type Token struct {
	ID    int    `json:"id"`
	Head  int    `json:"head"`
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	Dep   string `json:"dep"`
	Tag   string `json:"tag,omitempty"`
}

// IsRoot reports whether the token heads its sentence.
func (t Token) IsRoot() bool {
	return t.Head < 0 || t.Head == t.ID
}

// Sentence is the wire form of one parsed sentence.
type Sentence struct {
	Tokens []Token `json:"tokens"`
}

// Errors returned by FromTokens.
var (
	ErrEmptySentence = errors.New("sentence has no tokens")
	ErrNoRoot        = errors.New("sentence has no root token")
	ErrMultipleRoots = errors.New("sentence has more than one root token")
	ErrDuplicateID   = errors.New("duplicate token id")
	ErrUnknownHead   = errors.New("token head not found")
	ErrDetached      = errors.New("token not reachable from root")
)

// Tree is an arena of tokens forming one single-rooted dependency tree.
// A Tree is immutable once built and safe for concurrent reads.
type Tree struct {
	tokens   []Token
	parent   []int
	children [][]int
	root     int
}

// FromTokens builds a tree from tokens in sentence order.
// Children keep the relative order of their tokens.
func FromTokens(tokens []Token) (*Tree, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptySentence
	}

	byID := make(map[int]int, len(tokens))
	for i, tok := range tokens {
		if _, dup := byID[tok.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, tok.ID)
		}
		byID[tok.ID] = i
	}

	t := &Tree{
		tokens:   append([]Token(nil), tokens...),
		parent:   make([]int, len(tokens)),
		children: make([][]int, len(tokens)),
		root:     -1,
	}

	for i, tok := range tokens {
		if tok.IsRoot() {
			if t.root >= 0 {
				return nil, fmt.Errorf("%w: tokens %d and %d", ErrMultipleRoots, tokens[t.root].ID, tok.ID)
			}
			t.root = i
			t.parent[i] = -1
			continue
		}
		head, ok := byID[tok.Head]
		if !ok {
			return nil, fmt.Errorf("%w: token %d points at %d", ErrUnknownHead, tok.ID, tok.Head)
		}
		t.parent[i] = head
		t.children[head] = append(t.children[head], i)
	}
	if t.root < 0 {
		return nil, ErrNoRoot
	}

	// Heads forming a loop leave tokens unreachable from the root.
	if n := t.countReachable(); n != len(tokens) {
		return nil, fmt.Errorf("%w: %d of %d tokens", ErrDetached, len(tokens)-n, len(tokens))
	}

	return t, nil
}

// MustFromTokens is like FromTokens but panics on error.
// Intended for tests and static fixtures.
func MustFromTokens(tokens []Token) *Tree {
	t, err := FromTokens(tokens)
	if err != nil {
		panic(fmt.Sprintf("parsetree: %v", err))
	}
	return t
}

func (t *Tree) countReachable() int {
	n := 0
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, t.children[i]...)
	}
	return n
}

// Root returns the sentence root.
func (t *Tree) Root() TreeNode {
	return TreeNode{tree: t, idx: t.root}
}

// Len returns the number of tokens.
func (t *Tree) Len() int {
	return len(t.tokens)
}

// At returns the node for the i-th token in sentence order.
func (t *Tree) At(i int) TreeNode {
	return TreeNode{tree: t, idx: i}
}

// Tokens returns a copy of the tokens in sentence order.
func (t *Tree) Tokens() []Token {
	return append([]Token(nil), t.tokens...)
}

// Text returns the sentence surface text with single spaces between tokens.
func (t *Tree) Text() string {
	n := 0
	for _, tok := range t.tokens {
		n += len(tok.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, tok := range t.tokens {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, tok.Text...)
	}
	return string(buf)
}

// TreeNode is a handle to one token of a Tree.
type TreeNode struct {
	tree *Tree
	idx  int
}

func (n TreeNode) Text() string  { return n.tree.tokens[n.idx].Text }
func (n TreeNode) Lemma() string { return n.tree.tokens[n.idx].Lemma }
func (n TreeNode) POS() string   { return n.tree.tokens[n.idx].POS }
func (n TreeNode) Dep() string   { return n.tree.tokens[n.idx].Dep }
func (n TreeNode) Tag() string   { return n.tree.tokens[n.idx].Tag }

// Token returns the token under the handle.
func (n TreeNode) Token() Token { return n.tree.tokens[n.idx] }

// Index returns the token position in sentence order.
func (n TreeNode) Index() int { return n.idx }

// Children returns the ordered dependents.
func (n TreeNode) Children() []Node {
	kids := n.tree.children[n.idx]
	out := make([]Node, len(kids))
	for i, k := range kids {
		out[i] = TreeNode{tree: n.tree, idx: k}
	}
	return out
}

// Parent returns the syntactic head, or false at the root.
func (n TreeNode) Parent() (TreeNode, bool) {
	p := n.tree.parent[n.idx]
	if p < 0 {
		return TreeNode{}, false
	}
	return TreeNode{tree: n.tree, idx: p}, true
}

// IsAncestor reports whether other lies on the path from n to the root,
// n itself included.
func (n TreeNode) IsAncestor(other TreeNode) bool {
	if n.tree != other.tree {
		return false
	}
	for i := n.idx; i >= 0; i = n.tree.parent[i] {
		if i == other.idx {
			return true
		}
	}
	return false
}

var _ Node = TreeNode{}
