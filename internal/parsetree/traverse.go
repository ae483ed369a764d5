package parsetree

import (
	"fmt"
	"strings"
)

// Preorder visits n and its descendants, parent before children.
// Returning false from visit stops the walk.
func Preorder(n Node, visit func(Node) bool) {
	preorder(n, visit)
}

func preorder(n Node, visit func(Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, child := range n.Children() {
		if !preorder(child, visit) {
			return false
		}
	}
	return true
}

// Find returns every node of the subtree rooted at n, n included, that
// satisfies keep, in preorder.
func Find(n Node, keep func(Node) bool) []Node {
	var out []Node
	Preorder(n, func(cur Node) bool {
		if keep(cur) {
			out = append(out, cur)
		}
		return true
	})
	return out
}

// SubtreeTexts returns the texts of n and all of its descendants in preorder.
func SubtreeTexts(n Node) []string {
	var out []string
	Preorder(n, func(cur Node) bool {
		out = append(out, cur.Text())
		return true
	})
	return out
}

// Document is the ordered list of sentence trees of one text.
type Document []*Tree

// DocumentFromSentences builds one tree per wire sentence.
func DocumentFromSentences(sentences []Sentence) (Document, error) {
	doc := make(Document, 0, len(sentences))
	for i, s := range sentences {
		t, err := FromTokens(s.Tokens)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		doc = append(doc, t)
	}
	return doc, nil
}

// Format renders the subtree rooted at n as an indented outline, one token
// per line, for diagnostics.
func Format(n Node) string {
	var b strings.Builder
	format(&b, n, 0)
	return b.String()
}

func format(b *strings.Builder, n Node, depth int) {
	fmt.Fprintf(b, "%s%s [%s/%s/%s]\n", strings.Repeat("  ", depth), n.Text(), n.Lemma(), n.POS(), n.Dep())
	for _, child := range n.Children() {
		format(b, child, depth+1)
	}
}
