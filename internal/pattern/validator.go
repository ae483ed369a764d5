package pattern

import (
	"strings"

	"github.com/fyrsmithlabs/factd/internal/parsetree"
)

// Accepts reports whether candidate satisfies the node's validator and
// subtree filters. All comparisons are case-insensitive.
func (n *Node) Accepts(candidate parsetree.Node) bool {
	v := n.Validator
	if !v.POS.Allows(candidate.POS()) ||
		!v.Dep.Allows(candidate.Dep()) ||
		!v.Lemma.Allows(candidate.Lemma()) ||
		!v.Text.Allows(candidate.Text()) {
		return false
	}

	if len(n.GoodSubtreeTokens) == 0 && len(n.BadSubtreeTokens) == 0 {
		return true
	}

	subtree := parsetree.SubtreeTexts(candidate)
	for i, s := range subtree {
		subtree[i] = strings.ToLower(s)
	}
	if len(n.GoodSubtreeTokens) > 0 && !Found(subtree, n.GoodSubtreeTokens, MatchAll, true) {
		return false
	}
	if len(n.BadSubtreeTokens) > 0 && Found(subtree, n.BadSubtreeTokens, MatchAny, true) {
		return false
	}
	return true
}

// FindAccepted returns every node of the subtree rooted at start, start
// included, that n accepts, in preorder.
func (n *Node) FindAccepted(start parsetree.Node) []parsetree.Node {
	return parsetree.Find(start, n.Accepts)
}

// MatchMode selects how many keys Found requires.
type MatchMode int

const (
	// MatchAll requires every key to be found.
	MatchAll MatchMode = iota
	// MatchAny requires at least one key to be found.
	MatchAny
	// MatchNone requires that no key is found.
	MatchNone
)

// String returns the mode name.
func (m MatchMode) String() string {
	switch m {
	case MatchAll:
		return "all"
	case MatchAny:
		return "any"
	case MatchNone:
		return "none"
	default:
		return "unknown"
	}
}

// Found counts the keys that occur in texts, case-insensitively, and
// applies mode to the count. With substring set a key occurs when it is a
// substring of some text; otherwise it must equal one.
func Found(texts, keys []string, mode MatchMode, substring bool) bool {
	count := 0
	for _, key := range keys {
		k := strings.ToLower(key)
		for _, text := range texts {
			t := strings.ToLower(text)
			if (substring && strings.Contains(t, k)) || (!substring && t == k) {
				count++
				break
			}
		}
	}

	switch mode {
	case MatchAll:
		return count == len(keys)
	case MatchAny:
		return count > 0
	default:
		return count == 0
	}
}
