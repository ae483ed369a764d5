// Package parsetree provides a read-only view over dependency parses
// produced by an external parser.
//
// A sentence arrives as a flat list of tokens, each naming its syntactic
// head. FromTokens arranges the tokens into an arena-backed Tree where
// child and parent links are indices, never pointers, so the parent link
// is purely navigational.
//
// The matcher only relies on the Node interface:
//
//	type Node interface {
//	    Text() string
//	    Lemma() string
//	    POS() string
//	    Dep() string
//	    Tag() string
//	    Children() []Node
//	}
//
// Any other parse representation can be adapted by implementing it.
//
// # Traversal
//
// Preorder walks a subtree depth-first, parent before children, children
// in their stored order. Find collects every node of a subtree that
// satisfies a predicate, in preorder. SubtreeTexts returns the surface
// texts of a node and all of its descendants.
package parsetree
