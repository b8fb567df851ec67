package study

import (
	"sort"
	"strings"

	"github.com/notnil/chess"
)

// Node is one ply of a game. It owns an ordered sequence of child
// variations (index 0 is the main line, later indexes are sidelines in
// insertion order) and keeps a non-owning back-reference to its parent.
// Nodes are only ever created through AddVariation or CloneSubtree, so a
// node always has exactly one parent and the tree is acyclic by
// construction.
type Node struct {
	parent   *Node
	move     *chess.Move
	comment  string
	nags     []int
	children []*Node
}

// Move returns the move this node represents, or nil for the root.
func (n *Node) Move() *chess.Move {
	return n.move
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether this node is the tree root.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// IsLeaf reports whether this node has no continuations.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// Children returns the variation sequence. The returned slice is a copy;
// mutating it does not affect the tree.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// NumChildren returns the number of variations at this node.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// MainChild returns the main-line continuation (child 0), or nil at a leaf.
func (n *Node) MainChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// Comment returns the free-text comment attached to this node.
func (n *Node) Comment() string {
	return n.comment
}

// SetComment replaces the comment verbatim, except that closing braces are
// removed since they cannot round-trip through a PGN comment.
func (n *Node) SetComment(text string) {
	n.comment = strings.ReplaceAll(text, "}", "")
}

// NAGs returns the numeric annotation glyphs on this node, sorted ascending.
func (n *Node) NAGs() []int {
	out := make([]int, len(n.nags))
	copy(out, n.nags)
	return out
}

// AddNAG attaches a numeric annotation glyph. Duplicates are ignored and
// the stored sequence stays sorted so serialization is deterministic.
func (n *Node) AddNAG(nag int) {
	for _, existing := range n.nags {
		if existing == nag {
			return
		}
	}
	n.nags = append(n.nags, nag)
	sort.Ints(n.nags)
}

// AddVariation resolves mv to an existing child if an identical move is
// already present (no duplicate branches for the same move), otherwise it
// appends a new child at the end of the variation sequence and returns it.
// The main line is never reordered. Legality is not checked here; Cursor
// is the mutation path that consults the rules engine.
func (n *Node) AddVariation(mv *chess.Move) *Node {
	for _, child := range n.children {
		if child.move.String() == mv.String() {
			return child
		}
	}
	child := &Node{parent: n, move: mv}
	n.children = append(n.children, child)
	return child
}

// Graft appends a detached subtree (as produced by CloneSubtree) as the
// newest variation of n. Grafting a node that already belongs to a tree
// would give it two parents, which is a programming defect, so it panics.
func (n *Node) Graft(sub *Node) *Node {
	if sub.parent != nil {
		panic("study: graft of an attached subtree")
	}
	sub.parent = n
	n.children = append(n.children, sub)
	return sub
}

// CloneSubtree deep-copies n and every descendant (move, comment, NAGs)
// into freshly allocated nodes with no relation to the source tree. The
// returned node is detached; attach it with Graft.
func CloneSubtree(n *Node) *Node {
	clone := &Node{
		move:    n.move,
		comment: n.comment,
	}
	if len(n.nags) > 0 {
		clone.nags = make([]int, len(n.nags))
		copy(clone.nags, n.nags)
	}
	for _, child := range n.children {
		c := CloneSubtree(child)
		c.parent = clone
		clone.children = append(clone.children, c)
	}
	return clone
}
