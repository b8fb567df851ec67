package export

import (
	"strings"

	"github.com/courseforge/courseforge/pkg/study"
)

// DefaultMarker is the comment token that pins the split point explicitly.
const DefaultMarker = "[SPLIT_CHAPTERS]"

// Locator finds the node whose children become separate chapters.
type Locator struct {
	// Marker is the comment token that marks an explicit split point.
	// Empty means DefaultMarker.
	Marker string
}

// Locate returns the split node for g, or nil when the tree has no moves
// (nothing to export, not an error). Priority order:
//
//  1. A node whose comment contains the marker token, found by pre-order
//     depth-first search. The token is stripped from the comment when
//     consumed. A marker on the root is ignored since the root is never
//     exported as a branch.
//  2. The first main-line node carrying at least one sideline (more than
//     one child).
//  3. The first main-line node with any continuation at all, which is the
//     root whenever the tree has moves.
func (l Locator) Locate(g *study.Game) *study.Node {
	marker := l.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	if n := findMarked(g, marker); n != nil {
		n.SetComment(strings.TrimSpace(strings.ReplaceAll(n.Comment(), marker, "")))
		return n
	}

	line := g.MainLine()
	for _, n := range line {
		if n.NumChildren() > 1 {
			return n
		}
	}
	for _, n := range line {
		if n.NumChildren() > 0 {
			return n
		}
	}
	return nil
}

// findMarked scans the whole tree depth-first, children in variation
// order, for a non-root node whose comment contains the marker token.
func findMarked(g *study.Game, marker string) *study.Node {
	stack := []*study.Node{g.Root()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.IsRoot() && strings.Contains(n.Comment(), marker) {
			return n
		}

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}
