package study

import (
	"time"
)

// Game owns the root of a variation tree and the per-game header tags.
// Header keys are case-sensitive and unique; Result is always present.
type Game struct {
	root    *Node
	headers map[string]string
}

// NewGame creates an empty game: a root node with no move and the default
// header set the course builder starts from.
func NewGame() *Game {
	return &Game{
		root: &Node{},
		headers: map[string]string{
			"Event":  "Chess Study",
			"Date":   time.Now().Format("2006.01.02"),
			"White":  "?",
			"Black":  "?",
			"Result": "*",
		},
	}
}

// Root returns the root node of the tree.
func (g *Game) Root() *Node {
	return g.root
}

// Header returns the value of a header tag.
func (g *Game) Header(key string) (string, bool) {
	v, ok := g.headers[key]
	return v, ok
}

// HeaderOr returns the value of a header tag, or fallback when absent.
func (g *Game) HeaderOr(key, fallback string) string {
	if v, ok := g.headers[key]; ok {
		return v
	}
	return fallback
}

// SetHeader sets a header tag. Clearing Result resets it to "*" instead of
// removing it.
func (g *Game) SetHeader(key, value string) {
	if key == "Result" && value == "" {
		value = "*"
	}
	g.headers[key] = value
}

// Headers returns a copy of the header map.
func (g *Game) Headers() map[string]string {
	out := make(map[string]string, len(g.headers))
	for k, v := range g.headers {
		out[k] = v
	}
	return out
}

// Contains reports whether node belongs to this game's tree.
func (g *Game) Contains(node *Node) bool {
	for n := node; n != nil; n = n.parent {
		if n == g.root {
			return true
		}
	}
	return false
}

// NumNodes counts every node in the tree, root included.
func (g *Game) NumNodes() int {
	count := 0
	stack := []*Node{g.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.children...)
	}
	return count
}

// MainLine returns the nodes reached by always following child 0, starting
// with the root itself.
func (g *Game) MainLine() []*Node {
	line := []*Node{g.root}
	for n := g.root.MainChild(); n != nil; n = n.MainChild() {
		line = append(line, n)
	}
	return line
}

// Leaves returns every terminal node in pre-order (children visited in
// variation order).
func (g *Game) Leaves() []*Node {
	var leaves []*Node
	stack := []*Node{g.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			if n != g.root {
				leaves = append(leaves, n)
			}
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return leaves
}
