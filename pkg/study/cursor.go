package study

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"

	"github.com/courseforge/courseforge/pkg/rules"
)

// ErrForeignNode is returned by Goto when the target node does not belong
// to the cursor's game.
var ErrForeignNode = errors.New("node does not belong to this game")

// Cursor is a navigation handle over a Game. It tracks the currently
// selected node and mirrors the board state by replaying the path from the
// root through the rules engine; it never stores a position the replay did
// not produce, so the two cannot diverge.
type Cursor struct {
	game *Game
	eng  rules.Engine
	node *Node

	// positions holds the replayed position for every node on the path
	// root..current, so stepping back is a pop.
	positions []*chess.Position
}

// NewCursor creates a cursor positioned at the root of g.
func NewCursor(g *Game, eng rules.Engine) *Cursor {
	return &Cursor{
		game:      g,
		eng:       eng,
		node:      g.root,
		positions: []*chess.Position{eng.Initial()},
	}
}

// Game returns the game this cursor navigates.
func (c *Cursor) Game() *Game {
	return c.game
}

// Current returns the currently selected node.
func (c *Cursor) Current() *Node {
	return c.node
}

// Position returns the replayed position at the current node.
func (c *Cursor) Position() *chess.Position {
	return c.positions[len(c.positions)-1]
}

// ToStart walks back to the root, undoing the replay one ply at a time.
func (c *Cursor) ToStart() {
	for c.Back() {
	}
}

// Back moves to the parent node, undoing one ply of replay. It reports
// whether the cursor moved; at the root it is a no-op.
func (c *Cursor) Back() bool {
	if c.node.parent == nil {
		return false
	}
	c.node = c.node.parent
	c.positions = c.positions[:len(c.positions)-1]
	return true
}

// Forward moves to the main-line continuation (child 0), replaying one
// ply. It reports whether the cursor moved; at a leaf it is a no-op.
func (c *Cursor) Forward() bool {
	next := c.node.MainChild()
	if next == nil {
		return false
	}
	pos, err := c.eng.Apply(c.Position(), next.move)
	if err != nil {
		// The tree only contains moves the engine accepted, so a replay
		// failure means the tree structure is corrupt.
		panic(fmt.Sprintf("study: stored move %s rejected on replay: %v", next.move, err))
	}
	c.node = next
	c.positions = append(c.positions, pos)
	return true
}

// ToEnd follows the main line to its leaf.
func (c *Cursor) ToEnd() {
	for c.Forward() {
	}
}

// Goto repositions the cursor on node, resetting to the start and
// replaying the unique root->node path. Returns ErrForeignNode if node is
// not part of the cursor's game.
func (c *Cursor) Goto(node *Node) error {
	if !c.game.Contains(node) {
		return ErrForeignNode
	}

	// Collect the path root..node, excluding the root.
	var path []*Node
	for n := node; n.parent != nil; n = n.parent {
		path = append(path, n)
	}

	c.ToStart()
	for i := len(path) - 1; i >= 0; i-- {
		step := path[i]
		pos, err := c.eng.Apply(c.Position(), step.move)
		if err != nil {
			panic(fmt.Sprintf("study: stored move %s rejected on replay: %v", step.move, err))
		}
		c.node = step
		c.positions = append(c.positions, pos)
	}
	return nil
}

// Play validates mv at the current position, adds it as a variation of the
// current node (resolving to an existing child when the move is already
// present) and advances onto it. The tree is untouched when the move is
// illegal.
func (c *Cursor) Play(mv *chess.Move) (*Node, error) {
	pos, err := c.eng.Apply(c.Position(), mv)
	if err != nil {
		return nil, err
	}
	node := c.node.AddVariation(mv)
	c.node = node
	c.positions = append(c.positions, pos)
	return node, nil
}

// PlaySAN parses s as standard algebraic notation at the current position
// and plays it.
func (c *Cursor) PlaySAN(s string) (*Node, error) {
	mv, err := c.eng.DecodeSAN(c.Position(), s)
	if err != nil {
		return nil, err
	}
	return c.Play(mv)
}
