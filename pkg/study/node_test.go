package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseforge/courseforge/pkg/rules"
)

func TestAddVariationIdempotent(t *testing.T) {
	eng := rules.NewStandardEngine()
	game := NewGame()

	e4a, err := eng.DecodeSAN(eng.Initial(), "e4")
	require.NoError(t, err)
	e4b, err := eng.DecodeSAN(eng.Initial(), "e4")
	require.NoError(t, err)
	d4, err := eng.DecodeSAN(eng.Initial(), "d4")
	require.NoError(t, err)

	first := game.Root().AddVariation(e4a)
	// A second add with an identical move resolves to the existing child,
	// even through a distinct move instance.
	second := game.Root().AddVariation(e4b)
	assert.Same(t, first, second)
	assert.Equal(t, 1, game.Root().NumChildren())

	// A distinct move appends a new sideline after the main line.
	third := game.Root().AddVariation(d4)
	require.Equal(t, 2, game.Root().NumChildren())
	assert.Same(t, first, game.Root().Children()[0])
	assert.Same(t, third, game.Root().Children()[1])
	assert.Same(t, game.Root(), third.Parent())
}

func TestSetCommentStripsClosingBraces(t *testing.T) {
	n := NewGame().Root()
	n.SetComment("good } move }")
	assert.Equal(t, "good  move ", n.Comment())
}

func TestAddNAGDedupedAndSorted(t *testing.T) {
	n := NewGame().Root()
	n.AddNAG(4)
	n.AddNAG(1)
	n.AddNAG(4)
	n.AddNAG(2)
	assert.Equal(t, []int{1, 2, 4}, n.NAGs())
}

func TestCloneSubtreeIsDeep(t *testing.T) {
	eng := rules.NewStandardEngine()
	game := NewGame()
	cur := NewCursor(game, eng)

	e4, err := cur.PlaySAN("e4")
	require.NoError(t, err)
	e5, err := cur.PlaySAN("e5")
	require.NoError(t, err)
	e5.SetComment("Open Game")
	e5.AddNAG(1)

	clone := CloneSubtree(e4)
	require.Nil(t, clone.Parent())
	require.Equal(t, 1, clone.NumChildren())
	cloneChild := clone.MainChild()
	assert.Equal(t, "Open Game", cloneChild.Comment())
	assert.Equal(t, []int{1}, cloneChild.NAGs())
	assert.Equal(t, e4.Move().String(), clone.Move().String())

	// Mutating the clone never reaches the source tree.
	cloneChild.SetComment("changed")
	cloneChild.AddNAG(3)
	assert.Equal(t, "Open Game", e5.Comment())
	assert.Equal(t, []int{1}, e5.NAGs())

	// And mutating the source never reaches the clone.
	e5.SetComment("also changed")
	assert.Equal(t, "changed", cloneChild.Comment())
}

func TestGraft(t *testing.T) {
	eng := rules.NewStandardEngine()
	game := NewGame()
	cur := NewCursor(game, eng)
	e4, err := cur.PlaySAN("e4")
	require.NoError(t, err)

	other := NewGame()
	otherCur := NewCursor(other, eng)
	otherCur.PlaySAN("e4")
	e5, err := otherCur.PlaySAN("e5")
	require.NoError(t, err)

	grafted := e4.Graft(CloneSubtree(e5))
	assert.Same(t, e4, grafted.Parent())
	assert.Equal(t, 1, e4.NumChildren())

	// Grafting an attached node would give it two parents.
	assert.Panics(t, func() { game.Root().Graft(e5) })
}

func TestGameHeaders(t *testing.T) {
	game := NewGame()

	result, ok := game.Header("Result")
	require.True(t, ok)
	assert.Equal(t, "*", result)

	game.SetHeader("StudyName", "My Study")
	assert.Equal(t, "My Study", game.HeaderOr("StudyName", "x"))
	assert.Equal(t, "fallback", game.HeaderOr("Opening", "fallback"))

	// Clearing Result resets it instead of removing it.
	game.SetHeader("Result", "")
	assert.Equal(t, "*", game.HeaderOr("Result", ""))

	// Headers returns a copy.
	game.Headers()["Event"] = "mutated"
	assert.NotEqual(t, "mutated", game.HeaderOr("Event", ""))
}

func TestMainLineAndLeaves(t *testing.T) {
	eng := rules.NewStandardEngine()
	game := NewGame()
	cur := NewCursor(game, eng)

	_, err := cur.PlaySAN("e4")
	require.NoError(t, err)
	_, err = cur.PlaySAN("e5")
	require.NoError(t, err)
	nf3, err := cur.PlaySAN("Nf3")
	require.NoError(t, err)

	cur.ToStart()
	cur.Forward()
	c5, err := cur.PlaySAN("c5")
	require.NoError(t, err)

	line := game.MainLine()
	require.Len(t, line, 4) // root, e4, e5, Nf3
	assert.Same(t, game.Root(), line[0])
	assert.Same(t, nf3, line[3])

	leaves := game.Leaves()
	require.Len(t, leaves, 2)
	assert.Same(t, nf3, leaves[0])
	assert.Same(t, c5, leaves[1])

	assert.Equal(t, 5, game.NumNodes())
}
