package rules

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

// ErrIllegalMove is returned when a move is not a legal continuation of the
// position it is applied to. The position is left untouched.
var ErrIllegalMove = errors.New("illegal move")

// Engine is the narrow surface the tree model needs from a chess rules
// implementation: apply a move, enumerate legal moves, and convert moves
// to and from algebraic notation. Positions are immutable values, so there
// is no explicit undo; callers keep the positions they want to return to.
type Engine interface {
	// Initial returns the standard starting position.
	Initial() *chess.Position

	// Apply validates mv against pos and returns the resulting position.
	// Returns ErrIllegalMove (wrapped) if mv is not legal at pos.
	Apply(pos *chess.Position, mv *chess.Move) (*chess.Position, error)

	// LegalMoves enumerates the legal continuations of pos.
	LegalMoves(pos *chess.Position) []*chess.Move

	// EncodeSAN renders mv in standard algebraic notation at pos.
	EncodeSAN(pos *chess.Position, mv *chess.Move) string

	// DecodeSAN parses a SAN string at pos. Returns an error wrapping
	// ErrIllegalMove if the text does not name a legal move.
	DecodeSAN(pos *chess.Position, s string) (*chess.Move, error)
}

// StandardEngine implements Engine on top of github.com/notnil/chess.
// This is the production implementation; tests use it directly since it
// has no external state.
type StandardEngine struct{}

// NewStandardEngine returns the notnil/chess backed rules engine.
func NewStandardEngine() *StandardEngine {
	return &StandardEngine{}
}

// Initial returns the standard starting position.
func (e *StandardEngine) Initial() *chess.Position {
	return chess.StartingPosition()
}

// Apply validates mv against pos and returns the resulting position.
func (e *StandardEngine) Apply(pos *chess.Position, mv *chess.Move) (*chess.Position, error) {
	for _, legal := range pos.ValidMoves() {
		if legal.String() == mv.String() {
			return pos.Update(legal), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIllegalMove, mv.String())
}

// LegalMoves enumerates the legal continuations of pos.
func (e *StandardEngine) LegalMoves(pos *chess.Position) []*chess.Move {
	return pos.ValidMoves()
}

// EncodeSAN renders mv in standard algebraic notation at pos.
func (e *StandardEngine) EncodeSAN(pos *chess.Position, mv *chess.Move) string {
	return chess.AlgebraicNotation{}.Encode(pos, mv)
}

// DecodeSAN parses a SAN string at pos.
func (e *StandardEngine) DecodeSAN(pos *chess.Position, s string) (*chess.Move, error) {
	mv, err := chess.AlgebraicNotation{}.Decode(pos, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrIllegalMove, s, err)
	}
	return mv, nil
}
