package pgn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notnil/chess"

	"github.com/courseforge/courseforge/pkg/rules"
	"github.com/courseforge/courseforge/pkg/study"
)

// sevenTagRoster is the standard PGN export ordering for the well-known
// tags; remaining tags follow sorted by key so output is deterministic.
var sevenTagRoster = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// Encode serializes a game tree to PGN export text: ordered tag pairs, a
// blank line, then the movetext with comments, NAGs and nested variations.
// Encoding the same tree twice yields byte-identical text.
func Encode(g *study.Game, eng rules.Engine) (string, error) {
	var sb strings.Builder

	headers := g.Headers()
	emitted := make(map[string]bool, len(headers))
	for _, key := range sevenTagRoster {
		if v, ok := headers[key]; ok {
			fmt.Fprintf(&sb, "[%s \"%s\"]\n", key, escapeTagValue(v))
			emitted[key] = true
		}
	}
	rest := make([]string, 0, len(headers))
	for key := range headers {
		if !emitted[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", key, escapeTagValue(headers[key]))
	}
	sb.WriteString("\n")

	var tokens []string
	if c := g.Root().Comment(); c != "" {
		tokens = append(tokens, "{"+c+"}")
	}
	tokens, err := writeLine(tokens, g.Root(), eng.Initial(), eng, 0, true)
	if err != nil {
		return "", err
	}
	tokens = append(tokens, g.HeaderOr("Result", "*"))

	sb.WriteString(strings.Join(tokens, " "))
	return sb.String(), nil
}

// writeLine renders the line below parent: the main-line move, then each
// sideline in parentheses, then the main line's continuation. ply is
// 0-based from the initial position; numbered reports whether the next
// black move needs a "N..." indicator.
func writeLine(tokens []string, parent *study.Node, pos *chess.Position, eng rules.Engine, ply int, numbered bool) ([]string, error) {
	for parent.NumChildren() > 0 {
		children := parent.Children()
		main := children[0]

		tokens = appendMove(tokens, main, pos, eng, ply, numbered)
		numbered = false
		if annotated := appendAnnotations(&tokens, main); annotated {
			numbered = true
		}

		for _, side := range children[1:] {
			tokens = append(tokens, "(")
			tokens = appendMove(tokens, side, pos, eng, ply, true)
			sideAnnotated := appendAnnotations(&tokens, side)
			sidePos, err := eng.Apply(pos, side.Move())
			if err != nil {
				return nil, fmt.Errorf("encoding variation at ply %d: %w", ply, err)
			}
			tokens, err = writeLine(tokens, side, sidePos, eng, ply+1, sideAnnotated)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, ")")
			numbered = true
		}

		next, err := eng.Apply(pos, main.Move())
		if err != nil {
			return nil, fmt.Errorf("encoding main line at ply %d: %w", ply, err)
		}
		pos = next
		parent = main
		ply++
	}
	return tokens, nil
}

// appendMove emits the move-number indicator (when due) and the SAN token.
func appendMove(tokens []string, n *study.Node, pos *chess.Position, eng rules.Engine, ply int, numbered bool) []string {
	moveNumber := ply/2 + 1
	if ply%2 == 0 {
		tokens = append(tokens, fmt.Sprintf("%d.", moveNumber))
	} else if numbered {
		tokens = append(tokens, fmt.Sprintf("%d...", moveNumber))
	}
	return append(tokens, eng.EncodeSAN(pos, n.Move()))
}

// appendAnnotations emits NAG and comment tokens for n, reporting whether
// anything was written.
func appendAnnotations(tokens *[]string, n *study.Node) bool {
	wrote := false
	for _, nag := range n.NAGs() {
		*tokens = append(*tokens, fmt.Sprintf("$%d", nag))
		wrote = true
	}
	if c := n.Comment(); c != "" {
		*tokens = append(*tokens, "{"+c+"}")
		wrote = true
	}
	return wrote
}

func escapeTagValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
