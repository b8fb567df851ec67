package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/pkg/pgn"
	"github.com/courseforge/courseforge/pkg/rules"
	"github.com/courseforge/courseforge/pkg/study"
)

// NewLinesCmd creates the `lines` command.
func NewLinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lines <input.pgn>",
		Short: "Print every line of the study from the first move to its leaf",
		Args:  cobra.ExactArgs(1),
		RunE:  runLines,
	}
}

func runLines(cmd *cobra.Command, args []string) error {
	eng := rules.NewStandardEngine()
	game, err := pgn.DecodeFile(args[0], eng)
	if err != nil {
		return err
	}

	for i, leaf := range game.Leaves() {
		fmt.Printf("%3d: %s\n", i+1, sanLine(leaf, eng))
	}
	return nil
}

// sanLine renders the root->leaf path in numbered SAN.
func sanLine(leaf *study.Node, eng rules.Engine) string {
	var path []*study.Node
	for n := leaf; n != nil && !n.IsRoot(); n = n.Parent() {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	pos := eng.Initial()
	var tokens []string
	for ply, n := range path {
		san := eng.EncodeSAN(pos, n.Move())
		if ply%2 == 0 {
			tokens = append(tokens, fmt.Sprintf("%d. %s", ply/2+1, san))
		} else {
			tokens = append(tokens, san)
		}
		next, err := eng.Apply(pos, n.Move())
		if err != nil {
			break
		}
		pos = next
	}
	return strings.Join(tokens, " ")
}
