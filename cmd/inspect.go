package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/pkg/export"
	"github.com/courseforge/courseforge/pkg/pgn"
	"github.com/courseforge/courseforge/pkg/rules"
	"github.com/courseforge/courseforge/pkg/study"
)

var inspectMarker string

// NewInspectCmd creates the `inspect` command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <input.pgn>",
		Short: "Show a study's headers, tree shape and predicted split point",
		Long: `Show the headers and tree shape of a study PGN, plus the split point and
chapter names a split run would produce. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().StringVar(&inspectMarker, "marker", export.DefaultMarker, "Comment token marking an explicit split point")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	eng := rules.NewStandardEngine()
	game, err := pgn.DecodeFile(args[0], eng)
	if err != nil {
		return err
	}

	headers := game.Headers()
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, headers[k])
	}
	w.Flush()

	mainLine := game.MainLine()
	fmt.Printf("\nNodes: %d  Main line: %d plies  Lines: %d\n",
		game.NumNodes()-1, len(mainLine)-1, len(game.Leaves()))

	split := export.Locator{Marker: inspectMarker}.Locate(game)
	if split == nil {
		fmt.Printf("\n%s No split point: the study has no moves\n", color.YellowString("!"))
		return nil
	}

	fmt.Printf("\nSplit point: %s\n", color.CyanString(describeNode(game, split, eng)))
	for i, name := range export.BranchNames(split) {
		fmt.Printf("  %s  %s\n", export.Filename(i, name)+".pgn", name)
	}
	return nil
}

// describeNode renders a node as "move N: SAN", or "initial position" for
// the root.
func describeNode(game *study.Game, node *study.Node, eng rules.Engine) string {
	if node.IsRoot() {
		return "initial position"
	}
	cur := study.NewCursor(game, eng)
	if err := cur.Goto(node.Parent()); err != nil {
		return node.Move().String()
	}
	ply := 0
	for n := node.Parent(); n != nil && !n.IsRoot(); n = n.Parent() {
		ply++
	}
	san := eng.EncodeSAN(cur.Position(), node.Move())
	if ply%2 == 0 {
		return fmt.Sprintf("%d. %s", ply/2+1, san)
	}
	return fmt.Sprintf("%d... %s", ply/2+1, san)
}
