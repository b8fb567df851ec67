package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/pkg/export"
	"github.com/courseforge/courseforge/pkg/pgn"
	"github.com/courseforge/courseforge/pkg/rules"
)

var (
	splitOutputDir string
	splitMarker    string
	splitDryRun    bool
)

// NewSplitCmd creates the `split` command.
func NewSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <input.pgn>",
		Short: "Split a study PGN into one chapter file per variation",
		Long: `Split a study PGN into separate chapter files, one per branch of the
split point. The main-line branch becomes chapter 00, sidelines follow in
their original order.

The split point is chosen by, in priority order: a move whose comment
contains the marker token, the first main-line move with sidelines, or the
first move of the game.

Examples:
  # Split into ./output
  courseforge split study.pgn

  # Split into a specific directory with a custom marker
  courseforge split study.pgn -o chapters --marker "[CUT]"

  # Preview the chapters without writing anything
  courseforge split study.pgn --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runSplit,
	}

	cmd.Flags().StringVarP(&splitOutputDir, "output-dir", "o", "output", "Output directory for chapter PGNs")
	cmd.Flags().StringVar(&splitMarker, "marker", export.DefaultMarker, "Comment token marking an explicit split point")
	cmd.Flags().BoolVar(&splitDryRun, "dry-run", false, "Show the chapters that would be written without writing them")

	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := LoadConfig(filepath.Dir(input))
	if err != nil {
		return err
	}
	outputDir := splitOutputDir
	if !cmd.Flags().Changed("output-dir") && cfg.OutputDir != "" {
		outputDir = cfg.OutputDir
	}
	marker := splitMarker
	if !cmd.Flags().Changed("marker") && cfg.Marker != "" {
		marker = cfg.Marker
	}

	eng := rules.NewStandardEngine()
	game, err := pgn.DecodeFile(input, eng)
	if err != nil {
		return err
	}
	for key, value := range cfg.Headers {
		game.SetHeader(key, value)
	}

	split := export.Locator{Marker: marker}.Locate(game)
	if split == nil {
		fmt.Printf("%s Nothing to export: the study has no moves\n", color.YellowString("!"))
		return nil
	}

	if splitDryRun {
		names := export.BranchNames(split)
		fmt.Printf("Would write %d chapters to %s:\n", len(names), outputDir)
		for i, name := range names {
			fmt.Printf("  %s  %s\n", color.CyanString(export.Filename(i, name)+".pgn"), name)
		}
		return nil
	}

	sink := &export.DirSink{Dir: outputDir, Engine: eng}
	outcomes, err := export.NewExporter(eng, sink).Export(game, split)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Printf("%s No branches at the split point, nothing to export\n", color.YellowString("!"))
		return nil
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Printf("%s %s: %v\n", color.RedString("✗"), o.DisplayName, o.Err)
			continue
		}
		fmt.Printf("%s Created chapter: %s -> %s\n", color.GreenString("✓"), o.DisplayName, o.Destination)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d chapters failed to write", failed, len(outcomes))
	}
	fmt.Printf("\n%s Exported %d chapters to %s\n", color.GreenString("✓"), len(outcomes), outputDir)
	return nil
}
