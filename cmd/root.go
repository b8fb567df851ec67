package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootVerbose bool

// NewRootCmd builds the courseforge root command with all subcommands
// attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "courseforge",
		Short: "Build chess study trees and export them as per-variation chapter PGNs",
		Long: `courseforge splits a chess study PGN into standalone chapter files, one per
variation branching off the split point, ready for import into a
spaced-repetition chess platform.

The split point is the first main-line move carrying sidelines, or any move
whose comment contains the [SPLIT_CHAPTERS] marker.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootVerbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(NewSplitCmd())
	root.AddCommand(NewInspectCmd())
	root.AddCommand(NewLinesCmd())
	root.AddCommand(NewVersionCmd())

	return root
}
