package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hyperlint/hyperlint/internal/driver"
	"github.com/hyperlint/hyperlint/internal/ui"
)

var (
	interactiveJobs         int
	interactiveCheckAnchors bool
	interactiveSources      string
	interactiveRadixIndex   bool
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive <base_path>",
	Short: "Launch the interactive TUI for browsing broken links and anchors",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		opts := driver.Options{
			BasePath:      args[0],
			Jobs:          interactiveJobs,
			CheckAnchors:  interactiveCheckAnchors,
			SourcesPath:   interactiveSources,
			UseRadixIndex: interactiveRadixIndex,
		}

		p := tea.NewProgram(ui.New(opts))
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running interactive mode: %v\n", err)
			os.Exit(1) //nolint:revive // deep-exit is acceptable for CLI entry points
		}
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().IntVarP(&interactiveJobs, "jobs", "j", 0, "Worker count (default: saturate CPU)")
	interactiveCmd.Flags().BoolVar(&interactiveCheckAnchors, "check-anchors", false, "Also check fragment identifiers")
	interactiveCmd.Flags().StringVar(&interactiveSources, "sources", "", "Directory of Markdown sources for paragraph attribution")
	interactiveCmd.Flags().BoolVar(&interactiveRadixIndex, "radix-index", false, "Use the radix-trie href index instead of the map index")
}
