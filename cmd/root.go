package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var buildVersion = "dev"

// SetVersion records the version string main.go was built with, so it can
// be surfaced by `hyperlint version` and `hyperlint --version`.
func SetVersion(v string) {
	buildVersion = v
	rootCmd.Version = v
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hyperlint",
	Short: "A local-filesystem link and anchor checker for rendered static sites",
	Long: `hyperlint scans a rendered static site for broken links and, with
--check-anchors, broken fragment identifiers. It never makes a network
request: every href is resolved against the files discovery found.

When pointed at the Markdown sources a site was built from (--sources),
hyperlint attributes each defect back to the paragraph that produced it,
so a report reads in terms of the source a contributor actually edits.

Examples:
  hyperlint check ./public                  # Scan a rendered site
  hyperlint check ./public --check-anchors  # Also check fragments
  hyperlint check ./public --sources ./docs # Attribute defects to Markdown
  hyperlint interactive ./public            # Launch the interactive TUI`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
