package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperlint/hyperlint/internal/fingerprint"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hyperlint version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("hyperlint %s (fingerprint algorithm v%d)\n", buildVersion, fingerprint.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
