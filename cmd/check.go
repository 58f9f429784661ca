package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperlint/hyperlint/internal/config"
	"github.com/hyperlint/hyperlint/internal/driver"
	"github.com/hyperlint/hyperlint/internal/filter"
	"github.com/hyperlint/hyperlint/internal/output"
	"github.com/hyperlint/hyperlint/internal/stats"
)

// Flag variables for the check command.
var (
	checkJobs          int
	checkAnchors       bool
	checkSources       string
	checkRadixIndex    bool
	checkGithubActions bool
	checkShowStats     bool
	checkFormat        string
	checkOutputFile    string
	checkInclude       []string
	checkExclude       []string
	checkIgnorePattern []string
	checkIgnoreRegex   []string
	checkConfigPath    string
	checkNoConfig      bool
)

var checkCmd = &cobra.Command{
	Use:   "check <base_path>",
	Short: "Check a rendered site for broken links and anchors",
	Long: `Check scans base_path, a rendered static site, and reports every href
that does not resolve to a file discovery actually found. With
--check-anchors it also resolves fragment identifiers, distinguishing a
hard failure (destination file missing) from a soft one (destination
exists, fragment doesn't).

Exit codes:
  0 - clean
  1 - at least one hard (bad link) failure
  2 - only soft (bad anchor) failures
  non-zero with a message - configuration or I/O failure

Examples:
  hyperlint check ./public
  hyperlint check ./public --check-anchors
  hyperlint check ./public --sources ./docs --format json
  hyperlint check ./public --github-actions`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "Worker count (default: saturate CPU)")
	checkCmd.Flags().BoolVar(&checkAnchors, "check-anchors", false, "Also check fragment identifiers")
	checkCmd.Flags().StringVar(&checkSources, "sources", "", "Directory of Markdown sources for paragraph attribution")
	checkCmd.Flags().BoolVar(&checkRadixIndex, "radix-index", false, "Use the radix-trie href index instead of the map index")
	checkCmd.Flags().BoolVar(&checkGithubActions, "github-actions", false, "Emit CI-annotation lines to stdout")
	checkCmd.Flags().BoolVar(&checkShowStats, "show-stats", false, "Print phase timing and memory statistics")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "Output format: text, json, yaml, xml, junit, markdown")
	checkCmd.Flags().StringVarP(&checkOutputFile, "output", "o", "", "Write the report to a file instead of stdout")
	checkCmd.Flags().StringSliceVar(&checkInclude, "include", nil, "Only scan paths matching these glob patterns")
	checkCmd.Flags().StringSliceVar(&checkExclude, "exclude", nil, "Skip paths matching these glob patterns")
	checkCmd.Flags().StringSliceVar(&checkIgnorePattern, "ignore-pattern", nil, "Glob patterns of hrefs to ignore")
	checkCmd.Flags().StringSliceVar(&checkIgnoreRegex, "ignore-regex", nil, "Regex patterns of hrefs to ignore")
	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "c", "", "Path to a .hyperlintrc.yaml config file")
	checkCmd.Flags().BoolVar(&checkNoConfig, "no-config", false, "Skip loading a config file")
}

func runCheck(_ *cobra.Command, args []string) error {
	basePath := args[0]

	cfg, err := loadCheckConfig()
	if err != nil {
		return err
	}

	ignoreFilter, err := filter.New(filter.Config{
		GlobPatterns:  checkIgnorePattern,
		RegexPatterns: checkIgnoreRegex,
	})
	if err != nil {
		return fmt.Errorf("building ignore filter: %w", err)
	}

	format := checkFormat
	if format == "" {
		format = cfg.Output.Format
	}
	if format != "" && !output.IsValidFormat(format) {
		return fmt.Errorf("invalid output format %q", format)
	}

	st := stats.New()

	opts := driver.Options{
		BasePath:      basePath,
		Jobs:          effectiveInt(checkJobs, cfg.Check.Jobs),
		CheckAnchors:  checkAnchors || cfg.Check.CheckAnchors,
		SourcesPath:   effectiveString(checkSources, cfg.Check.SourcesPath),
		UseRadixIndex: checkRadixIndex || cfg.Check.RadixIndex,
		Include:       append(append([]string{}, cfg.Scan.Include...), checkInclude...),
		Exclude:       append(append([]string{}, cfg.Scan.Exclude...), checkExclude...),
		Filter:        ignoreFilter,
		Stats:         st,
	}

	report, err := driver.Run(opts)
	if err != nil {
		return fmt.Errorf("checking %s: %w", basePath, err)
	}

	out := &output.Report{
		GeneratedAt:   time.Now(),
		Driver:        report,
		Ignored:       ignoreFilter.IgnoredHrefs(),
		GithubActions: checkGithubActions || cfg.Output.GithubActions,
	}

	if err := emitReport(out, format); err != nil {
		return err
	}

	if checkShowStats || cfg.Output.ShowStats {
		fmt.Println(st.String())
	}

	os.Exit(report.ExitCode())
	return nil
}

func loadCheckConfig() (*config.Config, error) {
	if checkNoConfig {
		return &config.Config{}, nil
	}

	var cfg *config.Config
	var err error
	if checkConfigPath != "" {
		cfg, err = config.LoadFrom(checkConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func emitReport(out *output.Report, format string) error {
	if checkOutputFile != "" {
		return output.WriteToFile(out, checkOutputFile)
	}

	f := output.Format(format)
	data, err := output.FormatReport(out, f)
	if err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}
	if len(data) > 0 {
		fmt.Println(string(data))
	}
	return nil
}

func effectiveInt(cliValue, configValue int) int {
	if cliValue != 0 {
		return cliValue
	}
	return configValue
}

func effectiveString(cliValue, configValue string) string {
	if cliValue != "" {
		return cliValue
	}
	return configValue
}
