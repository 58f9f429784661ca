// Package config handles loading configuration from .hyperlintrc.yaml files.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the default configuration file name.
const DefaultConfigFileName = ".hyperlintrc.yaml"

// Config represents the complete configuration structure, mirroring the
// check command's flags (spec.md §6.1) so a project can pin its defaults
// without repeating them on every invocation.
type Config struct {
	// Scan holds site-discovery settings.
	Scan ScanConfig `yaml:"scan"`

	// Check holds checker behavior settings.
	Check CheckConfig `yaml:"check"`

	// Output holds output preferences.
	Output OutputConfig `yaml:"output"`
}

// ScanConfig holds scanner settings for site discovery.
type ScanConfig struct {
	// Include specifies glob patterns, matched against each file's path
	// relative to the site root, for files to include.
	// If empty, every discovered file is included.
	Include []string `yaml:"include"`

	// Exclude specifies glob patterns, matched against each file's path
	// relative to the site root, for files to exclude.
	// Example: ["drafts/**", "_internal/**"]
	Exclude []string `yaml:"exclude"`
}

// CheckConfig holds checker behavior settings.
type CheckConfig struct {
	// Jobs is the number of parallel extraction workers.
	// Default: GOMAXPROCS (set at runtime if 0).
	Jobs int `yaml:"jobs"`

	// CheckAnchors enables fragment checking, classifying hard vs. soft
	// failures per spec.md §4.4.
	CheckAnchors bool `yaml:"checkAnchors"`

	// SourcesPath, if set, is a directory of Markdown sources used to
	// attribute broken links back to the paragraph that produced them.
	SourcesPath string `yaml:"sourcesPath"`

	// RadixIndex selects the edge-compressed radix index over the default
	// map index.
	RadixIndex bool `yaml:"radixIndex"`
}

// OutputConfig holds output preferences for the check command.
type OutputConfig struct {
	// Format specifies the default output format.
	// Valid: text, json, yaml, xml, junit, markdown. Empty means text to stdout.
	Format string `yaml:"format"`

	// GithubActions emits one ::error workflow-command annotation per
	// defective file alongside the normal text report.
	GithubActions bool `yaml:"githubActions"`

	// ShowStats prints timing and memory statistics after the run.
	ShowStats bool `yaml:"showStats"`
}

// validOutputFormats lists all valid output format values.
var validOutputFormats = []string{"text", "json", "yaml", "xml", "junit", "markdown"}

// Load reads configuration from .hyperlintrc.yaml in the current directory.
// Returns an empty config if the file doesn't exist (not an error).
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFileName)
}

// LoadFrom reads configuration from a specific path. Returns an empty config
// if the file doesn't exist; returns an error only if it exists but cannot
// be parsed.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindAndLoad searches for a config file starting from startDir and walking
// up to parent directories until it finds one or reaches root.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, DefaultConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return LoadFrom(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Validate checks the configuration for errors, accumulating every problem
// found rather than stopping at the first one so a misconfigured project
// gets one complete report instead of a fix-rerun-fix loop.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Check.Jobs < 0 {
		errs = multierror.Append(errs, errors.New("check.jobs must be >= 0"))
	}

	if c.Output.Format != "" && !slices.Contains(validOutputFormats, c.Output.Format) {
		errs = multierror.Append(errs, errors.New("invalid output.format: valid formats are "+strings.Join(validOutputFormats, ", ")))
	}

	for _, p := range c.Scan.Include {
		if _, err := glob.Compile(p); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	for _, p := range c.Scan.Exclude {
		if _, err := glob.Compile(p); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// IsEmpty returns true if the config has no settings defined.
func (c *Config) IsEmpty() bool {
	return len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		c.Check.Jobs == 0 &&
		!c.Check.CheckAnchors &&
		c.Check.SourcesPath == "" &&
		!c.Check.RadixIndex &&
		c.Output.Format == "" &&
		!c.Output.GithubActions &&
		!c.Output.ShowStats
}

// Merge combines other into c: scan patterns are additive, everything else
// is overridden by other when set. Used to layer CLI flags over a loaded
// config file.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)

	if other.Check.Jobs > 0 {
		c.Check.Jobs = other.Check.Jobs
	}
	if other.Check.CheckAnchors {
		c.Check.CheckAnchors = true
	}
	if other.Check.SourcesPath != "" {
		c.Check.SourcesPath = other.Check.SourcesPath
	}
	if other.Check.RadixIndex {
		c.Check.RadixIndex = true
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.GithubActions {
		c.Output.GithubActions = true
	}
	if other.Output.ShowStats {
		c.Output.ShowStats = true
	}
}
