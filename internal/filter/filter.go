// Package filter provides href filtering based on glob and regex patterns,
// an ambient enrichment alongside the scanner's own include/exclude globs:
// this one is checked once per broken href during classification, against
// the href the failing links resolved to, letting a project silence
// known-bad destinations site discovery itself has no way to express.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// IgnoreReason describes why an href was ignored.
type IgnoreReason struct {
	Type string // "pattern" or "regex"
	Rule string // The rule that matched
	Href string // The href that was ignored
	File string // Source file
}

// Filter determines which hrefs should be skipped during checking.
type Filter struct {
	globPatterns  []compiledGlob
	regexPatterns []compiledRegex

	ignored []IgnoreReason
}

type compiledGlob struct {
	pattern  glob.Glob
	original string
}

type compiledRegex struct {
	pattern  *regexp.Regexp
	original string
}

// Config holds filter configuration.
type Config struct {
	GlobPatterns  []string // Glob patterns (e.g., "/drafts/**")
	RegexPatterns []string // Regex patterns (e.g., "^/_internal/")
}

// New creates a new Filter from the given configuration. Patterns are
// compiled once. Returns an error if any pattern fails to compile.
func New(cfg Config) (*Filter, error) {
	f := &Filter{}

	for _, p := range cfg.GlobPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		f.globPatterns = append(f.globPatterns, compiledGlob{pattern: g, original: p})
	}

	for _, p := range cfg.RegexPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", p, err)
		}
		f.regexPatterns = append(f.regexPatterns, compiledRegex{pattern: r, original: p})
	}

	return f, nil
}

// ShouldIgnore checks whether href should be skipped. If it matches any
// rule, it records the reason and returns true. Glob patterns are checked
// before regex patterns.
func (f *Filter) ShouldIgnore(href, file string) bool {
	if f == nil {
		return false
	}

	if reason, ok := f.matchesGlob(href); ok {
		f.ignored = append(f.ignored, IgnoreReason{Type: "pattern", Rule: reason, Href: href, File: file})
		return true
	}

	if reason, ok := f.matchesRegex(href); ok {
		f.ignored = append(f.ignored, IgnoreReason{Type: "regex", Rule: reason, Href: href, File: file})
		return true
	}

	return false
}

func (f *Filter) matchesGlob(href string) (string, bool) {
	for _, g := range f.globPatterns {
		if g.pattern.Match(href) {
			return g.original, true
		}
	}
	return "", false
}

func (f *Filter) matchesRegex(href string) (string, bool) {
	for _, r := range f.regexPatterns {
		if r.pattern.MatchString(href) {
			return r.original, true
		}
	}
	return "", false
}

// IgnoredCount returns the number of hrefs that were ignored.
func (f *Filter) IgnoredCount() int {
	if f == nil {
		return 0
	}
	return len(f.ignored)
}

// IgnoredHrefs returns all ignored hrefs with their reasons.
func (f *Filter) IgnoredHrefs() []IgnoreReason {
	if f == nil {
		return nil
	}
	return f.ignored
}

// Reset clears the list of ignored hrefs.
func (f *Filter) Reset() {
	if f != nil {
		f.ignored = f.ignored[:0]
	}
}

// HasRules returns true if the filter has any rules defined.
func (f *Filter) HasRules() bool {
	if f == nil {
		return false
	}
	return len(f.globPatterns) > 0 || len(f.regexPatterns) > 0
}

// Stats returns a summary of the filter's rules.
func (f *Filter) Stats() (globs, regexes int) {
	if f == nil {
		return 0, 0
	}
	return len(f.globPatterns), len(f.regexPatterns)
}
