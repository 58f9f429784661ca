// Package scanner discovers the files a check run operates on: the HTML
// site tree being checked, and (optionally) the Markdown sources it was
// built from. It is adapted from the teacher's extension-based directory
// walker, generalized from "find files of these types" into "find the
// site's documents and compute each one's href, failing fast on the two
// conditions the original hyperlink treats as fatal: a symlink inside the
// site root, and two files mapping to the same href."
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/hyperlint/hyperlint/internal/href"
)

// Document is one discovered regular file: its filesystem path and the href
// it serves at. It satisfies collector.Doc (and arena.WitnessDoc) so it can
// be carried directly as a Uses event's witness.
type Document struct {
	FilePath string
	Href     href.Href
}

// Path returns the document's filesystem path, satisfying collector.Doc.
func (d *Document) Path() string { return d.FilePath }

// Options controls site discovery.
type Options struct {
	// Root is the site directory to scan.
	Root string
	// Include, if non-empty, restricts discovery to files whose root-
	// relative path matches at least one glob pattern.
	Include []string
	// Exclude removes files whose root-relative path matches any glob
	// pattern, applied after Include.
	Exclude []string
}

// Result is the outcome of site discovery: the complete set of regular
// files under the root (All) and the subset of those that are HTML
// documents to actually parse (HTML). The split matters because a link can
// legitimately point at a non-HTML asset — an image, a stylesheet, a
// download — and that href still has to be known-good even though nothing
// ever extracts links or anchors out of it.
type Result struct {
	All  []*Document
	HTML []*Document
}

// Discover walks opts.Root for every regular file, computes each one's
// href, and returns them sorted by path for deterministic iteration order
// downstream, split into the full set (for pre-seeding every document's own
// href as defined) and the ".html"/".htm" subset (for extraction). It fails
// fast — matching the original's WalkDir::new(root).follow_links(false)
// plus explicit symlink rejection — on a symlink anywhere under the root,
// and on two files resolving to the same href, since the collector's
// per-href state would silently conflate them otherwise.
func Discover(opts Options) (*Result, error) {
	paths, err := findRegularFiles(opts.Root)
	if err != nil {
		return nil, err
	}

	if len(opts.Include) > 0 {
		paths, err = filterByGlobPatterns(paths, opts.Root, opts.Include, true)
		if err != nil {
			return nil, err
		}
	}
	if len(opts.Exclude) > 0 {
		paths, err = filterByGlobPatterns(paths, opts.Root, opts.Exclude, false)
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(paths)

	seen := make(map[href.Href]string, len(paths))
	all := make([]*Document, 0, len(paths))
	var htmlDocs []*Document
	for _, p := range paths {
		h, err := href.FromDocument(opts.Root, p)
		if err != nil {
			return nil, fmt.Errorf("computing href for %s: %w", p, err)
		}
		// The duplicate check compares hrefs with a trailing ".html"/".htm"
		// removed, so "x.html" and "x/index.html" count as the same href.
		key := href.Href(strings.TrimSuffix(strings.TrimSuffix(string(h), ".html"), ".htm"))
		if prior, ok := seen[key]; ok {
			return nil, fmt.Errorf("%s and %s both resolve to href %q", prior, p, key)
		}
		seen[key] = p
		doc := &Document{FilePath: p, Href: h}
		all = append(all, doc)
		if isHTMLPath(p) {
			htmlDocs = append(htmlDocs, doc)
		}
	}

	return &Result{All: all, HTML: htmlDocs}, nil
}

func isHTMLPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// DiscoverMarkdownSources walks root for Markdown files ("*.md", "*.mdx",
// "*.markdown"), used by the optional paragraph-source mapping phase. It
// has no href or symlink concerns of its own — the site and its sources
// are different trees — so it is a plain recursive file listing.
func DiscoverMarkdownSources(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".md", ".mdx", ".markdown":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func findRegularFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		info, lerr := d.Info()
		if lerr != nil {
			return lerr
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("symlink found at %s: site trees with symlinks are not supported", path)
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// filterByGlobPatterns filters files by glob patterns matched against their
// root-relative, slash-normalized path.
func filterByGlobPatterns(files []string, root string, patterns []string, include bool) ([]string, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling glob pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}

	result := make([]string, 0, len(files))
	for _, f := range files {
		relPath, err := filepath.Rel(root, f)
		if err != nil {
			relPath = f
		}
		relPath = filepath.ToSlash(relPath)

		matches := matchesAnyGlob(relPath, compiled)
		if include && matches {
			result = append(result, f)
		} else if !include && !matches {
			result = append(result, f)
		}
	}
	return result, nil
}

func matchesAnyGlob(path string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
