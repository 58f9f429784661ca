// Package driver implements the checker driver, spec.md's C5: it wires
// together discovery, the parallel HTML extraction fan-out, collector
// reduction, the optional Markdown paragraph bridge, and defect
// classification/emission into the seven phases spec.md §4.5 describes.
//
// Grounded on the original hyperlink's main.rs phase structure and the
// teacher's own internal/parser.extractLinksParallel worker-pool shape,
// generalized from "parse every file, collect all links" into "parse every
// file, fold into a shared collector, fail fast on the first error."
package driver

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/hyperlint/hyperlint/internal/collector"
	"github.com/hyperlint/hyperlint/internal/filter"
	"github.com/hyperlint/hyperlint/internal/fingerprint"
	"github.com/hyperlint/hyperlint/internal/href"
	"github.com/hyperlint/hyperlint/internal/htmlextract"
	"github.com/hyperlint/hyperlint/internal/mdextract"
	"github.com/hyperlint/hyperlint/internal/scanner"
	"github.com/hyperlint/hyperlint/internal/stats"
)

// Options configures one checker run.
type Options struct {
	// BasePath is the rendered site's root directory.
	BasePath string
	// Jobs is the worker count for the parallel fan-out phases. Zero or
	// negative means "saturate the available CPUs" (runtime.GOMAXPROCS(0)),
	// spec.md §6's documented default.
	Jobs int
	// CheckAnchors enables fragment checking and hard/soft classification.
	CheckAnchors bool
	// SourcesPath, if non-empty, is a directory of Markdown sources used to
	// attribute defects back to the paragraph that produced them.
	SourcesPath string
	// UseRadixIndex selects the edge-compressed radix index over the
	// default map index for every worker's BrokenLinksCollector.
	UseRadixIndex bool
	// Include and Exclude are root-relative glob patterns narrowing site
	// discovery (ambient enrichment, off by default).
	Include, Exclude []string
	// Filter, if non-nil, suppresses defects for hrefs matching its glob or
	// regex ignore rules (ambient enrichment, off by default).
	Filter *filter.Filter
	// Stats, if non-nil, records phase timings and counts for --show-stats.
	Stats *stats.Stats
}

// Defect is one broken href reported against a single destination file.
type Defect struct {
	Href     href.Href
	Severity collector.Severity
}

// FileReport groups a destination file's defects, hard failures first, each
// group sorted by href.
type FileReport struct {
	Path string
	Hard []href.Href
	Soft []href.Href
}

// Report is the complete result of a check run.
type Report struct {
	FilesScanned int
	SourceFiles  int
	LinksChecked uint64
	UniqueHrefs  int
	HardCount    int
	SoftCount    int
	FileReports  []FileReport
}

// ExitCode implements spec.md §8 property 6's exit code ladder: 1 if any
// hard failure, else 2 if any soft failure, else 0.
func (r *Report) ExitCode() int {
	switch {
	case r.HardCount > 0:
		return 1
	case r.SoftCount > 0:
		return 2
	default:
		return 0
	}
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) newCollector() *collector.BrokenLinksCollector {
	if o.UseRadixIndex {
		return collector.NewBrokenLinksCollectorRadix()
	}
	return collector.NewBrokenLinksCollector()
}

// Run executes all seven phases of spec.md §4.5 and returns the final
// report. The only errors returned are the fatal configuration/per-file
// kind spec.md §7 describes; defects never surface as errors.
func Run(opts Options) (*Report, error) {
	st := opts.Stats

	// Phase 1: discovery.
	if st != nil {
		st.StartDiscovery()
	}
	result, err := scanner.Discover(scanner.Options{
		Root:    opts.BasePath,
		Include: opts.Include,
		Exclude: opts.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering site: %w", err)
	}
	docs := result.HTML
	if st != nil {
		st.EndDiscovery(len(docs))
	}

	// Phases 2-3: HTML extraction fan-out, then sequential reduction.
	if st != nil {
		st.StartExtraction()
	}
	merged, err := extractAll(docs, opts)
	if err != nil {
		return nil, err
	}

	// Phase 4: pre-seed every discovered regular file's own href as
	// Defined, not just the HTML subset that got parsed. This is what lets
	// a broken link to a non-HTML asset (an image, a download, a
	// stylesheet) resolve correctly even though no extractor ever emits a
	// Defines for it.
	for _, d := range result.All {
		merged.Ingest(collector.DefineEvent(d.Href))
	}

	// Phase 5: optional Markdown paragraph mapping, run after HTML
	// extraction rather than concurrently with it — simpler to reason
	// about and the dominant cost is HTML extraction on large sites, not
	// this side walk.
	var paragraphMap map[fingerprint.FP][]string
	sourceCount := 0
	if opts.SourcesPath != "" {
		paragraphMap, sourceCount, err = buildParagraphMap(opts.SourcesPath, opts.jobs())
		if err != nil {
			return nil, err
		}
	}
	if st != nil {
		st.EndExtraction(int(merged.UsedLinksCount()), merged.HrefCount(), 0, 0)
	}

	// Phase 6: classification and emission.
	if st != nil {
		st.StartClassification()
	}
	report := classify(merged, len(docs), sourceCount, paragraphMap, opts.CheckAnchors, opts.Filter)
	if st != nil {
		st.EndClassification()
	}

	return report, nil
}

// extractAll fans out HTML extraction across opts.jobs() workers, each
// holding a private collector, then sequentially merges them into one. The
// first per-file error seen by any worker is returned; remaining queued
// documents are drained without being extracted, matching spec.md §7's
// "the driver stops the parallel fold" short-circuit.
func extractAll(docs []*scanner.Document, opts Options) (*collector.BrokenLinksCollector, error) {
	numWorkers := opts.jobs()
	if numWorkers > len(docs) {
		numWorkers = len(docs)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan *scanner.Document, len(docs))
	for _, d := range docs {
		jobs <- d
	}
	close(jobs)

	var (
		mu        sync.Mutex
		firstErr  error
		collected []*collector.BrokenLinksCollector
	)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := opts.newCollector()
			for d := range jobs {
				mu.Lock()
				stop := firstErr != nil
				mu.Unlock()
				if stop {
					continue
				}
				err := htmlextract.Extract(d.FilePath, d.Href, d, opts.CheckAnchors, opts.SourcesPath != "", c.Ingest)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
				}
			}
			mu.Lock()
			collected = append(collected, c)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("extracting links: %w", firstErr)
	}

	merged := collected[0]
	for _, c := range collected[1:] {
		merged.Merge(c)
	}
	return merged, nil
}

// buildParagraphMap walks sourcesPath for Markdown files and returns every
// non-zero paragraph fingerprint found, mapped to the list of source files
// it appeared in (a paragraph reused across files maps to all of them, per
// spec.md §3's paragraph bridge invariant).
func buildParagraphMap(sourcesPath string, numWorkers int) (map[fingerprint.FP][]string, int, error) {
	files, err := scanner.DiscoverMarkdownSources(sourcesPath)
	if err != nil {
		return nil, 0, fmt.Errorf("discovering sources: %w", err)
	}
	if len(files) == 0 {
		return nil, 0, nil
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	type partial struct {
		file string
		fps  []fingerprint.FP
	}

	jobs := make(chan string, len(files))
	for _, f := range files {
		jobs <- f
	}
	close(jobs)

	results := make(chan partial, len(files))
	errs := make(chan error, len(files))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				var fps []fingerprint.FP
				err := mdextract.Extract(f, func(fp fingerprint.FP) {
					fps = append(fps, fp)
				})
				if err != nil {
					errs <- err
					continue
				}
				results <- partial{file: f, fps: fps}
			}
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	if err := <-errs; err != nil {
		return nil, 0, fmt.Errorf("extracting markdown paragraphs: %w", err)
	}

	m := make(map[fingerprint.FP][]string)
	for p := range results {
		for _, fp := range p.fps {
			m[fp] = append(m[fp], p.file)
		}
	}
	return m, len(files), nil
}

// classify walks every broken href in merged, routes each witness to its
// destination file (the paragraph's source file(s) if attributable,
// otherwise the witness's own HTML path), and groups the result per
// spec.md §4.5 phase 6 / §5's emission ordering: files sorted by path, hard
// failures before soft within a file, each group sorted by href.
func classify(merged *collector.BrokenLinksCollector, filesScanned, sourceCount int, paragraphMap map[fingerprint.FP][]string, checkAnchors bool, ignoreFilter *filter.Filter) *Report {
	type key struct {
		path     string
		severity collector.Severity
	}
	seen := make(map[key]map[href.Href]bool)
	addDefect := func(path string, sev collector.Severity, h href.Href) {
		k := key{path: path, severity: sev}
		if seen[k] == nil {
			seen[k] = make(map[href.Href]bool)
		}
		seen[k][h] = true
	}

	for _, bl := range merged.BrokenLinks(checkAnchors) {
		if ignoreFilter.ShouldIgnore(string(bl.Href), "") {
			continue
		}
		for _, w := range bl.Witnesses {
			if srcs, ok := paragraphMap[fingerprint.FP(w.Paragraph)]; w.Paragraph != uint64(fingerprint.Zero) && ok {
				for _, src := range srcs {
					addDefect(src, bl.Severity, bl.Href)
				}
				continue
			}
			addDefect(w.Path.Path(), bl.Severity, bl.Href)
		}
	}

	byPath := make(map[string]*FileReport)
	hard, soft := 0, 0
	for k, hrefs := range seen {
		fr, ok := byPath[k.path]
		if !ok {
			fr = &FileReport{Path: k.path}
			byPath[k.path] = fr
		}
		for h := range hrefs {
			switch k.severity {
			case collector.Hard:
				fr.Hard = append(fr.Hard, h)
				hard++
			case collector.Soft:
				fr.Soft = append(fr.Soft, h)
				soft++
			}
		}
	}

	reports := make([]FileReport, 0, len(byPath))
	for _, fr := range byPath {
		sort.Slice(fr.Hard, func(i, j int) bool { return fr.Hard[i] < fr.Hard[j] })
		sort.Slice(fr.Soft, func(i, j int) bool { return fr.Soft[i] < fr.Soft[j] })
		reports = append(reports, *fr)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	return &Report{
		FilesScanned: filesScanned,
		SourceFiles:  sourceCount,
		LinksChecked: merged.UsedLinksCount(),
		UniqueHrefs:  merged.HrefCount(),
		HardCount:    hard,
		SoftCount:    soft,
		FileReports:  reports,
	}
}
