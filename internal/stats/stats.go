// Package stats provides performance tracking and statistics for a check
// run. It captures timing for the driver's three phases (discovery,
// extraction, classification), memory usage, and throughput, surfaced via
// --show-stats.
package stats

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Stats holds performance metrics for a check run.
type Stats struct {
	// Timing for each phase
	DiscoveryStart      time.Time
	DiscoveryEnd        time.Time
	ExtractionStart     time.Time
	ExtractionEnd       time.Time
	ClassificationStart time.Time
	ClassificationEnd   time.Time

	// Counts
	FilesScanned int
	LinksFound   int // links checked (used-links count, including already-defined ones)
	UniqueHrefs  int // distinct hrefs tracked
	Duplicates   int
	Ignored      int

	// Memory stats (captured at end)
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// New creates a new Stats instance.
func New() *Stats {
	return &Stats{}
}

// StartDiscovery marks the beginning of the site discovery phase.
func (s *Stats) StartDiscovery() {
	s.DiscoveryStart = time.Now()
}

// EndDiscovery marks the end of the site discovery phase.
func (s *Stats) EndDiscovery(filesFound int) {
	s.DiscoveryEnd = time.Now()
	s.FilesScanned = filesFound
}

// StartExtraction marks the beginning of the HTML/Markdown extraction
// phase.
func (s *Stats) StartExtraction() {
	s.ExtractionStart = time.Now()
}

// EndExtraction marks the end of the extraction phase.
func (s *Stats) EndExtraction(linksChecked, uniqueHrefs, duplicates, ignored int) {
	s.ExtractionEnd = time.Now()
	s.LinksFound = linksChecked
	s.UniqueHrefs = uniqueHrefs
	s.Duplicates = duplicates
	s.Ignored = ignored
}

// StartClassification marks the beginning of the classification phase.
func (s *Stats) StartClassification() {
	s.ClassificationStart = time.Now()
}

// EndClassification marks the end of the classification phase and captures
// memory stats.
func (s *Stats) EndClassification() {
	s.ClassificationEnd = time.Now()
	s.captureMemoryStats()
}

// captureMemoryStats reads current memory statistics from runtime.
func (s *Stats) captureMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.HeapAlloc = m.HeapAlloc
	s.TotalAlloc = m.TotalAlloc
	s.NumGC = m.NumGC
	s.NumGoroutine = runtime.NumGoroutine()
}

// DiscoveryDuration returns the time spent discovering the site.
func (s *Stats) DiscoveryDuration() time.Duration {
	if s.DiscoveryEnd.IsZero() {
		return 0
	}
	return s.DiscoveryEnd.Sub(s.DiscoveryStart)
}

// ExtractionDuration returns the time spent extracting links.
func (s *Stats) ExtractionDuration() time.Duration {
	if s.ExtractionEnd.IsZero() {
		return 0
	}
	return s.ExtractionEnd.Sub(s.ExtractionStart)
}

// ClassificationDuration returns the time spent classifying defects.
func (s *Stats) ClassificationDuration() time.Duration {
	if s.ClassificationEnd.IsZero() {
		return 0
	}
	return s.ClassificationEnd.Sub(s.ClassificationStart)
}

// TotalDuration returns the total time from discovery start to
// classification end.
func (s *Stats) TotalDuration() time.Duration {
	if s.ClassificationEnd.IsZero() {
		return 0
	}
	return s.ClassificationEnd.Sub(s.DiscoveryStart)
}

// LinksPerSecond returns the throughput of the classification phase.
func (s *Stats) LinksPerSecond() float64 {
	dur := s.ClassificationDuration()
	if dur == 0 || s.UniqueHrefs == 0 {
		return 0
	}
	return float64(s.UniqueHrefs) / dur.Seconds()
}

// AvgClassificationTime returns the average classification time per href.
func (s *Stats) AvgClassificationTime() time.Duration {
	dur := s.ClassificationDuration()
	if s.UniqueHrefs == 0 {
		return 0
	}
	return dur / time.Duration(s.UniqueHrefs)
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), d.Seconds()-float64(int(d.Minutes())*60))
}

// FormatBytes formats bytes for human-readable display.
func FormatBytes(bytes uint64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// String returns a formatted string representation of the stats.
func (s *Stats) String() string {
	var b strings.Builder

	total := s.TotalDuration()

	b.WriteString("\n=== Performance Statistics ===\n\n")

	// Timing breakdown
	b.WriteString("Timing:\n")
	b.WriteString(fmt.Sprintf("  Discovery:     %8s", FormatDuration(s.DiscoveryDuration())))
	if total > 0 {
		b.WriteString(fmt.Sprintf("  (%4.1f%%)", float64(s.DiscoveryDuration())/float64(total)*100))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  Extraction:    %8s", FormatDuration(s.ExtractionDuration())))
	if total > 0 {
		b.WriteString(fmt.Sprintf("  (%4.1f%%)", float64(s.ExtractionDuration())/float64(total)*100))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  Classification:%8s", FormatDuration(s.ClassificationDuration())))
	if total > 0 {
		b.WriteString(fmt.Sprintf("  (%4.1f%%)", float64(s.ClassificationDuration())/float64(total)*100))
	}
	b.WriteString("\n")

	b.WriteString("  ─────────────────────────\n")
	b.WriteString(fmt.Sprintf("  Total:         %8s\n", FormatDuration(total)))

	// Throughput
	b.WriteString("\nThroughput:\n")
	b.WriteString(fmt.Sprintf("  Files scanned:     %5d\n", s.FilesScanned))
	b.WriteString(fmt.Sprintf("  Links checked:     %5d\n", s.LinksFound))
	b.WriteString(fmt.Sprintf("  Unique hrefs:      %5d\n", s.UniqueHrefs))
	if s.Duplicates > 0 {
		b.WriteString(fmt.Sprintf("  Duplicates:        %5d\n", s.Duplicates))
	}
	if s.Ignored > 0 {
		b.WriteString(fmt.Sprintf("  Ignored:           %5d\n", s.Ignored))
	}
	b.WriteString(fmt.Sprintf("  Links/second:      %5.1f\n", s.LinksPerSecond()))
	b.WriteString(fmt.Sprintf("  Avg classification: %4s\n", FormatDuration(s.AvgClassificationTime())))

	// Memory
	b.WriteString("\nMemory:\n")
	b.WriteString(fmt.Sprintf("  Heap in use:   %8s\n", FormatBytes(s.HeapAlloc)))
	b.WriteString(fmt.Sprintf("  Total alloc:   %8s\n", FormatBytes(s.TotalAlloc)))
	b.WriteString(fmt.Sprintf("  GC cycles:     %8d\n", s.NumGC))
	b.WriteString(fmt.Sprintf("  Goroutines:    %8d\n", s.NumGoroutine))

	return b.String()
}

// ToJSON returns a map suitable for JSON serialization.
func (s *Stats) ToJSON() map[string]any {
	return map[string]any{
		"timing": map[string]any{
			"discovery_ms":      s.DiscoveryDuration().Milliseconds(),
			"extraction_ms":     s.ExtractionDuration().Milliseconds(),
			"classification_ms": s.ClassificationDuration().Milliseconds(),
			"total_ms":          s.TotalDuration().Milliseconds(),
		},
		"throughput": map[string]any{
			"files_scanned":          s.FilesScanned,
			"links_found":            s.LinksFound,
			"unique_hrefs":           s.UniqueHrefs,
			"duplicates":             s.Duplicates,
			"ignored":                s.Ignored,
			"links_per_second":       s.LinksPerSecond(),
			"avg_classification_ms":  s.AvgClassificationTime().Milliseconds(),
		},
		"memory": map[string]any{
			"heap_bytes":  s.HeapAlloc,
			"total_bytes": s.TotalAlloc,
			"gc_cycles":   s.NumGC,
			"goroutines":  s.NumGoroutine,
		},
	}
}
