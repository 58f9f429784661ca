package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	s := New()

	require.NotNil(t, s)
	assert.True(t, s.DiscoveryStart.IsZero())
	assert.True(t, s.DiscoveryEnd.IsZero())
	assert.True(t, s.ExtractionStart.IsZero())
	assert.True(t, s.ExtractionEnd.IsZero())
	assert.True(t, s.ClassificationStart.IsZero())
	assert.True(t, s.ClassificationEnd.IsZero())
	assert.Equal(t, 0, s.FilesScanned)
	assert.Equal(t, 0, s.LinksFound)
	assert.Equal(t, 0, s.UniqueHrefs)
	assert.Equal(t, 0, s.Duplicates)
	assert.Equal(t, 0, s.Ignored)
}

func TestDiscoveryPhase(t *testing.T) {
	t.Parallel()

	t.Run("StartDiscovery", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartDiscovery()

		assert.False(t, s.DiscoveryStart.IsZero())
		assert.True(t, s.DiscoveryEnd.IsZero())
	})

	t.Run("EndDiscovery", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartDiscovery()
		time.Sleep(10 * time.Millisecond)
		s.EndDiscovery(25)

		assert.False(t, s.DiscoveryEnd.IsZero())
		assert.Equal(t, 25, s.FilesScanned)
	})

	t.Run("DiscoveryDuration", func(t *testing.T) {
		t.Parallel()
		s := New()

		// Duration is 0 before ending
		assert.Equal(t, time.Duration(0), s.DiscoveryDuration())

		s.StartDiscovery()
		time.Sleep(10 * time.Millisecond)
		s.EndDiscovery(10)

		duration := s.DiscoveryDuration()
		assert.True(t, duration >= 10*time.Millisecond)
	})
}

func TestExtractionPhase(t *testing.T) {
	t.Parallel()

	t.Run("StartExtraction", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartExtraction()

		assert.False(t, s.ExtractionStart.IsZero())
		assert.True(t, s.ExtractionEnd.IsZero())
	})

	t.Run("EndExtraction", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartExtraction()
		time.Sleep(10 * time.Millisecond)
		s.EndExtraction(100, 80, 15, 5)

		assert.False(t, s.ExtractionEnd.IsZero())
		assert.Equal(t, 100, s.LinksFound)
		assert.Equal(t, 80, s.UniqueHrefs)
		assert.Equal(t, 15, s.Duplicates)
		assert.Equal(t, 5, s.Ignored)
	})

	t.Run("ExtractionDuration", func(t *testing.T) {
		t.Parallel()
		s := New()

		// Duration is 0 before ending
		assert.Equal(t, time.Duration(0), s.ExtractionDuration())

		s.StartExtraction()
		time.Sleep(10 * time.Millisecond)
		s.EndExtraction(100, 80, 15, 5)

		duration := s.ExtractionDuration()
		assert.True(t, duration >= 10*time.Millisecond)
	})
}

func TestClassificationPhase(t *testing.T) {
	t.Parallel()

	t.Run("StartClassification", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartClassification()

		assert.False(t, s.ClassificationStart.IsZero())
		assert.True(t, s.ClassificationEnd.IsZero())
	})

	t.Run("EndClassification", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartClassification()
		time.Sleep(10 * time.Millisecond)
		s.EndClassification()

		assert.False(t, s.ClassificationEnd.IsZero())
		// Memory stats should be populated
		assert.True(t, s.HeapAlloc > 0)
		assert.True(t, s.TotalAlloc > 0)
		assert.True(t, s.NumGoroutine > 0)
	})

	t.Run("ClassificationDuration", func(t *testing.T) {
		t.Parallel()
		s := New()

		// Duration is 0 before ending
		assert.Equal(t, time.Duration(0), s.ClassificationDuration())

		s.StartClassification()
		time.Sleep(10 * time.Millisecond)
		s.EndClassification()

		duration := s.ClassificationDuration()
		assert.True(t, duration >= 10*time.Millisecond)
	})
}

func TestTotalDuration(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsZeroWhenIncomplete", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartDiscovery()
		s.EndDiscovery(10)
		s.StartExtraction()
		s.EndExtraction(100, 80, 15, 5)
		s.StartClassification()
		// ClassificationEnd not set

		assert.Equal(t, time.Duration(0), s.TotalDuration())
	})

	t.Run("ReturnsFullDuration", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartDiscovery()
		time.Sleep(5 * time.Millisecond)
		s.EndDiscovery(10)
		s.StartExtraction()
		time.Sleep(5 * time.Millisecond)
		s.EndExtraction(100, 80, 15, 5)
		s.StartClassification()
		time.Sleep(5 * time.Millisecond)
		s.EndClassification()

		duration := s.TotalDuration()
		assert.True(t, duration >= 15*time.Millisecond)
	})
}

func TestLinksPerSecond(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsZeroWhenNoHrefs", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartClassification()
		time.Sleep(10 * time.Millisecond)
		s.EndClassification()
		s.UniqueHrefs = 0

		assert.Equal(t, 0.0, s.LinksPerSecond())
	})

	t.Run("ReturnsZeroWhenNoDuration", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.UniqueHrefs = 100
		// ClassificationStart and ClassificationEnd are zero

		assert.Equal(t, 0.0, s.LinksPerSecond())
	})

	t.Run("CalculatesCorrectly", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.UniqueHrefs = 100
		// Set times directly to avoid timing variations
		s.ClassificationStart = time.Now()
		s.ClassificationEnd = s.ClassificationStart.Add(2 * time.Second)

		linksPerSec := s.LinksPerSecond()
		assert.InDelta(t, 50.0, linksPerSec, 0.1)
	})
}

func TestAvgClassificationTime(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsZeroWhenNoHrefs", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartClassification()
		time.Sleep(10 * time.Millisecond)
		s.EndClassification()
		s.UniqueHrefs = 0

		assert.Equal(t, time.Duration(0), s.AvgClassificationTime())
	})

	t.Run("CalculatesCorrectly", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.UniqueHrefs = 100
		// Set times directly to avoid timing variations
		s.ClassificationStart = time.Now()
		s.ClassificationEnd = s.ClassificationStart.Add(2 * time.Second)

		avgTime := s.AvgClassificationTime()
		assert.Equal(t, 20*time.Millisecond, avgTime)
	})
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "Zero",
			duration: 0,
			expected: "0µs",
		},
		{
			name:     "Microseconds",
			duration: 500 * time.Microsecond,
			expected: "500µs",
		},
		{
			name:     "Milliseconds",
			duration: 500 * time.Millisecond,
			expected: "500ms",
		},
		{
			name:     "JustUnderSecond",
			duration: 999 * time.Millisecond,
			expected: "999ms",
		},
		{
			name:     "Seconds",
			duration: 2500 * time.Millisecond,
			expected: "2.5s",
		},
		{
			name:     "JustUnderMinute",
			duration: 59*time.Second + 500*time.Millisecond,
			expected: "59.5s",
		},
		{
			name:     "Minutes",
			duration: 65 * time.Second,
			expected: "1m5.0s",
		},
		{
			name:     "MultipleMinutes",
			duration: 125 * time.Second,
			expected: "2m5.0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := FormatDuration(tt.duration)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytes    uint64
		expected string
	}{
		{
			name:     "Zero",
			bytes:    0,
			expected: "0 B",
		},
		{
			name:     "Bytes",
			bytes:    500,
			expected: "500 B",
		},
		{
			name:     "JustUnderKB",
			bytes:    1023,
			expected: "1023 B",
		},
		{
			name:     "Kilobytes",
			bytes:    1536,
			expected: "1.5 KB",
		},
		{
			name:     "Megabytes",
			bytes:    1572864,
			expected: "1.5 MB",
		},
		{
			name:     "Gigabytes",
			bytes:    1610612736,
			expected: "1.5 GB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := FormatBytes(tt.bytes)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	t.Run("ContainsAllSections", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartDiscovery()
		s.EndDiscovery(25)
		s.StartExtraction()
		s.EndExtraction(100, 80, 15, 5)
		s.StartClassification()
		s.EndClassification()

		output := s.String()

		assert.Contains(t, output, "Performance Statistics")
		assert.Contains(t, output, "Timing:")
		assert.Contains(t, output, "Discovery:")
		assert.Contains(t, output, "Extraction:")
		assert.Contains(t, output, "Classification:")
		assert.Contains(t, output, "Total:")
		assert.Contains(t, output, "Throughput:")
		assert.Contains(t, output, "Files scanned:")
		assert.Contains(t, output, "Links checked:")
		assert.Contains(t, output, "Unique hrefs:")
		assert.Contains(t, output, "Links/second:")
		assert.Contains(t, output, "Avg classification:")
		assert.Contains(t, output, "Memory:")
		assert.Contains(t, output, "Heap in use:")
		assert.Contains(t, output, "Total alloc:")
		assert.Contains(t, output, "GC cycles:")
		assert.Contains(t, output, "Goroutines:")
	})

	t.Run("IncludesDuplicatesWhenPresent", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.Duplicates = 10

		output := s.String()
		assert.Contains(t, output, "Duplicates:")
	})

	t.Run("ExcludesDuplicatesWhenZero", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.Duplicates = 0

		output := s.String()
		assert.NotContains(t, output, "Duplicates:")
	})

	t.Run("IncludesIgnoredWhenPresent", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.Ignored = 5

		output := s.String()
		assert.Contains(t, output, "Ignored:")
	})

	t.Run("ExcludesIgnoredWhenZero", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.Ignored = 0

		output := s.String()
		assert.NotContains(t, output, "Ignored:")
	})
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	t.Run("HasCorrectStructure", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.StartDiscovery()
		s.EndDiscovery(25)
		s.StartExtraction()
		s.EndExtraction(100, 80, 15, 5)
		s.StartClassification()
		s.EndClassification()

		result := s.ToJSON()

		// Check top-level keys
		assert.Contains(t, result, "timing")
		assert.Contains(t, result, "throughput")
		assert.Contains(t, result, "memory")

		// Check timing keys
		timing, ok := result["timing"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, timing, "discovery_ms")
		assert.Contains(t, timing, "extraction_ms")
		assert.Contains(t, timing, "classification_ms")
		assert.Contains(t, timing, "total_ms")

		// Check throughput keys
		throughput, ok := result["throughput"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, throughput, "files_scanned")
		assert.Contains(t, throughput, "links_found")
		assert.Contains(t, throughput, "unique_hrefs")
		assert.Contains(t, throughput, "duplicates")
		assert.Contains(t, throughput, "ignored")
		assert.Contains(t, throughput, "links_per_second")
		assert.Contains(t, throughput, "avg_classification_ms")

		// Check memory keys
		memory, ok := result["memory"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, memory, "heap_bytes")
		assert.Contains(t, memory, "total_bytes")
		assert.Contains(t, memory, "gc_cycles")
		assert.Contains(t, memory, "goroutines")
	})

	t.Run("ValuesMatchFields", func(t *testing.T) {
		t.Parallel()
		s := New()
		s.FilesScanned = 25
		s.LinksFound = 100
		s.UniqueHrefs = 80
		s.Duplicates = 15
		s.Ignored = 5

		result := s.ToJSON()

		throughput, ok := result["throughput"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 25, throughput["files_scanned"])
		assert.Equal(t, 100, throughput["links_found"])
		assert.Equal(t, 80, throughput["unique_hrefs"])
		assert.Equal(t, 15, throughput["duplicates"])
		assert.Equal(t, 5, throughput["ignored"])
	})
}
