package output

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hyperlint/hyperlint/internal/driver"
	"github.com/hyperlint/hyperlint/internal/filter"
	"github.com/hyperlint/hyperlint/internal/href"
)

func sampleReport() *Report {
	return &Report{
		GeneratedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Driver: &driver.Report{
			FilesScanned: 12,
			SourceFiles:  3,
			LinksChecked: 42,
			UniqueHrefs:  20,
			HardCount:    2,
			SoftCount:    1,
			FileReports: []driver.FileReport{
				{
					Path: "blog/post.html",
					Hard: []href.Href{"/missing.html", "/also-missing.html"},
					Soft: []href.Href{"/post.html#nope"},
				},
			},
		},
		Ignored: []filter.IgnoreReason{
			{Type: "pattern", Rule: "/drafts/**", Href: "/drafts/wip.html", File: "blog/post.html"},
		},
	}
}

func cleanReport() *Report {
	return &Report{
		GeneratedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Driver: &driver.Report{
			FilesScanned: 5,
			LinksChecked: 10,
			UniqueHrefs:  8,
		},
	}
}

func TestIsValidFormat(t *testing.T) {
	t.Parallel()
	for _, f := range []string{"text", "json", "yaml", "xml", "junit", "markdown", "JSON"} {
		assert.True(t, IsValidFormat(f), f)
	}
	assert.False(t, IsValidFormat("toml"))
	assert.False(t, IsValidFormat(""))
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     Format
	}{
		{"report.json", FormatJSON},
		{"report.yaml", FormatYAML},
		{"report.yml", FormatYAML},
		{"report.xml", FormatXML},
		{"report.junit.xml", FormatJUnit},
		{"report.md", FormatMarkdown},
		{"report.markdown", FormatMarkdown},
		{"report.txt", FormatText},
	}
	for _, tt := range tests {
		got, err := InferFormat(tt.filename)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := InferFormat("report.toml")
	assert.Error(t, err)
}

func TestGetFormatter(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{FormatText, FormatJSON, FormatYAML, FormatXML, FormatJUnit, FormatMarkdown, ""} {
		formatter, err := GetFormatter(f)
		require.NoError(t, err)
		assert.NotNil(t, formatter)
	}

	_, err := GetFormatter("bogus")
	assert.Error(t, err)
}

func TestTextFormatter(t *testing.T) {
	t.Parallel()

	t.Run("WithDefects", func(t *testing.T) {
		t.Parallel()
		data, err := FormatReport(sampleReport(), FormatText)
		require.NoError(t, err)
		out := string(data)

		assert.Contains(t, out, "blog/post.html\n")
		assert.Contains(t, out, "  error: bad link /missing.html\n")
		assert.Contains(t, out, "  error: bad link /also-missing.html\n")
		assert.Contains(t, out, "  warning: bad anchor /post.html#nope\n")
	})

	t.Run("GithubActions", func(t *testing.T) {
		t.Parallel()
		r := sampleReport()
		r.GithubActions = true
		data, err := FormatReport(r, FormatText)
		require.NoError(t, err)
		out := string(data)

		assert.Contains(t, out, "::error file=blog/post.html::bad links:")
		assert.Contains(t, out, "%0A  /missing.html")
		assert.Contains(t, out, "%0A  /post.html#nope")
	})

	t.Run("CleanReportIsEmpty", func(t *testing.T) {
		t.Parallel()
		data, err := FormatReport(cleanReport(), FormatText)
		require.NoError(t, err)
		assert.Empty(t, string(data))
	})
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(sampleReport(), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.InDelta(t, 12, decoded["files_scanned"], 0)
	assert.InDelta(t, 2, decoded["hard_count"], 0)
	assert.InDelta(t, 1, decoded["soft_count"], 0)

	files, ok := decoded["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 1)

	ignored, ok := decoded["ignored"].([]any)
	require.True(t, ok)
	require.Len(t, ignored, 1)
}

func TestYAMLFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(sampleReport(), FormatYAML)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded["hard_count"])
	assert.Equal(t, 1, decoded["soft_count"])
}

func TestXMLFormatter(t *testing.T) {
	t.Parallel()

	data, err := FormatReport(sampleReport(), FormatXML)
	require.NoError(t, err)
	assert.Contains(t, string(data), xml.Header)

	var decoded xmlOutput
	require.NoError(t, xml.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.HardCount)
	assert.Equal(t, 1, decoded.SoftCount)
	require.Len(t, decoded.Files.Files, 1)
	assert.Equal(t, "blog/post.html", decoded.Files.Files[0].Path)
}

func TestJUnitFormatter(t *testing.T) {
	t.Parallel()

	t.Run("WithDefects", func(t *testing.T) {
		t.Parallel()
		data, err := FormatReport(sampleReport(), FormatJUnit)
		require.NoError(t, err)

		var suites junitTestSuites
		require.NoError(t, xml.Unmarshal(data, &suites))
		assert.Equal(t, 3, suites.Tests)
		assert.Equal(t, 3, suites.Failures)
		require.Len(t, suites.TestSuite, 1)
		assert.Equal(t, "blog/post.html", suites.TestSuite[0].Name)
		require.Len(t, suites.TestSuite[0].TestCases, 3)
	})

	t.Run("CleanReport", func(t *testing.T) {
		t.Parallel()
		data, err := FormatReport(cleanReport(), FormatJUnit)
		require.NoError(t, err)

		var suites junitTestSuites
		require.NoError(t, xml.Unmarshal(data, &suites))
		assert.Equal(t, 0, suites.Tests)
		require.Len(t, suites.TestSuite, 1)
		assert.Equal(t, "all-links", suites.TestSuite[0].Name)
	})
}

func TestMarkdownFormatter(t *testing.T) {
	t.Parallel()

	t.Run("WithDefects", func(t *testing.T) {
		t.Parallel()
		data, err := FormatReport(sampleReport(), FormatMarkdown)
		require.NoError(t, err)
		out := string(data)

		assert.Contains(t, out, "# Link Check Report")
		assert.Contains(t, out, "## Broken Links")
		assert.Contains(t, out, "blog/post.html")
		assert.Contains(t, out, "/missing.html")
		assert.Contains(t, out, "## Ignored Hrefs (1)")
	})

	t.Run("CleanReport", func(t *testing.T) {
		t.Parallel()
		data, err := FormatReport(cleanReport(), FormatMarkdown)
		require.NoError(t, err)
		assert.Contains(t, string(data), "No broken links found.")
	})
}

func TestWriteToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := dir + "/report.json"

	err := WriteToFile(sampleReport(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hard_count")
}
