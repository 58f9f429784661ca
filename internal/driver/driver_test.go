package driver

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// S1: a clean site with a working link exits clean.
func TestRun_CleanSite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<html><body><a href="/a.html">a</a></body></html>`)
	writeFile(t, filepath.Join(dir, "a.html"), `<html><body>hi</body></html>`)

	report, err := Run(Options{BasePath: dir})
	require.NoError(t, err)
	assert.Equal(t, 0, report.ExitCode())
	assert.Empty(t, report.FileReports)
	assert.Equal(t, uint64(1), report.LinksChecked)
}

// S2: a link to a missing document is a hard failure reported against the
// linking file.
func TestRun_BrokenLink(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<html><body><a href="/missing.html">m</a></body></html>`)

	report, err := Run(Options{BasePath: dir})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ExitCode())
	require.Len(t, report.FileReports, 1)
	fr := report.FileReports[0]
	assert.Equal(t, filepath.Join(dir, "index.html"), fr.Path)
	require.Len(t, fr.Hard, 1)
	assert.Equal(t, "/missing.html", string(fr.Hard[0]))
}

// S3: with check-anchors, a link to an existing document missing the
// fragment is a soft failure.
func TestRun_BadAnchorIsSoft(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<html><body><a href="/a.html#top">a</a></body></html>`)
	writeFile(t, filepath.Join(dir, "a.html"), `<html><body>no anchor here</body></html>`)

	report, err := Run(Options{BasePath: dir, CheckAnchors: true})
	require.NoError(t, err)
	assert.Equal(t, 2, report.ExitCode())
	require.Len(t, report.FileReports, 1)
	assert.Empty(t, report.FileReports[0].Hard)
	require.Len(t, report.FileReports[0].Soft, 1)
	assert.Equal(t, "/a.html#top", string(report.FileReports[0].Soft[0]))
}

// S4: a broken link whose paragraph fingerprint matches a Markdown source
// is attributed to that source instead of the HTML file.
func TestRun_ParagraphAttribution(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := t.TempDir()

	writeFile(t, filepath.Join(dir, "index.html"),
		`<html><body><p>Check out <a href="/missing.html">this page</a> for more.</p></body></html>`)
	writeFile(t, filepath.Join(src, "index.md"),
		"Check out [this page](/missing.html) for more.\n")

	report, err := Run(Options{BasePath: dir, SourcesPath: src})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ExitCode())
	require.Len(t, report.FileReports, 1)
	assert.Equal(t, filepath.Join(src, "index.md"), report.FileReports[0].Path)
	require.Len(t, report.FileReports[0].Hard, 1)
	assert.Equal(t, "/missing.html", string(report.FileReports[0].Hard[0]))
}

// S5: two files claiming the same href is a fatal discovery error, not a
// partial report.
func TestRun_DuplicateHrefIsFatal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foo.html"), `<html></html>`)
	writeFile(t, filepath.Join(dir, "foo", "index.html"), `<html></html>`)

	_, err := Run(Options{BasePath: dir})
	require.Error(t, err)
}

// S6-style: many uses and one define of the same href, spread over 21
// documents and 8 workers, resolve to Defined with no witnesses reported.
func TestRun_ManyUsesOneDefine(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.html"), `<html><body>target</body></html>`)
	for i := 0; i < 20; i++ {
		writeFile(t, filepath.Join(dir, "p"+strconv.Itoa(i)+".html"), `<html><body><a href="/x.html">x</a></body></html>`)
	}

	report, err := Run(Options{BasePath: dir, Jobs: 8})
	require.NoError(t, err)
	assert.Equal(t, 0, report.ExitCode())
	assert.Equal(t, uint64(20), report.LinksChecked)
}

// The radix index path produces the same report as the map index.
func TestRun_RadixIndexMatchesMap(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), `<html><body><a href="/missing.html">m</a></body></html>`)

	mapReport, err := Run(Options{BasePath: dir})
	require.NoError(t, err)
	radixReport, err := Run(Options{BasePath: dir, UseRadixIndex: true})
	require.NoError(t, err)

	assert.Equal(t, mapReport.ExitCode(), radixReport.ExitCode())
	assert.Equal(t, mapReport.FileReports, radixReport.FileReports)
}
