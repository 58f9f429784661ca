package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperlint/hyperlint/internal/href"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover_BasicSite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "guide", "index.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "guide", "intro.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "notes.txt"), "not html")

	result, err := Discover(Options{Root: root})
	require.NoError(t, err)
	require.Len(t, result.HTML, 3)
	require.Len(t, result.All, 4)

	hrefs := make(map[href.Href]bool)
	for _, d := range result.HTML {
		hrefs[d.Href] = true
	}
	assert.True(t, hrefs["/"])
	assert.True(t, hrefs["/guide"])
	assert.True(t, hrefs["/guide/intro.html"])

	allHrefs := make(map[href.Href]bool)
	for _, d := range result.All {
		allHrefs[d.Href] = true
	}
	assert.True(t, allHrefs["/notes.txt"])
}

func TestDiscover_SkipsHiddenDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(root, ".git", "ignored.html"), "<html></html>")

	result, err := Discover(Options{Root: root})
	require.NoError(t, err)
	require.Len(t, result.HTML, 1)
	require.Len(t, result.All, 1)
	assert.Equal(t, href.Href("/"), result.HTML[0].Href)
}

func TestDiscover_DuplicateHrefIsFatal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "guide.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "guide", "index.html"), "<html></html>")

	_, err := Discover(Options{Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/guide")
}

func TestDiscover_SymlinkIsFatal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := filepath.Join(root, "real.html")
	writeFile(t, target, "<html></html>")

	link := filepath.Join(root, "alias.html")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	_, err := Discover(Options{Root: root})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}

func TestDiscover_IncludeExclude(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "drafts", "wip.html"), "<html></html>")

	result, err := Discover(Options{Root: root, Exclude: []string{"drafts/**"}})
	require.NoError(t, err)
	require.Len(t, result.HTML, 1)
	assert.Equal(t, href.Href("/keep.html"), result.HTML[0].Href)

	result, err = Discover(Options{Root: root, Include: []string{"drafts/**"}})
	require.NoError(t, err)
	require.Len(t, result.HTML, 1)
	assert.Equal(t, href.Href("/drafts/wip.html"), result.HTML[0].Href)
}

func TestDiscover_NonHTMLAssetsArePreseeded(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<a href="/logo.png">logo</a>`)
	writeFile(t, filepath.Join(root, "logo.png"), "not really a png")

	result, err := Discover(Options{Root: root})
	require.NoError(t, err)
	require.Len(t, result.HTML, 1)
	require.Len(t, result.All, 2)

	allHrefs := make(map[href.Href]bool)
	for _, d := range result.All {
		allHrefs[d.Href] = true
	}
	assert.True(t, allHrefs["/logo.png"])
}

func TestDiscoverMarkdownSources(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "intro.md"), "# Intro")
	writeFile(t, filepath.Join(root, "guide.mdx"), "# Guide")
	writeFile(t, filepath.Join(root, "notes.txt"), "not markdown")

	files, err := DiscoverMarkdownSources(root)
	require.NoError(t, err)
	require.Len(t, files, 2)
}
