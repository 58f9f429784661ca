package href

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDocument(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		base     string
		file     string
		expected Href
	}{
		{"root index", "/site", "/site/index.html", "/"},
		{"nested index", "/site", "/site/guide/index.html", "/guide"},
		{"plain page", "/site", "/site/guide/intro.html", "/guide/intro.html"},
		{"index.htm variant", "/site", "/site/about/index.htm", "/about"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := FromDocument(tc.base, tc.file)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestWithoutAnchorAndAnchor(t *testing.T) {
	t.Parallel()

	h := Href("/guide/intro.html#setup")
	assert.Equal(t, Href("/guide/intro.html"), WithoutAnchor(h))

	frag, ok := Anchor(h)
	assert.True(t, ok)
	assert.Equal(t, "setup", frag)

	_, ok = Anchor(Href("/guide/intro.html"))
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	base := Href("/guide/intro.html")

	cases := []struct {
		name     string
		raw      string
		expected Href
		ok       bool
	}{
		{"empty dropped", "", "", false},
		{"external scheme dropped", "https://example.com/x", "", false},
		{"protocol relative dropped", "//example.com/x", "", false},
		{"mailto dropped", "mailto:a@b.com", "", false},
		{"javascript dropped", "javascript:void(0)", "", false},
		{"absolute path", "/other/page.html", "/other/page.html", true},
		{"same document anchor", "#setup", "/guide/intro.html#setup", true},
		{"relative sibling", "advanced.html", "/guide/advanced.html", true},
		{"relative up and over", "../other/page.html", "/other/page.html", true},
		{"relative with anchor", "advanced.html#top", "/guide/advanced.html#top", true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Resolve(base, tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestResolve_BaseIsDirectory(t *testing.T) {
	t.Parallel()

	base := Href("/guide/")
	got, ok := Resolve(base, "intro.html")
	require.True(t, ok)
	assert.Equal(t, Href("/guide/intro.html"), got)
}
