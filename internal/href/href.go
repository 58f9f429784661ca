// Package href implements the canonical, site-root-relative URL
// representation the rest of hyperlint keys everything on: a raw byte
// string, always "/"-prefixed, compared and hashed as bytes with no
// percent-decoding — spec.md §4.1's Href model, grounded on the original
// hyperlink's Href(Cow<str>) newtype in its html module.
package href

import (
	"path"
	"path/filepath"
	"strings"
)

// Href is a site-root-relative URL, optionally carrying a "#fragment".
// It is deliberately a plain string: comparisons, map keys, and sorting
// all fall out of Go's native string semantics, which already compare by
// raw bytes.
type Href string

// FromDocument derives the href that would serve path from the site root
// at basePath. If the file's base name is "index.html" or "index.htm",
// that segment is stripped so the containing directory serves as the
// href. The result always starts with "/" and uses "/" separators
// regardless of host OS.
func FromDocument(basePath, filePath string) (Href, error) {
	rel, err := relSlash(basePath, filePath)
	if err != nil {
		return "", err
	}

	rel = strings.TrimPrefix(rel, "/")
	dir, base := path.Split(rel)
	if base == "index.html" || base == "index.htm" {
		rel = dir
	}

	h := "/" + strings.TrimPrefix(rel, "/")
	if len(h) > 1 {
		h = strings.TrimSuffix(h, "/")
		if h == "" {
			h = "/"
		}
	}
	return Href(h), nil
}

// WithoutAnchor returns the prefix of h up to (not including) the first
// '#'. If h has no fragment, it is returned unchanged.
func WithoutAnchor(h Href) Href {
	if i := strings.IndexByte(string(h), '#'); i >= 0 {
		return h[:i]
	}
	return h
}

// Anchor returns the fragment portion of h (without the leading '#'), and
// whether one was present.
func Anchor(h Href) (string, bool) {
	i := strings.IndexByte(string(h), '#')
	if i < 0 {
		return "", false
	}
	return string(h[i+1:]), true
}

// Resolve merges a raw attribute value (an <a href>, <img src>, markdown
// link destination, ...) found inside the document identified by
// baseHref, producing the href it points at. ok is false when the value
// should be dropped entirely: it was empty, scheme-absolute (external), or
// a non-http(s) scheme like "mailto:"/"tel:"/"javascript:".
//
// No percent-decoding happens here: encodings must match exactly between a
// Uses and its Defines for the collector to connect them, per spec.md
// §4.1's "output is always byte-comparable" guarantee.
func Resolve(baseHref Href, raw string) (Href, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if hasScheme(raw) {
		return "", false
	}
	if strings.HasPrefix(raw, "//") {
		// protocol-relative URL: also external.
		return "", false
	}

	if strings.HasPrefix(raw, "/") {
		return Href(cleanAbs(raw)), true
	}

	if strings.HasPrefix(raw, "#") {
		return Href(cleanAbs(string(WithoutAnchor(baseHref)) + raw)), true
	}

	baseDir := string(WithoutAnchor(baseHref))
	if !strings.HasSuffix(baseDir, "/") {
		baseDir = path.Dir(baseDir) + "/"
	}

	frag := ""
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		frag = raw[i:]
		raw = raw[:i]
	}

	joined := path.Join(baseDir, raw)
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return Href(joined + frag), true
}

// hasScheme reports whether raw begins with a URI scheme (e.g. "https:",
// "mailto:", "javascript:"). A lone "#" or "?" must never be mistaken for
// one, and Windows-style drive letters ("C:\...") never appear in site
// hrefs so no special-casing is needed there.
func hasScheme(raw string) bool {
	i := strings.IndexByte(raw, ':')
	if i <= 0 {
		return false
	}
	for _, r := range raw[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '+', r == '-', r == '.':
			continue
		default:
			return false
		}
	}
	return true
}

// cleanAbs runs path.Clean on the path portion of an absolute href,
// preserving any "#fragment" suffix untouched.
func cleanAbs(h string) string {
	frag := ""
	if i := strings.IndexByte(h, '#'); i >= 0 {
		frag = h[i:]
		h = h[:i]
	}
	cleaned := path.Clean(h)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	if cleaned != "/" {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned + frag
}

// relSlash returns path relative to base, using "/" separators regardless
// of host OS path conventions.
func relSlash(base, p string) (string, error) {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
