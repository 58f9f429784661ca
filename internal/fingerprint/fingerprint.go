// Package fingerprint computes the deterministic paragraph fingerprint
// that bridges a broken HTML link back to the Markdown paragraph that
// produced it (spec.md §4.2). The same normalization and hash are applied
// on both the HTML and Markdown sides; this package is the single place
// that logic lives, so the two extractors can never drift from each other.
package fingerprint

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Version identifies the normalization+hash algorithm. Bump it (and only
// it) if either ever changes; paragraph attribution across mismatched
// versions is meaningless, per design note §9 ("Paragraph fingerprint
// stability").
const Version = 1

// FP is a paragraph fingerprint. Zero is the sentinel for "no content" and
// must be discarded by callers rather than treated as a real fingerprint.
type FP uint64

// Zero is the sentinel empty-paragraph fingerprint.
const Zero FP = 0

// New normalizes and hashes the concatenation of fragments: any maximal
// run of ASCII whitespace (across fragment boundaries) collapses to a
// single space, and the result is trimmed. An all-whitespace or empty
// input yields Zero.
func New(fragments []string) FP {
	norm := normalize(fragments)
	if norm == "" {
		return Zero
	}
	return hash(norm)
}

// hash mixes normalized text into a 64-bit fingerprint using BLAKE3 purely
// as a fast, portable, deterministic bit mixer — no cryptographic property
// is relied upon, matching spec.md's "need not be cryptographic" allowance.
// This package is the only user of the BLAKE3 dependency.
func hash(s string) FP {
	digest := blake3.Sum256([]byte(s))
	return FP(binary.BigEndian.Uint64(digest[:8]))
}

// normalize collapses whitespace runs (including ones that span fragment
// boundaries) to single spaces and trims the result.
func normalize(fragments []string) string {
	var b []byte
	lastWasSpace := true // suppress leading whitespace
	for _, frag := range fragments {
		for i := 0; i < len(frag); i++ {
			c := frag[i]
			if isASCIISpace(c) {
				if !lastWasSpace {
					b = append(b, ' ')
					lastWasSpace = true
				}
				continue
			}
			b = append(b, c)
			lastWasSpace = false
		}
	}
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return string(b)
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
