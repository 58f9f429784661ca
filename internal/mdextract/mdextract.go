// Package mdextract implements the Markdown-side half of the paragraph
// fingerprint bridge, spec.md's C3'. It parses a Markdown source file with
// goldmark, walks the document's top-level blocks in reading order, and
// emits one fingerprint.FP per block — the same algorithm htmlextract runs
// over an HTML paragraph's visible text, so a paragraph reused verbatim on
// both sides hashes identically.
//
// Grounded on the teacher's own internal/parser/markdown package, which
// already walks a goldmark AST to pull links out of Markdown; this package
// walks the same tree shape but collects visible text instead of link
// destinations.
package mdextract

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/hyperlint/hyperlint/internal/fingerprint"
)

// Extract parses the Markdown file at path and calls emit once per
// top-level block (paragraphs, headings, list items, table cells, block
// quotes) with that block's fingerprint, in reading order. Blocks whose
// visible text normalizes to nothing (e.g. a lone image, a thematic break)
// are skipped — fingerprint.New already returns the zero sentinel for
// those, and the zero sentinel is never meaningful to a caller.
func Extract(path string, emit func(fingerprint.FP)) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			gmparser.WithAutoHeadingID(),
		),
	)
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		if err := walkBlock(child, content, emit); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// walkBlock emits one fingerprint for n's own visible text, then recurses
// into any block-level children (list items inside a list, cells inside a
// table row) so each nested block gets its own fingerprint too — mirroring
// how the HTML side fingerprints the *nearest enclosing* block rather than
// the whole document.
func walkBlock(n ast.Node, source []byte, emit func(fingerprint.FP)) error {
	if fp := fingerprint.New(visibleText(n, source)); fp != fingerprint.Zero {
		emit(fp)
	}

	if !hasBlockChildren(n) {
		return nil
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() != ast.TypeBlock {
			continue
		}
		if err := walkBlock(child, source, emit); err != nil {
			return err
		}
	}
	return nil
}

// hasBlockChildren reports whether n is a container whose block-level
// children should each get their own fingerprint in addition to (not
// instead of) the text collected directly under n. A bare Paragraph or
// Heading has none; a List, ListItem, table, table row, or table header
// does — the GFM table extension models a table as Table > (TableHeader |
// TableRow) > TableCell, each level a distinct block node, so each cell
// gets fingerprinted the same way an HTML <td>/<th> does.
func hasBlockChildren(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindList, ast.KindListItem, ast.KindBlockquote, ast.KindDocument,
		extast.KindTable, extast.KindTableHeader, extast.KindTableRow:
		return true
	default:
		return false
	}
}

// visibleText collects every inline Text/String/AutoLink segment under n,
// stopping at nested block-level children (those are walked, and
// fingerprinted, separately by walkBlock) so a ListItem's own fingerprint
// doesn't also duplicate the text of the items nested beneath it.
func visibleText(n ast.Node, source []byte) []string {
	var frags []string
	var collect func(ast.Node)
	collect = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if child.Type() == ast.TypeBlock {
				continue
			}
			switch t := child.(type) {
			case *ast.Text:
				frags = append(frags, string(t.Segment.Value(source)))
				if t.SoftLineBreak() || t.HardLineBreak() {
					frags = append(frags, " ")
				}
			case *ast.String:
				frags = append(frags, string(t.Value))
			case *ast.CodeSpan:
				frags = append(frags, codeSpanText(t, source))
			case *ast.AutoLink:
				frags = append(frags, string(t.URL(source)))
			case *ast.Image:
				// An image's alt text is not visible text; skip it.
			default:
				if child.HasChildren() {
					collect(child)
				}
			}
		}
	}
	collect(n)
	return frags
}

func codeSpanText(n *ast.CodeSpan, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.String()
}
