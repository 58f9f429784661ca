package output

import (
	"fmt"
	"strings"

	"github.com/hyperlint/hyperlint/internal/helpers"
)

// maxHrefDisplayLen bounds how much of a long href shows in a table cell.
const maxHrefDisplayLen = 80

// MarkdownFormatter formats reports as Markdown.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (*MarkdownFormatter) Format(report *Report) ([]byte, error) {
	r := report.Driver

	var b strings.Builder
	b.Grow(len(r.FileReports)*200 + 500)

	b.WriteString("# Link Check Report\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s  \n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Files Scanned:** %d  \n", r.FilesScanned))
	if r.SourceFiles > 0 {
		b.WriteString(fmt.Sprintf("**Markdown Sources Mapped:** %d  \n", r.SourceFiles))
	}
	b.WriteString(fmt.Sprintf("**Links Checked:** %d  \n", r.LinksChecked))
	b.WriteString(fmt.Sprintf("**Unique Hrefs:** %d\n\n", r.UniqueHrefs))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Severity | Count |\n")
	b.WriteString("|----------|-------|\n")
	b.WriteString(fmt.Sprintf("| Bad links (hard) | %d |\n", r.HardCount))
	b.WriteString(fmt.Sprintf("| Bad anchors (soft) | %d |\n", r.SoftCount))
	if len(report.Ignored) > 0 {
		b.WriteString(fmt.Sprintf("| Ignored | %d |\n", len(report.Ignored)))
	}
	b.WriteString("\n")

	hasDefects := r.HardCount > 0 || r.SoftCount > 0
	if hasDefects {
		b.WriteString("## Broken Links\n\n")
		b.WriteString("| File | Severity | Href |\n")
		b.WriteString("|------|----------|------|\n")
		for _, fr := range r.FileReports {
			for _, h := range fr.Hard {
				href := escapeMarkdown(helpers.TruncateURL(string(h), maxHrefDisplayLen))
				b.WriteString(fmt.Sprintf("| `%s` | error | %s |\n", fr.Path, href))
			}
			for _, h := range fr.Soft {
				href := escapeMarkdown(helpers.TruncateURL(string(h), maxHrefDisplayLen))
				b.WriteString(fmt.Sprintf("| `%s` | warning | %s |\n", fr.Path, href))
			}
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No broken links found.\n\n")
	}

	if len(report.Ignored) > 0 {
		b.WriteString(fmt.Sprintf("## Ignored Hrefs (%d)\n\n", len(report.Ignored)))
		b.WriteString("| Href | File | Reason | Rule |\n")
		b.WriteString("|------|------|--------|------|\n")
		for _, ig := range report.Ignored {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | `%s` |\n",
				escapeMarkdown(ig.Href), ig.File, ig.Type, ig.Rule))
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// escapeMarkdown escapes special markdown characters in a string.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}
