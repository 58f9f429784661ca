package output

import (
	"fmt"
	"strings"
)

// TextFormatter implements spec.md §6.3's stdout contract: one header line
// per defective file, then one line per href, hard failures as errors and
// soft failures as warnings. When the report carries GithubActions, each
// file also gets a single ::error CI-annotation line listing every href.
type TextFormatter struct{}

// Format implements Formatter.
func (*TextFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder
	r := report.Driver

	for _, fr := range r.FileReports {
		if len(fr.Hard) == 0 && len(fr.Soft) == 0 {
			continue
		}
		b.WriteString(fr.Path)
		b.WriteString("\n")
		for _, h := range fr.Hard {
			fmt.Fprintf(&b, "  error: bad link %s\n", h)
		}
		for _, h := range fr.Soft {
			fmt.Fprintf(&b, "  warning: bad anchor %s\n", h)
		}

		if report.GithubActions {
			var ann strings.Builder
			for _, h := range fr.Hard {
				ann.WriteString("%0A  ")
				ann.WriteString(string(h))
			}
			for _, h := range fr.Soft {
				ann.WriteString("%0A  ")
				ann.WriteString(string(h))
			}
			fmt.Fprintf(&b, "::error file=%s::bad links:%s\n", fr.Path, ann.String())
		}
	}

	return []byte(b.String()), nil
}
