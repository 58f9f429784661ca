package ui

import (
	"fmt"
	"strings"

	"github.com/hyperlint/hyperlint/internal/driver"
)

// DefectItem wraps a single broken href reported against one file, flattened
// out of a driver.FileReport for display in a list.Item. Implements
// list.Item / list.DefaultItem.
type DefectItem struct {
	Path string
	Href string
	Hard bool
}

// FilterValue returns the string used for filtering.
func (i DefectItem) FilterValue() string {
	return i.Href
}

// Title returns the main display text for the item.
func (i DefectItem) Title() string {
	return i.Href
}

// Description returns secondary text for the item.
func (i DefectItem) Description() string {
	kind := "bad link"
	if !i.Hard {
		kind = "bad anchor"
	}
	return fmt.Sprintf("%s | %s", kind, i.Path)
}

// DetailView returns an expanded detail view for the selected item.
func (i DefectItem) DetailView() string {
	var b strings.Builder
	b.WriteString("┌─ Details ─────────────────────────────────────────────────────────────\n")
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Severity:"), SeverityBadge(i.Hard)))
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("Href:"), i.Href))
	b.WriteString(fmt.Sprintf("│ %s  %s\n", DetailLabelStyle.Render("File:"), i.Path))
	b.WriteString("└────────────────────────────────────────────────────────────────────────\n")
	return b.String()
}

// DefectsFromReport flattens a driver.Report into a list of DefectItem, hard
// defects before soft, grouped by file in the report's existing order.
func DefectsFromReport(report *driver.Report) []DefectItem {
	var items []DefectItem
	for _, fr := range report.FileReports {
		for _, h := range fr.Hard {
			items = append(items, DefectItem{Path: fr.Path, Href: string(h), Hard: true})
		}
		for _, h := range fr.Soft {
			items = append(items, DefectItem{Path: fr.Path, Href: string(h), Hard: false})
		}
	}
	return items
}
