package output

import (
	"encoding/json"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct{}

type jsonOutput struct {
	GeneratedAt  string           `json:"generated_at"`
	FilesScanned int              `json:"files_scanned"`
	SourceFiles  int              `json:"source_files,omitempty"`
	LinksChecked uint64           `json:"links_checked"`
	UniqueHrefs  int              `json:"unique_hrefs"`
	HardCount    int              `json:"hard_count"`
	SoftCount    int              `json:"soft_count"`
	Files        []jsonFileReport `json:"files"`
	Ignored      []jsonIgnored    `json:"ignored,omitempty"`
}

type jsonFileReport struct {
	Path string   `json:"path"`
	Hard []string `json:"hard,omitempty"`
	Soft []string `json:"soft,omitempty"`
}

type jsonIgnored struct {
	Href   string `json:"href"`
	File   string `json:"file,omitempty"`
	Reason string `json:"reason"`
	Rule   string `json:"rule"`
}

// Format implements Formatter.
func (*JSONFormatter) Format(report *Report) ([]byte, error) {
	r := report.Driver
	out := jsonOutput{
		GeneratedAt:  report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		FilesScanned: r.FilesScanned,
		SourceFiles:  r.SourceFiles,
		LinksChecked: r.LinksChecked,
		UniqueHrefs:  r.UniqueHrefs,
		HardCount:    r.HardCount,
		SoftCount:    r.SoftCount,
		Files:        make([]jsonFileReport, 0, len(r.FileReports)),
	}

	for _, fr := range r.FileReports {
		jfr := jsonFileReport{Path: fr.Path}
		for _, h := range fr.Hard {
			jfr.Hard = append(jfr.Hard, string(h))
		}
		for _, h := range fr.Soft {
			jfr.Soft = append(jfr.Soft, string(h))
		}
		out.Files = append(out.Files, jfr)
	}

	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, jsonIgnored{
			Href:   ig.Href,
			File:   ig.File,
			Reason: ig.Type,
			Rule:   ig.Rule,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
