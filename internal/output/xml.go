package output

import (
	"encoding/xml"
)

// XMLFormatter formats reports as generic XML.
type XMLFormatter struct{}

type xmlOutput struct {
	Ignored      *xmlIgnored `xml:"ignored,omitempty"`
	XMLName      xml.Name    `xml:"report"`
	GeneratedAt  string      `xml:"generated_at,attr"`
	Files        xmlFiles    `xml:"files"`
	FilesScanned int         `xml:"files_scanned,attr"`
	LinksChecked uint64      `xml:"links_checked,attr"`
	UniqueHrefs  int         `xml:"unique_hrefs,attr"`
	HardCount    int         `xml:"hard_count,attr"`
	SoftCount    int         `xml:"soft_count,attr"`
}

type xmlFiles struct {
	Files []xmlFileReport `xml:"file"`
}

type xmlFileReport struct {
	Path string   `xml:"path,attr"`
	Hard []string `xml:"hard,omitempty"`
	Soft []string `xml:"soft,omitempty"`
}

type xmlIgnored struct {
	Items []xmlIgnoredItem `xml:"item"`
}

type xmlIgnoredItem struct {
	Href   string `xml:"href"`
	File   string `xml:"file,omitempty"`
	Reason string `xml:"reason"`
	Rule   string `xml:"rule"`
}

// Format implements Formatter.
func (*XMLFormatter) Format(report *Report) ([]byte, error) {
	r := report.Driver
	out := xmlOutput{
		GeneratedAt:  report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		FilesScanned: r.FilesScanned,
		LinksChecked: r.LinksChecked,
		UniqueHrefs:  r.UniqueHrefs,
		HardCount:    r.HardCount,
		SoftCount:    r.SoftCount,
		Files:        xmlFiles{Files: make([]xmlFileReport, 0, len(r.FileReports))},
	}

	for _, fr := range r.FileReports {
		xfr := xmlFileReport{Path: fr.Path}
		for _, h := range fr.Hard {
			xfr.Hard = append(xfr.Hard, string(h))
		}
		for _, h := range fr.Soft {
			xfr.Soft = append(xfr.Soft, string(h))
		}
		out.Files.Files = append(out.Files.Files, xfr)
	}

	if len(report.Ignored) > 0 {
		out.Ignored = &xmlIgnored{Items: make([]xmlIgnoredItem, len(report.Ignored))}
		for i, ig := range report.Ignored {
			out.Ignored.Items[i] = xmlIgnoredItem{
				Href:   ig.Href,
				File:   ig.File,
				Reason: ig.Type,
				Rule:   ig.Rule,
			}
		}
	}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
