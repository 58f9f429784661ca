package output

import (
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct{}

type yamlOutput struct {
	GeneratedAt  string           `yaml:"generated_at"`
	FilesScanned int              `yaml:"files_scanned"`
	SourceFiles  int              `yaml:"source_files,omitempty"`
	LinksChecked uint64           `yaml:"links_checked"`
	UniqueHrefs  int              `yaml:"unique_hrefs"`
	HardCount    int              `yaml:"hard_count"`
	SoftCount    int              `yaml:"soft_count"`
	Files        []yamlFileReport `yaml:"files"`
	Ignored      []yamlIgnored    `yaml:"ignored,omitempty"`
}

type yamlFileReport struct {
	Path string   `yaml:"path"`
	Hard []string `yaml:"hard,omitempty"`
	Soft []string `yaml:"soft,omitempty"`
}

type yamlIgnored struct {
	Href   string `yaml:"href"`
	File   string `yaml:"file,omitempty"`
	Reason string `yaml:"reason"`
	Rule   string `yaml:"rule"`
}

// Format implements Formatter.
func (*YAMLFormatter) Format(report *Report) ([]byte, error) {
	r := report.Driver
	out := yamlOutput{
		GeneratedAt:  report.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		FilesScanned: r.FilesScanned,
		SourceFiles:  r.SourceFiles,
		LinksChecked: r.LinksChecked,
		UniqueHrefs:  r.UniqueHrefs,
		HardCount:    r.HardCount,
		SoftCount:    r.SoftCount,
		Files:        make([]yamlFileReport, 0, len(r.FileReports)),
	}

	for _, fr := range r.FileReports {
		yfr := yamlFileReport{Path: fr.Path}
		for _, h := range fr.Hard {
			yfr.Hard = append(yfr.Hard, string(h))
		}
		for _, h := range fr.Soft {
			yfr.Soft = append(yfr.Soft, string(h))
		}
		out.Files = append(out.Files, yfr)
	}

	for _, ig := range report.Ignored {
		out.Ignored = append(out.Ignored, yamlIgnored{
			Href:   ig.Href,
			File:   ig.File,
			Reason: ig.Type,
			Rule:   ig.Rule,
		})
	}

	return yaml.Marshal(out)
}
