package output

import (
	"encoding/xml"
	"fmt"
)

// JUnitFormatter formats reports as JUnit XML for CI/CD integration. Each
// destination file becomes a test suite; each broken href becomes a test
// case, hard failures reported as <failure>, soft anchor failures as a
// distinctly typed <failure> so CI dashboards can still tell them apart.
type JUnitFormatter struct{}

type junitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Name      string           `xml:"name,attr"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	TestSuite []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Format implements Formatter.
func (*JUnitFormatter) Format(report *Report) ([]byte, error) {
	r := report.Driver

	suites := junitTestSuites{Name: "hyperlint"}

	for _, fr := range r.FileReports {
		if len(fr.Hard) == 0 && len(fr.Soft) == 0 {
			continue
		}
		suite := junitTestSuite{Name: fr.Path}

		for _, h := range fr.Hard {
			suite.Tests++
			suite.Failures++
			suite.TestCases = append(suite.TestCases, junitTestCase{
				Name:      string(h),
				ClassName: fr.Path,
				Failure: &junitFailure{
					Message: fmt.Sprintf("bad link %s", h),
					Type:    "hard",
					Content: fmt.Sprintf("error: bad link %s\n", h),
				},
			})
		}
		for _, h := range fr.Soft {
			suite.Tests++
			suite.Failures++
			suite.TestCases = append(suite.TestCases, junitTestCase{
				Name:      string(h),
				ClassName: fr.Path,
				Failure: &junitFailure{
					Message: fmt.Sprintf("bad anchor %s", h),
					Type:    "soft",
					Content: fmt.Sprintf("warning: bad anchor %s\n", h),
				},
			})
		}

		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.TestSuite = append(suites.TestSuite, suite)
	}

	if len(suites.TestSuite) == 0 {
		suites.TestSuite = append(suites.TestSuite, junitTestSuite{Name: "all-links"})
	}

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}
