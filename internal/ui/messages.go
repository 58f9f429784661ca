package ui

import "github.com/hyperlint/hyperlint/internal/driver"

// DiscoveryDoneMsg describes a finished site discovery. No command in this
// package sends it and Model does not handle it; a check run reports only
// through ExtractionDoneMsg.
type DiscoveryDoneMsg struct {
	Err          error
	FilesScanned int
}

// ExtractionDoneMsg is sent when the HTML extraction fan-out (and the
// optional Markdown paragraph bridge) has finished and a final report is
// ready to display.
type ExtractionDoneMsg struct {
	Err    error
	Report *driver.Report
}
