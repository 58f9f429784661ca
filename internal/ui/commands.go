package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyperlint/hyperlint/internal/driver"
)

// RunCheckCmd runs a full check (all seven driver phases) and reports the
// finished Report back to the model. Unlike the teacher's checker, which
// streamed one HTTP result at a time over a channel, driver.Run is a single
// synchronous call — there is no network round trip to stream, so the
// interactive view has exactly one long-running command rather than a
// result-at-a-time loop.
func RunCheckCmd(opts driver.Options) tea.Cmd {
	return func() tea.Msg {
		report, err := driver.Run(opts)
		return ExtractionDoneMsg{Report: report, Err: err}
	}
}
