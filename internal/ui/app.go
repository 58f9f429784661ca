// Package ui provides an interactive terminal user interface for the check
// command. It uses the Bubble Tea framework to show scanning progress and
// the final defect list, filterable by severity.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyperlint/hyperlint/internal/driver"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

// appState represents the current phase of the application lifecycle.
type appState int

const (
	stateRunning appState = iota // Discovery, extraction and classification in flight
	stateResults                 // Showing the defect list
)

// =============================================================================
// FILTER TYPES
// =============================================================================

// filterType represents the active result filter in the UI.
type filterType int

const (
	filterAll  filterType = iota // Hard and soft defects
	filterHard                   // Bad links only
	filterSoft                   // Bad anchors only
)

const filterCount = 3

// String returns the human-readable label for the filter type.
func (f filterType) String() string {
	switch f {
	case filterAll:
		return "All Defects"
	case filterHard:
		return "Bad Links"
	case filterSoft:
		return "Bad Anchors"
	default:
		return "Unknown"
	}
}

// Next returns the next filter type in the cycle.
func (f filterType) Next() filterType {
	return (f + 1) % filterCount
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the main application model.
type Model struct {
	list list.Model
	help help.Model
	err  error

	opts driver.Options
	keys KeyMap

	report *driver.Report
	items  []DefectItem

	spinner spinner.Model
	state   appState

	filter filterType

	width    int
	height   int
	quitting bool
	showHelp bool
}

// New creates and returns a new Model for the given check options.
func New(opts driver.Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	h := help.New()
	k := DefaultKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "hyperlint"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false) // We use our own help
	l.Styles.Title = TitleStyle

	return Model{
		state:   stateRunning,
		spinner: s,
		list:    l,
		help:    h,
		keys:    k,
		filter:  filterAll,
		opts:    opts,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, RunCheckCmd(m.opts))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := max(msg.Height-12, 5)
		m.list.SetSize(msg.Width, listHeight)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ExtractionDoneMsg:
		return m.handleExtractionDone(msg)
	}

	if m.state == stateResults {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input and dispatches to appropriate handlers.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.state == stateResults {
		if key.Matches(msg, m.keys.Filter) {
			m.filter = m.filter.Next()
			m.updateListItems()
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleExtractionDone processes the finished check report.
func (m *Model) handleExtractionDone(msg ExtractionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}
	m.report = msg.Report
	m.items = DefectsFromReport(msg.Report)
	m.state = stateResults
	m.updateListItems()
	return m, nil
}

// updateListItems updates the list with filtered items.
func (m *Model) updateListItems() {
	filtered := m.getFilteredItems()
	items := make([]list.Item, len(filtered))
	for i, it := range filtered {
		items[i] = it
	}
	m.list.SetItems(items)
}

// getFilteredItems returns items based on the current filter.
func (m *Model) getFilteredItems() []DefectItem {
	switch m.filter {
	case filterHard:
		var out []DefectItem
		for _, it := range m.items {
			if it.Hard {
				out = append(out, it)
			}
		}
		return out
	case filterSoft:
		var out []DefectItem
		for _, it := range m.items {
			if !it.Hard {
				out = append(out, it)
			}
		}
		return out
	default:
		return m.items
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var s string

	s += TitleStyle.Render("hyperlint - link and anchor checker")
	s += "\n\n"

	if m.err != nil {
		s += ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		s += "\n"
		s += HelpStyle.Render("Press q to quit")
		return s
	}

	switch m.state {
	case stateRunning:
		s += m.spinner.View() + " Scanning and checking links..."
	case stateResults:
		s += m.renderResults()
	}

	if m.showHelp {
		s += "\n\n" + m.help.View(m.keys)
	} else {
		s += "\n\n" + m.renderShortHelp()
	}

	return s
}

// renderResults renders the final results view with filtering options.
func (m Model) renderResults() string {
	var s string

	r := m.report
	s += fmt.Sprintf("Scanned %d file(s), checked %d link(s)", r.FilesScanned, r.LinksChecked)
	if r.SourceFiles > 0 {
		s += fmt.Sprintf(" (%d markdown source(s) mapped)", r.SourceFiles)
	}
	s += "\n\n"

	s += fmt.Sprintf("%s | %s\n\n",
		ErrorStyle.Render(fmt.Sprintf("✗ %d bad links", r.HardCount)),
		WarningStyle.Render(fmt.Sprintf("⚠ %d bad anchors", r.SoftCount)))

	if r.HardCount == 0 && r.SoftCount == 0 {
		s += SuccessStyle.Render("No broken links found.")
		return s
	}

	filteredCount := len(m.getFilteredItems())
	s += fmt.Sprintf("Filter: %s (%d/%d)\n\n",
		SelectedStyle.Render(m.filter.String()),
		filteredCount,
		len(m.items))

	s += m.list.View()

	if selected := m.list.SelectedItem(); selected != nil {
		if item, ok := selected.(DefectItem); ok {
			s += "\n" + item.DetailView()
		}
	}

	return s
}

// renderShortHelp renders a compact help line at the bottom of the screen.
func (Model) renderShortHelp() string {
	return HelpStyle.Render("↑/↓ navigate • f filter • ? help • q quit")
}
