// Package ui implements the Bubble Tea browser over the release ledger. It is
// read-only: release decisions are made by the gatekeeper, never from here.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/VoxDroid/relgate/internal/ledger"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	detailStyle = lipgloss.NewStyle().Padding(1, 2)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type entryItem struct {
	e ledger.Entry
}

func (i entryItem) Title() string {
	return fmt.Sprintf("%s %s", i.e.Version, outcomeBadge(i.e.Outcome))
}

func (i entryItem) Description() string {
	if i.e.Detail != "" {
		return i.e.CreatedAt + " — " + i.e.Detail
	}
	return i.e.CreatedAt
}

func (i entryItem) FilterValue() string { return i.e.Version + " " + i.e.Outcome }

func outcomeBadge(outcome string) string {
	switch outcome {
	case "published":
		return okStyle.Render("published")
	case "aborted":
		return failStyle.Render("aborted")
	default:
		return skipStyle.Render(outcome)
	}
}

// Model is the ledger browser: a list of decisions and an optional detail
// pane for the selected entry.
type Model struct {
	list       list.Model
	showDetail bool
}

// NewModel constructs the browser over the given entries (newest first).
func NewModel(entries []ledger.Entry) *Model {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryItem{e: e})
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "relgate — release decisions"
	l.SetShowStatusBar(false)
	return &Model{list: l}
}

// NewProgram constructs the tea.Program for the browser.
func NewProgram(entries []ledger.Entry) *tea.Program {
	return tea.NewProgram(NewModel(entries), tea.WithAltScreen())
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.showDetail {
				m.showDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			m.showDetail = !m.showDetail
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if m.showDetail {
		return detailStyle.Render(m.detailView())
	}
	return m.list.View()
}

func (m *Model) detailView() string {
	it, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return "no entry selected\n\npress esc to go back"
	}
	e := it.e
	detail := e.Detail
	if detail == "" {
		detail = "-"
	}
	return titleStyle.Render("release decision") + "\n\n" +
		fmt.Sprintf("version:  %s\noutcome:  %s\ndetail:   %s\nrecorded: %s", e.Version, e.Outcome, detail, e.CreatedAt) +
		"\n\npress esc to go back"
}
