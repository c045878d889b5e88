// # cmd/stringcheck/ui.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stringcheck/internal/reconcile"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	gapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	isMissing   bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	report     *reconcile.Report
	lastUpdate time.Time
}

type updateMsg struct {
	report *reconcile.Report
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.report = msg.report
		m.lastUpdate = time.Now()
		m.list.SetItems(buildItems(msg.report))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func buildItems(report *reconcile.Report) []list.Item {
	items := []list.Item{}
	if report == nil {
		return items
	}

	for _, missing := range report.HardMissing {
		items = append(items, item{
			title:     "Missing String",
			desc:      fmt.Sprintf("%s / %s in %s:%d", missing.Key.Component, missing.Key.Identifier, missing.File, missing.Line),
			isMissing: true,
		})
	}
	for _, lr := range report.Languages {
		for _, gap := range lr.Missing {
			desc := fmt.Sprintf("[%s] %s / %s", lr.Lang, gap.Key.Component, gap.Key.Identifier)
			if len(gap.AvailableIn) > 0 {
				desc += " (available in: " + strings.Join(gap.AvailableIn, ", ") + ")"
			}
			items = append(items, item{title: "Missing Translation", desc: desc})
		}
	}
	for _, key := range report.PossiblyUnused {
		items = append(items, item{
			title: "Possibly Unused",
			desc:  fmt.Sprintf("%s / %s", key.Component, key.Identifier),
		})
	}
	return items
}

func (m model) View() string {
	var fileCount, usageCount, missing, gaps, avgCoverage int
	if m.report != nil {
		fileCount = m.report.FileCount
		usageCount = m.report.UsageCount
		missing = len(m.report.HardMissing)
		gaps = m.report.GapCount()
		avgCoverage = m.report.AvgCoverage()
	}

	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d usages | avg coverage %d%%",
		m.lastUpdate.Format("15:04:05"), fileCount, usageCount, avgCoverage))

	var summary string
	if missing == 0 && gaps == 0 {
		summary = successStyle.Render("✅ All Strings Resolved")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			missingStyle.Render(fmt.Sprintf("%d Missing", missing)),
			gapStyle.Render(fmt.Sprintf("%d Gaps", gaps)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Language String Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Findings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
