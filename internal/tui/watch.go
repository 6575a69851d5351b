// Package tui implements the live daemon watch view.
package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"admetrics/internal/daemon"
)

const pollEvery = 2 * time.Second

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3AA99F"))
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6F6E69"))
	valStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFCF0"))
	errStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#D14D41"))
)

type statusMsg struct {
	status daemon.Status
	err    error
}

type pollTick struct{}

// Model is the bubbletea model for `admetrics watch`.
type Model struct {
	addr    string
	spin    spinner.Model
	status  daemon.Status
	haveOne bool
	lastErr error
}

// NewModel returns a watch model polling the daemon at addr.
func NewModel(addr string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AA99F"))
	return Model{addr: addr, spin: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, fetchStatus(m.addr), schedulePoll())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case statusMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.haveOne = true
		}
		return m, nil
	case pollTick:
		return m, tea.Batch(fetchStatus(m.addr), schedulePoll())
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(watchTitleStyle.Render("admetrics daemon"))
	b.WriteString("  ")
	b.WriteString(m.spin.View())
	b.WriteString("\n\n")

	if m.lastErr != nil && !m.haveOne {
		b.WriteString(errStyle.Render(fmt.Sprintf("  cannot reach daemon at %s: %v", m.addr, m.lastErr)))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("  q to quit"))
		return b.String()
	}

	s := m.status
	line := func(label, value string) {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(valStyle.Render(value))
		b.WriteString("\n")
	}

	line("started", s.StartedAt.Format(time.RFC3339))
	line("daily at", s.DailyAt)
	line("weekly at", fmt.Sprintf("%s (%s)", s.WeeklyAt, s.WeeklyWeekday))
	line("daily runs", fmt.Sprintf("%d", s.DailyRuns))
	line("weekly runs", fmt.Sprintf("%d", s.WeeklyRuns))
	if s.LastDailyDay != "" {
		line("last daily", s.LastDailyDay)
	}
	if s.LastWeeklyDay != "" {
		line("last weekly", s.LastWeeklyDay)
	}
	if s.LastDailyErr != "" {
		b.WriteString(errStyle.Render("  daily error:  " + s.LastDailyErr))
		b.WriteString("\n")
	}
	if s.LastWeeklyErr != "" {
		b.WriteString(errStyle.Render("  weekly error: " + s.LastWeeklyErr))
		b.WriteString("\n")
	}
	if m.lastErr != nil {
		b.WriteString(errStyle.Render("  poll error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  q to quit"))
	return b.String()
}

func fetchStatus(addr string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 3 * time.Second}
		resp, err := client.Get("http://" + addr + "/v1/status")
		if err != nil {
			return statusMsg{err: err}
		}
		defer func() { _ = resp.Body.Close() }()

		var status daemon.Status
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{status: status}
	}
}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollEvery, func(time.Time) tea.Msg { return pollTick{} })
}
