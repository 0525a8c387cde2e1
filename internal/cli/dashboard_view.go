package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/stint/internal/aggregate"
	"github.com/alexanderramin/stint/internal/cli/formatter"
	"github.com/alexanderramin/stint/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func fmtSeconds(sec int) string {
	return formatter.FormatSeconds(sec)
}

// todayEntries returns the current day view of the store.
func (m *dashboardModel) todayEntries() []domain.Entry {
	return aggregate.Summarize(m.app.Store.Entries(), time.Now()).Entries
}

func (m *dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.mode == modeStartForm || m.mode == modeClearConfirm {
		b.WriteString(m.form.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderTimer())
	b.WriteString("\n\n")
	b.WriteString(m.renderToday())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(formatter.StyleYellow.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *dashboardModel) renderHeader() string {
	title := formatter.StyleHeader.Render("STINT")
	return title + "  " + formatter.TimerPill(m.app.Store.Running())
}

func (m *dashboardModel) renderTimer() string {
	session := m.app.Store.Active()
	if session == nil {
		return formatter.RenderBox("", formatter.Dim("No timer running — press s to start one.")+
			"\n"+formatter.StyleFg.Render(formatter.ClockFormat(0)))
	}

	bigClock := lipgloss.NewStyle().
		Foreground(formatter.ColorGreen).
		Bold(true).
		Render(formatter.ClockFormat(m.elapsed))

	line := fmt.Sprintf("%s  since %s",
		formatter.StyleBold.Render(session.JobNumber),
		formatter.TimeOfDay(session.StartedAt))
	return formatter.RenderBox("", line+"\n"+bigClock)
}

func (m *dashboardModel) renderToday() string {
	summary := aggregate.Summarize(m.app.Store.Entries(), time.Now())
	if len(summary.Entries) == 0 {
		return formatter.Dim("No entries today.") + "\n"
	}

	rows := make([][]string, 0, len(summary.Entries))
	for i, e := range summary.Entries {
		marker := "  "
		job := e.JobNumber
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("> ")
			job = formatter.StyleBold.Render(job)
		}
		rows = append(rows, []string{
			marker + job,
			formatter.TimeOfDay(e.StartedAt),
			formatter.TimeOfDay(e.EndedAt),
			formatter.FormatSeconds(e.DurationSeconds),
			e.Notes,
		})
	}

	var b strings.Builder
	b.WriteString(formatter.RenderTable([]string{"  JOB", "START", "END", "TIME", "NOTES"}, rows))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Today: %s\n", formatter.StyleBold.Render(formatter.FormatSeconds(summary.TotalSeconds))))

	for _, jt := range summary.JobTotals {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			formatter.StyleBlue.Render(jt.JobNumber),
			formatter.FormatSeconds(jt.Seconds)))
	}
	return b.String()
}

func (m *dashboardModel) renderHelp() string {
	bindings := []key.Binding{
		m.keys.Start, m.keys.Stop, m.keys.Delete, m.keys.Clear, m.keys.Up, m.keys.Down, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, fmt.Sprintf("%s %s",
			formatter.StyleFg.Render(kb.Help().Key),
			formatter.Dim(kb.Help().Desc)))
	}
	return formatter.Dim(strings.Join(parts, "  ·  "))
}
