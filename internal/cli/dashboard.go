package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/stint/internal/clock"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// dashboardKeys defines the key bindings for the dashboard.
type dashboardKeys struct {
	Start  key.Binding
	Stop   key.Binding
	Delete key.Binding
	Clear  key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/switch"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete entry"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// elapsedMsg carries one LiveClock reading into the update loop.
type elapsedMsg int

// watchClosedMsg signals that the LiveClock channel was halted.
type watchClosedMsg struct{}

// dashboardMode selects what the content area is showing.
type dashboardMode int

const (
	modeBrowse dashboardMode = iota
	modeStartForm
	modeClearConfirm
)

// dashboardModel is the root bubbletea model for the TUI. It renders the
// live timer, today's entries and totals, and drives the TimeStore from
// key presses. All reads of timer state go through the App's TimeStore;
// the model itself owns only view state.
type dashboardModel struct {
	app   *App
	clock *clock.LiveClock
	keys  dashboardKeys

	width  int
	height int

	// Live display state. elapsed mirrors the latest LiveClock reading
	// and is reset to 0 whenever no session is active.
	ticks   <-chan int
	elapsed int

	// cursor selects a row in today's entry table.
	cursor int

	mode    dashboardMode
	form    *huh.Form
	formJob string
	formNts string
	confirm bool

	status   string
	quitting bool
}

func newDashboardModel(app *App) *dashboardModel {
	return &dashboardModel{
		app:   app,
		clock: clock.New(),
		keys:  newDashboardKeys(),
	}
}

// runDashboard starts the TUI event loop and blocks until it exits.
func runDashboard(app *App) error {
	m := newDashboardModel(app)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *dashboardModel) Init() tea.Cmd {
	if m.app.Store.Running() {
		return m.startWatch()
	}
	return nil
}

// startWatch points the LiveClock at the current session and returns a
// command that waits for its first reading.
func (m *dashboardModel) startWatch() tea.Cmd {
	session := m.app.Store.Active()
	if session == nil {
		return nil
	}
	m.elapsed = session.ElapsedSeconds(time.Now())
	m.ticks = m.clock.Watch(*session)
	return m.nextReading()
}

// nextReading blocks (inside the tea runtime) until the LiveClock emits.
func (m *dashboardModel) nextReading() tea.Cmd {
	ch := m.ticks
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return elapsedMsg(v)
	}
}

// stopWatch halts the ticker and zeroes the live display.
func (m *dashboardModel) stopWatch() {
	m.clock.Halt()
	m.ticks = nil
	m.elapsed = 0
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case elapsedMsg:
		m.elapsed = int(msg)
		return m, m.nextReading()

	case watchClosedMsg:
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeStartForm, modeClearConfirm:
			return m.updateForm(msg)
		default:
			return m.handleBrowseKey(msg)
		}
	}

	if m.mode == modeStartForm || m.mode == modeClearConfirm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *dashboardModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopWatch()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		m.openStartForm()
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Stop):
		entry, err := m.app.Store.Stop(context.Background(), "")
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.stopWatch()
		if entry == nil {
			m.status = "No timer running."
		} else {
			m.status = fmt.Sprintf("Recorded %s for %s.", fmtSeconds(entry.DurationSeconds), entry.JobNumber)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()

	case key.Matches(msg, m.keys.Clear):
		m.openClearConfirm()
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.todayEntries())-1 {
			m.cursor++
		}
		return m, nil
	}
	return m, nil
}

func (m *dashboardModel) deleteSelected() (tea.Model, tea.Cmd) {
	today := m.todayEntries()
	if len(today) == 0 || m.cursor >= len(today) {
		return m, nil
	}
	target := today[m.cursor]
	if err := m.app.Store.Delete(context.Background(), target.ID); err != nil {
		m.status = err.Error()
		return m, nil
	}
	if m.cursor >= len(m.todayEntries()) && m.cursor > 0 {
		m.cursor--
	}
	m.status = fmt.Sprintf("Deleted entry for %s.", target.JobNumber)
	return m, nil
}

// openStartForm builds the huh form for starting (or switching to) a job.
func (m *dashboardModel) openStartForm() {
	m.formJob = ""
	m.formNts = ""

	jobTitle := "Job Number"
	if m.app.Store.Running() {
		jobTitle = fmt.Sprintf("Switch from %s to", m.app.Store.Active().JobNumber)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(jobTitle).
				Placeholder("JOB-1234").
				Value(&m.formJob),
			huh.NewInput().
				Title("Notes (closing note when switching)").
				Value(&m.formNts),
		),
	).WithTheme(stintHuhTheme()).WithShowHelp(false)
	m.mode = modeStartForm
}

// openClearConfirm builds the confirmation gate for clear-all.
func (m *dashboardModel) openClearConfirm() {
	m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all entries?").
				Description(clearDescription(m.app)).
				Affirmative("Delete everything").
				Negative("Cancel").
				Value(&m.confirm),
		),
	).WithTheme(stintHuhTheme()).WithShowHelp(false)
	m.mode = modeClearConfirm
}

// updateForm forwards messages to the active huh form and applies the
// result once it completes or aborts.
func (m *dashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		mode := m.mode
		m.closeForm()
		if mode == modeStartForm {
			return m, m.submitStart()
		}
		return m, m.submitClear()
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *dashboardModel) closeForm() {
	m.form = nil
	m.mode = modeBrowse
}

func (m *dashboardModel) submitStart() tea.Cmd {
	session, err := m.app.Store.Start(context.Background(), m.formJob, m.formNts)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	if session == nil {
		m.status = "Nothing started: job number is empty."
		return nil
	}
	m.status = fmt.Sprintf("Timing %s.", session.JobNumber)
	m.cursor = 0
	// Restart the live display for the new session (switch included).
	m.stopWatch()
	return m.startWatch()
}

func (m *dashboardModel) submitClear() tea.Cmd {
	if !m.confirm {
		m.status = "Nothing cleared."
		return nil
	}
	if err := m.app.Store.ClearAll(context.Background()); err != nil {
		m.status = err.Error()
		return nil
	}
	m.stopWatch()
	m.cursor = 0
	m.status = "All entries cleared."
	return nil
}
