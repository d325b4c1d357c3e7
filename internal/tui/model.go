// Package tui is the interactive day view: a live timeline with gap
// synthesis, per-member tabs, and a stats overlay.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravityplanner/gravity/internal/app"
	"github.com/gravityplanner/gravity/internal/store"
)

type mode int

const (
	modeView mode = iota
	modeStartInput
)

type tickMsg time.Time

// Model is the bubbletea model for the day view.
type Model struct {
	app  *app.App
	keys KeyMap
	help help.Model

	memberID  string
	date      time.Time
	showStats bool

	mode  mode
	input textinput.Model

	width  int
	height int
}

// New constructs the model positioned on today for the current member.
func New(a *app.App) Model {
	ti := textinput.New()
	ti.Placeholder = "what are you doing?"
	ti.CharLimit = 120

	s := a.Store.State()
	return Model{
		app:      a,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		memberID: s.CurrentMemberID,
		date:     time.Now(),
		input:    ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		if m.mode == modeStartInput {
			return m.updateStartInput(msg)
		}
		return m.updateView(msg)
	}
	return m, nil
}

func (m Model) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Start):
		m.mode = modeStartInput
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Stop):
		m.app.StopActivity(m.memberID)
		return m, nil

	case key.Matches(msg, m.keys.Session):
		m.toggleSession()
		return m, nil

	case key.Matches(msg, m.keys.Member):
		m.memberID = m.nextMember()
		return m, nil

	case key.Matches(msg, m.keys.PrevDay):
		m.date = m.date.AddDate(0, 0, -1)
		return m, nil

	case key.Matches(msg, m.keys.NextDay):
		m.date = m.date.AddDate(0, 0, 1)
		return m, nil

	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
		return m, nil
	}
	return m, nil
}

func (m Model) updateStartInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CancelKey):
		m.mode = modeView
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		title := m.input.Value()
		m.mode = modeView
		m.input.Blur()
		if title != "" {
			m.app.StartActivity(m.memberID, title, "", "")
			m.date = time.Now()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) nextMember() string {
	s := m.app.Store.State()
	for i, mem := range s.Members {
		if mem.ID == m.memberID {
			return s.Members[(i+1)%len(s.Members)].ID
		}
	}
	if len(s.Members) > 0 {
		return s.Members[0].ID
	}
	return m.memberID
}

func (m Model) toggleSession() {
	m.app.Store.Dispatch(store.ToggleSession{MemberID: m.memberID, Now: time.Now().UTC()})
}

// Run starts the interactive session.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
