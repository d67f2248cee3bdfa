package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"relicpanel/internal/app"
	"relicpanel/internal/db"
	"relicpanel/internal/models"
)

// Panel is what the TUI drives. *app.App implements it.
type Panel interface {
	Status() app.Status
	Subscribe(fn func(app.Status)) (unsubscribe func())
	Roster() models.Roster
	Features() []models.Feature
	ReadCard(i int) (bool, error)
	Discuss(i int) error
	TogglePanel() bool
	ToggleDiscussion() bool
	ExecuteLine(line string) (app.Result, error)
	Runs(limit int) ([]db.Run, error)
}

// statusMsg tells the model the panel state changed
type statusMsg struct{}

type Model struct {
	panel  Panel
	roster models.Roster

	width, height int
	ready         bool
	mode          ViewMode

	cards      *CardList
	transcript *TranscriptView
	history    *HistoryState
	spinner    spinner.Model
	input      textinput.Model

	status  app.Status
	notice  string
	isError bool

	updates     chan struct{}
	unsubscribe func()
}

func New(panel Panel) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = StatusWarn

	ti := textinput.New()
	ti.Prompt = ":"
	ti.Placeholder = "/start, /discuss 1, /help"
	ti.CharLimit = 200

	m := &Model{
		panel:      panel,
		roster:     panel.Roster(),
		cards:      NewCardList(panel.Features()),
		transcript: NewTranscriptView(40, 10),
		history:    NewHistoryState(),
		spinner:    sp,
		input:      ti,
		status:     panel.Status(),
		updates:    make(chan struct{}, 1),
	}
	m.unsubscribe = panel.Subscribe(func(app.Status) {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	return m
}

// Close releases the state subscription
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func waitForStatus(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return statusMsg{}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForStatus(m.updates), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.history.SetMaxHeight(msg.Height)
		m.layout()

	case statusMsg:
		m.status = m.panel.Status()
		m.layout()
		cmds = append(cmds, waitForStatus(m.updates))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ViewCommand:
			return m, m.updateCommand(msg)
		case ViewHistory:
			m.updateHistory(msg)
			return m, nil
		case ViewHelp, ViewMessage:
			switch msg.String() {
			case "esc", "?", "q", "enter":
				m.mode = ViewNormal
				m.notice = ""
			}
			return m, nil
		}
		return m, m.updateNormal(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.transcript.Viewport, cmd = m.transcript.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateNormal(msg tea.KeyMsg) tea.Cmd {
	m.notice = ""
	m.isError = false

	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		m.cards.Up()
	case "down", "j":
		m.cards.Down()
	case "enter", " ":
		m.cards.Toggle()
	case "r":
		if reading, err := m.panel.ReadCard(m.cards.Cursor()); err != nil {
			m.setError(err)
		} else if reading {
			m.notice = "liest vor..."
		}
	case "d":
		if err := m.panel.Discuss(m.cards.Cursor()); err != nil {
			m.setError(err)
		}
	case "p":
		m.panel.TogglePanel()
	case "s":
		if m.status.PanelOpen {
			m.panel.ToggleDiscussion()
		}
	case ":":
		m.mode = ViewCommand
		m.input.SetValue("/")
		m.input.CursorEnd()
		return m.input.Focus()
	case "h":
		m.openHistory()
	case "e":
		return m.execute("/export")
	case "?":
		m.mode = ViewHelp
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript.Viewport, cmd = m.transcript.Viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateCommand(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.leaveCommand()
		return nil
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		m.leaveCommand()
		if line == "" || line == "/" {
			return nil
		}
		return m.execute(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) leaveCommand() {
	m.input.Blur()
	m.input.SetValue("")
	m.mode = ViewNormal
}

func (m *Model) execute(line string) tea.Cmd {
	if !strings.HasPrefix(line, "/") {
		line = "/" + line
	}
	res, err := m.panel.ExecuteLine(line)
	if err != nil {
		m.setError(err)
		return nil
	}

	m.notice = res.Message
	m.isError = false
	if strings.Contains(res.Message, "\n") && res.Action == app.ActionNone {
		m.mode = ViewMessage
		return nil
	}
	switch res.Action {
	case app.ActionQuit:
		return tea.Quit
	case app.ActionShowHelp:
		m.notice = ""
		m.mode = ViewHelp
	case app.ActionShowHistory:
		m.openHistory()
	}
	return nil
}

func (m *Model) openHistory() {
	m.history.Load(m.panel.Runs)
	m.mode = ViewHistory
}

func (m *Model) updateHistory(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.history.Up()
	case "down", "j":
		m.history.Down()
	case "esc", "q", "h":
		m.mode = ViewNormal
	}
}

func (m *Model) setError(err error) {
	m.notice = err.Error()
	m.isError = true
}

// panelWidth splits the screen between cards and the discussion panel
func (m *Model) panelWidth() int {
	if !m.status.PanelOpen {
		return 0
	}
	return m.width / 2
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	if w := m.panelWidth(); w > 0 {
		// border and title lines
		m.transcript.SetSize(w-4, m.height-8)
	}
	m.transcript.Sync(m.status.Transcript, m.roster)
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case ViewHistory:
		return m.history.Render(m.width, m.height)
	case ViewHelp:
		return HelpContent(m.width, m.height)
	case ViewMessage:
		return messageOverlay(m.notice, m.width, m.height)
	}

	header := TitleStyle.Render(models.ProjectTitle) + "  " + DimStyle.Render("? help")

	reading := -1
	for i := range m.panel.Features() {
		if m.status.Playing == app.CardChannel(i) {
			reading = i
		}
	}

	bodyHeight := m.height - 4
	cardsWidth := m.width - m.panelWidth()
	cards := lipgloss.NewStyle().
		Width(cardsWidth).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(m.cards.Render(cardsWidth, reading))

	body := cards
	if m.status.PanelOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards, m.renderPanel(bodyHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m *Model) renderPanel(height int) string {
	w := m.panelWidth()
	title := TitleStyle.Render("PANEL") + " " + stateLabel(m.status.Snapshot)
	if m.status.Generating {
		next := m.roster.Get(m.status.CurrentSpeaker)
		title += " " + m.spinner.View() + " " + SpeakerStyle(next).Render(next.Name)
	}
	if m.status.Topic != "" {
		title += "\n" + DimStyle.Render("Thema: "+m.status.Topic)
	}

	content := m.transcript.Viewport.View()
	if len(m.status.Transcript) == 0 && !m.status.Running {
		content = DimStyle.Render("Drücke s, um die Diskussion zu starten.")
	}

	box := InactiveBox
	if m.status.Running {
		box = ActiveBox
	}
	return box.Width(w - 2).Height(height - 2).Render(title + "\n\n" + content)
}

func (m *Model) renderFooter() string {
	if m.mode == ViewCommand {
		return m.input.View()
	}
	if m.notice != "" {
		if m.isError {
			return ErrorStyle.Render(m.notice)
		}
		return SystemStyle.Render(m.notice)
	}
	return DimStyle.Render("enter expand · r read · d discuss · p panel · s start/stop · e export · : command · h history · q quit")
}

func messageOverlay(text string, width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Sky).
		Padding(1, 2).
		MaxWidth(width - 10).
		MaxHeight(height - 4)

	body := text + "\n\n" + DimStyle.Render("Esc: Close")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(body))
}
