package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Crazy-Trade/Crypto-Game-AI/internal/engine"
	"github.com/Crazy-Trade/Crypto-Game-AI/internal/game"
)

type sessionState int

const (
	stateMenu sessionState = iota
	stateSetup
	stateLoading
	statePlaying
	stateError
)

// setup steps, in order
const (
	stepProjectName = iota
	stepTicker
	stepFounderName
)

type model struct {
	state     sessionState
	eng       *engine.Engine
	language  string
	hasSave   bool
	setupStep int
	settings  game.Settings

	textInput textinput.Model
	viewport  viewport.Model
	spin      spinner.Model
	gameLog   string
	status    string
	err       error

	width  int
	height int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FFF87")).
			Bold(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D7FF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	sideStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func NewModel(eng *engine.Engine, hasSave bool, language string) model {
	ti := textinput.New()
	ti.CharLimit = 156
	ti.Width = 40
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		eng:      eng,
		language: language,
		hasSave:  hasSave,
		spin:     sp,
	}
	if hasSave {
		m.state = stateMenu
		ti.Placeholder = "(c)ontinue or (n)ew game?"
	} else {
		m.state = stateSetup
		ti.Placeholder = "Name your coin..."
	}
	m.textInput = ti
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

type gameReadyMsg struct {
	ev game.GameEvent
}

type gameLoadedMsg struct{}

type turnDoneMsg struct {
	ev  game.GameEvent
	err error
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.68)
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.gameLog)
		}

	case spinner.TickMsg:
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case gameReadyMsg:
		m.state = statePlaying
		m.gameLog = ""
		m.appendEvent(msg.ev)
		m.ensureViewport()
		m.textInput.Placeholder = "What do you do?"
		m.textInput.Reset()
		return m, nil

	case gameLoadedMsg:
		m.state = statePlaying
		m.gameLog = ""
		for _, ev := range m.eng.Snapshot().History {
			m.appendEvent(ev)
		}
		m.ensureViewport()
		m.textInput.Placeholder = "What do you do?"
		m.textInput.Reset()
		return m, nil

	case turnDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		m.appendEvent(msg.ev)
		m.viewport.SetContent(m.gameLog)
		m.viewport.GotoBottom()
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state != stateLoading {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())

	switch m.state {
	case stateMenu:
		switch strings.ToLower(input) {
		case "c", "continue", "":
			m.state = stateLoading
			m.textInput.Reset()
			return m, m.loadGame()
		case "n", "new":
			m.state = stateSetup
			m.textInput.Reset()
			m.textInput.Placeholder = "Name your coin..."
		}
		return m, nil

	case stateSetup:
		if input == "" {
			return m, nil
		}
		m.textInput.Reset()
		switch m.setupStep {
		case stepProjectName:
			m.settings.ProjectName = input
			m.setupStep = stepTicker
			m.textInput.Placeholder = "Ticker symbol (e.g. MOON)..."
		case stepTicker:
			m.settings.Ticker = strings.ToUpper(input)
			m.setupStep = stepFounderName
			m.textInput.Placeholder = "Your founder name..."
		case stepFounderName:
			m.settings.FounderName = input
			m.settings.Language = m.language
			m.state = stateLoading
			return m, m.startGame(m.settings)
		}
		return m, nil

	case statePlaying:
		if input == "" {
			return m, nil
		}
		m.textInput.Reset()
		return m.handleCommand(input)
	}
	return m, nil
}

// handleCommand routes slash commands and choice shortcuts; anything else
// becomes the player's free-text action for the turn.
func (m model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/quit":
		return m, tea.Quit

	case "/new":
		m.state = stateSetup
		m.setupStep = stepProjectName
		m.settings = game.Settings{}
		m.gameLog = ""
		m.status = ""
		m.textInput.Placeholder = "Name your coin..."
		return m, nil

	case "/fork":
		m.state = stateLoading
		return m, m.forkGame()

	case "/shop":
		m.gameLog += m.renderShop()
		m.viewport.SetContent(m.gameLog)
		m.viewport.GotoBottom()
		return m, nil

	case "/buy":
		if len(fields) != 3 {
			m.status = "usage: /buy <slot 0-11> <miner|validator|rpc|firewall>"
			return m, nil
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			m.status = "usage: /buy <slot 0-11> <miner|validator|rpc|firewall>"
			return m, nil
		}
		mod, err := m.eng.Purchase(slot, game.ModuleType(fields[2]))
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("installed %s in slot %d", mod.Name, slot)
		return m, nil

	case "/sell":
		if len(fields) != 2 {
			m.status = "usage: /sell <slot 0-11>"
			return m, nil
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			m.status = "usage: /sell <slot 0-11>"
			return m, nil
		}
		if err := m.eng.RemoveModule(slot); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("slot %d cleared (no refund)", slot)
		return m, nil
	}

	// A bare number picks one of the offered choices.
	action := input
	if n, err := strconv.Atoi(input); err == nil {
		snap := m.eng.Snapshot()
		choices := snap.LatestChoices()
		if n >= 1 && n <= len(choices) {
			action = choices[n-1]
		}
	}

	logWidth := m.viewport.Width
	m.gameLog += "\n\n" + userStyle.Width(logWidth).Render("> "+action) + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
	return m, m.resolveTurn(action)
}

func (m *model) ensureViewport() {
	logWidth := int(float64(m.width) * 0.68)
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(logWidth, m.height-6)
	}
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m *model) appendEvent(ev game.GameEvent) {
	logWidth := m.viewport.Width
	if logWidth == 0 {
		logWidth = 80
	}
	var block string
	switch ev.Type {
	case game.EventChoice:
		block = userStyle.Width(logWidth).Render("> " + ev.Narrative)
	case game.EventAlert:
		block = alertStyle.Width(logWidth).Render(ev.Narrative)
	case game.EventSuccess:
		block = successStyle.Width(logWidth).Render(ev.Narrative)
	case game.EventFailure:
		block = alertStyle.Width(logWidth).Render(ev.Narrative)
	default:
		block = gameStyle.Width(logWidth).Render(ev.Narrative)
	}
	m.gameLog += block + "\n"
	if len(ev.Choices) > 0 {
		for i, c := range ev.Choices {
			m.gameLog += choiceStyle.Render(fmt.Sprintf("  [%d] %s", i+1, c)) + "\n"
		}
	}
	m.gameLog += "\n"
}

func (m model) renderShop() string {
	s := "\n" + titleStyle.Render("HARDWARE SHOP") + "\n"
	for _, t := range []game.ModuleType{game.ModuleMiner, game.ModuleValidator, game.ModuleRPC, game.ModuleFirewall} {
		def := game.Catalog[t]
		s += fmt.Sprintf("  %-10s $%d (upkeep $%d): %s\n", t, def.Cost, def.Maintenance, def.Description)
	}
	s += helpStyle.Render("  /buy <slot 0-11> <type>   /sell <slot>") + "\n\n"
	return s
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateMenu:
		s = fmt.Sprintf(
			"CRYPTO FOUNDER\n\nA saved project was found.\n\n%s",
			m.textInput.View(),
		)

	case stateSetup:
		prompts := []string{
			"What is your cryptocurrency project called?",
			"Pick a ticker symbol:",
			"And who are you, founder?",
		}
		s = fmt.Sprintf("CRYPTO FOUNDER\n\n%s\n\n%s", prompts[m.setupStep], m.textInput.View())

	case stateLoading:
		s = fmt.Sprintf("\n  %s consulting the market oracle...\n", m.spin.View())

	case statePlaying:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderSidebar(),
		)
		help := helpStyle.Render("Commands: /shop, /buy, /sell, /fork (after victory), /new, /quit — or type an action.")
		status := ""
		if m.status != "" {
			status = alertStyle.Render(m.status)
		}
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			status,
			help,
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderSidebar() string {
	st := m.eng.Snapshot()
	stats := st.Stats

	content := titleStyle.Render(st.Settings.ProjectName) + "\n"
	content += fmt.Sprintf("$%s — era %d, turn %d\n\n", st.Settings.Ticker, stats.Era, st.TurnCount)

	content += titleStyle.Render("STATS") + "\n"
	content += fmt.Sprintf("Funds:  $%d\n", stats.Funds)
	content += fmt.Sprintf("Users:  %d\n", stats.Users)
	content += fmt.Sprintf("Security:   %d/100\n", stats.Security)
	content += fmt.Sprintf("Hype:       %d/100\n", stats.Hype)
	content += fmt.Sprintf("Tech:       %d/100\n", stats.TechLevel)
	content += fmt.Sprintf("Decentral.: %d/100\n\n", stats.Decentralization)

	content += titleStyle.Render("GRID") + "\n"
	for i, mod := range st.Grid.Slots {
		if mod == nil {
			content += fmt.Sprintf("%2d: (empty)\n", i)
		} else {
			content += fmt.Sprintf("%2d: %s\n", i, mod.Name)
		}
	}

	sideWidth := m.width - m.viewport.Width - 4
	if sideWidth < 20 {
		sideWidth = 20
	}
	return sideStyle.Width(sideWidth).Height(m.viewport.Height).Render(content)
}

func (m model) startGame(settings game.Settings) tea.Cmd {
	return func() tea.Msg {
		ev, err := m.eng.StartNewGame(context.Background(), settings)
		if err != nil {
			return errMsg{err}
		}
		return gameReadyMsg{ev}
	}
}

func (m model) forkGame() tea.Cmd {
	return func() tea.Msg {
		ev, err := m.eng.Fork(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return gameReadyMsg{ev}
	}
}

func (m model) loadGame() tea.Cmd {
	return func() tea.Msg {
		ok, err := m.eng.Load(context.Background())
		if err != nil {
			return errMsg{err}
		}
		if !ok {
			return errMsg{fmt.Errorf("saved game disappeared")}
		}
		return gameLoadedMsg{}
	}
}

func (m model) resolveTurn(action string) tea.Cmd {
	return func() tea.Msg {
		ev, err := m.eng.ResolveTurn(context.Background(), action)
		return turnDoneMsg{ev, err}
	}
}

// Run starts the interactive terminal session.
func Run(eng *engine.Engine, hasSave bool, language string) error {
	p := tea.NewProgram(NewModel(eng, hasSave, language), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
