// Package ui provides the Bubble Tea TUI for the best price aggregator.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Waiting for the first run
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

const noCandidateText = "No exchange returned a usable quote"

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// ScopeOption is one entry of the exchange selector.
type ScopeOption struct {
	Value string // "all" or an exchange id
	Label string // e.g. "Binance (fee: 0.10%)"
}

// Selection is the query chosen in the selectors.
type Selection struct {
	Crypto string
	Fiat   string
	Scope  string
}

// Options configures the selectors.
type Options struct {
	Cryptos []string
	Fiats   []string
	Scopes  []ScopeOption
	Initial Selection
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	quotes *components.QuotesComponent
	best   *components.BestPriceComponent
	stats  *components.StatsComponent

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// Selectors
	cryptos   []string
	fiats     []string
	scopes    []ScopeOption
	cryptoIdx int
	fiatIdx   int
	scopeIdx  int

	// Phase state
	phase        Phase
	welcomeStart time.Time
	startupTime  time.Time

	// State
	ready       bool
	quitting    bool
	fetching    bool
	singleScope bool
	width       int
	height      int
	lastUpdate  time.Time
	lastRunID   string
	errors      []ErrorEntry // last 3
}

// New creates a new TUI model.
func New(opts Options) Model {
	now := time.Now()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	m := Model{
		quotes:       components.NewQuotesComponent(),
		best:         components.NewBestPriceComponent(50),
		stats:        components.NewStatsComponent(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		cryptos:      opts.Cryptos,
		fiats:        opts.Fiats,
		scopes:       opts.Scopes,
		phase:        PhaseWelcome,
		welcomeStart: now,
		startupTime:  now,
		errors:       make([]ErrorEntry, 0, 3),
	}
	m.cryptoIdx = indexOf(m.cryptos, opts.Initial.Crypto)
	m.fiatIdx = indexOf(m.fiats, opts.Initial.Fiat)
	for i, s := range m.scopes {
		if strings.EqualFold(s.Value, opts.Initial.Scope) {
			m.scopeIdx = i
		}
	}
	return m
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if strings.EqualFold(s, v) {
			return i
		}
	}
	return 0
}

// Selection returns the query currently chosen in the selectors.
func (m Model) Selection() Selection {
	var sel Selection
	if len(m.cryptos) > 0 {
		sel.Crypto = m.cryptos[m.cryptoIdx]
	}
	if len(m.fiats) > 0 {
		sel.Fiat = m.fiats[m.fiatIdx]
	}
	if len(m.scopes) > 0 {
		sel.Scope = m.scopes[m.scopeIdx].Value
	}
	return sel
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.enterStartup()
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Crypto):
			m.cryptoIdx = next(m.cryptoIdx, len(m.cryptos))
			m.submit()
		case key.Matches(msg, m.keys.Fiat):
			m.fiatIdx = next(m.fiatIdx, len(m.fiats))
			m.submit()
		case key.Matches(msg, m.keys.Scope):
			m.scopeIdx = next(m.scopeIdx, len(m.scopes))
			m.submit()
		case key.Matches(msg, m.keys.Refresh):
			m.fetching = true
			if OnRefresh != nil {
				go OnRefresh()
			}
		case key.Matches(msg, m.keys.Up):
			m.best.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.best.ScrollDown()
		case key.Matches(msg, m.keys.Clear):
			m.errors = make([]ErrorEntry, 0, 3)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.enterStartup()
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RunStartedMsg:
		m.fetching = true

	case RunMsg:
		if msg.Run != nil {
			m.applyRun(msg.Run)
		}

	case ErrorMsg:
		m.fetching = false
		if m.phase == PhaseStartup {
			m.phase = PhaseDashboard
		}
		m.stats.RecordError()
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
	}

	return m, nil
}

func next(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i + 1) % n
}

// enterStartup leaves the welcome screen and starts the watch loop.
func (m *Model) enterStartup() {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	// Trigger callback directly (don't use Send() from within Update)
	if OnStartModules != nil {
		go OnStartModules()
	}
}

// submit hands the current selection to the watcher.
func (m *Model) submit() {
	m.fetching = true
	if OnQuery != nil {
		sel := m.Selection()
		go OnQuery(sel)
	}
}

func (m *Model) applyRun(run *domain.Run) {
	m.fetching = false
	m.phase = PhaseDashboard
	m.lastUpdate = time.Now()
	m.lastRunID = run.ID.String()
	m.singleScope = !run.Query.Scope.IsAll()

	rows := make([]components.QuoteRow, 0, len(run.Results))
	for _, r := range run.Rows() {
		state := components.RowOK
		switch r.Status {
		case domain.StatusFailed:
			state = components.RowFailed
		case domain.StatusUnsupported:
			state = components.RowUnsupported
		}
		rows = append(rows, components.QuoteRow{
			Exchange: r.DisplayName,
			Bid:      r.Bid,
			Ask:      r.Ask,
			State:    state,
			Error:    r.Error,
		})
	}
	m.quotes.Update(run.Query.Pair.Caption(), rows, run.Notes)

	counts := run.Counts()
	m.stats.Record(counts[domain.StatusFulfilled], counts[domain.StatusFailed], counts[domain.StatusUnsupported], run.Duration())

	if m.singleScope {
		return
	}
	row := components.BestPriceRow{
		Timestamp: run.FinishedAt.Format("15:04:05"),
		Pair:      run.Query.Pair.Compact(),
	}
	if run.Best == nil {
		row.Message = noCandidateText
	} else {
		row.BidLabel = run.Best.BestBid.Label()
		row.Bid = run.Best.BestBid.Effective
		row.AskLabel = run.Best.BestAsk.Label()
		row.Ask = run.Best.BestAsk.Effective
		row.Profit = run.Best.ProfitPercent
	}
	m.best.Add(row)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Best Price "))
	b.WriteString("\n\n")
	b.WriteString(m.renderSelectionBar())
	b.WriteString("\n\n")

	leftCol := m.quotes.View()
	rightCol := m.renderBestPanel()

	width := m.width
	if width == 0 {
		width = 80
	}
	if width > 100 {
		left := BoxStyle.Width(width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(width - 4).Render(rightCol))
	}
	b.WriteString("\n\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderBestPanel() string {
	if m.singleScope {
		var sb strings.Builder
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Render("BEST PRICE"))
		sb.WriteString("\n\n")
		sb.WriteString(MutedValue.Render("  Select all exchanges to compare prices"))
		return sb.String()
	}
	return m.best.View()
}

func (m Model) renderSelectionBar() string {
	sel := m.Selection()
	scopeLabel := sel.Scope
	if len(m.scopes) > 0 {
		scopeLabel = m.scopes[m.scopeIdx].Label
	}

	parts := []string{
		SelectorLabel.Render("Crypto ") + SelectorValue.Render(strings.ToUpper(sel.Crypto)),
		SelectorLabel.Render("Fiat ") + SelectorValue.Render(strings.ToUpper(sel.Fiat)),
		SelectorLabel.Render("Exchange ") + SelectorValue.Render(scopeLabel),
	}

	if m.fetching {
		parts = append(parts, PositiveValue.Render(m.spinner.View()+" Fetching"))
	} else if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	goldStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)

	elapsed := time.Since(m.welcomeStart)
	dots := strings.Repeat(".", int(elapsed.Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")
	sb.WriteString(titleStyle.Render("              B E S T   P R I C E"))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("     best bid and ask across crypto exchanges"))
	sb.WriteString("\n\n\n")
	sb.WriteString(goldStyle.Render(fmt.Sprintf("          %d exchanges, %d cryptos, %d fiats", len(m.scopes)-1, len(m.cryptos), len(m.fiats))))
	sb.WriteString("\n\n\n")
	sb.WriteString(PositiveValue.Render(fmt.Sprintf("                  Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("            Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

// renderStartupScreen renders the screen shown until the first run arrives.
func (m Model) renderStartupScreen() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(TitleStyle.Render(" Best Price "))
	sb.WriteString("\n\n")
	sel := m.Selection()
	sb.WriteString(headerStyle.Render(fmt.Sprintf("  %s Querying %s/%s...", m.spinner.View(), strings.ToUpper(sel.Crypto), strings.ToUpper(sel.Fiat))))
	sb.WriteString("\n\n")
	for _, s := range m.scopes {
		if s.Value == string(domain.ScopeAll) {
			continue
		}
		sb.WriteString(MutedValue.Render("  ○ " + s.Label))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(MutedValue.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n")
	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and the watch loop should start.
var OnStartModules func()

// OnQuery is called with the new selection when a selector changes.
var OnQuery func(Selection)

// OnRefresh is called when the user asks for an immediate refresh.
var OnRefresh func()

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	// Call OnStartModules callback when StartModulesMsg is sent
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
