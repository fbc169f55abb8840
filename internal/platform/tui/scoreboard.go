package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilelab/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show level list sidebar
	sidebarWidth       = 24  // Width of level list sidebar
	maxLevels          = 50  // Max levels listed
	maxScores          = 100 // Max solves to load
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevLevel, k.NextLevel, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevLevel, k.NextLevel},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextLevel: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("right/tab", "next level")),
		PrevLevel: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("left", "prev level")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardEmptyStyle  = boardDimStyle.Italic(true).Padding(2, 4)
)

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	levels      []string       // Ids of solved levels
	levelCursor int            // Currently selected level index
	store       *storage.Store // Solve storage
	scores      []storage.SolveEntry
	stats       *storage.LevelStats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show level list sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var levels []string
	if store != nil {
		//nolint:errcheck // An unreadable store shows as empty
		levels, _ = store.SolvedLevels(maxLevels)
	}

	keys := DefaultScoreboardKeyMap()
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		levels:      levels,
		levelCursor: 0,
		store:       store,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	// Initialize table
	m.table = m.createTable()

	if len(m.levels) > 0 {
		m.loadScores(m.levels[0])
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 10},
		{Title: "Moves", Width: 6},
		{Title: "Pushes", Width: 6},
		{Title: "Date", Width: 14},
	}

	// Calculate available width for table
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	// Adjust column widths if we have more space
	if tableWidth > 50 {
		columns[1].Width = min(tableWidth-40, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-9), // Header, summary, help and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores loads the best solves and the summary of a level.
func (m *ScoreboardModel) loadScores(levelID string) {
	m.scores, m.stats = nil, nil
	if m.store != nil {
		if scores, err := m.store.TopSolves(levelID, maxScores); err == nil {
			m.scores = scores
		}
		if stats, err := m.store.GetLevelStats(levelID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// selectLevel moves the level cursor by delta, wrapping around.
func (m *ScoreboardModel) selectLevel(delta int) {
	n := len(m.levels)
	if n == 0 {
		return
	}
	m.levelCursor = ((m.levelCursor+delta)%n + n) % n
	m.loadScores(m.levels[m.levelCursor])
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			s.Player,
			fmt.Sprintf("%d", s.Moves),
			fmt.Sprintf("%d", s.Pushes),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextLevel):
			m.selectLevel(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			m.selectLevel(-1)
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "BEST SOLVES"
	if len(m.levels) > 0 {
		title = "BEST SOLVES - " + m.levels[m.levelCursor]
	}

	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.renderBoard())
	} else {
		body = centerText(m.renderLevelSwitcher(), m.width) + "\n\n" + centerText(m.renderBoard(), m.width)
	}

	return boardTitleStyle.Render(centerText(title, m.width)) + "\n\n" +
		body + "\n" +
		boardDimStyle.Render(m.help.View(m.keys))
}

// renderSidebar lists the solved levels, marking the selected one.
func (m ScoreboardModel) renderSidebar() string {
	lines := []string{"Levels", strings.Repeat("-", sidebarWidth-4)}
	for i, id := range m.levels {
		if len(id) > sidebarWidth-6 {
			id = id[:sidebarWidth-7] + "."
		}
		if i == m.levelCursor {
			lines = append(lines, boardActiveStyle.Render("> "+id))
		} else {
			lines = append(lines, "  "+id)
		}
	}
	return boardBoxStyle.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

// renderLevelSwitcher shows the selected level and its position.
func (m ScoreboardModel) renderLevelSwitcher() string {
	if len(m.levels) == 0 {
		return ""
	}
	return boardDimStyle.Render("<  ") +
		boardActiveStyle.Render(m.levels[m.levelCursor]) +
		boardDimStyle.Render(fmt.Sprintf("  %d/%d  >", m.levelCursor+1, len(m.levels)))
}

// renderBoard renders the summary line and the solves table.
func (m ScoreboardModel) renderBoard() string {
	if len(m.scores) == 0 {
		return boardBoxStyle.Render(boardEmptyStyle.Render("No solves recorded yet.\nSolve a level to set a record!"))
	}
	content := m.table.View()
	if m.stats != nil && m.stats.Solves > 0 {
		summary := fmt.Sprintf("%d solves  best %d moves / %d pushes  avg %.1f moves",
			m.stats.Solves, m.stats.BestMoves, m.stats.BestPushes, m.stats.AvgMoves)
		content = boardDimStyle.Render(summary) + "\n" + content
	}
	return boardBoxStyle.Render(content)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
