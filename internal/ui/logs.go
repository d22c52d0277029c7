package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pulsar/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	tail        *logtail.Follower
	rawLines    []string
	follow      bool
	lastRefresh time.Time
	lastErr     error

	// Search
	searchActive   bool
	searchQuery    string
	searchRegex    *regexp.Regexp
	searchInput    textinput.Model
	searchMatches  []int // Line indices that match
	searchMatchIdx int

	// Skip re-rendering when nothing changed
	contentVersion uint64
	lastRendered   uint64
}

func (m *Model) initLogState() {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100

	m.logState = logState{follow: true}
	m.logState.searchInput = ti
	if m.logPath != "" {
		m.logState.tail = logtail.NewFollower(m.logPath, LogBufferLimit)
	}
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 0), max(m.height-5, 0))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport resizes the viewport and re-renders content if it changed.
func (m *Model) updateLogViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// Box height = m.height - 3 (header, cmdbar, status line); inner drops two borders.
	m.logViewport.Width = max(m.width-4, 0)
	m.logViewport.Height = max(m.height-5, 0)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = max(m.logState.contentVersion, 1)
		if m.logState.contentVersion == 0 {
			m.logState.contentVersion = 1
		}
	}

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view: a bordered viewport plus a status line.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()
	contentHeight := m.height - 3

	box := m.renderBox("Log "+truncateMiddle(m.logPath, 60), m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

// renderLogStatus renders the line under the log box.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.searchActive {
		return bg.Render("/", styles.AccentText) + m.logState.searchInput.View()
	}

	if m.logState.searchRegex != nil && len(m.logState.searchMatches) > 0 {
		return bg.Render("/"+m.logState.searchQuery, styles.AccentText) +
			bg.Render(" - ", styles.FaintText) +
			bg.Render(fmt.Sprintf("%d/%d", m.logState.searchMatchIdx+1, len(m.logState.searchMatches)), styles.WarningText) +
			bg.Render(" - Press ", styles.FaintText) +
			bg.Render("n", styles.AccentText) +
			bg.Render(" for next, ", styles.FaintText) +
			bg.Render("N", styles.AccentText) +
			bg.Render(" for previous, ", styles.FaintText) +
			bg.Render("Esc", styles.AccentText) +
			bg.Render(" to clear", styles.FaintText)
	}
	if m.logState.searchRegex != nil {
		return bg.Render("Pattern not found: "+m.logState.searchQuery, styles.DangerText)
	}

	autoTail := "off"
	if m.logState.follow {
		autoTail = "on"
	}
	parts := []string{
		bg.Render(fmt.Sprintf("%d lines auto-tail %s", len(m.logState.rawLines), autoTail), styles.FaintText),
	}
	if m.logState.lastErr != nil {
		parts = append(parts, bg.Render(truncate(m.logState.lastErr.Error(), 60), styles.DangerText))
	}
	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// renderLogContent renders the colorized, numbered log lines.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if len(m.logState.rawLines) == 0 {
		msg := "No log entries"
		if m.logPath == "" {
			msg = "No log file configured"
		}
		return bg.FillLine(bg.Render(msg, styles.MutedText), width)
	}

	matchSet := make(map[int]bool, len(m.logState.searchMatches))
	for _, idx := range m.logState.searchMatches {
		matchSet[idx] = true
	}
	activeMatchLine := -1
	if m.logState.searchMatchIdx < len(m.logState.searchMatches) {
		activeMatchLine = m.logState.searchMatches[m.logState.searchMatchIdx]
	}

	var b strings.Builder
	for i, line := range m.logState.rawLines {
		gutter := fmt.Sprintf("%4d │ ", i+1)

		var lineContent string
		switch {
		case i == activeMatchLine:
			highlight := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Warning)).
				Foreground(lipgloss.Color(m.theme.Background))
			lineContent = highlight.Render(gutter + line)
		case matchSet[i]:
			lineContent = bg.Render(gutter, styles.AccentText) + bg.Render(line, styles.AccentText)
		default:
			lineContent = bg.Render(gutter, styles.FaintText) + m.colorizeLine(line, styles, bg)
		}

		b.WriteString(bg.FillLine(lineContent, width))
		if i < len(m.logState.rawLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var (
	timestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	levelRe     = regexp.MustCompile(`^\s*(DEBUG|INFO|WARN|ERROR|DPANIC|PANIC|FATAL)\b`)
	fieldRe     = regexp.MustCompile(`\s([A-Za-z_][\w.]*)=`)
)

// colorizeLine styles a line produced by logtail.FormatLine.
func (m *Model) colorizeLine(line string, styles Styles, bg BgStyle) string {
	if strings.TrimSpace(line) == "" {
		return line
	}

	var result strings.Builder
	remaining := line

	if loc := timestampRe.FindStringSubmatchIndex(remaining); loc != nil {
		result.WriteString(bg.Render(remaining[loc[2]:loc[3]], styles.FaintText))
		remaining = remaining[loc[3]:]
	}

	if loc := levelRe.FindStringSubmatchIndex(remaining); loc != nil {
		level := remaining[loc[2]:loc[3]]
		if result.Len() > 0 {
			result.WriteString(bg.Space())
		}
		result.WriteString(bg.Render(level, levelStyle(level, styles).Bold(true)))
		remaining = remaining[loc[3]:]
	}

	// Message up to the first key=value field, then fields muted.
	msg, fields := remaining, ""
	if loc := fieldRe.FindStringIndex(remaining); loc != nil {
		msg, fields = remaining[:loc[0]], remaining[loc[0]:]
	}
	if msg = strings.TrimSpace(msg); msg != "" {
		if result.Len() > 0 {
			result.WriteString(bg.Space())
		}
		result.WriteString(bg.Render(msg, styles.Text))
	}
	if fields = strings.TrimSpace(fields); fields != "" {
		result.WriteString(bg.Space())
		result.WriteString(bg.Render(fields, styles.MutedText))
	}
	return result.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		if m.logState.follow {
			cmd := m.refreshLogs(true)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.logState.searchActive = true
		m.logState.searchInput.SetValue("")
		cmd := m.logState.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextMatch):
		m.moveSearchMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.moveSearchMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.logState.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
			return m, nil
		}
		m.currentView = ViewStats
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true

	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfViewDown()
		m.logState.follow = false

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfViewUp()
		m.logState.follow = false

	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.ViewDown()
		m.logState.follow = false

	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.ViewUp()
		m.logState.follow = false
	}

	return m, nil
}

// handleLogSearchInput handles keyboard input while typing a search.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.logState.searchInput.Value()
		if query == "" {
			m.logState.searchActive = false
			m.logState.searchInput.Blur()
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			// Invalid pattern: stay in search mode so it can be fixed.
			return m, nil
		}
		m.logState.searchRegex = re
		m.logState.searchQuery = query
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.findSearchMatches()
		if len(m.logState.searchMatches) > 0 {
			m.logState.searchMatchIdx = 0
			m.scrollToSearchMatch()
		}
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) clearLogSearch() {
	m.logState.searchRegex = nil
	m.logState.searchQuery = ""
	m.logState.searchMatches = nil
	m.logState.searchMatchIdx = 0
	m.logState.contentVersion++
}

func (m *Model) findSearchMatches() {
	m.logState.searchMatches = nil
	m.logState.contentVersion++
	if m.logState.searchRegex == nil {
		return
	}
	for i, line := range m.logState.rawLines {
		if m.logState.searchRegex.MatchString(line) {
			m.logState.searchMatches = append(m.logState.searchMatches, i)
		}
	}
	if m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		m.logState.searchMatchIdx = 0
	}
}

// moveSearchMatch steps through matches, wrapping at both ends.
func (m *Model) moveSearchMatch(delta int) {
	n := len(m.logState.searchMatches)
	if n == 0 {
		return
	}
	m.logState.searchMatchIdx = ((m.logState.searchMatchIdx+delta)%n + n) % n
	m.logState.contentVersion++
	m.scrollToSearchMatch()
	m.updateLogViewport()
}

// scrollToSearchMatch centers the current match when possible.
func (m *Model) scrollToSearchMatch() {
	if m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		return
	}
	target := m.logState.searchMatches[m.logState.searchMatchIdx]
	m.logState.follow = false
	m.logViewport.SetYOffset(max(target-m.logViewport.Height/2, 0))
}

// refreshLogs picks up lines appended to the log file. Unless force is set,
// reads are debounced to LogRefreshDebounce.
func (m *Model) refreshLogs(force bool) tea.Cmd {
	if m.logState.tail == nil {
		return nil
	}
	now := m.now()
	if !force && now.Sub(m.logState.lastRefresh) < LogRefreshDebounce {
		return nil
	}
	m.logState.lastRefresh = now

	tail := m.logState.tail
	return func() tea.Msg {
		lines, changed, err := tail.Poll()
		if err != nil {
			return logErrorMsg{err: err}
		}
		if !changed {
			return nil
		}
		return logBatchMsg{lines: logtail.FormatLines(lines)}
	}
}

type logBatchMsg struct {
	lines []string
}

type logErrorMsg struct {
	err error
}

func (m *Model) handleLogBatch(msg logBatchMsg) {
	m.logState.lastErr = nil
	if equalLines(m.logState.rawLines, msg.lines) {
		return
	}
	m.logState.rawLines = msg.lines
	if m.logState.searchRegex != nil {
		m.findSearchMatches()
	}
	m.logState.contentVersion++
	m.updateLogViewport()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// renderBox draws a rounded border with the title set into the top edge.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return content
	}
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Width(width - 2).
		Height(height - 2).
		MaxHeight(height)

	lines := strings.Split(box.Render(content), "\n")
	if title != "" && len(lines) > 0 {
		lines[0] = m.boxTopBorder(title, width, borderColor)
	}
	return strings.Join(lines, "\n")
}

func (m Model) boxTopBorder(title string, width int, borderColor string) string {
	border := lipgloss.NewStyle().
		Foreground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(m.theme.Background))
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Text)).
		Background(lipgloss.Color(m.theme.Background)).
		Bold(true)

	inner := width - 2
	title = truncate(title, max(inner-4, 0))
	fill := inner - lipgloss.Width(title) - 3
	if fill < 0 {
		fill = 0
	}
	return border.Render("╭─ ") + titleStyle.Render(title) +
		border.Render(" "+strings.Repeat("─", fill)+"╮")
}
