package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/pulsar/internal/config"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewStats View = iota
	ViewLogs
)

// Actions are the operations the UI can trigger against WhatPulse.
type Actions interface {
	Refresh(ctx context.Context) int
	PulseNow(ctx context.Context) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Actions   Actions
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	Logger    *zap.Logger
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	actions   Actions
	config    config.Config
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	logger    *zap.Logger
	pollTick  time.Duration
	keys      keyMap
	now       func() time.Time

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Action state
	pulsing    bool
	refreshing bool
	notice     notice

	// Log state
	logViewport viewport.Model
	logState    logState
}

// notice is a transient message shown in the header after an action.
type notice struct {
	text  string
	isErr bool
	at    time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	userPrefs := opts.Prefs
	if userPrefs == (prefs.Prefs{}) {
		userPrefs = prefs.Defaults()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		actions:     opts.Actions,
		config:      opts.Config,
		prefs:       userPrefs,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		logger:      logger,
		pollTick:    pollTick,
		keys:        defaultKeyMap(),
		now:         time.Now,
		theme:       GetTheme(userPrefs.Theme),
		currentView: ViewStats,
	}
	m.initLogState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = m.now()
		return m, nil

	case pulseDoneMsg:
		m.pulsing = false
		if msg.err != nil {
			m.setNotice("Pulse failed: "+msg.err.Error(), true)
		} else {
			m.setNotice("Pulse requested (WhatPulse does not confirm pulses)", false)
		}
		return m, m.snapshotCmd()

	case refreshDoneMsg:
		m.refreshing = false
		return m, m.snapshotCmd()

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil

	case logErrorMsg:
		m.logState.lastErr = msg.err
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Search input swallows everything but its own keys.
	if m.currentView == ViewLogs && m.logState.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleUnits):
		m.prefs = m.prefs.ToggleUnits()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Pulse):
		cmd := m.pulseCmd()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refreshCmd()
		return m, cmd

	case key.Matches(msg, m.keys.ViewStats):
		m.currentView = ViewStats
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		cmd := m.refreshLogs(true)
		return m, cmd

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewStats {
			m.currentView = ViewLogs
			cmd := m.refreshLogs(true)
			return m, cmd
		}
		m.currentView = ViewStats
		return m, nil
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	if key.Matches(msg, m.keys.Escape) {
		m.currentView = ViewStats
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.currentView == ViewLogs && m.logState.follow {
		if cmd := m.refreshLogs(false); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if !m.notice.at.IsZero() && m.now().Sub(m.notice.at) > NoticeTTL {
		m.notice = notice{}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = notice{text: text, isErr: isErr, at: m.now()}
}

// savePrefs persists theme and units. Failures only cost the preference, so
// they are logged and surfaced as a notice.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err), zap.String("path", m.prefsPath))
		m.setNotice("Could not save preferences", true)
	}
}

func (m *Model) pulseCmd() tea.Cmd {
	if m.actions == nil || m.pulsing {
		return nil
	}
	m.pulsing = true
	m.setNotice("Pulsing...", false)
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		return pulseDoneMsg{err: actions.PulseNow(ctx)}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	if m.actions == nil || m.refreshing {
		return nil
	}
	m.refreshing = true
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		actions.Refresh(ctx)
		return refreshDoneMsg{}
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return fetchSnapshotCmd(m.store)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderStats()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type pulseDoneMsg struct{ err error }

type refreshDoneMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
