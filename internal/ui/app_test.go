package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pulsar/internal/config"
	"github.com/five82/pulsar/internal/prefs"
	"github.com/five82/pulsar/internal/state"
	"github.com/five82/pulsar/pkg/whatpulse"
)

type fakeActions struct {
	mu        sync.Mutex
	pulses    int
	refreshes int
	pulseErr  error
}

func (f *fakeActions) Refresh(ctx context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return 0
}

func (f *fakeActions) PulseNow(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulses++
	return f.pulseErr
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, actions Actions) Model {
	t.Helper()
	return newTestModelWithLog(t, actions, "")
}

func newTestModelWithLog(t *testing.T, actions Actions, logPath string) Model {
	t.Helper()
	m := New(Options{
		Store:     &state.Store{},
		Actions:   actions,
		Config:    config.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		LogPath:   logPath,
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return updated.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{})
	if m.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", m.theme.Name)
	}
	if m.prefs.Units != prefs.UnitsDecimal {
		t.Fatalf("units = %q, want decimal", m.prefs.Units)
	}
	if m.pollTick != DefaultUIInterval {
		t.Fatalf("pollTick = %v, want %v", m.pollTick, DefaultUIInterval)
	}
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before resize = %q, want Loading...", got)
	}
}

func TestPulseKey_CallsActionsAndSetsNotice(t *testing.T) {
	actions := &fakeActions{}
	m := newTestModel(t, actions)

	m, cmd := press(t, m, runes("p"))
	if cmd == nil {
		t.Fatalf("pulse key returned nil cmd")
	}
	if !m.pulsing {
		t.Fatalf("pulsing = false after pulse key")
	}

	// A second press while the first is in flight is ignored.
	if _, again := press(t, m, runes("p")); again != nil {
		t.Fatalf("second pulse while pulsing returned a cmd")
	}

	msg := cmd()
	if actions.pulses != 1 {
		t.Fatalf("PulseNow calls = %d, want 1", actions.pulses)
	}
	updated, next := m.Update(msg)
	m = updated.(Model)
	if m.pulsing {
		t.Fatalf("pulsing still true after result")
	}
	if !strings.Contains(m.notice.text, "does not confirm") || m.notice.isErr {
		t.Fatalf("notice = %+v, want unconfirmed pulse note", m.notice)
	}
	if next == nil {
		t.Fatalf("pulse result should schedule a snapshot read")
	}
}

func TestPulseKey_ErrorNotice(t *testing.T) {
	actions := &fakeActions{pulseErr: whatpulse.ErrAccessDenied}
	m := newTestModel(t, actions)

	m, cmd := press(t, m, runes("p"))
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	if !m.notice.isErr || !strings.Contains(m.notice.text, "Pulse failed") {
		t.Fatalf("notice = %+v, want pulse failure", m.notice)
	}
}

func TestRefreshKey(t *testing.T) {
	actions := &fakeActions{}
	m := newTestModel(t, actions)

	_, cmd := press(t, m, runes("r"))
	if cmd == nil {
		t.Fatalf("refresh key returned nil cmd")
	}
	if _, ok := cmd().(refreshDoneMsg); !ok {
		t.Fatalf("refresh cmd did not return refreshDoneMsg")
	}
	if actions.refreshes != 1 {
		t.Fatalf("Refresh calls = %d, want 1", actions.refreshes)
	}
}

func TestUnitsAndThemePersist(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, runes("u"))
	if m.prefs.Units != prefs.UnitsBinary {
		t.Fatalf("units = %q, want binary", m.prefs.Units)
	}
	m, _ = press(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	saved := prefs.Load(m.prefsPath)
	if saved.Units != prefs.UnitsBinary || saved.Theme != "Kanagawa" {
		t.Fatalf("saved prefs = %+v, want binary/Kanagawa", saved)
	}
}

func TestViewSwitchingAndQuit(t *testing.T) {
	m := newTestModelWithLog(t, nil, filepath.Join(t.TempDir(), "pulsar.log"))

	m, cmd := press(t, m, runes("l"))
	if m.currentView != ViewLogs {
		t.Fatalf("view = %v, want logs", m.currentView)
	}
	if cmd == nil {
		t.Fatalf("entering logs should read the log file")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewStats {
		t.Fatalf("esc from logs = %v, want stats", m.currentView)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.currentView != ViewLogs {
		t.Fatalf("tab from stats = %v, want logs", m.currentView)
	}
	m, _ = press(t, m, runes("s"))
	if m.currentView != ViewStats {
		t.Fatalf("s = %v, want stats", m.currentView)
	}

	m, _ = press(t, m, runes("?"))
	if !m.showHelp {
		t.Fatalf("? did not open help")
	}
	m, _ = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned nil cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c cmd did not quit")
	}
	if _, cmd = press(t, m, runes("q")); cmd == nil {
		t.Fatalf("q returned nil cmd")
	}
}

func TestView_RendersTotals(t *testing.T) {
	m := newTestModel(t, nil)
	updated, _ := m.Update(snapshotMsg(sampleSnapshot()))
	m = updated.(Model)

	out := m.View()
	for _, want := range []string{"pulsar", "ONLINE", "1,234,567", "#42", "Projected"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View missing %q:\n%s", want, out)
		}
	}
}

func TestView_ConnectingAndError(t *testing.T) {
	m := newTestModel(t, nil)
	if out := m.View(); !strings.Contains(out, "Connecting") {
		t.Fatalf("View before data missing Connecting:\n%s", out)
	}

	snap := state.Snapshot{LastError: whatpulse.ErrAccessDenied, ConsecutiveFailures: 1}
	updated, _ := m.Update(snapshotMsg(snap))
	m = updated.(Model)
	if out := m.View(); !strings.Contains(out, "ACCESS") {
		t.Fatalf("View missing ACCESS DENIED:\n%s", out)
	}
}

func TestLogsView_LoadsAndSearches(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pulsar.log")
	content := strings.Join([]string{
		`{"level":"info","ts":"2025-06-01T12:00:00.000Z","msg":"pulsar starting"}`,
		`{"level":"warn","ts":"2025-06-01T12:00:02.000Z","msg":"stats poll failed","failures":1}`,
		`{"level":"info","ts":"2025-06-01T12:00:04.000Z","msg":"pulse requested"}`,
	}, "\n") + "\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := newTestModelWithLog(t, nil, logPath)
	m, cmd := press(t, m, runes("l"))
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	if len(m.logState.rawLines) != 3 {
		t.Fatalf("rawLines = %d, want 3", len(m.logState.rawLines))
	}
	if !strings.HasPrefix(m.logState.rawLines[1], "2025-06-01 12:00:02 WARN stats poll failed") {
		t.Fatalf("line not formatted: %q", m.logState.rawLines[1])
	}

	m, _ = press(t, m, runes("/"))
	if !m.logState.searchActive {
		t.Fatalf("/ did not start search")
	}
	for _, r := range "pulse" {
		m, _ = press(t, m, runes(string(r)))
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.logState.searchActive {
		t.Fatalf("enter did not close search input")
	}
	if len(m.logState.searchMatches) != 1 || m.logState.searchMatches[0] != 2 {
		t.Fatalf("searchMatches = %v, want [2]", m.logState.searchMatches)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.logState.searchRegex != nil {
		t.Fatalf("esc did not clear search")
	}
	if m.currentView != ViewLogs {
		t.Fatalf("esc with active search should stay in logs")
	}
}

func TestLogsView_FollowsAppendedLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pulsar.log")
	first := `{"level":"info","ts":"2025-06-01T12:00:00.000Z","msg":"pulsar starting"}` + "\n"
	if err := os.WriteFile(logPath, []byte(first), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	m := newTestModelWithLog(t, nil, logPath)
	m, cmd := press(t, m, runes("l"))
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	if len(m.logState.rawLines) != 1 {
		t.Fatalf("rawLines = %d, want 1", len(m.logState.rawLines))
	}

	if msg := m.refreshLogs(true)(); msg != nil {
		t.Fatalf("unchanged log produced %T, want nil", msg)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	_, _ = f.WriteString(`{"level":"error","ts":"2025-06-01T12:00:09.000Z","msg":"pulse failed"}` + "\n")
	_ = f.Close()

	updated, _ = m.Update(m.refreshLogs(true)())
	m = updated.(Model)
	if len(m.logState.rawLines) != 2 {
		t.Fatalf("rawLines = %d, want 2", len(m.logState.rawLines))
	}
	if !strings.Contains(m.logState.rawLines[1], "ERROR pulse failed") {
		t.Fatalf("appended line = %q", m.logState.rawLines[1])
	}
}

func TestTick_ExpiresNotice(t *testing.T) {
	m := newTestModel(t, nil)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.setNotice("hello", false)

	m.now = func() time.Time { return base.Add(NoticeTTL + time.Second) }
	updated, cmd := m.Update(tickMsg(base))
	m = updated.(Model)
	if m.notice.text != "" {
		t.Fatalf("notice not cleared: %+v", m.notice)
	}
	if cmd == nil {
		t.Fatalf("tick should schedule the next tick")
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{whatpulse.ErrAccessDenied, "ACCESS DENIED"},
		{whatpulse.ErrNotFound, "UNSUPPORTED CLIENT"},
		{whatpulse.ErrMethodNotAllowed, "BAD METHOD"},
		{whatpulse.ErrUnknownStatus, "BAD STATUS"},
		{whatpulse.ErrAPI, "API ERROR"},
		{context.DeadlineExceeded, "TIMEOUT"},
		{errors.New("dial tcp 127.0.0.1:3490: connect: connection refused"), "OFFLINE"},
		{errors.New("dial tcp: lookup nowhere: no such host"), "HOST NOT FOUND"},
		{errors.New("weird"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Errorf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
