package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/pulsar/pkg/whatpulse"
)

const accountTotalsBody = `{"clicks":"2500","download":"1500","keys":"1234567","upload":"12","uptime":"90061",` +
	`"ranks":{"rank_clicks":"3","rank_download":"7","rank_keys":"42","rank_upload":"0","rank_uptime":"1"}}`

const unpulsedBody = `{"clicks":7,"download":3,"keys":120,"upload":1,"uptime":45}`

// fakeWhatPulse serves the three client API endpoints and counts pulses.
type fakeWhatPulse struct {
	server    *httptest.Server
	pulses    atomic.Int32
	userAgent atomic.Value
}

func newFakeWhatPulse(t *testing.T) *fakeWhatPulse {
	t.Helper()
	f := &fakeWhatPulse{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/account-totals", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(accountTotalsBody))
	})
	mux.HandleFunc("/v1/unpulsed", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(unpulsedBody))
	})
	mux.HandleFunc("/v1/pulse", func(w http.ResponseWriter, r *http.Request) {
		f.pulses.Add(1)
		f.userAgent.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// endpointArgs returns flags pointing the CLI at server with an empty config.
func endpointArgs(t *testing.T, server *httptest.Server) []string {
	t.Helper()
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	return []string{
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
		"--host", u.Hostname(),
		"--port", u.Port(),
		"--timeout", "2s",
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTotalsCmd_PrintsTable(t *testing.T) {
	f := newFakeWhatPulse(t)

	out, _, err := execute(t, append([]string{"totals"}, endpointArgs(t, f.server)...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"METRIC", "TOTAL", "RANK"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Keys", "1,234,567", "#42"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Clicks", "2,500", "#3"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Download", "1.50", "GB", "#7"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"Upload", "12", "MB", "-"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"Uptime", "1d", "1h", "1m", "#1"}, strings.Fields(lines[5]))
}

func TestTotalsCmd_JSON(t *testing.T) {
	f := newFakeWhatPulse(t)

	out, _, err := execute(t, append([]string{"totals", "--json"}, endpointArgs(t, f.server)...)...)
	require.NoError(t, err)

	var got whatpulse.AccountTotals
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, uint64(1234567), got.Keys)
	assert.Equal(t, uint64(42), got.Ranks.Keys)
	assert.Equal(t, uint64(90061), got.Uptime)
}

func TestUnpulsedCmd(t *testing.T) {
	f := newFakeWhatPulse(t)

	out, _, err := execute(t, append([]string{"unpulsed"}, endpointArgs(t, f.server)...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"METRIC", "UNPULSED"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Keys", "120"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Uptime", "45s"}, strings.Fields(lines[5]))

	out, _, err = execute(t, append([]string{"unpulsed", "--json"}, endpointArgs(t, f.server)...)...)
	require.NoError(t, err)
	var got whatpulse.UnpulsedStats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, whatpulse.UnpulsedStats{Clicks: 7, Download: 3, Keys: 120, Upload: 1, Uptime: 45}, got)
}

func TestPulseCmd(t *testing.T) {
	f := newFakeWhatPulse(t)

	out, _, err := execute(t, append([]string{"pulse"}, endpointArgs(t, f.server)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Pulse requested")
	assert.Contains(t, out, "does not report")
	assert.Equal(t, int32(1), f.pulses.Load())
	assert.Equal(t, "pulsar/"+version, f.userAgent.Load())
}

func TestCmd_ReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/account-totals":
			w.WriteHeader(http.StatusUnauthorized)
		case "/v1/pulse":
			_, _ = w.Write([]byte(`{"error":"pulse disabled"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	_, _, err := execute(t, append([]string{"totals"}, endpointArgs(t, server)...)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, whatpulse.ErrAccessDenied)
	assert.Contains(t, err.Error(), "fetch account totals")

	_, _, err = execute(t, append([]string{"unpulsed"}, endpointArgs(t, server)...)...)
	assert.ErrorIs(t, err, whatpulse.ErrNotFound)

	_, _, err = execute(t, append([]string{"pulse"}, endpointArgs(t, server)...)...)
	assert.ErrorIs(t, err, whatpulse.ErrAPI)
	assert.Contains(t, err.Error(), "pulse disabled")
}

func TestCmd_FlagsOverrideConfigFile(t *testing.T) {
	f := newFakeWhatPulse(t)
	u, err := url.Parse(f.server.URL)
	require.NoError(t, err)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("host = \"192.0.2.1\"\nport = 1\n"), 0o644))

	_, _, err = execute(t, "totals", "--config", cfgPath, "--host", u.Hostname(), "--port", u.Port())
	require.NoError(t, err)
}

func TestCmd_RejectsBadFlags(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "missing.toml")

	_, _, err := execute(t, "totals", "--config", cfg, "--port", "70000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, _, err = execute(t, "totals", "--config", cfg, "--scheme", "ftp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init whatpulse client")

	_, _, err = execute(t, "watch", "--config", cfg, "--poll=-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll interval")
}

func TestLogsCmd(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "pulsar.log")
	content := `{"level":"info","ts":"2025-06-01T12:00:00.000Z","msg":"pulsar starting"}` + "\n" +
		`{"level":"warn","ts":"2025-06-01T12:00:02.000Z","msg":"stats poll failed","failures":1}` + "\n"
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0o644))

	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_file = \""+filepath.ToSlash(logPath)+"\"\n"), 0o644))

	out, _, err := execute(t, "logs", "--config", cfgPath, "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01 12:00:02 WARN stats poll failed failures=1\n", out)

	out, _, err = execute(t, "logs", "--config", cfgPath, "--raw")
	require.NoError(t, err)
	assert.Equal(t, content, out)
}
