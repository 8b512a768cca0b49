package bulk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "customTools/internal/error"
	"customTools/internal/models"
	"customTools/internal/ssh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	commands []string
	stderr   map[string]string
}

func (c *recordingConn) Run(_ context.Context, command string) (string, string, error) {
	c.commands = append(c.commands, command)
	return "output of " + command, c.stderr[command], nil
}

func (c *recordingConn) Close() error { return nil }

type fakePool struct {
	conns map[string]*recordingConn
	down  map[string]bool
}

func (p *fakePool) Acquire(_ context.Context, host string) (ssh.Conn, error) {
	if p.down[host] {
		return nil, apperrors.New(apperrors.ConnectionError, fmt.Sprintf("failed to connect to %s", host), errors.New("i/o timeout"))
	}
	c, ok := p.conns[host]
	if !ok {
		c = &recordingConn{}
		p.conns[host] = c
	}
	return c, nil
}

func newTestRunner(t *testing.T, pool Acquirer) (*Runner, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	r := NewRunner(pool, Options{
		Dir:            dir,
		SwitchesFile:   "switches.csv",
		CommandsFile:   "commands.csv",
		CommandTimeout: time.Second,
	}, out, nil)
	r.runID = func() string { return "run-1" }
	return r, out, dir
}

func TestExecuteSkipsUnreachableHost(t *testing.T) {
	pool := &fakePool{conns: map[string]*recordingConn{}, down: map[string]bool{"10.10.1.2": true}}
	r, out, dir := newTestRunner(t, pool)

	hosts := []string{"10.10.1.1", "10.10.1.2", "10.10.1.3"}
	commands := []string{"show version", "show vlan"}
	summary := r.Execute(context.Background(), hosts, commands)

	assert.Equal(t, 3, summary.TotalSwitches)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.ConnectionFailures)
	assert.Equal(t, 4, summary.TotalCommands)
	assert.Equal(t, 4, summary.TotalSuccess)
	assert.Equal(t, 0, summary.TotalErrors)

	require.Len(t, summary.Hosts, 3)
	failed := summary.Hosts[1]
	assert.True(t, failed.ConnectionFailed)
	assert.Equal(t, 0, failed.Total)
	assert.Contains(t, failed.ConnectionError, "10.10.1.2")

	assert.Equal(t, commands, pool.conns["10.10.1.1"].commands)
	assert.Equal(t, commands, pool.conns["10.10.1.3"].commands)
	assert.NotContains(t, pool.conns, "10.10.1.2")

	data, err := os.ReadFile(failed.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Connection Error: failed to connect to 10.10.1.2")

	data, err = os.ReadFile(summary.Hosts[0].LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Run ID: run-1")
	assert.Contains(t, string(data), "Total Commands: 2 | Successful: 2 | Errors: 0")
	assert.Equal(t, filepath.Join(dir, "Logs", "10.10.1.1"), filepath.Dir(summary.Hosts[0].LogFile))

	assert.Contains(t, out.String(), "[1/2] show version... ✓")
	assert.Contains(t, out.String(), "✗ Connection failed")
}

func TestExecuteCountsStderrAsError(t *testing.T) {
	pool := &fakePool{conns: map[string]*recordingConn{
		"sw1": {stderr: map[string]string{"show bogus": "% Invalid input"}},
	}}
	r, out, _ := newTestRunner(t, pool)

	summary := r.Execute(context.Background(), []string{"sw1"}, []string{"show version", "show bogus"})

	assert.Equal(t, 1, summary.TotalSuccess)
	assert.Equal(t, 1, summary.TotalErrors)
	assert.Equal(t, models.HostStats{
		Host:    "sw1",
		Total:   2,
		Success: 1,
		Errors:  1,
		LogFile: summary.Hosts[0].LogFile,
	}, summary.Hosts[0])
	assert.Contains(t, out.String(), "[2/2] show bogus... ⚠️")
}

func TestRunCreatesTemplates(t *testing.T) {
	pool := &fakePool{conns: map[string]*recordingConn{}}
	r, out, dir := newTestRunner(t, pool)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, summary)
	assert.FileExists(t, filepath.Join(dir, "switches.csv"))
	assert.FileExists(t, filepath.Join(dir, "commands.csv"))
	assert.Contains(t, out.String(), "Template files created: commands.csv, switches.csv")
	assert.Empty(t, pool.conns)
}

func TestRunFromCSV(t *testing.T) {
	pool := &fakePool{conns: map[string]*recordingConn{}}
	r, out, dir := newTestRunner(t, pool)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "switches.csv"), []byte("hostname\nsw1\n\nsw2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commands.csv"), []byte("command\nshow fdb\n"), 0644))

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.TotalCommands)
	assert.Contains(t, out.String(), "Switches Processed: 2/2")
}

func TestRunMissingColumn(t *testing.T) {
	pool := &fakePool{conns: map[string]*recordingConn{}}
	r, _, dir := newTestRunner(t, pool)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "switches.csv"), []byte("host\nsw1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commands.csv"), []byte("command\nshow fdb\n"), 0644))

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ConfigError))
	assert.Contains(t, err.Error(), "switches.csv")
}
