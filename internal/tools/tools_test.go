package tools

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"customTools/internal/config"
	"customTools/internal/ssh"
	"customTools/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answers struct {
	queue []string
}

func (a *answers) Ask(string) (string, error) {
	if len(a.queue) == 0 {
		return "", io.EOF
	}
	next := a.queue[0]
	a.queue = a.queue[1:]
	return next, nil
}

func (a *answers) Confirm(q string) (bool, error) {
	answer, err := a.Ask(q)
	return answer == "y", err
}

type echoConn struct {
	commands []string
}

func (c *echoConn) Run(_ context.Context, command string) (string, string, error) {
	c.commands = append(c.commands, command)
	if command == "bad" {
		return "", "% Invalid input", nil
	}
	return "output of " + command + "\n", "", nil
}

func (c *echoConn) Close() error { return nil }

type memPool struct {
	conns    map[string]*echoConn
	released []string
}

func newMemPool(hosts ...string) *memPool {
	p := &memPool{conns: make(map[string]*echoConn)}
	for _, h := range hosts {
		p.conns[h] = &echoConn{}
	}
	return p
}

func (p *memPool) Acquire(_ context.Context, host string) (ssh.Conn, error) {
	c, ok := p.conns[host]
	if !ok {
		c = &echoConn{}
		p.conns[host] = c
	}
	return c, nil
}

func (p *memPool) Release(host string) {
	p.released = append(p.released, host)
	delete(p.conns, host)
}

func (p *memPool) Hosts() []string {
	hosts := make([]string, 0, len(p.conns))
	for h := range p.conns {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

func (p *memPool) Len() int { return len(p.conns) }

func newTestEnv(t *testing.T, pool *memPool, replies ...string) (*Env, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()

	m := config.NewManager(root)
	require.NoError(t, m.Load())
	devices, err := config.LoadDevices(filepath.Join(root, config.DefaultDevicesFileName))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &Env{
		Pool:    pool,
		Config:  m,
		Devices: devices,
		Prompt:  &answers{queue: replies},
		Out:     out,
	}, out
}

func TestRegistryOrder(t *testing.T) {
	items := MenuItems(Registry())

	var names []string
	for i, item := range items {
		assert.Equal(t, string(rune('1'+i)), item.Key)
		names = append(names, item.Title)
	}
	assert.Equal(t, []string{
		"FDB Searching", "Create Backup", "Bulk Update", "Self Lookup",
		"Interactive Session", "List Connections", "Close Connection",
		"Check for Updates", "Exit",
	}, names)
}

func TestListAndCloseConnection(t *testing.T) {
	pool := newMemPool("sw-b", "sw-a")
	env, out := newTestEnv(t, pool, "2")

	require.NoError(t, listConnectionsTool{}.Run(context.Background(), env))
	assert.Contains(t, out.String(), "Active connections (2):")
	assert.Contains(t, out.String(), "1. sw-a")

	require.NoError(t, closeConnectionTool{}.Run(context.Background(), env))
	assert.Equal(t, []string{"sw-b"}, pool.released)
	assert.Equal(t, []string{"sw-a"}, pool.Hosts())
}

func TestCloseConnectionWithNoConnections(t *testing.T) {
	env, out := newTestEnv(t, newMemPool())

	require.NoError(t, closeConnectionTool{}.Run(context.Background(), env))
	assert.Contains(t, out.String(), "No active connections.")
}

func TestSessionRunsCommandsUntilExit(t *testing.T) {
	pool := newMemPool()
	var shells int
	env, out := newTestEnv(t, pool, "core-sw", "show version", "", "bad", "shell", "exit")
	env.Shell = func(ssh.Conn) error {
		shells++
		return nil
	}

	require.NoError(t, sessionTool{}.Run(context.Background(), env))

	assert.Equal(t, []string{"show version", "bad"}, pool.conns["core-sw"].commands)
	assert.Equal(t, 1, shells)
	assert.Contains(t, out.String(), "output of show version")
	assert.Contains(t, out.String(), "% Invalid input")
}

func TestSessionPicksPooledHostByNumber(t *testing.T) {
	pool := newMemPool("sw-a", "sw-b")
	env, _ := newTestEnv(t, pool, "2", "show fdb")

	require.NoError(t, sessionTool{}.Run(context.Background(), env))
	assert.Equal(t, []string{"show fdb"}, pool.conns["sw-b"].commands)
	assert.Empty(t, pool.conns["sw-a"].commands)
}

func TestEnvProfileUsesConfiguredFamily(t *testing.T) {
	env, _ := newTestEnv(t, newMemPool())

	p, err := env.Profile()
	require.NoError(t, err)
	assert.Equal(t, "extreme", p.Family)
}

func TestEnvFDBIsShared(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env, _ := newTestEnv(t, newMemPool())

	first, err := env.FDB(ctx)
	require.NoError(t, err)
	second, err := env.FDB(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

type stubTool struct {
	name string
	err  error
	runs int
}

func (s *stubTool) Name() string { return s.name }

func (s *stubTool) Run(context.Context, *Env) error {
	s.runs++
	return s.err
}

func TestLoopReportsFailuresAndStopsOnExit(t *testing.T) {
	env, out := newTestEnv(t, newMemPool("sw-a"))
	failing := &stubTool{name: "Broken", err: errors.New("boom")}
	entries := []Entry{
		{Key: "1", Tool: failing},
		{Key: "2", Tool: exitTool{}},
	}

	picks := []int{0, -1, 0, 1}
	var titles []string
	choose := func(title string, items []ui.MenuItem) (int, error) {
		titles = append(titles, title)
		next := picks[0]
		picks = picks[1:]
		return next, nil
	}

	require.NoError(t, Loop(context.Background(), env, entries, choose))
	assert.Equal(t, 2, failing.runs)
	assert.Empty(t, picks)
	assert.Equal(t, "CustomTools Main Menu [1 active]", titles[0])
	assert.Equal(t, 2, strings.Count(out.String(), "Broken failed: boom"))
}

func TestLoopStopsWhenMenuClosed(t *testing.T) {
	env, _ := newTestEnv(t, newMemPool())
	choose := func(string, []ui.MenuItem) (int, error) {
		return -1, ui.ErrMenuClosed
	}

	assert.NoError(t, Loop(context.Background(), env, Registry(), choose))
}
