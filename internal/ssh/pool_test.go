package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	apperrors "customTools/internal/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

type fakeConn struct {
	host     string
	probeErr error
	run      func(ctx context.Context, command string) (string, string, error)
	commands []string
	closed   int
	closeErr error
	panics   bool
}

func (c *fakeConn) Run(ctx context.Context, command string) (string, string, error) {
	c.commands = append(c.commands, command)
	if c.run != nil {
		return c.run(ctx, command)
	}
	if command == "show system" && c.probeErr != nil {
		return "", "", c.probeErr
	}
	return "ok", "", nil
}

func (c *fakeConn) Close() error {
	c.closed++
	if c.panics {
		panic("boom")
	}
	return c.closeErr
}

type fakeDialer struct {
	dials map[string]int
	fail  map[string]error
	conns []*fakeConn
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{dials: map[string]int{}, fail: map[string]error{}}
}

func (d *fakeDialer) Dial(_ context.Context, host string) (Conn, error) {
	d.dials[host]++
	if err, ok := d.fail[host]; ok {
		return nil, err
	}
	c := &fakeConn{host: host}
	d.conns = append(d.conns, c)
	return c, nil
}

func newTestPool(d Dialer) (*Pool, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPool(d, PoolOptions{ProbeCommand: "show system", ProbeTimeout: time.Second, Out: out}, nil), out
}

func TestPoolReusesLiveConnection(t *testing.T) {
	d := newFakeDialer()
	pool, out := newTestPool(d)

	first, err := pool.Acquire(context.Background(), "10.10.1.1")
	require.NoError(t, err)
	second, err := pool.Acquire(context.Background(), "10.10.1.1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, d.dials["10.10.1.1"])
	assert.Equal(t, []string{"show system"}, first.(*fakeConn).commands)
	assert.Contains(t, out.String(), "Connecting to 10.10.1.1...")
	assert.Contains(t, out.String(), "Connected to 10.10.1.1")
}

func TestPoolReplacesDeadConnection(t *testing.T) {
	d := newFakeDialer()
	pool, _ := newTestPool(d)

	first, err := pool.Acquire(context.Background(), "sw1")
	require.NoError(t, err)
	first.(*fakeConn).probeErr = errors.New("EOF")

	second, err := pool.Acquire(context.Background(), "sw1")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, first.(*fakeConn).closed)
	assert.Equal(t, 2, d.dials["sw1"])
	assert.Equal(t, []string{"sw1"}, pool.Hosts())
}

func TestPoolProbeExitStatusCountsAsAlive(t *testing.T) {
	d := newFakeDialer()
	pool, _ := newTestPool(d)

	first, err := pool.Acquire(context.Background(), "sw1")
	require.NoError(t, err)
	first.(*fakeConn).probeErr = fmt.Errorf("wrapped: %w", &ssh.ExitError{})

	second, err := pool.Acquire(context.Background(), "sw1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, d.dials["sw1"])
}

func TestPoolDialFailure(t *testing.T) {
	d := newFakeDialer()
	d.fail["10.0.0.9"] = errors.New("connection refused")
	pool, _ := newTestPool(d)

	conn, err := pool.Acquire(context.Background(), "10.0.0.9")
	assert.Nil(t, conn)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ConnectionError))
	assert.Contains(t, err.Error(), "10.0.0.9")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, pool.Hosts())
}

func TestPoolAtMostOneEntryPerHost(t *testing.T) {
	d := newFakeDialer()
	pool, _ := newTestPool(d)

	for _, host := range []string{"b", "a", "b", "c", "a"} {
		_, err := pool.Acquire(context.Background(), host)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, pool.Hosts())
	assert.Equal(t, 3, pool.Len())
}

func TestPoolRelease(t *testing.T) {
	d := newFakeDialer()
	pool, out := newTestPool(d)

	conn, err := pool.Acquire(context.Background(), "sw1")
	require.NoError(t, err)

	pool.Release("sw1")
	pool.Release("unknown")

	assert.Equal(t, 1, conn.(*fakeConn).closed)
	assert.Empty(t, pool.Hosts())
	assert.Equal(t, 1, strings.Count(out.String(), "Closed connection to sw1"))
}

func TestPoolReleaseAllSwallowsErrors(t *testing.T) {
	d := newFakeDialer()
	pool, out := newTestPool(d)

	for _, host := range []string{"a", "b", "c"} {
		_, err := pool.Acquire(context.Background(), host)
		require.NoError(t, err)
	}
	d.conns[0].closeErr = errors.New("already closed")
	d.conns[1].panics = true

	assert.NotPanics(t, pool.ReleaseAll)
	assert.Empty(t, pool.Hosts())
	for _, c := range d.conns {
		assert.Equal(t, 1, c.closed, c.host)
	}
	assert.Contains(t, out.String(), "Closed connection to c")
	assert.NotContains(t, out.String(), "Closed connection to a")

	assert.NotPanics(t, pool.ReleaseAll)
}

func TestPoolAcquireAfterReleaseAllDialsFresh(t *testing.T) {
	d := newFakeDialer()
	pool, _ := newTestPool(d)

	before, err := pool.Acquire(context.Background(), "sw1")
	require.NoError(t, err)

	pool.ReleaseAll()
	assert.Zero(t, pool.Len())

	after, err := pool.Acquire(context.Background(), "sw1")
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.Equal(t, 2, d.dials["sw1"])
	assert.Equal(t, 1, before.(*fakeConn).closed)
	assert.Empty(t, after.(*fakeConn).commands, "a fresh connection is not probed")
}
