// internal/ssh/pool.go
package ssh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	apperrors "customTools/internal/error"
)

type PoolOptions struct {
	// ProbeCommand is a cheap show command used to check a cached connection.
	ProbeCommand string
	ProbeTimeout time.Duration
	// Out receives the operator facing progress lines.
	Out io.Writer
}

// Pool keeps at most one live connection per host string for the whole
// lifetime of the process.
type Pool struct {
	dialer Dialer
	opts   PoolOptions
	logger *slog.Logger

	mu    sync.Mutex
	conns map[string]Conn
}

func NewPool(dialer Dialer, opts PoolOptions, logger *slog.Logger) *Pool {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pool{
		dialer: dialer,
		opts:   opts,
		logger: logger,
		conns:  make(map[string]Conn),
	}
}

// Acquire returns a live connection for host, reusing the cached one when
// the probe still succeeds.
func (p *Pool) Acquire(ctx context.Context, host string) (Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[host]; ok {
		if p.alive(ctx, conn) {
			p.logger.Debug("reusing connection", "host", host)
			return conn, nil
		}
		p.logger.Info("cached connection is dead, reconnecting", "host", host)
		p.closeQuietly(host, conn)
		delete(p.conns, host)
	}

	fmt.Fprintf(p.opts.Out, "Connecting to %s...\n", host)
	conn, err := p.dialer.Dial(ctx, host)
	if err != nil {
		p.logger.Error("connection failed", "host", host, "error", err)
		return nil, apperrors.New(apperrors.ConnectionError, fmt.Sprintf("failed to connect to %s", host), err)
	}

	p.conns[host] = conn
	fmt.Fprintf(p.opts.Out, "Connected to %s\n", host)
	p.logger.Info("connected", "host", host)
	return conn, nil
}

func (p *Pool) alive(ctx context.Context, conn Conn) bool {
	if p.opts.ProbeCommand == "" {
		return true
	}

	probeCtx := ctx
	if p.opts.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, p.opts.ProbeTimeout)
		defer cancel()
	}

	_, _, err := conn.Run(probeCtx, p.opts.ProbeCommand)
	return err == nil || IsExitStatus(err)
}

// Release closes and forgets the connection for host. Unknown hosts are ignored.
func (p *Pool) Release(host string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[host]; ok {
		p.closeQuietly(host, conn)
		delete(p.conns, host)
	}
}

// ReleaseAll empties the pool. It never fails; close errors are only logged.
func (p *Pool) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for host, conn := range p.conns {
		p.closeQuietly(host, conn)
		delete(p.conns, host)
	}
}

// Hosts lists the pooled host strings in sorted order.
func (p *Pool) Hosts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	hosts := make([]string, 0, len(p.conns))
	for host := range p.conns {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

func (p *Pool) closeQuietly(host string, conn Conn) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while closing connection", "host", host, "panic", r)
		}
	}()
	if err := conn.Close(); err != nil {
		p.logger.Warn("error closing connection", "host", host, "error", err)
		return
	}
	fmt.Fprintf(p.opts.Out, "Closed connection to %s\n", host)
	p.logger.Info("connection closed", "host", host)
}
