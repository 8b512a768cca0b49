// internal/ssh/session.go
package ssh

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

// ShellSession is an interactive PTY shell opened on a pooled connection.
// Closing it leaves the pooled connection open.
type ShellSession struct {
	session    *ssh.Session
	stdin      *os.File
	stdout     *os.File
	stderr     *os.File
	termWidth  int
	termHeight int
	stopChan   chan struct{}
	closeOnce  sync.Once
	sizeMutex  sync.Mutex
}

func NewShellSession(conn Conn) (*ShellSession, error) {
	c, ok := conn.(*SSHClient)
	if !ok {
		return nil, fmt.Errorf("connection does not support interactive shells")
	}

	session, err := c.Client().NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	return &ShellSession{
		session:    session,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		termWidth:  width,
		termHeight: height,
		stopChan:   make(chan struct{}),
	}, nil
}

// Run requests a PTY, switches the local terminal to raw mode and blocks
// until the remote shell exits.
func (s *ShellSession) Run(termType string) error {
	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 38400,
		ssh.TTY_OP_OSPEED: 38400,
		ssh.VINTR:         3,
		ssh.VERASE:        127,
		ssh.VEOF:          4,
		ssh.ICRNL:         1,
		ssh.ONLCR:         1,
		ssh.OPOST:         1,
	}
	if err := s.session.RequestPty(termType, s.termHeight, s.termWidth, modes); err != nil {
		return fmt.Errorf("failed to request PTY: %w", err)
	}

	fd := int(s.stdin.Fd())
	if term.IsTerminal(fd) {
		rawState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to set raw terminal: %w", err)
		}
		defer term.Restore(fd, rawState)
	}

	// Stopped after Wait so the next typed line reaches the caller's prompt.
	stdin, stopInput, err := shellInput(s.stdin)
	if err != nil {
		return err
	}
	defer stopInput()

	s.session.Stdin = stdin
	s.session.Stdout = s.stdout
	s.session.Stderr = s.stderr

	go s.watchResize()
	defer s.Close()

	if err := s.session.Shell(); err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}

	if err := s.session.Wait(); err != nil && !IsExitStatus(err) {
		return fmt.Errorf("session ended with error: %w", err)
	}
	return nil
}

func (s *ShellSession) updateTerminalSize() error {
	width, height, err := term.GetSize(int(s.stdout.Fd()))
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	s.sizeMutex.Lock()
	defer s.sizeMutex.Unlock()

	if width == s.termWidth && height == s.termHeight {
		return nil
	}
	if err := s.session.WindowChange(height, width); err != nil {
		return fmt.Errorf("failed to update window size: %w", err)
	}
	s.termWidth = width
	s.termHeight = height
	return nil
}

func (s *ShellSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)
		err = s.session.Close()
	})
	return err
}

// shellInput wraps in so that the returned stop function ends any pending
// Read without consuming further input.
func shellInput(in *os.File) (io.Reader, func(), error) {
	r, err := cancelreader.NewReader(in)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open terminal input: %w", err)
	}
	return r, func() {
		r.Cancel()
		r.Close()
	}, nil
}
