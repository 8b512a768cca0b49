// internal/ssh/session_unix.go
//go:build !windows

package ssh

import (
	"os"
	"os/signal"
	"syscall"
)

func (s *ShellSession) watchResize() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			_ = s.updateTerminalSize()
		case <-s.stopChan:
			return
		}
	}
}
