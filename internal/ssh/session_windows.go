// internal/ssh/session_windows.go
//go:build windows

package ssh

import "time"

// Windows has no SIGWINCH; poll the console size instead.
func (s *ShellSession) watchResize() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = s.updateTerminalSize()
		case <-s.stopChan:
			return
		}
	}
}
