// internal/sessionlog/sessionlog.go
//
// Human-readable per-host run logs:
// <ToolDir>/Logs/<sanitized-host>/<YYYYMMDD_HHMMSS>.txt

package sessionlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "customTools/internal/error"
	"customTools/internal/models"
	"customTools/internal/utils"
)

const (
	LogsDirName     = "Logs"
	FileTimeLayout  = "20060102_150405"
	stampLayout     = "2006-01-02 15:04:05"
	clockLayout     = "15:04:05"
	ruleWidth       = 80
	maxNameAttempts = 100
)

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)
)

// Log is one host's log file for one run. It is never reopened or appended
// across runs: every Open creates a new file.
type Log struct {
	path  string
	file  *os.File
	title string
	now   func() time.Time
}

// LogsDir returns <toolDir>/Logs.
func LogsDir(toolDir string) string {
	return filepath.Join(toolDir, LogsDirName)
}

// Open creates <toolDir>/Logs/<host>/<timestamp>.txt. title names the tool in
// the header, e.g. "BulkCommands Session Log".
func Open(toolDir, host, title string, now func() time.Time) (*Log, error) {
	if now == nil {
		now = time.Now
	}

	dir := filepath.Join(LogsDir(toolDir), utils.SanitizeHost(host))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to create log directory %s", dir), err)
	}

	base := now().Format(FileTimeLayout)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := base + ".txt"
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d.txt", base, attempt)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to create log file %s", path), err)
		}
		return &Log{path: path, file: f, title: title, now: now}, nil
	}

	return nil, apperrors.New(apperrors.FileError, fmt.Sprintf("too many log files for %s in %s", base, dir), nil)
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) write(s string) error {
	if _, err := l.file.WriteString(s); err != nil {
		return apperrors.New(apperrors.FileError, fmt.Sprintf("failed to write %s", l.path), err)
	}
	return nil
}

// Header writes the session banner. runID may be empty.
func (l *Log) Header(host, runID string) error {
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString(l.title + "\n")
	fmt.Fprintf(&b, "Switch: %s\n", host)
	fmt.Fprintf(&b, "Session Start: %s\n", l.now().Format(stampLayout))
	if runID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", runID)
	}
	b.WriteString(heavyRule + "\n\n")
	return l.write(b.String())
}

// Command appends one executed command with its output, timing and status.
func (l *Log) Command(res models.CommandResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Executing: %s\n", l.now().Format(clockLayout), res.Command)
	b.WriteString(lightRule + "\n")
	b.WriteString(res.Stdout)
	if res.Stderr != "" {
		fmt.Fprintf(&b, "\nERROR: %s", res.Stderr)
	}
	b.WriteString("\n" + lightRule + "\n")
	fmt.Fprintf(&b, "Execution Time: %.2fs\n", res.Elapsed.Seconds())
	fmt.Fprintf(&b, "Status: %s\n\n", res.Outcome)
	return l.write(b.String())
}

func (l *Log) ConnectionError(err error) error {
	return l.write(fmt.Sprintf("Connection Error: %v\n", err))
}

// Footer closes the session with its counters.
func (l *Log) Footer(total, successful, errs int) error {
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	fmt.Fprintf(&b, "Session End: %s\n", l.now().Format(stampLayout))
	fmt.Fprintf(&b, "Total Commands: %d | Successful: %d | Errors: %d\n", total, successful, errs)
	b.WriteString(heavyRule + "\n")
	return l.write(b.String())
}

func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
