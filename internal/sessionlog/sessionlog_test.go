package sessionlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"customTools/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2026, 10, 18, 9, 30, 5, 0, time.Local)
	return func() time.Time { return ts }
}

func TestOpenPathLayout(t *testing.T) {
	toolDir := t.TempDir()

	l, err := Open(toolDir, "fe80::1", "BulkCommands Session Log", fixedClock())
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, filepath.Join(toolDir, "Logs", "fe80__1", "20261018_093005.txt"), l.Path())
}

func TestOpenNeverReusesAFile(t *testing.T) {
	toolDir := t.TempDir()
	clock := fixedClock()

	first, err := Open(toolDir, "10.10.1.1", "BulkCommands Session Log", clock)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(toolDir, "10.10.1.1", "BulkCommands Session Log", clock)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	assert.NotEqual(t, first.Path(), second.Path())
	assert.Equal(t, "20261018_093005_1.txt", filepath.Base(second.Path()))
}

func TestFullSessionFormat(t *testing.T) {
	l, err := Open(t.TempDir(), "10.10.1.1", "BulkCommands Session Log", fixedClock())
	require.NoError(t, err)

	require.NoError(t, l.Header("10.10.1.1", "run-1"))
	require.NoError(t, l.Command(models.CommandResult{
		Command: "show version",
		Stdout:  "ExtremeXOS 31.7",
		Elapsed: 1500 * time.Millisecond,
		Outcome: models.OutcomeSuccess,
	}))
	require.NoError(t, l.Command(models.CommandResult{
		Command: "show bogus",
		Stderr:  "Invalid input",
		Elapsed: 250 * time.Millisecond,
		Outcome: models.OutcomeCompletedWithErrors,
	}))
	require.NoError(t, l.Footer(2, 1, 1))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "BulkCommands Session Log\nSwitch: 10.10.1.1\nSession Start: 2026-10-18 09:30:05\nRun ID: run-1\n")
	assert.Contains(t, text, "[09:30:05] Executing: show version\n")
	assert.Contains(t, text, "Execution Time: 1.50s\nStatus: Success\n")
	assert.Contains(t, text, "\nERROR: Invalid input")
	assert.Contains(t, text, "Status: Completed with errors\n")
	assert.Contains(t, text, "Total Commands: 2 | Successful: 1 | Errors: 1\n")
}

func TestConnectionErrorLine(t *testing.T) {
	l, err := Open(t.TempDir(), "10.10.1.9", "BulkCommands Session Log", fixedClock())
	require.NoError(t, err)
	require.NoError(t, l.ConnectionError(errors.New("dial tcp: i/o timeout")))
	require.NoError(t, l.Close())
	require.NoError(t, l.Close(), "closing twice is harmless")

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Equal(t, "Connection Error: dial tcp: i/o timeout\n", string(data))
}
