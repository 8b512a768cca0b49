// internal/bulk/bulk.go

package bulk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"customTools/internal/csvfile"
	"customTools/internal/models"
	"customTools/internal/sessionlog"
	"customTools/internal/ssh"
	"customTools/internal/ui"

	"github.com/google/uuid"
)

const (
	LogTitle       = "BulkCommands Session Log"
	HostnameColumn = "hostname"
	CommandColumn  = "command"
	ruleWidth      = 80
)

type Acquirer interface {
	Acquire(ctx context.Context, host string) (ssh.Conn, error)
}

type Options struct {
	// Dir is the BulkCommands folder holding the CSV inputs and Logs/.
	Dir            string
	SwitchesFile   string
	CommandsFile   string
	CommandTimeout time.Duration
}

// Runner sends the same command list to every switch, one switch at a time.
type Runner struct {
	pool   Acquirer
	opts   Options
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
	runID  func() string
}

func NewRunner(pool Acquirer, opts Options, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		pool:   pool,
		opts:   opts,
		out:    out,
		logger: logger,
		now:    time.Now,
		runID:  uuid.NewString,
	}
}

// Run loads switches.csv and commands.csv and executes the batch. Missing
// inputs are created from templates and Run returns without a summary.
func (r *Runner) Run(ctx context.Context) (*models.RunSummary, error) {
	ui.Banner(r.out, "BulkCommands Tool - Execute Commands on Multiple Switches", ruleWidth)

	fmt.Fprintln(r.out, "\nChecking CSV files...")
	created, err := csvfile.EnsureTemplates(r.opts.Dir, map[string]string{
		r.opts.SwitchesFile: csvfile.SwitchesTemplate,
		r.opts.CommandsFile: csvfile.CommandsTemplate,
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		ui.Warn(r.out, "Template files created: %s", strings.Join(created, ", "))
		fmt.Fprintf(r.out, "Location: %s\n", r.opts.Dir)
		fmt.Fprintln(r.out, "Please edit these files and run again.")
		return nil, nil
	}

	fmt.Fprintln(r.out, "Loading configuration...")
	hosts, err := csvfile.LoadColumn(filepath.Join(r.opts.Dir, r.opts.SwitchesFile), HostnameColumn)
	if err != nil {
		return nil, err
	}
	commands, err := csvfile.LoadColumn(filepath.Join(r.opts.Dir, r.opts.CommandsFile), CommandColumn)
	if err != nil {
		return nil, err
	}
	ui.Success(r.out, "Loaded %d switch(es) and %d command(s)", len(hosts), len(commands))

	summary := r.Execute(ctx, hosts, commands)
	PrintSummary(r.out, summary, sessionlog.LogsDir(r.opts.Dir))
	return &summary, nil
}

// Execute runs commands on each host in order. A host that cannot be
// reached is recorded as a connection failure and none of its commands run.
func (r *Runner) Execute(ctx context.Context, hosts, commands []string) models.RunSummary {
	runID := r.runID()
	summary := models.RunSummary{TotalSwitches: len(hosts)}

	r.logger.Info("bulk run started", "run_id", runID, "switches", len(hosts), "commands", len(commands))

	fmt.Fprintln(r.out)
	ui.Banner(r.out, "Starting command execution...", ruleWidth)

	for i, host := range hosts {
		if ctx.Err() != nil {
			r.logger.Warn("bulk run interrupted", "run_id", runID, "error", ctx.Err())
			break
		}

		fmt.Fprintf(r.out, "\n[%d/%d] Processing: %s\n", i+1, len(hosts), host)
		fmt.Fprintln(r.out, strings.Repeat("-", ruleWidth))

		stats := r.processHost(ctx, host, commands, runID)
		summary.Add(stats)

		if !stats.ConnectionFailed && stats.LogFile != "" {
			fmt.Fprintf(r.out, "Logged to: %s\n", stats.LogFile)
		}
	}

	r.logger.Info("bulk run finished", "run_id", runID,
		"processed", summary.Processed,
		"connection_failures", summary.ConnectionFailures,
		"commands", summary.TotalCommands,
		"errors", summary.TotalErrors)
	return summary
}

func (r *Runner) processHost(ctx context.Context, host string, commands []string, runID string) models.HostStats {
	stats := models.HostStats{Host: host}

	hostLog, err := sessionlog.Open(r.opts.Dir, host, LogTitle, r.now)
	if err != nil {
		ui.Error(r.out, "  ✗ Cannot create log file: %v", err)
		r.logger.Error("cannot create session log", "host", host, "error", err)
	} else {
		stats.LogFile = hostLog.Path()
		defer hostLog.Close()
	}
	logWrite := func(write func(*sessionlog.Log) error) {
		if hostLog == nil {
			return
		}
		if err := write(hostLog); err != nil {
			r.logger.Warn("session log write failed", "host", host, "error", err)
		}
	}

	conn, err := r.pool.Acquire(ctx, host)
	if err != nil {
		stats.ConnectionFailed = true
		stats.ConnectionError = err.Error()
		ui.Error(r.out, "  ✗ Connection failed: %v", err)
		logWrite(func(l *sessionlog.Log) error { return l.ConnectionError(err) })
		return stats
	}

	logWrite(func(l *sessionlog.Log) error { return l.Header(host, runID) })

	for idx, command := range commands {
		stats.Total++
		res := ssh.Execute(ctx, conn, command, r.opts.CommandTimeout)
		if res.Outcome == models.OutcomeSuccess {
			stats.Success++
		} else {
			stats.Errors++
		}
		fmt.Fprintf(r.out, "  [%d/%d] %s... %s\n", idx+1, len(commands), command, res.Outcome.Symbol())
		logWrite(func(l *sessionlog.Log) error { return l.Command(res) })
	}

	logWrite(func(l *sessionlog.Log) error { return l.Footer(stats.Total, stats.Success, stats.Errors) })
	return stats
}

// PrintSummary writes the run-wide counters.
func PrintSummary(w io.Writer, s models.RunSummary, logsDir string) {
	fmt.Fprintln(w)
	ui.Banner(w, "BulkCommands Execution Summary", ruleWidth)
	fmt.Fprintf(w, "Switches Processed: %d/%d\n", s.Processed, s.TotalSwitches)
	fmt.Fprintf(w, "Connection Failures: %d\n", s.ConnectionFailures)
	fmt.Fprintf(w, "Total Commands Executed: %d\n", s.TotalCommands)
	fmt.Fprintf(w, "  ✓ Successful: %d\n", s.TotalSuccess)
	fmt.Fprintf(w, "  ✗ Errors: %d\n", s.TotalErrors)
	fmt.Fprintf(w, "Logs Location: %s\n", logsDir)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}
