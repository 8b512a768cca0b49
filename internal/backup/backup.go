// internal/backup/backup.go

package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"customTools/internal/config"
	"customTools/internal/csvfile"
	apperrors "customTools/internal/error"
	"customTools/internal/models"
	"customTools/internal/sessionlog"
	"customTools/internal/ssh"
	"customTools/internal/ui"
	"customTools/internal/utils"

	"github.com/google/uuid"
)

const (
	HostnameColumn  = "hostname"
	FileExtension   = ".cfg"
	ruleWidth       = 80
	maxNameAttempts = 100
)

type Acquirer interface {
	Acquire(ctx context.Context, host string) (ssh.Conn, error)
}

// Downloader copies a remote file over an existing connection.
type Downloader func(ctx context.Context, conn ssh.Conn, method, remotePath, localPath string) (int64, error)

type Options struct {
	Dir            string
	SwitchesFile   string
	CommandTimeout time.Duration
}

// Result is the outcome of one switch's backup.
type Result struct {
	Host  string
	Path  string
	Bytes int64
	Err   error
}

// Runner saves the running configuration of every listed switch.
type Runner struct {
	pool     Acquirer
	profile  config.DeviceProfile
	opts     Options
	out      io.Writer
	logger   *slog.Logger
	now      func() time.Time
	download Downloader
}

func NewRunner(pool Acquirer, profile config.DeviceProfile, opts Options, out io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		pool:     pool,
		profile:  profile,
		opts:     opts,
		out:      out,
		logger:   logger,
		now:      time.Now,
		download: ssh.DownloadFile,
	}
}

// Run backs up every host in switches.csv. Per-host failures are reported
// and counted; they never stop the run.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	ui.Banner(r.out, "Create Backup - Save Switch Configurations", ruleWidth)

	created, err := csvfile.EnsureTemplates(r.opts.Dir, map[string]string{
		r.opts.SwitchesFile: csvfile.SwitchesTemplate,
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

	hosts, err := csvfile.LoadColumn(filepath.Join(r.opts.Dir, r.opts.SwitchesFile), HostnameColumn)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	r.logger.Info("backup run started", "run_id", runID, "switches", len(hosts), "method", r.profile.BackupMethod)

	results := make([]Result, 0, len(hosts))
	failed := 0
	for i, host := range hosts {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(r.out, "\n[%d/%d] %s\n", i+1, len(hosts), host)

		res := r.BackupHost(ctx, host)
		results = append(results, res)
		if res.Err != nil {
			failed++
			ui.Error(r.out, "  ✗ %v", res.Err)
			r.logger.Error("backup failed", "run_id", runID, "host", host, "error", res.Err)
			continue
		}
		ui.Success(r.out, "  ✓ Saved %d bytes to %s", res.Bytes, res.Path)
		r.logger.Info("backup saved", "run_id", runID, "host", host, "path", res.Path, "bytes", res.Bytes)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("=", ruleWidth))
	fmt.Fprintf(r.out, "Backups completed: %d/%d (failed: %d)\n", len(results)-failed, len(hosts), failed)
	fmt.Fprintf(r.out, "Backups Location: %s\n", r.opts.Dir)
	fmt.Fprintln(r.out, strings.Repeat("=", ruleWidth))
	return results, nil
}

// BackupHost fetches one switch's configuration using the family's method.
func (r *Runner) BackupHost(ctx context.Context, host string) Result {
	res := Result{Host: host}

	conn, err := r.pool.Acquire(ctx, host)
	if err != nil {
		res.Err = err
		return res
	}

	path, err := r.targetPath(host)
	if err != nil {
		res.Err = err
		return res
	}

	switch r.profile.BackupMethod {
	case config.BackupMethodSFTP, config.BackupMethodSCP:
		if r.profile.BackupRemotePath == "" {
			res.Err = apperrors.New(apperrors.ValidationError,
				fmt.Sprintf("backup_remote_path is not set for device family %s", r.profile.Family), nil)
			return res
		}
		n, err := r.download(ctx, conn, r.profile.BackupMethod, r.profile.BackupRemotePath, path)
		if err != nil {
			_ = os.Remove(path)
			res.Err = apperrors.New(apperrors.CommandError, fmt.Sprintf("%s download from %s failed", r.profile.BackupMethod, host), err)
			return res
		}
		res.Bytes = n

	default:
		cmd := ssh.Execute(ctx, conn, r.profile.BackupCommand, r.opts.CommandTimeout)
		if cmd.Outcome == models.OutcomeFailed || strings.TrimSpace(cmd.Stdout) == "" {
			res.Err = apperrors.New(apperrors.CommandError,
				fmt.Sprintf("%s on %s failed", r.profile.BackupCommand, host), errors.New(strings.TrimSpace(cmd.Stderr)))
			return res
		}
		if err := os.WriteFile(path, []byte(cmd.Stdout), 0644); err != nil {
			res.Err = apperrors.New(apperrors.FileError, fmt.Sprintf("failed to write %s", path), err)
			return res
		}
		res.Bytes = int64(len(cmd.Stdout))
	}

	res.Path = path
	return res
}

// targetPath returns <Dir>/<host>/<timestamp>.cfg, adding a _N suffix when
// two backups land in the same second.
func (r *Runner) targetPath(host string) (string, error) {
	dir := filepath.Join(r.opts.Dir, utils.SanitizeHost(host))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.New(apperrors.FileError, fmt.Sprintf("failed to create backup directory %s", dir), err)
	}

	base := r.now().Format(sessionlog.FileTimeLayout)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := base + FileExtension
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d%s", base, attempt, FileExtension)
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
	}
	return "", apperrors.New(apperrors.FileError, fmt.Sprintf("too many backups for %s in %s", base, dir), nil)
}
