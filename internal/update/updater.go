// internal/update/updater.go

package update

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

	"customTools/internal/models"
	"customTools/internal/ui"
	"customTools/internal/utils"
)

const ruleWidth = 60

type Prompter interface {
	Ask(prompt string) (string, error)
}

type Options struct {
	// Root is the tools root holding versions.json and the tool folders.
	Root        string
	CacheFile   string
	CacheTTL    time.Duration
	ArchiveRoot string
}

type Updater struct {
	client *Client
	opts   Options
	prompt Prompter
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

func NewUpdater(client *Client, opts Options, prompt Prompter, out io.Writer, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Updater{
		client: client,
		opts:   opts,
		prompt: prompt,
		out:    out,
		logger: logger,
		now:    time.Now,
	}
}

func (u *Updater) versionsPath() string {
	return filepath.Join(u.opts.Root, utils.VersionsFileName)
}

func (u *Updater) cachePath() string {
	return utils.Resolve(u.opts.Root, u.opts.CacheFile)
}

// Check prints the per-tool update status using the cached manifest when it
// is fresh. It reports whether any update is available.
func (u *Updater) Check(ctx context.Context) (bool, error) {
	local, err := LoadManifest(u.versionsPath())
	if err != nil {
		u.logger.Warn("cannot read local versions", "error", err)
	}

	remote, ok := LoadCache(u.cachePath(), u.opts.CacheTTL, u.now())
	if !ok {
		fmt.Fprintln(u.out, "Checking for updates...")
		remote, err = u.client.FetchManifest(ctx)
		if err != nil {
			return false, err
		}
		if err := SaveCache(u.cachePath(), remote, u.now()); err != nil {
			u.logger.Warn("cannot save versions cache", "error", err)
		}
	}

	updates := Diff(local, remote)
	updatable := toSet(updates)

	fmt.Fprintln(u.out)
	ui.Banner(u.out, "CustomTools Update Check", ruleWidth)
	for _, tool := range ToolNames(remote) {
		if updatable[tool] {
			ui.Warn(u.out, "%s: %s → %s [UPDATE]", tool, local.Version(tool), remote.Tools[tool])
		} else {
			fmt.Fprintf(u.out, "%s: %s (up to date)\n", tool, remote.Tools[tool])
		}
	}
	fmt.Fprintln(u.out, strings.Repeat("=", ruleWidth))

	u.logger.Info("update check finished", "updates", len(updates))
	return len(updates) > 0, nil
}

// Update downloads the repository archive, lets the operator pick tools and
// replaces their folders. It reports whether at least one tool was updated.
func (u *Updater) Update(ctx context.Context) (bool, error) {
	local, err := LoadManifest(u.versionsPath())
	if err != nil {
		u.logger.Warn("cannot read local versions", "error", err)
	}

	tempDir, err := os.MkdirTemp("", "customtools-update-")
	if err != nil {
		return false, fmt.Errorf("error creating temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	fmt.Fprintln(u.out, "Downloading latest CustomTools repository...")
	zipPath := filepath.Join(tempDir, "CustomTools.zip")
	if err := u.client.DownloadArchive(ctx, zipPath); err != nil {
		return false, err
	}

	fmt.Fprintln(u.out, "Extracting repository...")
	extracted, err := Extract(zipPath, tempDir, u.opts.ArchiveRoot)
	if err != nil {
		return false, err
	}

	remote, err := LoadManifest(filepath.Join(extracted, utils.VersionsFileName))
	if err != nil {
		return false, err
	}
	if err := SaveCache(u.cachePath(), remote, u.now()); err != nil {
		u.logger.Warn("cannot save versions cache", "error", err)
	}

	updates := Diff(local, remote)
	selected, err := u.selectTools(ToolNames(remote), local, remote, updates)
	if err != nil {
		return false, err
	}
	if len(selected) == 0 {
		if len(updates) > 0 {
			fmt.Fprintln(u.out, "No tools selected for update.")
		}
		return false, nil
	}

	return u.install(extracted, selected, remote)
}

func (u *Updater) selectTools(tools []string, local, remote *models.Manifest, updates []models.UpdateInfo) ([]string, error) {
	updatable := toSet(updates)

	fmt.Fprintln(u.out)
	ui.Banner(u.out, "Update Status", ruleWidth)
	if len(tools) == 0 {
		fmt.Fprintln(u.out, "No tools found.")
		return nil, nil
	}
	for i, tool := range tools {
		if updatable[tool] {
			fmt.Fprintf(u.out, "[%d] %s\n", i+1, tool)
			fmt.Fprintf(u.out, "    %s → %s\n", local.Version(tool), remote.Tools[tool])
		} else {
			fmt.Fprintf(u.out, "[%d] %s (up to date)\n", i+1, tool)
		}
	}
	fmt.Fprintln(u.out, strings.Repeat("=", ruleWidth))

	if len(updates) == 0 {
		ui.Success(u.out, "All tools are up to date!")
		return nil, nil
	}

	for {
		fmt.Fprintln(u.out)
		answer, err := u.prompt.Ask("Select tools to update (e.g., '1,2' or 'all' or 'none'): ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}

		selected, err := ParseSelection(answer, tools, updatable)
		if err != nil {
			if errors.Is(err, ErrNoValidSelection) {
				ui.Warn(u.out, "No valid updates selected. Please try again.")
			} else {
				ui.Warn(u.out, "Invalid input. Please enter numbers separated by commas, 'all', or 'none'.")
			}
			continue
		}
		return selected, nil
	}
}

func (u *Updater) install(extracted string, selected []string, remote *models.Manifest) (bool, error) {
	fmt.Fprintln(u.out)
	ui.Banner(u.out, "Installing Updates", ruleWidth)

	var installed []string
	for _, tool := range selected {
		src := filepath.Join(extracted, tool)
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			ui.Error(u.out, "✗ %s: Source not found in repository", tool)
			continue
		}

		fmt.Fprintf(u.out, "Updating %s... ", tool)
		if err := ReplaceFolder(src, filepath.Join(u.opts.Root, tool)); err != nil {
			fmt.Fprintln(u.out, "✗")
			ui.Error(u.out, "Error copying %s: %v", tool, err)
			u.logger.Error("tool update failed", "tool", tool, "error", err)
			continue
		}
		fmt.Fprintln(u.out, "✓")
		installed = append(installed, tool)
		u.logger.Info("tool updated", "tool", tool, "version", remote.Tools[tool])
	}
	fmt.Fprintln(u.out, strings.Repeat("=", ruleWidth))

	if len(installed) == 0 {
		ui.Error(u.out, "✗ No tools were updated.")
		return false, nil
	}

	// Only the installed tools' entries change.
	local, err := LoadManifest(u.versionsPath())
	if err != nil {
		return true, err
	}
	for _, tool := range installed {
		local.Tools[tool] = remote.Tools[tool]
	}
	if err := SaveManifest(u.versionsPath(), local); err != nil {
		return true, err
	}

	ui.Success(u.out, "✓ Successfully updated %d tool(s)!", len(installed))
	return true, nil
}

func toSet(updates []models.UpdateInfo) map[string]bool {
	set := make(map[string]bool, len(updates))
	for _, u := range updates {
		set[u.Tool] = true
	}
	return set
}
