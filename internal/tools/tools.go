// internal/tools/tools.go

package tools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"customTools/internal/config"
	"customTools/internal/fdb"
	"customTools/internal/ssh"
	"customTools/internal/update"
)

// ErrExit is returned by the Exit entry to stop the menu loop.
var ErrExit = errors.New("exit requested")

// Tool is one runnable entry of the main menu.
type Tool interface {
	Name() string
	Run(ctx context.Context, env *Env) error
}

// Pool is the part of ssh.Pool the tools use.
type Pool interface {
	Acquire(ctx context.Context, host string) (ssh.Conn, error)
	Release(host string)
	Hosts() []string
	Len() int
}

type Prompter interface {
	Ask(prompt string) (string, error)
	Confirm(question string) (bool, error)
}

// ShellOpener starts an interactive PTY shell on conn and blocks until it
// ends.
type ShellOpener func(conn ssh.Conn) error

// Env is everything a tool may touch. One Env lives for the whole process
// so every tool shares the same pool and FDB cache.
type Env struct {
	Pool    Pool
	Config  *config.Manager
	Devices *config.Devices
	Prompt  Prompter
	Out     io.Writer
	Logger  *slog.Logger
	// Shell defaults to a real PTY shell.
	Shell ShellOpener

	fdbOnce     sync.Once
	searcher    *fdb.Searcher
	searcherErr error
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// Profile returns the device family profile configured for the switches.
func (e *Env) Profile() (config.DeviceProfile, error) {
	return e.Devices.Profile(e.Config.Get().FDB.DeviceFamily)
}

// FDB builds the shared FDB searcher on first use. The inventory watcher
// lives as long as ctx.
func (e *Env) FDB(ctx context.Context) (*fdb.Searcher, error) {
	e.fdbOnce.Do(func() {
		e.searcher, e.searcherErr = e.newSearcher(ctx)
	})
	return e.searcher, e.searcherErr
}

func (e *Env) newSearcher(ctx context.Context) (*fdb.Searcher, error) {
	cfg := e.Config.Get()
	logger := e.logger()

	profile, err := e.Profile()
	if err != nil {
		return nil, err
	}

	macdb, err := fdb.LoadMACDatabase(e.Config.ToolPath(cfg.FDB.Dir, cfg.FDB.MACDatabase))
	if err != nil {
		logger.Warn("MAC database not loaded", "error", err)
	}

	inventory := fdb.NewInventory(e.Config.ToolPath(cfg.FDB.Dir, cfg.FDB.Inventory), cfg.FDB.InventoryHeaderRow, logger)
	if err := inventory.Reload(); err != nil {
		logger.Warn("inventory not loaded", "error", err)
	} else {
		go func() {
			if err := inventory.Watch(ctx); err != nil {
				logger.Warn("inventory watcher stopped", "error", err)
			}
		}()
	}

	return fdb.NewSearcher(e.Pool, profile, macdb, inventory, e.Prompt, e.Out, fdb.Options{
		IPPrefix:       cfg.FDB.IPPrefix,
		CommandTimeout: cfg.SSH.CommandTimeout,
		CacheTTL:       cfg.FDB.CacheTTL,
	}, logger), nil
}

// Updater builds the updater from the update settings.
func (e *Env) Updater() *update.Updater {
	cfg := e.Config.Get().Update
	client := update.NewClient(cfg.ManifestURL, cfg.ArchiveURL, cfg.HTTPTimeout)
	return update.NewUpdater(client, update.Options{
		Root:        e.Config.Root(),
		CacheFile:   cfg.CacheFile,
		CacheTTL:    cfg.CacheTTL,
		ArchiveRoot: cfg.ArchiveRoot,
	}, e.Prompt, e.Out, e.logger())
}

func (e *Env) openShell(conn ssh.Conn) error {
	if e.Shell != nil {
		return e.Shell(conn)
	}
	session, err := ssh.NewShellSession(conn)
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Run("xterm-256color")
}

// Entry binds a tool to its menu number.
type Entry struct {
	Key  string
	Tool Tool
}

// Registry returns the main menu in display order.
func Registry() []Entry {
	return []Entry{
		{Key: "1", Tool: fdbTool{}},
		{Key: "2", Tool: backupTool{}},
		{Key: "3", Tool: bulkTool{}},
		{Key: "4", Tool: selfLookupTool{}},
		{Key: "5", Tool: sessionTool{}},
		{Key: "6", Tool: listConnectionsTool{}},
		{Key: "7", Tool: closeConnectionTool{}},
		{Key: "8", Tool: updateTool{}},
		{Key: "9", Tool: exitTool{}},
	}
}
