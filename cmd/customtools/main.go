package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"customTools/internal/config"
	"customTools/internal/credentials"
	apperrors "customTools/internal/error"
	"customTools/internal/ssh"
	"customTools/internal/tools"
	"customTools/internal/ui"
	"customTools/internal/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfgManager := config.NewManager(utils.FindRoot(wd))
	if err := cfgManager.Load(); err != nil {
		ui.Error(os.Stderr, "Error loading configuration: %v", err)
		return 1
	}
	cfg := cfgManager.Get()

	logger, closeLog := newLogger(cfgManager.Path(cfg.Log.File), cfg.Log.Level)
	defer closeLog()
	logger.Info("starting", "root", cfgManager.Root())

	cred, err := credentials.Load(cfgManager.Path(cfg.Paths.Credentials))
	if err != nil {
		ui.Error(os.Stderr, "%v", err)
		if apperrors.Is(err, apperrors.ConfigError) {
			fmt.Fprintf(os.Stderr, "Edit %s (line 1: username, line 2: password) and start again.\n",
				cfgManager.Path(cfg.Paths.Credentials))
		}
		logger.Error("credentials not loaded", "error", err)
		return 1
	}

	devices, err := config.LoadDevices(cfgManager.Path(cfg.Paths.Devices))
	if err != nil {
		if devices == nil {
			ui.Error(os.Stderr, "%v", err)
			logger.Error("device profiles not loaded", "error", err)
			return 1
		}
		logger.Warn("device profiles", "error", err)
	}

	dialer := ssh.NewDialer(cred, ssh.Options{
		ConnectTimeout:   cfg.SSH.ConnectTimeout,
		BannerTimeout:    cfg.SSH.BannerTimeout,
		KnownHostsPath:   knownHostsPath(cfgManager, cfg.SSH.KnownHosts),
		LegacyAlgorithms: cfg.SSH.LegacyAlgorithms,
		KeepAlive:        cfg.SSH.KeepAlive,
	}, logger)
	pool := ssh.NewPool(dialer, ssh.PoolOptions{
		ProbeCommand: cfg.SSH.ProbeCommand,
		ProbeTimeout: cfg.SSH.ProbeTimeout,
		Out:          os.Stdout,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("signal received, closing connections", "signal", sig.String())
		fmt.Fprintln(os.Stdout, "\nClosing all connections...")
		cancel()
		pool.ReleaseAll()
		closeLog()
		os.Exit(0)
	}()

	console := ui.NewConsole(os.Stdin, os.Stdout)
	env := &tools.Env{
		Pool:    pool,
		Config:  cfgManager,
		Devices: devices,
		Prompt:  console,
		Out:     os.Stdout,
		Logger:  logger,
	}

	if cfg.Update.CheckOnStart {
		startupUpdateCheck(ctx, env)
	}

	choose := func(title string, items []ui.MenuItem) (int, error) {
		return ui.PromptMenu(console, title, items)
	}
	if ui.IsTerminal(os.Stdin) {
		choose = func(title string, items []ui.MenuItem) (int, error) {
			return ui.RunMenu(title, items, os.Stdin, os.Stdout)
		}
	}

	err = tools.Loop(ctx, env, tools.Registry(), choose)
	fmt.Fprintln(os.Stdout, "Closing all connections...")
	pool.ReleaseAll()
	if err != nil {
		ui.Error(os.Stderr, "%v", err)
		logger.Error("menu stopped", "error", err)
		return 1
	}
	logger.Info("exiting")
	return 0
}

func startupUpdateCheck(ctx context.Context, env *tools.Env) {
	available, err := env.Updater().Check(ctx)
	if err != nil {
		env.Logger.Warn("startup update check failed", "error", err)
		ui.Warn(os.Stdout, "Could not check for updates: %v", err)
		return
	}
	if available {
		ui.Warn(os.Stdout, "Updates are available. Pick 'Check for Updates' in the menu to install them.")
	}
}

func knownHostsPath(m *config.Manager, p string) string {
	if p == "" {
		return ""
	}
	return m.Path(p)
}

// newLogger writes to the log file so the console stays readable. It falls
// back to stderr when the file cannot be opened.
func newLogger(path, level string) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open log file %s: %v\n", path, err)
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}
	}

	var once sync.Once
	return slog.New(slog.NewTextHandler(f, opts)), func() {
		once.Do(func() { f.Close() })
	}
}

const (
	LOG_LEVEL_ERROR   = "ERROR"
	LOG_LEVEL_WARNING = "WARNING"
	LOG_LEVEL_INFO    = "INFO"
	LOG_LEVEL_DEBUG   = "DEBUG"
)

func parseLevel(logLevel string) slog.Level {
	switch strings.ToUpper(logLevel) {
	case LOG_LEVEL_ERROR:
		return slog.LevelError
	case LOG_LEVEL_WARNING, "WARN":
		return slog.LevelWarn
	case LOG_LEVEL_INFO:
		return slog.LevelInfo
	case LOG_LEVEL_DEBUG:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
