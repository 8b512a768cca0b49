// internal/tools/builtin.go

package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"customTools/internal/backup"
	"customTools/internal/bulk"
	"customTools/internal/selflookup"
	"customTools/internal/ui"
)

type fdbTool struct{}

func (fdbTool) Name() string { return "FDB Searching" }

func (fdbTool) Run(ctx context.Context, env *Env) error {
	s, err := env.FDB(ctx)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

type backupTool struct{}

func (backupTool) Name() string { return "Create Backup" }

func (backupTool) Run(ctx context.Context, env *Env) error {
	profile, err := env.Profile()
	if err != nil {
		return err
	}
	cfg := env.Config.Get()
	r := backup.NewRunner(env.Pool, profile, backup.Options{
		Dir:            env.Config.Path(cfg.Backup.Dir),
		SwitchesFile:   cfg.Backup.SwitchesFile,
		CommandTimeout: cfg.SSH.CommandTimeout,
	}, env.Out, env.logger())
	_, err = r.Run(ctx)
	return err
}

type bulkTool struct{}

func (bulkTool) Name() string { return "Bulk Update" }

func (bulkTool) Run(ctx context.Context, env *Env) error {
	cfg := env.Config.Get()
	r := bulk.NewRunner(env.Pool, bulk.Options{
		Dir:            env.Config.Path(cfg.Bulk.Dir),
		SwitchesFile:   cfg.Bulk.SwitchesFile,
		CommandsFile:   cfg.Bulk.CommandsFile,
		CommandTimeout: cfg.SSH.CommandTimeout,
	}, env.Out, env.logger())
	_, err := r.Run(ctx)
	return err
}

type selfLookupTool struct{}

func (selfLookupTool) Name() string { return "Self Lookup" }

func (selfLookupTool) Run(ctx context.Context, env *Env) error {
	s, err := env.FDB(ctx)
	if err != nil {
		return err
	}
	cfg := env.Config.Get()
	return selflookup.New(s, selflookup.Options{
		Dir:          env.Config.Path(cfg.FDB.Dir),
		SwitchesFile: cfg.FDB.SwitchesFile,
	}, env.Prompt, env.Out, env.logger()).Run(ctx)
}

type listConnectionsTool struct{}

func (listConnectionsTool) Name() string { return "List Connections" }

func (listConnectionsTool) Run(_ context.Context, env *Env) error {
	printConnections(env)
	return nil
}

func printConnections(env *Env) []string {
	hosts := env.Pool.Hosts()
	if len(hosts) == 0 {
		fmt.Fprintln(env.Out, "No active connections.")
		return nil
	}
	fmt.Fprintf(env.Out, "Active connections (%d):\n", len(hosts))
	for i, h := range hosts {
		fmt.Fprintf(env.Out, "%d. %s\n", i+1, h)
	}
	return hosts
}

type closeConnectionTool struct{}

func (closeConnectionTool) Name() string { return "Close Connection" }

func (closeConnectionTool) Run(_ context.Context, env *Env) error {
	hosts := printConnections(env)
	if len(hosts) == 0 {
		return nil
	}

	answer, err := env.Prompt.Ask("Select connection to close: ")
	if err != nil {
		return doneOnEOF(err)
	}
	idx, err := strconv.Atoi(answer)
	if err != nil || idx < 1 || idx > len(hosts) {
		ui.Warn(env.Out, "Invalid choice.")
		return nil
	}

	env.Pool.Release(hosts[idx-1])
	return nil
}

type updateTool struct{}

func (updateTool) Name() string { return "Check for Updates" }

func (updateTool) Run(ctx context.Context, env *Env) error {
	u := env.Updater()
	available, err := u.Check(ctx)
	if err != nil {
		return err
	}
	if !available {
		ui.Success(env.Out, "All tools are up to date.")
		return nil
	}

	ok, err := env.Prompt.Confirm("Install updates now? (y/n)")
	if err != nil || !ok {
		return doneOnEOF(err)
	}
	updated, err := u.Update(ctx)
	if err != nil {
		return err
	}
	if updated {
		ui.Success(env.Out, "Update complete. Restart CustomTools to use the new versions.")
	}
	return nil
}

type exitTool struct{}

func (exitTool) Name() string { return "Exit" }

func (exitTool) Run(context.Context, *Env) error {
	return ErrExit
}

func doneOnEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
