// internal/tools/session.go

package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"customTools/internal/models"
	"customTools/internal/ssh"
	"customTools/internal/ui"
)

// sessionTool is a command prompt on one switch. "shell" drops into a full
// PTY shell and "exit" goes back to the menu.
type sessionTool struct{}

func (sessionTool) Name() string { return "Interactive Session" }

func (sessionTool) Run(ctx context.Context, env *Env) error {
	host, err := pickHost(env)
	if err != nil || host == "" {
		return err
	}

	conn, err := env.Pool.Acquire(ctx, host)
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Out, "Type 'shell' for an interactive shell or 'exit' to return to the menu.")
	timeout := env.Config.Get().SSH.CommandTimeout
	for {
		line, err := env.Prompt.Ask(host + "> ")
		if err != nil {
			return doneOnEOF(err)
		}

		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "shell":
			if err := env.openShell(conn); err != nil {
				ui.Error(env.Out, "Shell error: %v", err)
			}
			continue
		}

		res := ssh.Execute(ctx, conn, line, timeout)
		printResult(env, res)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func printResult(env *Env, res models.CommandResult) {
	if out := strings.TrimRight(res.Stdout, "\r\n"); out != "" {
		fmt.Fprintln(env.Out, out)
	}
	if errOut := strings.TrimRight(res.Stderr, "\r\n"); errOut != "" {
		ui.Error(env.Out, "%s", errOut)
	}
	env.logger().Debug("interactive command", "command", res.Command, "outcome", res.Outcome.String(), "elapsed", res.Elapsed)
}

// pickHost offers the pooled hosts by number; anything else is taken as a
// new hostname.
func pickHost(env *Env) (string, error) {
	hosts := printConnections(env)

	prompt := "Enter hostname: "
	if len(hosts) > 0 {
		prompt = "Select connection number or enter a new hostname: "
	}
	answer, err := env.Prompt.Ask(prompt)
	if err != nil {
		return "", doneOnEOF(err)
	}
	if answer == "" {
		return "", nil
	}
	if idx, err := strconv.Atoi(answer); err == nil && idx >= 1 && idx <= len(hosts) {
		return hosts[idx-1], nil
	}
	return answer, nil
}
