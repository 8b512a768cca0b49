// internal/ssh/exec.go
package ssh

import (
	"context"
	"errors"
	"strings"
	"time"

	"customTools/internal/models"
)

const TimeoutMessage = "Command execution timed out"

// Execute runs command on conn with a per-command timeout and classifies
// the result. It never returns an error; failures land in the result.
func Execute(ctx context.Context, conn Conn, command string, timeout time.Duration) models.CommandResult {
	result := models.CommandResult{Command: command}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := conn.Run(runCtx, command)
	result.Elapsed = time.Since(start)
	result.Stdout = stdout
	result.Stderr = stderr

	switch {
	case err == nil || IsExitStatus(err):
		// The remote exit status is ignored; stderr alone decides.
		if strings.TrimSpace(stderr) != "" {
			result.Outcome = models.OutcomeCompletedWithErrors
		} else {
			result.Outcome = models.OutcomeSuccess
		}
	case errors.Is(err, context.DeadlineExceeded):
		result.Outcome = models.OutcomeFailed
		result.Stderr = TimeoutMessage
	default:
		result.Outcome = models.OutcomeFailed
		result.Stderr = err.Error()
	}
	return result
}
