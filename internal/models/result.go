// internal/models/result.go

package models

import "time"

// Outcome classifies a single command execution.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCompletedWithErrors
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeCompletedWithErrors:
		return "Completed with errors"
	default:
		return "Failed"
	}
}

// Symbol is the progress marker printed next to a command in the console.
func (o Outcome) Symbol() string {
	switch o {
	case OutcomeSuccess:
		return "✓"
	case OutcomeCompletedWithErrors:
		return "⚠️"
	default:
		return "✗"
	}
}

type CommandResult struct {
	Command string
	Stdout  string
	Stderr  string
	Elapsed time.Duration
	Outcome Outcome
}

// HostStats are the per-host counters of a bulk run.
type HostStats struct {
	Host             string
	Total            int
	Success          int
	Errors           int
	ConnectionFailed bool
	ConnectionError  string
	LogFile          string
}

// RunSummary aggregates HostStats over one bulk run.
type RunSummary struct {
	TotalSwitches      int
	Processed          int
	ConnectionFailures int
	TotalCommands      int
	TotalSuccess       int
	TotalErrors        int
	Hosts              []HostStats
}

func (s *RunSummary) Add(h HostStats) {
	s.Processed++
	s.TotalCommands += h.Total
	s.TotalSuccess += h.Success
	s.TotalErrors += h.Errors
	if h.ConnectionFailed {
		s.ConnectionFailures++
	}
	s.Hosts = append(s.Hosts, h)
}
