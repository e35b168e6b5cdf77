package orchestrator

import "context"

type Interface interface {
	// Run repeats command cycles until ctx is cancelled or a device cannot be
	// opened.
	Run(ctx context.Context) error
	// RunCycle records, transcribes, parses and dispatches one command.
	RunCycle(ctx context.Context) error
}
