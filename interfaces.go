package lottery

import "context"

// StepFunc is called after every successful reveal with the step and the
// combined progress of the draw
type StepFunc func(step RevealStep, progress Progress)

// Sharer defines the interface for publishing a finished result
type Sharer interface {
	// Share publishes one record. Implementations must be safe for concurrent use.
	Share(ctx context.Context, record *ShareRecord) error
}

// ShareHistory lists previously shared results, newest first
type ShareHistory interface {
	Recent(ctx context.Context, n int) ([]*ShareRecord, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}
