package dharma

import "context"

// Module is a long-running unit of compositor logic that communicates with
// the rest of the system exclusively through signals. The Dispatcher runs
// each Module as an independent goroutine and is the only thing that ever
// cancels it.
type Module interface {
	// Run blocks until ctx is cancelled or the module exits on its own.
	// A Module must return promptly once ctx.Done() fires.
	Run(ctx context.Context) error

	// Name identifies the module in logs and traces (e.g. "exhibitor",
	// "coordinator").
	Name() string
}

// Constructor builds a Module. The Dispatcher does not call Constructors
// itself: Register takes an already-built Module, so the caller runs any
// Constructor before registering its result.
type Constructor func() (Module, error)
