package dharma

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darkelement/perceptia/internal/logger"
)

// DefaultShutdownTimeout bounds how long the Dispatcher's shutdown waits for
// each module to return after Terminate has been broadcast on the bus.
const DefaultShutdownTimeout = 10 * time.Second

// Terminator is satisfied by *Signaler[ID, P] for any signal/payload type
// pair. The Dispatcher holds one so shutdown's sole cancellation channel is
// Terminate on the control channel, not context cancellation alone.
type Terminator interface {
	Terminate()
}

// entry tracks the lifecycle state of one running module.
type entry struct {
	module Module
	id     string
	cancel context.CancelFunc
	errCh  chan error
}

// Dispatcher runs a fixed set of modules as goroutines and coordinates their
// shutdown. It does not interpret signals itself; modules reach the bus
// through whatever Signaler the caller wired into their constructors.
type Dispatcher struct {
	mu              sync.Mutex
	entries         []*entry
	shutdownTimeout time.Duration
	terminator      Terminator

	runOnce sync.Once
	started bool
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{shutdownTimeout: DefaultShutdownTimeout}
}

// SetSignaler attaches the bus Dispatcher broadcasts Terminate on during
// stop. Must be called before Run; a Dispatcher with no signaler set falls
// back to context cancellation alone.
func (d *Dispatcher) SetSignaler(t Terminator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terminator = t
}

// SetShutdownTimeout overrides how long shutdown waits for a module to return
// before giving up on it. Must be called before Run.
func (d *Dispatcher) SetShutdownTimeout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shutdownTimeout = timeout
}

// Register adds a module to the dispatcher. Must be called before Run.
func (d *Dispatcher) Register(m Module) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, &entry{module: m, id: uuid.NewString()})
}

// Run starts every registered module in its own goroutine and blocks until
// ctx is cancelled, at which point it cancels every module's context and
// waits (up to the shutdown timeout) for each to return.
//
// Run may only be called once; subsequent calls return immediately with an
// error.
func (d *Dispatcher) Run(ctx context.Context) error {
	var runErr error
	ran := false
	d.runOnce.Do(func() {
		ran = true
		d.started = true
		runErr = d.run(ctx)
	})
	if !ran {
		return fmt.Errorf("dharma: dispatcher already run")
	}
	return runErr
}

func (d *Dispatcher) run(ctx context.Context) error {
	d.mu.Lock()
	entries := append([]*entry(nil), d.entries...)
	d.mu.Unlock()

	for _, e := range entries {
		e := e
		moduleCtx, cancel := context.WithCancel(ctx)
		e.cancel = cancel
		e.errCh = make(chan error, 1)

		go func() {
			logger.InfoCtx(moduleCtx, "module starting",
				logger.Module(e.module.Name()), "dispatch_id", e.id)
			err := e.module.Run(moduleCtx)
			if err != nil && moduleCtx.Err() == nil {
				logger.ErrorCtx(moduleCtx, "module exited with error",
					logger.Module(e.module.Name()), logger.Err(err))
			}
			e.errCh <- err
		}()
	}

	<-ctx.Done()
	return d.stop(entries)
}

// stop broadcasts Terminate on the bus, then cancels every module's context
// as a backstop, and waits for each to return, up to the configured shutdown
// timeout per module.
func (d *Dispatcher) stop(entries []*entry) error {
	d.mu.Lock()
	timeout := d.shutdownTimeout
	terminator := d.terminator
	d.mu.Unlock()

	if terminator != nil {
		terminator.Terminate()
	}

	var lastErr error
	for _, e := range entries {
		if e.cancel == nil {
			continue
		}
		e.cancel()

		select {
		case err := <-e.errCh:
			if err != nil && err != context.Canceled {
				lastErr = err
			}
		case <-time.After(timeout):
			logger.Warn("module stop timed out", logger.Module(e.module.Name()))
			lastErr = fmt.Errorf("dharma: module %q stop timed out", e.module.Name())
		}
	}
	return lastErr
}
