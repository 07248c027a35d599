// Package env prepares the process-level environment a perceptia server
// needs before the Coordinator, Signaler, and Dispatcher are constructed:
// data/runtime directories and the OS signal handlers that let an operator
// stop the process cleanly. It is deliberately thin and touches none of the
// frame-tree or surface-registry state (internal/exhibitor, internal/qualia)
// that is wired up afterward.
package env

import (
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/darkelement/perceptia/internal/config"
	"github.com/darkelement/perceptia/internal/logger"
)

// Env holds the directories this process created, so Cleanup can remove the
// runtime directory on shutdown.
type Env struct {
	dataDir    string
	runtimeDir string
}

// Prepare creates the data and runtime directories named in cfg.Directories
// and installs the handler for SIGSEGV/SIGABRT (fatal, logged with a stack
// trace before the process exits). SIGINT/SIGTERM are not handled here: the
// caller registers for them with NotifyShutdownSignals. It mirrors the
// responsibilities of the original implementation's environment-setup
// module, adapted to Go's signal and logging idioms.
func Prepare(cfg *config.DirectoriesConfig) (*Env, error) {
	e := &Env{}

	if err := mkdir(cfg.Data); err != nil {
		return nil, err
	}
	e.dataDir = cfg.Data

	runtimeDir := filepath.Join(cfg.Runtime, runtimeSubdir())
	if err := mkdir(runtimeDir); err != nil {
		return nil, err
	}
	e.runtimeDir = runtimeDir

	registerFatalSignalHandler()

	logger.Info("environment prepared", "data_dir", e.dataDir, "runtime_dir", e.runtimeDir)
	return e, nil
}

// DataDir returns the directory this process uses for persistent files
// (id ledger, session database).
func (e *Env) DataDir() string { return e.dataDir }

// RuntimeDir returns the directory this process uses for transient,
// per-run files. It is removed by Cleanup.
func (e *Env) RuntimeDir() string { return e.runtimeDir }

// LogFilePath returns a timestamped log file path under the data directory,
// for callers that want to log to a file instead of stdout/stderr.
func (e *Env) LogFilePath() string {
	return filepath.Join(e.dataDir, "log-"+time.Now().Format("20060102-150405"))
}

// Cleanup removes the runtime directory. Callers should defer it after a
// successful Prepare.
func (e *Env) Cleanup() {
	if e.runtimeDir == "" {
		return
	}
	if err := os.RemoveAll(e.runtimeDir); err != nil {
		logger.Warn("failed to remove runtime directory", "path", e.runtimeDir, logger.Err(err))
	}
}

// NotifyShutdownSignals registers sig to receive SIGINT and SIGTERM, the two
// signals a Dispatcher-driven process treats as a request for graceful
// shutdown. Callers are responsible for calling signal.Stop(sig) once they
// stop listening.
func NotifyShutdownSignals(sig chan<- os.Signal) {
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
}

func mkdir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrExist}
		}
		return nil
	}
	return os.MkdirAll(path, 0755)
}

func runtimeSubdir() string {
	return "perceptia-" + time.Now().Format("002-15-04-05")
}

// registerFatalSignalHandler installs a handler for SIGSEGV and SIGABRT that
// logs a stack trace before letting the process die. Go's runtime already
// turns most memory-safety violations into a panic rather than a raw
// SIGSEGV, so in practice this handler only ever fires for a SIGABRT raised
// by a linked C library (e.g. a faulting cgo dependency) — the asynchronous
// catch-and-exit behavior the original implementation registers for the same
// two signals.
func registerFatalSignalHandler() {
	fatal := make(chan os.Signal, 1)
	signal.Notify(fatal, syscall.SIGSEGV, syscall.SIGABRT)
	go func() {
		sig := <-fatal
		logger.Error("fatal signal received", "signal", sig.String())
		logger.Error(string(debug.Stack()))
		os.Exit(1)
	}()
}
