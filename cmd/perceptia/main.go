// Command perceptia runs the compositor core as a foreground server
// process: it loads configuration, wires the signal bus, Coordinator, and
// Exhibitor, starts the optional metrics/introspection servers, and runs
// until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/darkelement/perceptia/internal/config"
	"github.com/darkelement/perceptia/internal/dharma"
	"github.com/darkelement/perceptia/internal/env"
	"github.com/darkelement/perceptia/internal/exhibitor"
	"github.com/darkelement/perceptia/internal/idledger"
	"github.com/darkelement/perceptia/internal/introspect"
	"github.com/darkelement/perceptia/internal/logger"
	"github.com/darkelement/perceptia/internal/metrics"
	"github.com/darkelement/perceptia/internal/metricshttp"
	"github.com/darkelement/perceptia/internal/perceptron"
	"github.com/darkelement/perceptia/internal/qualia"
	"github.com/darkelement/perceptia/internal/qualia/ids"
	"github.com/darkelement/perceptia/internal/session"
	"github.com/darkelement/perceptia/internal/telemetry"
)

var version = "dev"

func main() {
	configFile := flag.String("config", "", "path to config file (default: $XDG_CONFIG_HOME/perceptia/config.yaml)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, "perceptia:", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	environment, err := env.Prepare(&cfg.Directories)
	if err != nil {
		return fmt.Errorf("failed to prepare environment: %w", err)
	}
	defer environment.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "perceptia",
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "perceptia",
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	alloc, closeLedger, err := buildAllocator(cfg)
	if err != nil {
		return err
	}
	if closeLedger != nil {
		defer closeLedger()
	}

	sessionStore, err := buildSessionStore(cfg)
	if err != nil {
		return err
	}
	if sessionStore != nil {
		defer sessionStore.Close()
	}

	bus := dharma.New[perceptron.SignalId, perceptron.Perceptron](cfg.Bus.QueueDepth)
	coordinator := qualia.New(alloc, bus)
	compositor := exhibitor.NewCompositor(coordinator, exhibitor.ParseTargetSelectionStrategy(cfg.Exhibitor.TargetSelectionStrategy))

	exh := exhibitor.New(bus, compositor, exhibitor.NopGateway{})
	if sessionStore != nil {
		exh.SetSessionRecorder(sessionStore)
	}

	dispatcher := dharma.NewDispatcher()
	dispatcher.SetSignaler(bus)
	dispatcher.Register(exh)

	auxiliaries, err := startAuxiliaryServers(ctx, cfg, coordinator, compositor)
	if err != nil {
		return err
	}
	defer stopAuxiliaryServers(auxiliaries)

	logger.Info("perceptia starting",
		"data_dir", environment.DataDir(),
		"runtime_dir", environment.RuntimeDir(),
		"bus_queue_depth", cfg.Bus.QueueDepth,
		"target_selection_strategy", cfg.Exhibitor.TargetSelectionStrategy,
	)

	sigChan := make(chan os.Signal, 1)
	env.NotifyShutdownSignals(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			logger.Info("shutdown signal received, initiating graceful shutdown")
			cancel()
		}
	}()

	logger.Info("perceptia running, press Ctrl+C to stop")
	return dispatcher.Run(ctx)
}

// buildAllocator returns the id allocator the Coordinator should use: a
// badger-backed idledger.Ledger when enabled, or a pure in-memory counter.
func buildAllocator(cfg *config.Config) (ids.IdAllocator, func() error, error) {
	if !cfg.IdLedger.Enabled {
		return qualia.NewCounterAllocator(), nil, nil
	}
	ledger, err := idledger.Open(cfg.IdLedger.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open id ledger: %w", err)
	}
	return ledger, ledger.Close, nil
}

func buildSessionStore(cfg *config.Config) (*session.Store, error) {
	if !cfg.Session.Enabled {
		return nil, nil
	}
	store, err := session.Open(cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return store, nil
}

// startAuxiliaryServers starts the metrics and introspection HTTP servers
// named in cfg, if enabled, each running its own goroutine until ctx is
// cancelled.
func startAuxiliaryServers(
	ctx context.Context,
	cfg *config.Config,
	coordinator *qualia.Coordinator,
	compositor *exhibitor.Compositor,
) ([]auxiliaryServer, error) {
	var servers []auxiliaryServer

	if cfg.Metrics.Enabled {
		srv := metricshttp.NewServer(cfg.Metrics.Port, metrics.GetRegistry())
		servers = append(servers, srv)
	}
	if cfg.Introspect.Enabled {
		srv := introspect.NewServer(cfg.Introspect.Port, coordinator, compositor)
		servers = append(servers, srv)
	}

	for _, srv := range servers {
		srv := srv
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("auxiliary server failed", "port", srv.Port(), logger.Err(err))
			}
		}()
	}
	return servers, nil
}

// auxiliaryServer is the lifecycle contract every optional HTTP server in
// this process satisfies.
type auxiliaryServer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Port() int
}

func stopAuxiliaryServers(servers []auxiliaryServer) {
	for _, srv := range servers {
		if err := srv.Stop(context.Background()); err != nil {
			logger.Error("auxiliary server stop error", "port", srv.Port(), logger.Err(err))
		}
	}
}
