// Package config loads the compositor's static configuration: logging,
// directory layout, signal-bus sizing, and the frame-tree target-selection
// strategy. Configuration sources are layered in order of precedence —
// CLI flags (handled by cmd/perceptiactl), environment variables
// (PERCEPTIA_*), a YAML config file, and finally the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the complete static configuration for a perceptia server
// process. Dynamic state (the frame tree, surfaces) lives only in memory
// per spec §5 and is never part of this structure.
type Config struct {
	// Logging controls internal/logger's output.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" validate:"required"`

	// Directories controls where data and runtime files are written.
	Directories DirectoriesConfig `mapstructure:"directories" yaml:"directories" validate:"required"`

	// Bus configures the dharma.Signaler every module subscribes through.
	Bus BusConfig `mapstructure:"bus" yaml:"bus" validate:"required"`

	// Exhibitor configures the Compositor's layout behavior.
	Exhibitor ExhibitorConfig `mapstructure:"exhibitor" yaml:"exhibitor" validate:"required"`

	// Telemetry controls OpenTelemetry tracing and Pyroscope profiling.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics controls the Prometheus metrics HTTP server.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Introspect controls the read-only introspection HTTP server.
	Introspect IntrospectConfig `mapstructure:"introspect" yaml:"introspect"`

	// IdLedger controls persistence of issued surface/pool/view ids across
	// restarts.
	IdLedger IdLedgerConfig `mapstructure:"id_ledger" yaml:"id_ledger"`

	// Session controls persistence of output-to-workspace assignments.
	Session SessionConfig `mapstructure:"session" yaml:"session"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output encoding: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// DirectoriesConfig controls where perceptia keeps persistent and
// per-run files. Spec §9 notes implementers should not rely on a
// documented path layout, so these are configurable rather than hardcoded
// the way the original Rust implementation's env module assumed.
type DirectoriesConfig struct {
	// Data is where the id ledger, session database, and logs are kept.
	Data string `mapstructure:"data" validate:"required" yaml:"data"`

	// Runtime is where per-process transient state is kept and removed on
	// clean shutdown.
	Runtime string `mapstructure:"runtime" validate:"required" yaml:"runtime"`
}

// BusConfig sizes the dharma.Signaler's per-receiver bounded buffer (spec
// §4.A: "bounded buffer, drop-oldest-and-retry-once on overflow").
type BusConfig struct {
	QueueDepth int `mapstructure:"queue_depth" validate:"required,gt=0" yaml:"queue_depth"`
}

// ExhibitorConfig controls the Compositor's layout behavior.
type ExhibitorConfig struct {
	// TargetSelectionStrategy resolves spec §9's open question on
	// choose_target configurability: "vertical" or "horizontal", the
	// geometry newly-managed top-level surfaces split their workspace with.
	TargetSelectionStrategy string `mapstructure:"target_selection_strategy" validate:"required,oneof=vertical horizontal" yaml:"target_selection_strategy"`
}

// TelemetryConfig controls OpenTelemetry tracing and continuous profiling.
type TelemetryConfig struct {
	Enabled    bool            `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string          `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool            `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64         `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
	Profiling  ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig controls the Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// IntrospectConfig controls the read-only introspection HTTP server.
type IntrospectConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// IdLedgerConfig controls the badger-backed persistent id allocator.
type IdLedgerConfig struct {
	// Enabled selects the persistent ledger allocator over the in-memory
	// counter allocator.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path is the badger database directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// SessionConfig controls the sqlite-backed output/workspace assignment
// store.
type SessionConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// Defaults returns a Config with every field set to its default value.
func Defaults() *Config {
	dataDir, runtimeDir := defaultDirectories()
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Directories: DirectoriesConfig{
			Data:    dataDir,
			Runtime: runtimeDir,
		},
		Bus: BusConfig{
			QueueDepth: 64,
		},
		Exhibitor: ExhibitorConfig{
			TargetSelectionStrategy: "vertical",
		},
		Telemetry: TelemetryConfig{
			Enabled:    false,
			Endpoint:   "localhost:4317",
			Insecure:   true,
			SampleRate: 1.0,
			Profiling: ProfilingConfig{
				Enabled:  false,
				Endpoint: "http://localhost:4040",
				ProfileTypes: []string{
					"cpu", "alloc_objects", "alloc_space", "inuse_objects",
					"inuse_space", "goroutines",
				},
			},
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
		Introspect: IntrospectConfig{
			Enabled: false,
			Port:    9091,
		},
		IdLedger: IdLedgerConfig{
			Enabled: false,
			Path:    filepath.Join(dataDir, "idledger"),
		},
		Session: SessionConfig{
			Enabled: false,
			Path:    filepath.Join(dataDir, "session.db"),
		},
	}
}

// defaultDirectories resolves the default data and runtime directories from
// XDG_DATA_HOME and XDG_RUNTIME_DIR; env.Prepare creates whichever
// directories the loaded Config names.
func defaultDirectories() (data, runtime string) {
	data = os.Getenv("XDG_DATA_HOME")
	if data == "" {
		data = "/tmp/perceptia"
	} else {
		data = filepath.Join(data, "perceptia")
	}

	runtime = os.Getenv("XDG_RUNTIME_DIR")
	if runtime == "" {
		runtime = "/tmp"
	}
	return data, runtime
}

// Load reads configuration from environment, file, and defaults, in that
// order of decreasing precedence. An empty configPath searches the default
// location ($XDG_CONFIG_HOME/perceptia/config.yaml). When no config file is
// found, Load returns Defaults() unchanged and environment variables are not
// consulted; when one is found, environment variables override only the keys
// the file sets.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if !found {
		return cfg, nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks a Config's struct tags via go-playground/validator.
func Validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

// Save writes cfg to path in YAML form with owner-only permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// JSONSchema returns a JSON schema describing Config, for `perceptiactl
// config schema`.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return r.Reflect(&Config{})
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("PERCEPTIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(DefaultConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/perceptia, falling back to
// ~/.config/perceptia, or "." if the home directory cannot be determined.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "perceptia")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "perceptia")
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(DefaultConfigPath())
	return err == nil
}
