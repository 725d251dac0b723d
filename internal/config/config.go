// Package config handles loading and parsing rtwd configuration files.
//
// The same structure can be written as TOML (rtwd.toml) or YAML
// (rtwd.yaml / rtwd.yml); the file extension selects the decoder.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/steveyegge/rtwatchdog/internal/fsys"
	"github.com/steveyegge/rtwatchdog/watchdog"
)

// DefaultPath is the config file rtwd looks for in the working directory.
const DefaultPath = "rtwd.toml"

// File is the top-level rtwd configuration.
type File struct {
	Watchdog  Watchdog  `toml:"watchdog" yaml:"watchdog"`
	Selftest  Selftest  `toml:"selftest" yaml:"selftest"`
	Telemetry Telemetry `toml:"telemetry" yaml:"telemetry"`
}

// Watchdog holds the parameters passed to watchdog.Start.
type Watchdog struct {
	// Strategy is "realtime", "fallback", or "realtime-or-fallback".
	Strategy watchdog.Strategy `toml:"strategy" yaml:"strategy" jsonschema:"default=realtime-or-fallback"`
	// CheckInterval is the longest the heartbeat may stand still, e.g. "100ms".
	CheckInterval Duration `toml:"check_interval" yaml:"check_interval" jsonschema:"default=100ms"`
}

// Selftest controls the rtwd selftest command.
type Selftest struct {
	// Beats is how many heartbeats selftest feeds before declaring success.
	Beats int `toml:"beats" yaml:"beats" jsonschema:"minimum=0,default=10"`
	// BeatEvery is the heartbeat cadence. Zero means half the check interval.
	BeatEvery Duration `toml:"beat_every,omitempty" yaml:"beat_every,omitempty"`
	// EventsFile is a JSONL journal that selftest appends its outcome to.
	// Empty disables the journal.
	EventsFile string `toml:"events_file,omitempty" yaml:"events_file,omitempty"`
}

// Telemetry holds OTLP/HTTP export endpoints. Empty disables export.
type Telemetry struct {
	// MetricsURL is the OTLP/HTTP metrics endpoint.
	MetricsURL string `toml:"metrics_url,omitempty" yaml:"metrics_url,omitempty"`
	// LogsURL is the OTLP/HTTP logs endpoint.
	LogsURL string `toml:"logs_url,omitempty" yaml:"logs_url,omitempty"`
}

// Environment overrides applied by ApplyEnv.
const (
	EnvStrategy      = "RTWD_STRATEGY"
	EnvCheckInterval = "RTWD_CHECK_INTERVAL"
	EnvMetricsURL    = "RTWD_OTEL_METRICS_URL"
	EnvLogsURL       = "RTWD_OTEL_LOGS_URL"
	EnvEventsFile    = "RTWD_EVENTS_FILE"
)

// Default returns the configuration used when no file is present.
func Default() File {
	return File{
		Watchdog: Watchdog{
			Strategy:      watchdog.RealtimeOrFallback,
			CheckInterval: Duration(100 * time.Millisecond),
		},
		Selftest: Selftest{Beats: 10},
	}
}

// BeatCadence returns the selftest heartbeat period.
func (f *File) BeatCadence() time.Duration {
	if f.Selftest.BeatEvery > 0 {
		return f.Selftest.BeatEvery.Std()
	}
	return f.Watchdog.CheckInterval.Std() / 2
}

// Validate checks the values watchdog.Start would reject, plus a selftest
// cadence that could never keep the watchdog fed.
func (f *File) Validate() error {
	if !f.Watchdog.Strategy.Valid() {
		return fmt.Errorf("watchdog.strategy: invalid value %d", int(f.Watchdog.Strategy))
	}
	if f.Watchdog.CheckInterval <= 0 {
		return fmt.Errorf("watchdog.check_interval must be positive, got %v", f.Watchdog.CheckInterval)
	}
	if f.Selftest.Beats < 0 {
		return fmt.Errorf("selftest.beats must not be negative, got %d", f.Selftest.Beats)
	}
	if f.Selftest.BeatEvery < 0 {
		return fmt.Errorf("selftest.beat_every must not be negative, got %v", f.Selftest.BeatEvery)
	}
	if f.BeatCadence() >= f.Watchdog.CheckInterval.Std() {
		return fmt.Errorf("selftest.beat_every (%v) must be shorter than watchdog.check_interval (%v)",
			f.BeatCadence(), f.Watchdog.CheckInterval)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (f *File) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvStrategy); v != "" {
		s, err := watchdog.ParseStrategy(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrategy, err)
		}
		f.Watchdog.Strategy = s
	}
	if v := getenv(EnvCheckInterval); v != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvCheckInterval, err)
		}
		f.Watchdog.CheckInterval = d
	}
	if v := getenv(EnvMetricsURL); v != "" {
		f.Telemetry.MetricsURL = v
	}
	if v := getenv(EnvLogsURL); v != "" {
		f.Telemetry.LogsURL = v
	}
	if v := getenv(EnvEventsFile); v != "" {
		f.Selftest.EventsFile = v
	}
	return nil
}

// Marshal encodes a File to TOML bytes.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return buf.Bytes(), nil
}

// Format identifies a config file encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported config extension %q (want .toml, .yaml, or .yml)", filepath.Ext(path))
}

// Load reads and parses the config file at path using the provided
// filesystem. Fields absent from the file keep their Default values.
func Load(fs fsys.FS, path string) (*File, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format on top of Default.
func Parse(data []byte, format Format) (*File, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("parsing config: unknown key %q", undec[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		return nil, fmt.Errorf("parsing config: unknown format %q", format)
	}
	return &cfg, nil
}
