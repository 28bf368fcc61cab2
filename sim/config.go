package sim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Log targets accepted in LogConfig.Target.
const (
	LogToMonitor = "monitor"
	LogToFile    = "file"
	LogToBoth    = "both"
)

// CycleTimes holds the milliseconds one cycle takes on each processor or device.
type CycleTimes struct {
	Processor int `yaml:"processor"`
	Monitor   int `yaml:"monitor"`
	HardDrive int `yaml:"hard_drive"`
	Printer   int `yaml:"printer"`
	Keyboard  int `yaml:"keyboard"`
}

// LogConfig selects where simulation events are written.
type LogConfig struct {
	Target string `yaml:"target"` // "monitor" (default), "file" or "both"
	File   string `yaml:"file"`   // required unless Target is "monitor"
}

// Config is the resolved simulator configuration. It is immutable once loaded
// and shared by value across every Application and Operation of a run.
type Config struct {
	Version      string     `yaml:"version"`
	MetadataFile string     `yaml:"metadata_file"`
	Scheduling   string     `yaml:"scheduling"`
	Quantum      int        `yaml:"quantum"` // cycles per slice for RR, FIFO-P and SRTF-P
	Strict       bool       `yaml:"strict"`  // malformed records abort preparation when true
	OverlapIO    bool       `yaml:"overlap_io"`
	CycleTimes   CycleTimes `yaml:"cycle_times"`
	Log          LogConfig  `yaml:"log"`
}

// DefaultConfig returns the values applied before a config file is decoded.
func DefaultConfig() Config {
	return Config{
		Scheduling: string(PolicyFIFO),
		Strict:     true,
		OverlapIO:  true,
		Log:        LogConfig{Target: LogToMonitor},
	}
}

// LoadConfig reads a YAML configuration file with DecodeConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg, err := DecodeConfig(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeConfig reads a YAML configuration file with strict field checking:
// unknown keys are rejected so typos surface as errors. Relative
// metadata_file and log.file paths are resolved against the config's directory.
// The result is not validated, so callers can layer overrides before Validate.
func DecodeConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: reading %s: %v", ErrConfiguration, path, err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing %s: %v", ErrConfiguration, path, err)
	}

	dir := filepath.Dir(path)
	cfg.MetadataFile = resolvePath(dir, cfg.MetadataFile)
	cfg.Log.File = resolvePath(dir, cfg.Log.File)
	return cfg, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks every field a complete run depends on.
// An unrecognized scheduling policy is not reported here; NewSimulator rejects it
// with ErrUnsupportedPolicy.
func (c Config) Validate() error {
	if c.MetadataFile == "" {
		return fmt.Errorf("%w: metadata_file is required", ErrConfiguration)
	}
	times := []struct {
		name  string
		value int
	}{
		{"processor", c.CycleTimes.Processor},
		{"monitor", c.CycleTimes.Monitor},
		{"hard_drive", c.CycleTimes.HardDrive},
		{"printer", c.CycleTimes.Printer},
		{"keyboard", c.CycleTimes.Keyboard},
	}
	for _, ct := range times {
		if ct.value <= 0 {
			return fmt.Errorf("%w: cycle_times.%s must be > 0, got %d", ErrConfiguration, ct.name, ct.value)
		}
	}
	switch c.Log.Target {
	case LogToMonitor:
	case LogToFile, LogToBoth:
		if c.Log.File == "" {
			return fmt.Errorf("%w: log.file is required when log.target is %q", ErrConfiguration, c.Log.Target)
		}
	default:
		return fmt.Errorf("%w: unknown log.target %q", ErrConfiguration, c.Log.Target)
	}
	if IsValidPolicy(c.Scheduling) && Policy(c.Scheduling).Sliced() && c.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be > 0 for %s, got %d", ErrConfiguration, c.Scheduling, c.Quantum)
	}
	return nil
}

// CycleTime returns the simulated duration of a single cycle of the given kind
// and device. Device is ignored for Processor operations.
func (c Config) CycleTime(kind Component, device Device) (time.Duration, error) {
	var ms int
	switch kind {
	case ComponentProcessor:
		ms = c.CycleTimes.Processor
	case ComponentInput, ComponentOutput:
		switch device {
		case DeviceHardDrive:
			ms = c.CycleTimes.HardDrive
		case DeviceKeyboard:
			ms = c.CycleTimes.Keyboard
		case DeviceMonitor:
			ms = c.CycleTimes.Monitor
		case DevicePrinter:
			ms = c.CycleTimes.Printer
		default:
			return 0, fmt.Errorf("%w: unknown device %q for %s", ErrMalformedOperation, device, kind)
		}
	default:
		return 0, fmt.Errorf("%w: unknown component %q", ErrMalformedOperation, kind)
	}
	if ms <= 0 {
		return 0, fmt.Errorf("%w: no cycle time configured for %s", ErrConfiguration, describe(kind, device))
	}
	return time.Duration(ms) * time.Millisecond, nil
}
