package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sched.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfigYAML = `version: "1.0"
metadata_file: programs/sample.mdf
scheduling: RR
quantum: 4
cycle_times:
  processor: 10
  monitor: 20
  hard_drive: 15
  printer: 25
  keyboard: 50
log:
  target: both
  file: logs/run.log
`

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, validConfigYAML)
	dir := filepath.Dir(path)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "RR", cfg.Scheduling)
	assert.Equal(t, 4, cfg.Quantum)
	assert.Equal(t, filepath.Join(dir, "programs", "sample.mdf"), cfg.MetadataFile)
	assert.Equal(t, filepath.Join(dir, "logs", "run.log"), cfg.Log.File)
	assert.Equal(t, CycleTimes{Processor: 10, Monitor: 20, HardDrive: 15, Printer: 25, Keyboard: 50}, cfg.CycleTimes)

	// Defaults survive fields the file leaves out.
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.OverlapIO)
}

func TestLoadConfig_AbsolutePathsKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs.mdf")
	path := writeConfig(t, `metadata_file: `+abs+`
cycle_times: {processor: 1, monitor: 1, hard_drive: 1, printer: 1, keyboard: 1}
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, abs, cfg.MetadataFile)
	assert.Equal(t, LogToMonitor, cfg.Log.Target)
	assert.Equal(t, "FIFO", cfg.Scheduling)
}

func TestLoadConfig_UnknownField_Rejected(t *testing.T) {
	path := writeConfig(t, validConfigYAML+"quantom: 3\n")

	_, err := LoadConfig(path)

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "quantom")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing metadata", func(c *Config) { c.MetadataFile = "" }, false},
		{"zero processor", func(c *Config) { c.CycleTimes.Processor = 0 }, false},
		{"negative keyboard", func(c *Config) { c.CycleTimes.Keyboard = -1 }, false},
		{"file target without path", func(c *Config) { c.Log.Target = LogToFile }, false},
		{"both target with path", func(c *Config) { c.Log = LogConfig{Target: LogToBoth, File: "x.log"} }, true},
		{"unknown target", func(c *Config) { c.Log.Target = "printer" }, false},
		{"RR without quantum", func(c *Config) { c.Scheduling = "RR"; c.Quantum = 0 }, false},
		{"SRTF-P with quantum", func(c *Config) { c.Scheduling = "SRTF-P"; c.Quantum = 2 }, true},
		{"unknown policy left to the simulator", func(c *Config) { c.Scheduling = "XYZ" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(PolicyFIFO, 0)
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrConfiguration)
			}
		})
	}
}

func TestConfig_CycleTime(t *testing.T) {
	cfg := testConfig(PolicyFIFO, 0)

	d, err := cfg.CycleTime(ComponentOutput, DevicePrinter)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Millisecond, d)

	d, err = cfg.CycleTime(ComponentProcessor, "ignored")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Millisecond, d)

	_, err = cfg.CycleTime(ComponentInput, "scanner")
	assert.ErrorIs(t, err, ErrMalformedOperation)
}

func TestLoadConfig_ExampleFile(t *testing.T) {
	// GIVEN the shipped example configuration
	path := filepath.Join("..", "examples", "sched.yaml")

	// WHEN loaded
	cfg, err := LoadConfig(path)

	// THEN it validates and points at the example program beside it
	require.NoError(t, err)
	assert.Equal(t, "RR", cfg.Scheduling)
	assert.Equal(t, filepath.Join("..", "examples", "program.mdf"), cfg.MetadataFile)
	_, err = os.Stat(cfg.MetadataFile)
	assert.NoError(t, err)
}

func TestDecodeConfig_DoesNotValidate(t *testing.T) {
	// GIVEN an RR file missing both quantum and metadata_file
	path := writeConfig(t, "scheduling: RR\nversion: \"2.1\"\n")

	// WHEN decoded
	cfg, err := DecodeConfig(path)

	// THEN decoding succeeds and only Validate reports the gaps
	require.NoError(t, err)
	assert.Equal(t, "2.1", cfg.Version)
	assert.Zero(t, cfg.Quantum)
	assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)

	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrConfiguration)
}
