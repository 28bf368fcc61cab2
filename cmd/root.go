package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/opsim/sched-sim/sim"
	"github.com/opsim/sched-sim/sim/eventlog"
	"github.com/opsim/sched-sim/sim/metadata"
)

var (
	// CLI flags for the run command
	configPath   string // YAML configuration file
	scheduling   string // Overrides the config's scheduling policy
	quantum      int    // Overrides the config's quantum (cycles)
	metadataPath string // Overrides the config's meta-data file
	logLevel     string // Diagnostic log verbosity
	metricsAddr  string // Serve Prometheus metrics on this address while running
	printReport  bool   // Print a per-application summary table after the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sched-sim",
	Short: "Process-scheduling simulator",
}

// runCmd executes the simulation described by the configuration file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg := loadConfig(cmd)
		logrus.Infof("Starting simulation: %s", describeConfig(cfg))

		records, err := metadata.Load(cfg.MetadataFile)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		sink, err := eventlog.New(cfg.Log.Target, cfg.Log.File, os.Stdout)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		closeSink := func() {
			if err := sink.Close(); err != nil {
				logrus.Errorf("closing event log: %v", err)
			}
		}
		defer closeSink()
		// Fatalf exits without running defers; the log file still gets closed.
		logrus.RegisterExitHandler(closeSink)

		metrics := sim.NewMetrics()
		if metricsAddr != "" {
			serveMetrics(metrics)
		}

		s, err := sim.NewSimulator(cfg, sim.NewWallClock(), sink, metrics)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		startTime := time.Now()
		if err := s.Prepare(records); err != nil {
			logrus.Fatalf("%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := s.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				// an interrupted run exits non-zero
				logrus.Fatalf("Simulation interrupted after %v", time.Since(startTime))
			}
			logrus.Fatalf("%v", err)
		}

		if printReport {
			RenderReport(os.Stdout, s, time.Since(startTime))
		}
		logrus.Info("Simulation complete.")
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadConfig reads --config and applies explicitly set override flags.
func loadConfig(cmd *cobra.Command) sim.Config {
	if configPath == "" {
		logrus.Fatalf("Configuration file not provided (--config). Exiting simulation.")
	}
	cfg, err := resolveConfig(cmd, configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return cfg
}

// resolveConfig decodes path, layers the override flags on top and validates
// the result once, so a flag can supply a value the file leaves out.
func resolveConfig(cmd *cobra.Command, path string) (sim.Config, error) {
	cfg, err := sim.DecodeConfig(path)
	if err != nil {
		return sim.Config{}, err
	}
	cfg = applyOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}

// describeConfig summarizes the settings a run starts with.
func describeConfig(cfg sim.Config) string {
	version := cfg.Version
	if version == "" {
		version = "unversioned"
	}
	return fmt.Sprintf("config=%s policy=%s quantum=%d metadata=%s strict=%t overlap_io=%t log=%s",
		version, cfg.Scheduling, cfg.Quantum, cfg.MetadataFile, cfg.Strict, cfg.OverlapIO, cfg.Log.Target)
}

func applyOverrides(cmd *cobra.Command, cfg sim.Config) sim.Config {
	if cmd.Flags().Changed("scheduling") {
		cfg.Scheduling = scheduling
	}
	if cmd.Flags().Changed("quantum") {
		cfg.Quantum = quantum
	}
	if cmd.Flags().Changed("metadata") {
		cfg.MetadataFile = metadataPath
	}
	return cfg
}

func serveMetrics(metrics *sim.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	go func() {
		logrus.Infof("Serving metrics on %s/metrics", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logrus.Errorf("metrics server: %v", err)
		}
	}()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML configuration file")
	runCmd.Flags().StringVar(&scheduling, "scheduling", "", "Scheduling policy override (FIFO, SJF, SRTF-N, RR, FIFO-P, SRTF-P)")
	runCmd.Flags().IntVar(&quantum, "quantum", 0, "Quantum override in cycles for RR, FIFO-P and SRTF-P")
	runCmd.Flags().StringVar(&metadataPath, "metadata", "", "Meta-data file override")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :2112)")
	runCmd.Flags().BoolVar(&printReport, "report", false, "Print a per-application summary after the run")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(policiesCmd)
}
