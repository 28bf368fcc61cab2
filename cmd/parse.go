package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/opsim/sched-sim/sim"
	"github.com/opsim/sched-sim/sim/metadata"
)

// parseCmd shows how a meta-data file groups into applications under a config
var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a meta-data file and show the prepared applications",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		cfg := loadConfig(cmd)

		records, err := metadata.Load(cfg.MetadataFile)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		s, err := sim.NewSimulator(cfg, nil, nil, nil)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := s.Prepare(records); err != nil {
			logrus.Fatalf("%v", err)
		}
		RenderPool(os.Stdout, s)
	},
}

// RenderPool prints one row per prepared application, in the order the
// policy will first consider them.
func RenderPool(w io.Writer, s *sim.Simulator) {
	_, _ = fmt.Fprintf(w, "Policy %s: %d applications, %d records discarded\n", s.Policy, s.Pool().Len(), s.Discarded())

	rows := make([][]string, 0, s.Pool().Len())
	for _, app := range s.Pool().Items() {
		ops := app.Operations()
		labels := make([]string, len(ops))
		cycles := 0
		for i, op := range ops {
			labels[i] = op.Description()
			cycles += op.TotalCycles
		}
		rows = append(rows, []string{
			fmt.Sprint(app.ID),
			fmt.Sprint(len(ops)),
			fmt.Sprint(cycles),
			app.TotalRemainingTime().String(),
			strings.Join(labels, ", "),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Ops", "Cycles", "Remaining", "Operations"})
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// policiesCmd lists the accepted scheduling policy identifiers
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the supported scheduling policies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sim.ValidPolicyNames() {
			kind := "run to completion"
			if sim.Policy(name).Sliced() {
				kind = "quantum slices"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", name, kind)
		}
	},
}

func init() {
	parseCmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML configuration file")
	parseCmd.Flags().StringVar(&scheduling, "scheduling", "", "Scheduling policy override")
	parseCmd.Flags().IntVar(&quantum, "quantum", 0, "Quantum override in cycles")
	parseCmd.Flags().StringVar(&metadataPath, "metadata", "", "Meta-data file override")
	parseCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
