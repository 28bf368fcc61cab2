package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	sim "github.com/opsim/sched-sim/sim"
	"github.com/opsim/sched-sim/sim/trace"
)

// RenderReport prints the per-application summary of a finished run.
func RenderReport(w io.Writer, s *sim.Simulator, wall time.Duration) {
	summary := trace.Summarize(s.Trace)

	title := fmt.Sprintf("Run %s (%s)", s.RunID, s.Policy)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)))
	_, _ = fmt.Fprintln(w, title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)))

	rows := make([][]string, len(summary.Apps))
	for i, a := range summary.Apps {
		rows[i] = []string{
			fmt.Sprint(a.AppID),
			fmt.Sprint(a.Slices),
			fmt.Sprint(a.Cycles),
			formatSeconds(a.FirstStart),
			formatSeconds(a.Completed),
			formatSeconds(a.Turnaround),
			formatSeconds(a.Waiting),
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Slices", "Cycles", "First start", "Completed", "Turnaround", "Waiting"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", fmt.Sprint(summary.TotalDispatches), "", "", "",
		fmt.Sprintf("Average\n%s", formatSeconds(summary.MeanTurnaround)),
		fmt.Sprintf("Wall\n%s", formatSeconds(wall))})
	table.Render()

	order := make([]string, len(summary.CompletionOrder))
	for i, id := range summary.CompletionOrder {
		order[i] = fmt.Sprint(id)
	}
	_, _ = fmt.Fprintf(w, "Completion order: %s\n", strings.Join(order, " "))
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.6f", d.Seconds())
}
