package trace

import (
	"sort"
	"time"
)

// AppSummary aggregates the dispatches of a single application.
type AppSummary struct {
	AppID      int
	Slices     int
	Cycles     int
	FirstStart time.Duration
	Completed  time.Duration // zero if the application never completed
	Turnaround time.Duration // Completed minus the run's first dispatch
	Waiting    time.Duration // Turnaround minus time spent holding the processor
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Policy          string
	TotalDispatches int
	Apps            []AppSummary // sorted by AppID
	CompletionOrder []int
	MeanTurnaround  time.Duration
	Makespan        time.Duration
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	summary.Policy = st.Policy
	summary.TotalDispatches = len(st.Slices)
	if len(st.Slices) == 0 {
		return summary
	}

	origin := st.Slices[0].Start
	byApp := make(map[int]*AppSummary)
	busy := make(map[int]time.Duration)
	for _, s := range st.Slices {
		a, ok := byApp[s.AppID]
		if !ok {
			a = &AppSummary{AppID: s.AppID, FirstStart: s.Start}
			byApp[s.AppID] = a
		}
		a.Slices++
		a.Cycles += s.Cycles
		busy[s.AppID] += s.End - s.Start
		if s.Start < origin {
			origin = s.Start
		}
	}

	var totalTurnaround time.Duration
	for _, c := range st.Completions {
		summary.CompletionOrder = append(summary.CompletionOrder, c.AppID)
		a, ok := byApp[c.AppID]
		if !ok {
			continue
		}
		a.Completed = c.At
		a.Turnaround = c.At - origin
		a.Waiting = max(a.Turnaround-busy[c.AppID], 0)
		totalTurnaround += a.Turnaround
		summary.Makespan = max(summary.Makespan, a.Turnaround)
	}
	if n := len(st.Completions); n > 0 {
		summary.MeanTurnaround = totalTurnaround / time.Duration(n)
	}

	for _, a := range byApp {
		summary.Apps = append(summary.Apps, *a)
	}
	sort.Slice(summary.Apps, func(i, j int) bool {
		return summary.Apps[i].AppID < summary.Apps[j].AppID
	})
	return summary
}
