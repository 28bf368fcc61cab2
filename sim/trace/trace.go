package trace

import "sync"

// SimulationTrace collects dispatch and completion records during a run.
// Safe for concurrent recording.
type SimulationTrace struct {
	Policy string

	mu          sync.Mutex
	Slices      []SliceRecord
	Completions []CompletionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(policy string) *SimulationTrace {
	return &SimulationTrace{
		Policy:      policy,
		Slices:      make([]SliceRecord, 0),
		Completions: make([]CompletionRecord, 0),
	}
}

// RecordSlice appends a dispatch record.
func (st *SimulationTrace) RecordSlice(record SliceRecord) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Slices = append(st.Slices, record)
}

// RecordCompletion appends a completion record.
func (st *SimulationTrace) RecordCompletion(record CompletionRecord) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Completions = append(st.Completions, record)
}

// SlicesFor returns the dispatch records of one application in dispatch order.
func (st *SimulationTrace) SlicesFor(appID int) []SliceRecord {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []SliceRecord
	for _, s := range st.Slices {
		if s.AppID == appID {
			out = append(out, s)
		}
	}
	return out
}

// DispatchOrder returns the application ID of every dispatch in order.
func (st *SimulationTrace) DispatchOrder() []int {
	st.mu.Lock()
	defer st.mu.Unlock()
	ids := make([]int, len(st.Slices))
	for i, s := range st.Slices {
		ids[i] = s.AppID
	}
	return ids
}
