package trace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

func TestSummarize_NilAndEmpty(t *testing.T) {
	assert.Equal(t, &TraceSummary{}, Summarize(nil))

	s := Summarize(NewSimulationTrace("FIFO"))
	assert.Equal(t, "FIFO", s.Policy)
	assert.Zero(t, s.TotalDispatches)
	assert.Empty(t, s.Apps)
}

func TestSummarize_TurnaroundAndWaiting(t *testing.T) {
	// GIVEN RR slices: A1 0-4, A2 4-6 (done), A1 6-8 (done)
	st := NewSimulationTrace("RR")
	st.RecordSlice(SliceRecord{AppID: 1, Cycles: 2, Start: 0, End: 4 * ms})
	st.RecordSlice(SliceRecord{AppID: 2, Cycles: 1, Start: 4 * ms, End: 6 * ms})
	st.RecordCompletion(CompletionRecord{AppID: 2, At: 6 * ms})
	st.RecordSlice(SliceRecord{AppID: 1, Cycles: 1, Start: 6 * ms, End: 8 * ms})
	st.RecordCompletion(CompletionRecord{AppID: 1, At: 8 * ms})

	// WHEN summarized
	s := Summarize(st)

	// THEN per-application figures follow from the slices
	assert.Equal(t, 3, s.TotalDispatches)
	assert.Equal(t, []int{2, 1}, s.CompletionOrder)
	require.Len(t, s.Apps, 2)

	a1, a2 := s.Apps[0], s.Apps[1]
	assert.Equal(t, AppSummary{AppID: 1, Slices: 2, Cycles: 3, FirstStart: 0, Completed: 8 * ms, Turnaround: 8 * ms, Waiting: 2 * ms}, a1)
	assert.Equal(t, AppSummary{AppID: 2, Slices: 1, Cycles: 1, FirstStart: 4 * ms, Completed: 6 * ms, Turnaround: 6 * ms, Waiting: 4 * ms}, a2)

	assert.Equal(t, 7*ms, s.MeanTurnaround)
	assert.Equal(t, 8*ms, s.Makespan)
}
