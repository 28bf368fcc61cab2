// Package trace provides dispatch-trace recording for scheduling analysis.
// This package has no dependencies on sim/: it stores pure data types.
package trace

import "time"

// SliceRecord captures one dispatch: an application holding the processor for
// a full run (non-preemptive policies) or for one quantum.
type SliceRecord struct {
	AppID     int
	Quantum   int // cycle budget of the slice; 0 for a run to completion
	Cycles    int // cycles actually consumed
	Start     time.Duration
	End       time.Duration
	Remaining time.Duration // application's total remaining time after the slice
}

// CompletionRecord captures the moment an application's last operation finished.
type CompletionRecord struct {
	AppID int
	At    time.Duration
}
