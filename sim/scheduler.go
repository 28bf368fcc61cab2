package sim

import (
	"fmt"
	"sort"
)

// Policy identifies a scheduling algorithm.
type Policy string

const (
	PolicyFIFO  Policy = "FIFO"
	PolicySJF   Policy = "SJF"
	PolicySRTFN Policy = "SRTF-N"
	PolicyRR    Policy = "RR"
	PolicyFIFOP Policy = "FIFO-P"
	PolicySRTFP Policy = "SRTF-P"
)

// validPolicies maps accepted policy identifiers.
var validPolicies = map[Policy]bool{
	PolicyFIFO:  true,
	PolicySJF:   true,
	PolicySRTFN: true,
	PolicyRR:    true,
	PolicyFIFOP: true,
	PolicySRTFP: true,
}

// IsValidPolicy returns true if name is a recognized policy identifier.
func IsValidPolicy(name string) bool {
	return validPolicies[Policy(name)]
}

// ValidPolicyNames returns the accepted policy identifiers, sorted.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for p := range validPolicies {
		names = append(names, string(p))
	}
	sort.Strings(names)
	return names
}

// Sliced reports whether the policy dispatches quantum-bounded slices rather
// than running each application to completion.
func (p Policy) Sliced() bool {
	return p == PolicyRR || p == PolicyFIFOP || p == PolicySRTFP
}

// CompletionScheduler orders the pool for non-preemptive policies, where each
// selected application runs to completion. OrderPool is called once after
// preparation (initial=true) and again after every completed application.
// Implementations sort in place with sort.SliceStable for determinism.
type CompletionScheduler interface {
	OrderPool(apps []*Application, initial bool)
}

// FIFOScheduler preserves arrival order (no-op).
type FIFOScheduler struct{}

func (f *FIFOScheduler) OrderPool(_ []*Application, _ bool) {
	// No-op: arrival order preserved from preparation
}

// SJFScheduler sorts the pool by total remaining time once, up front.
type SJFScheduler struct{}

func (s *SJFScheduler) OrderPool(apps []*Application, initial bool) {
	if initial {
		sortByRemainingTime(apps)
	}
}

// SRTFNScheduler re-sorts by total remaining time after every completed
// application. Without mid-run arrivals this yields the same order as SJF.
type SRTFNScheduler struct{}

func (s *SRTFNScheduler) OrderPool(apps []*Application, _ bool) {
	sortByRemainingTime(apps)
}

// sortByRemainingTime orders ascending by total remaining time, then by
// arrival (ID) so ties are deterministic.
func sortByRemainingTime(apps []*Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		ti, tj := apps[i].TotalRemainingTime(), apps[j].TotalRemainingTime()
		if ti != tj {
			return ti < tj
		}
		return apps[i].ID < apps[j].ID
	})
}

// SliceScheduler picks the next application to receive a quantum under a
// preemptive policy. apps is in arrival order; last is the index of the
// application that held the processor previously (-1 before the first slice).
// Next returns the index of a runnable application, or -1 when every pooled
// application is blocked.
type SliceScheduler interface {
	Next(apps []*Application, last int) int
}

// RoundRobinScheduler walks the pool circularly, starting after the last
// application served and skipping blocked ones.
type RoundRobinScheduler struct{}

func (r *RoundRobinScheduler) Next(apps []*Application, last int) int {
	n := len(apps)
	for k := 1; k <= n; k++ {
		i := (last + k) % n
		if i < 0 {
			i += n
		}
		if apps[i].Runnable() {
			return i
		}
	}
	return -1
}

// FIFOPreemptiveScheduler always picks the earliest-arrived runnable
// application. A quantum expiry or an I/O wait hands the processor to the next
// arrival until the earlier one becomes runnable again.
type FIFOPreemptiveScheduler struct{}

func (f *FIFOPreemptiveScheduler) Next(apps []*Application, _ int) int {
	for i, a := range apps {
		if a.Runnable() {
			return i
		}
	}
	return -1
}

// SRTFPreemptiveScheduler picks the runnable application with the least total
// remaining time, re-evaluated at every slice boundary. Ties go to the earlier arrival.
type SRTFPreemptiveScheduler struct{}

func (s *SRTFPreemptiveScheduler) Next(apps []*Application, _ int) int {
	best := -1
	var bestTime int64
	for i, a := range apps {
		if !a.Runnable() {
			continue
		}
		t := int64(a.TotalRemainingTime())
		if best < 0 || t < bestTime {
			best, bestTime = i, t
		}
	}
	return best
}

// NewCompletionScheduler creates the CompletionScheduler for a non-preemptive policy.
func NewCompletionScheduler(p Policy) (CompletionScheduler, error) {
	switch p {
	case PolicyFIFO:
		return &FIFOScheduler{}, nil
	case PolicySJF:
		return &SJFScheduler{}, nil
	case PolicySRTFN:
		return &SRTFNScheduler{}, nil
	default:
		return nil, fmt.Errorf("%w: %q is not a run-to-completion policy", ErrUnsupportedPolicy, p)
	}
}

// NewSliceScheduler creates the SliceScheduler for a preemptive policy.
func NewSliceScheduler(p Policy) (SliceScheduler, error) {
	switch p {
	case PolicyRR:
		return &RoundRobinScheduler{}, nil
	case PolicyFIFOP:
		return &FIFOPreemptiveScheduler{}, nil
	case PolicySRTFP:
		return &SRTFPreemptiveScheduler{}, nil
	default:
		return nil, fmt.Errorf("%w: %q is not a preemptive policy", ErrUnsupportedPolicy, p)
	}
}
