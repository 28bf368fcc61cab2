package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsim/sched-sim/sim/internal/testutil"
)

func testConfig(policy Policy, quantum int) Config {
	cfg := DefaultConfig()
	cfg.MetadataFile = "program.mdf"
	cfg.Scheduling = string(policy)
	cfg.Quantum = quantum
	cfg.CycleTimes = CycleTimes{Processor: 2, Monitor: 5, HardDrive: 3, Printer: 7, Keyboard: 11}
	return cfg
}

func newTestEnv() (*Env, *testutil.FakeClock, *testutil.RecordingSink) {
	clock := &testutil.FakeClock{}
	sink := &testutil.RecordingSink{}
	return &Env{Clock: clock, Sink: sink}, clock, sink
}

func mustOp(t *testing.T, env *Env, cfg Config, appID int, rec Record) *Operation {
	t.Helper()
	op, err := NewOperation(env, cfg, appID, rec)
	require.NoError(t, err)
	return op
}

func newTestApp(t *testing.T, env *Env, cfg Config, id int, recs ...Record) *Application {
	t.Helper()
	ops := make([]*Operation, len(recs))
	for i, rec := range recs {
		ops[i] = mustOp(t, env, cfg, id, rec)
	}
	return NewApplication(env, id, ops)
}

func proc(cycles int) Record {
	return Record{Component: ComponentProcessor, Label: "run", Cycles: cycles}
}

func input(device Device, cycles int) Record {
	return Record{Component: ComponentInput, Label: string(device), Cycles: cycles}
}

func output(device Device, cycles int) Record {
	return Record{Component: ComponentOutput, Label: string(device), Cycles: cycles}
}

func appStart() Record { return Record{Component: ComponentApplication, Label: LabelStart} }
func appStop() Record  { return Record{Component: ComponentApplication, Label: LabelStop} }

// program wraps each group of records in application start/stop markers.
func program(apps ...[]Record) []Record {
	var out []Record
	for _, recs := range apps {
		out = append(out, appStart())
		out = append(out, recs...)
		out = append(out, appStop())
	}
	return out
}

// sumRemaining recomputes an application's remaining time from its operations.
func sumRemaining(a *Application) time.Duration {
	var total time.Duration
	for _, op := range a.Operations() {
		total += time.Duration(op.RemainingCycles) * op.CycleTime()
	}
	return total
}
