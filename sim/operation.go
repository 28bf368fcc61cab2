// Defines the Operation, the atomic unit of simulated work, and the Record it is
// built from. An operation knows its remaining cycles and how long they take.

package sim

import (
	"context"
	"fmt"
	"time"
)

// Component is the single-letter kind of a meta-data record.
type Component string

const (
	ComponentApplication Component = "A"
	ComponentProcessor   Component = "P"
	ComponentInput       Component = "I"
	ComponentOutput      Component = "O"
)

// IsIO reports whether operations of this kind are device-bound.
func (c Component) IsIO() bool {
	return c == ComponentInput || c == ComponentOutput
}

// Device names an I/O device. Meaningful only for Input and Output operations.
type Device string

const (
	DeviceHardDrive Device = "hard drive"
	DeviceKeyboard  Device = "keyboard"
	DeviceMonitor   Device = "monitor"
	DevicePrinter   Device = "printer"
)

// Application boundary labels.
const (
	LabelStart = "start"
	LabelStop  = "stop"
	labelEnd   = "end" // accepted synonym for stop
)

// Record is one entry of the flat operation stream produced by the meta-data parser.
type Record struct {
	Component Component
	Label     string // "start"/"stop" for A, device name for I/O, free text for P
	Cycles    int
}

func (r Record) String() string {
	return fmt.Sprintf("%s(%s)%d", r.Component, r.Label, r.Cycles)
}

// IsAppStart reports whether r opens an application boundary.
func (r Record) IsAppStart() bool {
	return r.Component == ComponentApplication && r.Label == LabelStart
}

// IsAppStop reports whether r closes an application boundary.
func (r Record) IsAppStop() bool {
	return r.Component == ComponentApplication && (r.Label == LabelStop || r.Label == labelEnd)
}

// Operation is a processing or I/O step of one application.
// Invariant: 0 <= RemainingCycles <= TotalCycles; complete iff RemainingCycles == 0.
type Operation struct {
	Kind            Component
	Device          Device // empty for Processor operations
	TotalCycles     int
	RemainingCycles int
	AppID           int

	cycleTime time.Duration
	env       *Env
}

// NewOperation validates rec and resolves its cycle time from cfg.
// Unknown components or devices and non-positive cycle counts return
// ErrMalformedOperation; a missing cycle time returns ErrConfiguration.
func NewOperation(env *Env, cfg Config, appID int, rec Record) (*Operation, error) {
	op := &Operation{
		Kind:            rec.Component,
		TotalCycles:     rec.Cycles,
		RemainingCycles: rec.Cycles,
		AppID:           appID,
		env:             env,
	}
	switch rec.Component {
	case ComponentProcessor:
	case ComponentInput, ComponentOutput:
		op.Device = Device(rec.Label)
	default:
		return nil, fmt.Errorf("%w: %s in process %d: unknown component", ErrMalformedOperation, rec, appID)
	}
	if rec.Cycles <= 0 {
		return nil, fmt.Errorf("%w: %s in process %d: cycles must be > 0", ErrMalformedOperation, rec, appID)
	}
	ct, err := cfg.CycleTime(op.Kind, op.Device)
	if err != nil {
		return nil, fmt.Errorf("%s in process %d: %w", rec, appID, err)
	}
	op.cycleTime = ct
	return op, nil
}

// Complete reports whether every cycle has been consumed.
func (op *Operation) Complete() bool {
	return op.RemainingCycles == 0
}

// CycleTime is the simulated duration of one cycle of this operation.
func (op *Operation) CycleTime() time.Duration {
	return op.cycleTime
}

// RemainingTime is RemainingCycles times the cycle time. No side effects.
func (op *Operation) RemainingTime() time.Duration {
	return time.Duration(op.RemainingCycles) * op.cycleTime
}

// Consume takes min(requested, RemainingCycles) cycles and returns how many were
// taken together with their simulated duration. Non-positive requests consume nothing.
func (op *Operation) Consume(requested int) (int, time.Duration) {
	if requested <= 0 {
		return 0, 0
	}
	n := min(requested, op.RemainingCycles)
	op.RemainingCycles -= n
	return n, time.Duration(n) * op.cycleTime
}

// Execute consumes up to requested cycles and simulates them on the caller's
// goroutine, logging start and end events around the delay.
func (op *Operation) Execute(ctx context.Context, requested int) (int, error) {
	n, d := op.Consume(requested)
	if n == 0 {
		return 0, nil
	}
	return n, op.simulate(ctx, n, d)
}

// Dispatch runs the simulated delay of already-consumed cycles on its own
// goroutine. The returned channel yields exactly one result.
func (op *Operation) Dispatch(ctx context.Context, cycles int, d time.Duration) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- op.simulate(ctx, cycles, d)
	}()
	return done
}

func (op *Operation) simulate(ctx context.Context, cycles int, d time.Duration) error {
	desc := op.Description()
	op.env.processEvent(op.AppID, "START %s", desc)
	if err := op.env.Clock.Sleep(ctx, d); err != nil {
		return fmt.Errorf("process %d %s interrupted: %w", op.AppID, desc, err)
	}
	op.env.processEvent(op.AppID, "END %s", desc)
	op.env.Metrics.ObserveCycles(op.Kind, cycles)
	if op.Complete() {
		op.env.Metrics.ObserveOperationCompleted(op.Kind)
	}
	return nil
}

// Description is the log phrase for this operation, e.g. "processing action"
// or "hard drive input".
func (op *Operation) Description() string {
	return describe(op.Kind, op.Device)
}

func describe(kind Component, device Device) string {
	switch kind {
	case ComponentProcessor:
		return "processing action"
	case ComponentInput:
		return fmt.Sprintf("%s input", device)
	case ComponentOutput:
		return fmt.Sprintf("%s output", device)
	default:
		return fmt.Sprintf("%s(%s)", kind, device)
	}
}
