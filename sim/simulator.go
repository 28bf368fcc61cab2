// sim/simulator.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opsim/sched-sim/sim/trace"
)

// State is the lifecycle stage of a Simulator.
type State string

const (
	StatePreparing State = "preparing"
	StateRunning   State = "running"
	StateDrained   State = "drained"
)

// Simulator owns the pool of applications and drives the policy loop:
// Preparing (build the pool from the record stream) → Running → Drained.
type Simulator struct {
	RunID  string
	Config Config
	Policy Policy
	State  State
	Trace  *trace.SimulationTrace

	env        *Env
	pool       *Pool
	completion CompletionScheduler // non-preemptive policies
	slicer     SliceScheduler      // preemptive policies
	cursor     int                 // next pool index a slice scheduler considers
	discarded  int                 // records outside any application boundary
	log        *logrus.Entry
}

// NewSimulator validates the policy and creates a simulator in the Preparing
// state. Nothing is logged to sink until Prepare is called, so an unsupported
// policy aborts before any simulation event is emitted.
func NewSimulator(cfg Config, clock Clock, sink EventSink, metrics *Metrics) (*Simulator, error) {
	if !IsValidPolicy(cfg.Scheduling) {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnsupportedPolicy, cfg.Scheduling, strings.Join(ValidPolicyNames(), ", "))
	}
	if clock == nil {
		clock = NewWallClock()
	}
	policy := Policy(cfg.Scheduling)
	s := &Simulator{
		RunID:  uuid.NewString(),
		Config: cfg,
		Policy: policy,
		State:  StatePreparing,
		Trace:  trace.NewSimulationTrace(string(policy)),
		env:    &Env{Clock: clock, Sink: sink, Metrics: metrics},
		pool:   &Pool{},
	}
	s.log = logrus.WithFields(logrus.Fields{"run_id": s.RunID, "policy": policy})

	var err error
	if policy.Sliced() {
		if cfg.Quantum <= 0 {
			return nil, fmt.Errorf("%w: quantum must be > 0 for %s, got %d", ErrConfiguration, policy, cfg.Quantum)
		}
		s.slicer, err = NewSliceScheduler(policy)
	} else {
		s.completion, err = NewCompletionScheduler(policy)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Pool returns the simulator's application pool.
func (s *Simulator) Pool() *Pool {
	return s.pool
}

// Discarded returns how many records fell outside every application boundary.
func (s *Simulator) Discarded() int {
	return s.discarded
}

// Prepare splits the flat record stream on application start/stop markers,
// creates one Application per group in arrival order and fills the pool.
// Records outside any boundary pair are discarded. Malformed records abort
// preparation when Config.Strict is set and are logged and skipped otherwise;
// configuration errors always abort.
func (s *Simulator) Prepare(records []Record) error {
	if s.State != StatePreparing {
		return fmt.Errorf("prepare: simulator is %s, want %s", s.State, StatePreparing)
	}
	s.env.emit(ActorSimulator, "START")
	s.env.osEvent("START process preparation")

	apps, err := s.build(records)
	if err != nil {
		return err
	}
	for _, a := range apps {
		s.pool.Add(a)
	}
	if s.completion != nil {
		s.pool.Reorder(func(apps []*Application) {
			s.completion.OrderPool(apps, true)
		})
	}

	s.env.osEvent("END process preparation")
	s.env.Metrics.SetPoolSize(s.pool.Len())
	s.log.Infof("prepared %d applications (%d records discarded): %v", s.pool.Len(), s.discarded, s.pool)
	s.State = StateRunning
	return nil
}

func (s *Simulator) build(records []Record) ([]*Application, error) {
	var (
		apps    []*Application
		current []*Operation
		inApp   bool
		appID   int
	)
	for i, rec := range records {
		switch {
		case rec.IsAppStart():
			if inApp {
				err := fmt.Errorf("%w: record %d %s: process %d has no stop marker", ErrMalformedOperation, i, rec, appID)
				if ferr := s.malformed(err); ferr != nil {
					return nil, ferr
				}
			}
			appID++
			inApp = true
			current = nil
		case rec.IsAppStop():
			if !inApp {
				s.discarded++
				continue
			}
			inApp = false
			if len(current) == 0 {
				s.log.Warnf("process %d has no operations; discarded", appID)
				continue
			}
			apps = append(apps, NewApplication(s.env, appID, current))
		case !inApp:
			s.discarded++
		default:
			op, err := NewOperation(s.env, s.Config, appID, rec)
			if err != nil {
				if ferr := s.malformed(err); ferr != nil {
					return nil, ferr
				}
				continue
			}
			current = append(current, op)
		}
	}
	if inApp {
		err := fmt.Errorf("%w: process %d has no stop marker", ErrMalformedOperation, appID)
		if ferr := s.malformed(err); ferr != nil {
			return nil, ferr
		}
	}
	return apps, nil
}

// malformed logs a rejected record and decides whether it is fatal.
func (s *Simulator) malformed(err error) error {
	s.env.osEvent("ERROR %v", err)
	if s.Config.Strict || errors.Is(err, ErrConfiguration) {
		return err
	}
	s.log.Warnf("skipping: %v", err)
	return nil
}

// Run executes the policy loop until the pool is empty. It returns early only
// if ctx is cancelled; outstanding I/O tasks are drained before it returns.
func (s *Simulator) Run(ctx context.Context) error {
	if s.State != StateRunning {
		return fmt.Errorf("run: simulator is %s, want %s", s.State, StateRunning)
	}
	var err error
	if s.slicer != nil {
		err = s.runSliced(ctx)
	} else {
		err = s.runToCompletion(ctx)
	}
	if err != nil {
		return err
	}
	s.State = StateDrained
	s.env.emit(ActorSimulator, "END")
	s.log.Infof("drained after %d dispatches", len(s.Trace.Slices))
	return nil
}

func (s *Simulator) runToCompletion(ctx context.Context) error {
	for s.pool.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.env.osEvent("SELECTING next process")
		app := s.pool.PopFront()
		s.log.WithField("app", app.ID).Debugf("run to completion, remaining %v", app.TotalRemainingTime())

		start := s.env.Clock.Elapsed()
		used, err := app.RunToCompletion(ctx)
		s.recordSlice(app, 0, used, start)
		if err != nil {
			return err
		}
		s.retire(app)
		s.pool.Reorder(func(apps []*Application) {
			s.completion.OrderPool(apps, false)
		})
	}
	return nil
}

func (s *Simulator) runSliced(ctx context.Context) error {
	// Each application has at most one I/O task in flight, and the loop drains
	// this channel after every slice, so it never fills.
	settled := make(chan error, s.pool.Len()+1)
	onSettled := func(_ *Application, err error) {
		settled <- err
	}
	defer s.awaitTasks()

	for {
		removed, before := s.pool.RemoveDone(s.cursor)
		s.cursor -= before
		for _, a := range removed {
			s.retire(a)
		}
		if s.pool.Len() == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		apps := s.pool.Items()
		idx := s.slicer.Next(apps, s.cursor-1)
		if idx < 0 {
			// every pooled application is blocked on I/O
			s.log.Debug("all applications blocked, waiting for I/O")
			select {
			case err := <-settled:
				if err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		s.env.osEvent("SELECTING next process")
		app := apps[idx]
		s.log.WithField("app", app.ID).Debugf("slice of %d cycles, remaining %v", s.Config.Quantum, app.TotalRemainingTime())

		start := s.env.Clock.Elapsed()
		var (
			used int
			err  error
		)
		if s.Config.OverlapIO {
			used, err = app.RunForQuantumOverlapped(ctx, s.Config.Quantum, onSettled)
		} else {
			used, err = app.RunForQuantum(ctx, s.Config.Quantum)
		}
		s.recordSlice(app, s.Config.Quantum, used, start)
		if err != nil {
			return err
		}
		s.cursor = idx + 1

		if err := drain(settled); err != nil {
			return err
		}
	}
}

// drain consumes pending I/O notifications without blocking and returns the
// first failure among them.
func drain(settled <-chan error) error {
	for {
		select {
		case err := <-settled:
			if err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *Simulator) awaitTasks() {
	for _, a := range s.pool.Items() {
		a.Wait()
	}
}

func (s *Simulator) recordSlice(app *Application, quantum, used int, start time.Duration) {
	s.Trace.RecordSlice(trace.SliceRecord{
		AppID:     app.ID,
		Quantum:   quantum,
		Cycles:    used,
		Start:     start,
		End:       s.env.Clock.Elapsed(),
		Remaining: app.TotalRemainingTime(),
	})
	s.env.Metrics.ObserveDispatch(s.Policy)
}

// retire records the completion of an application that has left the pool.
func (s *Simulator) retire(app *Application) {
	at, ok := app.FinishedAt()
	if !ok {
		at = s.env.Clock.Elapsed()
	}
	s.Trace.RecordCompletion(trace.CompletionRecord{AppID: app.ID, At: at})
	s.env.Metrics.ObserveApplicationCompleted()
	s.env.Metrics.SetPoolSize(s.pool.Len())
	s.log.WithField("app", app.ID).Debugf("completed at %v", at)
}
