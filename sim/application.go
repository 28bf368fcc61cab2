// Defines the Application, a simulated process that owns an ordered queue of
// operations and executes them either to completion or one quantum at a time.

package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Application is one simulated process.
//
// Its operation queue is guarded by mu so that an I/O task finishing on its own
// goroutine can settle the front operation while the scheduler inspects other
// applications. While blocked is set the scheduler never starts a slice on it.
type Application struct {
	ID int

	env *Env

	mu         sync.Mutex
	ops        []*Operation
	remaining  time.Duration // sum of RemainingTime over ops, recalculated after every mutation
	finishedAt time.Duration // elapsed time at which the last operation completed
	finished   bool

	blocked atomic.Bool
	tasks   sync.WaitGroup // outstanding I/O tasks
}

// NewApplication creates an application owning ops in the given order.
func NewApplication(env *Env, id int, ops []*Operation) *Application {
	a := &Application{ID: id, env: env, ops: ops}
	a.recalculate()
	return a
}

// recalculate must be called with mu held (or before the application is shared).
func (a *Application) recalculate() {
	var total time.Duration
	for _, op := range a.ops {
		total += op.RemainingTime()
	}
	a.remaining = total
}

// TotalRemainingTime is the sum of RemainingTime over every queued operation.
func (a *Application) TotalRemainingTime() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remaining
}

// Len returns the number of queued operations, including a partially consumed front.
func (a *Application) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ops)
}

// Operations returns a snapshot of the queued operations.
func (a *Application) Operations() []*Operation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Operation(nil), a.ops...)
}

// Blocked reports whether an I/O operation of this application is in flight.
func (a *Application) Blocked() bool {
	return a.blocked.Load()
}

// Runnable reports whether the application can be given the processor.
func (a *Application) Runnable() bool {
	return !a.Blocked() && a.Len() > 0
}

// Done reports whether every operation has completed and nothing is in flight.
func (a *Application) Done() bool {
	return !a.Blocked() && a.Len() == 0
}

// FinishedAt returns the elapsed time at which the last operation completed.
func (a *Application) FinishedAt() (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finishedAt, a.finished
}

// Wait blocks until every I/O task dispatched by this application has settled.
func (a *Application) Wait() {
	a.tasks.Wait()
}

func (a *Application) front() *Operation {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.ops) == 0 {
		return nil
	}
	return a.ops[0]
}

// consumeFront takes up to n cycles from the front operation.
func (a *Application) consumeFront(n int) (*Operation, int, time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	op := a.ops[0]
	consumed, d := op.Consume(n)
	a.recalculate()
	return op, consumed, d
}

// settle removes op from the front of the queue once it is complete.
func (a *Application) settle(op *Operation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.ops) > 0 && a.ops[0] == op && op.Complete() {
		a.ops[0] = nil
		a.ops = a.ops[1:]
	}
	a.recalculate()
	if len(a.ops) == 0 && !a.finished {
		a.finished = true
		a.finishedAt = a.env.Clock.Elapsed()
	}
}

// RunToCompletion executes every queued operation fully, front to back,
// removing each as it completes. I/O operations run on their own task, which
// the application awaits before moving on.
func (a *Application) RunToCompletion(ctx context.Context) (int, error) {
	a.env.osEvent("START process %d", a.ID)
	used := 0
	for op := a.front(); op != nil; op = a.front() {
		n, err := a.step(ctx, op.RemainingCycles)
		used += n
		if err != nil {
			return used, err
		}
	}
	a.env.osEvent("END process %d", a.ID)
	return used, nil
}

// RunForQuantum consumes up to quantum cycles across one or more operations
// starting at the front of the queue. An operation interrupted by the end of the
// quantum stays at the front, partially consumed. I/O is awaited in-slice, so the
// application is blocked only while that I/O is in flight.
func (a *Application) RunForQuantum(ctx context.Context, quantum int) (int, error) {
	a.env.osEvent("START process %d", a.ID)
	used := 0
	for used < quantum && a.front() != nil {
		n, err := a.step(ctx, quantum-used)
		used += n
		if err != nil {
			return used, err
		}
	}
	a.env.osEvent("END process %d", a.ID)
	return used, nil
}

// RunForQuantumOverlapped behaves like RunForQuantum until the slice reaches an
// I/O operation. That operation is dispatched as an independent task that
// consumes at most the quantum left, the application becomes blocked, and the
// slice ends so the processor can go to another application. onSettled is
// called from the task once the I/O has finished and the application is no
// longer blocked.
func (a *Application) RunForQuantumOverlapped(ctx context.Context, quantum int, onSettled func(*Application, error)) (int, error) {
	a.env.osEvent("START process %d", a.ID)
	used := 0
	for used < quantum {
		op := a.front()
		if op == nil {
			break
		}
		if op.Kind.IsIO() {
			io, n, d := a.consumeFront(quantum - used)
			used += n
			a.blocked.Store(true)
			a.tasks.Add(1)
			go func() {
				defer a.tasks.Done()
				err := <-io.Dispatch(ctx, n, d)
				a.settle(io)
				a.blocked.Store(false)
				if onSettled != nil {
					onSettled(a, err)
				}
			}()
			break
		}
		n, err := a.step(ctx, quantum-used)
		used += n
		if err != nil {
			return used, err
		}
	}
	a.env.osEvent("END process %d", a.ID)
	return used, nil
}

// step consumes up to n cycles of the front operation and simulates them.
// Processor work runs on the calling goroutine; I/O runs on a task that is
// joined before step returns, with the application blocked meanwhile.
func (a *Application) step(ctx context.Context, n int) (int, error) {
	op, consumed, d := a.consumeFront(n)
	var err error
	if op.Kind.IsIO() {
		a.blocked.Store(true)
		err = <-op.Dispatch(ctx, consumed, d)
		a.settle(op)
		a.blocked.Store(false)
	} else {
		err = op.simulate(ctx, consumed, d)
		a.settle(op)
	}
	return consumed, err
}
