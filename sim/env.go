package sim

import (
	"fmt"
	"time"
)

// Event actors.
const (
	ActorSimulator = "Simulator"
	ActorOS        = "OS"
)

// EventSink receives every timestamped simulation event. One sink is shared by
// the whole run; implementations must serialize concurrent writers.
type EventSink interface {
	Emit(elapsed time.Duration, actor, event string)
}

// Env bundles the collaborators shared by the Simulator and the Applications and
// Operations it creates. It replaces any process-wide logger or clock.
type Env struct {
	Clock   Clock
	Sink    EventSink
	Metrics *Metrics // optional
}

func (e *Env) emit(actor, format string, args ...any) {
	if e.Sink == nil {
		return
	}
	e.Sink.Emit(e.Clock.Elapsed(), actor, fmt.Sprintf(format, args...))
}

func (e *Env) osEvent(format string, args ...any) {
	e.emit(ActorOS, format, args...)
}

func (e *Env) processEvent(appID int, format string, args ...any) {
	e.emit(ProcessActor(appID), format, args...)
}

// ProcessActor names the actor column for events of the given application.
func ProcessActor(appID int) string {
	return fmt.Sprintf("Process %d", appID)
}
