// Package eventlog writes simulation events as timestamped lines,
//
//	0.012345 - Process 1: START processing action
//
// to the monitor, a file, or both. Monitor output highlights the START,
// SELECTING and END keywords; the file copy is plain text.
package eventlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opsim/sched-sim/sim"
)

// ANSI colours for monitor keywords.
const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

var keywordColors = map[string]string{
	"START":     colorGreen,
	"SELECTING": colorYellow,
	"END":       colorRed,
}

const (
	fieldElapsed = "elapsed"
	fieldActor   = "actor"
)

// lineFormatter renders one event per line with the elapsed time in seconds,
// fixed to six decimals.
type lineFormatter struct {
	color bool
}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	elapsed, _ := entry.Data[fieldElapsed].(time.Duration)
	actor, _ := entry.Data[fieldActor].(string)
	event := entry.Message
	if f.color {
		event = colorize(event)
	}
	return fmt.Appendf(nil, "%.6f - %s: %s\n", elapsed.Seconds(), actor, event), nil
}

// colorize wraps the leading keyword of event, if it is one we highlight.
func colorize(event string) string {
	keyword, rest, _ := strings.Cut(event, " ")
	c, ok := keywordColors[keyword]
	if !ok {
		return event
	}
	if rest == "" {
		return c + keyword + colorReset
	}
	return c + keyword + colorReset + " " + rest
}

func newLogger(w io.Writer, color bool) *logrus.Logger {
	lg := logrus.New()
	lg.SetOutput(w)
	lg.SetFormatter(&lineFormatter{color: color})
	lg.SetLevel(logrus.InfoLevel)
	return lg
}

var _ sim.EventSink = (*Log)(nil)

// Log is an EventSink fanning each event out to its loggers. Emit serializes
// writers so concurrent I/O tasks cannot interleave or reorder lines.
type Log struct {
	mu      sync.Mutex
	loggers []*logrus.Logger
	closer  io.Closer
}

// New opens a Log for the given target: "monitor" writes to console,
// "file" to path, "both" to each. console is typically os.Stdout.
func New(target, path string, console io.Writer) (*Log, error) {
	l := &Log{}
	if target == sim.LogToMonitor || target == sim.LogToBoth {
		l.loggers = append(l.loggers, newLogger(console, true))
	}
	if target == sim.LogToFile || target == sim.LogToBoth {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("opening event log: %w", err)
		}
		l.loggers = append(l.loggers, newLogger(f, false))
		l.closer = f
	}
	if len(l.loggers) == 0 {
		return nil, fmt.Errorf("unknown log target %q", target)
	}
	return l, nil
}

// NewWithWriters builds a Log over arbitrary writers. monitor gets coloured
// keywords, file does not; either may be nil.
func NewWithWriters(monitor, file io.Writer) *Log {
	l := &Log{}
	if monitor != nil {
		l.loggers = append(l.loggers, newLogger(monitor, true))
	}
	if file != nil {
		l.loggers = append(l.loggers, newLogger(file, false))
	}
	return l
}

// Emit writes one event line to every target.
func (l *Log) Emit(elapsed time.Duration, actor, event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, lg := range l.loggers {
		lg.WithFields(logrus.Fields{
			fieldElapsed: elapsed,
			fieldActor:   actor,
		}).Info(event)
	}
}

// Close flushes and closes the log file, if one was opened.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
