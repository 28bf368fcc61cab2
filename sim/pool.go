// Implements the Pool, which holds every Application that still has work.
// Applications are added in arrival order during preparation.

package sim

import (
	"fmt"
	"strings"
)

// Pool is the scheduler's ordered collection of applications.
// Invariant while running: every pooled application has at least one
// incomplete operation or an I/O task in flight.
type Pool struct {
	apps []*Application
}

// Add appends an application to the back of the pool.
func (p *Pool) Add(a *Application) {
	p.apps = append(p.apps, a)
}

func (p *Pool) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, a := range p.apps {
		fmt.Fprintf(&sb, "%d:%v", a.ID, a.TotalRemainingTime())
		if i < len(p.apps)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of pooled applications.
func (p *Pool) Len() int {
	return len(p.apps)
}

// Peek returns the application at the front of the pool without removing it.
// Returns nil if the pool is empty.
func (p *Pool) Peek() *Application {
	if len(p.apps) == 0 {
		return nil
	}
	return p.apps[0]
}

// PopFront removes and returns the application at the front of the pool.
func (p *Pool) PopFront() *Application {
	if len(p.apps) == 0 {
		return nil
	}
	a := p.apps[0]
	p.apps[0] = nil
	p.apps = p.apps[1:]
	return a
}

// Items returns the pool contents for iteration.
// The returned slice is the pool's internal storage: callers may read it but
// MUST NOT append to or reslice it. Use Reorder to change the order.
func (p *Pool) Items() []*Application {
	return p.apps
}

// Reorder applies fn to the pool contents, allowing in-place sorting.
// fn MUST NOT change the slice length.
func (p *Pool) Reorder(fn func([]*Application)) {
	if fn == nil {
		panic("Reorder: fn must not be nil")
	}
	n := len(p.apps)
	fn(p.apps)
	if len(p.apps) != n {
		panic(fmt.Sprintf("Reorder: fn changed pool length from %d to %d", n, len(p.apps)))
	}
}

// RemoveDone drops every application whose work is finished, preserving the
// order of the rest. It returns the removed applications in pool order and
// the number of them that sat before index cursor, so a caller traversing the
// pool can shift its cursor. Removal happens after traversal, never during it.
func (p *Pool) RemoveDone(cursor int) (removed []*Application, beforeCursor int) {
	kept := p.apps[:0]
	for i, a := range p.apps {
		if a.Done() {
			removed = append(removed, a)
			if i < cursor {
				beforeCursor++
			}
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(p.apps); i++ {
		p.apps[i] = nil
	}
	p.apps = kept
	return removed, beforeCursor
}
