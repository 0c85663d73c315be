// Package navigator tracks which week the dashboard is showing.
//
// The navigator starts at the week containing today and moves one week at a
// time. It never moves past the current week and never before the week of
// the user's earliest play. State changes apply immediately; the OnChange
// notification is debounced so a burst of key presses triggers one fetch.
package navigator

import (
	"sync"
	"time"

	"github.com/javiermolinar/tuneweek/internal/dateutil"
)

// State is a snapshot of the navigator.
type State struct {
	Current  dateutil.WeekRange
	Earliest *dateutil.WeekRange
}

// Options configures a Navigator.
type Options struct {
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
	// Location decides which calendar date "now" falls on. Defaults to UTC.
	Location *time.Location
	// Debounce is the quiet window for OnChange. Defaults to DefaultDebounce.
	Debounce time.Duration
	// AfterFunc schedules the debounced notification. Defaults to time.AfterFunc.
	AfterFunc AfterFunc
	// OnChange receives the settled range.
	OnChange func(dateutil.WeekRange)
}

// Navigator is safe for concurrent use, although callers normally drive it
// from a single event loop.
type Navigator struct {
	mu       sync.Mutex
	now      func() time.Time
	loc      *time.Location
	current  dateutil.WeekRange
	earliest *dateutil.WeekRange
	notified dateutil.WeekRange
	onChange func(dateutil.WeekRange)
	debounce *Debouncer
}

// New creates a navigator positioned on the current week.
func New(opts Options) *Navigator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	n := &Navigator{
		now:      opts.Now,
		loc:      opts.Location,
		onChange: opts.OnChange,
		debounce: NewDebouncer(opts.Debounce, opts.AfterFunc),
	}
	n.current = n.thisWeek()
	n.notified = n.current
	return n
}

// Today returns today's calendar date.
func (n *Navigator) Today() time.Time {
	return dateutil.Today(n.now(), n.loc)
}

func (n *Navigator) thisWeek() dateutil.WeekRange {
	return dateutil.WeekRangeOf(n.Today())
}

// Previous moves one week back, clamped at the earliest week. It returns
// false when already at the earliest week.
func (n *Navigator) Previous() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	target := n.previousTargetLocked()
	if target.Equal(n.current) {
		return false
	}
	n.moveLocked(target)
	return true
}

func (n *Navigator) previousTargetLocked() dateutil.WeekRange {
	target := n.current.Previous()
	if n.earliest != nil && target.Before(*n.earliest) {
		target = *n.earliest
	}
	return target
}

// Next moves one week forward. It returns false when already on the
// current week.
func (n *Navigator) Next() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	target := n.current.Next()
	if target.After(n.thisWeek()) {
		return false
	}
	n.moveLocked(target)
	return true
}

// ResetToToday jumps to the current week.
func (n *Navigator) ResetToToday() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	target := n.thisWeek()
	if target.Equal(n.current) {
		return false
	}
	n.moveLocked(target)
	return true
}

// SetEarliest sets the earliest navigable week to the one containing d and
// pulls the current week forward if it now lies before it. It reports
// whether the current week moved.
func (n *Navigator) SetEarliest(d time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	earliest := dateutil.WeekRangeOf(d)
	if this := n.thisWeek(); earliest.After(this) {
		earliest = this
	}
	n.earliest = &earliest

	if n.current.Before(earliest) {
		n.moveLocked(earliest)
		return true
	}
	return false
}

// ClearEarliest removes the lower bound.
func (n *Navigator) ClearEarliest() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.earliest = nil
}

// Current returns the displayed week.
func (n *Navigator) Current() dateutil.WeekRange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// State returns a copy of the navigator state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := State{Current: n.current}
	if n.earliest != nil {
		earliest := *n.earliest
		s.Earliest = &earliest
	}
	return s
}

// CanGoPrevious reports whether Previous would move.
func (n *Navigator) CanGoPrevious() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.previousTargetLocked().Equal(n.current)
}

// CanGoNext reports whether Next would move.
func (n *Navigator) CanGoNext() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.current.Next().After(n.thisWeek())
}

// IsCurrentWeek reports whether the displayed week contains today.
func (n *Navigator) IsCurrentWeek() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current.Equal(n.thisWeek())
}

// Flush delivers a pending notification immediately.
func (n *Navigator) Flush() {
	n.debounce.Flush()
}

// Stop drops any pending notification.
func (n *Navigator) Stop() {
	n.debounce.Stop()
}

func (n *Navigator) moveLocked(target dateutil.WeekRange) {
	n.current = target
	n.debounce.Trigger(n.notify)
}

func (n *Navigator) notify() {
	n.mu.Lock()
	current := n.current
	if current.Equal(n.notified) {
		n.mu.Unlock()
		return
	}
	n.notified = current
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(current)
	}
}
