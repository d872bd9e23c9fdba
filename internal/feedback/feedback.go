// Package feedback drives the transient per-slot indicator shown after a
// delivery or copy attempt. Each slot moves idle -> pending -> success or
// failure and back to idle once its display time has passed. Slots never
// affect each other.
package feedback

import (
	"sync"
	"time"

	"github.com/atomicstack/tmux-prompt-bar/internal/logging/events"
)

type State int

const (
	Idle State = iota
	Pending
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "idle"
	}
}

// Kind is what the attempt was doing; it only changes the indicator text.
type Kind int

const (
	Injected Kind = iota
	Copied
)

func (k Kind) String() string {
	if k == Copied {
		return "copied"
	}
	return "injected"
}

const (
	SuccessDisplay = 2 * time.Second
	FailureDisplay = 3 * time.Second
)

// Status is a slot's current display state.
type Status struct {
	State   State
	Kind    Kind
	Message string
	// Expires is zero while idle or pending.
	Expires time.Time
}

// Timer is the subset of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so expiry can be tested deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Token identifies one attempt. A report carrying an older token than the
// slot's latest attempt is ignored.
type Token uint64

type slot struct {
	status Status
	token  Token
	timer  Timer
}

// Controller owns the feedback state of every slot.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	slots    map[int]*slot
	next     Token
	success  time.Duration
	failure  time.Duration
	onChange func(index int, status Status)
	closed   bool
}

type Option func(*Controller)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithNotify registers a callback invoked after every state change. It runs
// without the controller lock held, possibly on a timer goroutine.
func WithNotify(fn func(index int, status Status)) Option {
	return func(ctrl *Controller) { ctrl.onChange = fn }
}

// WithDurations overrides the success and failure display times.
func WithDurations(success, failure time.Duration) Option {
	return func(ctrl *Controller) {
		ctrl.success = success
		ctrl.failure = failure
	}
}

func New(opts ...Option) *Controller {
	c := &Controller{
		clock:   realClock{},
		slots:   make(map[int]*slot),
		success: SuccessDisplay,
		failure: FailureDisplay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins an attempt on index: any pending expiry is cancelled, the
// message is cleared and the slot becomes pending.
func (c *Controller) Start(index int, kind Kind) Token {
	c.mu.Lock()
	s := c.slotLocked(index)
	c.stopTimerLocked(s)
	c.next++
	s.token = c.next
	s.status = Status{State: Pending, Kind: kind}
	status, token := s.status, s.token
	c.mu.Unlock()

	events.Slot.Attempt(index, kind.String(), uint64(token))
	c.notify(index, status)
	return token
}

// Report records the outcome of the attempt identified by token. A nil err is
// success; otherwise err's text is displayed. It returns false when the
// report is stale or the slot is not pending.
func (c *Controller) Report(index int, token Token, err error) bool {
	c.mu.Lock()
	s, ok := c.slots[index]
	if !ok || c.closed || s.token != token || s.status.State != Pending {
		c.mu.Unlock()
		events.Slot.Stale(index, uint64(token))
		return false
	}
	display := c.success
	s.status.State = Success
	s.status.Message = ""
	if err != nil {
		display = c.failure
		s.status.State = Failure
		s.status.Message = err.Error()
	}
	s.status.Expires = c.clock.Now().Add(display)
	s.timer = c.clock.AfterFunc(display, func() { c.expire(index, token) })
	status := s.status
	c.mu.Unlock()

	events.Slot.Report(index, uint64(token), err)
	c.notify(index, status)
	return true
}

// Status returns the display state of index.
func (c *Controller) Status(index int) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[index]; ok {
		return s.status
	}
	return Status{}
}

// Close cancels every timer. Later reports are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, s := range c.slots {
		c.stopTimerLocked(s)
	}
}

func (c *Controller) expire(index int, token Token) {
	c.mu.Lock()
	s, ok := c.slots[index]
	if !ok || c.closed || s.token != token || s.status.State == Pending {
		c.mu.Unlock()
		return
	}
	s.timer = nil
	s.status = Status{}
	c.mu.Unlock()

	events.Slot.Reset(index)
	c.notify(index, Status{})
}

func (c *Controller) slotLocked(index int) *slot {
	s, ok := c.slots[index]
	if !ok {
		s = &slot{}
		c.slots[index] = s
	}
	return s
}

func (c *Controller) stopTimerLocked(s *slot) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (c *Controller) notify(index int, status Status) {
	if c.onChange != nil {
		c.onChange(index, status)
	}
}
