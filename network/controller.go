package network

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSettleDelay is how long a drag must stay still before the
// auto-link scan runs.
const DefaultSettleDelay = 100 * time.Millisecond

// Stopper is the part of *time.Timer the controller needs.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// settleFired is posted by the timer goroutine back onto the event loop.
type settleFired struct {
	gen uint64
	id  int
}

// Controller owns a simulation State, the settle debounce timer and the
// channel that brings timer firings back onto the owner's loop. All state
// transitions happen on the goroutine calling Handle or Run.
type Controller struct {
	state State
	delay time.Duration
	after AfterFunc
	log   *zap.Logger

	mu     sync.Mutex // guards timer, gen, closed and sends on settle
	timer  Stopper
	gen    uint64
	closed bool
	settle chan settleFired
}

// Option configures a Controller.
type Option func(*Controller)

// WithSettleDelay overrides the debounce delay.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAfterFunc replaces the timer source, mainly for tests.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) {
		if f != nil {
			c.after = f
		}
	}
}

// NewController creates an idle controller with no nodes.
func NewController(params Params, opts ...Option) *Controller {
	c := &Controller{
		state:  NewState(params),
		delay:  DefaultSettleDelay,
		after:  realAfterFunc,
		log:    zap.NewNop(),
		settle: make(chan settleFired, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	return c.state
}

// Handle applies one event and carries out the resulting effect.
func (c *Controller) Handle(ev Event) State {
	next, effect := Reduce(c.state, ev)
	c.state = next

	if effect == EffectArmSettle {
		c.arm(next.Dragged)
	}
	switch ev := ev.(type) {
	case Unbind:
		// a pending scan would relink the node straight away
		c.disarm()
		c.log.Debug("unbind", zap.Int("node", ev.ID))
	case DoubleClick:
		c.disarm()
	}
	return c.state
}

// arm cancels any pending settle timer and starts a new one for id. Only
// the newest generation is ever applied.
func (c *Controller) arm(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = c.after(c.delay, func() { c.fire(gen, id) })
}

// disarm cancels the pending settle timer and invalidates any firing
// already delivered.
func (c *Controller) disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

// fire runs on the timer goroutine. It replaces any undelivered firing so
// the channel always holds the newest one.
func (c *Controller) fire(gen uint64, id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return
	}
	select {
	case <-c.settle:
	default:
	}
	c.settle <- settleFired{gen: gen, id: id}
}

// apply runs the auto-link scan for a firing if it is still current.
func (c *Controller) apply(f settleFired) bool {
	c.mu.Lock()
	current := !c.closed && f.gen == c.gen
	c.mu.Unlock()
	if !current {
		return false
	}

	before := len(c.state.Links[f.id])
	c.Handle(Settle{ID: f.id})
	c.log.Debug("settle scan",
		zap.Int("node", f.id),
		zap.Int("links_before", before),
		zap.Int("links_after", len(c.state.Links[f.id])))
	return true
}

// ProcessPending applies a delivered settle firing, if any, without
// blocking. It reports whether the state changed.
func (c *Controller) ProcessPending() bool {
	select {
	case f := <-c.settle:
		return c.apply(f)
	default:
		return false
	}
}

// Close cancels the pending settle timer. Firings that race with Close are
// discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Run serializes input events and settle firings on the calling goroutine,
// calling render after every applied update. Queued moves are coalesced so
// each batch yields a single position update. Run returns when ctx is done
// or in is closed, and always closes the controller.
func (c *Controller) Run(ctx context.Context, in <-chan Event, render func(State)) error {
	defer c.Close()
	if render == nil {
		render = func(State) {}
	}
	render(c.state)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-in:
			if !ok {
				return nil
			}
			var next Event
			if mv, isMove := ev.(Move); isMove {
				ev, next = coalesce(in, mv)
			}
			c.Handle(ev)
			if next != nil {
				c.Handle(next)
			}
			render(c.state)

		case f := <-c.settle:
			if c.apply(f) {
				render(c.state)
			}
		}
	}
}

// coalesce drains queued moves after mv and returns the last one, plus the
// first non-move event it had to take off the queue.
func coalesce(in <-chan Event, mv Move) (Event, Event) {
	for {
		select {
		case ev, ok := <-in:
			if !ok {
				return mv, nil
			}
			next, isMove := ev.(Move)
			if !isMove {
				return mv, ev
			}
			mv = next
		default:
			return mv, nil
		}
	}
}
