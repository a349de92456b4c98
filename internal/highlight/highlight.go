// Package highlight provides timed, cancelable visual emphasis of a
// single marker.
package highlight

import (
	"sync"
	"time"
)

// DefaultDuration is how long a highlight stays active before it clears
// itself.
const DefaultDuration = 5 * time.Second

// CancelFunc stops a pending timer. It reports whether the timer was
// still pending.
type CancelFunc func() bool

// Clock schedules deferred calls. Tests substitute a virtual clock so
// expiry can be driven deterministically instead of sleeping.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) CancelFunc
}

// SystemClock is the wall-clock implementation used in production.
type SystemClock struct{}

// AfterFunc schedules fn after d on a system timer.
func (SystemClock) AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// Controller holds at most one active highlight and its timer token.
// A new Highlight call supersedes the previous one and restarts the
// expiry window.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	duration time.Duration
	active   string
	cancel   CancelFunc
	onChange func()

	// gen increments on every Highlight and Clear. An expiry only
	// applies if its generation is still current, so a superseded timer
	// that already fired past its cancel (time.Timer.Stop reports false
	// then) cannot clear a restarted window for the same id.
	gen uint64
}

// New creates a controller on the system clock. onChange is invoked
// whenever the active highlight changes (set or cleared) so the caller
// can trigger a redraw; it may be nil.
func New(duration time.Duration, onChange func()) *Controller {
	return NewWithClock(SystemClock{}, duration, onChange)
}

// NewWithClock creates a controller on an explicit clock.
func NewWithClock(clock Clock, duration time.Duration, onChange func()) *Controller {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Controller{clock: clock, duration: duration, onChange: onChange}
}

// Highlight makes id the active highlight, cancels any pending expiry
// and schedules a fresh one.
func (c *Controller) Highlight(id string) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.active = id
	c.cancel = c.clock.AfterFunc(c.duration, func() { c.expire(gen) })
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// expire clears the highlight if the timer that fired still belongs to
// the current window.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.active == "" {
		c.mu.Unlock()
		return
	}
	c.active = ""
	c.cancel = nil
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Clear cancels the active highlight immediately.
func (c *Controller) Clear() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	changed := c.active != ""
	c.active = ""
	notify := c.onChange
	c.mu.Unlock()

	if changed && notify != nil {
		notify()
	}
}

// Active returns the currently highlighted marker id, or "".
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
