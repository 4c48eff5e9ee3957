package core

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// Ticker delivers automatic cycle events.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

// Listener receives every applied transition in order.
// Listeners may read the controller but must not block for long.
type Listener func(schema.Transition)

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker wraps time.Ticker.
func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// Controller owns the active metric of one rendering session.
// Automatic ticks advance through the registry order and manual selection jumps
// directly to a metric. By default a selection does not touch the timer, so a
// tick can override a manual choice shortly after it was made.
type Controller struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	ids       []string
	active    int
	seq       uint64
	last      schema.Transition
	listeners []Listener

	interval      time.Duration
	newTicker     TickerFunc
	resetOnSelect bool
	reset         chan struct{}
	now           func() time.Time
}

// ControllerOption configures a Controller.
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	interval      time.Duration
	initial       string
	newTicker     TickerFunc
	resetOnSelect bool
	listeners     []Listener
	now           func() time.Time
}

// WithInterval sets the automatic cycle interval.
func WithInterval(d time.Duration) ControllerOption {
	return func(o *controllerOptions) { o.interval = d }
}

// WithInitial starts the controller on id instead of the first registered metric.
func WithInitial(id string) ControllerOption {
	return func(o *controllerOptions) { o.initial = id }
}

// WithTickerFunc replaces the ticker factory.
func WithTickerFunc(fn TickerFunc) ControllerOption {
	return func(o *controllerOptions) { o.newTicker = fn }
}

// WithResetOnSelect restarts the timer after every manual selection.
func WithResetOnSelect(reset bool) ControllerOption {
	return func(o *controllerOptions) { o.resetOnSelect = reset }
}

// WithListener registers a transition listener.
func WithListener(l Listener) ControllerOption {
	return func(o *controllerOptions) { o.listeners = append(o.listeners, l) }
}

// WithClock replaces the transition timestamp source.
func WithClock(now func() time.Time) ControllerOption {
	return func(o *controllerOptions) { o.now = now }
}

// NewController validates the initial metric against the registry and returns
// an unmounted controller.
func NewController(reg contract.MetricRegistry, opts ...ControllerOption) (*Controller, error) {
	o := controllerOptions{
		interval:  schema.DefaultCycleInterval,
		newTicker: NewStdTicker,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ids := reg.ListIDs()
	if len(ids) == 0 {
		return nil, &schema.InvalidDatasetError{Reason: "registry is empty"}
	}
	if o.interval <= 0 {
		o.interval = schema.DefaultCycleInterval
	}

	active := 0
	if o.initial != "" {
		active = slices.Index(ids, o.initial)
		if active < 0 {
			return nil, &schema.UnknownMetricError{ID: o.initial}
		}
	}

	c := &Controller{
		ids:           ids,
		active:        active,
		listeners:     o.listeners,
		interval:      o.interval,
		newTicker:     o.newTicker,
		resetOnSelect: o.resetOnSelect,
		reset:         make(chan struct{}, 1),
		now:           o.now,
	}
	c.last = schema.Transition{To: ids[active], Cause: schema.InitialCause, At: o.now()}
	return c, nil
}

// Active returns the active metric id.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ids[c.active]
}

// Last returns the most recently applied transition.
// Before any tick or selection it describes the initial state.
func (c *Controller) Last() schema.Transition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// IDs returns the cycling order.
func (c *Controller) IDs() []string {
	return slices.Clone(c.ids)
}

// Interval returns the automatic cycle interval.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Tick advances to the next metric, wrapping from last back to first.
func (c *Controller) Tick() schema.Transition {
	c.mu.Lock()
	return c.apply((c.active+1)%len(c.ids), schema.AutoCause)
}

// Select jumps directly to id.
func (c *Controller) Select(id string) (schema.Transition, error) {
	idx := slices.Index(c.ids, id)
	if idx < 0 {
		return schema.Transition{}, &schema.UnknownMetricError{ID: id}
	}
	c.mu.Lock()
	t := c.apply(idx, schema.ManualCause)
	if c.resetOnSelect {
		select {
		case c.reset <- struct{}{}:
		default:
		}
	}
	return t, nil
}

// apply must be called with c.mu held and releases it.
// Notification is serialized so listeners observe transitions in sequence order.
func (c *Controller) apply(next int, cause schema.TransitionCause) schema.Transition {
	c.seq++
	t := schema.Transition{
		Seq:   c.seq,
		From:  c.ids[c.active],
		To:    c.ids[next],
		Cause: cause,
		At:    c.now(),
	}
	c.active = next
	c.last = t

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	for _, l := range c.listeners {
		l(t)
	}
	return t
}

// Run mounts the controller: it acquires the timer and applies a tick on every
// fire until ctx is cancelled. The timer is released on every exit path.
func (c *Controller) Run(ctx context.Context) error {
	ticker := c.newTicker(c.interval)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			c.Tick()
		case <-c.reset:
			ticker.Stop()
			ticker = c.newTicker(c.interval)
		}
	}
}
