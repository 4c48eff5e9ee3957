package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/metricsgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeTicker fires only when the test says so.
type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// fakeTickers hands out fake tickers and remembers them.
type fakeTickers struct {
	mu      sync.Mutex
	tickers []*fakeTicker
	created chan *fakeTicker
}

func newFakeTickers() *fakeTickers {
	return &fakeTickers{created: make(chan *fakeTicker, 8)}
}

func (f *fakeTickers) New(time.Duration) Ticker {
	t := &fakeTicker{ch: make(chan time.Time)}
	f.mu.Lock()
	f.tickers = append(f.tickers, t)
	f.mu.Unlock()
	f.created <- t
	return t
}

func (f *fakeTickers) next(t *testing.T) *fakeTicker {
	t.Helper()
	select {
	case tk := <-f.created:
		return tk
	case <-time.After(time.Second):
		t.Fatal("no ticker was created")
		return nil
	}
}

func (f *fakeTickers) all() []*fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeTicker(nil), f.tickers...)
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestControllerInitialState(t *testing.T) {
	c, err := NewController(DefaultRegistry(), WithClock(fixedClock()))
	require.NoError(t, err)

	assert.Equal(t, "time", c.Active())
	assert.Equal(t, []string{"time", "accuracy", "adoption"}, c.IDs())
	assert.Equal(t, schema.DefaultCycleInterval, c.Interval())

	last := c.Last()
	assert.Equal(t, uint64(0), last.Seq)
	assert.Equal(t, "time", last.To)
	assert.Equal(t, schema.InitialCause, last.Cause)
}

func TestControllerOptions(t *testing.T) {
	c, err := NewController(DefaultRegistry(), WithInitial("adoption"), WithInterval(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "adoption", c.Active())
	assert.Equal(t, 2*time.Second, c.Interval())

	c, err = NewController(DefaultRegistry(), WithInterval(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultCycleInterval, c.Interval())

	_, err = NewController(DefaultRegistry(), WithInitial("missing"))
	var unknown *schema.UnknownMetricError
	assert.True(t, errors.As(err, &unknown))
}

func TestControllerTickOrder(t *testing.T) {
	reg := DefaultRegistry()
	ids := reg.ListIDs()

	for k := range 10 {
		c, err := NewController(reg)
		require.NoError(t, err)
		for range k {
			c.Tick()
		}
		assert.Equal(t, ids[k%len(ids)], c.Active(), "after %d ticks", k)
	}
}

func TestControllerTickTransition(t *testing.T) {
	c, err := NewController(DefaultRegistry(), WithInitial("adoption"), WithClock(fixedClock()))
	require.NoError(t, err)

	tr := c.Tick()
	assert.Equal(t, schema.Transition{
		Seq:   1,
		From:  "adoption",
		To:    "time",
		Cause: schema.AutoCause,
		At:    fixedClock()(),
	}, tr)
	assert.Equal(t, tr, c.Last())
}

func TestControllerSelect(t *testing.T) {
	var seen []schema.Transition
	c, err := NewController(DefaultRegistry(), WithListener(func(tr schema.Transition) {
		seen = append(seen, tr)
	}))
	require.NoError(t, err)

	tr, err := c.Select("adoption")
	require.NoError(t, err)
	assert.Equal(t, "time", tr.From)
	assert.Equal(t, "adoption", tr.To)
	assert.Equal(t, schema.ManualCause, tr.Cause)
	assert.Equal(t, "adoption", c.Active())

	// Selecting the active metric is still a transition
	tr, err = c.Select("adoption")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), tr.Seq)

	_, err = c.Select("nonexistent")
	var unknown *schema.UnknownMetricError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "adoption", c.Active(), "failed selection keeps the active metric")

	// Tick continues from the manual choice
	c.Tick()
	assert.Equal(t, "time", c.Active())

	require.Len(t, seen, 3)
	for i, tr := range seen {
		assert.Equal(t, uint64(i+1), tr.Seq)
	}
}

func TestControllerTickOverridesSelection(t *testing.T) {
	defer goleak.VerifyNone(t)

	tickers := newFakeTickers()
	c, err := NewController(DefaultRegistry(), WithTickerFunc(tickers.New))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	tk := tickers.next(t)

	// A pending tick fires right after the manual choice and wins
	_, err = c.Select("accuracy")
	require.NoError(t, err)
	tk.ch <- time.Now()
	require.Eventually(t, func() bool { return c.Last().Seq == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, "adoption", c.Active())
	assert.Equal(t, schema.AutoCause, c.Last().Cause)

	// The tick fires first and the manual choice, injected last, wins
	tk.ch <- time.Now()
	require.Eventually(t, func() bool { return c.Last().Seq == 3 }, time.Second, time.Millisecond)
	_, err = c.Select("accuracy")
	require.NoError(t, err)
	assert.Equal(t, "accuracy", c.Active())
	assert.Equal(t, schema.ManualCause, c.Last().Cause)

	assert.Len(t, tickers.all(), 1, "selection does not restart the timer by default")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.True(t, tk.isStopped())
}

func TestControllerResetOnSelect(t *testing.T) {
	defer goleak.VerifyNone(t)

	tickers := newFakeTickers()
	c, err := NewController(DefaultRegistry(), WithTickerFunc(tickers.New), WithResetOnSelect(true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	first := tickers.next(t)

	_, err = c.Select("adoption")
	require.NoError(t, err)
	second := tickers.next(t)
	assert.True(t, first.isStopped(), "old timer is released on reset")
	assert.False(t, second.isStopped())

	second.ch <- time.Now()
	require.Eventually(t, func() bool { return c.Active() == "time" }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	for _, tk := range tickers.all() {
		assert.True(t, tk.isStopped())
	}
}

func TestControllerRunReleasesTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	tickers := newFakeTickers()
	var mu sync.Mutex
	var seen []string
	c, err := NewController(DefaultRegistry(),
		WithTickerFunc(tickers.New),
		WithListener(func(tr schema.Transition) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, tr.To)
		}),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	tk := tickers.next(t)

	for range 4 {
		tk.ch <- time.Now()
	}
	require.Eventually(t, func() bool { return c.Last().Seq == 4 }, time.Second, time.Millisecond)
	cancel()
	require.Error(t, <-done)
	assert.True(t, tk.isStopped())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"accuracy", "adoption", "time", "accuracy"}, seen)
}

func TestControllerRunStdTicker(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, err := NewController(DefaultRegistry(), WithInterval(5*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return c.Last().Seq >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestControllerConcurrentUse(t *testing.T) {
	c, err := NewController(DefaultRegistry())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				if (i+j)%2 == 0 {
					c.Tick()
				} else {
					_, _ = c.Select("accuracy")
				}
				_ = c.Active()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(400), c.Last().Seq)
}
