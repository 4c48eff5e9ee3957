package core

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
)

// recordBuffer bounds the transitions waiting to be written.
const recordBuffer = 64

// SessionRecorder writes the lifecycle of one mounted controller to a session store.
// A nil store turns every method into a no-op. Transitions are written by a
// goroutine the recorder owns, so recording never blocks the controller.
// Store failures are logged and never interrupt the viewer.
type SessionRecorder struct {
	store       contract.SessionStore
	id          string
	transitions atomic.Int64

	mu      sync.Mutex
	ended   bool
	pending chan schema.Transition
	done    chan struct{}
}

// StartSession begins a session for a controller mounted on surface.
func StartSession(store contract.SessionStore, surface schema.Surface, initialMetric string, startedAt time.Time) *SessionRecorder {
	r := &SessionRecorder{store: store, id: uuid.NewString()}
	if store == nil {
		return r
	}
	err := store.BeginSession(schema.SessionRecord{
		SessionID:     r.id,
		Surface:       string(surface),
		StartedAt:     startedAt,
		InitialMetric: initialMetric,
	})
	if err != nil {
		contract.LogWarn("Cannot record session start", err)
		r.store = nil
		return r
	}
	r.pending = make(chan schema.Transition, recordBuffer)
	r.done = make(chan struct{})
	go r.write()
	return r
}

// write drains pending transitions into the store until End closes the queue.
func (r *SessionRecorder) write() {
	defer close(r.done)
	for t := range r.pending {
		if err := r.store.RecordTransition(r.id, t); err != nil {
			contract.LogWarn("Cannot record transition", err)
		}
	}
}

// ID returns the session id.
func (r *SessionRecorder) ID() string {
	return r.id
}

// Transitions returns how many transitions were recorded so far.
func (r *SessionRecorder) Transitions() int {
	return int(r.transitions.Load())
}

// Record queues one transition and returns without waiting for the store.
// It matches the Listener signature.
func (r *SessionRecorder) Record(t schema.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return
	}
	r.transitions.Add(1)
	if r.pending == nil {
		return
	}
	select {
	case r.pending <- t:
	default:
		contract.LogWarn("Cannot record transition", fmt.Errorf("queue full, dropped seq %d", t.Seq))
	}
}

// End marks the session as unmounted, waits for queued transitions to be
// written and stores the end row. Only the first call has an effect.
func (r *SessionRecorder) End(endedAt time.Time) {
	r.mu.Lock()
	if r.ended {
		r.mu.Unlock()
		return
	}
	r.ended = true
	if r.pending != nil {
		close(r.pending)
	}
	r.mu.Unlock()

	if r.store == nil {
		return
	}
	<-r.done
	if err := r.store.EndSession(r.id, endedAt, r.Transitions()); err != nil {
		contract.LogWarn("Cannot record session end", err)
	}
}

// MountSession creates the controller of one viewing session on surface.
// Transitions are recorded to the session store of mgr, when there is one, and
// handed to the extra listeners. Callers run the controller and end the recorder.
func MountSession(cfg *contract.Config, mgr contract.CacheManager, surface schema.Surface, listeners ...Listener) (*Controller, *SessionRecorder, error) {
	if cfg.Registry == nil {
		return nil, nil, errors.New("no registry loaded")
	}
	var store contract.SessionStore
	if mgr != nil {
		store = mgr.GetSessionStore()
	}

	opts := []ControllerOption{
		WithInterval(cfg.Interval),
		WithInitial(cfg.InitialMetric),
		WithResetOnSelect(cfg.ResetOnSelect),
	}
	for _, l := range listeners {
		opts = append(opts, WithListener(l))
	}

	// The recorder starts after validation so a bad initial metric leaves no session behind
	var rec *SessionRecorder
	opts = append(opts, WithListener(func(t schema.Transition) { rec.Record(t) }))
	ctrl, err := NewController(cfg.Registry, opts...)
	if err != nil {
		return nil, nil, err
	}
	rec = StartSession(store, surface, ctrl.Active(), time.Now())
	return ctrl, rec, nil
}
