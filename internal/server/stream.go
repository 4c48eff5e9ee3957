package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/huangsam/metricsgraph/core"
	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// streamBuffer bounds how many transitions wait for a slow client.
const streamBuffer = 16

// streamEvent is the data of one "transition" server-sent event.
type streamEvent struct {
	schema.Transition
	Session      string `json:"session"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	BaselinePath string `json:"baseline_path,omitempty"`
	CurrentPath  string `json:"current_path,omitempty"`
	Error        string `json:"error,omitempty"`
}

// streamSessions tracks the controllers of open streams by session id.
type streamSessions struct {
	mu   sync.Mutex
	byID map[string]*core.Controller
}

func (ss *streamSessions) add(id string, ctrl *core.Controller) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.byID == nil {
		ss.byID = make(map[string]*core.Controller)
	}
	ss.byID[id] = ctrl
}

func (ss *streamSessions) remove(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.byID, id)
}

func (ss *streamSessions) get(id string) (*core.Controller, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ctrl, ok := ss.byID[id]
	return ctrl, ok
}

// handleStream mounts one controller per connection and streams its
// transitions until the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Clone()
	if id := r.URL.Query().Get("metric"); id != "" {
		cfg.InitialMetric = id
	}

	events := make(chan schema.Transition, streamBuffer)
	listener := func(t schema.Transition) {
		select {
		case events <- t:
		default:
			s.logger.Debug("Dropped transition for slow client", zap.Uint64("seq", t.Seq))
		}
	}
	ctrl, rec, err := core.MountSession(cfg, s.mgr, schema.StreamSurface, listener)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	s.streams.add(rec.ID(), ctrl)
	s.metrics.activeStreams.Inc()
	s.logger.Info("Stream mounted",
		zap.String("session", rec.ID()),
		zap.String("metric", ctrl.Active()),
		zap.Duration("interval", ctrl.Interval()))
	defer func() {
		s.streams.remove(rec.ID())
		rec.End(time.Now())
		s.metrics.activeStreams.Dec()
		s.logger.Info("Stream unmounted",
			zap.String("session", rec.ID()),
			zap.Int("transitions", rec.Transitions()))
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)

	initial := ctrl.Last()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctrl.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if err := s.sendTransition(w, rc, cfg, rec.ID(), initial); err != nil {
			return err
		}
		for {
			select {
			case <-gctx.Done():
				return nil
			case t := <-events:
				if err := s.sendTransition(w, rc, cfg, rec.ID(), t); err != nil {
					return err
				}
			}
		}
	})
	if err := g.Wait(); err != nil {
		s.logger.Debug("Stream closed", zap.String("session", rec.ID()), zap.Error(err))
	}
}

// sendTransition writes t with the fresh paths of its target as one event.
func (s *Server) sendTransition(w http.ResponseWriter, rc *http.ResponseController, cfg *contract.Config, session string, t schema.Transition) error {
	event := streamEvent{Transition: t, Session: session}
	chart, err := core.CachedBuildChart(s.mgr, cfg.Registry, t.To, cfg.Geometry)
	if err != nil {
		event.Error = err.Error()
	} else {
		event.Title = chart.Title
		event.Subtitle = chart.Subtitle
		event.BaselinePath = chart.BaselinePath
		event.CurrentPath = chart.CurrentPath
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("cannot encode transition %d: %w", t.Seq, err)
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: transition\ndata: %s\n\n", t.Seq, data); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil {
		return err
	}
	s.metrics.transitions.WithLabelValues(string(t.Cause)).Inc()
	return nil
}

// handleSelect makes a manual selection on the controller of an open stream.
// The transition reaches the client through its stream like any other.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	session := r.PathValue("session")
	ctrl, ok := s.streams.get(session)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown stream session %q", session))
		return
	}
	id := r.FormValue("metric")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("metric is required"))
		return
	}
	t, err := ctrl.Select(id)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.logger.Debug("Stream selection", zap.String("session", session), zap.String("metric", id), zap.Uint64("seq", t.Seq))
	s.writeJSON(w, http.StatusOK, t)
}
