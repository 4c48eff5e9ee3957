// Package tui renders the cycling chart view in the terminal.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/huangsam/metricsgraph/core"
	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/schema"
	"golang.org/x/sync/errgroup"
)

// eventBuffer bounds how many transitions wait for the view.
// The view reads the controller state directly, so dropped events only skip a redraw.
const eventBuffer = 16

// forward returns a listener that hands transitions to the view without blocking the controller.
func forward(events chan<- schema.Transition) core.Listener {
	return func(t schema.Transition) {
		select {
		case events <- t:
		default:
		}
	}
}

// Execute runs the interactive watch view until the user quits or ctx is cancelled.
func Execute(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	events := make(chan schema.Transition, eventBuffer)
	ctrl, rec, err := core.MountSession(cfg, mgr, schema.WatchSurface, forward(events))
	if err != nil {
		return err
	}
	defer func() { rec.End(time.Now()) }()

	ctx, cancel := context.WithCancel(ctx)
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
		program := tea.NewProgram(NewModel(ctrl, cfg, mgr, events), tea.WithAltScreen(), tea.WithContext(gctx))
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	return g.Wait()
}
