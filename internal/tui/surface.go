package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/sqcrop/internal/core/review"
)

// eventBuffer bounds the queue between the program and the review loop.
const eventBuffer = 64

// SurfaceOptions configures a Surface.
type SurfaceOptions struct {
	Keymap review.Keymap
	// Input and Output override the terminal, mainly for tests.
	Input  io.Reader
	Output io.Writer
}

// Surface runs a bubbletea program as a review.Surface.
type Surface struct {
	prog   *tea.Program
	events chan review.Event
	done   chan struct{}
	err    error
	log    zerolog.Logger
}

// NewSurface creates a surface. Call Start before use.
func NewSurface(ctx context.Context, opts SurfaceOptions, log zerolog.Logger) *Surface {
	events := make(chan review.Event, eventBuffer)
	m := NewModel(events, opts.Keymap, log)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	return &Surface{
		prog:   tea.NewProgram(m, progOpts...),
		events: events,
		done:   make(chan struct{}),
		log:    log,
	}
}

// Start runs the program in the background.
func (s *Surface) Start() {
	go func() {
		defer close(s.done)
		_, err := s.prog.Run()
		if err != nil && !isShutdown(err) {
			s.log.Error().Err(err).Msg("tui exited with error")
			s.err = fmt.Errorf("run tui: %w", err)
		}
	}()
}

// Render implements review.Surface.
func (s *Surface) Render(f review.Frame) error {
	select {
	case <-s.done:
		return review.ErrSurfaceClosed
	default:
	}
	s.prog.Send(frameMsg(f))
	return nil
}

// PollEvent implements review.Surface.
func (s *Surface) PollEvent(ctx context.Context, timeout time.Duration) (review.Event, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.done:
		return review.Event{}, review.ErrSurfaceClosed
	case <-ctx.Done():
		return review.Event{}, ctx.Err()
	case <-timer.C:
		return review.Event{}, nil
	}
}

// Close stops the program and waits for the terminal to be restored. It
// returns the program's error, if any.
func (s *Surface) Close() error {
	s.prog.Send(closeMsg{})
	<-s.done
	return s.err
}

// Done is closed once the program has exited.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

func isShutdown(err error) bool {
	return errors.Is(err, tea.ErrProgramKilled) ||
		errors.Is(err, tea.ErrInterrupted) ||
		errors.Is(err, context.Canceled)
}
