// Package review drives the crop review of a queue of images, one session
// at a time, over a render/input Surface.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/sqcrop/internal/core/crop"
	"github.com/colonyops/sqcrop/internal/core/imageio"
)

// FormatSource keeps each image's own format when saving.
const FormatSource = "source"

// Options configures the loop.
type Options struct {
	// OutputFormat is an imageio format name or FormatSource.
	OutputFormat string
	// PollInterval bounds each wait for input.
	PollInterval time.Duration
	// NudgeStep is the pixel distance moved by one nudge key press.
	NudgeStep int
	Keymap    Keymap
}

// DefaultOptions returns the stock loop settings.
func DefaultOptions() Options {
	return Options{
		OutputFormat: string(imageio.FormatJPEG),
		PollInterval: 50 * time.Millisecond,
		NudgeStep:    10,
		Keymap:       DefaultKeymap(),
	}
}

// Result records how one queued image was handled.
type Result struct {
	Path      string
	Outcome   crop.Outcome
	FinalPath string
	Err       error
}

// Summary collects results in queue order.
type Summary struct {
	Results []Result
}

// Count returns the number of results with outcome o.
func (s Summary) Count(o crop.Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Loop reviews images sequentially.
type Loop struct {
	surface Surface
	dec     crop.Decoder
	store   crop.Storage
	opts    Options
	log     zerolog.Logger

	seq uint64
}

// New creates a loop.
func New(surface Surface, dec crop.Decoder, store crop.Storage, opts Options, log zerolog.Logger) *Loop {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	if opts.NudgeStep <= 0 {
		opts.NudgeStep = DefaultOptions().NudgeStep
	}
	return &Loop{surface: surface, dec: dec, store: store, opts: opts, log: log}
}

// Run drains paths in order. It returns early only when ctx is cancelled or
// the surface is closed; per-image failures are recorded in the summary.
func (l *Loop) Run(ctx context.Context, paths []string) (Summary, error) {
	summary := Summary{Results: make([]Result, 0, len(paths))}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		l.log.Info().
			Ctx(ctx).
			Int("index", i+1).
			Int("total", len(paths)).
			Str("path", path).
			Msg("reviewing image")

		res, err := l.reviewOne(ctx, i, len(paths), path)
		if err != nil {
			return summary, err
		}

		l.log.Info().
			Ctx(ctx).
			Str("path", path).
			Str("outcome", string(res.Outcome)).
			Msg("image reviewed")
		summary.Results = append(summary.Results, res)
	}

	return summary, nil
}

func (l *Loop) reviewOne(ctx context.Context, index, total int, path string) (Result, error) {
	res := Result{Path: path}

	sess, err := crop.Open(path, l.dec)
	if err != nil {
		l.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable image")
		res.Outcome = crop.OutcomeDecodeFailed
		res.Err = err
		return res, nil
	}

	if !sess.NeedsCrop() {
		l.log.Info().Str("path", path).Msg("skipping, already square")
		res.Outcome = sess.Outcome()
		return res, nil
	}
	defer sess.Close()

	l.seq++
	frame := Frame{
		Seq:   l.seq,
		Path:  path,
		Index: index,
		Total: total,
		Image: sess.Image(),
	}
	dirty := true

	for sess.State() == crop.StateCropping {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if dirty {
			sel := sess.Selection()
			frame.Committed = sel.Committed()
			frame.Preview = sel.Preview()
			if err := l.surface.Render(frame); err != nil {
				return res, fmt.Errorf("render: %w", err)
			}
			dirty = false
		}

		ev, err := l.surface.PollEvent(ctx, l.opts.PollInterval)
		if err != nil {
			return res, err
		}
		if ev.Kind != EventNone && ev.Seq != frame.Seq {
			l.log.Debug().
				Uint64("seq", ev.Seq).
				Uint64("current", frame.Seq).
				Int("kind", int(ev.Kind)).
				Msg("dropping input for a previous image")
			continue
		}

		dirty = l.apply(sess, ev, &frame)
	}

	res.Outcome = sess.Outcome()
	res.FinalPath = sess.FinalPath()
	return res, nil
}

// apply handles one event and reports whether the frame must be redrawn.
func (l *Loop) apply(sess *crop.Session, ev Event, frame *Frame) bool {
	sel := sess.Selection()

	switch ev.Kind {
	case EventPointerMove:
		before := sel.Preview()
		sess.PointerMove(ev.Pos)
		return sel.Preview() != before
	case EventPointerClick:
		sess.PointerCommit(ev.Pos)
		clearStatus(frame)
		return true
	case EventKey:
		return l.command(sess, l.opts.Keymap.Resolve(ev.Key), frame)
	}
	return false
}

func (l *Loop) command(sess *crop.Session, cmd Command, frame *Frame) bool {
	step := l.opts.NudgeStep

	switch cmd {
	case CommandSave:
		f := l.outputFormat(sess.Path())
		if err := sess.Save(l.store, f); err != nil {
			l.fail(frame, err)
			return true
		}
		l.log.Info().
			Str("path", sess.Path()).
			Str("final", sess.FinalPath()).
			Str("format", string(f)).
			Msg("saved crop")
	case CommandDelete:
		if err := sess.Delete(l.store); err != nil {
			l.fail(frame, err)
			return true
		}
		l.log.Info().Str("path", sess.Path()).Msg("deleted image")
	case CommandSkip:
		_ = sess.Skip()
	case CommandNudgeLeft:
		sess.Nudge(-step, 0)
	case CommandNudgeRight:
		sess.Nudge(step, 0)
	case CommandNudgeUp:
		sess.Nudge(0, -step)
	case CommandNudgeDown:
		sess.Nudge(0, step)
	default:
		return false
	}
	clearStatus(frame)
	return true
}

// clearStatus drops a failure message once the reviewer has moved on.
func clearStatus(frame *Frame) {
	frame.Status = ""
	frame.IsError = false
}

func (l *Loop) fail(frame *Frame, err error) {
	var (
		writeErr  *crop.WriteError
		deleteErr *crop.DeleteError
	)
	switch {
	case errors.As(err, &writeErr):
		l.log.Error().Err(writeErr.Err).Str("path", writeErr.Path).Msg("save failed")
	case errors.As(err, &deleteErr):
		l.log.Error().Err(deleteErr.Err).Str("path", deleteErr.Path).Msg("delete failed")
	default:
		l.log.Error().Err(err).Msg("command failed")
	}
	frame.Status = err.Error()
	frame.IsError = true
}

func (l *Loop) outputFormat(path string) imageio.Format {
	if l.opts.OutputFormat == FormatSource {
		f, err := imageio.FormatFromPath(path)
		if err != nil {
			return imageio.FormatJPEG
		}
		return f
	}
	return imageio.Format(l.opts.OutputFormat)
}
