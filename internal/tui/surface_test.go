package tui

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sqcrop/internal/core/crop"
	"github.com/colonyops/sqcrop/internal/core/imageio"
	"github.com/colonyops/sqcrop/internal/core/imagestore"
	"github.com/colonyops/sqcrop/internal/core/review"
	"github.com/colonyops/sqcrop/pkg/tuitest"
)

// The program is never started here; tests drive the channels directly.
func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	return NewSurface(context.Background(), SurfaceOptions{Keymap: review.DefaultKeymap()}, zerolog.Nop())
}

func TestSurface_PollEvent(t *testing.T) {
	t.Run("returns queued event", func(t *testing.T) {
		s := newTestSurface(t)
		s.events <- review.KeyPress("s")

		ev, err := s.PollEvent(context.Background(), time.Second)
		require.NoError(t, err)
		assert.Equal(t, review.KeyPress("s"), ev)
	})

	t.Run("times out with no event", func(t *testing.T) {
		s := newTestSurface(t)

		ev, err := s.PollEvent(context.Background(), 5*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, review.EventNone, ev.Kind)
	})

	t.Run("closed surface", func(t *testing.T) {
		s := newTestSurface(t)
		close(s.done)

		_, err := s.PollEvent(context.Background(), time.Second)
		require.ErrorIs(t, err, review.ErrSurfaceClosed)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := newTestSurface(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.PollEvent(ctx, time.Second)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSurface_RenderAfterClose(t *testing.T) {
	s := newTestSurface(t)
	close(s.done)

	err := s.Render(review.Frame{Path: "a.png"})
	require.ErrorIs(t, err, review.ErrSurfaceClosed)
}

func TestSurface_KeysForOneImageDoNotReachTheNext(t *testing.T) {
	dir := t.TempDir()
	codec := imageio.NewCodec(imageio.DefaultOptions())
	paths := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}
	for _, p := range paths {
		f, err := os.Create(p)
		require.NoError(t, err)
		require.NoError(t, codec.Encode(f, image.NewRGBA(image.Rect(0, 0, 20, 10)), imageio.FormatPNG))
		require.NoError(t, f.Close())
	}

	// A stopped program makes Render a no-op; the model below stands in
	// for the one inside it.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSurface(ctx, SurfaceOptions{Keymap: review.DefaultKeymap()}, zerolog.Nop())

	m := NewModel(s.events, review.DefaultKeymap(), zerolog.Nop())
	m = update(t, m,
		tuitest.WindowSize(80, 24),
		frameMsg(review.Frame{Seq: 1, Path: paths[0], Total: 2, Image: image.NewRGBA(image.Rect(0, 0, 20, 10))}),
		tuitest.KeyPress('d'),
		tuitest.KeyPress('d'),
	)
	m = update(t, m,
		tuitest.MouseClick(m.offsetX+2, headerRows),
		frameMsg(review.Frame{Seq: 2, Path: paths[1], Index: 1, Total: 2, Image: image.NewRGBA(image.Rect(0, 0, 20, 10))}),
		tuitest.KeyPress('q'),
	)
	require.Len(t, s.events, 4)

	store := imagestore.New(codec, imageio.Extensions, zerolog.Nop())
	loop := review.New(s, codec, store, review.DefaultOptions(), zerolog.Nop())
	summary, err := loop.Run(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	assert.Equal(t, crop.OutcomeDeleted, summary.Results[0].Outcome)
	assert.Equal(t, crop.OutcomeSkipped, summary.Results[1].Outcome)
	assert.NoFileExists(t, paths[0])
	assert.FileExists(t, paths[1])
}
