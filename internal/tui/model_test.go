package tui

import (
	"image"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sqcrop/internal/core/geometry"
	"github.com/colonyops/sqcrop/internal/core/review"
	"github.com/colonyops/sqcrop/pkg/tuitest"
)

func newTestModel(t *testing.T, buf int) (Model, chan review.Event) {
	t.Helper()
	events := make(chan review.Event, buf)
	return NewModel(events, review.DefaultKeymap(), zerolog.Nop()), events
}

func testFrame(w, h int) review.Frame {
	return review.Frame{
		Path:      "photos/cat.png",
		Index:     0,
		Total:     3,
		Image:     image.NewRGBA(image.Rect(0, 0, w, h)),
		Committed: geometry.Region{Size: min(w, h)},
		Preview:   geometry.Region{Size: min(w, h)},
	}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, 4)

	out := tuitest.StripANSI(m.render())
	assert.Contains(t, out, "loading")

	m = update(t, m, tuitest.WindowSize(80, 24), frameMsg(testFrame(200, 100)))
	require.NotNil(t, m.canvas)

	v := m.View()
	assert.True(t, v.AltScreen)
	assert.Equal(t, tea.MouseModeAllMotion, v.MouseMode)

	out = tuitest.StripANSI(m.render())
	assert.Contains(t, out, "[1/3]")
	assert.Contains(t, out, "photos/cat.png")
	assert.Contains(t, out, "▀")
	assert.Contains(t, out, "save")
	assert.Contains(t, out, "delete")
	assert.Contains(t, out, "skip")
}

func TestModel_ViewWindowTooSmall(t *testing.T) {
	m, _ := newTestModel(t, 4)
	m = update(t, m, tuitest.WindowSize(40, 3), frameMsg(testFrame(200, 100)))

	assert.Nil(t, m.canvas)
	assert.Contains(t, tuitest.StripANSI(m.render()), "window too small")
}

func TestModel_Status(t *testing.T) {
	m, _ := newTestModel(t, 4)
	f := testFrame(200, 100)
	f.Status = "write photos/cat.png: disk full"
	f.IsError = true
	m = update(t, m, tuitest.WindowSize(80, 24), frameMsg(f))

	assert.Contains(t, tuitest.StripANSI(m.render()), "disk full")
}

func TestModel_CanvasReusedForSameImage(t *testing.T) {
	m, _ := newTestModel(t, 4)
	f := testFrame(200, 100)
	m = update(t, m, tuitest.WindowSize(80, 24), frameMsg(f))
	first := m.canvas

	f.Preview = geometry.Region{X: 50, Size: 100}
	m = update(t, m, frameMsg(f))
	assert.Same(t, first, m.canvas)

	m = update(t, m, frameMsg(testFrame(100, 200)))
	assert.NotSame(t, first, m.canvas)
}

func TestModel_MouseEvents(t *testing.T) {
	m, events := newTestModel(t, 8)
	m = update(t, m, tuitest.WindowSize(80, 24), frameMsg(testFrame(200, 100)))

	layout := m.canvas.Layout()
	want, ok := layout.ToImage(10, 2)
	require.True(t, ok)

	t.Run("motion", func(t *testing.T) {
		update(t, m, tuitest.MouseMove(10+m.offsetX, 2+headerRows))
		require.Len(t, events, 1)
		assert.Equal(t, review.PointerMove(want.X, want.Y), <-events)
	})

	t.Run("left click", func(t *testing.T) {
		update(t, m, tuitest.MouseClick(10+m.offsetX, 2+headerRows))
		require.Len(t, events, 1)
		assert.Equal(t, review.PointerClick(want.X, want.Y), <-events)
	})

	t.Run("right click ignored", func(t *testing.T) {
		update(t, m, tea.MouseClickMsg{X: 10 + m.offsetX, Y: 2 + headerRows, Button: tea.MouseRight})
		assert.Empty(t, events)
	})

	t.Run("header row ignored", func(t *testing.T) {
		update(t, m, tuitest.MouseMove(10, 0))
		assert.Empty(t, events)
	})

	t.Run("outside image ignored", func(t *testing.T) {
		update(t, m, tuitest.MouseMove(10, headerRows+layout.Rows))
		assert.Empty(t, events)
	})
}

func TestModel_MouseWithoutCanvas(t *testing.T) {
	m, events := newTestModel(t, 4)
	update(t, m, tuitest.MouseClick(1, 1))
	assert.Empty(t, events)
}

func TestModel_Keys(t *testing.T) {
	m, events := newTestModel(t, 4)

	update(t, m, tuitest.KeyPress('s'))
	require.Len(t, events, 1)
	assert.Equal(t, review.KeyPress("s"), <-events)

	update(t, m, tuitest.KeyCode(tea.KeyLeft))
	require.Len(t, events, 1)
	assert.Equal(t, review.KeyPress("left"), <-events)
}

func TestModel_EventsCarryFrameSeq(t *testing.T) {
	m, events := newTestModel(t, 8)

	f := testFrame(200, 100)
	f.Seq = 7
	m = update(t, m, tuitest.WindowSize(80, 24), frameMsg(f), tuitest.KeyPress('s'))
	require.Len(t, events, 1)
	assert.Equal(t, review.KeyPress("s").WithSeq(7), <-events)

	// Input that arrives before the next frame is drawn still belongs to
	// the image on screen.
	x, y := m.offsetX+1, headerRows
	m = update(t, m, tuitest.MouseMove(x, y))
	require.Len(t, events, 1)
	assert.Equal(t, uint64(7), (<-events).Seq)

	next := testFrame(100, 200)
	next.Seq = 8
	update(t, m, frameMsg(next), tuitest.KeyPress('d'))
	require.Len(t, events, 1)
	assert.Equal(t, review.KeyPress("d").WithSeq(8), <-events)
}

func TestModel_QuitMessages(t *testing.T) {
	m, events := newTestModel(t, 4)

	_, cmd := m.Update(tuitest.CtrlC())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, events)

	_, cmd = m.Update(closeMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_DropsEventsWhenFull(t *testing.T) {
	m, events := newTestModel(t, 1)

	update(t, m, tuitest.KeyPress('s'), tuitest.KeyPress('d'))
	require.Len(t, events, 1)
	assert.Equal(t, review.KeyPress("s"), <-events)
}

func TestHelpBindings(t *testing.T) {
	bindings := helpBindings(review.DefaultKeymap())
	require.Len(t, bindings, 5)

	assert.Equal(t, "s", bindings[0].Help().Key)
	assert.Equal(t, "save", bindings[0].Help().Desc)
	assert.Equal(t, "←→↑↓", bindings[3].Help().Key)
	assert.Equal(t, []string{"left", "h", "right", "l", "up", "k", "down", "j"}, bindings[3].Keys())
}
