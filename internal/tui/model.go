// Package tui implements the interactive review surface on top of a
// bubbletea program.
package tui

import (
	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/sqcrop/internal/core/geometry"
	"github.com/colonyops/sqcrop/internal/core/review"
	"github.com/colonyops/sqcrop/internal/core/styles"
	"github.com/colonyops/sqcrop/internal/tui/canvas"
)

// Rows reserved around the image: header above, status and help below.
const (
	headerRows = 1
	footerRows = 2
)

type (
	// frameMsg delivers a new frame from the review loop.
	frameMsg review.Frame
	// closeMsg asks the program to exit.
	closeMsg struct{}
)

// Model is the bubbletea model backing a Surface.
type Model struct {
	frame    review.Frame
	hasFrame bool

	canvas  *canvas.Canvas
	offsetX int

	width  int
	height int

	events chan<- review.Event
	keys   []key.Binding
	help   help.Model
	log    zerolog.Logger
}

// NewModel creates a model that forwards input to events.
func NewModel(events chan<- review.Event, km review.Keymap, log zerolog.Logger) Model {
	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.ShortSeparator = styles.HelpDescStyle

	return Model{
		events: events,
		keys:   helpBindings(km),
		help:   h,
		log:    log,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
		m.rebuild()
	case frameMsg:
		imageChanged := !m.hasFrame || m.frame.Image != msg.Image
		m.frame = review.Frame(msg)
		m.hasFrame = true
		if imageChanged {
			m.rebuild()
		}
	case closeMsg:
		return m, tea.Quit
	case tea.KeyPressMsg:
		if msg.String() == keyCtrlC {
			return m, tea.Quit
		}
		m.emit(review.KeyPress(msg.String()))
	case tea.MouseMotionMsg:
		if p, ok := m.toImage(msg.X, msg.Y); ok {
			m.emit(review.PointerMove(p.X, p.Y))
		}
	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			break
		}
		if p, ok := m.toImage(msg.X, msg.Y); ok {
			m.emit(review.PointerClick(p.X, p.Y))
		}
	}
	return m, nil
}

// emit queues an event without blocking the program. Events are dropped
// when the loop falls behind. Each event carries the Seq of the frame on
// screen.
func (m Model) emit(ev review.Event) {
	ev = ev.WithSeq(m.frame.Seq)
	select {
	case m.events <- ev:
	default:
		m.log.Debug().Int("kind", int(ev.Kind)).Msg("event queue full, dropping")
	}
}

func (m *Model) rebuild() {
	m.canvas = nil
	if !m.hasFrame || m.frame.Image == nil {
		return
	}
	rows := m.height - headerRows - footerRows
	if m.width <= 0 || rows <= 0 {
		return
	}
	m.canvas = canvas.New(m.frame.Image, m.width, rows)
	m.offsetX = max((m.width-m.canvas.Layout().Cols)/2, 0)
}

// toImage maps a terminal cell to image pixel coordinates.
func (m Model) toImage(x, y int) (geometry.Point, bool) {
	if m.canvas == nil {
		return geometry.Point{}, false
	}
	return m.canvas.Layout().ToImage(x-m.offsetX, y-headerRows)
}
