package review

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/colonyops/sqcrop/internal/core/geometry"
)

// ErrSurfaceClosed is returned by a Surface once the reviewer has closed it.
var ErrSurfaceClosed = errors.New("review surface closed")

// EventKind identifies the input event type.
type EventKind int

const (
	EventNone EventKind = iota
	EventPointerMove
	EventPointerClick
	EventKey
)

// Event is a single input event. Pointer positions are in image pixel
// coordinates.
type Event struct {
	Kind EventKind
	Pos  geometry.Point
	Key  string
	// Seq is the Frame.Seq that was on screen when the input happened.
	Seq  uint64
}

// WithSeq returns a copy of e tagged with the frame sequence seq.
func (e Event) WithSeq(seq uint64) Event {
	e.Seq = seq
	return e
}

// PointerMove builds a pointer move event.
func PointerMove(x, y int) Event {
	return Event{Kind: EventPointerMove, Pos: geometry.Point{X: x, Y: y}}
}

// PointerClick builds a pointer click event.
func PointerClick(x, y int) Event {
	return Event{Kind: EventPointerClick, Pos: geometry.Point{X: x, Y: y}}
}

// KeyPress builds a key event. Keys use the bubbletea string form ("s",
// "left", "ctrl+c").
func KeyPress(key string) Event {
	return Event{Kind: EventKey, Key: key}
}

// Frame is everything the surface needs to draw one image under review.
type Frame struct {
	// Seq identifies the session being drawn. It changes whenever a new
	// image is opened, and input tagged with an older Seq is discarded.
	Seq       uint64
	Path      string
	Index     int // zero-based
	Total     int
	Image     image.Image
	Committed geometry.Region
	Preview   geometry.Region
	Status    string
	IsError   bool
}

// Surface displays frames and reports input events.
type Surface interface {
	// Render replaces the displayed frame.
	Render(f Frame) error
	// PollEvent waits at most timeout for the next event. It returns an
	// EventNone event when nothing arrived in time. Events must carry the
	// Seq of the frame that was displayed when they were produced.
	PollEvent(ctx context.Context, timeout time.Duration) (Event, error)
}
