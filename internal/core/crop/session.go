// Package crop holds the per-image crop session and its selection state.
package crop

import (
	"errors"
	"fmt"
	"image"

	"github.com/colonyops/sqcrop/internal/core/geometry"
	"github.com/colonyops/sqcrop/internal/core/imageio"
)

// State is the lifecycle stage of a session.
type State int

const (
	StateLoaded State = iota
	StateCropping
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateCropping:
		return "cropping"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeNone          Outcome = ""
	OutcomeSaved         Outcome = "saved"
	OutcomeDeleted       Outcome = "deleted"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeAlreadySquare Outcome = "already_square"
	OutcomeDecodeFailed  Outcome = "decode_failed"
)

// ErrNotCropping is returned when a command arrives after the session ended
// or for an image that needs no crop.
var ErrNotCropping = errors.New("session is not cropping")

// Decoder loads an image from a path.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// Storage applies terminal commands to durable storage.
type Storage interface {
	Replace(path string, img image.Image, f imageio.Format) (string, error)
	Remove(path string) error
}

// Session is the crop controller for a single image. A fresh session is
// opened for every image and discarded once it reaches StateTerminal.
type Session struct {
	path      string
	img       image.Image
	dims      geometry.Dimensions
	sel       *Selection
	state     State
	outcome   Outcome
	finalPath string
}

// Open decodes the image at path. Square images end immediately with
// OutcomeAlreadySquare; all others enter StateCropping.
func Open(path string, dec Decoder) (*Session, error) {
	img, err := dec.Decode(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	s := &Session{
		path:  path,
		img:   img,
		dims:  geometry.DimensionsOf(img),
		state: StateLoaded,
	}

	if s.dims.IsSquare() {
		s.finish(OutcomeAlreadySquare)
		return s, nil
	}

	s.sel = NewSelection(s.dims)
	s.state = StateCropping
	return s, nil
}

// Path returns the source path.
func (s *Session) Path() string { return s.path }

// Image returns the decoded image, or nil once the session has ended.
func (s *Session) Image() image.Image { return s.img }

// Dimensions returns the decoded image size.
func (s *Session) Dimensions() geometry.Dimensions { return s.dims }

// State returns the current lifecycle stage.
func (s *Session) State() State { return s.state }

// Outcome returns how the session ended, or OutcomeNone while cropping.
func (s *Session) Outcome() Outcome { return s.outcome }

// FinalPath returns the path written by a successful save.
func (s *Session) FinalPath() string { return s.finalPath }

// Selection returns the selection state, or nil when not cropping.
func (s *Session) Selection() *Selection { return s.sel }

// NeedsCrop reports whether the session entered the interactive state.
func (s *Session) NeedsCrop() bool { return s.state == StateCropping }

// PointerMove updates the preview region.
func (s *Session) PointerMove(p geometry.Point) {
	if s.state == StateCropping {
		s.sel.OnPointerMove(p)
	}
}

// PointerCommit updates both preview and committed regions.
func (s *Session) PointerCommit(p geometry.Point) {
	if s.state == StateCropping {
		s.sel.OnPointerCommit(p)
	}
}

// Nudge moves the committed region by a pixel delta.
func (s *Session) Nudge(dx, dy int) {
	if s.state == StateCropping {
		s.sel.Nudge(dx, dy)
	}
}

// Cropped returns the committed sub-image.
func (s *Session) Cropped() image.Image {
	return imageio.Crop(s.img, s.sel.Committed().Rect(image.Point{}))
}

// Save writes the committed crop over the source using format f. On failure
// the session remains cropping so the reviewer can retry or pick another
// command.
func (s *Session) Save(store Storage, f imageio.Format) error {
	if s.state != StateCropping {
		return ErrNotCropping
	}

	final, err := store.Replace(s.path, s.Cropped(), f)
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}

	s.finalPath = final
	s.finish(OutcomeSaved)
	return nil
}

// Delete removes the source file. On failure the session remains cropping.
func (s *Session) Delete(store Storage) error {
	if s.state != StateCropping {
		return ErrNotCropping
	}

	if err := store.Remove(s.path); err != nil {
		return &DeleteError{Path: s.path, Err: err}
	}

	s.finish(OutcomeDeleted)
	return nil
}

// Skip ends the session without touching storage.
func (s *Session) Skip() error {
	if s.state != StateCropping {
		return ErrNotCropping
	}
	s.finish(OutcomeSkipped)
	return nil
}

// Close releases the decoded image. A session closed while cropping ends
// without an outcome.
func (s *Session) Close() {
	s.state = StateTerminal
	s.img = nil
	s.sel = nil
}

func (s *Session) finish(o Outcome) {
	s.outcome = o
	s.state = StateTerminal
	s.img = nil
	s.sel = nil
}
