package crop

import "github.com/colonyops/sqcrop/internal/core/geometry"

// Selection tracks the committed and previewed crop regions for one image.
// Both regions are always valid for the image dimensions.
type Selection struct {
	dims      geometry.Dimensions
	committed geometry.Region
	preview   geometry.Region
}

// NewSelection anchors both regions at the image's top-left corner.
func NewSelection(dims geometry.Dimensions) *Selection {
	r := geometry.ClampedSquare(dims, geometry.Point{})
	return &Selection{dims: dims, committed: r, preview: r}
}

// Committed returns the region used when the crop is saved.
func (s *Selection) Committed() geometry.Region { return s.committed }

// Preview returns the region following the pointer.
func (s *Selection) Preview() geometry.Region { return s.preview }

// OnPointerMove moves the preview to p. The committed region is untouched.
func (s *Selection) OnPointerMove(p geometry.Point) {
	s.preview = geometry.ClampedSquare(s.dims, p)
}

// OnPointerCommit moves both the preview and the committed region to p.
func (s *Selection) OnPointerCommit(p geometry.Point) {
	r := geometry.ClampedSquare(s.dims, p)
	s.committed = r
	s.preview = r
}

// Nudge shifts the committed region by (dx, dy); the preview follows.
func (s *Selection) Nudge(dx, dy int) {
	r := geometry.Nudge(s.dims, s.committed, dx, dy)
	s.committed = r
	s.preview = r
}
