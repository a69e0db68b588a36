// Package geometry computes the square crop region for an image.
//
// The square always spans the shorter image dimension and slides along the
// longer one, so a region has exactly one degree of freedom.
package geometry

import (
	"fmt"
	"image"
)

// Dimensions is the pixel size of a decoded image.
type Dimensions struct {
	Width  int
	Height int
}

// DimensionsOf returns the dimensions of an image's bounds.
func DimensionsOf(img image.Image) Dimensions {
	b := img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// IsSquare reports whether width equals height.
func (d Dimensions) IsSquare() bool {
	return d.Width == d.Height
}

// Portrait reports whether the image is taller than it is wide.
func (d Dimensions) Portrait() bool {
	return d.Height > d.Width
}

// Side returns the side length of the largest inscribable square.
func (d Dimensions) Side() int {
	return min(d.Width, d.Height)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Point is a position in image pixel coordinates.
type Point struct {
	X int
	Y int
}

// Region is an axis-aligned square given by its top-left corner and side.
type Region struct {
	X    int
	Y    int
	Size int
}

// Min returns the top-left corner.
func (r Region) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Max returns the bottom-right corner (exclusive).
func (r Region) Max() Point {
	return Point{X: r.X + r.Size, Y: r.Y + r.Size}
}

// Center returns the marker position drawn for the region.
func (r Region) Center() Point {
	return Point{X: r.X + r.Size/2, Y: r.Y + r.Size/2}
}

// Rect converts the region to an image.Rectangle relative to origin.
func (r Region) Rect(origin image.Point) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Size, r.Y+r.Size).Add(origin)
}

// Valid reports whether the region lies inside d and spans its shorter side.
func (r Region) Valid(d Dimensions) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.X+r.Size <= d.Width &&
		r.Y+r.Size <= d.Height &&
		r.Size == d.Side()
}

func (r Region) String() string {
	return fmt.Sprintf("{(%d,%d),(%d,%d)}", r.X, r.Y, r.X+r.Size, r.Y+r.Size)
}

// ClampedSquare returns the largest square inside d whose top-left corner is
// as close to p as the bounds allow. Only the coordinate along the longer
// axis is taken from p; the other is pinned to zero.
func ClampedSquare(d Dimensions, p Point) Region {
	size := d.Side()
	if d.Portrait() {
		return Region{X: 0, Y: clamp(p.Y, 0, d.Height-size), Size: size}
	}
	return Region{X: clamp(p.X, 0, d.Width-size), Y: 0, Size: size}
}

// Nudge moves r by (dx, dy) and re-clamps it to d.
func Nudge(d Dimensions, r Region, dx, dy int) Region {
	return ClampedSquare(d, Point{X: r.X + dx, Y: r.Y + dy})
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
