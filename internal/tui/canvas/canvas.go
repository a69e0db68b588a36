// Package canvas draws an image with crop overlays as terminal cells.
//
// Each cell shows two vertically stacked samples using the upper half block
// glyph: the foreground colours the top sample and the background the bottom
// one. With typical 1:2 cell proportions this keeps samples square.
package canvas

import (
	"image"
	"image/color"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/colonyops/sqcrop/internal/core/geometry"
	"github.com/colonyops/sqcrop/internal/core/styles"
)

const halfBlock = "▀"

// outsideDim is how far pixels outside the committed region fade toward
// the background.
const outsideDim = 0.55

// Layout maps between image pixels and the sample raster shown in cells.
type Layout struct {
	Cols int // cells across
	Rows int // cells down; the raster is Rows*2 samples tall
	Img  geometry.Dimensions
}

// Fit returns the largest layout for img that fits in maxCols x maxRows
// cells while keeping its aspect ratio.
func Fit(img geometry.Dimensions, maxCols, maxRows int) Layout {
	l := Layout{Img: img, Cols: 1, Rows: 1}
	if img.Width <= 0 || img.Height <= 0 || maxCols <= 0 || maxRows <= 0 {
		return l
	}

	// Compare aspect ratios in samples (maxCols wide, 2*maxRows tall) using
	// integers so exact fits are not lost to rounding.
	var sampleH int
	if maxCols*img.Height <= 2*maxRows*img.Width {
		l.Cols = maxCols
		sampleH = img.Height * maxCols / img.Width
	} else {
		sampleH = 2 * maxRows
		l.Cols = img.Width * 2 * maxRows / img.Height
	}

	l.Cols = max(1, min(l.Cols, maxCols))
	l.Rows = max(1, min((sampleH+1)/2, maxRows))
	return l
}

// SampleHeight is the raster height in samples.
func (l Layout) SampleHeight() int { return l.Rows * 2 }

// ToImage maps a cell to the image pixel at the centre of its top sample.
// ok is false when the cell lies outside the layout.
func (l Layout) ToImage(col, row int) (geometry.Point, bool) {
	if col < 0 || row < 0 || col >= l.Cols || row >= l.Rows {
		return geometry.Point{}, false
	}
	x := (2*col + 1) * l.Img.Width / (2 * l.Cols)
	y := (4*row + 1) * l.Img.Height / (2 * l.SampleHeight())
	return geometry.Point{X: x, Y: y}, true
}

// toSample maps an image coordinate to the raster.
func (l Layout) toSample(x, y int) (int, int) {
	return x * l.Cols / l.Img.Width, y * l.SampleHeight() / l.Img.Height
}

// Canvas holds a downscaled copy of one image for repeated rendering.
type Canvas struct {
	layout Layout
	base   *image.RGBA
}

// New scales src to fit maxCols x maxRows cells.
func New(src image.Image, maxCols, maxRows int) *Canvas {
	layout := Fit(geometry.DimensionsOf(src), maxCols, maxRows)
	base := image.NewRGBA(image.Rect(0, 0, layout.Cols, layout.SampleHeight()))
	xdraw.ApproxBiLinear.Scale(base, base.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return &Canvas{layout: layout, base: base}
}

// Layout returns the cell layout.
func (c *Canvas) Layout() Layout { return c.layout }

type box struct {
	x0, y0, x1, y1 int // inclusive sample bounds
}

func (c *Canvas) box(r geometry.Region) box {
	x0, y0 := c.layout.toSample(r.X, r.Y)
	x1, y1 := c.layout.toSample(r.X+r.Size, r.Y+r.Size)
	return box{x0: x0, y0: y0, x1: max(x0, x1-1), y1: max(y0, y1-1)}
}

func (b box) contains(x, y int) bool {
	return x >= b.x0 && x <= b.x1 && y >= b.y0 && y <= b.y1
}

func (b box) edge(x, y int) bool {
	return b.contains(x, y) && (x == b.x0 || x == b.x1 || y == b.y0 || y == b.y1)
}

// Render draws the image with the committed region outlined and everything
// outside it dimmed, the preview outline on top, and a centre marker for
// each region.
func (c *Canvas) Render(committed, preview geometry.Region) string {
	cb := c.box(committed)
	pb := c.box(preview)
	cc := centerMarker(c.layout, committed.Center())
	pc := centerMarker(c.layout, preview.Center())

	sample := func(x, y int) color.Color {
		switch {
		case pc.contains(x, y):
			return styles.ColorPreview
		case cc.contains(x, y):
			return styles.ColorCommitted
		case pb.edge(x, y):
			return styles.ColorPreview
		case cb.edge(x, y):
			return styles.ColorCommitted
		}
		px := c.base.RGBAAt(x, y)
		if !cb.contains(x, y) {
			return styles.Dim(px, outsideDim)
		}
		return px
	}

	var sb strings.Builder
	for row := 0; row < c.layout.Rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < c.layout.Cols; col++ {
			top := sample(col, 2*row)
			bottom := sample(col, 2*row+1)
			sb.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render(halfBlock))
		}
	}
	return sb.String()
}

func centerMarker(l Layout, p geometry.Point) box {
	x, y := l.toSample(p.X, p.Y)
	return box{x0: x, y0: y, x1: x, y1: y + 1}
}
