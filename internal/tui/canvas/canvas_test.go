package canvas

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/sqcrop/internal/core/geometry"
	"github.com/colonyops/sqcrop/pkg/tuitest"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		img  geometry.Dimensions
		cols int
		rows int
		want Layout
	}{
		{
			name: "landscape limited by width",
			img:  geometry.Dimensions{Width: 1200, Height: 800},
			cols: 80, rows: 40,
			want: Layout{Cols: 80, Rows: 27},
		},
		{
			name: "portrait limited by height",
			img:  geometry.Dimensions{Width: 600, Height: 1000},
			cols: 80, rows: 20,
			want: Layout{Cols: 24, Rows: 20},
		},
		{
			name: "tiny terminal",
			img:  geometry.Dimensions{Width: 10, Height: 10},
			cols: 0, rows: 0,
			want: Layout{Cols: 1, Rows: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.img, tt.cols, tt.rows)
			tt.want.Img = tt.img
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.Cols, max(1, tt.cols))
			assert.LessOrEqual(t, got.Rows, max(1, tt.rows))
		})
	}
}

func TestLayout_ToImage(t *testing.T) {
	l := Layout{Cols: 10, Rows: 5, Img: geometry.Dimensions{Width: 100, Height: 100}}

	p, ok := l.ToImage(0, 0)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 5, Y: 5}, p)

	p, ok = l.ToImage(9, 4)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 95, Y: 85}, p)

	_, ok = l.ToImage(10, 0)
	assert.False(t, ok)
	_, ok = l.ToImage(0, -1)
	assert.False(t, ok)
}

func TestCanvas_Render(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	c := New(src, 20, 5)
	l := c.Layout()
	assert.Equal(t, 20, l.Cols)
	assert.Equal(t, 5, l.Rows)

	committed := geometry.Region{X: 0, Size: 20}
	preview := geometry.Region{X: 20, Size: 20}
	out := c.Render(committed, preview)

	lines := strings.Split(tuitest.StripANSI(out), "\n")
	require.Len(t, lines, l.Rows)
	for _, line := range lines {
		assert.Equal(t, strings.Repeat(halfBlock, l.Cols), line)
	}
	assert.NotEqual(t, tuitest.StripANSI(out), out, "cells must carry colour")
}

func TestCanvas_RenderChangesWithPreview(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 30, 10))
	c := New(src, 30, 5)

	r := geometry.Region{Size: 10}
	a := c.Render(r, r)
	b := c.Render(r, geometry.Region{X: 20, Size: 10})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c.Render(r, r))
}
