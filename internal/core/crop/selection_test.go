package crop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/sqcrop/internal/core/geometry"
)

func TestSelection(t *testing.T) {
	dims := geometry.Dimensions{Width: 1200, Height: 800}

	t.Run("starts at top-left", func(t *testing.T) {
		s := NewSelection(dims)
		want := geometry.Region{X: 0, Y: 0, Size: 800}
		assert.Equal(t, want, s.Committed())
		assert.Equal(t, want, s.Preview())
	})

	t.Run("move only updates preview", func(t *testing.T) {
		s := NewSelection(dims)
		s.OnPointerMove(geometry.Point{X: 50, Y: 50})
		assert.Equal(t, geometry.Region{X: 50, Size: 800}, s.Preview())
		assert.Equal(t, geometry.Region{Size: 800}, s.Committed())
	})

	t.Run("commit updates both", func(t *testing.T) {
		s := NewSelection(dims)
		s.OnPointerMove(geometry.Point{X: 10})
		s.OnPointerCommit(geometry.Point{X: 9000})
		want := geometry.Region{X: 400, Size: 800}
		assert.Equal(t, want, s.Committed())
		assert.Equal(t, want, s.Preview())

		s.OnPointerMove(geometry.Point{X: 0})
		assert.Equal(t, want, s.Committed())
		assert.Equal(t, geometry.Region{Size: 800}, s.Preview())
	})

	t.Run("nudge moves committed and preview", func(t *testing.T) {
		s := NewSelection(dims)
		s.OnPointerMove(geometry.Point{X: 300})
		s.Nudge(25, 0)
		want := geometry.Region{X: 25, Size: 800}
		assert.Equal(t, want, s.Committed())
		assert.Equal(t, want, s.Preview())
	})
}
