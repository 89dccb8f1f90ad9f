package canvas_test

import (
	"testing"

	"github.com/agp-labs/builder/pkg/canvas"
	"github.com/agp-labs/builder/pkg/geo"
	"github.com/agp-labs/builder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_Resize(t *testing.T) {
	t.Parallel()

	// Component rect (100, 200) 120x40; corners: NW (100,200), NE (220,200),
	// SW (100,240), SE (220,240).
	tests := []struct {
		name     string
		corner   canvas.Corner
		grab     geo.Point
		move     geo.Point
		expected geo.Rect
	}{
		{
			name:     "SE grows both dimensions",
			corner:   canvas.CornerSE,
			grab:     geo.Point{X: 220, Y: 240},
			move:     geo.Point{X: 250, Y: 260},
			expected: geo.Rect{X: 100, Y: 200, Width: 150, Height: 60},
		},
		{
			name:     "NW moves origin and shrinks",
			corner:   canvas.CornerNW,
			grab:     geo.Point{X: 100, Y: 200},
			move:     geo.Point{X: 110, Y: 210},
			expected: geo.Rect{X: 110, Y: 210, Width: 110, Height: 30},
		},
		{
			name:     "NE keeps left edge fixed",
			corner:   canvas.CornerNE,
			grab:     geo.Point{X: 220, Y: 200},
			move:     geo.Point{X: 240, Y: 190},
			expected: geo.Rect{X: 100, Y: 190, Width: 140, Height: 50},
		},
		{
			name:     "SW keeps right edge fixed",
			corner:   canvas.CornerSW,
			grab:     geo.Point{X: 100, Y: 240},
			move:     geo.Point{X: 80, Y: 270},
			expected: geo.Rect{X: 80, Y: 200, Width: 140, Height: 70},
		},
		{
			name:   "SE clamps at minimum size",
			corner: canvas.CornerSE,
			grab:   geo.Point{X: 220, Y: 240},
			move:   geo.Point{X: 90, Y: 190},
			expected: geo.Rect{
				X: 100, Y: 200,
				Width: 10, Height: 10,
			},
		},
		{
			name:   "NW clamp keeps the SE corner anchored",
			corner: canvas.CornerNW,
			grab:   geo.Point{X: 100, Y: 200},
			move:   geo.Point{X: 300, Y: 300},
			expected: geo.Rect{
				X: 210, Y: 230,
				Width: 10, Height: 10,
			},
		},
		{
			name:     "NW clamps origin at zero and shrinks instead",
			corner:   canvas.CornerNW,
			grab:     geo.Point{X: 100, Y: 200},
			move:     geo.Point{X: -50, Y: -50},
			expected: geo.Rect{X: 0, Y: 0, Width: 220, Height: 240},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			component := testutil.CreateTestComponent(testutil.WithPosition(100, 200), testutil.WithSize(120, 40))
			editor, host := newTestEditor(component)

			editor.PointerDown(geo.Point{X: 110, Y: 210})
			editor.PointerUp(geo.Point{X: 110, Y: 210})

			editor.BeginResize(tt.corner, tt.grab)
			assert.True(t, editor.Resizing())

			editor.PointerMove(tt.move)

			require.NotEmpty(t, host.updates)
			updated := host.updates[len(host.updates)-1]

			assert.Equal(t, tt.expected.X, updated.X)
			assert.Equal(t, tt.expected.Y, updated.Y)
			assert.Equal(t, tt.expected.Width, updated.Width)
			assert.Equal(t, tt.expected.Height, updated.Height)
		})
	}
}

func TestEditor_BeginResize_WithoutSelectionIsNoop(t *testing.T) {
	t.Parallel()

	component := testutil.CreateTestComponent(testutil.WithPosition(100, 200))
	editor, host := newTestEditor(component)

	editor.BeginResize(canvas.CornerSE, geo.Point{X: 220, Y: 240})
	editor.PointerMove(geo.Point{X: 250, Y: 260})

	assert.False(t, editor.Resizing())
	assert.Empty(t, host.updates)
}

func TestEditor_Resize_EndsOnPointerUp(t *testing.T) {
	t.Parallel()

	component := testutil.CreateTestComponent(testutil.WithPosition(100, 200), testutil.WithSize(120, 40))
	editor, _ := newTestEditor(component)

	editor.PointerDown(geo.Point{X: 110, Y: 210})
	editor.BeginResize(canvas.CornerSE, geo.Point{X: 220, Y: 240})
	editor.PointerMove(geo.Point{X: 240, Y: 250})
	editor.PointerUp(geo.Point{X: 240, Y: 250})

	assert.False(t, editor.Resizing())
	require.NotNil(t, editor.Selected())
	assert.Equal(t, 140.0, editor.Selected().Width)
}

func TestEditor_Resize_AtDoubleScale(t *testing.T) {
	t.Parallel()

	component := testutil.CreateTestComponent(testutil.WithPosition(100, 200), testutil.WithSize(120, 40))
	editor, host := newTestEditor(component)
	editor.SetScale(2.0)

	// SE corner (220,240) in canvas space is client (440,480).
	editor.PointerDown(geo.Point{X: 220, Y: 420})
	editor.PointerUp(geo.Point{X: 220, Y: 420})
	editor.BeginResize(canvas.CornerSE, geo.Point{X: 440, Y: 480})

	// 40 client pixels of travel is 20 canvas units at scale 2.
	editor.PointerMove(geo.Point{X: 480, Y: 480})

	require.NotEmpty(t, host.updates)
	updated := host.updates[len(host.updates)-1]
	assert.Equal(t, 140.0, updated.Width)
	assert.Equal(t, 40.0, updated.Height)
}
