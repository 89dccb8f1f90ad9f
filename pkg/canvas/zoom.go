package canvas

import "math"

// Scale returns the current zoom factor.
func (e *Editor) Scale() float64 {
	return e.scale
}

// SetScale sets the zoom factor, clamped to [MinScale, MaxScale].
func (e *Editor) SetScale(scale float64) {
	e.scale = clampScale(scale)
}

// ZoomIn increases the zoom by one step.
func (e *Editor) ZoomIn() {
	e.SetScale(e.scale + ZoomStep)
}

// ZoomOut decreases the zoom by one step.
func (e *Editor) ZoomOut() {
	e.SetScale(e.scale - ZoomStep)
}

// Wheel applies a wheel event. Only ctrl+wheel zooms; one notch is one step,
// scrolling up zooms in. Plain wheel events scroll the surface and are not
// the editor's concern.
func (e *Editor) Wheel(deltaY float64, ctrl bool) {
	if !ctrl || deltaY == 0 {
		return
	}

	if deltaY < 0 {
		e.ZoomIn()
	} else {
		e.ZoomOut()
	}
}

func clampScale(scale float64) float64 {
	// Steps accumulate floating point error; snap to the 0.1 grid.
	scale = math.Round(scale*10) / 10

	return min(max(scale, MinScale), MaxScale)
}
