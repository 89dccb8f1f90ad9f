package canvas

import (
	"github.com/agp-labs/builder/pkg/geo"
	"github.com/agp-labs/builder/pkg/models"
)

// Corner identifies one of the four resize handles on the selected component.
type Corner int

const (
	CornerNW Corner = iota
	CornerNE
	CornerSW
	CornerSE
)

// BeginResize arms a drag-resize gesture on the selected component from the
// given corner handle. No-op without a selection.
func (e *Editor) BeginResize(corner Corner, client geo.Point) {
	if e.selected == nil {
		return
	}

	e.mode = modeResizing
	e.resizeCorner = corner
	e.resizeStart = geo.Rect{
		X:      e.selected.X,
		Y:      e.selected.Y,
		Width:  e.selected.Width,
		Height: e.selected.Height,
	}
	e.resizeGrab = e.ToCanvas(client)
}

// resizeTo recomputes the component rect for the current pointer position.
// The dragged corner moves the two adjacent edges; the opposite corner stays
// fixed. Width and height never drop below MinComponentSize and the origin
// never goes negative.
func (e *Editor) resizeTo(client geo.Point) {
	if e.selected == nil {
		return
	}

	delta := e.ToCanvas(client).Sub(e.resizeGrab)
	rect := e.resizeStart

	switch e.resizeCorner {
	case CornerSE:
		rect.Width += delta.X
		rect.Height += delta.Y
	case CornerSW:
		rect.X += delta.X
		rect.Width -= delta.X
		rect.Height += delta.Y
	case CornerNE:
		rect.Y += delta.Y
		rect.Width += delta.X
		rect.Height -= delta.Y
	case CornerNW:
		rect.X += delta.X
		rect.Y += delta.Y
		rect.Width -= delta.X
		rect.Height -= delta.Y
	}

	// Clamp the moving edge, keeping the fixed corner anchored.
	if rect.Width < models.MinComponentSize {
		if e.resizeCorner == CornerNW || e.resizeCorner == CornerSW {
			rect.X -= models.MinComponentSize - rect.Width
		}

		rect.Width = models.MinComponentSize
	}

	if rect.Height < models.MinComponentSize {
		if e.resizeCorner == CornerNW || e.resizeCorner == CornerNE {
			rect.Y -= models.MinComponentSize - rect.Height
		}

		rect.Height = models.MinComponentSize
	}

	if rect.X < 0 {
		rect.Width += rect.X
		rect.X = 0
	}

	if rect.Y < 0 {
		rect.Height += rect.Y
		rect.Y = 0
	}

	updated := e.selected.Clone()
	updated.X = rect.X
	updated.Y = rect.Y
	updated.Width = rect.Width
	updated.Height = rect.Height

	e.applyUpdate(updated)
}
