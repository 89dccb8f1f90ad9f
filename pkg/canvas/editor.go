// Package canvas implements the canvas editor engine: a zoomable surface of
// placed components with selection, drag-move and drag-resize gestures. The
// engine is headless; a host (the embedding page or an editor session) owns
// the component list and receives mutations through the Host callbacks.
package canvas

import (
	"github.com/agp-labs/builder/pkg/geo"
	"github.com/agp-labs/builder/pkg/models"
)

// Host is the contract between the editor and its embedding parent. The
// editor never mutates components it was given; updates arrive as copies.
type Host interface {
	// SelectComponent is called when the selection changes. nil means the
	// background was clicked and nothing is selected.
	SelectComponent(component *models.PlacedComponent)

	// UpdateComponent is called with an updated copy of a component after a
	// drag-move or drag-resize step.
	UpdateComponent(component *models.PlacedComponent)

	// DeleteComponent is called when the selected component is deleted.
	DeleteComponent(id string)
}

// Zoom limits and step, shared with the explicit zoom buttons.
const (
	MinScale = 0.5
	MaxScale = 2.0
	ZoomStep = 0.1
)

type gestureMode int

const (
	modeIdle gestureMode = iota
	modeArmed
	modeDragging
	modeResizing
)

// Editor holds the canvas editor state for one surface.
type Editor struct {
	host Host

	components []*models.PlacedComponent
	selected   *models.PlacedComponent

	scale  float64
	origin geo.Point // canvas origin offset in client coordinates

	mode       gestureMode
	grabOffset geo.Point // client-space offset between pointer and component origin at grab

	resizeCorner Corner
	resizeStart  geo.Rect  // component rect when the resize was armed
	resizeGrab   geo.Point // canvas-space pointer position when the resize was armed
}

// NewEditor creates a canvas editor bound to a host.
func NewEditor(host Host) *Editor {
	return &Editor{
		host:  host,
		scale: 1.0,
	}
}

// SetComponents replaces the editor's view of the component list. Order is
// z-order: the last component is topmost for hit testing. A stale selection
// pointing at a removed component is dropped.
func (e *Editor) SetComponents(components []*models.PlacedComponent) {
	e.components = components

	if e.selected == nil {
		return
	}

	for _, c := range components {
		if c.ID == e.selected.ID {
			e.selected = c

			return
		}
	}

	e.selected = nil
	e.mode = modeIdle
}

// Components returns the editor's current view of the component list.
func (e *Editor) Components() []*models.PlacedComponent {
	return e.components
}

// Selected returns the currently selected component, or nil.
func (e *Editor) Selected() *models.PlacedComponent {
	return e.selected
}

// Dragging reports whether a drag-move gesture is in progress.
func (e *Editor) Dragging() bool {
	return e.mode == modeDragging
}

// Resizing reports whether a drag-resize gesture is in progress.
func (e *Editor) Resizing() bool {
	return e.mode == modeResizing
}

// SetOrigin sets the canvas origin offset in client coordinates. The embedding
// surface reports this whenever its bounding box moves.
func (e *Editor) SetOrigin(origin geo.Point) {
	e.origin = origin
}

// ToCanvas converts a client-space point to canvas space.
func (e *Editor) ToCanvas(client geo.Point) geo.Point {
	return client.Sub(e.origin).Scale(1 / e.scale)
}

// HitTest returns the topmost component containing the canvas-space point.
func (e *Editor) HitTest(canvasPoint geo.Point) *models.PlacedComponent {
	for i := len(e.components) - 1; i >= 0; i-- {
		c := e.components[i]
		rect := geo.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}

		if rect.Contains(canvasPoint) {
			return c
		}
	}

	return nil
}

// PointerDown starts a gesture at the given client-space point. Hitting a
// component selects it and arms dragging; hitting the background deselects.
func (e *Editor) PointerDown(client geo.Point) {
	hit := e.HitTest(e.ToCanvas(client))
	if hit == nil {
		e.selected = nil
		e.mode = modeIdle
		e.host.SelectComponent(nil)

		return
	}

	if e.selected == nil || e.selected.ID != hit.ID {
		e.selected = hit
		e.host.SelectComponent(hit)
	}

	// Armed: the drag begins on the first pointer move.
	e.mode = modeArmed
	e.grabOffset = client.Sub(e.origin).Sub(geo.Point{X: hit.X, Y: hit.Y}.Scale(e.scale))
}

// PointerMove advances the active gesture. Without an armed gesture or a
// selection this is a no-op.
func (e *Editor) PointerMove(client geo.Point) {
	switch e.mode {
	case modeArmed:
		e.mode = modeDragging

		fallthrough
	case modeDragging:
		e.dragTo(client)
	case modeResizing:
		e.resizeTo(client)
	case modeIdle:
	}
}

// PointerUp ends the active gesture. The selection survives the gesture.
func (e *Editor) PointerUp(geo.Point) {
	if e.mode != modeIdle {
		e.mode = modeIdle
	}
}

// DeleteSelected removes the selected component via the host and clears the
// selection. No-op without a selection.
func (e *Editor) DeleteSelected() {
	if e.selected == nil {
		return
	}

	id := e.selected.ID
	e.selected = nil
	e.mode = modeIdle

	for i, c := range e.components {
		if c.ID == id {
			e.components = append(e.components[:i], e.components[i+1:]...)

			break
		}
	}

	e.host.DeleteComponent(id)
}

func (e *Editor) dragTo(client geo.Point) {
	if e.selected == nil {
		return
	}

	position := client.Sub(e.origin).Sub(e.grabOffset).Scale(1 / e.scale)

	updated := e.selected.Clone()
	updated.X = max(position.X, 0)
	updated.Y = max(position.Y, 0)

	e.applyUpdate(updated)
}

// applyUpdate swaps the updated copy into the local view and notifies the host.
func (e *Editor) applyUpdate(updated *models.PlacedComponent) {
	for i, c := range e.components {
		if c.ID == updated.ID {
			e.components[i] = updated

			break
		}
	}

	e.selected = updated
	e.host.UpdateComponent(updated)
}
