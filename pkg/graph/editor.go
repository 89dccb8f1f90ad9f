// Package graph implements the workflow editor engine: the node-link view of
// the canvas. Each placed component projects to one node with ports
// synthesized from its type; the editor manages the connection gesture, edge
// geometry and connection deletion.
package graph

import (
	"math/rand"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/geo"
	"github.com/agp-labs/builder/pkg/models"
)

// Node box metrics used for port placement and edge geometry.
const (
	NodeWidth    = 180.0
	HeaderHeight = 40.0
	PortSpacing  = 24.0
)

// Editor holds the workflow editor state for one app.
type Editor struct {
	order       []string
	nodes       map[string]*models.WorkflowNode
	connections []*models.Connection

	selected string
	pending  *PendingConnection

	rng *rand.Rand
}

// Option configures an Editor.
type Option func(*Editor)

// WithLayoutSeed fixes the seed of the fallback layout so node positions are
// reproducible. Components that carry canvas geometry never need the fallback.
func WithLayoutSeed(seed int64) Option {
	return func(e *Editor) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// NewEditor derives the node graph from the placed components and adopts the
// given connections. Connections referencing unknown nodes or ports are kept
// in state but skipped by geometry lookups, matching the render-time
// skip-and-continue rule.
func NewEditor(components []*models.PlacedComponent, connections []*models.Connection, opts ...Option) *Editor {
	e := &Editor{
		nodes: make(map[string]*models.WorkflowNode, len(components)),
	}

	for _, opt := range opts {
		opt(e)
	}

	for _, c := range components {
		e.addNode(c)
	}

	e.connections = append(e.connections, connections...)

	return e
}

// addNode projects a component into a workflow node. Layout is derived from
// the component's canvas position; components without geometry get a random
// fallback position.
func (e *Editor) addNode(c *models.PlacedComponent) {
	inputs, outputs := catalog.SynthesizePorts(c.ID, c.Type)

	node := &models.WorkflowNode{
		ID:        c.ID,
		Type:      c.Type,
		Name:      c.Name,
		Inputs:    inputs,
		Outputs:   outputs,
		PositionX: c.X,
		PositionY: c.Y,
	}

	if c.X == 0 && c.Y == 0 {
		node.PositionX, node.PositionY = e.fallbackPosition()
	}

	e.order = append(e.order, c.ID)
	e.nodes[c.ID] = node
}

func (e *Editor) fallbackPosition() (float64, float64) {
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(int64(len(e.order)) + 1))
	}

	return e.rng.Float64() * 600, e.rng.Float64() * 400
}

// Node returns the node with the given ID.
func (e *Editor) Node(id string) (*models.WorkflowNode, bool) {
	node, ok := e.nodes[id]

	return node, ok
}

// Nodes returns all nodes in component order.
func (e *Editor) Nodes() []*models.WorkflowNode {
	nodes := make([]*models.WorkflowNode, 0, len(e.order))
	for _, id := range e.order {
		nodes = append(nodes, e.nodes[id])
	}

	return nodes
}

// Connections returns the current connection list.
func (e *Editor) Connections() []*models.Connection {
	return e.connections
}

// AddConnection appends an already-validated connection, typically one loaded
// from storage after a commit round-trip.
func (e *Editor) AddConnection(conn *models.Connection) {
	e.connections = append(e.connections, conn)
}

// SelectNode marks a node as selected, opening its side panel. An unknown ID
// clears the selection.
func (e *Editor) SelectNode(id string) {
	if _, ok := e.nodes[id]; !ok {
		e.selected = ""

		return
	}

	e.selected = id
}

// SelectedNode returns the selected node, or nil.
func (e *Editor) SelectedNode() *models.WorkflowNode {
	if e.selected == "" {
		return nil
	}

	return e.nodes[e.selected]
}

// Panel describes the side panel contents for the selected node.
type Panel struct {
	Name          string   `json:"name"`
	ActionOptions []string `json:"action_options,omitempty"`
}

// SelectedPanel returns the side panel for the current selection. Button
// nodes additionally expose the on-click action choices.
func (e *Editor) SelectedPanel() (Panel, bool) {
	node := e.SelectedNode()
	if node == nil {
		return Panel{}, false
	}

	panel := Panel{Name: node.Name}
	if node.Type == models.ComponentTypeButton {
		panel.ActionOptions = []string{"navigate", "submit", "openModal", "runWorkflow"}
	}

	return panel, true
}

// PortPosition computes the anchor point of a port on its node box. Inputs
// hang off the left edge, outputs off the right edge, stacked top to bottom.
// Returns false when the node or port does not exist.
func (e *Editor) PortPosition(nodeID, portName string, direction models.PortDirection) (geo.Point, bool) {
	node, ok := e.nodes[nodeID]
	if !ok {
		return geo.Point{}, false
	}

	switch direction {
	case models.PortDirectionInput:
		for i, p := range node.Inputs {
			if p.Name == portName {
				return geo.Point{
					X: node.PositionX,
					Y: node.PositionY + HeaderHeight + PortSpacing*(float64(i)+0.5),
				}, true
			}
		}
	case models.PortDirectionOutput:
		for i, p := range node.Outputs {
			if p.Name == portName {
				return geo.Point{
					X: node.PositionX + NodeWidth,
					Y: node.PositionY + HeaderHeight + PortSpacing*(float64(i)+0.5),
				}, true
			}
		}
	}

	return geo.Point{}, false
}
