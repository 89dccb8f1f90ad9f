// Package models defines workflow graph models derived from placed components.
package models

// WorkflowNode is the workflow-view projection of a placed component. It shares
// the component's ID and carries the ports synthesized for the component type.
// Nodes are recomputed from the canvas, never stored on their own.
type WorkflowNode struct {
	ID        string        `json:"id"`
	Type      ComponentType `json:"type"`
	Name      string        `json:"name"`
	Inputs    []InputPort   `json:"inputs"`
	Outputs   []OutputPort  `json:"outputs"`
	PositionX float64       `json:"position_x"`
	PositionY float64       `json:"position_y"`
}

// InputPortByName finds an input port by its short name.
func (n *WorkflowNode) InputPortByName(name string) (InputPort, bool) {
	for _, p := range n.Inputs {
		if p.Name == name {
			return p, true
		}
	}

	return InputPort{}, false
}

// OutputPortByName finds an output port by its short name.
func (n *WorkflowNode) OutputPortByName(name string) (OutputPort, bool) {
	for _, p := range n.Outputs {
		if p.Name == name {
			return p, true
		}
	}

	return OutputPort{}, false
}

// Connection connects an output port to an input port on another node
// (fully normalized, both sides reference Port.ID: "{node_id}:{port_name}").
type Connection struct {
	ID         string `json:"id"`
	SourcePort string `json:"source_port" validate:"required"`
	TargetPort string `json:"target_port" validate:"required"`
}

// SourceNode returns the node ID half of the source port reference.
func (c *Connection) SourceNode() (string, bool) {
	nodeID, _, ok := ParsePortID(c.SourcePort)

	return nodeID, ok
}

// TargetNode returns the node ID half of the target port reference.
func (c *Connection) TargetNode() (string, bool) {
	nodeID, _, ok := ParsePortID(c.TargetPort)

	return nodeID, ok
}

// IsSelfLoop reports whether both endpoints resolve to the same node. Self-loops
// are never allowed to exist.
func (c *Connection) IsSelfLoop() bool {
	source, okSource := c.SourceNode()
	target, okTarget := c.TargetNode()

	return okSource && okTarget && source == target
}
