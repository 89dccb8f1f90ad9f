package graph

import (
	"github.com/agp-labs/builder/pkg/geo"
	"github.com/agp-labs/builder/pkg/models"
	"github.com/google/uuid"
)

// ControlOffset is the horizontal offset of the bezier control points from
// the edge endpoints. A fixed S-curve, not a collision-avoiding router.
const ControlOffset = 50.0

// HandleRadius is the click radius of the midpoint deletion handle.
const HandleRadius = 8.0

// PendingConnection is the armed state of an in-progress connection gesture.
type PendingConnection struct {
	SourceNode string    `json:"source_node"`
	SourcePort string    `json:"source_port"`
	Cursor     geo.Point `json:"cursor"`
}

// Pending returns the armed connection gesture, or nil.
func (e *Editor) Pending() *PendingConnection {
	return e.pending
}

// ArmConnection starts a connection gesture from an output port. Arming from
// a node or port that does not exist is a no-op.
func (e *Editor) ArmConnection(nodeID, portName string) bool {
	start, ok := e.PortPosition(nodeID, portName, models.PortDirectionOutput)
	if !ok {
		return false
	}

	e.pending = &PendingConnection{
		SourceNode: nodeID,
		SourcePort: portName,
		Cursor:     start,
	}

	return true
}

// TrackPointer moves the endpoint of the temporary line while armed.
func (e *Editor) TrackPointer(cursor geo.Point) {
	if e.pending == nil {
		return
	}

	e.pending.Cursor = cursor
}

// TempLine returns the endpoints of the dashed preview line, drawn from the
// armed output port to the tracked cursor.
func (e *Editor) TempLine() (geo.Point, geo.Point, bool) {
	if e.pending == nil {
		return geo.Point{}, geo.Point{}, false
	}

	start, ok := e.PortPosition(e.pending.SourceNode, e.pending.SourcePort, models.PortDirectionOutput)
	if !ok {
		return geo.Point{}, geo.Point{}, false
	}

	return start, e.pending.Cursor, true
}

// CommitConnection completes the gesture on an input port. The commit is
// rejected when nothing is armed, the target does not exist, or source and
// target are the same node. A rejected commit leaves the gesture armed only
// when the release never happened; callers release via CancelConnection.
func (e *Editor) CommitConnection(targetNode, targetPort string) (*models.Connection, bool) {
	if e.pending == nil {
		return nil, false
	}

	if _, ok := e.PortPosition(targetNode, targetPort, models.PortDirectionInput); !ok {
		e.pending = nil

		return nil, false
	}

	if targetNode == e.pending.SourceNode {
		e.pending = nil

		return nil, false
	}

	conn := &models.Connection{
		ID:         uuid.New().String(),
		SourcePort: models.MakePortID(e.pending.SourceNode, e.pending.SourcePort),
		TargetPort: models.MakePortID(targetNode, targetPort),
	}

	e.connections = append(e.connections, conn)
	e.pending = nil

	return conn, true
}

// CancelConnection releases the gesture without creating an edge. Pointer-up
// anywhere outside an input port lands here.
func (e *Editor) CancelConnection() {
	e.pending = nil
}

// DeleteConnection removes exactly the connection with the given ID.
func (e *Editor) DeleteConnection(id string) bool {
	for i, conn := range e.connections {
		if conn.ID == id {
			e.connections = append(e.connections[:i], e.connections[i+1:]...)

			return true
		}
	}

	return false
}

// ClickHandle deletes the connection whose midpoint handle contains the
// point, if any. Returns the deleted connection's ID.
func (e *Editor) ClickHandle(p geo.Point) (string, bool) {
	for _, conn := range e.connections {
		path, ok := e.ConnectionPath(conn)
		if !ok {
			continue
		}

		if path.Midpoint.DistanceTo(p) <= HandleRadius {
			id := conn.ID
			e.DeleteConnection(id)

			return id, true
		}
	}

	return "", false
}

// Path is the renderable geometry of one committed connection.
type Path struct {
	Curve    geo.CubicBezier `json:"curve"`
	Midpoint geo.Point       `json:"midpoint"` // deletion handle position
}

// ConnectionPath computes the edge geometry for a connection. Connections
// referencing missing nodes or ports yield no path and are simply skipped.
func (e *Editor) ConnectionPath(conn *models.Connection) (Path, bool) {
	sourceNode, sourcePort, ok := models.ParsePortID(conn.SourcePort)
	if !ok {
		return Path{}, false
	}

	targetNode, targetPort, ok := models.ParsePortID(conn.TargetPort)
	if !ok {
		return Path{}, false
	}

	start, ok := e.PortPosition(sourceNode, sourcePort, models.PortDirectionOutput)
	if !ok {
		return Path{}, false
	}

	end, ok := e.PortPosition(targetNode, targetPort, models.PortDirectionInput)
	if !ok {
		return Path{}, false
	}

	return Path{
		Curve: geo.CubicBezier{
			Start:    start,
			Control1: geo.Point{X: start.X + ControlOffset, Y: start.Y},
			Control2: geo.Point{X: end.X - ControlOffset, Y: end.Y},
			End:      end,
		},
		Midpoint: geo.Midpoint(start, end),
	}, true
}

// Paths returns geometry for every renderable connection, skipping stale ones.
func (e *Editor) Paths() map[string]Path {
	paths := make(map[string]Path, len(e.connections))

	for _, conn := range e.connections {
		if path, ok := e.ConnectionPath(conn); ok {
			paths[conn.ID] = path
		}
	}

	return paths
}

// PruneStale drops connections whose endpoints no longer resolve, returning
// the removed connections. Rendering already skips them; pruning keeps the
// stored graph tidy after component deletions.
func (e *Editor) PruneStale() []*models.Connection {
	var removed []*models.Connection

	kept := e.connections[:0]

	for _, conn := range e.connections {
		if _, ok := e.ConnectionPath(conn); ok {
			kept = append(kept, conn)
		} else {
			removed = append(removed, conn)
		}
	}

	e.connections = kept

	return removed
}
