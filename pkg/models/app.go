// Package models defines the app aggregate owning canvas components and connections.
package models

import "time"

// AppStatus represents the lifecycle state of an app.
type AppStatus string

const (
	AppStatusDraft       AppStatus = "draft"       // Editable, not served
	AppStatusPublished   AppStatus = "published"   // Current active version
	AppStatusUnpublished AppStatus = "unpublished" // Historical, not served
)

// App represents an application being assembled in the builder. It owns the
// placed components of the canvas and the workflow connections wired between
// them, with simplified versioning support.
type App struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"        validate:"required,min=3"`
	Description string             `json:"description" validate:"required"`
	Status      AppStatus          `json:"status"      validate:"required"`
	AppGroupID  string             `json:"app_group_id"` // Stable ID linking all versions
	Components  []*PlacedComponent `json:"components"`
	Connections []*Connection      `json:"connections"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
	Owner       string             `json:"owner"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
	DeletedAt   *time.Time         `json:"deleted_at,omitempty"`
}

// ComponentByID finds a placed component by its ID.
func (a *App) ComponentByID(id string) (*PlacedComponent, bool) {
	for _, c := range a.Components {
		if c.ID == id {
			return c, true
		}
	}

	return nil, false
}

// ConnectionByID finds a connection by its ID.
func (a *App) ConnectionByID(id string) (*Connection, bool) {
	for _, c := range a.Connections {
		if c.ID == id {
			return c, true
		}
	}

	return nil, false
}

// IsDraft reports whether the app accepts mutations.
func (a *App) IsDraft() bool {
	return a.Status == AppStatusDraft
}

// ConnectionsForComponent returns every connection touching the given component,
// on either end. Used for cascading deletes.
func (a *App) ConnectionsForComponent(componentID string) []*Connection {
	var touching []*Connection

	for _, conn := range a.Connections {
		source, _ := conn.SourceNode()
		target, _ := conn.TargetNode()

		if source == componentID || target == componentID {
			touching = append(touching, conn)
		}
	}

	return touching
}
