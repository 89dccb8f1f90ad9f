// Package persistence provides the data storage abstraction for apps,
// placed components and workflow connections.
package persistence

import (
	"context"

	"github.com/agp-labs/builder/pkg/models"
)

// Persistence is the storage entry point handed to services.
type Persistence interface {
	AppRepository() AppRepository
	ComponentRepository() ComponentRepository
	ConnectionRepository() ConnectionRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ListAppsOptions controls filtering, sorting and pagination of app listings.
type ListAppsOptions struct {
	Limit  int
	Offset int

	OwnerID string
	Status  *models.AppStatus

	SortBy    string // created_at, updated_at, name
	SortOrder string // asc, desc

	IncludeComponents  bool
	IncludeConnections bool
}

// AppListResult is the outcome of a paginated app listing.
type AppListResult struct {
	Apps        []*models.App
	TotalCount  int64
	HasNextPage bool
}

// AppRepository stores app aggregates.
type AppRepository interface {
	ListApps(ctx context.Context, opts ListAppsOptions) (*AppListResult, error)
	GetAll(ctx context.Context) ([]*models.App, error)
	GetByID(ctx context.Context, id string) (*models.App, error)
	GetPublishedByGroupID(ctx context.Context, groupID string) (*models.App, error)
	GetDraftByGroupID(ctx context.Context, groupID string) (*models.App, error)
	Save(ctx context.Context, app *models.App) error
	Delete(ctx context.Context, id string) error
}

// ComponentRepository stores placed components within an app.
type ComponentRepository interface {
	GetComponentsByApp(ctx context.Context, appID string) ([]*models.PlacedComponent, error)
	GetComponentByApp(ctx context.Context, appID, componentID string) (*models.PlacedComponent, error)
	SaveComponent(ctx context.Context, appID string, component *models.PlacedComponent) error
	// DeleteComponentWithConnections removes the component and every
	// connection touching it in one operation.
	DeleteComponentWithConnections(ctx context.Context, appID, componentID string) error
}

// ConnectionRepository stores workflow connections within an app.
type ConnectionRepository interface {
	GetConnectionsByApp(ctx context.Context, appID string) ([]*models.Connection, error)
	GetConnectionByApp(ctx context.Context, appID, connectionID string) (*models.Connection, error)
	SaveConnection(ctx context.Context, appID string, connection *models.Connection) error
	DeleteConnection(ctx context.Context, appID, connectionID string) error
}
