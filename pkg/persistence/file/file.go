// Package file provides file-based persistence for apps. Each app is stored
// as a single JSON document; component and connection repositories operate
// through the app documents. Intended for development and tests.
package file

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root    string
	appRepo *AppRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:    cleanRoot,
		appRepo: NewAppRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// AppRepository returns the app repository implementation for file persistence.
func (fp *Persistence) AppRepository() persistence.AppRepository {
	return fp.appRepo
}

// ComponentRepository returns a component repository reading through app documents.
func (fp *Persistence) ComponentRepository() persistence.ComponentRepository {
	return &componentRepository{persistence: fp}
}

// ConnectionRepository returns a connection repository reading through app documents.
func (fp *Persistence) ConnectionRepository() persistence.ConnectionRepository {
	return &connectionRepository{persistence: fp}
}

type componentRepository struct {
	persistence *Persistence
}

func (cr *componentRepository) GetComponentsByApp(ctx context.Context, appID string) ([]*models.PlacedComponent, error) {
	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return nil, err
	}

	return app.Components, nil
}

func (cr *componentRepository) GetComponentByApp(ctx context.Context, appID, componentID string) (*models.PlacedComponent, error) {
	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return nil, err
	}

	if component, ok := app.ComponentByID(componentID); ok {
		return component, nil
	}

	return nil, fmt.Errorf("%w: %s in app %s", persistence.ErrComponentNotFound, componentID, appID)
}

func (cr *componentRepository) SaveComponent(ctx context.Context, appID string, component *models.PlacedComponent) error {
	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return err
	}

	for i, existing := range app.Components {
		if existing.ID == component.ID {
			app.Components[i] = component

			return cr.persistence.appRepo.Save(ctx, app)
		}
	}

	app.Components = append(app.Components, component)

	return cr.persistence.appRepo.Save(ctx, app)
}

func (cr *componentRepository) DeleteComponentWithConnections(ctx context.Context, appID, componentID string) error {
	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return err
	}

	found := false

	for i, component := range app.Components {
		if component.ID == componentID {
			app.Components = append(app.Components[:i], app.Components[i+1:]...)
			found = true

			break
		}
	}

	if !found {
		return fmt.Errorf("%w: %s in app %s", persistence.ErrComponentNotFound, componentID, appID)
	}

	// Cascade: drop every connection touching the component.
	kept := app.Connections[:0]

	for _, conn := range app.Connections {
		source, _ := conn.SourceNode()
		target, _ := conn.TargetNode()

		if source != componentID && target != componentID {
			kept = append(kept, conn)
		}
	}

	app.Connections = kept

	return cr.persistence.appRepo.Save(ctx, app)
}

type connectionRepository struct {
	persistence *Persistence
}

func (cr *connectionRepository) GetConnectionsByApp(ctx context.Context, appID string) ([]*models.Connection, error) {
	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return nil, err
	}

	return app.Connections, nil
}

func (cr *connectionRepository) GetConnectionByApp(ctx context.Context, appID, connectionID string) (*models.Connection, error) {
	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return nil, err
	}

	if connection, ok := app.ConnectionByID(connectionID); ok {
		return connection, nil
	}

	return nil, fmt.Errorf("%w: %s in app %s", persistence.ErrConnectionNotFound, connectionID, appID)
}

func (cr *connectionRepository) SaveConnection(ctx context.Context, appID string, connection *models.Connection) error {
	if _, _, ok := models.ParsePortID(connection.SourcePort); !ok {
		return fmt.Errorf("%w: %q", persistence.ErrInvalidPortFormat, connection.SourcePort)
	}

	if _, _, ok := models.ParsePortID(connection.TargetPort); !ok {
		return fmt.Errorf("%w: %q", persistence.ErrInvalidPortFormat, connection.TargetPort)
	}

	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return err
	}

	for i, existing := range app.Connections {
		if existing.ID == connection.ID {
			app.Connections[i] = connection

			return cr.persistence.appRepo.Save(ctx, app)
		}
	}

	app.Connections = append(app.Connections, connection)

	return cr.persistence.appRepo.Save(ctx, app)
}

func (cr *connectionRepository) DeleteConnection(ctx context.Context, appID, connectionID string) error {
	app, err := cr.persistence.appRepo.requireApp(ctx, appID)
	if err != nil {
		return err
	}

	for i, conn := range app.Connections {
		if conn.ID == connectionID {
			app.Connections = append(app.Connections[:i], app.Connections[i+1:]...)

			return cr.persistence.appRepo.Save(ctx, app)
		}
	}

	return fmt.Errorf("%w: %s in app %s", persistence.ErrConnectionNotFound, connectionID, appID)
}
