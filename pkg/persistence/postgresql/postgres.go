// Package postgresql provides PostgreSQL persistence for apps, components
// and connections.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver

	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/agp-labs/builder/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db             *sql.DB
	logger         *slog.Logger
	appRepo        *AppRepository
	componentRepo  *ComponentRepository
	connectionRepo *ConnectionRepository
}

// NewPersistence creates a new PostgreSQL persistence layer and runs pending
// migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	appRepo := NewAppRepository(database, logger)

	return &Persistence{
		db:             database,
		logger:         logger,
		appRepo:        appRepo,
		componentRepo:  NewComponentRepository(database, logger),
		connectionRepo: NewConnectionRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// AppRepository returns the app repository.
func (p *Persistence) AppRepository() persistence.AppRepository {
	return p.appRepo
}

// ComponentRepository returns the component repository.
func (p *Persistence) ComponentRepository() persistence.ComponentRepository {
	return p.componentRepo
}

// ConnectionRepository returns the connection repository.
func (p *Persistence) ConnectionRepository() persistence.ConnectionRepository {
	return p.connectionRepo
}
