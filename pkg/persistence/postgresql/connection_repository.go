package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
)

// ConnectionRepository handles connection database operations.
type ConnectionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewConnectionRepository creates a new connection repository.
func NewConnectionRepository(db *sql.DB, logger *slog.Logger) *ConnectionRepository {
	return &ConnectionRepository{db: db, logger: logger}
}

// GetConnectionsByApp returns every connection of an app.
func (r *ConnectionRepository) GetConnectionsByApp(ctx context.Context, appID string) ([]*models.Connection, error) {
	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return nil, err
	}

	return loadConnections(ctx, r.db, r.logger, appID)
}

// GetConnectionByApp returns a single connection of an app.
func (r *ConnectionRepository) GetConnectionByApp(ctx context.Context, appID, connectionID string) (*models.Connection, error) {
	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return nil, err
	}

	var conn models.Connection

	err = r.db.QueryRowContext(ctx, `
		SELECT id, source_port, target_port
		FROM app_connections
		WHERE app_id = $1 AND id = $2
	`, appID, connectionID).Scan(&conn.ID, &conn.SourcePort, &conn.TargetPort)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s in app %s", persistence.ErrConnectionNotFound, connectionID, appID)
		}

		return nil, fmt.Errorf("failed to scan connection: %w", err)
	}

	return &conn, nil
}

// SaveConnection upserts a connection after validating its port references.
func (r *ConnectionRepository) SaveConnection(ctx context.Context, appID string, connection *models.Connection) error {
	if _, _, ok := models.ParsePortID(connection.SourcePort); !ok {
		return fmt.Errorf("%w: %q", persistence.ErrInvalidPortFormat, connection.SourcePort)
	}

	if _, _, ok := models.ParsePortID(connection.TargetPort); !ok {
		return fmt.Errorf("%w: %q", persistence.ErrInvalidPortFormat, connection.TargetPort)
	}

	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO app_connections (id, app_id, source_port, target_port)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			source_port = EXCLUDED.source_port,
			target_port = EXCLUDED.target_port
	`,
		connection.ID, appID, connection.SourcePort, connection.TargetPort,
	)
	if err != nil {
		return fmt.Errorf("failed to save connection %s: %w", connection.ID, err)
	}

	return touchApp(ctx, r.db, appID)
}

// DeleteConnection removes a single connection.
func (r *ConnectionRepository) DeleteConnection(ctx context.Context, appID, connectionID string) error {
	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM app_connections WHERE app_id = $1 AND id = $2", appID, connectionID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s in app %s", persistence.ErrConnectionNotFound, connectionID, appID)
	}

	return touchApp(ctx, r.db, appID)
}
