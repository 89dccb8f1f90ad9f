package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
)

// ComponentRepository handles placed-component database operations.
type ComponentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewComponentRepository creates a new component repository.
func NewComponentRepository(db *sql.DB, logger *slog.Logger) *ComponentRepository {
	return &ComponentRepository{db: db, logger: logger}
}

type dbQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadComponents(ctx context.Context, q dbQuerier, logger *slog.Logger, appID string) ([]*models.PlacedComponent, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, type, name, x, y, width, height, props
		FROM app_components
		WHERE app_id = $1
		ORDER BY z_order
	`, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	components := make([]*models.PlacedComponent, 0)

	for rows.Next() {
		var (
			component models.PlacedComponent
			props     []byte
		)

		err = rows.Scan(
			&component.ID, &component.Type, &component.Name,
			&component.X, &component.Y, &component.Width, &component.Height, &props,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}

		if len(props) > 0 {
			err = json.Unmarshal(props, &component.Props)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal component props: %w", err)
			}
		}

		components = append(components, &component)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating components: %w", err)
	}

	return components, nil
}

func loadConnections(ctx context.Context, q dbQuerier, logger *slog.Logger, appID string) ([]*models.Connection, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, source_port, target_port
		FROM app_connections
		WHERE app_id = $1
		ORDER BY id
	`, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	connections := make([]*models.Connection, 0)

	for rows.Next() {
		var conn models.Connection

		err = rows.Scan(&conn.ID, &conn.SourcePort, &conn.TargetPort)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}

		connections = append(connections, &conn)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}

	return connections, nil
}

// GetComponentsByApp returns every component of an app in z-order.
func (r *ComponentRepository) GetComponentsByApp(ctx context.Context, appID string) ([]*models.PlacedComponent, error) {
	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return nil, err
	}

	return loadComponents(ctx, r.db, r.logger, appID)
}

// GetComponentByApp returns a single component of an app.
func (r *ComponentRepository) GetComponentByApp(ctx context.Context, appID, componentID string) (*models.PlacedComponent, error) {
	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return nil, err
	}

	var (
		component models.PlacedComponent
		props     []byte
	)

	err = r.db.QueryRowContext(ctx, `
		SELECT id, type, name, x, y, width, height, props
		FROM app_components
		WHERE app_id = $1 AND id = $2
	`, appID, componentID).Scan(
		&component.ID, &component.Type, &component.Name,
		&component.X, &component.Y, &component.Width, &component.Height, &props,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s in app %s", persistence.ErrComponentNotFound, componentID, appID)
		}

		return nil, fmt.Errorf("failed to scan component: %w", err)
	}

	if len(props) > 0 {
		err = json.Unmarshal(props, &component.Props)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal component props: %w", err)
		}
	}

	return &component, nil
}

// SaveComponent upserts a component. New components append to the z-order.
func (r *ComponentRepository) SaveComponent(ctx context.Context, appID string, component *models.PlacedComponent) error {
	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return err
	}

	props, err := json.Marshal(component.Props)
	if err != nil {
		return fmt.Errorf("failed to marshal component props: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO app_components (id, app_id, type, name, x, y, width, height, props, z_order)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			(SELECT COALESCE(MAX(z_order) + 1, 0) FROM app_components WHERE app_id = $2)
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			x = EXCLUDED.x,
			y = EXCLUDED.y,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			props = EXCLUDED.props
	`,
		component.ID, appID, component.Type, component.Name,
		component.X, component.Y, component.Width, component.Height, props,
	)
	if err != nil {
		return fmt.Errorf("failed to save component %s: %w", component.ID, err)
	}

	return touchApp(ctx, r.db, appID)
}

// DeleteComponentWithConnections removes a component and every connection
// touching it in one transaction.
func (r *ComponentRepository) DeleteComponentWithConnections(ctx context.Context, appID, componentID string) error {
	err := requireApp(ctx, r.db, appID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM app_components WHERE app_id = $1 AND id = $2", appID, componentID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s in app %s", persistence.ErrComponentNotFound, componentID, appID)
	}

	// Port IDs embed the node ID as "{node_id}:{port_name}".
	prefix := componentID + ":%"

	_, err = tx.ExecContext(ctx, `
		DELETE FROM app_connections
		WHERE app_id = $1 AND (source_port LIKE $2 OR target_port LIKE $2)
	`, appID, prefix)
	if err != nil {
		return fmt.Errorf("failed to delete component connections: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE apps SET updated_at = NOW() WHERE id = $1", appID)
	if err != nil {
		return fmt.Errorf("failed to touch app: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit component delete: %w", err)
	}

	return nil
}

func requireApp(ctx context.Context, db *sql.DB, appID string) error {
	var exists bool

	err := db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM apps WHERE id = $1 AND deleted_at IS NULL)", appID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check app existence: %w", err)
	}

	if !exists {
		return persistence.NewAppError("requireApp", appID, persistence.ErrAppNotFound)
	}

	return nil
}

func touchApp(ctx context.Context, db *sql.DB, appID string) error {
	_, err := db.ExecContext(ctx, "UPDATE apps SET updated_at = NOW() WHERE id = $1", appID)
	if err != nil {
		return fmt.Errorf("failed to touch app: %w", err)
	}

	return nil
}
