package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
)

// AppRepository handles app-related database operations.
type AppRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAppRepository creates a new app repository.
func NewAppRepository(db *sql.DB, logger *slog.Logger) *AppRepository {
	return &AppRepository{db: db, logger: logger}
}

const appColumns = `
		id
	  , name
	  , description
	  , status
	  , app_group_id
	  , metadata
	  , owner
	  , created_at
	  , updated_at
	  , published_at
	  , deleted_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AppRepository) scanAppBase(row rowScanner) (*models.App, error) {
	var (
		app         models.App
		metadata    []byte
		publishedAt sql.NullTime
		deletedAt   sql.NullTime
	)

	err := row.Scan(
		&app.ID,
		&app.Name,
		&app.Description,
		&app.Status,
		&app.AppGroupID,
		&metadata,
		&app.Owner,
		&app.CreatedAt,
		&app.UpdatedAt,
		&publishedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		err = json.Unmarshal(metadata, &app.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal app metadata: %w", err)
		}
	}

	if publishedAt.Valid {
		app.PublishedAt = &publishedAt.Time
	}

	if deletedAt.Valid {
		app.DeletedAt = &deletedAt.Time
	}

	return &app, nil
}

// GetAll returns all non-deleted apps from the database.
func (r *AppRepository) GetAll(ctx context.Context) ([]*models.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps WHERE deleted_at IS NULL ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	apps := make([]*models.App, 0)

	for rows.Next() {
		app, err := r.scanAppBase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}

		err = r.loadComponentsAndConnections(ctx, app)
		if err != nil {
			return nil, err
		}

		apps = append(apps, app)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating apps: %w", err)
	}

	return apps, nil
}

// GetByID returns an app by its ID, or nil when it does not exist.
func (r *AppRepository) GetByID(ctx context.Context, id string) (*models.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps WHERE id = $1 AND deleted_at IS NULL`

	app, err := r.scanAppBase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan app: %w", err)
	}

	err = r.loadComponentsAndConnections(ctx, app)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// GetPublishedByGroupID returns the published app of a version group.
func (r *AppRepository) GetPublishedByGroupID(ctx context.Context, groupID string) (*models.App, error) {
	return r.getByGroupAndStatus(ctx, groupID, models.AppStatusPublished, persistence.ErrPublishedAppNotFound)
}

// GetDraftByGroupID returns the draft app of a version group.
func (r *AppRepository) GetDraftByGroupID(ctx context.Context, groupID string) (*models.App, error) {
	return r.getByGroupAndStatus(ctx, groupID, models.AppStatusDraft, persistence.ErrDraftAppNotFound)
}

func (r *AppRepository) getByGroupAndStatus(ctx context.Context, groupID string, status models.AppStatus, notFound error) (*models.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps WHERE app_group_id = $1 AND status = $2 AND deleted_at IS NULL`

	app, err := r.scanAppBase(r.db.QueryRowContext(ctx, query, groupID, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewAppGroupError("getByGroupAndStatus", groupID, notFound)
		}

		return nil, fmt.Errorf("failed to scan app: %w", err)
	}

	err = r.loadComponentsAndConnections(ctx, app)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// ListApps returns paginated and filtered apps.
func (r *AppRepository) ListApps(ctx context.Context, opts persistence.ListAppsOptions) (*persistence.AppListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	// Sort input never reaches the SQL string unvalidated.
	allowedSorts := map[string]bool{"created_at": true, "updated_at": true, "name": true}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	order := "DESC"
	if opts.SortOrder == "asc" {
		order = "ASC"
	}

	where := "WHERE deleted_at IS NULL"
	args := []any{}

	if opts.OwnerID != "" {
		args = append(args, opts.OwnerID)
		where += fmt.Sprintf(" AND owner = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, *opts.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var totalCount int64

	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM apps "+where, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count apps: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM apps %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		appColumns, where, opts.SortBy, order, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	apps := make([]*models.App, 0, opts.Limit)

	for rows.Next() {
		app, err := r.scanAppBase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}

		if opts.IncludeComponents || opts.IncludeConnections {
			err = r.loadComponentsAndConnections(ctx, app)
			if err != nil {
				return nil, err
			}

			if !opts.IncludeComponents {
				app.Components = nil
			}

			if !opts.IncludeConnections {
				app.Connections = nil
			}
		}

		apps = append(apps, app)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating apps: %w", err)
	}

	return &persistence.AppListResult{
		Apps:        apps,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(apps)) < totalCount,
	}, nil
}

// Save upserts the app row and rewrites its components and connections in a
// single transaction.
func (r *AppRepository) Save(ctx context.Context, app *models.App) error {
	now := time.Now().UTC()

	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}

	app.UpdatedAt = now

	metadata, err := json.Marshal(app.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal app metadata: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO apps (id, name, description, status, app_group_id, metadata, owner, created_at, updated_at, published_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			metadata = EXCLUDED.metadata,
			owner = EXCLUDED.owner,
			updated_at = EXCLUDED.updated_at,
			published_at = EXCLUDED.published_at,
			deleted_at = EXCLUDED.deleted_at
	`,
		app.ID, app.Name, app.Description, app.Status, app.AppGroupID,
		metadata, app.Owner, app.CreatedAt, app.UpdatedAt, app.PublishedAt, app.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert app: %w", err)
	}

	err = replaceComponents(ctx, tx, app)
	if err != nil {
		return err
	}

	err = replaceConnections(ctx, tx, app)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit app save: %w", err)
	}

	return nil
}

func replaceComponents(ctx context.Context, tx *sql.Tx, app *models.App) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM app_components WHERE app_id = $1", app.ID)
	if err != nil {
		return fmt.Errorf("failed to clear app components: %w", err)
	}

	for i, component := range app.Components {
		props, err := json.Marshal(component.Props)
		if err != nil {
			return fmt.Errorf("failed to marshal component props: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO app_components (id, app_id, type, name, x, y, width, height, props, z_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			component.ID, app.ID, component.Type, component.Name,
			component.X, component.Y, component.Width, component.Height, props, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert component %s: %w", component.ID, err)
		}
	}

	return nil
}

func replaceConnections(ctx context.Context, tx *sql.Tx, app *models.App) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM app_connections WHERE app_id = $1", app.ID)
	if err != nil {
		return fmt.Errorf("failed to clear app connections: %w", err)
	}

	for _, conn := range app.Connections {
		if _, _, ok := models.ParsePortID(conn.SourcePort); !ok {
			return fmt.Errorf("%w: %q", persistence.ErrInvalidPortFormat, conn.SourcePort)
		}

		if _, _, ok := models.ParsePortID(conn.TargetPort); !ok {
			return fmt.Errorf("%w: %q", persistence.ErrInvalidPortFormat, conn.TargetPort)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO app_connections (id, app_id, source_port, target_port)
			VALUES ($1, $2, $3, $4)
		`,
			conn.ID, app.ID, conn.SourcePort, conn.TargetPort,
		)
		if err != nil {
			return fmt.Errorf("failed to insert connection %s: %w", conn.ID, err)
		}
	}

	return nil
}

// Delete soft deletes an app by setting deleted_at.
func (r *AppRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE apps SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete app: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	if affected == 0 {
		return persistence.NewAppError("Delete", id, persistence.ErrAppNotFound)
	}

	return nil
}

// loadComponentsAndConnections hydrates the app aggregate.
func (r *AppRepository) loadComponentsAndConnections(ctx context.Context, app *models.App) error {
	components, err := loadComponents(ctx, r.db, r.logger, app.ID)
	if err != nil {
		return err
	}

	connections, err := loadConnections(ctx, r.db, r.logger, app.ID)
	if err != nil {
		return err
	}

	app.Components = components
	app.Connections = connections

	return nil
}
