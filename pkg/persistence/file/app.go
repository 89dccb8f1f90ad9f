package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
)

// AppRepository handles app-related file operations.
type AppRepository struct {
	root string
}

// NewAppRepository creates a new app repository.
func NewAppRepository(root string) *AppRepository {
	return &AppRepository{root: root}
}

func (ar *AppRepository) appsDir() string {
	return path.Join(ar.root, "apps")
}

// ListApps returns paginated and filtered apps with in-memory operations.
func (ar *AppRepository) ListApps(ctx context.Context, opts persistence.ListAppsOptions) (*persistence.AppListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	allApps, err := ar.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.App, 0, len(allApps))

	for _, app := range allApps {
		if opts.OwnerID != "" && app.Owner != opts.OwnerID {
			continue
		}

		if opts.Status != nil && app.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, app)
	}

	sortApps(filtered, opts.SortBy, opts.SortOrder)

	totalCount := int64(len(filtered))
	startIdx := opts.Offset
	endIdx := opts.Offset + opts.Limit

	if startIdx >= len(filtered) {
		return &persistence.AppListResult{
			Apps:        make([]*models.App, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	endIdx = min(endIdx, len(filtered))

	page := filtered[startIdx:endIdx]
	if !opts.IncludeComponents || !opts.IncludeConnections {
		page = stripDetails(page, opts.IncludeComponents, opts.IncludeConnections)
	}

	return &persistence.AppListResult{
		Apps:        page,
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}, nil
}

// GetAll loads every non-deleted app from the filesystem.
func (ar *AppRepository) GetAll(ctx context.Context) ([]*models.App, error) {
	root := os.DirFS(ar.appsDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list app files: %w", err)
	}

	apps := make([]*models.App, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		appID := strings.TrimSuffix(name, ".json")

		app, err := ar.GetByID(ctx, appID)
		if err != nil {
			if persistence.IsAppNotFound(err) {
				continue
			}

			return nil, fmt.Errorf("failed to load app %s: %w", appID, err)
		}

		apps = append(apps, app)
	}

	return apps, nil
}

// GetByID loads a single app document. Soft-deleted apps read as not found.
func (ar *AppRepository) GetByID(_ context.Context, id string) (*models.App, error) {
	body, err := os.ReadFile(path.Join(ar.appsDir(), id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewAppError("GetByID", id, persistence.ErrAppNotFound)
		}

		return nil, persistence.NewAppError("GetByID", id, err)
	}

	var app models.App

	err = json.Unmarshal(body, &app)
	if err != nil {
		return nil, persistence.NewAppError("GetByID", id, err)
	}

	if app.DeletedAt != nil {
		return nil, persistence.NewAppError("GetByID", id, persistence.ErrAppNotFound)
	}

	return &app, nil
}

// GetPublishedByGroupID returns the published app for a version group.
func (ar *AppRepository) GetPublishedByGroupID(ctx context.Context, groupID string) (*models.App, error) {
	return ar.getByGroupAndStatus(ctx, groupID, models.AppStatusPublished, persistence.ErrPublishedAppNotFound)
}

// GetDraftByGroupID returns the draft app for a version group.
func (ar *AppRepository) GetDraftByGroupID(ctx context.Context, groupID string) (*models.App, error) {
	return ar.getByGroupAndStatus(ctx, groupID, models.AppStatusDraft, persistence.ErrDraftAppNotFound)
}

func (ar *AppRepository) getByGroupAndStatus(ctx context.Context, groupID string, status models.AppStatus, notFound error) (*models.App, error) {
	apps, err := ar.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, app := range apps {
		if app.AppGroupID == groupID && app.Status == status {
			return app, nil
		}
	}

	return nil, persistence.NewAppGroupError("getByGroupAndStatus", groupID, notFound)
}

// Save writes the app document atomically (write to temp file, then rename).
func (ar *AppRepository) Save(_ context.Context, app *models.App) error {
	err := os.MkdirAll(ar.appsDir(), 0o755)
	if err != nil {
		return persistence.NewAppError("Save", app.ID, err)
	}

	body, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return persistence.NewAppError("Save", app.ID, err)
	}

	target := path.Join(ar.appsDir(), app.ID+".json")
	tmp := target + ".tmp"

	err = os.WriteFile(tmp, body, 0o644)
	if err != nil {
		return persistence.NewAppError("Save", app.ID, err)
	}

	err = os.Rename(tmp, target)
	if err != nil {
		return persistence.NewAppError("Save", app.ID, err)
	}

	return nil
}

// Delete soft deletes an app by setting its deleted_at timestamp.
func (ar *AppRepository) Delete(ctx context.Context, id string) error {
	app, err := ar.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	app.DeletedAt = &now

	return ar.Save(ctx, app)
}

// requireApp loads an app or fails with app-not-found.
func (ar *AppRepository) requireApp(ctx context.Context, id string) (*models.App, error) {
	app, err := ar.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if app == nil {
		return nil, persistence.NewAppError("requireApp", id, persistence.ErrAppNotFound)
	}

	return app, nil
}

func sortApps(apps []*models.App, sortBy, sortOrder string) {
	sort.SliceStable(apps, func(i, j int) bool {
		var less bool

		switch sortBy {
		case "name":
			less = apps[i].Name < apps[j].Name
		case "updated_at":
			less = apps[i].UpdatedAt.Before(apps[j].UpdatedAt)
		default: // created_at
			less = apps[i].CreatedAt.Before(apps[j].CreatedAt)
		}

		if sortOrder == "desc" {
			return !less
		}

		return less
	})
}

// stripDetails shallow-copies the page so list responses can omit heavy
// fields without mutating cached documents.
func stripDetails(apps []*models.App, includeComponents, includeConnections bool) []*models.App {
	stripped := make([]*models.App, 0, len(apps))

	for _, app := range apps {
		clone := *app

		if !includeComponents {
			clone.Components = nil
		}

		if !includeConnections {
			clone.Connections = nil
		}

		stripped = append(stripped, &clone)
	}

	return stripped
}
