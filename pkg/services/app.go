package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/google/uuid"
)

var (
	// ErrAppNotFound is returned when an app is not found.
	ErrAppNotFound = persistence.ErrAppNotFound
)

// App is the app management service.
type App struct {
	persistence persistence.Persistence
}

// NewApp creates a new app service.
func NewApp(persistence persistence.Persistence) *App {
	return &App{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *App) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListAppsRequest contains options for listing apps.
type ListAppsRequest struct {
	// Pagination
	Limit  int `validate:"min=0,max=100"`
	Offset int `validate:"min=0"`

	// Filtering
	OwnerID string
	Status  *models.AppStatus

	// Sorting
	SortBy    string
	SortOrder string

	// Data Loading Control
	IncludeComponents  bool
	IncludeConnections bool
}

// ListAppsResponse contains the result of listing apps.
type ListAppsResponse struct {
	Apps        []*models.App `json:"apps"`
	TotalCount  int64         `json:"total_count"`
	HasNextPage bool          `json:"has_next_page"`
}

// ListApps retrieves apps with filtering, sorting, and pagination. Defaults
// applied during validation are written back through req so callers can echo
// them.
func (s *App) ListApps(ctx context.Context, req *ListAppsRequest) (*ListAppsResponse, error) {
	if err := s.validateListAppsRequest(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	opts := persistence.ListAppsOptions{
		Limit:              req.Limit,
		Offset:             req.Offset,
		OwnerID:            req.OwnerID,
		Status:             req.Status,
		SortBy:             req.SortBy,
		SortOrder:          req.SortOrder,
		IncludeComponents:  req.IncludeComponents,
		IncludeConnections: req.IncludeConnections,
	}

	result, err := s.persistence.AppRepository().ListApps(ctx, opts)
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, ErrInvalidSortField
		}

		if persistence.IsInvalidPortFormat(err) {
			return nil, ErrInvalidConnectionData
		}

		return nil, fmt.Errorf("failed to list apps: %w", err)
	}

	return &ListAppsResponse{
		Apps:        result.Apps,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// validateListAppsRequest validates and sets defaults for the request.
func (s *App) validateListAppsRequest(req *ListAppsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "name"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListAppsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListAppsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Status != nil {
		allowedStatuses := []models.AppStatus{
			models.AppStatusDraft,
			models.AppStatusPublished,
			models.AppStatusUnpublished,
		}

		if !slices.Contains(allowedStatuses, *req.Status) {
			return NewValidationError(
				"validateListAppsRequest",
				"INVALID_STATUS",
				fmt.Sprintf("invalid status '%s'", *req.Status),
				ErrInvalidStatus,
			)
		}
	}

	if req.OwnerID != "" {
		req.OwnerID = strings.TrimSpace(req.OwnerID)
		if req.OwnerID == "" {
			return ErrEmptyOwnerID
		}
	}

	return nil
}

// FetchByID retrieves an app by its ID.
func (s *App) FetchByID(ctx context.Context, id string) (*models.App, error) {
	app, err := s.persistence.AppRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if app == nil {
		return nil, ErrAppNotFound
	}

	return app, nil
}

// Create adds a new draft app to the repository. New apps start their own
// version group.
func (s *App) Create(ctx context.Context, app *models.App) (*models.App, error) {
	now := time.Now().UTC()
	app.ID = uuid.New().String()
	app.CreatedAt = now
	app.UpdatedAt = now

	if app.Status == "" {
		app.Status = models.AppStatusDraft
	}

	if app.AppGroupID == "" {
		app.AppGroupID = uuid.New().String()
	}

	err := s.persistence.AppRepository().Save(ctx, app)
	if err != nil {
		if persistence.IsInvalidPortFormat(err) {
			return nil, ErrInvalidConnectionData
		}

		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	return app, nil
}

// Update modifies an existing app by its ID. Only drafts accept updates.
func (s *App) Update(ctx context.Context, appID string, app *models.App) (*models.App, error) {
	existing, err := s.persistence.AppRepository().GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, ErrAppNotFound
	}

	if !existing.IsDraft() {
		return nil, conflictForStatus(existing.Status)
	}

	app.ID = appID
	app.AppGroupID = existing.AppGroupID
	app.CreatedAt = existing.CreatedAt
	app.UpdatedAt = time.Now().UTC()

	err = s.persistence.AppRepository().Save(ctx, app)
	if err != nil {
		if persistence.IsInvalidPortFormat(err) {
			return nil, ErrInvalidConnectionData
		}

		return nil, fmt.Errorf("failed to update app: %w", err)
	}

	return app, nil
}

// Delete removes an app by its ID.
func (s *App) Delete(ctx context.Context, appID string) error {
	existing, err := s.persistence.AppRepository().GetByID(ctx, appID)
	if err != nil {
		return err
	}

	if existing == nil {
		return ErrAppNotFound
	}

	err = s.persistence.AppRepository().Delete(ctx, appID)
	if err != nil {
		return fmt.Errorf("failed to delete app: %w", err)
	}

	return nil
}

// requireDraft loads an app and rejects mutations on non-draft versions.
func requireDraft(ctx context.Context, p persistence.Persistence, appID string) (*models.App, error) {
	app, err := p.AppRepository().GetByID(ctx, appID)
	if err != nil {
		if persistence.IsAppNotFound(err) {
			return nil, persistence.ErrAppNotFound
		}

		return nil, fmt.Errorf("failed to get app: %w", err)
	}

	if app == nil {
		return nil, persistence.ErrAppNotFound
	}

	if !app.IsDraft() {
		return nil, conflictForStatus(app.Status)
	}

	return app, nil
}

func conflictForStatus(status models.AppStatus) error {
	if status == models.AppStatusPublished {
		return ErrCannotModifyPublished
	}

	return ErrCannotModifyUnpublished
}
