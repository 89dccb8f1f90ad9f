// Package services provides app publishing functionality with simplified versioning.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/google/uuid"
)

// Publishing handles app publishing operations with simplified versioning.
// Within an app group at most one version is published at a time; publishing
// a draft demotes the previously published version to unpublished.
type Publishing struct {
	persistence persistence.Persistence
}

// NewPublishing creates a new app publishing service.
func NewPublishing(persistence persistence.Persistence) *Publishing {
	return &Publishing{
		persistence: persistence,
	}
}

// PublishApp changes a draft app's status to published and manages version history.
func (p *Publishing) PublishApp(ctx context.Context, appID string) (*models.App, error) {
	app, err := p.persistence.AppRepository().GetByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get app: %w", err)
	}

	if app == nil {
		return nil, persistence.ErrAppNotFound
	}

	if !app.IsDraft() {
		return nil, conflictForStatus(app.Status)
	}

	if err := p.validateForPublishing(app); err != nil {
		return nil, fmt.Errorf("app validation failed: %w", err)
	}

	// Demote the currently published version of the group, if any.
	published, err := p.persistence.AppRepository().GetPublishedByGroupID(ctx, app.AppGroupID)
	if err != nil && !persistence.IsPublishedAppNotFound(err) {
		return nil, fmt.Errorf("failed to get published app: %w", err)
	}

	now := time.Now().UTC()

	if published != nil && published.ID != app.ID {
		published.Status = models.AppStatusUnpublished
		published.UpdatedAt = now

		if err := p.persistence.AppRepository().Save(ctx, published); err != nil {
			return nil, fmt.Errorf("failed to unpublish previous version: %w", err)
		}
	}

	app.Status = models.AppStatusPublished
	app.PublishedAt = &now
	app.UpdatedAt = now

	if err := p.persistence.AppRepository().Save(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to publish app: %w", err)
	}

	return app, nil
}

// GetPublishedApp returns the published version of an app group.
func (p *Publishing) GetPublishedApp(ctx context.Context, appGroupID string) (*models.App, error) {
	return p.persistence.AppRepository().GetPublishedByGroupID(ctx, appGroupID)
}

// GetDraftApp returns the draft version of an app group.
func (p *Publishing) GetDraftApp(ctx context.Context, appGroupID string) (*models.App, error) {
	return p.persistence.AppRepository().GetDraftByGroupID(ctx, appGroupID)
}

// GetCurrentApp returns the current version of an app group: the published
// version if one exists, otherwise the draft.
func (p *Publishing) GetCurrentApp(ctx context.Context, appGroupID string) (*models.App, error) {
	published, err := p.persistence.AppRepository().GetPublishedByGroupID(ctx, appGroupID)
	if err == nil && published != nil {
		return published, nil
	}

	if err != nil && !persistence.IsPublishedAppNotFound(err) {
		return nil, err
	}

	return p.persistence.AppRepository().GetDraftByGroupID(ctx, appGroupID)
}

// CreateDraftFromPublished creates a draft copy from the published version of
// an app group. The copy keeps the group ID and deep-copies components and
// connections so edits never leak into the published version.
func (p *Publishing) CreateDraftFromPublished(ctx context.Context, appGroupID string) (*models.App, error) {
	existing, err := p.persistence.AppRepository().GetDraftByGroupID(ctx, appGroupID)
	if err != nil && !persistence.IsDraftAppNotFound(err) {
		return nil, fmt.Errorf("failed to check for existing draft: %w", err)
	}

	if existing != nil {
		return existing, nil
	}

	published, err := p.persistence.AppRepository().GetPublishedByGroupID(ctx, appGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get published app: %w", err)
	}

	if published == nil {
		return nil, persistence.ErrPublishedAppNotFound
	}

	now := time.Now().UTC()
	draft := &models.App{
		ID:          uuid.New().String(),
		Name:        published.Name,
		Description: published.Description,
		Status:      models.AppStatusDraft,
		AppGroupID:  published.AppGroupID,
		Components:  make([]*models.PlacedComponent, 0, len(published.Components)),
		Connections: make([]*models.Connection, 0, len(published.Connections)),
		Owner:       published.Owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, component := range published.Components {
		draft.Components = append(draft.Components, component.Clone())
	}

	for _, connection := range published.Connections {
		cloned := *connection
		draft.Connections = append(draft.Connections, &cloned)
	}

	if published.Metadata != nil {
		draft.Metadata = make(map[string]any, len(published.Metadata))
		for k, v := range published.Metadata {
			draft.Metadata[k] = v
		}
	}

	if err := p.persistence.AppRepository().Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return draft, nil
}

// validateForPublishing ensures an app is ready to be published.
func (p *Publishing) validateForPublishing(app *models.App) error {
	if app == nil {
		return ErrAppNil
	}

	if app.Name == "" {
		return ErrAppNameRequired
	}

	if len(app.Components) == 0 {
		return ErrComponentsRequired
	}

	for _, connection := range app.Connections {
		sourceNode, _, okSource := models.ParsePortID(connection.SourcePort)
		targetNode, _, okTarget := models.ParsePortID(connection.TargetPort)

		if !okSource || !okTarget {
			return fmt.Errorf("connection %s: %w", connection.ID, ErrInvalidConnectionData)
		}

		if _, ok := app.ComponentByID(sourceNode); !ok {
			return fmt.Errorf("connection %s references missing component %s: %w",
				connection.ID, sourceNode, ErrDanglingConnections)
		}

		if _, ok := app.ComponentByID(targetNode); !ok {
			return fmt.Errorf("connection %s references missing component %s: %w",
				connection.ID, targetNode, ErrDanglingConnections)
		}
	}

	return nil
}
