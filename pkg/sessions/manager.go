package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agp-labs/builder/pkg/canvas"
	"github.com/agp-labs/builder/pkg/graph"
	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/services"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// EditorSession binds a session record to live editor engines for its app.
// Gesture mutations accumulate on the host adapter and are written back
// through the services on Flush.
type EditorSession struct {
	Session *Session
	Canvas  *canvas.Editor
	Graph   *graph.Editor

	host *sessionHost
}

// sessionHost implements canvas.Host by buffering mutations until flush.
type sessionHost struct {
	mu      sync.Mutex
	updated map[string]*models.PlacedComponent
	deleted []string
}

func newSessionHost() *sessionHost {
	return &sessionHost{
		updated: make(map[string]*models.PlacedComponent),
	}
}

func (h *sessionHost) SelectComponent(*models.PlacedComponent) {}

func (h *sessionHost) UpdateComponent(component *models.PlacedComponent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.updated[component.ID] = component
}

func (h *sessionHost) DeleteComponent(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.updated, id)
	h.deleted = append(h.deleted, id)
}

func (h *sessionHost) drain() (map[string]*models.PlacedComponent, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	updated := h.updated
	deleted := h.deleted
	h.updated = make(map[string]*models.PlacedComponent)
	h.deleted = nil

	return updated, deleted
}

// Manager owns editing sessions: it opens them against persisted apps, routes
// flushes back through the services, and sweeps expired sessions on a cron.
type Manager struct {
	store       Store
	apps        *services.App
	components  *services.Component
	connections *services.Connection
	logger      *slog.Logger
	ttl         time.Duration
	cron        *cron.Cron

	mu      sync.RWMutex
	editors map[string]*EditorSession
}

// NewManager creates a session manager.
func NewManager(
	store Store,
	apps *services.App,
	components *services.Component,
	connections *services.Connection,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		store:       store,
		apps:        apps,
		components:  components,
		connections: connections,
		logger:      logger.With("module", "sessions"),
		ttl:         DefaultTTL,
		editors:     make(map[string]*EditorSession),
	}
}

// SetTTL overrides the sliding expiry applied to sessions.
func (m *Manager) SetTTL(ttl time.Duration) {
	m.ttl = ttl
}

// Open starts an editing session for the given draft app and builds its
// editor engines from the persisted components and connections.
func (m *Manager) Open(ctx context.Context, appID, owner string) (*EditorSession, error) {
	app, err := m.apps.FetchByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &Session{
		ID:           uuid.New().String(),
		AppID:        app.ID,
		Owner:        owner,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	host := newSessionHost()
	canvasEditor := canvas.NewEditor(host)
	canvasEditor.SetComponents(app.Components)

	editor := &EditorSession{
		Session: session,
		Canvas:  canvasEditor,
		Graph:   graph.NewEditor(app.Components, app.Connections),
		host:    host,
	}

	m.mu.Lock()
	m.editors[session.ID] = editor
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Session opened", "session_id", session.ID, "app_id", app.ID)

	return editor, nil
}

// Get returns the live editor session, touching its expiry. Sessions opened
// on another instance or already expired return ErrSessionNotFound.
func (m *Manager) Get(ctx context.Context, sessionID string) (*EditorSession, error) {
	m.mu.RLock()
	editor, ok := m.editors[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		m.closeLocal(sessionID)

		return nil, err
	}

	now := time.Now().UTC()
	if session.Expired(now) {
		m.closeLocal(sessionID)
		_ = m.store.Delete(ctx, sessionID)

		return nil, ErrSessionNotFound
	}

	session.Touch(now, m.ttl)
	editor.Session = session

	if err := m.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}

	return editor, nil
}

// Flush writes the session's buffered canvas mutations back through the
// services: position and size updates first, then cascading deletes.
func (m *Manager) Flush(ctx context.Context, sessionID string) error {
	editor, err := m.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	appID := editor.Session.AppID
	updated, deleted := editor.host.drain()

	for _, component := range updated {
		req := &services.UpdateComponentRequest{
			Name:   component.Name,
			X:      component.X,
			Y:      component.Y,
			Width:  component.Width,
			Height: component.Height,
			Props:  component.Props,
		}

		if _, err := m.components.UpdateComponent(ctx, appID, component.ID, req); err != nil {
			return fmt.Errorf("failed to flush component %s: %w", component.ID, err)
		}
	}

	for _, componentID := range deleted {
		if err := m.components.DeleteComponent(ctx, appID, componentID); err != nil {
			return fmt.Errorf("failed to flush delete of component %s: %w", componentID, err)
		}
	}

	return nil
}

// Close flushes and ends a session.
func (m *Manager) Close(ctx context.Context, sessionID string) error {
	if err := m.Flush(ctx, sessionID); err != nil {
		return err
	}

	m.closeLocal(sessionID)

	return m.store.Delete(ctx, sessionID)
}

func (m *Manager) closeLocal(sessionID string) {
	m.mu.Lock()
	delete(m.editors, sessionID)
	m.mu.Unlock()
}

// StartJanitor begins the periodic sweep of expired sessions.
func (m *Manager) StartJanitor(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = "@every 1m"
	}

	m.cron = cron.New()

	_, err := m.cron.AddFunc(schedule, func() {
		m.sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session janitor: %w", err)
	}

	m.cron.Start()

	return nil
}

// StopJanitor stops the sweep and waits for a running pass to finish.
func (m *Manager) StopJanitor() {
	if m.cron != nil {
		<-m.cron.Stop().Done()
	}
}

func (m *Manager) sweep(ctx context.Context) {
	sessions, err := m.store.List(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "Session sweep failed", "error", err)

		return
	}

	now := time.Now().UTC()
	alive := make(map[string]struct{}, len(sessions))

	for _, session := range sessions {
		if session.Expired(now) {
			m.closeLocal(session.ID)

			if err := m.store.Delete(ctx, session.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
				m.logger.ErrorContext(ctx, "Failed to delete expired session",
					"session_id", session.ID, "error", err)
			}

			continue
		}

		alive[session.ID] = struct{}{}
	}

	// Drop live editors whose store record disappeared (Redis TTL fired).
	m.mu.Lock()
	for id := range m.editors {
		if _, ok := alive[id]; !ok {
			delete(m.editors, id)
		}
	}
	m.mu.Unlock()
}
