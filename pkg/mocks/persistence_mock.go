// Package mocks provides testify mocks for the persistence and eventbus interfaces.
package mocks

import (
	"context"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockAppRepository is a mock implementation of persistence.AppRepository interface.
type MockAppRepository struct {
	mock.Mock
}

func (m *MockAppRepository) ListApps(ctx context.Context, opts persistence.ListAppsOptions) (*persistence.AppListResult, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*persistence.AppListResult), args.Error(1)
}

func (m *MockAppRepository) GetAll(ctx context.Context) ([]*models.App, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.App), args.Error(1)
}

func (m *MockAppRepository) GetByID(ctx context.Context, id string) (*models.App, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.App), args.Error(1)
}

func (m *MockAppRepository) GetPublishedByGroupID(ctx context.Context, groupID string) (*models.App, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.App), args.Error(1)
}

func (m *MockAppRepository) GetDraftByGroupID(ctx context.Context, groupID string) (*models.App, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.App), args.Error(1)
}

func (m *MockAppRepository) Save(ctx context.Context, app *models.App) error {
	args := m.Called(ctx, app)

	return args.Error(0)
}

func (m *MockAppRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockComponentRepository is a mock implementation of persistence.ComponentRepository interface.
type MockComponentRepository struct {
	mock.Mock
}

func (m *MockComponentRepository) GetComponentsByApp(ctx context.Context, appID string) ([]*models.PlacedComponent, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.PlacedComponent), args.Error(1)
}

func (m *MockComponentRepository) GetComponentByApp(ctx context.Context, appID, componentID string) (*models.PlacedComponent, error) {
	args := m.Called(ctx, appID, componentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PlacedComponent), args.Error(1)
}

func (m *MockComponentRepository) SaveComponent(ctx context.Context, appID string, component *models.PlacedComponent) error {
	args := m.Called(ctx, appID, component)

	return args.Error(0)
}

func (m *MockComponentRepository) DeleteComponentWithConnections(ctx context.Context, appID, componentID string) error {
	args := m.Called(ctx, appID, componentID)

	return args.Error(0)
}

// MockConnectionRepository is a mock implementation of persistence.ConnectionRepository interface.
type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) GetConnectionsByApp(ctx context.Context, appID string) ([]*models.Connection, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Connection), args.Error(1)
}

func (m *MockConnectionRepository) GetConnectionByApp(ctx context.Context, appID, connectionID string) (*models.Connection, error) {
	args := m.Called(ctx, appID, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Connection), args.Error(1)
}

func (m *MockConnectionRepository) SaveConnection(ctx context.Context, appID string, connection *models.Connection) error {
	args := m.Called(ctx, appID, connection)

	return args.Error(0)
}

func (m *MockConnectionRepository) DeleteConnection(ctx context.Context, appID, connectionID string) error {
	args := m.Called(ctx, appID, connectionID)

	return args.Error(0)
}

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	AppRepo        *MockAppRepository
	ComponentRepo  *MockComponentRepository
	ConnectionRepo *MockConnectionRepository
}

// NewMockPersistence creates a MockPersistence with mock repositories wired in.
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		AppRepo:        &MockAppRepository{},
		ComponentRepo:  &MockComponentRepository{},
		ConnectionRepo: &MockConnectionRepository{},
	}
}

func (m *MockPersistence) AppRepository() persistence.AppRepository {
	return m.AppRepo
}

func (m *MockPersistence) ComponentRepository() persistence.ComponentRepository {
	return m.ComponentRepo
}

func (m *MockPersistence) ConnectionRepository() persistence.ConnectionRepository {
	return m.ConnectionRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
