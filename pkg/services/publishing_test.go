package services_test

import (
	"context"
	"testing"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/mocks"
	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/agp-labs/builder/pkg/services"
	"github.com/agp-labs/builder/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublishing_PublishApp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		app           func() *models.App
		setupMocks    func(mockPersistence *mocks.MockPersistence, app *models.App)
		expectedError error
		validate      func(t *testing.T, published *models.App)
	}{
		{
			name: "first publish of a group",
			app: func() *models.App {
				return testutil.CreateTestApp(testutil.WithComponents(testutil.CreateTestComponent()))
			},
			setupMocks: func(mockPersistence *mocks.MockPersistence, app *models.App) {
				mockPersistence.AppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
				mockPersistence.AppRepo.On("GetPublishedByGroupID", mock.Anything, app.AppGroupID).
					Return(nil, persistence.ErrPublishedAppNotFound)
				mockPersistence.AppRepo.On("Save", mock.Anything, app).Return(nil)
			},
			validate: func(t *testing.T, published *models.App) {
				t.Helper()
				assert.Equal(t, models.AppStatusPublished, published.Status)
				require.NotNil(t, published.PublishedAt)
			},
		},
		{
			name: "publishing demotes the previous version",
			app: func() *models.App {
				return testutil.CreateTestApp(testutil.WithComponents(testutil.CreateTestComponent()))
			},
			setupMocks: func(mockPersistence *mocks.MockPersistence, app *models.App) {
				previous := testutil.CreateTestApp(testutil.WithStatus(models.AppStatusPublished))
				previous.AppGroupID = app.AppGroupID

				mockPersistence.AppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
				mockPersistence.AppRepo.On("GetPublishedByGroupID", mock.Anything, app.AppGroupID).Return(previous, nil)
				mockPersistence.AppRepo.On("Save", mock.Anything, mock.MatchedBy(func(saved *models.App) bool {
					return saved.ID == previous.ID && saved.Status == models.AppStatusUnpublished
				})).Return(nil).Once()
				mockPersistence.AppRepo.On("Save", mock.Anything, mock.MatchedBy(func(saved *models.App) bool {
					return saved.ID == app.ID && saved.Status == models.AppStatusPublished
				})).Return(nil).Once()
			},
			validate: func(t *testing.T, published *models.App) {
				t.Helper()
				assert.Equal(t, models.AppStatusPublished, published.Status)
			},
		},
		{
			name: "already published version",
			app: func() *models.App {
				return testutil.CreateTestApp(
					testutil.WithStatus(models.AppStatusPublished),
					testutil.WithComponents(testutil.CreateTestComponent()),
				)
			},
			setupMocks: func(mockPersistence *mocks.MockPersistence, app *models.App) {
				mockPersistence.AppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
			},
			expectedError: services.ErrCannotModifyPublished,
		},
		{
			name: "empty canvas cannot be published",
			app: func() *models.App {
				return testutil.CreateTestApp()
			},
			setupMocks: func(mockPersistence *mocks.MockPersistence, app *models.App) {
				mockPersistence.AppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
			},
			expectedError: services.ErrComponentsRequired,
		},
		{
			name: "nameless app cannot be published",
			app: func() *models.App {
				app := testutil.CreateTestApp(testutil.WithComponents(testutil.CreateTestComponent()))
				app.Name = ""

				return app
			},
			setupMocks: func(mockPersistence *mocks.MockPersistence, app *models.App) {
				mockPersistence.AppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
			},
			expectedError: services.ErrAppNameRequired,
		},
		{
			name: "dangling connection blocks publishing",
			app: func() *models.App {
				button := testutil.CreateTestComponent()

				return testutil.CreateTestApp(
					testutil.WithComponents(button),
					testutil.WithConnections(
						testutil.CreateTestConnection(button.ID, catalog.OutputPortClick, "gone", catalog.InputPortValue),
					),
				)
			},
			setupMocks: func(mockPersistence *mocks.MockPersistence, app *models.App) {
				mockPersistence.AppRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
			},
			expectedError: services.ErrDanglingConnections,
		},
		{
			name: "missing app",
			app: func() *models.App {
				return testutil.CreateTestApp()
			},
			setupMocks: func(mockPersistence *mocks.MockPersistence, app *models.App) {
				mockPersistence.AppRepo.On("GetByID", mock.Anything, app.ID).Return(nil, nil)
			},
			expectedError: persistence.ErrAppNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := tt.app()
			mockPersistence := mocks.NewMockPersistence()
			tt.setupMocks(mockPersistence, app)

			service := services.NewPublishing(mockPersistence)
			published, err := service.PublishApp(context.Background(), app.ID)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)

				if tt.validate != nil {
					tt.validate(t, published)
				}
			}

			mockPersistence.AppRepo.AssertExpectations(t)
		})
	}
}

func TestPublishing_GetCurrentApp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		setupMocks     func(mockPersistence *mocks.MockPersistence, groupID string) *models.App
		expectedStatus models.AppStatus
	}{
		{
			name: "published version wins",
			setupMocks: func(mockPersistence *mocks.MockPersistence, groupID string) *models.App {
				published := testutil.CreateTestApp(testutil.WithStatus(models.AppStatusPublished))
				mockPersistence.AppRepo.On("GetPublishedByGroupID", mock.Anything, groupID).Return(published, nil)

				return published
			},
			expectedStatus: models.AppStatusPublished,
		},
		{
			name: "falls back to the draft",
			setupMocks: func(mockPersistence *mocks.MockPersistence, groupID string) *models.App {
				draft := testutil.CreateTestApp()
				mockPersistence.AppRepo.On("GetPublishedByGroupID", mock.Anything, groupID).
					Return(nil, persistence.ErrPublishedAppNotFound)
				mockPersistence.AppRepo.On("GetDraftByGroupID", mock.Anything, groupID).Return(draft, nil)

				return draft
			},
			expectedStatus: models.AppStatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockPersistence := mocks.NewMockPersistence()
			expected := tt.setupMocks(mockPersistence, "group-1")

			service := services.NewPublishing(mockPersistence)
			current, err := service.GetCurrentApp(context.Background(), "group-1")

			require.NoError(t, err)
			assert.Equal(t, expected.ID, current.ID)
			assert.Equal(t, tt.expectedStatus, current.Status)
			mockPersistence.AppRepo.AssertExpectations(t)
		})
	}
}

func TestPublishing_CreateDraftFromPublished(t *testing.T) {
	t.Parallel()

	t.Run("existing draft is returned as is", func(t *testing.T) {
		t.Parallel()

		draft := testutil.CreateTestApp()
		mockPersistence := mocks.NewMockPersistence()
		mockPersistence.AppRepo.On("GetDraftByGroupID", mock.Anything, draft.AppGroupID).Return(draft, nil)

		service := services.NewPublishing(mockPersistence)
		result, err := service.CreateDraftFromPublished(context.Background(), draft.AppGroupID)

		require.NoError(t, err)
		assert.Same(t, draft, result)
		mockPersistence.AppRepo.AssertExpectations(t)
	})

	t.Run("deep copies the published version", func(t *testing.T) {
		t.Parallel()

		button := testutil.CreateTestComponent()
		input := testutil.CreateTestComponent(testutil.WithType(models.ComponentTypeInput))
		published := testutil.CreateTestApp(
			testutil.WithStatus(models.AppStatusPublished),
			testutil.WithComponents(button, input),
			testutil.WithConnections(
				testutil.CreateTestConnection(button.ID, catalog.OutputPortClick, input.ID, catalog.InputPortValue),
			),
		)
		published.Metadata = map[string]any{"theme": "dark"}

		mockPersistence := mocks.NewMockPersistence()
		mockPersistence.AppRepo.On("GetDraftByGroupID", mock.Anything, published.AppGroupID).
			Return(nil, persistence.ErrDraftAppNotFound)
		mockPersistence.AppRepo.On("GetPublishedByGroupID", mock.Anything, published.AppGroupID).Return(published, nil)
		mockPersistence.AppRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.App")).Return(nil)

		service := services.NewPublishing(mockPersistence)
		draft, err := service.CreateDraftFromPublished(context.Background(), published.AppGroupID)

		require.NoError(t, err)
		assert.NotEqual(t, published.ID, draft.ID)
		assert.Equal(t, published.AppGroupID, draft.AppGroupID)
		assert.Equal(t, models.AppStatusDraft, draft.Status)
		require.Len(t, draft.Components, 2)
		assert.Equal(t, "dark", draft.Metadata["theme"])

		// Edits to the draft never leak into the published version.
		draft.Components[0].Props["text"] = "Edited"
		assert.Equal(t, "Click me", published.Components[0].Props["text"])

		mockPersistence.AppRepo.AssertExpectations(t)
	})

	t.Run("no published version to copy", func(t *testing.T) {
		t.Parallel()

		mockPersistence := mocks.NewMockPersistence()
		mockPersistence.AppRepo.On("GetDraftByGroupID", mock.Anything, "group-1").
			Return(nil, persistence.ErrDraftAppNotFound)
		mockPersistence.AppRepo.On("GetPublishedByGroupID", mock.Anything, "group-1").
			Return(nil, persistence.ErrPublishedAppNotFound)

		service := services.NewPublishing(mockPersistence)
		_, err := service.CreateDraftFromPublished(context.Background(), "group-1")

		assert.ErrorIs(t, err, persistence.ErrPublishedAppNotFound)
		mockPersistence.AppRepo.AssertExpectations(t)
	})
}
