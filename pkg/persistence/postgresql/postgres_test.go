package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/agp-labs/builder/pkg/persistence/postgresql"
	"github.com/agp-labs/builder/pkg/testutil"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDB(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	// Drop tables in reverse dependency order (children first, parents last)
	for _, table := range []string{"app_connections", "app_components", "apps", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("builder_test"),
			postgres.WithUsername("builder"),
			postgres.WithPassword("builder"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDB(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDB(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx, databaseURL
}

func TestNewPersistence_Migrations(t *testing.T) {
	_, ctx, databaseURL := setupTestDB(t)

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	defer func() {
		err := db.Close()
		require.NoError(t, err)
	}()

	var exists bool

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'apps')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "apps table should exist")

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'app_components')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "app_components table should exist")

	err = db.QueryRowContext(ctx, `SELECT EXISTS (SELECT FROM
information_schema.tables WHERE table_name = 'schema_migrations')`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists, "schema_migrations table should exist")
}

func TestAppRepository_SaveAndGetByID(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	button := testutil.CreateTestComponent()
	input := testutil.CreateTestComponent(
		testutil.WithType(models.ComponentTypeInput),
		testutil.WithPosition(500, 200),
	)
	app := testutil.CreateTestApp(
		testutil.WithComponents(button, input),
		testutil.WithConnections(
			testutil.CreateTestConnection(button.ID, "click", input.ID, "value"),
		),
	)

	err := p.AppRepository().Save(ctx, app)
	require.NoError(t, err)

	fetched, err := p.AppRepository().GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)

	assert.Equal(t, app.Name, fetched.Name)
	assert.Equal(t, app.AppGroupID, fetched.AppGroupID)
	assert.Equal(t, models.AppStatusDraft, fetched.Status)
	require.Len(t, fetched.Components, 2)
	require.Len(t, fetched.Connections, 1)

	got, ok := fetched.ComponentByID(button.ID)
	require.True(t, ok)
	assert.Equal(t, models.ComponentTypeButton, got.Type)
	assert.InDelta(t, 100.0, got.X, 1e-9)
	assert.Equal(t, "Click me", got.Props["text"])
}

func TestAppRepository_GetByID_NotFound(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	fetched, err := p.AppRepository().GetByID(ctx, "missing-id")
	require.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestAppRepository_SoftDelete(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	app := testutil.CreateTestApp()
	require.NoError(t, p.AppRepository().Save(ctx, app))

	require.NoError(t, p.AppRepository().Delete(ctx, app.ID))

	fetched, err := p.AppRepository().GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	all, err := p.AppRepository().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Deleting twice reports not found.
	err = p.AppRepository().Delete(ctx, app.ID)
	assert.ErrorIs(t, err, persistence.ErrAppNotFound)
}

func TestAppRepository_GroupLookups(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	draft := testutil.CreateTestApp()
	published := testutil.CreateTestApp(
		testutil.WithComponents(testutil.CreateTestComponent()),
		testutil.WithStatus(models.AppStatusPublished),
	)
	published.AppGroupID = draft.AppGroupID

	require.NoError(t, p.AppRepository().Save(ctx, draft))
	require.NoError(t, p.AppRepository().Save(ctx, published))

	gotDraft, err := p.AppRepository().GetDraftByGroupID(ctx, draft.AppGroupID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, gotDraft.ID)

	gotPublished, err := p.AppRepository().GetPublishedByGroupID(ctx, draft.AppGroupID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, gotPublished.ID)

	_, err = p.AppRepository().GetPublishedByGroupID(ctx, "other-group")
	assert.ErrorIs(t, err, persistence.ErrPublishedAppNotFound)
}

func TestAppRepository_ListApps(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	names := []string{"alpha", "bravo", "charlie"}

	for i, name := range names {
		app := testutil.CreateTestApp()
		app.Name = name
		app.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, p.AppRepository().Save(ctx, app))
	}

	result, err := p.AppRepository().ListApps(ctx, persistence.ListAppsOptions{
		Limit:     2,
		SortBy:    "name",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.True(t, result.HasNextPage)
	require.Len(t, result.Apps, 2)
	assert.Equal(t, "alpha", result.Apps[0].Name)
	assert.Equal(t, "bravo", result.Apps[1].Name)
}

func TestComponentRepository_SaveAndCascade(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	button := testutil.CreateTestComponent()
	input := testutil.CreateTestComponent(
		testutil.WithType(models.ComponentTypeInput),
		testutil.WithPosition(500, 200),
	)
	app := testutil.CreateTestApp(
		testutil.WithComponents(button, input),
		testutil.WithConnections(
			testutil.CreateTestConnection(button.ID, "click", input.ID, "value"),
		),
	)
	require.NoError(t, p.AppRepository().Save(ctx, app))

	// Replace geometry in place.
	button.X = 300
	button.Y = 400
	require.NoError(t, p.ComponentRepository().SaveComponent(ctx, app.ID, button))

	got, err := p.ComponentRepository().GetComponentByApp(ctx, app.ID, button.ID)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, got.X, 1e-9)

	// Deleting a component drags its connections along.
	require.NoError(t, p.ComponentRepository().DeleteComponentWithConnections(ctx, app.ID, button.ID))

	connections, err := p.ConnectionRepository().GetConnectionsByApp(ctx, app.ID)
	require.NoError(t, err)
	assert.Empty(t, connections)

	_, err = p.ComponentRepository().GetComponentByApp(ctx, app.ID, button.ID)
	assert.ErrorIs(t, err, persistence.ErrComponentNotFound)
}

func TestConnectionRepository_SaveAndDelete(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	button := testutil.CreateTestComponent()
	input := testutil.CreateTestComponent(testutil.WithType(models.ComponentTypeInput))
	app := testutil.CreateTestApp(testutil.WithComponents(button, input))
	require.NoError(t, p.AppRepository().Save(ctx, app))

	connection := testutil.CreateTestConnection(button.ID, "click", input.ID, "value")
	require.NoError(t, p.ConnectionRepository().SaveConnection(ctx, app.ID, connection))

	got, err := p.ConnectionRepository().GetConnectionByApp(ctx, app.ID, connection.ID)
	require.NoError(t, err)
	assert.Equal(t, connection.SourcePort, got.SourcePort)

	require.NoError(t, p.ConnectionRepository().DeleteConnection(ctx, app.ID, connection.ID))

	_, err = p.ConnectionRepository().GetConnectionByApp(ctx, app.ID, connection.ID)
	assert.ErrorIs(t, err, persistence.ErrConnectionNotFound)
}

func TestPersistence_HealthCheck(t *testing.T) {
	p, ctx, _ := setupTestDB(t)

	require.NoError(t, p.HealthCheck(ctx))
}
