package web_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/agp-labs/builder/pkg/sessions"
	"github.com/agp-labs/builder/pkg/testutil"
	"github.com/agp-labs/builder/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionStateResponse mirrors the editor snapshot returned by the session
// endpoints.
type sessionStateResponse struct {
	SessionID  string                    `json:"session_id"`
	AppID      string                    `json:"app_id"`
	Components []*models.PlacedComponent `json:"components"`
	Scale      float64                   `json:"scale"`
	Dragging   bool                      `json:"dragging"`
	Resizing   bool                      `json:"resizing"`
	Selected   string                    `json:"selected"`
	TempLine   *struct {
		Start struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"start"`
		End struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"end"`
	} `json:"temp_line"`
}

// setupSessionApp seeds a draft with a button and an input and opens an
// editing session on it.
func setupSessionApp(t *testing.T) (*fiber.App, persistence.Persistence, *models.App, string) {
	t.Helper()

	app, store := setupTestApp(t)

	button := testutil.CreateTestComponent(testutil.WithPosition(100, 200))
	input := testutil.CreateTestComponent(
		testutil.WithType(models.ComponentTypeInput),
		testutil.WithName("Test Input"),
		testutil.WithPosition(500, 200),
		testutil.WithSize(200, 36),
	)
	seeded := testutil.CreateTestApp(testutil.WithComponents(button, input))
	saveApp(t, store, seeded)

	resp, body := doJSON(t, app, http.MethodPost, "/sessions", web.OpenSessionRequest{
		AppID: seeded.ID,
		Owner: "test-user",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session sessions.Session

	require.NoError(t, json.Unmarshal(body, &session))
	require.NotEmpty(t, session.ID)
	require.Equal(t, seeded.ID, session.AppID)

	return app, store, seeded, session.ID
}

func getState(t *testing.T, app *fiber.App, sessionID string) sessionStateResponse {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodGet, "/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state sessionStateResponse

	require.NoError(t, json.Unmarshal(body, &state))

	return state
}

func pointer(t *testing.T, app *fiber.App, sessionID, phase string, x, y float64) sessionStateResponse {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/pointer",
		web.PointerEventRequest{Phase: phase, X: x, Y: y})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state sessionStateResponse

	require.NoError(t, json.Unmarshal(body, &state))

	return state
}

func TestAPIHandlers_OpenSession(t *testing.T) {
	t.Parallel()

	t.Run("unknown app returns 404", func(t *testing.T) {
		t.Parallel()

		app, _ := setupTestApp(t)

		resp, _ := doJSON(t, app, http.MethodPost, "/sessions", web.OpenSessionRequest{AppID: "missing-id"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing app_id returns 400", func(t *testing.T) {
		t.Parallel()

		app, _ := setupTestApp(t)

		resp, _ := doJSON(t, app, http.MethodPost, "/sessions", web.OpenSessionRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()

		app, _ := setupTestApp(t)

		resp, _ := doJSON(t, app, http.MethodPost, "/sessions", "invalid-json")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPIHandlers_GetSession(t *testing.T) {
	t.Parallel()

	t.Run("returns initial editor state", func(t *testing.T) {
		t.Parallel()

		app, _, seeded, sessionID := setupSessionApp(t)

		state := getState(t, app, sessionID)
		assert.Equal(t, sessionID, state.SessionID)
		assert.Equal(t, seeded.ID, state.AppID)
		assert.Len(t, state.Components, 2)
		assert.InDelta(t, 1.0, state.Scale, 1e-9)
		assert.False(t, state.Dragging)
		assert.False(t, state.Resizing)
		assert.Empty(t, state.Selected)
		assert.Nil(t, state.TempLine)
	})

	t.Run("unknown session returns 404", func(t *testing.T) {
		t.Parallel()

		app, _ := setupTestApp(t)

		resp, _ := doJSON(t, app, http.MethodGet, "/sessions/missing-id", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPIHandlers_SessionPointerEvent(t *testing.T) {
	t.Parallel()

	t.Run("drag gesture moves the component", func(t *testing.T) {
		t.Parallel()

		app, _, seeded, sessionID := setupSessionApp(t)
		button := seeded.Components[0]

		state := pointer(t, app, sessionID, "down", 110, 210)
		assert.Equal(t, button.ID, state.Selected)
		assert.False(t, state.Dragging)

		state = pointer(t, app, sessionID, "move", 160, 240)
		assert.True(t, state.Dragging)

		state = pointer(t, app, sessionID, "up", 160, 240)
		assert.False(t, state.Dragging)

		moved, ok := findComponent(state.Components, button.ID)
		require.True(t, ok)
		assert.InDelta(t, 150.0, moved.X, 1e-9)
		assert.InDelta(t, 230.0, moved.Y, 1e-9)
	})

	t.Run("background click clears selection", func(t *testing.T) {
		t.Parallel()

		app, _, _, sessionID := setupSessionApp(t)

		state := pointer(t, app, sessionID, "down", 110, 210)
		assert.NotEmpty(t, state.Selected)

		state = pointer(t, app, sessionID, "up", 110, 210)
		assert.NotEmpty(t, state.Selected)

		state = pointer(t, app, sessionID, "down", 900, 900)
		assert.Empty(t, state.Selected)
	})

	t.Run("invalid phase returns 400", func(t *testing.T) {
		t.Parallel()

		app, _, _, sessionID := setupSessionApp(t)

		resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/pointer",
			web.PointerEventRequest{Phase: "hover", X: 1, Y: 2})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPIHandlers_SessionZoom(t *testing.T) {
	t.Parallel()

	t.Run("zoom buttons step the scale", func(t *testing.T) {
		t.Parallel()

		app, _, _, sessionID := setupSessionApp(t)

		resp, body := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/zoom",
			web.ZoomRequest{Direction: "in"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Scale float64 `json:"scale"`
		}

		require.NoError(t, json.Unmarshal(body, &result))
		assert.InDelta(t, 1.1, result.Scale, 1e-9)

		resp, body = doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/zoom",
			web.ZoomRequest{Direction: "out"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &result))
		assert.InDelta(t, 1.0, result.Scale, 1e-9)
	})

	t.Run("ctrl wheel zooms, plain wheel is ignored", func(t *testing.T) {
		t.Parallel()

		app, _, _, sessionID := setupSessionApp(t)

		resp, body := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/zoom",
			web.ZoomRequest{DeltaY: -1, Ctrl: true})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Scale float64 `json:"scale"`
		}

		require.NoError(t, json.Unmarshal(body, &result))
		assert.InDelta(t, 1.1, result.Scale, 1e-9)

		resp, body = doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/zoom",
			web.ZoomRequest{DeltaY: -1})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &result))
		assert.InDelta(t, 1.1, result.Scale, 1e-9)
	})
}

func TestAPIHandlers_SessionResize(t *testing.T) {
	t.Parallel()

	app, _, seeded, sessionID := setupSessionApp(t)
	button := seeded.Components[0]

	pointer(t, app, sessionID, "down", 110, 210)

	resp, body := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/resize",
		web.ResizeRequest{Corner: "se", X: 220, Y: 240})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state sessionStateResponse

	require.NoError(t, json.Unmarshal(body, &state))
	assert.True(t, state.Resizing)

	state = pointer(t, app, sessionID, "move", 250, 260)
	assert.True(t, state.Resizing)

	state = pointer(t, app, sessionID, "up", 250, 260)
	assert.False(t, state.Resizing)

	resized, ok := findComponent(state.Components, button.ID)
	require.True(t, ok)
	assert.InDelta(t, 150.0, resized.Width, 1e-9)
	assert.InDelta(t, 60.0, resized.Height, 1e-9)
	assert.InDelta(t, 100.0, resized.X, 1e-9)
	assert.InDelta(t, 200.0, resized.Y, 1e-9)
}

func TestAPIHandlers_SessionResize_InvalidCorner(t *testing.T) {
	t.Parallel()

	app, _, _, sessionID := setupSessionApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/resize",
		web.ResizeRequest{Corner: "center", X: 1, Y: 2})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIHandlers_SessionDeleteSelected(t *testing.T) {
	t.Parallel()

	app, _, seeded, sessionID := setupSessionApp(t)
	button := seeded.Components[0]

	pointer(t, app, sessionID, "down", 110, 210)
	pointer(t, app, sessionID, "up", 110, 210)

	resp, body := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/delete-selected", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state sessionStateResponse

	require.NoError(t, json.Unmarshal(body, &state))
	assert.Empty(t, state.Selected)
	assert.Len(t, state.Components, 1)

	_, ok := findComponent(state.Components, button.ID)
	assert.False(t, ok)
}

func TestAPIHandlers_SessionConnectionGesture(t *testing.T) {
	t.Parallel()

	app, _, seeded, sessionID := setupSessionApp(t)
	button := seeded.Components[0]
	input := seeded.Components[1]

	resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/arm",
		web.ConnectionGestureRequest{NodeID: button.ID, Port: catalog.OutputPortClick})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	state := getState(t, app, sessionID)
	require.NotNil(t, state.TempLine)
	assert.InDelta(t, 280.0, state.TempLine.Start.X, 1e-9) // right edge of the source node
	assert.InDelta(t, 252.0, state.TempLine.Start.Y, 1e-9)

	resp, body := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/commit",
		web.ConnectionGestureRequest{NodeID: input.ID, Port: catalog.InputPortValue})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Connection

	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, models.MakePortID(button.ID, catalog.OutputPortClick), created.SourcePort)
	assert.Equal(t, models.MakePortID(input.ID, catalog.InputPortValue), created.TargetPort)

	// The committed connection is persisted, not just held in the editor.
	resp, body = doJSON(t, app, http.MethodGet, "/apps/"+seeded.ID+"/connections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Connections []models.Connection `json:"connections"`
	}

	require.NoError(t, json.Unmarshal(body, &result))
	require.Len(t, result.Connections, 1)
	assert.Equal(t, created.ID, result.Connections[0].ID)
}

func TestAPIHandlers_SessionArmConnection_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		nodeID func(app *models.App) string
		port   string
	}{
		{
			name:   "unknown node",
			nodeID: func(*models.App) string { return "missing-node" },
			port:   catalog.OutputPortClick,
		},
		{
			name:   "unknown port",
			nodeID: func(app *models.App) string { return app.Components[0].ID },
			port:   "bogus",
		},
		{
			name:   "arming from an input port",
			nodeID: func(app *models.App) string { return app.Components[1].ID },
			port:   catalog.InputPortValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, _, seeded, sessionID := setupSessionApp(t)

			resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/arm",
				web.ConnectionGestureRequest{NodeID: tt.nodeID(seeded), Port: tt.port})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAPIHandlers_SessionCommitConnection_WithoutArm(t *testing.T) {
	t.Parallel()

	app, _, seeded, sessionID := setupSessionApp(t)
	input := seeded.Components[1]

	resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/commit",
		web.ConnectionGestureRequest{NodeID: input.ID, Port: catalog.InputPortValue})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIHandlers_SessionCancelConnection(t *testing.T) {
	t.Parallel()

	app, _, seeded, sessionID := setupSessionApp(t)
	button := seeded.Components[0]

	resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/arm",
		web.ConnectionGestureRequest{NodeID: button.ID, Port: catalog.OutputPortClick})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/cancel", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	state := getState(t, app, sessionID)
	assert.Nil(t, state.TempLine)
}

func TestAPIHandlers_SessionClickHandle(t *testing.T) {
	t.Parallel()

	t.Run("click on the midpoint handle deletes the connection", func(t *testing.T) {
		t.Parallel()

		app, _, seeded, sessionID := setupSessionApp(t)
		button := seeded.Components[0]
		input := seeded.Components[1]

		resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/arm",
			web.ConnectionGestureRequest{NodeID: button.ID, Port: catalog.OutputPortClick})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/commit",
			web.ConnectionGestureRequest{NodeID: input.ID, Port: catalog.InputPortValue})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		// Both port anchors sit at y=252; the midpoint handle is halfway
		// between the source node's right edge (x=280) and the target's left
		// edge (x=500).
		resp, body := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/click-handle",
			web.PointerEventRequest{Phase: "down", X: 390, Y: 252})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Deleted string `json:"deleted"`
		}

		require.NoError(t, json.Unmarshal(body, &result))
		assert.NotEmpty(t, result.Deleted)

		resp, body = doJSON(t, app, http.MethodGet, "/apps/"+seeded.ID+"/connections", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Connections []models.Connection `json:"connections"`
		}

		require.NoError(t, json.Unmarshal(body, &list))
		assert.Empty(t, list.Connections)
	})

	t.Run("miss returns 204", func(t *testing.T) {
		t.Parallel()

		app, _, _, sessionID := setupSessionApp(t)

		resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/connections/click-handle",
			web.PointerEventRequest{Phase: "down", X: 5, Y: 5})
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestAPIHandlers_FlushSession(t *testing.T) {
	t.Parallel()

	app, _, seeded, sessionID := setupSessionApp(t)
	button := seeded.Components[0]

	pointer(t, app, sessionID, "down", 110, 210)
	pointer(t, app, sessionID, "move", 160, 240)
	pointer(t, app, sessionID, "up", 160, 240)

	resp, _ := doJSON(t, app, http.MethodPost, "/sessions/"+sessionID+"/flush", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/apps/"+seeded.ID+"/components/"+button.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var persisted models.PlacedComponent

	require.NoError(t, json.Unmarshal(body, &persisted))
	assert.InDelta(t, 150.0, persisted.X, 1e-9)
	assert.InDelta(t, 230.0, persisted.Y, 1e-9)
}

func TestAPIHandlers_CloseSession(t *testing.T) {
	t.Parallel()

	app, _, _, sessionID := setupSessionApp(t)

	resp, _ := doJSON(t, app, http.MethodDelete, "/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func findComponent(components []*models.PlacedComponent, id string) (*models.PlacedComponent, bool) {
	for _, c := range components {
		if c.ID == id {
			return c, true
		}
	}

	return nil, false
}
