package models_test

import (
	"testing"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_ComponentByID(t *testing.T) {
	t.Parallel()

	app := &models.App{
		Components: []*models.PlacedComponent{
			{ID: "c1", Type: models.ComponentTypeButton},
			{ID: "c2", Type: models.ComponentTypeInput},
		},
	}

	found, ok := app.ComponentByID("c2")
	require.True(t, ok)
	assert.Equal(t, models.ComponentTypeInput, found.Type)

	_, ok = app.ComponentByID("missing")
	assert.False(t, ok)
}

func TestApp_ConnectionByID(t *testing.T) {
	t.Parallel()

	app := &models.App{
		Connections: []*models.Connection{
			{ID: "conn-1", SourcePort: "c1:click", TargetPort: "c2:value"},
		},
	}

	found, ok := app.ConnectionByID("conn-1")
	require.True(t, ok)
	assert.Equal(t, "c1:click", found.SourcePort)

	_, ok = app.ConnectionByID("missing")
	assert.False(t, ok)
}

func TestApp_IsDraft(t *testing.T) {
	t.Parallel()

	assert.True(t, (&models.App{Status: models.AppStatusDraft}).IsDraft())
	assert.False(t, (&models.App{Status: models.AppStatusPublished}).IsDraft())
	assert.False(t, (&models.App{Status: models.AppStatusUnpublished}).IsDraft())
}

func TestApp_ConnectionsForComponent(t *testing.T) {
	t.Parallel()

	app := &models.App{
		Connections: []*models.Connection{
			{ID: "a", SourcePort: "c1:click", TargetPort: "c2:value"},
			{ID: "b", SourcePort: "c3:output", TargetPort: "c1:input"},
			{ID: "c", SourcePort: "c3:output", TargetPort: "c2:value"},
			{ID: "d", SourcePort: "broken", TargetPort: "c4:input"},
		},
	}

	tests := []struct {
		name        string
		componentID string
		expectedIDs []string
	}{
		{
			name:        "touching as source and target",
			componentID: "c1",
			expectedIDs: []string{"a", "b"},
		},
		{
			name:        "target side only",
			componentID: "c2",
			expectedIDs: []string{"a", "c"},
		},
		{
			name:        "unparseable source still matches target side",
			componentID: "c4",
			expectedIDs: []string{"d"},
		},
		{
			name:        "untouched component",
			componentID: "c9",
			expectedIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			touching := app.ConnectionsForComponent(tt.componentID)

			ids := make([]string, 0, len(touching))
			for _, conn := range touching {
				ids = append(ids, conn.ID)
			}

			if tt.expectedIDs == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.expectedIDs, ids)
			}
		})
	}
}

func TestConnection_IsSelfLoop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		connection models.Connection
		expected   bool
	}{
		{
			name:       "different nodes",
			connection: models.Connection{SourcePort: "c1:click", TargetPort: "c2:value"},
			expected:   false,
		},
		{
			name:       "same node",
			connection: models.Connection{SourcePort: "c1:click", TargetPort: "c1:value"},
			expected:   true,
		},
		{
			name:       "unparseable endpoint never loops",
			connection: models.Connection{SourcePort: "c1", TargetPort: "c1:value"},
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.connection.IsSelfLoop())
		})
	}
}

func TestWorkflowNode_PortLookups(t *testing.T) {
	t.Parallel()

	node := &models.WorkflowNode{
		ID: "n1",
		Inputs: []models.InputPort{
			{Port: models.Port{ID: "n1:value", NodeID: "n1", Name: "value"}},
		},
		Outputs: []models.OutputPort{
			{Port: models.Port{ID: "n1:change", NodeID: "n1", Name: "change"}},
			{Port: models.Port{ID: "n1:submit", NodeID: "n1", Name: "submit"}},
		},
	}

	in, ok := node.InputPortByName("value")
	require.True(t, ok)
	assert.Equal(t, "n1:value", in.ID)

	_, ok = node.InputPortByName("submit")
	assert.False(t, ok, "output port names must not resolve as inputs")

	out, ok := node.OutputPortByName("submit")
	require.True(t, ok)
	assert.Equal(t, "n1:submit", out.ID)
}
