// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ==========================
// Classification activities
// ==========================

func TestClassification(t *testing.T) {
	activities := Classification()
	require.Len(t, activities, 2)

	reg := &ActivityRegistry{Version: "1.0.0", Activities: activities}
	require.NoError(t, reg.Validate())

	ticket, ok := reg.Find("classify-ticket")
	require.True(t, ok)
	assert.Equal(t, "30s", ticket.Timeout)
	assert.Equal(t, 3, ticket.Retries)
	assert.Equal(t, []string{"INVALID_JOB_INPUT", "KEYWORD_SOURCE_FAILED"}, ticket.ErrorCodes)
	assert.Equal(t, "object", ticket.InputSchema["type"])

	batch, ok := reg.Find("classify-batch")
	require.True(t, ok)
	assert.Contains(t, batch.ErrorCodes, "SUMMARY_VALIDATION_FAILED")
	props := batch.OutputSchema["properties"].(map[string]interface{})
	assert.Contains(t, props, "summary")
}

// ==========================
// Sync / Update
// ==========================

func TestSync_KeepsStatusAndWorkflows(t *testing.T) {
	reg := &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{{
			ID:                   "classify-ticket",
			DisplayName:          "Old",
			Category:             CategoryClassification,
			TaskType:             "classify-ticket",
			ImplementationStatus: StatusVerified,
			Workflows:            []string{"support-intake"},
		}},
	}

	reg.Sync(Classification(), fixedNow)

	require.Len(t, reg.Activities, 2)
	a, _ := reg.Find("classify-ticket")
	assert.Equal(t, "Classify Ticket", a.DisplayName)
	assert.Equal(t, StatusVerified, a.ImplementationStatus)
	assert.Equal(t, []string{"support-intake"}, a.Workflows)
	assert.Equal(t, "2026-03-01T12:00:00Z", reg.LastUpdated)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr string
		check   func(t *testing.T, a *Activity)
	}{
		{"status", "status", StatusVerified, "", func(t *testing.T, a *Activity) {
			assert.Equal(t, StatusVerified, a.ImplementationStatus)
		}},
		{"retries", "retries", "5", "", func(t *testing.T, a *Activity) {
			assert.Equal(t, 5, a.Retries)
		}},
		{"timeout", "timeout", "1m", "", func(t *testing.T, a *Activity) {
			assert.Equal(t, "1m", a.Timeout)
		}},
		{"bad status", "status", "done", "invalid status", nil},
		{"bad retries", "retries", "many", "invalid retries", nil},
		{"bad timeout", "timeout", "soon", "invalid timeout", nil},
		{"unknown field", "owner", "x", "unknown field", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: Classification()}
			err := reg.Update("classify-batch", tt.field, tt.value, fixedNow)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			a, _ := reg.Find("classify-batch")
			tt.check(t, a)
		})
	}
}

func TestUpdate_UnknownActivity(t *testing.T) {
	reg := &ActivityRegistry{Activities: Classification()}
	err := reg.Update("route-ticket", "status", StatusVerified, fixedNow)
	assert.EqualError(t, err, "activity with ID route-ticket not found")
}

// ==========================
// Validate
// ==========================

func TestValidate_Errors(t *testing.T) {
	base := func() Activity {
		return Activity{ID: "a", DisplayName: "A", Category: "c", TaskType: "a"}
	}
	tests := []struct {
		name       string
		activities []Activity
		wantErr    string
	}{
		{"empty", nil, "no activities"},
		{"missing id", []Activity{func() Activity { a := base(); a.ID = ""; return a }()}, "ID"},
		{"duplicate id", []Activity{base(), base()}, "duplicate activity ID"},
		{"shared task type", []Activity{base(), func() Activity { a := base(); a.ID = "b"; return a }()}, "share task type"},
		{"missing category", []Activity{func() Activity { a := base(); a.Category = ""; return a }()}, "Category"},
		{"bad status", []Activity{func() Activity { a := base(); a.ImplementationStatus = "x"; return a }()}, "invalid status"},
		{"bad timeout", []Activity{func() Activity { a := base(); a.Timeout = "x"; return a }()}, "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: tt.activities}
			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// ==========================
// Load / Save
// ==========================

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")
	reg := &ActivityRegistry{Version: "1.0.0"}
	reg.Sync(Classification(), fixedNow)

	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg.LastUpdated, loaded.LastUpdated)
	require.Len(t, loaded.Activities, 2)
	assert.Equal(t, "classify-batch", loaded.Activities[1].TaskType)
	require.NoError(t, loaded.Validate())
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
