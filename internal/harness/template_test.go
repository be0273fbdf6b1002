package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"ownerUsername"`
}

func TestResolveArgsParams(t *testing.T) {
	ctx := NewScenarioContext(map[string]string{"user_name": "alice", "project_name": "demo"})

	resolved, err := ctx.ResolveArgs(map[string]interface{}{
		"user_name": "${params.user_name}",
		"title":     "job for ${params.project_name}",
		"plain":     "untouched",
		"count":     3,
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", resolved["user_name"])
	assert.Equal(t, "job for demo", resolved["title"])
	assert.Equal(t, "untouched", resolved["plain"])
	assert.Equal(t, 3, resolved["count"])
}

func TestResolveArgsStepFields(t *testing.T) {
	ctx := NewScenarioContext(nil)
	ctx.RecordStep("project", fakeProject{ID: "p-123", Name: "demo", Owner: "alice"})

	resolved, err := ctx.ResolveArgs(map[string]interface{}{
		"project_id": "${steps.project.id}",
		"label":      "owned by ${steps.project.ownerUsername}",
	})

	require.NoError(t, err)
	assert.Equal(t, "p-123", resolved["project_id"])
	assert.Equal(t, "owned by alice", resolved["label"])
}

func TestResolveArgsListIndex(t *testing.T) {
	ctx := NewScenarioContext(nil)
	ctx.RecordStep("environments", []fakeProject{{ID: "env-1"}, {ID: "env-2"}})

	resolved, err := ctx.ResolveArgs(map[string]interface{}{
		"environment_id": "${steps.environments.1.id}",
	})

	require.NoError(t, err)
	assert.Equal(t, "env-2", resolved["environment_id"])
}

func TestResolveArgsNestedValues(t *testing.T) {
	ctx := NewScenarioContext(map[string]string{"name": "demo"})

	resolved, err := ctx.ResolveArgs(map[string]interface{}{
		"body": map[string]interface{}{
			"name": "${params.name}",
			"tags": []interface{}{"${params.name}", "static"},
		},
	})

	require.NoError(t, err)
	body := resolved["body"].(map[string]interface{})
	assert.Equal(t, "demo", body["name"])
	assert.Equal(t, []interface{}{"demo", "static"}, body["tags"])
}

func TestResolveArgsUnknownParameter(t *testing.T) {
	ctx := NewScenarioContext(nil)

	_, err := ctx.ResolveArgs(map[string]interface{}{"user": "${params.user_name}"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_name")
}

func TestResolveArgsUnknownStep(t *testing.T) {
	ctx := NewScenarioContext(nil)

	_, err := ctx.ResolveArgs(map[string]interface{}{"id": "${steps.missing.id}"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestWholeStringPlaceholderKeepsType(t *testing.T) {
	ctx := NewScenarioContext(nil)
	ctx.RecordStep("tiers", map[string]interface{}{"count": 4})

	resolved, err := ctx.ResolveArgs(map[string]interface{}{"count": "${steps.tiers.count}"})

	require.NoError(t, err)
	// JSON normalization turns numbers into float64.
	assert.Equal(t, float64(4), resolved["count"])
}

func TestRecordStepIgnoresEmptyID(t *testing.T) {
	ctx := NewScenarioContext(nil)
	ctx.RecordStep("", "value")

	_, err := ctx.ResolveArgs(map[string]interface{}{"v": "${steps..field}"})
	assert.Error(t, err)
}
