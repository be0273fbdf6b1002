package harness

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uatharness/internal/config"
	"uatharness/internal/platform"
)

func depsWithBackend(t *testing.T, handler http.Handler) *Deps {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		Host:                backend.URL,
		APIKey:              "test-key",
		DefaultHardwareTier: "small",
		RestrictedPolicy:    config.RestrictedWarn,
		HTTPTimeout:         5 * time.Second,
	}
	return &Deps{Client: platform.NewClient(cfg), Config: cfg}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]interface{}{
		"name":     "demo",
		"empty":    "",
		"count":    float64(7),
		"countStr": "12",
		"flag":     true,
		"flagStr":  "true",
		"wait":     "30s",
		"waitNum":  15,
	}

	assert.Equal(t, "demo", stringArg(args, "name", "fallback"))
	assert.Equal(t, "fallback", stringArg(args, "empty", "fallback"))
	assert.Equal(t, "fallback", stringArg(args, "absent", "fallback"))

	assert.Equal(t, 7, intArg(args, "count", 1))
	assert.Equal(t, 12, intArg(args, "countStr", 1))
	assert.Equal(t, 1, intArg(args, "absent", 1))

	assert.True(t, boolArg(args, "flag", false))
	assert.True(t, boolArg(args, "flagStr", false))
	assert.False(t, boolArg(args, "absent", false))

	assert.Equal(t, 30*time.Second, durationArg(args, "wait", time.Minute))
	assert.Equal(t, 15*time.Second, durationArg(args, "waitNum", time.Minute))
	assert.Equal(t, time.Minute, durationArg(args, "absent", time.Minute))

	_, err := requiredStringArg(args, "empty")
	assert.Error(t, err)
	got, err := requiredStringArg(args, "name")
	require.NoError(t, err)
	assert.Equal(t, "demo", got)
}

func TestBuiltinRegistryNames(t *testing.T) {
	registry := BuiltinRegistry()

	for _, name := range []string{
		"project.ensure", "run.start", "run.wait", "dataset.upload",
		"workspace.wait_running", "environment.wait_build",
		"hardware.resolve", "admin.executions", "util.unique_name",
	} {
		_, ok := registry.Lookup(name)
		assert.True(t, ok, "operation %s", name)
	}
	assert.NotEmpty(t, registry.Names())
}

func TestProjectEnsureCreatesWhenMissing(t *testing.T) {
	created := false
	mux := http.NewServeMux()
	mux.HandleFunc("/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			created = true
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "p-new", "name": "demo"})
			return
		}
		// No existing projects.
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	})
	deps := depsWithBackend(t, mux)

	result, err := opProjectEnsure(context.Background(), deps, map[string]interface{}{
		"user_name":    "alice",
		"project_name": "demo",
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "p-new", result.(*platform.Project).ID)
}

func TestProjectEnsureReturnsExisting(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v4/projects", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method, "an existing project must not be recreated")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "p-1", "name": "demo", "ownerUsername": "alice"},
		})
	})
	deps := depsWithBackend(t, mux)

	result, err := opProjectEnsure(context.Background(), deps, map[string]interface{}{
		"user_name":    "alice",
		"project_name": "demo",
	})

	require.NoError(t, err)
	assert.Equal(t, "p-1", result.(*platform.Project).ID)
}

func TestRunStartResolvesHardwareTier(t *testing.T) {
	var startReq map[string]interface{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v4/hardwareTiers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "small-k8s", "name": "Small"},
		})
	})
	mux.HandleFunc("/v1/projects/alice/demo/runs", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&startReq))
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "run-1", "status": "Queued"})
	})
	deps := depsWithBackend(t, mux)

	result, err := opRunStart(context.Background(), deps, map[string]interface{}{
		"user_name":     "alice",
		"project_name":  "demo",
		"command":       "python main.py",
		"hardware_tier": "small",
	})

	require.NoError(t, err)
	assert.Equal(t, "run-1", result.(*platform.Run).ID)
	assert.Equal(t, "small-k8s", startReq["hardwareTierId"])
	assert.Equal(t, []interface{}{"python", "main.py"}, startReq["command"])
}

func TestRunWaitSucceedsOnTerminalRun(t *testing.T) {
	checks := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/alice/demo/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		checks++
		status := "Running"
		if checks >= 2 {
			status = "Succeeded"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "run-1", "status": status})
	})
	deps := depsWithBackend(t, mux)

	result, err := opRunWait(context.Background(), deps, map[string]interface{}{
		"user_name":    "alice",
		"project_name": "demo",
		"run_id":       "run-1",
		"interval":     "10ms",
		"timeout":      "2s",
	})

	require.NoError(t, err)
	assert.Equal(t, platform.RunStatusSucceeded, result.(*platform.Run).Status)
	assert.GreaterOrEqual(t, checks, 2)
}

func TestRunWaitFailsOnFailedRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/projects/alice/demo/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "run-1", "status": "Failed"})
	})
	deps := depsWithBackend(t, mux)

	_, err := opRunWait(context.Background(), deps, map[string]interface{}{
		"user_name":    "alice",
		"project_name": "demo",
		"run_id":       "run-1",
		"interval":     "10ms",
		"timeout":      "1s",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed")
}

func TestUtilUniqueName(t *testing.T) {
	first, err := opUtilUniqueName(context.Background(), nil, map[string]interface{}{"prefix": "uat-ds"})
	require.NoError(t, err)
	second, err := opUtilUniqueName(context.Background(), nil, map[string]interface{}{"prefix": "uat-ds"})
	require.NoError(t, err)

	a := first.(map[string]interface{})["name"].(string)
	b := second.(map[string]interface{})["name"].(string)
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "uat-ds-")
}
