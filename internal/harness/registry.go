package harness

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"uatharness/internal/config"
	"uatharness/internal/platform"
)

// Deps carries the shared dependencies every operation needs. One Deps
// value is built at startup and reused for all invocations.
type Deps struct {
	Client *platform.Client
	Config *config.Config
}

// OperationFunc is a named operation invocable from a scenario step. The
// args map holds the step's template-resolved arguments.
type OperationFunc func(ctx context.Context, deps *Deps, args map[string]interface{}) (interface{}, error)

// Registry maps operation names to their implementations.
type Registry struct {
	ops map[string]OperationFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]OperationFunc)}
}

// Register adds an operation under name, replacing any previous entry.
func (r *Registry) Register(name string, fn OperationFunc) {
	r.ops[name] = fn
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (OperationFunc, bool) {
	fn, ok := r.ops[name]
	return fn, ok
}

// Names returns all registered operation names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Argument helpers. Scenario arguments arrive as interface{} values from
// YAML or template resolution, so every accessor tolerates the usual
// scalar representations.

func stringArg(args map[string]interface{}, key, fallback string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return fallback
		}
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func requiredStringArg(args map[string]interface{}, key string) (string, error) {
	s := stringArg(args, key, "")
	if s == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolArg(args map[string]interface{}, key string, fallback bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return fallback
}

func durationArg(args map[string]interface{}, key string, fallback time.Duration) time.Duration {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback
	}
	switch d := v.(type) {
	case string:
		if parsed, err := time.ParseDuration(d); err == nil {
			return parsed
		}
	case int:
		return time.Duration(d) * time.Second
	case float64:
		return time.Duration(d * float64(time.Second))
	}
	return fallback
}
