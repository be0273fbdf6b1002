package harness

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches ${params.name} and ${steps.id.path.to.field}
// references inside step argument values.
var placeholderPattern = regexp.MustCompile(`\$\{([a-zA-Z0-9_.-]+)\}`)

// ScenarioContext holds the state visible to step argument templates:
// the invocation parameters and the results of completed steps. Step
// results are stored as generic JSON shapes so templates can navigate
// into any field regardless of the Go type the operation returned.
type ScenarioContext struct {
	params map[string]string
	steps  map[string]interface{}
}

// NewScenarioContext creates a context seeded with params.
func NewScenarioContext(params map[string]string) *ScenarioContext {
	if params == nil {
		params = make(map[string]string)
	}
	return &ScenarioContext{
		params: params,
		steps:  make(map[string]interface{}),
	}
}

// Param returns the named parameter, or "" if absent.
func (c *ScenarioContext) Param(name string) string {
	return c.params[name]
}

// RecordStep stores a completed step's result for later template access.
// The value is normalized through JSON so both structs and maps resolve
// the same way.
func (c *ScenarioContext) RecordStep(id string, value interface{}) {
	if id == "" {
		return
	}
	c.steps[id] = normalize(value)
}

func normalize(value interface{}) interface{} {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return value
	}
	return out
}

// ResolveArgs returns a copy of args with every placeholder resolved.
// A value that consists of exactly one placeholder keeps the referenced
// value's type; placeholders embedded in longer strings are rendered
// with their string representation.
func (c *ScenarioContext) ResolveArgs(args map[string]interface{}) (map[string]interface{}, error) {
	resolved := make(map[string]interface{}, len(args))
	for key, value := range args {
		v, err := c.resolveValue(value)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", key, err)
		}
		resolved[key] = v
	}
	return resolved, nil
}

func (c *ScenarioContext) resolveValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return c.resolveString(v)
	case map[string]interface{}:
		return c.ResolveArgs(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			resolved, err := c.resolveValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}

func (c *ScenarioContext) resolveString(s string) (interface{}, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	// Whole-string placeholder keeps the referenced type.
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		return c.lookup(s[matches[0][2]:matches[0][3]])
	}

	var firstErr error
	result := placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
		ref := m[2 : len(m)-1]
		value, err := c.lookup(ref)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return m
		}
		return fmt.Sprintf("%v", value)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return result, nil
}

func (c *ScenarioContext) lookup(ref string) (interface{}, error) {
	parts := strings.Split(ref, ".")
	switch {
	case parts[0] == "params" && len(parts) == 2:
		value, ok := c.params[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", parts[1])
		}
		return value, nil
	case parts[0] == "steps" && len(parts) >= 2:
		root, ok := c.steps[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown step %q", parts[1])
		}
		return navigate(root, parts[2:])
	default:
		return nil, fmt.Errorf("unsupported reference %q", ref)
	}
}

func navigate(value interface{}, path []string) (interface{}, error) {
	for _, field := range path {
		switch v := value.(type) {
		case map[string]interface{}:
			next, ok := v[field]
			if !ok {
				return nil, fmt.Errorf("field %q not found in step result", field)
			}
			value = next
		case []interface{}:
			index, err := strconv.Atoi(field)
			if err != nil || index < 0 || index >= len(v) {
				return nil, fmt.Errorf("invalid list index %q (length %d)", field, len(v))
			}
			value = v[index]
		default:
			return nil, fmt.Errorf("cannot access field %q on scalar value", field)
		}
	}
	return value, nil
}
