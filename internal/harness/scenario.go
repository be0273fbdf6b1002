package harness

import (
	"fmt"
)

// Step is one operation invocation inside a scenario.
type Step struct {
	// ID names the step so later steps can reference its result via
	// ${steps.<id>.<field>}. Optional for steps nothing refers to.
	ID string `yaml:"id,omitempty" json:"id,omitempty"`
	// Description is shown in reports. Defaults to the operation name.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Operation is the registry name of the operation to invoke.
	Operation string `yaml:"operation" json:"operation"`
	// Args are the operation arguments, possibly containing placeholders.
	Args map[string]interface{} `yaml:"args,omitempty" json:"args,omitempty"`
	// Critical marks steps whose failure fails the whole scenario under
	// the default pass rule.
	Critical bool `yaml:"critical,omitempty" json:"critical,omitempty"`
}

// Pass rule modes.
const (
	// PassModeCritical passes the scenario unless a critical step failed.
	PassModeCritical = "critical"
	// PassModeThreshold passes the scenario when the fraction of passed
	// steps meets the threshold.
	PassModeThreshold = "threshold"
)

// PassRule decides a scenario's overall status from its step results.
type PassRule struct {
	Mode      string  `yaml:"mode,omitempty" json:"mode,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// Scenario is a declarative test case: an ordered list of steps plus
// cleanup steps that always run.
type Scenario struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	// Params are default parameter values, overridable per invocation.
	Params  map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	Steps   []Step            `yaml:"steps" json:"steps"`
	Cleanup []Step            `yaml:"cleanup,omitempty" json:"cleanup,omitempty"`
	Pass    PassRule          `yaml:"pass,omitempty" json:"pass,omitempty"`
}

// Suite is an ordered collection of scenarios with a pass threshold.
type Suite struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	// Threshold is the minimum fraction of passed scenarios, in [0, 1].
	Threshold float64  `yaml:"threshold" json:"threshold"`
	Scenarios []string `yaml:"scenarios" json:"scenarios"`
}

// Validate checks a scenario against the registry it will run on.
func (s *Scenario) Validate(registry *Registry) error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}

	seen := make(map[string]bool)
	check := func(kind string, steps []Step) error {
		for i, step := range steps {
			if step.Operation == "" {
				return fmt.Errorf("scenario %q: %s step %d has no operation", s.Name, kind, i+1)
			}
			if _, ok := registry.Lookup(step.Operation); !ok {
				return fmt.Errorf("scenario %q: %s step %d references unknown operation %q", s.Name, kind, i+1, step.Operation)
			}
			if step.ID != "" {
				if seen[step.ID] {
					return fmt.Errorf("scenario %q: duplicate step id %q", s.Name, step.ID)
				}
				seen[step.ID] = true
			}
		}
		return nil
	}
	if err := check("test", s.Steps); err != nil {
		return err
	}
	if err := check("cleanup", s.Cleanup); err != nil {
		return err
	}

	switch s.Pass.Mode {
	case "", PassModeCritical:
	case PassModeThreshold:
		if s.Pass.Threshold < 0 || s.Pass.Threshold > 1 {
			return fmt.Errorf("scenario %q: pass threshold %v outside [0, 1]", s.Name, s.Pass.Threshold)
		}
	default:
		return fmt.Errorf("scenario %q: unknown pass mode %q", s.Name, s.Pass.Mode)
	}
	return nil
}

// Validate checks a suite against the loaded scenario set.
func (s *Suite) Validate(scenarios map[string]*Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("suite has no name")
	}
	if len(s.Scenarios) == 0 {
		return fmt.Errorf("suite %q has no scenarios", s.Name)
	}
	if s.Threshold < 0 || s.Threshold > 1 {
		return fmt.Errorf("suite %q: threshold %v outside [0, 1]", s.Name, s.Threshold)
	}
	for _, name := range s.Scenarios {
		if _, ok := scenarios[name]; !ok {
			return fmt.Errorf("suite %q references unknown scenario %q", s.Name, name)
		}
	}
	return nil
}
