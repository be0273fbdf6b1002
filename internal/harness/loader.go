package harness

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"uatharness/pkg/logging"
)

//go:embed scenarios/*.yaml
var embeddedScenarios embed.FS

const suiteFileName = "suites.yaml"

// Library holds the loaded scenario and suite definitions.
type Library struct {
	scenarios map[string]*Scenario
	suites    map[string]*Suite
}

// NewLibrary builds a library from in-memory definitions.
func NewLibrary(scenarios []*Scenario, suites []*Suite) *Library {
	lib := &Library{
		scenarios: make(map[string]*Scenario, len(scenarios)),
		suites:    make(map[string]*Suite, len(suites)),
	}
	for _, s := range scenarios {
		lib.scenarios[s.Name] = s
	}
	for _, s := range suites {
		lib.suites[s.Name] = s
	}
	return lib
}

// LoadLibrary loads the embedded scenario set and, if overrideDir is
// non-empty, merges *.yaml files from that directory on top. Overrides
// with the same name replace the embedded definition.
func LoadLibrary(registry *Registry, overrideDir string) (*Library, error) {
	lib := &Library{
		scenarios: make(map[string]*Scenario),
		suites:    make(map[string]*Suite),
	}

	if err := lib.loadFS(embeddedScenarios, "scenarios"); err != nil {
		return nil, fmt.Errorf("failed to load embedded scenarios: %w", err)
	}

	if overrideDir != "" {
		if err := lib.loadFS(os.DirFS(overrideDir), "."); err != nil {
			return nil, fmt.Errorf("failed to load scenarios from %s: %w", overrideDir, err)
		}
	}

	for _, scenario := range lib.scenarios {
		if err := scenario.Validate(registry); err != nil {
			return nil, err
		}
	}
	for _, suite := range lib.suites {
		if err := suite.Validate(lib.scenarios); err != nil {
			return nil, err
		}
	}

	logging.Debug("harness", "loaded %d scenarios and %d suites", len(lib.scenarios), len(lib.suites))
	return lib, nil
}

func (l *Library) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name())))
		if err != nil {
			return err
		}
		if entry.Name() == suiteFileName {
			if err := l.parseSuites(data); err != nil {
				return fmt.Errorf("%s: %w", entry.Name(), err)
			}
			continue
		}
		if err := l.parseScenario(data); err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}
	}
	return nil
}

func (l *Library) parseScenario(data []byte) error {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return err
	}
	if scenario.Name == "" {
		return fmt.Errorf("scenario file has no name field")
	}
	l.scenarios[scenario.Name] = &scenario
	return nil
}

func (l *Library) parseSuites(data []byte) error {
	var doc struct {
		Suites []*Suite `yaml:"suites"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, suite := range doc.Suites {
		l.suites[suite.Name] = suite
	}
	return nil
}

// Scenario returns the named scenario.
func (l *Library) Scenario(name string) (*Scenario, bool) {
	s, ok := l.scenarios[name]
	return s, ok
}

// Suite returns the named suite.
func (l *Library) Suite(name string) (*Suite, bool) {
	s, ok := l.suites[name]
	return s, ok
}

// ScenarioNames returns all scenario names, sorted.
func (l *Library) ScenarioNames() []string {
	names := make([]string, 0, len(l.scenarios))
	for name := range l.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuiteNames returns all suite names, sorted.
func (l *Library) SuiteNames() []string {
	names := make([]string, 0, len(l.suites))
	for name := range l.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
