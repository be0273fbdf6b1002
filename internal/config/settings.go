package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadSettings parses test defaults from a local settings file. The format
// is `key = "value"` lines inside a markdown document; anything that is not
// such a line (headings, prose, comments) is ignored.
//
// A missing or unreadable file is a soft error: the caller gets the error
// back as data and decides what to do, the process never aborts over it.
func LoadSettings(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load test settings: %w", err)
	}
	defer f.Close()

	settings := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		settings[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read test settings: %w", err)
	}

	return settings, nil
}
