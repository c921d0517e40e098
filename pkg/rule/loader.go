package rule

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader reads rule files from disk and dispatches to the right parser by
// extension.
type Loader struct{}

// NewLoader constructs a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads path and parses it: ".yml"/".yaml" uses the structured form,
// anything else is parsed as the statement DSL.
func (l *Loader) Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rule: reading %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return ParseYAML(raw)
	default:
		return ParseDSL(string(raw))
	}
}

// LoadBuiltin returns the embedded default ruleset, used when a run is
// not given an explicit rule file.
func (l *Loader) LoadBuiltin() (*Config, error) {
	raw, err := defaultsFS.ReadFile("defaults/punctuation.rules")
	if err != nil {
		return nil, fmt.Errorf("rule: reading builtin ruleset: %w", err)
	}
	return ParseDSL(string(raw))
}
