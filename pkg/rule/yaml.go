package rule

import (
	"fmt"

	"github.com/praetorian-inc/rewrite/pkg/types"
	"gopkg.in/yaml.v3"
)

// yamlRuleset is the sibling declarative form of the DSL, for teams that
// prefer a structured config file over statements.
type yamlRuleset struct {
	Replacements []yamlReplacement `yaml:"replacements"`
	Protected    []yamlProtected   `yaml:"protected"`
}

type yamlReplacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type yamlProtected struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// ParseYAML parses the YAML ruleset form into a Config. A replacement
// entry with an empty "to" is treated as a DEL, mirroring the DSL's
// REPLACE/DEL split without requiring a separate YAML section.
func ParseYAML(src []byte) (*Config, error) {
	var doc yamlRuleset
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("rule: parsing yaml ruleset: %w", err)
	}

	cfg := newConfig()
	for _, r := range doc.Replacements {
		if r.To == "" {
			cfg.Deletions[r.From] = struct{}{}
			continue
		}
		if err := cfg.Replacements.Add(r.From, r.To); err != nil {
			return nil, err
		}
	}
	for _, p := range doc.Protected {
		cfg.Protected = append(cfg.Protected, types.ProtectedRegionSpec{
			StartMarker: []rune(p.Start),
			EndMarker:   []rune(p.End),
		})
	}
	return cfg, nil
}
