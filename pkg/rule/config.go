// Package rule lexes and parses the statement-based rule DSL and a
// sibling YAML ruleset format into the (ReplacementMap,
// []ProtectedRegionSpec) pair the core pipeline consumes.
package rule

import "github.com/praetorian-inc/rewrite/pkg/types"

// Config is the accumulated result of parsing a rule source: a
// replacement map, a side set of bare deletions (DEL's empty-replacement
// sugar, kept separate so ReplacementMap's "both non-empty" invariant
// never needs relaxing), and an ordered list of protected-region specs.
//
// CLEAR() statements reset all three fields to empty mid-parse, which is
// why Config is built incrementally rather than assembled once at the
// end.
type Config struct {
	Replacements *types.ReplacementMap
	Deletions    map[string]struct{}
	Protected    []types.ProtectedRegionSpec
}

func newConfig() *Config {
	return &Config{
		Replacements: types.NewReplacementMap(),
		Deletions:    make(map[string]struct{}),
	}
}

func (c *Config) clear() {
	c.Replacements = types.NewReplacementMap()
	c.Deletions = make(map[string]struct{})
	c.Protected = nil
}
