// Package rewrite provides a parallel batch text-rewriting engine.
//
// Given a set of input files and a rule set, it performs a single pass
// over each file replacing every occurrence of a configured source
// string with its target string, except inside declared protected
// regions (code fences, math environments, and the like), and rewrites
// each changed file in place.
//
// # Basic Usage
//
// Create an engine with the builtin punctuation rules and run it over a
// set of files:
//
//	engine, err := rewrite.NewEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	results := engine.Run([]string{"notes.md", "chapter1.tex"})
//	for _, res := range results {
//	    if !res.OK {
//	        fmt.Printf("%s: %s\n", res.FilePath, res.ErrMsg)
//	    }
//	}
//
// # Custom Rules
//
// Load rules from a file (statement DSL or YAML) instead:
//
//	cfg, err := rule.NewLoader().Load("my.rules")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine, err := rewrite.NewEngine(rewrite.WithConfig(cfg))
//
// # In-Memory Rewriting
//
// RewriteString applies the same rules to a string without touching the
// filesystem, honoring protected regions:
//
//	out, n := engine.RewriteString("hello, world.")
package rewrite

import (
	"github.com/praetorian-inc/rewrite/pkg/matcher"
	"github.com/praetorian-inc/rewrite/pkg/pager"
	"github.com/praetorian-inc/rewrite/pkg/processor"
	"github.com/praetorian-inc/rewrite/pkg/rule"
	"github.com/praetorian-inc/rewrite/pkg/scanner"
	"github.com/praetorian-inc/rewrite/pkg/types"
)

// Re-export commonly used types for convenience, so users can import
// just "github.com/praetorian-inc/rewrite" without subpackages.
type (
	// ProcessingResult is the per-file outcome of a Run.
	ProcessingResult = types.ProcessingResult

	// ReplacementMap is the configured set of pattern -> replacement rules.
	ReplacementMap = types.ReplacementMap

	// ProtectedRegionSpec is one configured (start, end) marker pair.
	ProtectedRegionSpec = types.ProtectedRegionSpec
)

// Engine ties the rule set, compiled matcher, and processing pipeline
// together behind one handle. An Engine is safe for repeated Run calls;
// each call processes an independent batch.
type Engine struct {
	config  *rule.Config
	matcher *matcher.Matcher
	scanner *scanner.Core
	proc    *processor.Processor
	opts    engineOptions
}

type engineOptions struct {
	config     *rule.Config
	pageSize   int
	maxThreads int
	observer   func(types.ProcessingResult)
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithConfig uses a parsed rule configuration instead of the builtin
// punctuation ruleset.
func WithConfig(cfg *rule.Config) Option {
	return func(o *engineOptions) {
		o.config = cfg
	}
}

// WithPageSize overrides the target page size in runes. Non-positive
// values keep the default.
func WithPageSize(runes int) Option {
	return func(o *engineOptions) {
		o.pageSize = runes
	}
}

// WithMaxThreads caps the worker count for Run. Zero (the default) sizes
// the pool automatically from the file count and CPU count.
func WithMaxThreads(n int) Option {
	return func(o *engineOptions) {
		o.maxThreads = n
	}
}

// WithObserver registers fn to be called once per file as it finishes,
// while the rest of the batch is still running. fn must be safe for
// concurrent use.
func WithObserver(fn func(types.ProcessingResult)) Option {
	return func(o *engineOptions) {
		o.observer = fn
	}
}

// NewEngine builds an Engine. With no options it loads the builtin
// punctuation ruleset.
func NewEngine(opts ...Option) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.config
	if cfg == nil {
		var err error
		cfg, err = rule.NewLoader().LoadBuiltin()
		if err != nil {
			return nil, err
		}
	}

	m := matcher.Build(cfg.Replacements, cfg.Deletions)
	proc := processor.New(m, cfg.Protected, o.pageSize)
	if o.observer != nil {
		proc.SetObserver(o.observer)
	}

	return &Engine{
		config:  cfg,
		matcher: m,
		scanner: scanner.New(cfg.Protected),
		proc:    proc,
		opts:    o,
	}, nil
}

// Run processes the given files in place and returns one result per
// input path, in input order. Files whose replacement count is zero are
// left byte-for-byte unchanged on disk.
func (e *Engine) Run(paths []string) []ProcessingResult {
	return e.proc.Process(paths, e.opts.maxThreads)
}

// RewriteString applies the engine's rules to s in memory, honoring
// protected regions, and returns the rewritten text and the replacement
// count. The filesystem is not touched.
func (e *Engine) RewriteString(s string) (string, int) {
	content := []rune(s)
	intervals := e.scanner.Scan(content)
	pages := pager.New(e.opts.pageSize).Page(content, intervals)

	out := make([]rune, 0, len(content))
	total := 0
	for _, pg := range pages {
		text := content[pg.StartPos:pg.EndPos]
		if pg.IsProtected {
			out = append(out, text...)
			continue
		}
		processed, n := e.matcher.Apply(text)
		out = append(out, processed...)
		total += n
	}
	return string(out), total
}
