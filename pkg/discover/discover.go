// Package discover resolves the paths named on a run's command line
// (literal files, directories, and glob patterns) into the final,
// deduplicated file list the Processor consumes: a fast sequential walk
// followed by a parallel filter phase.
package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// IgnoreFileName is the per-tree exclusion file, with .gitignore pattern
// syntax.
const IgnoreFileName = ".rewriteignore"

// Options controls discovery behavior.
type Options struct {
	IncludeHidden  bool  // visit dotfiles and dot-directories
	FollowSymlinks bool  // keep symlinked files; symlinked directories are never descended
	MaxFileSize    int64 // skip files larger than this (0 = no limit)

	// FollowIncludes, when true, resolves LaTeX-style \include{...} and
	// \input{...} directives found in discovered files and adds their
	// targets to the result, recursively.
	FollowIncludes bool
}

var includeDirective = regexp.MustCompile(`\\(?:include|input)\{([^}]+)\}`)

// Discover resolves roots, a mix of literal file paths, directories, and
// doublestar glob patterns, into a sorted, deduplicated list of regular
// file paths.
func Discover(ctx context.Context, roots []string, opts Options) ([]string, error) {
	var candidates []string
	for _, root := range roots {
		expanded, err := expandRoot(root, opts)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, expanded...)
	}

	filtered, err := filterCandidates(ctx, candidates, opts)
	if err != nil {
		return nil, err
	}

	if opts.FollowIncludes {
		filtered, err = followIncludes(filtered, opts)
		if err != nil {
			return nil, err
		}
	}

	return dedupSorted(filtered), nil
}

// expandRoot turns one command-line argument into a list of candidate
// file paths: a literal file passes through unchanged, a directory is
// walked, and anything containing glob metacharacters is expanded with
// doublestar.
func expandRoot(root string, opts Options) ([]string, error) {
	if doublestar.ValidatePattern(root) && containsMeta(root) {
		base, pattern := doublestar.SplitPattern(root)
		matches, err := doublestar.Glob(os.DirFS(base), pattern)
		if err != nil {
			return nil, fmt.Errorf("discover: expanding pattern %q: %w", root, err)
		}
		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = filepath.Join(base, m)
		}
		return out, nil
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	return walkDir(root, opts)
}

func containsMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// walkDir is phase 1: a fast, sequential
// filepath.Walk collecting eligible file paths while honoring a
// per-tree .rewriteignore.
func walkDir(root string, opts Options) ([]string, error) {
	var ignore *gitignore.GitIgnore
	ignorePath := filepath.Join(root, IgnoreFileName)
	if _, err := os.Stat(ignorePath); err == nil {
		ignore, _ = gitignore.CompileIgnoreFile(ignorePath)
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && isHidden(info.Name()) && !opts.IncludeHidden {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(info.Name()) && !opts.IncludeHidden {
			return nil
		}
		if ignore != nil {
			rel, err := filepath.Rel(root, path)
			if err == nil && ignore.MatchesPath(rel) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// filterCandidates is phase 2: a parallel stat/filter
// pass over candidate paths, applying the symlink and size filters that
// require a stat call per file.
func filterCandidates(ctx context.Context, candidates []string, opts Options) ([]string, error) {
	type result struct {
		path string
		keep bool
	}

	results := make([]result, len(candidates))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range candidates {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			info, err := os.Lstat(path)
			if err != nil {
				return nil // vanished between walk and stat; skip silently
			}
			if info.Mode()&os.ModeSymlink != 0 {
				if !opts.FollowSymlinks {
					return nil
				}
				info, err = os.Stat(path)
				if err != nil {
					return nil
				}
			}
			if info.IsDir() {
				return nil
			}
			if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
				return nil
			}
			results[i] = result{path: path, keep: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.keep {
			out = append(out, r.path)
		}
	}
	return out, nil
}

// followIncludes sweeps for LaTeX-style \include{...}/\input{...}
// directives with a worklist that also scans every newly added target,
// until no new file is found, adding resolved targets to the file set.
func followIncludes(files []string, opts Options) ([]string, error) {
	seen := make(map[string]bool, len(files))
	queue := make([]string, len(files))
	copy(queue, files)
	for _, f := range files {
		seen[f] = true
	}

	all := append([]string(nil), files...)
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		raw, err := os.ReadFile(path)
		if err != nil {
			continue // unreadable; the Processor will surface this later
		}
		for _, m := range includeDirective.FindAllStringSubmatch(string(raw), -1) {
			target := resolveInclude(filepath.Dir(path), m[1])
			if target == "" || seen[target] {
				continue
			}
			seen[target] = true
			all = append(all, target)
			queue = append(queue, target)
		}
	}
	return all, nil
}

// resolveInclude finds the file a LaTeX include target refers to,
// trying the name as given and with a ".tex" suffix.
func resolveInclude(dir, name string) string {
	candidates := []string{name, name + ".tex"}
	for _, c := range candidates {
		full := filepath.Join(dir, c)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return full
		}
	}
	return ""
}

func dedupSorted(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
