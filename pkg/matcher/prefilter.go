package matcher

import "github.com/cloudflare/ahocorasick"

// Prefilter is a fast pre-check answering "could any configured pattern
// possibly occur in this text?" using Aho-Corasick over the literal
// pattern set: before running the trie over a page, ask whether any
// pattern's exact text appears at all.
//
// Because every pattern is itself one of the keywords fed to the
// Aho-Corasick matcher, "no keyword hit" is equivalent to "no pattern can
// match anywhere in this text". The prefilter can only produce false
// positives (a keyword hit that the trie then fails to turn into a
// replacement, e.g. inside a longer non-matching context), never false
// negatives.
type Prefilter struct {
	matcher *ahocorasick.Matcher
}

// NewPrefilter builds a prefilter over the given literal patterns. An
// empty pattern set produces a Prefilter whose MayMatch always reports
// false.
func NewPrefilter(patterns []string) *Prefilter {
	if len(patterns) == 0 {
		return &Prefilter{}
	}
	return &Prefilter{matcher: ahocorasick.NewStringMatcher(patterns)}
}

// MayMatch reports whether text could possibly contain an occurrence of
// any configured pattern. A false result means the trie walk can be
// skipped outright.
func (p *Prefilter) MayMatch(text []rune) bool {
	if p == nil || p.matcher == nil {
		return false
	}
	hits := p.matcher.Match([]byte(string(text)))
	return len(hits) > 0
}
