// Package match resolves text extracted from model analysis against live
// document content. All matching is pure: candidates go in, a scored result
// comes out, and tracking which candidates have already been consumed is
// the caller's responsibility.
package match

import (
	"strings"
)

// DefaultThreshold is the similarity score a candidate must meet before a
// fuzzy match is accepted.
const DefaultThreshold = 0.6

// Strategy identifies how a match was produced.
type Strategy string

const (
	StrategyExact      Strategy = "exact"
	StrategySimilarity Strategy = "similarity"
	StrategyKeyword    Strategy = "keyword"
)

// Candidate is one matchable document element, addressed by its position
// in whatever collection the caller is resolving against.
type Candidate struct {
	Index int
	Text  string
}

// Result describes a resolved match. When multiple candidates tie at the
// winning score, the first in document order wins, Ambiguous is set, and
// the losing indices are listed in Runners so callers can surface the
// ambiguity in diagnostics.
type Result struct {
	Index     int
	Score     float64
	Strategy  Strategy
	Ambiguous bool
	Runners   []int
}

// Engine holds matching configuration.
type Engine struct {
	Threshold float64
}

// New returns an Engine with the given similarity threshold; zero or
// negative falls back to DefaultThreshold.
func New(threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{Threshold: threshold}
}

// Normalize lower-cases and collapses all whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Jaccard computes word-set similarity between two strings after
// normalization. It returns 0 when either side has no tokens, so empty
// content never matches anything.
func Jaccard(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Exact finds the first candidate whose normalized text contains the
// normalized target. An empty target matches nothing.
func (e *Engine) Exact(target string, candidates []Candidate) (Result, bool) {
	needle := Normalize(target)
	if needle == "" {
		return Result{}, false
	}
	for _, c := range candidates {
		if strings.Contains(Normalize(c.Text), needle) {
			return Result{Index: c.Index, Score: 1, Strategy: StrategyExact}, true
		}
	}
	return Result{}, false
}

// Similar scores every candidate against the target with Jaccard similarity
// and returns the best one at or above the engine threshold. Ties at the
// winning score keep the earliest candidate and mark the result ambiguous.
func (e *Engine) Similar(target string, candidates []Candidate) (Result, bool) {
	best := Result{Index: -1, Strategy: StrategySimilarity}
	for _, c := range candidates {
		score := Jaccard(target, c.Text)
		if score < e.Threshold {
			continue
		}
		switch {
		case best.Index < 0 || score > best.Score:
			best.Index = c.Index
			best.Score = score
			best.Ambiguous = false
			best.Runners = nil
		case score == best.Score:
			best.Ambiguous = true
			best.Runners = append(best.Runners, c.Index)
		}
	}
	if best.Index < 0 {
		return Result{}, false
	}
	return best, true
}

// Best scores every candidate and returns the winner regardless of the
// threshold. Callers use it to report the best score found when Similar
// rejects everything. ok is false only when there are no candidates.
func (e *Engine) Best(target string, candidates []Candidate) (Result, bool) {
	best := Result{Index: -1, Strategy: StrategySimilarity}
	for _, c := range candidates {
		score := Jaccard(target, c.Text)
		if best.Index < 0 || score > best.Score {
			best.Index = c.Index
			best.Score = score
		}
	}
	if best.Index < 0 {
		return Result{}, false
	}
	return best, true
}

// Keyword finds the first candidate containing any of the given keywords,
// case-insensitively. Empty keywords are skipped.
func (e *Engine) Keyword(keywords []string, candidates []Candidate) (Result, bool) {
	for _, c := range candidates {
		text := Normalize(c.Text)
		for _, kw := range keywords {
			needle := Normalize(kw)
			if needle == "" {
				continue
			}
			if strings.Contains(text, needle) {
				return Result{Index: c.Index, Score: 1, Strategy: StrategyKeyword}, true
			}
		}
	}
	return Result{}, false
}
