package core

import (
	"regexp"
	"strings"
)

// These patterns are adapted from the classifier's lexical heuristics: a
// small bank of precompiled regexes and keyword sets that assign a bounded
// positive increment per feature rather than a single three-way verdict.
var (
	symbolPunctuationPattern = regexp.MustCompile(`::|\.[A-Za-z_]`)
	camelCasePattern         = regexp.MustCompile(`\b[a-z]+[A-Z][A-Za-z0-9]*\b`)
	pascalCasePattern        = regexp.MustCompile(`\b[A-Z][a-z0-9]+[A-Z][A-Za-z0-9]*\b`)
	snakeCasePattern         = regexp.MustCompile(`\b[a-z0-9]+_[a-z0-9_]+\b`)
)

var symbolKeywords = []string{"class", "def", "fn", "func", "struct", "interface"}

var flowVerbs = []string{"calls", "callers", "called by", "trace", "flow", "where used", "who calls", "caller", "callee"}

var conceptVerbs = []string{"explain", "what is", "what's", "how does", "how do", "overview", "why does"}

var codeVerbs = []string{"example", "implement", "loop", "conditional", "pattern", "sample", "snippet"}

// rawIntentScores computes the five bounded, non-negative raw feature scores
// that feed the softmax in Classify.
func rawIntentScores(text string) map[Intent]float64 {
	lower := strings.ToLower(text)

	scores := map[Intent]float64{
		IntentSymbol:   0,
		IntentFlow:     0,
		IntentConcept:  0,
		IntentCode:     0,
		IntentBalanced: 0.15, // constant baseline, per §4.2
	}

	if symbolPunctuationPattern.MatchString(text) {
		scores[IntentSymbol] += 0.4
	}
	if camelCasePattern.MatchString(text) || pascalCasePattern.MatchString(text) || snakeCasePattern.MatchString(text) {
		scores[IntentSymbol] += 0.4
	}
	scores[IntentSymbol] += countMatches(lower, symbolKeywords) * 0.3

	scores[IntentFlow] += countMatches(lower, flowVerbs) * 0.5
	scores[IntentConcept] += countMatches(lower, conceptVerbs) * 0.5
	scores[IntentCode] += countMatches(lower, codeVerbs) * 0.4

	return scores
}

func countMatches(lower string, needles []string) float64 {
	var n float64
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			n++
		}
	}
	return n
}
