// Package adapter ships reference IndexAdapter implementations (§7 of the
// expanded spec) over the teacher's actual retrieval backends, so the
// fusion core has something real to run against in tests and the demo
// binary. Production deployments are free to swap in their own adapters —
// the Coordinator depends only on core.IndexAdapter.
package adapter

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// tokenizeCode splits text with code-aware rules: camelCase/PascalCase/
// snake_case splitting, lowercasing, and a minimum token length of 2.
func tokenizeCode(text string) []string {
	var tokens []string
	for _, word := range tokenRegex.FindAllString(text, -1) {
		for _, t := range splitCodeToken(word) {
			lower := strings.ToLower(t)
			if len(lower) >= 2 {
				tokens = append(tokens, lower)
			}
		}
	}
	return tokens
}

func splitCodeToken(token string) []string {
	if strings.Contains(token, "_") {
		var words []string
		for _, segment := range strings.Split(token, "_") {
			if segment != "" {
				words = append(words, splitIdentifierHumps(segment)...)
			}
		}
		return words
	}
	return splitIdentifierHumps(token)
}

// splitIdentifierHumps splits a camelCase/PascalCase symbol segment at each
// case boundary, so both the lexical and graph adapters (via splitCodeToken)
// tokenize identifiers the same way, e.g. "getUserById" -> ["get", "User", "By", "Id"],
// "HTTPHandler" -> ["HTTP", "Handler"].
func splitIdentifierHumps(segment string) []string {
	if segment == "" {
		return []string{}
	}

	var humps []string
	var hump strings.Builder

	letters := []rune(segment)
	for i, letter := range letters {
		atBoundary := i > 0 && unicode.IsUpper(letter) &&
			(unicode.IsLower(letters[i-1]) || (i+1 < len(letters) && unicode.IsLower(letters[i+1])))
		if atBoundary && hump.Len() > 0 {
			humps = append(humps, hump.String())
			hump.Reset()
		}
		hump.WriteRune(letter)
	}
	if hump.Len() > 0 {
		humps = append(humps, hump.String())
	}
	return humps
}

var codeStopWords = buildStopWordMap([]string{
	"var", "let", "const", "func", "function", "def", "class",
	"return", "if", "else", "for", "while",
	"data", "result", "value", "item", "key", "err", "ctx", "tmp",
})

func buildStopWordMap(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}
