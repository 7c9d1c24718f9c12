// Package preview picks the part of a document most relevant to a query.
package preview

import (
	"regexp"
	"strings"

	"docsearch/internal/textnorm"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// Sentences splits text into trimmed sentences. Trailing text without a
// terminator becomes its own sentence.
func Sentences(text string) []string {
	locs := sentenceRe.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(locs)+1)
	end := 0
	for _, loc := range locs {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			out = append(out, s)
		}
		end = loc[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// BestSentence returns the sentences of text and the index of the one that
// shares the most distinct tokens with query. The index is -1 when text has
// no sentences or nothing overlaps.
func BestSentence(text, query string) ([]string, int) {
	sentences := Sentences(text)
	qTokens := toTokenSet(query)
	if len(sentences) == 0 || len(qTokens) == 0 {
		return sentences, -1
	}
	best, bestScore := -1, 0
	for i, s := range sentences {
		if score := overlap(qTokens, s); score > bestScore {
			best, bestScore = i, score
		}
	}
	return sentences, best
}

func toTokenSet(s string) map[string]struct{} {
	tokens := textnorm.Normalize(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlap(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for t := range toTokenSet(sentence) {
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
