// Package textnorm turns raw text into the lowercase, punctuation-free tokens
// used as index keys.
package textnorm

import "strings"

// Punctuation is the set of ASCII punctuation characters removed from text.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var stripper = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(Punctuation))
	for _, r := range Punctuation {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}()

// Normalize lowercases text, removes punctuation and splits it on whitespace.
// Empty tokens are never returned.
func Normalize(text string) []string {
	clean := stripper.Replace(strings.ToLower(text))
	// Fields never yields empty strings.
	return strings.Fields(clean)
}
