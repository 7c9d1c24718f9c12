// Package index implements an in-memory inverted index with boolean-AND
// search ranked by summed term frequency.
package index

import (
	"sort"

	"docsearch/internal/domain"
	"docsearch/internal/textnorm"
)

// Posting is the frequency of a token within one document.
type Posting struct {
	DocumentID string
	Frequency  int
}

// Inverted maps token -> document id -> frequency. Every stored frequency is
// at least 1; a document that lacks a token has no entry under it.
type Inverted struct {
	terms map[string]map[string]int
	docs  map[string]struct{}
}

// NewInverted returns an empty index.
func NewInverted() *Inverted {
	return &Inverted{
		terms: make(map[string]map[string]int),
		docs:  make(map[string]struct{}),
	}
}

// AddDocument normalizes text and adds one occurrence per token to id.
// Adding the same id again accumulates frequencies.
func (x *Inverted) AddDocument(id, text string) {
	x.docs[id] = struct{}{}
	for _, tok := range textnorm.Normalize(text) {
		postings, ok := x.terms[tok]
		if !ok {
			postings = make(map[string]int)
			x.terms[tok] = postings
		}
		postings[id]++
	}
}

// Search returns the documents containing every query token, ordered by
// score descending and then by document id.
func (x *Inverted) Search(query string) []domain.SearchResult {
	tokens := textnorm.Normalize(query)
	if len(tokens) == 0 {
		return nil
	}
	first, ok := x.terms[tokens[0]]
	if !ok {
		return nil
	}

	candidates := make(map[string]struct{}, len(first))
	for id := range first {
		candidates[id] = struct{}{}
	}
	for _, tok := range tokens[1:] {
		postings, ok := x.terms[tok]
		if !ok {
			return nil
		}
		for id := range candidates {
			if _, found := postings[id]; !found {
				delete(candidates, id)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
	}

	results := make([]domain.SearchResult, 0, len(candidates))
	for id := range candidates {
		score := 0
		for _, tok := range tokens {
			score += x.terms[tok][id]
		}
		results = append(results, domain.SearchResult{DocumentID: id, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})
	return results
}

// Frequency reports how often token occurs in document id.
func (x *Inverted) Frequency(token, id string) int {
	return x.terms[token][id]
}

// Postings lists the documents containing token, ordered by document id.
func (x *Inverted) Postings(token string) []Posting {
	docs, ok := x.terms[token]
	if !ok {
		return nil
	}
	out := make([]Posting, 0, len(docs))
	for id, freq := range docs {
		out = append(out, Posting{DocumentID: id, Frequency: freq})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentID < out[j].DocumentID })
	return out
}

// Contains reports whether id was ever added.
func (x *Inverted) Contains(id string) bool {
	_, ok := x.docs[id]
	return ok
}

// DocumentCount is the number of distinct document ids added.
func (x *Inverted) DocumentCount() int { return len(x.docs) }

// TermCount is the number of distinct tokens in the index.
func (x *Inverted) TermCount() int { return len(x.terms) }
