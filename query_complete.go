package fndex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

const defaultCompleteLimit = 10

// Candidate is one completion suggestion.
type Candidate struct {
	Name           string
	Category       string
	Snippet        string // first sentence of the description
	MatchedIndexes []int  // positions in Name matched by the input word
}

// completionEntry is the minimal per-name record completion works over.
type completionEntry struct {
	name        string
	nameLower   string
	category    string
	description string
}

// Complete suggests catalog names for a partial word. Case-insensitive
// prefix matches rank first in alphabetical order; the remaining names
// are fuzzy-matched and ranked best-first. An empty word browses the
// whole catalog alphabetically. Results are capped at limit; a zero or
// negative limit gets the default.
func (q *QueryBuilder) Complete(word string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = defaultCompleteLimit
	}

	entries, err := q.completionEntries()
	if err != nil {
		return nil, fmt.Errorf("complete %q: %w", word, err)
	}

	out := make([]Candidate, 0, limit)

	if word == "" {
		sort.Slice(entries, func(i, j int) bool { return entries[i].nameLower < entries[j].nameLower })
		for _, e := range entries {
			if len(out) == limit {
				break
			}
			out = append(out, e.candidate(nil))
		}
		return out, nil
	}

	wordLower := strings.ToLower(word)

	var prefixed, rest []completionEntry
	for _, e := range entries {
		if strings.HasPrefix(e.nameLower, wordLower) {
			prefixed = append(prefixed, e)
		} else {
			rest = append(rest, e)
		}
	}

	sort.Slice(prefixed, func(i, j int) bool { return prefixed[i].nameLower < prefixed[j].nameLower })
	prefixIdx := make([]int, len(wordLower))
	for i := range prefixIdx {
		prefixIdx[i] = i
	}
	for _, e := range prefixed {
		if len(out) == limit {
			return out, nil
		}
		out = append(out, e.candidate(prefixIdx))
	}

	names := make([]string, len(rest))
	for i, e := range rest {
		names[i] = e.name
	}
	for _, m := range fuzzy.Find(word, names) {
		if len(out) == limit {
			break
		}
		out = append(out, rest[m.Index].candidate(m.MatchedIndexes))
	}

	return out, nil
}

// completionEntries loads every catalog name in document order, keeping
// only the first occurrence of duplicate names.
func (q *QueryBuilder) completionEntries() ([]completionEntry, error) {
	rows, err := q.store.DB().Query(
		"SELECT name, name_lower, category, description FROM functions ORDER BY ordinal")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []completionEntry
	seen := map[string]bool{}
	for rows.Next() {
		var e completionEntry
		if err := rows.Scan(&e.name, &e.nameLower, &e.category, &e.description); err != nil {
			return nil, err
		}
		if seen[e.nameLower] {
			continue
		}
		seen[e.nameLower] = true
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (e completionEntry) candidate(matched []int) Candidate {
	if matched == nil {
		matched = []int{}
	}
	return Candidate{
		Name:           e.name,
		Category:       e.category,
		Snippet:        firstSentence(e.description),
		MatchedIndexes: matched,
	}
}

// firstSentence returns the leading sentence of a description, up to and
// including the first period followed by a space or end of text.
func firstSentence(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '.' {
			continue
		}
		if i+1 == len(s) || s[i+1] == ' ' {
			return s[:i+1]
		}
	}
	return s
}
