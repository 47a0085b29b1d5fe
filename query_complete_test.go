package fndex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateNames(cs []Candidate) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

func TestComplete_PrefixMatchesRankFirst(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	cs, err := q.Complete("add", 10)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "add", cs[0].Name)
	assert.Equal(t, "addDays", cs[1].Name)
	// Prefix matches mark the typed span.
	assert.Equal(t, []int{0, 1, 2}, cs[0].MatchedIndexes)
	assert.Equal(t, []int{0, 1, 2}, cs[1].MatchedIndexes)
}

func TestComplete_PrefixIsCaseInsensitive(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	cs, err := q.Complete("ADD", 10)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, "add", cs[0].Name)
	assert.Equal(t, "addDays", cs[1].Name)
}

func TestComplete_FuzzyMatchesAfterPrefix(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	// No name starts with "dd"; fuzzy matching finds the subsequence in
	// add, addDays, and decodeBase64.
	cs, err := q.Complete("dd", 10)
	require.NoError(t, err)
	require.Len(t, cs, 3)
	assert.ElementsMatch(t, []string{"add", "addDays", "decodeBase64"}, candidateNames(cs))
	for _, c := range cs {
		assert.Len(t, c.MatchedIndexes, 2, "candidate %q", c.Name)
	}
}

func TestComplete_PrefixThenFuzzyOrdering(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	// "concat" is the only prefix match for "c" and must come first;
	// names with a non-leading "c" follow as fuzzy matches.
	cs, err := q.Complete("c", 10)
	require.NoError(t, err)
	require.NotEmpty(t, cs)
	assert.Equal(t, "concat", cs[0].Name)
	// Fuzzy tail contains names with a non-leading "c".
	assert.Contains(t, candidateNames(cs[1:]), "utcNow")
	assert.Contains(t, candidateNames(cs[1:]), "decodeBase64")
}

func TestComplete_EmptyWordBrowsesAlphabetically(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	cs, err := q.Complete("", 10)
	require.NoError(t, err)
	// Seven unique names: the duplicated "item" collapses to one.
	assert.Equal(t,
		[]string{"add", "addDays", "and", "concat", "decodeBase64", "item", "utcNow"},
		candidateNames(cs))
}

func TestComplete_LimitCapsResults(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	cs, err := q.Complete("", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "addDays", "and"}, candidateNames(cs))

	// A non-positive limit falls back to the default rather than zero.
	q2 := &QueryBuilder{store: s}
	cs, err = q2.Complete("", 0)
	require.NoError(t, err)
	assert.Len(t, cs, 7)
}

func TestComplete_SnippetIsFirstSentence(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	cs, err := q.Complete("add", 1)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "Return the sum of two numbers.", cs[0].Snippet)
	assert.Equal(t, CategoryMath, cs[0].Category)
}

func TestComplete_DuplicateNamesCollapse(t *testing.T) {
	q, s := newTestQueryBuilder(t)
	seedCatalog(t, s)

	cs, err := q.Complete("it", 10)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "item", cs[0].Name)
	// The first occurrence supplies the snippet.
	assert.Equal(t, "First occurrence.", cs[0].Snippet)
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "One.", firstSentence("One. Two. Three."))
	assert.Equal(t, "No trailing space.", firstSentence("No trailing space."))
	assert.Equal(t, "No period at all", firstSentence("No period at all"))
	assert.Equal(t, "", firstSentence(""))
}
