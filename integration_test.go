package fndex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwheeler/fndex/internal/store"
	"github.com/mwheeler/fndex/reference"
)

// newIntegrationEngine creates an Engine on a temp DB and indexes the
// bundled reference document.
func newIntegrationEngine(t *testing.T) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "integration.db")
	e, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	res, err := e.Index(context.Background())
	require.NoError(t, err)
	require.False(t, res.Unchanged)
	return e
}

// TestIntegration_FullPipeline_Listing tests the complete pipeline:
// bundled document → Index → QueryBuilder.Execute
func TestIntegration_FullPipeline_Listing(t *testing.T) {
	e := newIntegrationEngine(t)

	res, err := e.Query().WithPagination(0, maxLimit).Execute()
	require.NoError(t, err)
	assert.Equal(t, 123, res.TotalCount)
	assert.Len(t, res.Items, 123)

	deprecated, err := e.Query().WithDeprecated(true).Execute()
	require.NoError(t, err)
	require.Len(t, deprecated.Items, 1)
	assert.Equal(t, "decodeBase64", deprecated.Items[0].Name)
}

// TestIntegration_FullPipeline_Detail tests:
// bundled document → Index → QueryBuilder.FunctionDetail
func TestIntegration_FullPipeline_Detail(t *testing.T) {
	e := newIntegrationEngine(t)

	d, err := e.Query().FunctionDetail("addDays")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, CategoryDateTime, d.Category)
	require.Len(t, d.Parameters, 3)
	assert.Equal(t, "timestamp", d.Parameters[0].Name)
	assert.NotEmpty(t, d.Examples)
	assert.Contains(t, d.SeeAlso, "utcNow")
	assert.NotContains(t, d.SeeAlso, "addDays")
}

// TestIntegration_FullPipeline_Completion tests:
// bundled document → Index → QueryBuilder.Complete
func TestIntegration_FullPipeline_Completion(t *testing.T) {
	e := newIntegrationEngine(t)

	cs, err := e.Query().Complete("addD", 5)
	require.NoError(t, err)
	require.NotEmpty(t, cs)
	assert.Equal(t, "addDays", cs[0].Name)
	assert.Equal(t, CategoryDateTime, cs[0].Category)
	assert.NotEmpty(t, cs[0].Snippet)
}

// TestIntegration_FullPipeline_SignatureHelp tests:
// bundled document → Index → QueryBuilder.SignatureHelp
func TestIntegration_FullPipeline_SignatureHelp(t *testing.T) {
	e := newIntegrationEngine(t)

	expr := "addDays(triggerBody()?['date'], "
	info, err := e.Query().SignatureHelp(expr, len(expr))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "addDays", info.Name)
	assert.Equal(t, 1, info.ActiveParam)
	assert.Equal(t, "days", info.Label[info.ActiveStart:info.ActiveEnd])
}

// TestIntegration_FullPipeline_Summaries tests:
// bundled document → Index → CategorySummary and Stats
func TestIntegration_FullPipeline_Summaries(t *testing.T) {
	e := newIntegrationEngine(t)

	summary, err := e.Query().CategorySummary()
	require.NoError(t, err)
	require.Len(t, summary, 10)

	total := 0
	for _, cc := range summary {
		total += cc.Count
	}
	assert.Equal(t, 123, total)

	stats, err := e.Query().Stats()
	require.NoError(t, err)
	assert.Equal(t, 123, stats.Functions)
	assert.Equal(t, 1, stats.Deprecated)
	assert.Greater(t, stats.Parameters, 100)
	assert.Greater(t, stats.Examples, 100)
	assert.Equal(t, store.ComputeContentHash(reference.Doc()), stats.ContentHash)
}

// TestIntegration_ReindexAfterChange tests incremental behavior across
// two different documents sharing one source label.
func TestIntegration_ReindexAfterChange(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "integration.db")

	e, err := New(dbPath, WithDocumentText(testDoc))
	require.NoError(t, err)
	first, err := e.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.FunctionCount)
	require.NoError(t, e.Close())

	// Reopen over the same database with different inline text.
	e2, err := New(dbPath, WithDocumentText(testDoc+"\n### extra\n\nA freshly documented entry for the second pass.\n"))
	require.NoError(t, err)
	defer e2.Close()

	second, err := e2.Index(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Unchanged)
	assert.Equal(t, 3, second.FunctionCount)

	n, err := e2.Query().Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
