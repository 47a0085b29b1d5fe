// Package fndex turns the workflow expression-function reference document
// into a queryable catalog. It parses the bundled (or a caller-supplied)
// markdown reference into structured function definitions, persists them
// to SQLite, and answers the lookups an editor or CLI needs: listing,
// detail, completion, signature help, and summaries.
//
// # Pipeline
//
// fndex operates in two phases:
//
//  1. Parse: scan the reference document twice — first the category
//     summary tables to build a name→category map, then the alphabetical
//     section for one definition per function heading (description,
//     syntax, parameters, return info, example, deprecation).
//
//  2. Index: hash the document text, skip re-indexing when the stored
//     catalog already matches, otherwise replace the catalog for that
//     source in one transaction.
//
// # Usage
//
// Create an Engine, index the document, and query:
//
//	e, err := fndex.New("fndex.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	res, err := e.Index(context.Background())
//
//	q := e.Query()
//	detail, err := q.FunctionDetail("addDays")
//
// # Query API
//
// The [QueryBuilder] returned by [Engine.Query] provides the consumer
// operations:
//
//   - [QueryBuilder.Execute] — filtered, sorted, paginated listings.
//   - [QueryBuilder.FunctionDetail] — one definition with parameters,
//     examples, and same-category siblings.
//   - [QueryBuilder.Complete] — name completion: prefix matches first,
//     fuzzy matches after.
//   - [QueryBuilder.SignatureHelp] — the call under a cursor with the
//     active parameter marked.
//   - [QueryBuilder.CategorySummary] and [QueryBuilder.Stats] — catalog
//     breakdowns.
//
// # Incremental Indexing
//
// [Engine.Index] detects an unchanged document via content hashing and
// skips the parse and write entirely. Use [WithDocument] or
// [WithDocumentText] to index a different reference than the bundled one.
package fndex
