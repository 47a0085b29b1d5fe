package fndex

import (
	"database/sql"
	"fmt"
)

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	Category string
	Count    int
}

// Stats summarizes the indexed catalog.
type Stats struct {
	Functions   int
	Parameters  int
	Examples    int
	Deprecated  int
	ContentHash string // hash of the most recently indexed document, empty before indexing
}

// CategorySummary returns per-category counts in the document's section
// order, with Other last. Categories with no entries appear with a zero
// count so the breakdown has a fixed shape.
func (q *QueryBuilder) CategorySummary() ([]CategoryCount, error) {
	rows, err := q.store.DB().Query("SELECT category, COUNT(*) FROM functions GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("category summary: scan: %w", err)
		}
		counts[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category summary: rows: %w", err)
	}

	out := make([]CategoryCount, 0, len(Categories)+1)
	for _, c := range Categories {
		out = append(out, CategoryCount{Category: c, Count: counts[c]})
	}
	out = append(out, CategoryCount{Category: CategoryOther, Count: counts[CategoryOther]})
	return out, nil
}

// Stats returns catalog-wide totals.
func (q *QueryBuilder) Stats() (*Stats, error) {
	var s Stats
	var hash sql.NullString
	err := q.store.DB().QueryRow(`SELECT
		(SELECT COUNT(*) FROM functions),
		(SELECT COUNT(*) FROM parameters),
		(SELECT COUNT(*) FROM examples),
		(SELECT COUNT(*) FROM functions WHERE deprecated = 1),
		(SELECT content_hash FROM documents ORDER BY indexed_at DESC LIMIT 1)`,
	).Scan(&s.Functions, &s.Parameters, &s.Examples, &s.Deprecated, &hash)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	s.ContentHash = hash.String
	return &s, nil
}
