package fndex

import (
	"fmt"
	"strings"

	"github.com/mwheeler/fndex/internal/store"
)

// QueryBuilder provides a consumer-facing query API over the stored
// catalog. Filter methods return the builder for chaining; Execute and
// Count run the accumulated listing query. The detail, completion,
// signature, and summary entry points ignore the accumulated filters.
type QueryBuilder struct {
	store *store.Store

	category   *string
	deprecated *bool
	search     string
	namePrefix string
	sort       Sort
	page       Pagination
}

// --- Common Types ---

// Pagination controls offset+limit paging on listing results.
type Pagination struct {
	Offset int // skip this many results (default 0)
	Limit  int // max results to return (default 50, max 500)
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// normalize returns a Pagination with defaults applied and bounds enforced.
func (p Pagination) normalize() Pagination {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// SortField specifies how to order listing results.
type SortField string

const (
	SortByName     SortField = "name"
	SortByCategory SortField = "category"
	SortByDocument SortField = "document"
)

// SortOrder specifies ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort controls result ordering.
type Sort struct {
	Field SortField
	Order SortOrder
}

// PagedResult wraps a page of results with total count for pagination.
type PagedResult[T any] struct {
	Items      []T
	TotalCount int // total matching results (before pagination)
}

// FunctionSummary is one row of a catalog listing.
type FunctionSummary struct {
	Name        string
	Category    string
	Description string
	Syntax      string
	Deprecated  bool
	ParamCount  int
}

// --- Filter methods ---

// WithCategory restricts results to one category label.
func (q *QueryBuilder) WithCategory(category string) *QueryBuilder {
	q.category = &category
	return q
}

// WithDeprecated restricts results by deprecation flag.
func (q *QueryBuilder) WithDeprecated(deprecated bool) *QueryBuilder {
	q.deprecated = &deprecated
	return q
}

// WithSearch restricts results to entries whose name or description
// contains the substring. LIKE wildcards in the input are escaped.
func (q *QueryBuilder) WithSearch(substr string) *QueryBuilder {
	q.search = substr
	return q
}

// WithNamePrefix restricts results to names starting with the prefix,
// compared case-insensitively.
func (q *QueryBuilder) WithNamePrefix(prefix string) *QueryBuilder {
	q.namePrefix = prefix
	return q
}

// SortBy sets result ordering. The zero value sorts by document order.
func (q *QueryBuilder) SortBy(field SortField, order SortOrder) *QueryBuilder {
	q.sort = Sort{Field: field, Order: order}
	return q
}

// WithPagination sets the result window. A zero or negative limit gets
// the default.
func (q *QueryBuilder) WithPagination(offset, limit int) *QueryBuilder {
	q.page = Pagination{Offset: offset, Limit: limit}
	return q
}

// --- Internal helpers ---

// functionSortColumn returns the SQL ORDER BY expression for listing
// queries. Falls back to document order for unknown fields.
func functionSortColumn(field SortField) string {
	switch field {
	case SortByName:
		return "name_lower"
	case SortByCategory:
		return "category"
	case SortByDocument:
		return "ordinal"
	default:
		return "ordinal"
	}
}

// sortDirection returns "ASC" or "DESC".
func sortDirection(order SortOrder) string {
	if order == Desc {
		return "DESC"
	}
	return "ASC"
}

// whereClause builds the WHERE fragment and args for the accumulated filters.
func (q *QueryBuilder) whereClause() (string, []any) {
	var where []string
	var args []any

	if q.category != nil {
		where = append(where, "category = ?")
		args = append(args, *q.category)
	}
	if q.deprecated != nil {
		where = append(where, "deprecated = ?")
		args = append(args, *q.deprecated)
	}
	if q.search != "" {
		where = append(where, `(name_lower LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(strings.ToLower(q.search)) + "%"
		args = append(args, pattern, "%"+escapeLike(q.search)+"%")
	}
	if q.namePrefix != "" {
		where = append(where, `name_lower LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(strings.ToLower(q.namePrefix))+"%")
	}

	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}
	return clause, args
}

// --- Listing ---

// Execute runs the accumulated listing query and returns one page of
// summaries plus the total match count.
func (q *QueryBuilder) Execute() (*PagedResult[FunctionSummary], error) {
	page := q.page.normalize()
	whereSQL, args := q.whereClause()

	countSQL := "SELECT COUNT(*) FROM functions " + whereSQL
	var totalCount int
	if err := q.store.DB().QueryRow(countSQL, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("list functions: count: %w", err)
	}

	orderClause := functionSortColumn(q.sort.Field) + " " + sortDirection(q.sort.Order)
	if functionSortColumn(q.sort.Field) != "ordinal" {
		orderClause += ", ordinal ASC"
	}

	dataSQL := fmt.Sprintf(
		`SELECT name, category, description, syntax, deprecated,
			(SELECT COUNT(*) FROM parameters p WHERE p.function_id = f.id) AS param_count
		 FROM functions f
		 %s
		 ORDER BY %s
		 LIMIT ? OFFSET ?`,
		whereSQL, orderClause,
	)
	dataArgs := append(append([]any{}, args...), page.Limit, page.Offset)

	rows, err := q.store.DB().Query(dataSQL, dataArgs...)
	if err != nil {
		return nil, fmt.Errorf("list functions: query: %w", err)
	}
	defer rows.Close()

	var items []FunctionSummary
	for rows.Next() {
		var fs FunctionSummary
		if err := rows.Scan(&fs.Name, &fs.Category, &fs.Description, &fs.Syntax, &fs.Deprecated, &fs.ParamCount); err != nil {
			return nil, fmt.Errorf("list functions: scan: %w", err)
		}
		items = append(items, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list functions: rows: %w", err)
	}
	if items == nil {
		items = []FunctionSummary{}
	}

	return &PagedResult[FunctionSummary]{Items: items, TotalCount: totalCount}, nil
}

// Count returns the total match count for the accumulated filters without
// fetching rows.
func (q *QueryBuilder) Count() (int, error) {
	whereSQL, args := q.whereClause()
	var count int
	if err := q.store.DB().QueryRow("SELECT COUNT(*) FROM functions "+whereSQL, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count functions: %w", err)
	}
	return count, nil
}

// escapeLike escapes SQL LIKE special characters (% and _) with backslash.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
