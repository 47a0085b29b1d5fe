package store

import (
	"database/sql"
	"fmt"
)

// --- Document operations ---

func (s *Store) DocumentBySource(source string) (*Document, error) {
	d := &Document{}
	err := s.db.QueryRow(
		"SELECT id, source, content_hash, indexed_at, function_count FROM documents WHERE source = ?", source,
	).Scan(&d.ID, &d.Source, &d.ContentHash, &d.IndexedAt, &d.FunctionCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document by source: %w", err)
	}
	return d, nil
}

func (s *Store) Documents() ([]*Document, error) {
	rows, err := s.db.Query(
		"SELECT id, source, content_hash, indexed_at, function_count FROM documents ORDER BY indexed_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	defer rows.Close()
	var docs []*Document
	for rows.Next() {
		d := &Document{}
		if err := rows.Scan(&d.ID, &d.Source, &d.ContentHash, &d.IndexedAt, &d.FunctionCount); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ReplaceCatalog transactionally replaces the stored catalog for a document.
// Any previous functions, parameters, and examples for the same source are
// deleted, the document row is upserted, and the new entries are inserted
// with their real (AUTOINCREMENT) function IDs rewritten into the child rows.
// On success doc.ID and doc.FunctionCount are updated in place.
func (s *Store) ReplaceCatalog(doc *Document, fns []FunctionData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace catalog: begin: %w", err)
	}
	defer tx.Rollback()

	// Upsert the document row and clear any prior catalog for this source.
	existing := &Document{}
	err = tx.QueryRow("SELECT id FROM documents WHERE source = ?", doc.Source).Scan(&existing.ID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(
			"INSERT INTO documents (source, content_hash, indexed_at, function_count) VALUES (?, ?, ?, ?)",
			doc.Source, doc.ContentHash, doc.IndexedAt, len(fns),
		)
		if err != nil {
			return fmt.Errorf("replace catalog: insert document: %w", err)
		}
		doc.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("replace catalog: last insert id: %w", err)
		}
	case err != nil:
		return fmt.Errorf("replace catalog: lookup document: %w", err)
	default:
		doc.ID = existing.ID
		for _, q := range []string{
			"DELETE FROM examples WHERE function_id IN (SELECT id FROM functions WHERE document_id = ?)",
			"DELETE FROM parameters WHERE function_id IN (SELECT id FROM functions WHERE document_id = ?)",
			"DELETE FROM functions WHERE document_id = ?",
		} {
			if _, err := tx.Exec(q, doc.ID); err != nil {
				return fmt.Errorf("replace catalog: clear previous: %w", err)
			}
		}
		if _, err := tx.Exec(
			"UPDATE documents SET content_hash = ?, indexed_at = ?, function_count = ? WHERE id = ?",
			doc.ContentHash, doc.IndexedAt, len(fns), doc.ID,
		); err != nil {
			return fmt.Errorf("replace catalog: update document: %w", err)
		}
	}

	// Insert functions in document order, rewriting the real function ID
	// into each child row before it is inserted.
	for i := range fns {
		fd := &fns[i]
		fd.Function.DocumentID = doc.ID
		fnID, err := insertFunctionTx(tx, &fd.Function)
		if err != nil {
			return fmt.Errorf("replace catalog: function %q: %w", fd.Function.Name, err)
		}
		for j := range fd.Parameters {
			fd.Parameters[j].FunctionID = fnID
			if _, err := insertParameterTx(tx, &fd.Parameters[j]); err != nil {
				return fmt.Errorf("replace catalog: parameter %q of %q: %w", fd.Parameters[j].Name, fd.Function.Name, err)
			}
		}
		for j := range fd.Examples {
			fd.Examples[j].FunctionID = fnID
			if _, err := insertExampleTx(tx, &fd.Examples[j]); err != nil {
				return fmt.Errorf("replace catalog: example %d of %q: %w", j, fd.Function.Name, err)
			}
		}
	}

	doc.FunctionCount = len(fns)
	return tx.Commit()
}

// --- Transaction-scoped insert helpers ---

func insertFunctionTx(tx *sql.Tx, fn *Function) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO functions (document_id, ordinal, name, name_lower, category,
			description, syntax, return_type, return_description, deprecated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fn.DocumentID, fn.Ordinal, fn.Name, fn.NameLower, fn.Category,
		fn.Description, fn.Syntax, fn.ReturnType, fn.ReturnDescription, fn.Deprecated,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	fn.ID = id
	return id, nil
}

func insertParameterTx(tx *sql.Tx, p *Parameter) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO parameters (function_id, ordinal, name, required, type, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.FunctionID, p.Ordinal, p.Name, p.Required, p.Type, p.Description,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertExampleTx(tx *sql.Tx, ex *Example) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO examples (function_id, ordinal, code) VALUES (?, ?, ?)`,
		ex.FunctionID, ex.Ordinal, ex.Code,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// --- Function operations ---

// FunctionCols is the column list for function queries, exported for use by QueryBuilder.
const FunctionCols = `id, document_id, ordinal, name, name_lower, category,
	description, syntax, return_type, return_description, deprecated`

func (s *Store) scanFunction(scanner interface{ Scan(...any) error }) (*Function, error) {
	fn := &Function{}
	err := scanner.Scan(
		&fn.ID, &fn.DocumentID, &fn.Ordinal, &fn.Name, &fn.NameLower, &fn.Category,
		&fn.Description, &fn.Syntax, &fn.ReturnType, &fn.ReturnDescription, &fn.Deprecated,
	)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// ScanFunctionRow scans a single row into a Function. Exported for use by QueryBuilder.
func (s *Store) ScanFunctionRow(scanner interface{ Scan(...any) error }) (*Function, error) {
	return s.scanFunction(scanner)
}

func (s *Store) queryFunctions(query string, args ...any) ([]*Function, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fns []*Function
	for rows.Next() {
		fn, err := s.scanFunction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan function: %w", err)
		}
		fns = append(fns, fn)
	}
	return fns, rows.Err()
}

// FunctionsByName returns all entries whose lowercased name matches,
// in document order. Duplicated headings yield several rows.
func (s *Store) FunctionsByName(nameLower string) ([]*Function, error) {
	return s.queryFunctions(
		"SELECT "+FunctionCols+" FROM functions WHERE name_lower = ? ORDER BY ordinal", nameLower,
	)
}

func (s *Store) FunctionsByCategory(category string) ([]*Function, error) {
	return s.queryFunctions(
		"SELECT "+FunctionCols+" FROM functions WHERE category = ? ORDER BY ordinal", category,
	)
}

// FunctionNames returns every (name, category) pair in document order.
// Used for completion candidate sets.
func (s *Store) FunctionNames() ([]*Function, error) {
	return s.queryFunctions("SELECT " + FunctionCols + " FROM functions ORDER BY ordinal")
}

// --- Parameter and example operations ---

func (s *Store) ParametersByFunction(functionID int64) ([]*Parameter, error) {
	rows, err := s.db.Query(
		"SELECT id, function_id, ordinal, name, required, type, description FROM parameters WHERE function_id = ? ORDER BY ordinal",
		functionID,
	)
	if err != nil {
		return nil, fmt.Errorf("parameters by function: %w", err)
	}
	defer rows.Close()
	var params []*Parameter
	for rows.Next() {
		p := &Parameter{}
		if err := rows.Scan(&p.ID, &p.FunctionID, &p.Ordinal, &p.Name, &p.Required, &p.Type, &p.Description); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		params = append(params, p)
	}
	return params, rows.Err()
}

func (s *Store) ExamplesByFunction(functionID int64) ([]*Example, error) {
	rows, err := s.db.Query(
		"SELECT id, function_id, ordinal, code FROM examples WHERE function_id = ? ORDER BY ordinal",
		functionID,
	)
	if err != nil {
		return nil, fmt.Errorf("examples by function: %w", err)
	}
	defer rows.Close()
	var examples []*Example
	for rows.Next() {
		ex := &Example{}
		if err := rows.Scan(&ex.ID, &ex.FunctionID, &ex.Ordinal, &ex.Code); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}
