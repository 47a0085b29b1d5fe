package fndex

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwheeler/fndex/internal/store"
	"github.com/mwheeler/fndex/reference"
)

// Engine orchestrates the fndex pipeline: document loading, change
// detection, parsing, catalog persistence, and query access.
type Engine struct {
	store *store.Store

	source  string // label stored on the document row
	docPath string // set by WithDocument
	docText string // set by WithDocumentText
	useText bool
}

// Store is a public alias for the internal catalog store, exposed for
// direct access. Identical to the internal type at compile time.
type Store = store.Store

// Option configures an Engine.
type Option func(*Engine)

// Document source labels. The bundled document is the default source;
// WithDocument replaces the label with the file path.
const (
	embeddedSource = "embedded:functions.md"
	inlineSource   = "inline"
)

// WithDocument points the Engine at a reference document on disk instead
// of the bundled copy. The path doubles as the document's source label.
func WithDocument(path string) Option {
	return func(e *Engine) {
		e.docPath = path
		e.source = path
		e.useText = false
	}
}

// WithDocumentText supplies the reference document as a literal string.
func WithDocumentText(text string) Option {
	return func(e *Engine) {
		e.docText = text
		e.source = inlineSource
		e.useText = true
	}
}

// New creates an Engine backed by a SQLite database at dbPath. Without
// options the Engine indexes the bundled reference document.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("fndex: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("fndex: migrate: %w", err)
	}

	e := &Engine{
		store:  s,
		source: embeddedSource,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Query returns a new QueryBuilder over the stored catalog.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{store: e.store}
}

// IndexResult reports the outcome of an Index run.
type IndexResult struct {
	Source        string
	ContentHash   string
	FunctionCount int
	Unchanged     bool // stored catalog already matched the document hash
}

// documentText loads the configured document source.
func (e *Engine) documentText() (string, error) {
	if e.useText {
		return e.docText, nil
	}
	if e.docPath != "" {
		content, err := os.ReadFile(e.docPath)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return string(content), nil
	}
	return reference.Doc(), nil
}

// Index builds or refreshes the stored catalog from the configured
// document source.
//
// The document text is hashed first; when the stored document row carries
// the same hash the catalog is already current and Index returns with
// Unchanged set, without re-parsing. Otherwise the text is parsed and the
// catalog replaced in a single transaction.
func (e *Engine) Index(ctx context.Context) (*IndexResult, error) {
	text, err := e.documentText()
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", e.source, err)
	}
	hash := store.ComputeContentHash(text)

	existing, err := e.store.DocumentBySource(e.source)
	if err != nil {
		return nil, fmt.Errorf("index %s: lookup document: %w", e.source, err)
	}
	if existing != nil && existing.ContentHash == hash {
		return &IndexResult{
			Source:        e.source,
			ContentHash:   hash,
			FunctionCount: existing.FunctionCount,
			Unchanged:     true,
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defs := Parse(text)
	doc := &store.Document{
		Source:      e.source,
		ContentHash: hash,
		IndexedAt:   time.Now(),
	}
	if err := e.store.ReplaceCatalog(doc, toFunctionData(defs)); err != nil {
		return nil, fmt.Errorf("index %s: replace catalog: %w", e.source, err)
	}

	return &IndexResult{
		Source:        e.source,
		ContentHash:   hash,
		FunctionCount: len(defs),
	}, nil
}

// toFunctionData maps parsed definitions onto store rows in document order.
func toFunctionData(defs []FunctionDefinition) []store.FunctionData {
	data := make([]store.FunctionData, len(defs))
	for i, def := range defs {
		fd := store.FunctionData{
			Function: store.Function{
				Ordinal:           i,
				Name:              def.Name,
				NameLower:         strings.ToLower(def.Name),
				Category:          def.Category,
				Description:       def.Description,
				Syntax:            def.Syntax,
				ReturnType:        def.ReturnType,
				ReturnDescription: def.ReturnDescription,
				Deprecated:        def.Deprecated,
			},
		}
		for j, p := range def.Parameters {
			fd.Parameters = append(fd.Parameters, store.Parameter{
				Ordinal:     j,
				Name:        p.Name,
				Required:    p.Required,
				Type:        p.Type,
				Description: p.Description,
			})
		}
		for j, code := range def.Examples {
			fd.Examples = append(fd.Examples, store.Example{Ordinal: j, Code: code})
		}
		data[i] = fd
	}
	return data
}
