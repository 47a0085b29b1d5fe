package main

import "time"

// CLIResult is the top-level JSON envelope for all query commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIFunction is a JSON-friendly catalog listing row.
type CLIFunction struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Syntax      string `json:"syntax"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	ParamCount  int    `json:"param_count"`
}

// CLIFunctionDetail is a JSON-friendly full catalog entry.
type CLIFunctionDetail struct {
	Name              string         `json:"name"`
	Category          string         `json:"category"`
	Description       string         `json:"description"`
	Syntax            string         `json:"syntax"`
	ReturnType        string         `json:"return_type,omitempty"`
	ReturnDescription string         `json:"return_description,omitempty"`
	Deprecated        bool           `json:"deprecated,omitempty"`
	Parameters        []CLIParameter `json:"parameters"`
	Examples          []string       `json:"examples"`
	SeeAlso           []string       `json:"see_also"`
}

// CLIParameter is a JSON-friendly parameter row.
type CLIParameter struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// CLICandidate is a JSON-friendly completion suggestion.
type CLICandidate struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Snippet        string `json:"snippet,omitempty"`
	MatchedIndexes []int  `json:"matched_indexes"`
}

// CLISignature is a JSON-friendly signature-help result.
type CLISignature struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Parameters  []string `json:"parameters"`
	ActiveParam int      `json:"active_param"`
	ActiveStart int      `json:"active_start"`
	ActiveEnd   int      `json:"active_end"`
}

// CLICategoryCount is one row of the per-category breakdown.
type CLICategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CLIStats is a JSON-friendly catalog summary.
type CLIStats struct {
	Functions   int    `json:"functions"`
	Parameters  int    `json:"parameters"`
	Examples    int    `json:"examples"`
	Deprecated  int    `json:"deprecated"`
	ContentHash string `json:"content_hash,omitempty"`
}

// CLIWorkflow is a JSON-friendly Dataverse workflow row.
type CLIWorkflow struct {
	WorkflowID string `json:"workflow_id"`
	Name       string `json:"name"`
	Category   int    `json:"category"`
}

// CLIWorkflowNotes is one workflow's pulled notes document.
type CLIWorkflowNotes struct {
	WorkflowID string         `json:"workflow_id"`
	Version    int            `json:"version"`
	Entries    []CLINoteEntry `json:"entries"`
}

// CLINoteEntry is a JSON-friendly per-function note.
type CLINoteEntry struct {
	Function  string    `json:"function"`
	Note      string    `json:"note"`
	Pinned    bool      `json:"pinned,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
