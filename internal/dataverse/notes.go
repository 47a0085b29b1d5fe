// Package dataverse reads and writes per-workflow expression notes stored
// in a single custom field on Dataverse workflow records, over the Web API
// (OData v4). Token acquisition is delegated to a TokenSource; there is no
// interactive login flow.
package dataverse

import (
	"encoding/json"
	"fmt"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// NotesVersion is the payload version this package writes.
const NotesVersion = 1

// Notes is the JSON document stored in the expression-notes field:
// per-function usage notes attached to one workflow.
type Notes struct {
	Version int         `json:"version"`
	Entries []NoteEntry `json:"entries"`
}

// NoteEntry is one per-function note.
type NoteEntry struct {
	Function  string    `json:"function"`
	Note      string    `json:"note"`
	Pinned    bool      `json:"pinned,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmptyNotes returns a valid zero-entry document.
func EmptyNotes() *Notes {
	return &Notes{Version: NotesVersion, Entries: []NoteEntry{}}
}

// notesSchemaJSON constrains what PutNotes will write into the field.
// additionalProperties stays closed so schema drift fails loudly instead
// of silently storing unknown keys.
const notesSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "entries"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "entries": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["function", "note"],
        "additionalProperties": false,
        "properties": {
          "function": {"type": "string", "minLength": 1},
          "note": {"type": "string"},
          "pinned": {"type": "boolean"},
          "updatedAt": {"type": "string", "format": "date-time"}
        }
      }
    }
  }
}`

var notesSchema = jsonschema.MustCompileString("notes.schema.json", notesSchemaJSON)

// Validate checks the document against the notes schema.
func (n *Notes) Validate() error {
	encoded, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	var v any
	if err := json.Unmarshal(encoded, &v); err != nil {
		return fmt.Errorf("decode notes: %w", err)
	}
	if err := notesSchema.Validate(v); err != nil {
		return fmt.Errorf("validate notes: %w", err)
	}
	return nil
}

// Upsert replaces the entry for a function or appends a new one, stamping
// UpdatedAt. Matching is by exact function name.
func (n *Notes) Upsert(entry NoteEntry) {
	entry.UpdatedAt = time.Now().UTC()
	for i, e := range n.Entries {
		if e.Function == entry.Function {
			n.Entries[i] = entry
			return
		}
	}
	n.Entries = append(n.Entries, entry)
}

// Lookup returns the entry for a function name, or nil when absent.
func (n *Notes) Lookup(function string) *NoteEntry {
	for i := range n.Entries {
		if n.Entries[i].Function == function {
			return &n.Entries[i]
		}
	}
	return nil
}
