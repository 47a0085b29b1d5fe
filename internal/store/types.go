package store

import "time"

// Catalog domain types

type Document struct {
	ID            int64
	Source        string
	ContentHash   string
	IndexedAt     time.Time
	FunctionCount int
}

type Function struct {
	ID                int64
	DocumentID        int64
	Ordinal           int
	Name              string
	NameLower         string
	Category          string
	Description       string
	Syntax            string
	ReturnType        string
	ReturnDescription string
	Deprecated        bool
}

type Parameter struct {
	ID          int64
	FunctionID  int64
	Ordinal     int
	Name        string
	Required    bool
	Type        string
	Description string
}

type Example struct {
	ID         int64
	FunctionID int64
	Ordinal    int
	Code       string
}

// FunctionData groups a function row with its parameter and example rows
// for batch insertion. FunctionID fields are assigned during commit.
type FunctionData struct {
	Function   Function
	Parameters []Parameter
	Examples   []Example
}
