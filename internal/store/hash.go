package store

import (
	"crypto/sha256"
	"fmt"
)

// ComputeContentHash returns the sha256 hex digest of the document text.
// The engine compares this against documents.content_hash to skip
// re-parsing an unchanged document.
func ComputeContentHash(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}
