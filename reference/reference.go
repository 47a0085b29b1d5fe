// Package reference embeds the bundled workflow expression function
// reference document. This is a standalone package with no project
// imports to avoid circular dependencies.
//
// Usage:
//
//	defs := fndex.Parse(reference.Doc())
package reference

import "embed"

//go:embed functions.md
var FS embed.FS

// Doc returns the bundled reference document text.
func Doc() string {
	data, err := FS.ReadFile("functions.md")
	if err != nil {
		// The file is compiled into the binary; a read failure here
		// means a broken build, not a runtime condition.
		panic("reference: embedded functions.md missing: " + err.Error())
	}
	return string(data)
}
