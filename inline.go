package fndex

import (
	"regexp"
	"strings"
)

var inline = struct {
	link       *regexp.Regexp
	htmlBreak  *regexp.Regexp
	htmlTag    *regexp.Regexp
	whitespace *regexp.Regexp
}{
	link:       regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`),
	htmlBreak:  regexp.MustCompile(`(?i)<br\s*/?>`),
	htmlTag:    regexp.MustCompile(`<[^>]+>`),
	whitespace: regexp.MustCompile(`\s+`),
}

// stripInline removes markdown inline formatting from free text: links keep
// their label, <br> becomes a space, other HTML tags disappear, emphasis
// markers and backticks are dropped, and whitespace runs collapse to one
// space. Single underscores stay; they appear inside identifiers.
func stripInline(s string) string {
	s = inline.htmlBreak.ReplaceAllString(s, " ")
	s = inline.link.ReplaceAllString(s, "$1")
	s = inline.htmlTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "`", "")
	s = inline.whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// cleanParamName strips the angle-bracket and asterisk decoration the
// document puts around parameter names, so `<*text_1*>` reads as text_1.
// Commas and dots survive; the caller decides how to split the cell.
func cleanParamName(cell string) string {
	cell = strings.ReplaceAll(cell, "<", "")
	cell = strings.ReplaceAll(cell, ">", "")
	cell = strings.ReplaceAll(cell, "*", "")
	cell = strings.ReplaceAll(cell, "`", "")
	return strings.TrimSpace(cell)
}

// splitTableRow splits a |-delimited row into trimmed cell values, dropping
// the empty leading/trailing fields produced by the border pipes.
func splitTableRow(row string) []string {
	parts := strings.Split(row, "|")
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
