package fndex

import (
	"regexp"
	"strings"
)

// detailAnchor marks the start of the detailed (alphabetical) section.
// Everything before it holds the category summary tables; everything after
// it holds one heading block per function.
const detailAnchor = `<a name="alphabetical-list"></a>`

// exampleMarker arms example capture for the current heading block. The
// literal substring covers both "*Example*" and "*Examples*" lines.
const exampleMarker = "*Example"

var patterns = struct {
	categoryHeading *regexp.Regexp
	sectionHeading  *regexp.Regexp
	summaryRow      *regexp.Regexp
	functionHeading *regexp.Regexp
	returnHeader    *regexp.Regexp
	separatorRow    *regexp.Regexp
}{
	categoryHeading: regexp.MustCompile(`^##\s+(.+?)\s+functions\s*$`),
	sectionHeading:  regexp.MustCompile(`^##\s`),
	summaryRow:      regexp.MustCompile(`^\|\s*\[([A-Za-z][A-Za-z0-9]*)\]\([^)]*\)\s*\|`),
	functionHeading: regexp.MustCompile(`^###\s+([A-Za-z][A-Za-z0-9]*)\s*(?:\((?i:deprecated)\))?\s*$`),
	returnHeader:    regexp.MustCompile(`Return [Vv]alue`),
	separatorRow:    regexp.MustCompile(`^\|[\s\-:|]+\|?\s*$`),
}

// deniedHeadings are prose section headers that match the function-heading
// shape but never describe a function.
var deniedHeadings = map[string]bool{
	"Base64":         true,
	"Implicit":       true,
	"Considerations": true,
}

// Parse converts the reference document text into an ordered list of
// function definitions. Output order follows the detailed section's heading
// order, not category order. Parse never fails: malformed structure degrades
// to fewer entries or entries with empty optional fields. An empty or
// heading-less document yields an empty list.
//
// Parse is a pure function over its input. It holds no state between calls
// and is safe for concurrent use; callers may memoize results by content
// hash if re-parsing unchanged documents matters to them.
func Parse(documentText string) []FunctionDefinition {
	lines := strings.Split(documentText, "\n")

	categories, marker := scanCategoryTables(lines)
	start := marker
	if marker < 0 {
		// No anchor: the whole document is detailed-section input and no
		// categories are resolved.
		start = 0
		categories = nil
	}
	return parseFunctionBlocks(lines, start, categories)
}

// scanCategoryTables is the first pass. It scans from the top until the
// detail anchor, tracking which category summary section the scan is inside
// and registering every `| [name](link) | ... |` row into the name→category
// map. Returns the map and the anchor's line index, or -1 if the anchor
// never appears.
func scanCategoryTables(lines []string) (map[string]string, int) {
	categories := make(map[string]string)
	current := ""

	for i, line := range lines {
		if strings.Contains(line, detailAnchor) {
			return categories, i
		}
		if m := patterns.categoryHeading.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			if categorySet[name] {
				current = name
			} else {
				current = ""
			}
			continue
		}
		// Any other ##-level heading ends the current category span, so
		// rows outside a known span are ignored.
		if patterns.sectionHeading.MatchString(line) {
			current = ""
			continue
		}
		if current == "" {
			continue
		}
		if m := patterns.summaryRow.FindStringSubmatch(line); m != nil {
			categories[m[1]] = current
		}
	}
	return categories, -1
}

// parseFunctionBlocks is the second pass. Starting at the anchor line (or
// line 0 when absent), it accepts `### name` and `### name (deprecated)`
// headings, carves out each heading's block, and extracts one definition
// per accepted heading. Duplicate headings produce separate entries in
// document order.
func parseFunctionBlocks(lines []string, start int, categories map[string]string) []FunctionDefinition {
	var defs []FunctionDefinition

	for i := start; i < len(lines); i++ {
		m := patterns.functionHeading.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		name := m[1]
		if deniedHeadings[name] {
			continue
		}

		end := blockEnd(lines, i+1)
		def := parseFunctionBlock(name, lines[i+1:end])
		def.Deprecated = strings.Contains(strings.ToLower(lines[i]), "(deprecated)")

		def.Category = CategoryOther
		if c, ok := categories[name]; ok {
			def.Category = c
		}

		defs = append(defs, def)
		i = end - 1
	}
	return defs
}

// blockEnd returns the index of the line that terminates a heading block:
// the next ##- or ###-level heading, or len(lines). Deeper heading levels
// stay inside the block.
func blockEnd(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		line := lines[i]
		if patterns.sectionHeading.MatchString(line) {
			return i
		}
		if strings.HasPrefix(line, "###") && !strings.HasPrefix(line, "####") {
			return i
		}
	}
	return len(lines)
}

// parseFunctionBlock extracts description, syntax, parameters, return info,
// and examples from the lines between a function heading and the next
// heading.
func parseFunctionBlock(name string, block []string) FunctionDefinition {
	def := FunctionDefinition{Name: name}
	def.Description = extractDescription(block)

	var (
		inFence      bool
		fence        []string
		syntaxSet    bool
		paramsDone   bool
		returnDone   bool
		exampleArmed bool
	)

	for i := 0; i < len(block); i++ {
		line := block[i]
		trimmed := strings.TrimSpace(line)

		if inFence {
			if strings.HasPrefix(trimmed, "```") {
				inFence = false
				content := strings.TrimSpace(strings.Join(fence, "\n"))
				if !syntaxSet {
					def.Syntax = content
					syntaxSet = true
				}
				// Only the first fence closing after a marker is captured;
				// later fences under the same marker are not.
				if exampleArmed {
					def.Examples = append(def.Examples, content)
					exampleArmed = false
				}
			} else {
				fence = append(fence, line)
			}
			continue
		}

		if strings.HasPrefix(trimmed, "```") {
			inFence = true
			fence = nil
			continue
		}

		if strings.Contains(line, exampleMarker) {
			exampleArmed = true
			continue
		}

		if !strings.HasPrefix(trimmed, "|") {
			continue
		}

		switch {
		case !returnDone && patterns.returnHeader.MatchString(trimmed):
			returnDone = true
			def.ReturnType, def.ReturnDescription = parseReturnRow(block, i+1)

		case !paramsDone && strings.Contains(trimmed, "Parameter"):
			paramsDone = true
			var next int
			def.Parameters, next = parseParameterRows(block, i+1)
			// Reprocess the terminating line: it may be the return table's
			// header.
			i = next - 1
		}
	}
	return def
}

// extractDescription concatenates the block's leading text lines. Leading
// admonition lines (starting with ">") before any real content are skipped
// entirely. The text ends at a code fence, at a parameter/return table
// header, or at a blank line directly followed by a fence or table.
func extractDescription(block []string) string {
	var parts []string
	for i := 0; i < len(block); i++ {
		line := strings.TrimSpace(block[i])
		if line == "" {
			if i+1 < len(block) {
				next := strings.TrimSpace(block[i+1])
				if strings.HasPrefix(next, "```") || strings.HasPrefix(next, "|") {
					break
				}
			}
			continue
		}
		if strings.HasPrefix(line, "```") {
			break
		}
		if strings.HasPrefix(line, "|") && (strings.Contains(line, "Parameter") || strings.Contains(line, "Return")) {
			break
		}
		if strings.HasPrefix(line, ">") && len(parts) == 0 {
			continue
		}
		parts = append(parts, line)
	}
	return stripInline(strings.Join(parts, " "))
}

// parseParameterRows consumes the rows of a parameter table starting at the
// separator row (or first data row) and returns the parameters plus the
// index of the line that ended the table. The table ends at a blank or
// non-table line, or at a header containing "Return".
func parseParameterRows(block []string, from int) ([]Parameter, int) {
	var params []Parameter

	i := from
	if i < len(block) && patterns.separatorRow.MatchString(strings.TrimSpace(block[i])) {
		i++
	}
	for ; i < len(block); i++ {
		trimmed := strings.TrimSpace(block[i])
		if trimmed == "" || !strings.HasPrefix(trimmed, "|") {
			break
		}
		if patterns.returnHeader.MatchString(trimmed) {
			break
		}
		cells := splitTableRow(trimmed)
		if len(cells) < 4 {
			continue
		}

		required := cells[1] == "Yes"
		paramType := stripInline(cells[2])
		desc := stripInline(cells[3])

		nameCell := cleanParamName(cells[0])
		if nameCell == "" {
			continue
		}
		// A variadic cell ("...") stays one literal entry; anything else
		// with commas expands into one parameter per listed name, sharing
		// the row's attributes.
		if strings.Contains(nameCell, "...") {
			params = append(params, Parameter{Name: nameCell, Required: required, Type: paramType, Description: desc})
			continue
		}
		for _, n := range strings.Split(nameCell, ",") {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			params = append(params, Parameter{Name: n, Required: required, Type: paramType, Description: desc})
		}
	}
	return params, i
}

// parseReturnRow reads the single data row of a return-value table whose
// header sits at from-1. Missing separator or data rows yield empty strings.
func parseReturnRow(block []string, from int) (string, string) {
	i := from
	if i < len(block) && patterns.separatorRow.MatchString(strings.TrimSpace(block[i])) {
		i++
	}
	if i >= len(block) {
		return "", ""
	}
	trimmed := strings.TrimSpace(block[i])
	if !strings.HasPrefix(trimmed, "|") {
		return "", ""
	}
	cells := splitTableRow(trimmed)
	if len(cells) < 3 {
		return "", ""
	}
	return stripInline(cells[1]), stripInline(cells[2])
}
