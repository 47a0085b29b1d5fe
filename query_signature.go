package fndex

import (
	"fmt"
	"strings"
)

// SignatureInfo describes the call the cursor sits inside.
type SignatureInfo struct {
	Name        string   // resolved name in catalog casing
	Label       string   // one-line signature: name(param1, param2, ...)
	Parameters  []string // parameter labels in declaration order
	ActiveParam int      // index into Parameters, -1 when no parameter applies
	ActiveStart int      // byte offset of the active label within Label (0 when none)
	ActiveEnd   int      // byte offset one past the active label (0 when none)
}

// SignatureHelp resolves the call surrounding the cursor in a workflow
// expression and reports which parameter the cursor is on. A trailing
// variadic parameter stays active for every argument at or beyond its
// position. Returns nil with no error when the cursor is not inside a
// call or the called name is not in the catalog.
func (q *QueryBuilder) SignatureHelp(expression string, cursor int) (*SignatureInfo, error) {
	name, argIndex, ok := detectCall(expression, cursor)
	if !ok {
		return nil, nil
	}

	fns, err := q.store.FunctionsByName(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("signature help: %w", err)
	}
	if len(fns) == 0 {
		return nil, nil
	}
	fn := fns[0]

	params, err := q.store.ParametersByFunction(fn.ID)
	if err != nil {
		return nil, fmt.Errorf("signature help: parameters: %w", err)
	}

	labels := make([]string, len(params))
	for i, p := range params {
		labels[i] = p.Name
	}

	active := -1
	for i, l := range labels {
		variadic := strings.Contains(l, "...")
		if (variadic && argIndex >= i) || (!variadic && argIndex == i) {
			active = i
			break
		}
	}

	info := &SignatureInfo{Name: fn.Name, Parameters: labels, ActiveParam: active}

	var b strings.Builder
	b.WriteString(fn.Name)
	b.WriteByte('(')
	for i, l := range labels {
		if i > 0 {
			b.WriteString(", ")
		}
		if i == active {
			info.ActiveStart = b.Len()
			info.ActiveEnd = b.Len() + len(l)
		}
		b.WriteString(l)
	}
	b.WriteByte(')')
	info.Label = b.String()

	return info, nil
}

// detectCall scans backward from the cursor for the innermost unbalanced
// '(' preceded by an identifier and counts commas at depth zero to find
// the argument index. An unbalanced '(' with no identifier before it is a
// grouping paren; the scan continues outward past it. Byte-wise scanning
// is safe here: the delimiters are ASCII and never occur inside UTF-8
// continuation bytes.
func detectCall(expression string, cursor int) (name string, argIndex int, ok bool) {
	if cursor > len(expression) {
		cursor = len(expression)
	}
	if cursor < 0 {
		cursor = 0
	}

	depth := 0
	open := -1
	nameStart := -1
scan:
	for i := cursor - 1; i >= 0; i-- {
		switch expression[i] {
		case ')':
			depth++
		case '(':
			if depth > 0 {
				depth--
				continue
			}
			if s := identStart(expression, i); s < i {
				open, nameStart = i, s
				break scan
			}
		}
	}
	if open < 0 {
		return "", 0, false
	}
	name = expression[nameStart:open]

	depth = 0
	for i := open + 1; i < cursor; i++ {
		switch expression[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}
	return name, argIndex, true
}

// identStart walks backward from end over identifier characters and
// returns the start of the identifier, or end when the character before
// it cannot begin one (identifiers are a letter followed by letters or
// digits).
func identStart(s string, end int) int {
	start := end
	for start > 0 && isIdentByte(s[start-1]) {
		start--
	}
	for start < end && !isIdentLeadByte(s[start]) {
		start++
	}
	return start
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isIdentLeadByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
