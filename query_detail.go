package fndex

import (
	"fmt"
	"strings"
)

// FunctionDetail is a combined response that bundles a catalog entry with
// all of its structural metadata. One call replaces four separate Store
// lookups.
type FunctionDetail struct {
	Name              string
	Category          string
	Description       string
	Syntax            string
	ReturnType        string
	ReturnDescription string
	Deprecated        bool
	Parameters        []ParameterDetail
	Examples          []string
	SeeAlso           []string // other entries in the same category
}

// ParameterDetail describes one declared parameter.
type ParameterDetail struct {
	Name        string
	Required    bool
	Type        string
	Description string
}

// FunctionDetail looks up one entry by name, case-insensitively. Returns
// nil with no error when the name is not in the catalog. When the
// document defines the name more than once, the earliest occurrence wins.
func (q *QueryBuilder) FunctionDetail(name string) (*FunctionDetail, error) {
	nameLower := strings.ToLower(name)
	fns, err := q.store.FunctionsByName(nameLower)
	if err != nil {
		return nil, fmt.Errorf("function detail %q: %w", name, err)
	}
	if len(fns) == 0 {
		return nil, nil
	}
	fn := fns[0]

	params, err := q.store.ParametersByFunction(fn.ID)
	if err != nil {
		return nil, fmt.Errorf("function detail %q: parameters: %w", name, err)
	}
	examples, err := q.store.ExamplesByFunction(fn.ID)
	if err != nil {
		return nil, fmt.Errorf("function detail %q: examples: %w", name, err)
	}
	siblings, err := q.store.FunctionsByCategory(fn.Category)
	if err != nil {
		return nil, fmt.Errorf("function detail %q: siblings: %w", name, err)
	}

	detail := &FunctionDetail{
		Name:              fn.Name,
		Category:          fn.Category,
		Description:       fn.Description,
		Syntax:            fn.Syntax,
		ReturnType:        fn.ReturnType,
		ReturnDescription: fn.ReturnDescription,
		Deprecated:        fn.Deprecated,
		Parameters:        []ParameterDetail{},
		Examples:          []string{},
		SeeAlso:           []string{},
	}
	for _, p := range params {
		detail.Parameters = append(detail.Parameters, ParameterDetail{
			Name:        p.Name,
			Required:    p.Required,
			Type:        p.Type,
			Description: p.Description,
		})
	}
	for _, ex := range examples {
		detail.Examples = append(detail.Examples, ex.Code)
	}
	seen := map[string]bool{fn.NameLower: true}
	for _, sib := range siblings {
		if seen[sib.NameLower] {
			continue
		}
		seen[sib.NameLower] = true
		detail.SeeAlso = append(detail.SeeAlso, sib.Name)
	}

	return detail, nil
}
