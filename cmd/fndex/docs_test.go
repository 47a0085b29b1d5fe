package main

import (
	"testing"

	"github.com/mwheeler/fndex"
	"github.com/stretchr/testify/assert"
)

func TestDetailMarkdown_LaysOutSections(t *testing.T) {
	d := &fndex.FunctionDetail{
		Name:              "addDays",
		Category:          "Date and time",
		Description:       "Add a number of days to a timestamp.",
		Syntax:            "addDays('<timestamp>', <days>, '<format>'?)",
		ReturnType:        "String",
		ReturnDescription: "The timestamp plus the specified number of days",
		Parameters: []fndex.ParameterDetail{
			{Name: "timestamp", Required: true, Type: "String", Description: "The base timestamp"},
			{Name: "days", Required: true, Type: "Integer", Description: "The number of days to add"},
			{Name: "format", Required: false, Type: "String", Description: "A custom output format"},
		},
		Examples: []string{"addDays('2018-03-15T00:00:00Z', 10)"},
		SeeAlso:  []string{"addHours", "utcNow"},
	}

	md := detailMarkdown(d)
	assert.Contains(t, md, "# addDays\n")
	assert.NotContains(t, md, "(deprecated)")
	assert.Contains(t, md, "Add a number of days to a timestamp.")
	assert.Contains(t, md, "## Syntax")
	assert.Contains(t, md, "addDays('<timestamp>', <days>, '<format>'?)")
	assert.Contains(t, md, "| timestamp | Yes | String |")
	assert.Contains(t, md, "| format | No | String |")
	assert.Contains(t, md, "**String**: The timestamp plus the specified number of days")
	assert.Contains(t, md, "addDays('2018-03-15T00:00:00Z', 10)")
	assert.Contains(t, md, "## See also")
	assert.Contains(t, md, "addHours, utcNow")
}

func TestDetailMarkdown_MarksDeprecated(t *testing.T) {
	d := &fndex.FunctionDetail{
		Name:        "decodeBase64",
		Category:    "Conversion",
		Description: "Superseded by base64ToString.",
		Syntax:      "decodeBase64('<value>')",
		Deprecated:  true,
	}

	md := detailMarkdown(d)
	assert.Contains(t, md, "# decodeBase64 (deprecated)")
	assert.NotContains(t, md, "## Parameters")
	assert.NotContains(t, md, "## Examples")
}

func TestSignatureLine_ContainsNameAndParameters(t *testing.T) {
	d := &fndex.FunctionDetail{
		Name: "add",
		Parameters: []fndex.ParameterDetail{
			{Name: "summand_1", Required: true},
			{Name: "summand_2", Required: true},
		},
	}

	line := signatureLine(d)
	assert.Contains(t, line, "add")
	assert.Contains(t, line, "summand_1")
	assert.Contains(t, line, "summand_2")
}

func TestSignatureLine_VariadicParameter(t *testing.T) {
	d := &fndex.FunctionDetail{
		Name: "and",
		Parameters: []fndex.ParameterDetail{
			{Name: "expression_1, expression_2, ...", Required: true},
		},
	}

	line := signatureLine(d)
	assert.Contains(t, line, "and")
	assert.Contains(t, line, "expression_1, expression_2, ...")
}
