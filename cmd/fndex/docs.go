package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwheeler/fndex"
	"github.com/spf13/cobra"
)

// Styles for the signature line printed above the rendered body.
var (
	docsNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	docsParamStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	docsVariadicStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

var docsCmd = &cobra.Command{
	Use:   "docs <name>",
	Short: "Render a function's documentation in the terminal",
	Long:  "Looks up one catalog entry and renders its documentation block as styled markdown. Output is rendered text regardless of --format.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("docs", err)
	}
	defer engine.Close()

	detail, err := engine.Query().FunctionDetail(args[0])
	if err != nil {
		return outputError("docs", err)
	}
	if detail == nil {
		return outputError("docs", fmt.Errorf("function %q not found in catalog", args[0]))
	}

	fmt.Fprintln(os.Stdout, signatureLine(detail))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return outputError("docs", fmt.Errorf("creating renderer: %w", err))
	}
	rendered, err := renderer.Render(detailMarkdown(detail))
	if err != nil {
		return outputError("docs", fmt.Errorf("rendering: %w", err))
	}
	fmt.Fprint(os.Stdout, rendered)
	return nil
}

// signatureLine renders "name(param, ...)" with the name and any variadic
// parameter emphasized.
func signatureLine(d *fndex.FunctionDetail) string {
	var b strings.Builder
	b.WriteString(docsNameStyle.Render(d.Name))
	b.WriteString(docsParamStyle.Render("("))
	for i, p := range d.Parameters {
		if i > 0 {
			b.WriteString(docsParamStyle.Render(", "))
		}
		if strings.Contains(p.Name, "...") {
			b.WriteString(docsVariadicStyle.Render(p.Name))
		} else {
			b.WriteString(docsParamStyle.Render(p.Name))
		}
	}
	b.WriteString(docsParamStyle.Render(")"))
	return b.String()
}

// detailMarkdown lays a catalog entry out as a markdown document for
// terminal rendering.
func detailMarkdown(d *fndex.FunctionDetail) string {
	var b strings.Builder

	b.WriteString("# " + d.Name)
	if d.Deprecated {
		b.WriteString(" (deprecated)")
	}
	b.WriteString("\n\n")
	b.WriteString(d.Description)
	b.WriteString("\n\n## Syntax\n\n```\n")
	b.WriteString(d.Syntax)
	b.WriteString("\n```\n")

	if len(d.Parameters) > 0 {
		b.WriteString("\n## Parameters\n\n")
		b.WriteString("| Name | Required | Type | Description |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, p := range d.Parameters {
			required := "No"
			if p.Required {
				required = "Yes"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Name, required, p.Type, p.Description)
		}
	}

	if d.ReturnType != "" || d.ReturnDescription != "" {
		b.WriteString("\n## Returns\n\n")
		if d.ReturnType != "" {
			b.WriteString("**" + d.ReturnType + "**")
			if d.ReturnDescription != "" {
				b.WriteString(": ")
			}
		}
		b.WriteString(d.ReturnDescription)
		b.WriteString("\n")
	}

	if len(d.Examples) > 0 {
		b.WriteString("\n## Examples\n")
		for _, e := range d.Examples {
			b.WriteString("\n```\n")
			b.WriteString(strings.TrimRight(e, "\n"))
			b.WriteString("\n```\n")
		}
	}

	if len(d.SeeAlso) > 0 {
		b.WriteString("\n## See also\n\n")
		b.WriteString(strings.Join(d.SeeAlso, ", "))
		b.WriteString("\n")
	}

	return b.String()
}
