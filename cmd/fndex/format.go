package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// formatFunctionsText formats CLIFunction rows as aligned columns.
func formatFunctionsText(w io.Writer, fns []CLIFunction) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tPARAMS\tDEPRECATED\tSYNTAX")
	for _, f := range fns {
		deprecated := ""
		if f.Deprecated {
			deprecated = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			f.Name, f.Category, f.ParamCount, deprecated, f.Syntax)
	}
	tw.Flush()
}

// formatDetailText formats a CLIFunctionDetail as a readable block.
func formatDetailText(w io.Writer, d CLIFunctionDetail) {
	name := d.Name
	if d.Deprecated {
		name += " (deprecated)"
	}
	fmt.Fprintf(w, "Function: %s\n", name)
	fmt.Fprintf(w, "Category: %s\n", d.Category)
	fmt.Fprintf(w, "Syntax: %s\n", d.Syntax)
	if d.ReturnType != "" || d.ReturnDescription != "" {
		fmt.Fprintf(w, "Returns: %s", d.ReturnType)
		if d.ReturnDescription != "" {
			fmt.Fprintf(w, " (%s)", d.ReturnDescription)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, d.Description)

	if len(d.Parameters) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Parameters:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  NAME\tREQUIRED\tTYPE\tDESCRIPTION")
		for _, p := range d.Parameters {
			required := "no"
			if p.Required {
				required = "yes"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.Name, required, p.Type, p.Description)
		}
		tw.Flush()
	}

	if len(d.Examples) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Examples:")
		for _, e := range d.Examples {
			for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	if len(d.SeeAlso) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "See also: %s\n", strings.Join(d.SeeAlso, ", "))
	}
}

// formatCandidatesText formats completion candidates as aligned columns.
func formatCandidatesText(w io.Writer, cands []CLICandidate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tDESCRIPTION")
	for _, c := range cands {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Category, c.Snippet)
	}
	tw.Flush()
}

// formatSignatureText prints the one-line label plus the active parameter.
func formatSignatureText(w io.Writer, sig CLISignature) {
	fmt.Fprintln(w, sig.Label)
	if sig.ActiveParam >= 0 && sig.ActiveEnd > sig.ActiveStart {
		fmt.Fprintf(w, "Active parameter: %s\n", sig.Label[sig.ActiveStart:sig.ActiveEnd])
	}
}

// formatCategoriesText formats the category breakdown as aligned columns.
func formatCategoriesText(w io.Writer, counts []CLICategoryCount) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tFUNCTIONS")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
	}
	tw.Flush()
}

// formatStatsText formats CLIStats as readable text.
func formatStatsText(w io.Writer, stats CLIStats) {
	fmt.Fprintln(w, "Catalog Stats")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Functions: %d\n", stats.Functions)
	fmt.Fprintf(w, "Parameters: %d\n", stats.Parameters)
	fmt.Fprintf(w, "Examples: %d\n", stats.Examples)
	fmt.Fprintf(w, "Deprecated: %d\n", stats.Deprecated)
	if stats.ContentHash != "" {
		fmt.Fprintf(w, "Document hash: %s\n", stats.ContentHash)
	}
}

// formatWorkflowsText formats Dataverse workflow rows as aligned columns.
func formatWorkflowsText(w io.Writer, flows []CLIWorkflow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKFLOW\tNAME\tCATEGORY")
	for _, f := range flows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", f.WorkflowID, f.Name, f.Category)
	}
	tw.Flush()
}

// formatWorkflowNotesText formats pulled notes documents per workflow.
func formatWorkflowNotesText(w io.Writer, all []CLIWorkflowNotes) {
	for i, wn := range all {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Workflow: %s (%d entries)\n", wn.WorkflowID, len(wn.Entries))
		if len(wn.Entries) == 0 {
			continue
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  FUNCTION\tPINNED\tUPDATED\tNOTE")
		for _, e := range wn.Entries {
			pinned := ""
			if e.Pinned {
				pinned = "yes"
			}
			updated := ""
			if !e.UpdatedAt.IsZero() {
				updated = e.UpdatedAt.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Function, pinned, updated, e.Note)
		}
		tw.Flush()
	}
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case []CLIFunction:
		formatFunctionsText(w, v)
	case CLIFunctionDetail:
		formatDetailText(w, v)
	case []CLICandidate:
		formatCandidatesText(w, v)
	case CLISignature:
		formatSignatureText(w, v)
	case []CLICategoryCount:
		formatCategoriesText(w, v)
	case CLIStats:
		formatStatsText(w, v)
	case []CLIWorkflow:
		formatWorkflowsText(w, v)
	case []CLIWorkflowNotes:
		formatWorkflowNotesText(w, v)
	case nil:
		// No output for nil results (e.g., signature outside a call).
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}

	// Pagination footer.
	if result.TotalCount != nil {
		count := *result.TotalCount
		shown := resultLen(result.Results)
		if shown < count {
			fmt.Fprintf(w, "\nShowing %d of %d results\n", shown, count)
		}
	}

	return nil
}

// resultLen returns the length of a result slice, or 1 for a single value.
func resultLen(v any) int {
	switch r := v.(type) {
	case []CLIFunction:
		return len(r)
	case []CLICandidate:
		return len(r)
	case []CLICategoryCount:
		return len(r)
	case []CLIWorkflow:
		return len(r)
	case []CLIWorkflowNotes:
		return len(r)
	case nil:
		return 0
	default:
		return 1
	}
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
