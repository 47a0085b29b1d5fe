package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mwheeler/fndex"
	"github.com/spf13/cobra"
)

var (
	flagLimit      int
	flagOffset     int
	flagSort       string
	flagOrder      string
	flagCategory   string
	flagDeprecated string
	flagSearch     string
	flagPrefix     string
	flagCursor     int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the function catalog",
	Long:  "Run queries against the indexed catalog. Run 'fndex index' first.",
}

func init() {
	queryCmd.PersistentFlags().IntVar(&flagLimit, "limit", 50, "pagination limit (max 500)")
	queryCmd.PersistentFlags().IntVar(&flagOffset, "offset", 0, "pagination offset")

	queryCmd.AddCommand(listCmd)
	queryCmd.AddCommand(showCmd)
	queryCmd.AddCommand(completeCmd)
	queryCmd.AddCommand(signatureCmd)
	queryCmd.AddCommand(categoriesCmd)
	queryCmd.AddCommand(statsCmd)
}

// --- Helpers ---

// openEngine opens the catalog engine from the --db flag path (or default).
func openEngine() (*fndex.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	repoRoot := findRepoRoot(cwd)
	dbPath := resolveDBPath(repoRoot)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("catalog not found: %s (run 'fndex index' first)", dbPath)
	}

	return fndex.New(dbPath)
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// buildSort creates a Sort from CLI flags. Unset --sort keeps the
// document's own ordering.
func buildSort() fndex.Sort {
	var field fndex.SortField
	switch flagSort {
	case "name":
		field = fndex.SortByName
	case "category":
		field = fndex.SortByCategory
	default:
		field = fndex.SortByDocument
	}

	var order fndex.SortOrder
	switch flagOrder {
	case "desc":
		order = fndex.Desc
	default:
		order = fndex.Asc
	}

	return fndex.Sort{Field: field, Order: order}
}

// parseDeprecatedFlag interprets the tri-state --deprecated value: empty
// means no filter.
func parseDeprecatedFlag(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --deprecated %q: must be true or false", value)
	}
	return &b, nil
}

// --- Commands ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Long:  "Lists functions in document order by default. Filters combine with AND.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&flagCategory, "category", "", "filter by category (exact match)")
	listCmd.Flags().StringVar(&flagDeprecated, "deprecated", "", "filter by deprecation: true|false")
	listCmd.Flags().StringVar(&flagSearch, "search", "", "substring match on name or description")
	listCmd.Flags().StringVar(&flagPrefix, "prefix", "", "case-insensitive name prefix")
	listCmd.Flags().StringVar(&flagSort, "sort", "", "sort field: name|category|document")
	listCmd.Flags().StringVar(&flagOrder, "order", "asc", "sort order: asc|desc")
}

func runList(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("list", err)
	}
	defer engine.Close()

	qb := engine.Query()
	if flagCategory != "" {
		qb = qb.WithCategory(flagCategory)
	}
	deprecated, err := parseDeprecatedFlag(flagDeprecated)
	if err != nil {
		return outputError("list", err)
	}
	if deprecated != nil {
		qb = qb.WithDeprecated(*deprecated)
	}
	if flagSearch != "" {
		qb = qb.WithSearch(flagSearch)
	}
	if flagPrefix != "" {
		qb = qb.WithNamePrefix(flagPrefix)
	}
	sort := buildSort()
	qb = qb.SortBy(sort.Field, sort.Order).WithPagination(flagOffset, flagLimit)

	res, err := qb.Execute()
	if err != nil {
		return outputError("list", err)
	}

	rows := make([]CLIFunction, len(res.Items))
	for i, f := range res.Items {
		rows[i] = functionToCLI(f)
	}

	return outputResult(CLIResult{
		Command:    "list",
		Results:    rows,
		TotalCount: &res.TotalCount,
	})
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one function's full catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("show", err)
	}
	defer engine.Close()

	detail, err := engine.Query().FunctionDetail(args[0])
	if err != nil {
		return outputError("show", err)
	}
	if detail == nil {
		return outputError("show", fmt.Errorf("function %q not found in catalog", args[0]))
	}

	one := 1
	return outputResult(CLIResult{
		Command:    "show",
		Results:    detailToCLI(detail),
		TotalCount: &one,
	})
}

var completeCmd = &cobra.Command{
	Use:   "complete [word]",
	Short: "Suggest function names for a partial word",
	Long:  "Prefix matches rank first, then fuzzy matches. An empty word browses the catalog alphabetically.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("complete", err)
	}
	defer engine.Close()

	word := ""
	if len(args) > 0 {
		word = args[0]
	}
	// The persistent --limit default suits listing; completion keeps its
	// own smaller default unless the flag was set explicitly.
	limit := 0
	if cmd.Flag("limit").Changed {
		limit = flagLimit
	}

	cands, err := engine.Query().Complete(word, limit)
	if err != nil {
		return outputError("complete", err)
	}

	rows := make([]CLICandidate, len(cands))
	for i, c := range cands {
		rows[i] = candidateToCLI(c)
	}

	count := len(rows)
	return outputResult(CLIResult{
		Command:    "complete",
		Results:    rows,
		TotalCount: &count,
	})
}

var signatureCmd = &cobra.Command{
	Use:   "signature <expression>",
	Short: "Show signature help for the call at the cursor",
	Long:  "Resolves the innermost open call at the cursor position (end of the expression by default) and marks the active parameter.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSignature,
}

func init() {
	signatureCmd.Flags().IntVar(&flagCursor, "cursor", -1, "byte offset of the cursor (default: end of expression)")
}

func runSignature(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("signature", err)
	}
	defer engine.Close()

	expression := args[0]
	cursor := flagCursor
	if cursor < 0 {
		cursor = len(expression)
	}

	sig, err := engine.Query().SignatureHelp(expression, cursor)
	if err != nil {
		return outputError("signature", err)
	}

	if sig == nil {
		return outputResult(CLIResult{
			Command: "signature",
			Results: nil,
		})
	}

	one := 1
	return outputResult(CLIResult{
		Command:    "signature",
		Results:    signatureToCLI(sig),
		TotalCount: &one,
	})
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show per-category function counts",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func runCategories(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("categories", err)
	}
	defer engine.Close()

	counts, err := engine.Query().CategorySummary()
	if err != nil {
		return outputError("categories", err)
	}

	rows := make([]CLICategoryCount, len(counts))
	for i, c := range counts {
		rows[i] = CLICategoryCount{Category: c.Category, Count: c.Count}
	}

	count := len(rows)
	return outputResult(CLIResult{
		Command:    "categories",
		Results:    rows,
		TotalCount: &count,
	})
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog totals",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("stats", err)
	}
	defer engine.Close()

	stats, err := engine.Query().Stats()
	if err != nil {
		return outputError("stats", err)
	}

	return outputResult(CLIResult{
		Command: "stats",
		Results: statsToCLI(stats),
	})
}

// --- Converters ---

func functionToCLI(f fndex.FunctionSummary) CLIFunction {
	return CLIFunction{
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Syntax:      f.Syntax,
		Deprecated:  f.Deprecated,
		ParamCount:  f.ParamCount,
	}
}

func detailToCLI(d *fndex.FunctionDetail) CLIFunctionDetail {
	out := CLIFunctionDetail{
		Name:              d.Name,
		Category:          d.Category,
		Description:       d.Description,
		Syntax:            d.Syntax,
		ReturnType:        d.ReturnType,
		ReturnDescription: d.ReturnDescription,
		Deprecated:        d.Deprecated,
		Parameters:        make([]CLIParameter, len(d.Parameters)),
		Examples:          d.Examples,
		SeeAlso:           d.SeeAlso,
	}
	for i, p := range d.Parameters {
		out.Parameters[i] = CLIParameter{
			Name:        p.Name,
			Required:    p.Required,
			Type:        p.Type,
			Description: p.Description,
		}
	}
	return out
}

func candidateToCLI(c fndex.Candidate) CLICandidate {
	return CLICandidate{
		Name:           c.Name,
		Category:       c.Category,
		Snippet:        c.Snippet,
		MatchedIndexes: c.MatchedIndexes,
	}
}

func signatureToCLI(s *fndex.SignatureInfo) CLISignature {
	return CLISignature{
		Name:        s.Name,
		Label:       s.Label,
		Parameters:  s.Parameters,
		ActiveParam: s.ActiveParam,
		ActiveStart: s.ActiveStart,
		ActiveEnd:   s.ActiveEnd,
	}
}

func statsToCLI(s *fndex.Stats) CLIStats {
	return CLIStats{
		Functions:   s.Functions,
		Parameters:  s.Parameters,
		Examples:    s.Examples,
		Deprecated:  s.Deprecated,
		ContentHash: s.ContentHash,
	}
}
