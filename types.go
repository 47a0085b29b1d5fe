package fndex

// Function categories as written in the reference document's summary
// sections. CategoryOther is the fallback for functions no summary table
// listed.
const (
	CategoryString       = "String"
	CategoryCollection   = "Collection"
	CategoryLogical      = "Logical comparison"
	CategoryConversion   = "Conversion"
	CategoryMath         = "Math"
	CategoryDateTime     = "Date and time"
	CategoryWorkflow     = "Workflow"
	CategoryURIParsing   = "URI parsing"
	CategoryManipulation = "Manipulation"
	CategoryOther        = "Other"
)

// Categories lists the nine documented categories in summary-section order.
// CategoryOther is not included; it never heads a summary section.
var Categories = []string{
	CategoryString,
	CategoryCollection,
	CategoryLogical,
	CategoryConversion,
	CategoryMath,
	CategoryDateTime,
	CategoryWorkflow,
	CategoryURIParsing,
	CategoryManipulation,
}

// categorySet is the lookup form of Categories.
var categorySet = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// FunctionDefinition is one parsed entry of the reference document.
// Entries are immutable once produced; Parse returns a fresh slice on
// every call.
type FunctionDefinition struct {
	Name              string
	Description       string
	Syntax            string
	Parameters        []Parameter
	ReturnType        string
	ReturnDescription string
	Category          string
	Examples          []string
	Deprecated        bool
}

// Parameter is one input of a documented function, in call-site order.
type Parameter struct {
	Name        string
	Required    bool
	Type        string
	Description string
}
