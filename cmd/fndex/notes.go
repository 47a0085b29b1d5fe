package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mwheeler/fndex/internal/dataverse"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// defaultTokenEnv is where the bearer token is read from when neither the
// config file nor --token-env names a variable.
const defaultTokenEnv = "FNDEX_DATAVERSE_TOKEN"

var (
	flagNotesConfig string
	flagBaseURL     string
	flagAPIVersion  string
	flagTokenEnv    string
	flagTimeoutSecs int
	flagNotesFile   string
	flagTop         int
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Sync per-workflow usage notes with Dataverse",
	Long:  "Reads and writes the expression-notes field on Dataverse workflow records. Connection settings come from a YAML config file or flags; the bearer token is read from an environment variable.",
}

func init() {
	notesCmd.PersistentFlags().StringVar(&flagNotesConfig, "config", "", "YAML config path (default: .fndex/notes.yaml relative to repo root)")
	notesCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Dataverse environment URL, e.g. https://org.crm.dynamics.com")
	notesCmd.PersistentFlags().StringVar(&flagAPIVersion, "api-version", "", "Web API version (default v9.2)")
	notesCmd.PersistentFlags().StringVar(&flagTokenEnv, "token-env", "", "environment variable holding the bearer token (default "+defaultTokenEnv+")")
	notesCmd.PersistentFlags().IntVar(&flagTimeoutSecs, "timeout", 0, "request timeout in seconds (default 30)")

	notesCmd.AddCommand(notesPullCmd)
	notesCmd.AddCommand(notesPushCmd)
	notesCmd.AddCommand(notesWorkflowsCmd)
}

// notesConfig mirrors the YAML config file for the notes commands.
type notesConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIVersion     string `yaml:"api_version"`
	TokenEnv       string `yaml:"token_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// loadNotesConfig reads the YAML config. A missing file returns a zero
// config so flags alone can configure the connection.
func loadNotesConfig(path string) (*notesConfig, error) {
	cfg := &notesConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// notesConfigPath returns the --config value or the default location.
func notesConfigPath() (string, error) {
	if flagNotesConfig != "" {
		return flagNotesConfig, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	return filepath.Join(findRepoRoot(cwd), ".fndex", "notes.yaml"), nil
}

// buildNotesClient merges config file and flag values into a client.
// Flags win over the file.
func buildNotesClient() (*dataverse.Client, error) {
	path, err := notesConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := loadNotesConfig(path)
	if err != nil {
		return nil, err
	}

	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagAPIVersion != "" {
		cfg.APIVersion = flagAPIVersion
	}
	if flagTokenEnv != "" {
		cfg.TokenEnv = flagTokenEnv
	}
	if flagTimeoutSecs > 0 {
		cfg.TimeoutSeconds = flagTimeoutSecs
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no Dataverse URL configured (set --base-url or base_url in %s)", path)
	}
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = defaultTokenEnv
	}

	return dataverse.NewClient(dataverse.Config{
		BaseURL:    cfg.BaseURL,
		APIVersion: cfg.APIVersion,
		Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, dataverse.EnvTokenSource(cfg.TokenEnv)), nil
}

// parseWorkflowIDs parses positional workflow id arguments.
func parseWorkflowIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(args))
	for i, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid workflow id %q: %w", arg, err)
		}
		ids[i] = id
	}
	return ids, nil
}

var notesPullCmd = &cobra.Command{
	Use:   "pull <workflow-id>...",
	Short: "Fetch usage notes for one or more workflows",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNotesPull,
}

func runNotesPull(cmd *cobra.Command, args []string) error {
	ids, err := parseWorkflowIDs(args)
	if err != nil {
		return outputError("notes-pull", err)
	}
	client, err := buildNotesClient()
	if err != nil {
		return outputError("notes-pull", err)
	}

	pulled, err := client.PullAll(context.Background(), ids)
	if err != nil {
		return outputError("notes-pull", err)
	}

	rows := make([]CLIWorkflowNotes, 0, len(pulled))
	for id, notes := range pulled {
		rows = append(rows, workflowNotesToCLI(id, notes))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].WorkflowID < rows[j].WorkflowID })

	count := len(rows)
	return outputResult(CLIResult{
		Command:    "notes-pull",
		Results:    rows,
		TotalCount: &count,
	})
}

var notesPushCmd = &cobra.Command{
	Use:   "push <workflow-id>",
	Short: "Write a usage-notes document to one workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesPush,
}

func init() {
	notesPushCmd.Flags().StringVar(&flagNotesFile, "file", "", "JSON file holding the notes document")
	_ = notesPushCmd.MarkFlagRequired("file")
}

func runNotesPush(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return outputError("notes-push", fmt.Errorf("invalid workflow id %q: %w", args[0], err))
	}

	data, err := os.ReadFile(flagNotesFile)
	if err != nil {
		return outputError("notes-push", fmt.Errorf("reading notes file: %w", err))
	}
	var notes dataverse.Notes
	if err := json.Unmarshal(data, &notes); err != nil {
		return outputError("notes-push", fmt.Errorf("parsing notes file %s: %w", flagNotesFile, err))
	}

	client, err := buildNotesClient()
	if err != nil {
		return outputError("notes-push", err)
	}
	if err := client.PutNotes(context.Background(), id, &notes); err != nil {
		return outputError("notes-push", err)
	}

	fmt.Fprintf(os.Stderr, "Pushed %d note entries to workflow %s\n", len(notes.Entries), id)
	return nil
}

var notesWorkflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List workflows available for notes",
	Args:  cobra.NoArgs,
	RunE:  runNotesWorkflows,
}

func init() {
	notesWorkflowsCmd.Flags().IntVar(&flagTop, "top", 0, "maximum workflows to list (default 100)")
}

func runNotesWorkflows(cmd *cobra.Command, args []string) error {
	client, err := buildNotesClient()
	if err != nil {
		return outputError("notes-workflows", err)
	}

	flows, err := client.ListWorkflows(context.Background(), flagTop)
	if err != nil {
		return outputError("notes-workflows", err)
	}

	rows := make([]CLIWorkflow, len(flows))
	for i, f := range flows {
		rows[i] = CLIWorkflow{WorkflowID: f.ID.String(), Name: f.Name, Category: f.Category}
	}

	count := len(rows)
	return outputResult(CLIResult{
		Command:    "notes-workflows",
		Results:    rows,
		TotalCount: &count,
	})
}

// workflowNotesToCLI flattens one pulled document for output.
func workflowNotesToCLI(id uuid.UUID, notes *dataverse.Notes) CLIWorkflowNotes {
	out := CLIWorkflowNotes{
		WorkflowID: id.String(),
		Version:    notes.Version,
		Entries:    make([]CLINoteEntry, len(notes.Entries)),
	}
	for i, e := range notes.Entries {
		out.Entries[i] = CLINoteEntry{
			Function:  e.Function,
			Note:      e.Note,
			Pinned:    e.Pinned,
			UpdatedAt: e.UpdatedAt,
		}
	}
	return out
}
