package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwheeler/fndex"
	"github.com/spf13/cobra"
)

var (
	flagDB     string
	flagFormat string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "fndex",
	Short:         "Searchable catalog of workflow expression functions",
	Long:          "Fndex parses the expression-function reference document into a SQLite catalog and serves listing, lookup, completion, and signature-help queries over it.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .fndex/index.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(notesCmd)
}

var (
	flagDoc   string
	flagForce bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the function catalog",
	Long:  "Parses the reference document (bundled copy by default) and writes the catalog to the SQLite database. An unchanged document is detected by content hash and skipped.",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&flagDoc, "doc", "", "reference document path (default: bundled copy)")
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and index from scratch")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}
	repoRoot := findRepoRoot(cwd)
	dbPath := resolveDBPath(repoRoot)

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dbDir, err)
	}

	// Handle --force: delete the DB file entirely.
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	var opts []fndex.Option
	if flagDoc != "" {
		opts = append(opts, fndex.WithDocument(flagDoc))
	}

	engine, err := fndex.New(dbPath, opts...)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	res, err := engine.Index(context.Background())
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	if res.Unchanged {
		fmt.Fprintf(os.Stderr, "Catalog up to date: %d functions from %s\n",
			res.FunctionCount, res.Source)
	} else {
		fmt.Fprintf(os.Stderr, "Indexed %d functions from %s in %s\n",
			res.FunctionCount, res.Source, time.Since(start).Round(time.Millisecond))
	}
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)

	return nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding .git.
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".fndex", "index.db")
}
