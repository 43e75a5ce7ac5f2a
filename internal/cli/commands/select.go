package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kgforge-labs/kgforge/pkg/kg"
	"github.com/kgforge-labs/kgforge/pkg/sparql"
)

// SelectOptions holds options for the select command.
type SelectOptions struct {
	Query  string
	Input  string
	Output string
}

// NewSelectCommand creates the select command.
func NewSelectCommand() *cobra.Command {
	opts := &SelectOptions{}

	cmd := &cobra.Command{
		Use:     "select",
		Aliases: []string{"run-query"},
		Short:   "Run a SPARQL SELECT query against an RDF file",
		Long: `Run a SPARQL SELECT query against an RDF graph loaded from a file.

The result table has one header row of projected variable names and one
row per solution. IRIs are rendered as prefix:local against the prefixes
declared in the input document, the query, and the configuration.
Unbound variables render as empty fields.

When invoked with a terminal and no query, enters interactive REPL mode.`,
		Example: `  # Query a Turtle file, CSV to stdout
  kgforge select -q query.rq -i data.ttl

  # Write the result table to a file
  kgforge select -q query.rq -i data.ttl -o result.csv

  # Pipe the query in, render as a table
  cat query.rq | kgforge select -i data.ttl --format table

  # Interactive mode
  kgforge select -i data.ttl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSelect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Read the SPARQL query from file")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "RDF input file (Turtle or N-Triples)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write CSV results to file instead of stdout")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runSelect(cmd *cobra.Command, opts *SelectOptions) error {
	cmdCtx := NewCommandContext(cmd)

	graph, err := loadGraph(cmdCtx, opts.Input)
	if err != nil {
		return err
	}

	// Determine query source
	var queryText string

	switch {
	case opts.Query != "":
		queryText, err = readQueryFile(opts.Query)
		if err != nil {
			return err
		}
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		queryText = string(content)
	default:
		// No query, TTY detected - enter REPL mode
		return runREPL(cmd, cmdCtx, graph, opts.Input)
	}

	q, err := sparql.Parse(queryText)
	if err != nil {
		return err
	}
	sel, ok := q.(*sparql.SelectQuery)
	if !ok {
		return &sparql.ParseError{Message: "not a SELECT query (use 'kgforge ask' for ASK queries)"}
	}

	// Query prefixes participate in CURIE rendering; document bindings win.
	ns := graph.Namespaces()
	ns.Merge(sel.Prologue().Namespaces())

	res, err := sparql.Select(graph, sel)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("query evaluated", "vars", len(res.Vars), "rows", len(res.Solutions))

	format := resolveFormat("", cmdCtx.Cfg)

	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return &kg.WriteError{Path: opts.Output, Err: err}
		}
		if err := renderResults(f, res, ns, format); err != nil {
			_ = f.Close()
			return &kg.WriteError{Path: opts.Output, Err: err}
		}
		if err := f.Close(); err != nil {
			return &kg.WriteError{Path: opts.Output, Err: err}
		}
		return nil
	}

	return renderResults(cmd.OutOrStdout(), res, ns, format)
}

// readQueryFile reads a SPARQL query verbatim from a file.
func readQueryFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &kg.NotFoundError{Path: path}
		}
		return "", fmt.Errorf("failed to read query file: %w", err)
	}
	return string(content), nil
}
