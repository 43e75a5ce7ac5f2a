package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kgforge-labs/kgforge/pkg/sparql"
)

// AskOptions holds options for the ask command.
type AskOptions struct {
	Query string
	Input string
}

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	opts := &AskOptions{}

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Run a SPARQL ASK query against an RDF file",
		Long: `Run a SPARQL ASK query against an RDF graph loaded from a file.

Prints "true" when the pattern has at least one solution, "false"
otherwise. The exit code is 0 in both cases.`,
		Example: `  kgforge ask -q check.rq -i data.ttl
  cat check.rq | kgforge ask -i data.ttl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAsk(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Read the SPARQL query from file")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "RDF input file (Turtle or N-Triples)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runAsk(cmd *cobra.Command, opts *AskOptions) error {
	cmdCtx := NewCommandContext(cmd)

	graph, err := loadGraph(cmdCtx, opts.Input)
	if err != nil {
		return err
	}

	var queryText string
	if opts.Query != "" {
		queryText, err = readQueryFile(opts.Query)
		if err != nil {
			return err
		}
	} else {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		queryText = string(content)
	}

	q, err := sparql.Parse(queryText)
	if err != nil {
		return err
	}
	ask, ok := q.(*sparql.AskQuery)
	if !ok {
		return &sparql.ParseError{Message: "not an ASK query (use 'kgforge select' for SELECT queries)"}
	}

	result, err := sparql.Ask(graph, ask)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%t\n", result)
	return nil
}
