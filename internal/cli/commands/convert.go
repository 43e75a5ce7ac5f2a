package commands

import (
	"fmt"

	"github.com/knakk/rdf"
	"github.com/spf13/cobra"

	"github.com/kgforge-labs/kgforge/pkg/kg"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	Input            string
	Output           string
	Base             string
	DefaultNamespace string
	Format           string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Parse an RDF file and rewrite it with normalized prefixes",
		Long: `Parse an RDF file and re-serialize it.

Turtle output groups triples by subject, abbreviates repeated
predicates and objects, and emits @prefix directives for the bindings
of the input document and configuration. A default namespace binds to
the empty prefix so its IRIs render as :local.`,
		Example: `  # Normalize a Turtle file
  kgforge convert -i messy.ttl -o clean.ttl

  # Bind the default namespace and a base IRI
  kgforge convert -i data.ttl -o data-out.ttl \
      --default-namespace http://example.org/ --base http://example.org/doc/

  # Turtle to N-Triples
  kgforge convert -i data.ttl -o data.nt --format ntriples`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "RDF input file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file")
	cmd.Flags().StringVar(&opts.Base, "base", "", "Base IRI for @base and relative IRIs")
	cmd.Flags().StringVar(&opts.DefaultNamespace, "default-namespace", "", "Namespace bound to the empty prefix")
	cmd.Flags().StringVar(&opts.Format, "format", "turtle", "Output serialization (turtle|ntriples)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions) error {
	cmdCtx := NewCommandContext(cmd)

	var format rdf.Format
	switch opts.Format {
	case "turtle", "ttl", "":
		format = rdf.Turtle
	case "ntriples", "nt":
		format = rdf.NTriples
	default:
		return fmt.Errorf("unknown serialization format: %s", opts.Format)
	}

	graph, err := loadGraph(cmdCtx, opts.Input)
	if err != nil {
		return err
	}

	base := opts.Base
	if base == "" {
		base = cmdCtx.Cfg.Base
	}
	defaultNS := opts.DefaultNamespace
	if defaultNS == "" {
		defaultNS = cmdCtx.Cfg.DefaultNamespace
	}

	return kg.WriteFile(graph, opts.Output, kg.WriteOptions{
		Format:           format,
		Base:             base,
		DefaultNamespace: defaultNS,
	})
}
