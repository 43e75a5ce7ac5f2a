package commands

import (
	"github.com/spf13/cobra"

	"github.com/kgforge-labs/kgforge/internal/reasoner"
)

// ReasonOptions holds options for the reason command.
type ReasonOptions struct {
	Input    string
	Output   string
	Reasoner string
}

// NewReasonCommand creates the reason command.
func NewReasonCommand() *cobra.Command {
	opts := &ReasonOptions{}

	cmd := &cobra.Command{
		Use:   "reason",
		Short: "Materialize inferred triples with the ROBOT reasoner",
		Long: `Run the external ROBOT tool over an ontology file and write the
inferred ontology to the output path.

The ROBOT executable is taken from the robot config key, the
KGFORGE_ROBOT or ROBOT environment variables, or PATH.`,
		Example: `  kgforge reason -i ontology.ttl -o inferred.ttl
  kgforge reason -i ontology.owl -o inferred.ttl --reasoner elk`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReason(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Ontology input file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Inferred ontology output file")
	cmd.Flags().StringVar(&opts.Reasoner, "reasoner", "", "OWL reasoner to use (default from config: hermit)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runReason(cmd *cobra.Command, opts *ReasonOptions) error {
	cmdCtx := NewCommandContext(cmd)

	r := opts.Reasoner
	if r == "" {
		r = cmdCtx.Cfg.Reasoner
	}

	return reasoner.Run(cmd.Context(), cmdCtx.Logger, reasoner.Options{
		Robot:    cmdCtx.Cfg.Robot,
		Reasoner: r,
		Input:    opts.Input,
		Output:   opts.Output,
	})
}
