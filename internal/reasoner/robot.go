// Package reasoner invokes the external ROBOT tool to materialize
// inferred triples in an ontology file. No reasoning happens in
// process; ROBOT (https://robot.obolibrary.org) does the work.
package reasoner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/kgforge-labs/kgforge/pkg/kg"
)

// DefaultReasoner is the OWL reasoner ROBOT runs when none is configured.
const DefaultReasoner = "hermit"

// axiomGenerators is the fixed generator set passed to robot reason.
const axiomGenerators = "SubClass EquivalentClass DisjointClasses ClassAssertion PropertyAssertion"

// Options configures one robot reason invocation.
type Options struct {
	// Robot is the ROBOT executable, resolved against PATH when relative.
	Robot string
	// Reasoner names the OWL reasoner (hermit, elk, ...).
	Reasoner string
	Input    string
	Output   string
}

// Run executes robot reason on the input ontology, writing the inferred
// ontology to the output path. ROBOT's stderr is folded into the error
// on failure.
func Run(ctx context.Context, logger *slog.Logger, opts Options) error {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return &kg.NotFoundError{Path: opts.Input}
	}

	robot := opts.Robot
	if robot == "" {
		robot = "robot"
	}
	path, err := exec.LookPath(robot)
	if err != nil {
		return fmt.Errorf("robot executable not found (%s): %w", robot, err)
	}

	reasoner := opts.Reasoner
	if reasoner == "" {
		reasoner = DefaultReasoner
	}

	args := []string{
		"reason",
		"--input", opts.Input,
		"--output", opts.Output,
		"--create-new-ontology", "true",
		"--equivalent-classes-allowed", "all",
		"--include-indirect", "true",
		"--axiom-generators", axiomGenerators,
		"--reasoner", reasoner,
	}

	logger.Debug("running robot", "path", path, "reasoner", reasoner, "input", opts.Input)

	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("robot reason failed: %w: %s", err, msg)
		}
		return fmt.Errorf("robot reason failed: %w", err)
	}

	if _, err := os.Stat(opts.Output); err != nil {
		return fmt.Errorf("robot reason produced no output at %s: %w", opts.Output, err)
	}
	return nil
}
