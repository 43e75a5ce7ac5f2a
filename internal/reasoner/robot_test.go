package reasoner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgforge-labs/kgforge/internal/testutil"
	"github.com/kgforge-labs/kgforge/pkg/kg"
)

// writeStubRobot creates a shell script standing in for the ROBOT binary.
// It records its arguments and copies the input to the output.
func writeStubRobot(t *testing.T, dir, script string) string {
	t.Helper()
	path := filepath.Join(dir, "robot")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestRunInvokesRobot(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.ttl")
	output := filepath.Join(dir, "out.ttl")
	argsFile := filepath.Join(dir, "args.txt")
	require.NoError(t, os.WriteFile(input, []byte("<a> <p> <b> .\n"), 0o600))

	robot := writeStubRobot(t, dir, `echo "$@" > `+argsFile+`
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output" ]; then out="$2"; fi
  shift
done
echo inferred > "$out"
`)

	err := Run(t.Context(), testutil.NewTestLogger(t), Options{
		Robot:  robot,
		Input:  input,
		Output: output,
	})
	require.NoError(t, err)

	args, readErr := os.ReadFile(argsFile)
	require.NoError(t, readErr)
	line := string(args)
	assert.Contains(t, line, "reason")
	assert.Contains(t, line, "--input "+input)
	assert.Contains(t, line, "--output "+output)
	assert.Contains(t, line, "--create-new-ontology true")
	assert.Contains(t, line, "--equivalent-classes-allowed all")
	assert.Contains(t, line, "--include-indirect true")
	assert.Contains(t, line, "--axiom-generators "+axiomGenerators)
	assert.Contains(t, line, "--reasoner "+DefaultReasoner)

	produced, readErr := os.ReadFile(output)
	require.NoError(t, readErr)
	assert.Equal(t, "inferred\n", string(produced))
}

func TestRunReasonerOverride(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.ttl")
	argsFile := filepath.Join(dir, "args.txt")
	require.NoError(t, os.WriteFile(input, []byte("<a> <p> <b> .\n"), 0o600))

	robot := writeStubRobot(t, dir, `echo "$@" > `+argsFile+`
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output" ]; then out="$2"; fi
  shift
done
touch "$out"
`)

	err := Run(t.Context(), testutil.NewTestLogger(t), Options{
		Robot:    robot,
		Reasoner: "elk",
		Input:    input,
		Output:   filepath.Join(dir, "out.ttl"),
	})
	require.NoError(t, err)

	args, readErr := os.ReadFile(argsFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(args), "--reasoner elk")
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := Run(t.Context(), testutil.NewTestLogger(t), Options{
		Robot:  "robot",
		Input:  filepath.Join(dir, "absent.ttl"),
		Output: filepath.Join(dir, "out.ttl"),
	})
	var notFound *kg.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRunMissingBinary(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.ttl")
	require.NoError(t, os.WriteFile(input, []byte("<a> <p> <b> .\n"), 0o600))

	err := Run(t.Context(), testutil.NewTestLogger(t), Options{
		Robot:  filepath.Join(dir, "no-such-robot"),
		Input:  input,
		Output: filepath.Join(dir, "out.ttl"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robot executable not found")
}

func TestRunRobotFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.ttl")
	require.NoError(t, os.WriteFile(input, []byte("<a> <p> <b> .\n"), 0o600))

	robot := writeStubRobot(t, dir, `echo "unparseable ontology" >&2
exit 1
`)

	err := Run(t.Context(), testutil.NewTestLogger(t), Options{
		Robot:  robot,
		Input:  input,
		Output: filepath.Join(dir, "out.ttl"),
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unparseable ontology"))
}

func TestRunNoOutputProduced(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.ttl")
	require.NoError(t, os.WriteFile(input, []byte("<a> <p> <b> .\n"), 0o600))

	robot := writeStubRobot(t, dir, "exit 0\n")

	err := Run(t.Context(), testutil.NewTestLogger(t), Options{
		Robot:  robot,
		Input:  input,
		Output: filepath.Join(dir, "out.ttl"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no output")
}
