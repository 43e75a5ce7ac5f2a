package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgforge-labs/kgforge/pkg/kg"
)

func replTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "test"}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

func replTestGraph(t *testing.T) *kg.Graph {
	t.Helper()
	path := writeTestFile(t, t.TempDir(), "data.ttl", peopleTurtle)
	graph, err := kg.LoadFile(path)
	require.NoError(t, err)
	return graph
}

func TestExecuteAndRenderSelect(t *testing.T) {
	cmd, out, _ := replTestCmd()
	graph := replTestGraph(t)

	err := executeAndRender(cmd, graph,
		`PREFIX : <http://example.org/> SELECT ?name WHERE { :alice :name ?name }`, "csv")
	require.NoError(t, err)
	assert.Equal(t, "name\nAlice\n", out.String())
}

func TestExecuteAndRenderAsk(t *testing.T) {
	cmd, out, _ := replTestCmd()
	graph := replTestGraph(t)

	err := executeAndRender(cmd, graph,
		`PREFIX : <http://example.org/> ASK { :alice :knows :bob }`, "csv")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out.String())
}

func TestExecuteAndRenderParseError(t *testing.T) {
	cmd, _, _ := replTestCmd()
	graph := replTestGraph(t)

	err := executeAndRender(cmd, graph, `SELECT ?name WHERE {`, "csv")
	assert.Error(t, err)
}

func TestHandleDotCommandQuit(t *testing.T) {
	cmd, _, _ := replTestCmd()
	graph := replTestGraph(t)
	format := "csv"

	assert.True(t, handleDotCommand(cmd, graph, ".quit", &format))
	assert.True(t, handleDotCommand(cmd, graph, ".exit", &format))
}

func TestHandleDotCommandCount(t *testing.T) {
	cmd, out, _ := replTestCmd()
	graph := replTestGraph(t)
	format := "csv"

	quit := handleDotCommand(cmd, graph, ".count", &format)
	assert.False(t, quit)
	assert.Equal(t, "3 triples\n", out.String())
}

func TestHandleDotCommandPrefixes(t *testing.T) {
	cmd, out, _ := replTestCmd()
	graph := replTestGraph(t)
	format := "csv"

	quit := handleDotCommand(cmd, graph, ".prefixes", &format)
	assert.False(t, quit)
	assert.Contains(t, out.String(), "<http://example.org/>")
}

func TestHandleDotCommandFormat(t *testing.T) {
	cmd, out, errOut := replTestCmd()
	graph := replTestGraph(t)
	format := "csv"

	handleDotCommand(cmd, graph, ".format", &format)
	assert.Contains(t, out.String(), "current format: csv")

	handleDotCommand(cmd, graph, ".format table", &format)
	assert.Equal(t, "table", format)

	handleDotCommand(cmd, graph, ".format xml", &format)
	assert.Equal(t, "table", format)
	assert.Contains(t, errOut.String(), "Unknown format: xml")
}

func TestHandleDotCommandUnknown(t *testing.T) {
	cmd, _, errOut := replTestCmd()
	graph := replTestGraph(t)
	format := "csv"

	quit := handleDotCommand(cmd, graph, ".bogus", &format)
	assert.False(t, quit)
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")
}
