package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kgforge-labs/kgforge/pkg/kg"
	"github.com/kgforge-labs/kgforge/pkg/sparql"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"explicit exit error", NewExitError(ExitWriteError, "disk full"), ExitWriteError},
		{"input not found", &kg.NotFoundError{Path: "data.ttl"}, ExitNotFound},
		{"graph parse error", &kg.ParseError{Path: "data.ttl", Err: errors.New("bad turtle")}, ExitParseError},
		{"query parse error", &sparql.ParseError{Message: "unexpected token"}, ExitParseError},
		{"eval error", &sparql.EvalError{Message: "invalid IRI"}, ExitQueryError},
		{"write error", &kg.WriteError{Path: "out.csv", Err: errors.New("denied")}, ExitWriteError},
		{"wrapped not found", fmt.Errorf("loading graph: %w", &kg.NotFoundError{Path: "x"}), ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	err := &ExitError{Code: ExitFailure, Message: "context", Err: errors.New("cause")}
	assert.Equal(t, "context: cause", err.Error())
	assert.Equal(t, "cause", errors.Unwrap(err).Error())

	bare := NewExitError(ExitNotFound, "missing")
	assert.Equal(t, "missing", bare.Error())
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "kgforge", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "select")
	assert.Contains(t, names, "ask")
	assert.Contains(t, names, "reason")
	assert.Contains(t, names, "convert")
	assert.Contains(t, names, "version")
}
