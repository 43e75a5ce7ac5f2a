package cli

import (
	"errors"
	"fmt"

	"github.com/kgforge-labs/kgforge/pkg/kg"
	"github.com/kgforge-labs/kgforge/pkg/sparql"
)

// Exit codes for CLI commands.
const (
	ExitSuccess    = 0 // Successful execution
	ExitFailure    = 1 // Unclassified error
	ExitNotFound   = 2 // Input file not found, usage errors
	ExitParseError = 3 // Graph or query failed to parse
	ExitQueryError = 4 // Query execution failed
	ExitWriteError = 5 // Output could not be written
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		if e.Message != "" {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Err.Error()
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// GetExitCode extracts the exit code from an error, classifying domain
// errors when the command did not set a code explicitly.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var (
		notFound   *kg.NotFoundError
		graphParse *kg.ParseError
		queryParse *sparql.ParseError
		evalErr    *sparql.EvalError
		writeErr   *kg.WriteError
	)
	switch {
	case errors.As(err, &notFound):
		return ExitNotFound
	case errors.As(err, &graphParse), errors.As(err, &queryParse):
		return ExitParseError
	case errors.As(err, &evalErr):
		return ExitQueryError
	case errors.As(err, &writeErr):
		return ExitWriteError
	}
	return ExitFailure
}
