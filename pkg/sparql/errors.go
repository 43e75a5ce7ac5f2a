package sparql

import "fmt"

// ParseError is a query syntax error with position information.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// EvalError reports a query the engine cannot evaluate, such as an
// unknown builtin or an invalid IRI in a pattern.
type EvalError struct {
	Message string
	Err     error
}

func (e *EvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query execution failed: %s: %v", e.Message, e.Err)
	}
	return "query execution failed: " + e.Message
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Common error messages
const (
	errUnexpectedToken = "unexpected token %s, expected %s"
	errUnknownPrefix   = "unknown prefix %q"
)
