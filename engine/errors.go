package engine

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax          = errors.New("syntax error")
	ErrTableNotFound   = errors.New("table not found")
	ErrMalformedClause = errors.New("malformed clause")
)

// StatementError is returned by Execute for every failure. Kind is one of ErrSyntax,
// ErrTableNotFound, or ErrMalformedClause; use errors.Is to test for it.
type StatementError struct {
	Statement string
	Message   string
	Kind      error
}

func (se *StatementError) Error() string {
	return se.Message
}

func (se *StatementError) Unwrap() error {
	return se.Kind
}

func syntaxError(stmt string) error {
	return &StatementError{
		Statement: stmt,
		Message:   fmt.Sprintf("Syntax error: %s", stmt),
		Kind:      ErrSyntax,
	}
}

func tableNotFound(stmt, tblname string) error {
	return &StatementError{
		Statement: stmt,
		Message:   fmt.Sprintf("engine: table %s not found", tblname),
		Kind:      ErrTableNotFound,
	}
}

func malformedClause(stmt, format string, args ...interface{}) error {
	return &StatementError{
		Statement: stmt,
		Message:   "engine: " + fmt.Sprintf(format, args...),
		Kind:      ErrMalformedClause,
	}
}
