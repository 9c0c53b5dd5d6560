package argparse

import (
	"fmt"
	"strings"
)

type ParseErr string

// Errors that can be returned by New and Parse. Parse failures are wrapped in
// an *OptionError and table problems in a *TableError; test for the kind with
// errors.Is.
const (
	ErrUnknownOption   = ParseErr("unknown option")
	ErrAmbiguousOption = ParseErr("ambiguous option")
	ErrMissingArgument = ParseErr("requires a value")
	ErrInvalidNumber   = ParseErr("invalid numeric value")
	ErrUnexpectedValue = ParseErr("takes no value")
	ErrMalformedTable  = ParseErr("malformed option table")

	// ErrHelp is returned by HelpCallback after help has been written.
	ErrHelp = ParseErr("help requested")
	// ErrStop may be returned by a callback to end parsing without failing.
	// Every argument not yet consumed is returned as residual.
	ErrStop = ParseErr("stop parsing")
)

func (e ParseErr) Error() string {
	return string(e)
}

// OptionError describes a failure to parse one argument.
type OptionError struct {
	Err        ParseErr
	Option     string   // the option as matched (--number, -n) or as given when unknown
	Token      string   // the raw argument the option came from
	Value      string   // the offending value, if any
	Candidates []string // possible matches of an ambiguous abbreviation

	cause error
}

func (e *OptionError) Error() string {
	switch e.Err {
	case ErrUnknownOption:
		return fmt.Sprintf("unknown option `%s`", e.Option)
	case ErrAmbiguousOption:
		return fmt.Sprintf("ambiguous option `%s` could be %s", e.Option, strings.Join(e.Candidates, ", "))
	case ErrInvalidNumber:
		return fmt.Sprintf("option `%s` expects a number, got %q", e.Option, e.Value)
	default:
		return fmt.Sprintf("option `%s` %s", e.Option, e.Err)
	}
}

func (e *OptionError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Err, e.cause}
	}
	return []error{e.Err}
}

// TableError reports a descriptor table that violates the table rules. It is a
// programming error in the caller rather than bad input.
type TableError struct {
	Index  int
	Reason string
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s: option %d: %s", ErrMalformedTable, e.Index, e.Reason)
}

func (e *TableError) Unwrap() error {
	return ErrMalformedTable
}
