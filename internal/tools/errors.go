// Package tools provides the tool registry and execution framework.
//
// This file defines sentinel error types for tool execution.
package tools

import (
	"errors"
	"fmt"
)

// ErrToolUnavailable is returned when a tool call targets a name that is
// not present in the registry. This indicates a capability mismatch
// between what the model was told and what is dispatchable, not a
// transient execution failure.
type ErrToolUnavailable struct {
	ToolName string
}

// Error implements the error interface.
func (e *ErrToolUnavailable) Error() string {
	return fmt.Sprintf("tool %q is not registered", e.ToolName)
}

// ArgumentError is returned by tool handlers when the model supplied
// wrong or missing arguments. The agent loop converts it into a textual
// result so the model can correct itself on the next round.
type ArgumentError struct {
	ToolName string
	Reason   string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.ToolName, e.Reason)
}

// IsArgumentError reports whether err is (or wraps) an ArgumentError.
func IsArgumentError(err error) bool {
	var argErr *ArgumentError
	return errors.As(err, &argErr)
}

// StringArg extracts a string argument. Missing or wrong-typed values
// return ""; callers that require the argument should pair this with
// an ArgumentError check.
func StringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// IntArg extracts an integer argument with a default. JSON numbers
// arrive as float64, but protobuf-backed model args may already be
// integral types, so both are accepted.
func IntArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return def
	}
}
