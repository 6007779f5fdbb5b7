package main

import (
	"github.com/cockroachdb/errors"
)

// Error classes. Concrete errors are marked with one of these so callers can
// classify with errors.Is while keeping the human-readable message intact.
var (
	ErrConnect              = errors.New("connection failed")
	ErrUnsupportedScheme    = errors.New("unsupported URI scheme")
	ErrUnrecognizedResource = errors.New("unrecognized resource")
	ErrResourceRetrieval    = errors.New("error retrieving resource")
	ErrUnknownTool          = errors.New("unknown tool")
	ErrInvalidArguments     = errors.New("invalid arguments")
	ErrNotInitialized       = errors.New("server not initialized")
	ErrUnsupportedPrompt    = errors.New("unsupported prompt")
)

func newUnsupportedSchemeError(scheme string) error {
	return errors.Mark(errors.Newf("Unsupported URI scheme: %s", scheme), ErrUnsupportedScheme)
}

func newUnrecognizedResourceError(uri string) error {
	return errors.Mark(errors.Newf("Unrecognized resource URI: %s", uri), ErrUnrecognizedResource)
}

func newUnknownToolError(name string) error {
	return errors.Mark(errors.Newf("Unknown tool: %s", name), ErrUnknownTool)
}

func newInvalidArgumentsError(tool, reason string) error {
	return errors.Mark(errors.Newf("Invalid arguments for %s: %s", tool, reason), ErrInvalidArguments)
}

// wrapResourceError marks a failure that happened while executing a resource
// query. The message keeps the backend error verbatim.
func wrapResourceError(cause error) error {
	return errors.Mark(errors.Wrap(cause, "Error retrieving resource"), ErrResourceRetrieval)
}

// rpcErrorFrom maps an error onto a JSON-RPC error object.
func rpcErrorFrom(err error) *Error {
	code := InternalError
	switch {
	case errors.Is(err, ErrInvalidArguments),
		errors.Is(err, ErrUnknownTool),
		errors.Is(err, ErrUnsupportedScheme),
		errors.Is(err, ErrUnrecognizedResource),
		errors.Is(err, ErrUnsupportedPrompt):
		code = InvalidParams
	case errors.Is(err, ErrNotInitialized):
		code = InvalidRequest
	}
	return &Error{Code: code, Message: err.Error()}
}
