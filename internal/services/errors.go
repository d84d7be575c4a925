// Package services holds the recipe backend's business logic: catalog CRUD,
// recipe resolution, structured generation, persistence and nutrition
// analysis. Services return errors that unwrap to one of the kind sentinels
// below; handlers translate kinds into HTTP status codes.
package services

import (
	"errors"

	"github.com/tbourn/go-recipe-backend/internal/repo"
)

// Error kinds.
var (
	// ErrValidation marks malformed or incomplete input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing recipe, catalog entry or draft.
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks a record store failure.
	ErrUpstream = errors.New("upstream failure")

	// ErrGeneration marks a failed, unparsable or invalid generator response.
	ErrGeneration = errors.New("generation failed")
)

// Error carries a kind, a client-safe message and the underlying cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message returns the client-safe message of err, or "" when err is not a
// service error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

func invalid(msg string) error { return &Error{Kind: ErrValidation, Msg: msg} }

func notFound(msg string, err error) error { return &Error{Kind: ErrNotFound, Msg: msg, Err: err} }

func upstream(msg string, err error) error { return &Error{Kind: ErrUpstream, Msg: msg, Err: err} }

func generation(msg string, err error) error { return &Error{Kind: ErrGeneration, Msg: msg, Err: err} }

// storeErr classifies a repo error: a missing record becomes ErrNotFound
// with notFoundMsg, anything else ErrUpstream.
func storeErr(msg, notFoundMsg string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(notFoundMsg, err)
	}
	return upstream(msg, err)
}
