// Package errors provides error handling for tripgen.
//
// This package re-exports github.com/cockroachdb/errors so every package
// gets stack traces, details and hints from one import, and defines the
// sentinels the synthesis engine and its outer layers share.
//
// Usage:
//
//	if err := synthesize(); err != nil {
//	    return errors.Wrapf(err, "scenario %q", name)
//	}
//
//	if errors.Is(err, errors.ErrNameCollision) {
//	    // report a 400
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
	Mark        = crdb.Mark
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Engine sentinels. Wrap them to add context; check with Is.
var (
	// ErrMalformedTree marks an input the upstream parser should never have
	// produced: an empty name, a nil node, or a cycle in a parameter tree.
	ErrMalformedTree = New("malformed parameter tree")

	// ErrNameCollision marks two different declarations, or two output
	// files, that normalize to the same identifier.
	ErrNameCollision = New("name collision")

	// ErrTemplateNotFound indicates a packaging defect: the template id is unknown.
	ErrTemplateNotFound = New("template not found")

	// ErrMissingParameter indicates a data defect: a template referenced a
	// parameter that was not supplied.
	ErrMissingParameter = New("missing template parameter")

	// ErrRenderFailed covers every other template execution failure.
	ErrRenderFailed = New("render failed")
)

// Outer layer sentinels.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err was caused by the caller's input
// rather than by the engine or its templates.
func IsInvalidInput(err error) bool {
	return err != nil && IsAny(err, ErrInvalidRequest, ErrMalformedTree, ErrNameCollision)
}

// IsRenderError reports whether err came out of the rendering step.
func IsRenderError(err error) bool {
	return err != nil && IsAny(err, ErrTemplateNotFound, ErrMissingParameter, ErrRenderFailed)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// Malformedf wraps ErrMalformedTree with a formatted description.
func Malformedf(format string, args ...interface{}) error {
	return Wrapf(ErrMalformedTree, format, args...)
}

// Collisionf wraps ErrNameCollision with a formatted description.
func Collisionf(format string, args ...interface{}) error {
	return Wrapf(ErrNameCollision, format, args...)
}
