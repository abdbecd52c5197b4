package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// As is errors.As, re-exported so callers do not need both packages
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is, re-exported so callers do not need both packages
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// TargetKind names the kind of declaration a marker was attached to
type TargetKind string

const (
	TargetType      TargetKind = "type"
	TargetInterface TargetKind = "interface"
	TargetAlias     TargetKind = "type alias"
	TargetFunction  TargetKind = "function"
	TargetMethod    TargetKind = "method"
	TargetField     TargetKind = "field"
	TargetVariable  TargetKind = "variable"
	TargetConstant  TargetKind = "constant"
)

// InvalidTargetError reports a marker attached to something that cannot be wrapped
// by an adapter. It aborts the generation pass.
type InvalidTargetError struct {
	*BaseError
	Kind   TargetKind
	Target string
}

// NewInvalidTargetError creates an InvalidAnnotationTarget error
func NewInvalidTargetError(kind TargetKind, target, reason string, loc SourceLocation) *InvalidTargetError {
	base := Newf(InvalidAnnotationTargetCode, "//lifecycle::participant cannot be applied to %s %s: %s", kind, target, reason).
		WithLocation(loc).
		WithContext("target", target).
		WithContext("kind", string(kind))

	switch kind {
	case TargetInterface:
		base.WithSuggestions("Mark the concrete type that implements the interface instead")
	case TargetFunction, TargetMethod:
		base.WithSuggestions("Move the marker to the doc comment of the type that owns the lifecycle hooks")
	case TargetField, TargetVariable, TargetConstant:
		base.WithSuggestions("Markers belong on type declarations, not on values or fields")
	case TargetAlias:
		base.WithSuggestions("Mark the aliased type's declaration instead")
	default:
		base.WithSuggestions("Adapters live in a separate package, so the marked type must be exported and importable")
	}

	return &InvalidTargetError{BaseError: base, Kind: kind, Target: target}
}

// SyntaxError reports a malformed marker comment. It aborts the generation pass.
type SyntaxError struct {
	*BaseError
	Comment string
}

// NewSyntaxError creates a SyntaxError for a marker comment
func NewSyntaxError(comment, message string, loc SourceLocation) *SyntaxError {
	base := New(SyntaxErrorCode, message).
		WithLocation(loc).
		WithContext("comment", comment).
		WithSuggestions("Use the exact form //lifecycle::participant; the marker takes no parameters")
	return &SyntaxError{BaseError: base, Comment: comment}
}

// EmissionError reports a single adapter that could not be written.
// Sibling adapters are still emitted.
type EmissionError struct {
	*BaseError
	ProxyFullName string
	FilePath      string
}

// NewEmissionError creates a ProxyEmissionFailure for one adapter
func NewEmissionError(proxyFullName, filePath string, cause error) *EmissionError {
	base := Wrap(ProxyEmissionCode, fmt.Sprintf("failed to emit %s", proxyFullName), cause).
		WithContext("proxy", proxyFullName).
		WithContext("file", filePath)
	return &EmissionError{BaseError: base, ProxyFullName: proxyFullName, FilePath: filePath}
}

// EmissionErrors collects the per-adapter failures of one pass
type EmissionErrors struct {
	Errors []*EmissionError
}

// Error implements the error interface
func (e *EmissionErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("%d adapters failed to emit:\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns all underlying errors for errors.Is and errors.As
func (e *EmissionErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add adds an error to the collection
func (e *EmissionErrors) Add(err *EmissionError) {
	e.Errors = append(e.Errors, err)
}

// IsEmpty returns true if there are no errors
func (e *EmissionErrors) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Count returns the number of errors
func (e *EmissionErrors) Count() int {
	return len(e.Errors)
}

// ErrOrNil returns nil when the collection is empty
func (e *EmissionErrors) ErrOrNil() error {
	if e == nil || e.IsEmpty() {
		return nil
	}
	return e
}
