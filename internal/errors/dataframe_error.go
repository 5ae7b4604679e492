// Package errors provides standardized error types for DataFrame operations.
// This package defines DataFrameError for consistent error handling across
// all public APIs, with an error kind, operation context and error wrapping
// support.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies a DataFrameError. Callers branch on the kind with
// errors.Is against the Err* sentinels below.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindStructuralConflict
	KindMissingPath
	KindTypeIncompatibility
	KindCardinality
	KindOrdering
	KindIndexOutOfBounds
	KindInternal
)

var kindNames = map[Kind]string{
	KindInvalidInput:        "invalid input",
	KindStructuralConflict:  "structural conflict",
	KindMissingPath:         "missing path",
	KindTypeIncompatibility: "type incompatibility",
	KindCardinality:         "cardinality violation",
	KindOrdering:            "ordering violation",
	KindIndexOutOfBounds:    "index out of bounds",
	KindInternal:            "internal",
}

// String returns the human readable kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_kind(%d)", int(k))
}

// DataFrameError represents standardized errors across all DataFrame operations
type DataFrameError struct {
	Kind    Kind   // Error classification
	Op      string // Operation name (e.g., "Insert", "GroupBy", "Join")
	Column  string // Column path if applicable
	Message string // Human-readable error description
	Hint    string // Optional suggestion for the caller
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *DataFrameError) Error() string {
	var sb strings.Builder
	if e.Column != "" {
		fmt.Fprintf(&sb, "%s operation failed on column '%s': %s", e.Op, e.Column, e.Message)
	} else {
		fmt.Fprintf(&sb, "%s operation failed: %s", e.Op, e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	if e.Hint != "" {
		fmt.Fprintf(&sb, " (Hint: %s)", e.Hint)
	}
	return sb.String()
}

// Unwrap returns the underlying cause for error wrapping support
func (e *DataFrameError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
// A kind sentinel (no Op set) matches every error of that kind; otherwise
// Op, Column and Message must also match.
func (e *DataFrameError) Is(target error) bool {
	df, ok := target.(*DataFrameError)
	if !ok {
		return false
	}
	if df.Op == "" && df.Column == "" && df.Message == "" {
		return e.Kind == df.Kind
	}
	return e.Kind == df.Kind && e.Op == df.Op && e.Column == df.Column && e.Message == df.Message
}

// WithHint returns a copy of the error carrying a hint for the caller
func (e *DataFrameError) WithHint(hint string) *DataFrameError {
	cp := *e
	cp.Hint = hint
	return &cp
}

// Kind sentinels for errors.Is
var (
	ErrInvalidInput        = &DataFrameError{Kind: KindInvalidInput}
	ErrStructuralConflict  = &DataFrameError{Kind: KindStructuralConflict}
	ErrMissingPath         = &DataFrameError{Kind: KindMissingPath}
	ErrTypeIncompatibility = &DataFrameError{Kind: KindTypeIncompatibility}
	ErrCardinality         = &DataFrameError{Kind: KindCardinality}
	ErrOrdering            = &DataFrameError{Kind: KindOrdering}
	ErrIndexOutOfBounds    = &DataFrameError{Kind: KindIndexOutOfBounds}
)

// Common error constructors for consistent error creation

// NewColumnNotFoundError creates an error for operations on non-existent column paths
func NewColumnNotFoundError(op, column string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindMissingPath,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewNotAGroupError creates an error for paths descending through a non-group column
func NewNotAGroupError(op, column string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindMissingPath,
		Op:      op,
		Column:  column,
		Message: "column is not a column group",
	}
}

// NewColumnExistsError creates an error for insertions over an existing column
func NewColumnExistsError(op, column string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindStructuralConflict,
		Op:      op,
		Column:  column,
		Message: "column already exists",
	}
}

// NewStructuralError creates an error for any other column layout conflict
func NewStructuralError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindStructuralConflict,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindInvalidInput,
		Op:      op,
		Message: message,
	}
}

// NewTypeError creates an error for values not assignable to a column type
func NewTypeError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindTypeIncompatibility,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewTooManyError creates an error for operations requiring a single element
func NewTooManyError(op, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindCardinality,
		Op:      op,
		Message: "too many elements: " + message,
	}
}

// NewOrderingError creates an error for ranges whose end precedes their start
func NewOrderingError(op, from, to string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindOrdering,
		Op:      op,
		Message: fmt.Sprintf("column '%s' precedes '%s'", to, from),
	}
}

// NewIndexError creates an error for out-of-bounds row access
func NewIndexError(op string, index, size int) *DataFrameError {
	return &DataFrameError{
		Kind:    KindIndexOutOfBounds,
		Op:      op,
		Message: fmt.Sprintf("index %d out of bounds [0, %d)", index, size),
	}
}

// NewValidationError creates an error for input validation failures
func NewValidationError(op, column, message string) *DataFrameError {
	return &DataFrameError{
		Kind:    KindInvalidInput,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *DataFrameError {
	return &DataFrameError{
		Kind:    KindInternal,
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}

// Wrap attaches operation context to a cause, keeping the cause's kind
// when it is already a DataFrameError.
func Wrap(op string, cause error) error {
	if cause == nil {
		return nil
	}
	kind := KindInternal
	var df *DataFrameError
	if As(cause, &df) {
		kind = df.Kind
	}
	return &DataFrameError{
		Kind:    kind,
		Op:      op,
		Message: kind.String(),
		Cause:   cause,
	}
}
