package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/paveg/canopy/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFrameError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.DataFrameError
		expected string
	}{
		{
			name: "Error with column",
			err: &errors.DataFrameError{
				Op:      "Insert",
				Column:  "name.firstName",
				Message: "column already exists",
			},
			expected: "Insert operation failed on column 'name.firstName': column already exists",
		},
		{
			name: "Error without column",
			err: &errors.DataFrameError{
				Op:      "Join",
				Message: "no join columns",
			},
			expected: "Join operation failed: no join columns",
		},
		{
			name: "Error with cause and hint",
			err: &errors.DataFrameError{
				Op:      "ConvertTo",
				Message: "conversion failed",
				Cause:   stderrors.New("bad digit"),
				Hint:    "register a converter",
			},
			expected: "ConvertTo operation failed: conversion failed: bad digit (Hint: register a converter)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDataFrameError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying error")
	err := &errors.DataFrameError{
		Op:      "Filter",
		Message: "evaluation failed",
		Cause:   cause,
	}

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, stderrors.Is(err, cause))
}

func TestDataFrameError_Is(t *testing.T) {
	err1 := errors.NewColumnNotFoundError("Get", "age")
	err2 := errors.NewColumnNotFoundError("Get", "age")
	err3 := errors.NewColumnNotFoundError("Remove", "age")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.False(t, err1.Is(stderrors.New("different error")))
}

func TestKindSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"missing path", errors.NewColumnNotFoundError("Get", "a"), errors.ErrMissingPath},
		{"not a group", errors.NewNotAGroupError("Get", "a.b"), errors.ErrMissingPath},
		{"exists", errors.NewColumnExistsError("Insert", "a"), errors.ErrStructuralConflict},
		{"type", errors.NewTypeError("ReplaceAll", "a", "bad"), errors.ErrTypeIncompatibility},
		{"too many", errors.NewTooManyError("Single", "2 columns"), errors.ErrCardinality},
		{"ordering", errors.NewOrderingError("SelectRange", "a", "b"), errors.ErrOrdering},
		{"index", errors.NewIndexError("Get", 5, 3), errors.ErrIndexOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.NotErrorIs(t, tt.err, errors.ErrInvalidInput)
		})
	}
}

func TestWrapKeepsKind(t *testing.T) {
	cause := errors.NewColumnExistsError("Insert", "a")
	wrapped := errors.Wrap("Rename", cause)

	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, errors.ErrStructuralConflict)
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, wrapped.Error(), "Rename operation failed")

	assert.NoError(t, errors.Wrap("Rename", nil))
}

func TestWithHint(t *testing.T) {
	err := errors.NewColumnNotFoundError("Select", "nam")
	hinted := err.WithHint("Did you mean 'name'?")

	assert.Contains(t, hinted.Error(), "Hint: Did you mean 'name'?")
	assert.Empty(t, err.Hint)
}

func TestNewIndexError(t *testing.T) {
	err := errors.NewIndexError("Get", 7, 3)

	assert.Equal(t, errors.KindIndexOutOfBounds, err.Kind)
	assert.Equal(t, "Get operation failed: index 7 out of bounds [0, 3)", err.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "missing path", errors.KindMissingPath.String())
	assert.Equal(t, "unknown_kind(99)", errors.Kind(99).String())
}
