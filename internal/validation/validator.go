// Package validation provides input validation utilities for DataFrame operations.
// Validators are small reusable checks for column existence, unique naming,
// length consistency, type kinds, index bounds and column ordering.
package validation

import (
	"fmt"

	"github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/value"
)

// Validator interface for input validation
type Validator interface {
	Validate() error
}

// ColumnProvider interface for types that provide column information
type ColumnProvider interface {
	HasColumn(name string) bool
	ColumnNames() []string
	Len() int
	Width() int
}

// ColumnValidator validates column existence
type ColumnValidator struct {
	df      ColumnProvider
	columns []string
	op      string
}

// NewColumnValidator creates a validator for column operations
func NewColumnValidator(df ColumnProvider, op string, columns ...string) *ColumnValidator {
	return &ColumnValidator{
		df:      df,
		columns: columns,
		op:      op,
	}
}

// Validate checks if all columns exist in the DataFrame
func (v *ColumnValidator) Validate() error {
	for _, column := range v.columns {
		if !v.df.HasColumn(column) {
			return errors.NewColumnNotFoundError(v.op, column)
		}
	}
	return nil
}

// UniqueNameValidator validates that names do not repeat
type UniqueNameValidator struct {
	names []string
	op    string
}

// NewUniqueNameValidator creates a validator for sibling column names
func NewUniqueNameValidator(op string, names ...string) *UniqueNameValidator {
	return &UniqueNameValidator{names: names, op: op}
}

// Validate returns a structural conflict for the first repeated name
func (v *UniqueNameValidator) Validate() error {
	seen := make(map[string]struct{}, len(v.names))
	for _, name := range v.names {
		if _, dup := seen[name]; dup {
			return errors.NewColumnExistsError(v.op, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// LengthValidator validates length consistency
type LengthValidator struct {
	expected int
	actual   int
	op       string
	context  string
}

// NewLengthValidator creates a validator for length consistency
func NewLengthValidator(expected, actual int, op, context string) *LengthValidator {
	return &LengthValidator{
		expected: expected,
		actual:   actual,
		op:       op,
		context:  context,
	}
}

// Validate checks if lengths match
func (v *LengthValidator) Validate() error {
	if v.expected != v.actual {
		message := fmt.Sprintf("%s: expected length %d, got %d", v.context, v.expected, v.actual)
		return errors.NewValidationError(v.op, "", message)
	}
	return nil
}

// KindValidator validates that a column type has one of the allowed kinds
type KindValidator struct {
	column  string
	typ     value.Type
	allowed []value.Kind
	op      string
}

// NewKindValidator creates a validator for column kinds
func NewKindValidator(op, column string, typ value.Type, allowed ...value.Kind) *KindValidator {
	return &KindValidator{
		column:  column,
		typ:     typ,
		allowed: allowed,
		op:      op,
	}
}

// Validate checks if the column kind is allowed
func (v *KindValidator) Validate() error {
	for _, k := range v.allowed {
		if v.typ.Kind == k {
			return nil
		}
	}
	return errors.NewTypeError(v.op, v.column, fmt.Sprintf("unsupported column type %s", v.typ))
}

// IndexValidator validates index bounds
type IndexValidator struct {
	index int
	max   int
	op    string
}

// NewIndexValidator creates a validator for index operations
func NewIndexValidator(index, maxIndex int, op string) *IndexValidator {
	return &IndexValidator{
		index: index,
		max:   maxIndex,
		op:    op,
	}
}

// Validate checks if index is within bounds
func (v *IndexValidator) Validate() error {
	if v.index < 0 || v.index >= v.max {
		return errors.NewIndexError(v.op, v.index, v.max)
	}
	return nil
}

// RangeValidator validates a row range [start, end) against a size
type RangeValidator struct {
	start, end, size int
	op               string
}

// NewRangeValidator creates a validator for row ranges
func NewRangeValidator(start, end, size int, op string) *RangeValidator {
	return &RangeValidator{start: start, end: end, size: size, op: op}
}

// Validate checks 0 <= start <= end <= size
func (v *RangeValidator) Validate() error {
	if v.start < 0 || v.start > v.size {
		return errors.NewIndexError(v.op, v.start, v.size+1)
	}
	if v.end < v.start || v.end > v.size {
		return errors.NewIndexError(v.op, v.end, v.size+1)
	}
	return nil
}

// OrderValidator validates that a range start does not follow its end
type OrderValidator struct {
	fromIndex, toIndex int
	from, to           string
	op                 string
}

// NewOrderValidator creates a validator for column ranges
func NewOrderValidator(op string, from string, fromIndex int, to string, toIndex int) *OrderValidator {
	return &OrderValidator{fromIndex: fromIndex, toIndex: toIndex, from: from, to: to, op: op}
}

// Validate checks fromIndex <= toIndex
func (v *OrderValidator) Validate() error {
	if v.fromIndex > v.toIndex {
		return errors.NewOrderingError(v.op, v.from, v.to)
	}
	return nil
}

// CompoundValidator combines multiple validators
type CompoundValidator struct {
	validators []Validator
}

// NewCompoundValidator creates a validator that checks multiple conditions
func NewCompoundValidator(validators ...Validator) *CompoundValidator {
	return &CompoundValidator{
		validators: validators,
	}
}

// Validate runs all validators and returns the first error encountered
func (v *CompoundValidator) Validate() error {
	for _, validator := range v.validators {
		if err := validator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Convenience validation functions

// ValidateColumns is a convenience function for column validation
func ValidateColumns(df ColumnProvider, op string, columns ...string) error {
	return NewColumnValidator(df, op, columns...).Validate()
}

// ValidateUniqueNames is a convenience function for name uniqueness
func ValidateUniqueNames(op string, names ...string) error {
	return NewUniqueNameValidator(op, names...).Validate()
}

// ValidateLength is a convenience function for length validation
func ValidateLength(expected, actual int, op, context string) error {
	return NewLengthValidator(expected, actual, op, context).Validate()
}

// ValidateKind is a convenience function for kind validation
func ValidateKind(op, column string, typ value.Type, allowed ...value.Kind) error {
	return NewKindValidator(op, column, typ, allowed...).Validate()
}

// ValidateIndex is a convenience function for index validation
func ValidateIndex(index, maxIndex int, op string) error {
	return NewIndexValidator(index, maxIndex, op).Validate()
}

// ValidateRange is a convenience function for row range validation
func ValidateRange(start, end, size int, op string) error {
	return NewRangeValidator(start, end, size, op).Validate()
}

// ValidateOrder is a convenience function for column range validation
func ValidateOrder(op string, from string, fromIndex int, to string, toIndex int) error {
	return NewOrderValidator(op, from, fromIndex, to, toIndex).Validate()
}
