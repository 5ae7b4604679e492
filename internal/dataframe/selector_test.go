//nolint:testpackage // tests reach unexported helpers
package dataframe

import (
	"testing"

	dferrors "github.com/paveg/canopy/internal/errors"
	"github.com/paveg/canopy/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectors(t *testing.T) {
	df := people(t)

	tests := []struct {
		name string
		sel  ColumnSelector
		want []ColumnPath
	}{
		{"cols", Cols(Path("age"), Path("name", "lastName")), Paths("age", "name.lastName")},
		{"by name", ByName("name.firstName"), Paths("name.firstName")},
		{"all", All(), Paths("name", "age", "city", "weight", "isHappy")},
		{"leaves", Leaves(), Paths("name.firstName", "name.lastName", "age", "city", "weight", "isHappy")},
		{"of kind", OfKind(value.KindInt), Paths("age", "weight")},
		{"where", Where(func(p ColumnPath, _ Column) bool { return len(p) > 1 }), Paths("name.firstName", "name.lastName")},
		{"single", Single(ByName("city")), Paths("city")},
		{"col group", ColGroup(Path("name")), Paths("name")},
		{"range", Range(Path("city"), Path("isHappy")), Paths("city", "weight", "isHappy")},
		{"nested range", Range(Path("name", "firstName"), Path("name", "lastName")), Paths("name.firstName", "name.lastName")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := df.Resolve(tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorErrors(t *testing.T) {
	df := people(t)

	tests := []struct {
		name string
		sel  ColumnSelector
		kind error
	}{
		{"nil selector", nil, dferrors.ErrInvalidInput},
		{"missing column", ByName("height"), dferrors.ErrMissingPath},
		{"single with none", Single(OfKind(value.KindDuration)), dferrors.ErrMissingPath},
		{"single with many", Single(All()), dferrors.ErrCardinality},
		{"col group on value column", ColGroup(Path("age")), dferrors.ErrMissingPath},
		{"range across groups", Range(Path("name", "firstName"), Path("age")), dferrors.ErrInvalidInput},
		{"range reversed", Range(Path("weight"), Path("age")), dferrors.ErrOrdering},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := df.Resolve(tt.sel)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}
