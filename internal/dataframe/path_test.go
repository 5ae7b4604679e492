//nolint:testpackage // tests reach unexported helpers
package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnPath(t *testing.T) {
	p := ParsePath("name.firstName")

	assert.Equal(t, Path("name", "firstName"), p)
	assert.Equal(t, "name.firstName", p.String())
	assert.Equal(t, "firstName", p.Last())
	assert.Equal(t, Path("name"), p.Parent())
	assert.Empty(t, Path("age").Parent())
	assert.True(t, p.HasPrefix(Path("name")))
	assert.False(t, p.HasPrefix(Path("age")))
	assert.Equal(t, Path("name", "firstName", "x"), p.Child("x"))
	assert.Equal(t, Path("name", "firstName"), p, "Child must not modify the receiver")
	assert.Equal(t, []ColumnPath{Path("a"), Path("b", "c")}, Paths("a", "b.c"))
}

func TestDropOverlappingStartOfChild(t *testing.T) {
	tests := []struct {
		name   string
		parent ColumnPath
		child  ColumnPath
		want   ColumnPath
	}{
		{
			name:   "partial overlap",
			parent: Path("something", "name", "firstName"),
			child:  Path("name", "firstName", "secondName"),
			want:   Path("secondName"),
		},
		{
			name:   "empty parent",
			parent: nil,
			child:  Path("name", "firstName"),
			want:   Path("name", "firstName"),
		},
		{
			name:   "no overlap",
			parent: Path("city"),
			child:  Path("name", "firstName"),
			want:   Path("name", "firstName"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropOverlappingStartOfChild(tt.parent, tt.child))
		})
	}

	t.Run("full overlap", func(t *testing.T) {
		got := DropOverlappingStartOfChild(Path("city", "name", "firstName"), Path("name", "firstName"))
		assert.Empty(t, got)
	})
}

func TestDropStartWrt(t *testing.T) {
	assert.Equal(t, Path("d", "e"), DropStartWrt(Path("a", "b", "c"), Path("a", "b", "d", "e")))
	assert.Equal(t, Path("a", "b"), DropStartWrt(nil, Path("a", "b")))
	assert.Empty(t, DropStartWrt(Path("a", "b", "c"), Path("a", "b")))
	assert.Empty(t, DropStartWrt(Path("a", "b"), Path("a", "b")))
}
