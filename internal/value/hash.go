package value

import (
	"encoding/binary"
	"fmt"
	"math"

	xxhash "github.com/cespare/xxhash/v2"
)

var canonicalNaN = math.Float64bits(math.NaN())

// Hash writes a kind tag and the payload of v into d. Values that are Equal
// write identical bytes.
func (v Value) Hash(d *xxhash.Digest) {
	var buf [9]byte
	buf[0] = byte(v.kind)
	switch v.kind {
	case KindNull:
		_, _ = d.Write(buf[:1])
	case KindBool, KindInt, KindDuration:
		binary.LittleEndian.PutUint64(buf[1:], v.bits)
		_, _ = d.Write(buf[:])
	case KindFloat:
		bits := v.bits
		if math.IsNaN(math.Float64frombits(bits)) {
			bits = canonicalNaN
		}
		binary.LittleEndian.PutUint64(buf[1:], bits)
		_, _ = d.Write(buf[:])
	case KindString:
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(v.str)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(v.str)
	case KindTime:
		t, _ := v.AsTime()
		binary.LittleEndian.PutUint64(buf[1:], uint64(t.UnixNano()))
		_, _ = d.Write(buf[:])
	case KindList:
		items, _ := v.AsList()
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(items)))
		_, _ = d.Write(buf[:])
		for _, item := range items {
			item.Hash(d)
		}
	default:
		_, _ = d.Write(buf[:1])
		_, _ = d.WriteString(fmt.Sprintf("%#v", v.ref))
	}
}

// HashTuple returns the xxhash of an ordered tuple of values.
func HashTuple(values []Value) uint64 {
	d := xxhash.New()
	for _, v := range values {
		v.Hash(d)
	}
	return d.Sum64()
}

// TupleEqual reports element-wise equality of two tuples.
func TupleEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// TupleIndex buckets ordered value tuples by equality, keeping the order in
// which distinct tuples were first added.
type TupleIndex struct {
	buckets map[uint64][]int
	keys    [][]Value
	rows    [][]int
}

// NewTupleIndex creates an index sized for about n distinct tuples.
func NewTupleIndex(n int) *TupleIndex {
	return &TupleIndex{buckets: make(map[uint64][]int, n)}
}

// Add records row under key and returns the ordinal of the key.
func (ti *TupleIndex) Add(key []Value, row int) int {
	h := HashTuple(key)
	for _, ord := range ti.buckets[h] {
		if TupleEqual(ti.keys[ord], key) {
			ti.rows[ord] = append(ti.rows[ord], row)
			return ord
		}
	}
	ord := len(ti.keys)
	ti.keys = append(ti.keys, key)
	ti.rows = append(ti.rows, []int{row})
	ti.buckets[h] = append(ti.buckets[h], ord)
	return ord
}

// Lookup returns the ordinal of key, or -1.
func (ti *TupleIndex) Lookup(key []Value) int {
	for _, ord := range ti.buckets[HashTuple(key)] {
		if TupleEqual(ti.keys[ord], key) {
			return ord
		}
	}
	return -1
}

// Len returns the number of distinct tuples.
func (ti *TupleIndex) Len() int { return len(ti.keys) }

// Key returns the ordinal-th distinct tuple.
func (ti *TupleIndex) Key(ordinal int) []Value { return ti.keys[ordinal] }

// Rows returns the rows recorded under the ordinal-th tuple, in insertion order.
func (ti *TupleIndex) Rows(ordinal int) []int { return ti.rows[ordinal] }
