// Package convert provides the converter table used to coerce column values
// from one kind to another: numeric widening, string parsing and temporal
// conversions.
//
// A Registry is an explicit value passed to conversion entry points. It
// owns a memoisation table of resolved converters so repeated lookups for
// the same (from, to) pair are cheap.
package convert

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paveg/canopy/internal/value"
)

// Converter converts a non-null value to the target kind.
type Converter func(value.Value) (value.Value, error)

type pair struct {
	from, to value.Kind
}

// Registry maps (from-kind, to-kind) pairs to converters.
type Registry struct {
	mu         sync.RWMutex
	converters map[pair]Converter
	cache      map[pair]Converter
}

// NewRegistry creates a registry with no converters.
func NewRegistry() *Registry {
	return &Registry{
		converters: make(map[pair]Converter),
		cache:      make(map[pair]Converter),
	}
}

// NewDefaultRegistry creates a registry preloaded with the standard
// numeric, string and temporal converters.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	registerDefaults(r)
	return r
}

// Register installs fn for the (from, to) pair, replacing any previous
// converter and invalidating memoised lookups.
func (r *Registry) Register(from, to value.Kind, fn Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[pair{from, to}] = fn
	r.cache = make(map[pair]Converter)
}

// Lookup returns the converter for (from, to). Converting a kind to itself
// or anything to KindAny always resolves.
func (r *Registry) Lookup(from, to value.Kind) (Converter, bool) {
	key := pair{from, to}

	r.mu.RLock()
	fn, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return fn, fn != nil
	}

	fn = r.resolve(key)

	r.mu.Lock()
	r.cache[key] = fn
	r.mu.Unlock()
	return fn, fn != nil
}

// CacheSize returns the number of memoised lookups, including misses.
func (r *Registry) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

func (r *Registry) resolve(key pair) Converter {
	if key.from == key.to {
		return identity
	}
	r.mu.RLock()
	fn := r.converters[key]
	r.mu.RUnlock()
	if fn != nil {
		return fn
	}
	if key.to == value.KindAny {
		return func(v value.Value) (value.Value, error) { return v, nil }
	}
	if key.to == value.KindString {
		return toString
	}
	return nil
}

// Convert converts a single value. Null always converts to null.
func (r *Registry) Convert(v value.Value, to value.Kind) (value.Value, error) {
	if v.IsNull() {
		return v, nil
	}
	fn, ok := r.Lookup(v.Kind(), to)
	if !ok {
		return value.Null(), fmt.Errorf("%w: %s to %s", ErrNoConverter, v.Kind(), to)
	}
	return fn(v)
}

// ErrNoConverter is returned when no converter exists for a kind pair.
var ErrNoConverter = errors.New("no converter registered")

func identity(v value.Value) (value.Value, error) { return v, nil }

func toString(v value.Value) (value.Value, error) { return value.String(v.String()), nil }

func registerDefaults(r *Registry) {
	r.Register(value.KindInt, value.KindFloat, func(v value.Value) (value.Value, error) {
		f, _ := v.AsFloat()
		return value.Float(f), nil
	})
	r.Register(value.KindFloat, value.KindInt, floatToInt)
	r.Register(value.KindBool, value.KindInt, func(v value.Value) (value.Value, error) {
		b, _ := v.AsBool()
		if b {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	})
	r.Register(value.KindInt, value.KindBool, func(v value.Value) (value.Value, error) {
		i, _ := v.AsInt()
		return value.Bool(i != 0), nil
	})
	r.Register(value.KindString, value.KindInt, func(v value.Value) (value.Value, error) {
		s, _ := v.AsString()
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return value.Null(), err
		}
		return value.Int(i), nil
	})
	r.Register(value.KindString, value.KindFloat, func(v value.Value) (value.Value, error) {
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return value.Null(), err
		}
		return value.Float(f), nil
	})
	r.Register(value.KindString, value.KindBool, func(v value.Value) (value.Value, error) {
		s, _ := v.AsString()
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return value.Null(), err
		}
		return value.Bool(b), nil
	})
	r.Register(value.KindString, value.KindTime, parseTime)
	r.Register(value.KindString, value.KindDuration, func(v value.Value) (value.Value, error) {
		s, _ := v.AsString()
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return value.Null(), err
		}
		return value.Duration(d), nil
	})
	// Integers and timestamps convert through unix milliseconds.
	r.Register(value.KindInt, value.KindTime, func(v value.Value) (value.Value, error) {
		i, _ := v.AsInt()
		return value.Time(time.UnixMilli(i).UTC()), nil
	})
	r.Register(value.KindTime, value.KindInt, func(v value.Value) (value.Value, error) {
		t, _ := v.AsTime()
		return value.Int(t.UnixMilli()), nil
	})
	r.Register(value.KindInt, value.KindDuration, func(v value.Value) (value.Value, error) {
		i, _ := v.AsInt()
		return value.Duration(time.Duration(i) * time.Millisecond), nil
	})
	r.Register(value.KindDuration, value.KindInt, func(v value.Value) (value.Value, error) {
		d, _ := v.AsDuration()
		return value.Int(d.Milliseconds()), nil
	})
}

func floatToInt(v value.Value) (value.Value, error) {
	f, _ := v.AsFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return value.Null(), fmt.Errorf("float64 value %f overflows int64 range", f)
	}
	if f != math.Trunc(f) {
		return value.Null(), fmt.Errorf("float64 value %f is not integral", f)
	}
	return value.Int(int64(f)), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTime(v value.Value) (value.Value, error) {
	s, _ := v.AsString()
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return value.Time(t), nil
		}
	}
	return value.Null(), fmt.Errorf("cannot parse %q as time", s)
}
