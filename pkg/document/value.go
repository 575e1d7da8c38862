// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package document

import (
	"fmt"
	"math"
	"math/big"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// String returns the JSON type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable JSON-shaped value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents or normalized number literal
	list []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer number value.
func Int(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// Float returns a floating point number value.
func Float(f float64) Value { return Value{kind: KindNumber, s: formatFloat(f)} }

// Number returns a number value from a JSON number literal. Integer literals
// are kept as written; anything with a fraction or exponent is normalized
// to its shortest float representation.
func Number(literal string) (Value, error) {
	lit := strings.TrimSpace(literal)
	if lit == "" {
		return Value{}, fmt.Errorf("empty number literal")
	}
	if !strings.ContainsAny(lit, ".eE") {
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return Value{}, fmt.Errorf("invalid number literal %q", literal)
		}
		return Value{kind: KindNumber, s: n.String()}, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number literal %q: %w", literal, err)
	}
	return Float(f), nil
}

// List returns a list value holding a copy of items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Strings returns a list of string values.
func Strings(items []string) Value {
	list := make([]Value, len(items))
	for i, s := range items {
		list[i] = Str(s)
	}
	return Value{kind: KindList, list: list}
}

// Map returns a map value holding a copy of entries.
func Map(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: KindMap, m: m}
}

// StringMap returns a map value with string leaves.
func StringMap(entries map[string]string) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = Str(v)
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		// integers beyond float64 range parse to +-Inf
		return f, math.IsInf(f, 0)
	}
	return f, true
}

// AsInt returns the number held by v when it is an integer that fits int64.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(v.s, 10, 64)
	return i, err == nil
}

// Literal returns the normalized JSON literal of a number value.
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.s
}

// Items returns a copy of the elements of a list value. Non-lists yield nil.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.list)
}

// Len returns the number of list elements or map entries.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Keys returns the sorted keys of a map value. Non-maps yield nil.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the entry stored under key in a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	e, ok := v.m[key]
	return e, ok
}

// Has reports whether a map value contains key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Entries returns a copy of the entries of a map value. Non-maps yield nil.
func (v Value) Entries() map[string]Value {
	if v.kind != KindMap {
		return nil
	}
	return Map(v.m).m
}

// With returns a copy of map value v with key set to val.
// A non-map receiver is treated as an empty map.
func (v Value) With(key string, val Value) Value {
	out := Map(v.Entries())
	out.m[key] = val
	return out
}

// Without returns a copy of map value v with key removed.
func (v Value) Without(key string) Value {
	if v.kind != KindMap {
		return v
	}
	out := Map(v.m)
	delete(out.m, key)
	return out
}

// MapStrings returns a copy of v with fn applied to every string leaf.
// Map keys are left untouched.
func (v Value) MapStrings(fn func(string) string) Value {
	switch v.kind {
	case KindString:
		return Str(fn(v.s))
	case KindList:
		list := make([]Value, len(v.list))
		for i, e := range v.list {
			list[i] = e.MapStrings(fn)
		}
		return Value{kind: KindList, list: list}
	case KindMap:
		m := make(map[string]Value, len(v.m))
		for k, e := range v.m {
			m[k] = e.MapStrings(fn)
		}
		return Value{kind: KindMap, m: m}
	default:
		return v
	}
}

// Equal reports deep equality. Numbers compare by value, so 1 and 1.0 are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		if v.s == o.s {
			return true
		}
		a, aok := v.AsFloat()
		b, bok := o.AsFloat()
		return aok && bok && a == b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(o.m) {
			return false
		}
		for k, a := range v.m {
			b, ok := o.m[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the raw text of a string value and the canonical form otherwise.
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	return string(v.Canonical())
}

// Less orders values by their String representation.
func Less(a, b Value) bool {
	return a.String() < b.String()
}

// Compare is a three-way variant of Less suitable for slices.SortFunc.
func Compare(a, b Value) int {
	return strings.Compare(a.String(), b.String())
}

// Any converts v into plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if i, ok := v.AsInt(); ok {
			return i
		}
		f, _ := v.AsFloat()
		return f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Any()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.Any()
		}
		return out
	default:
		return nil
	}
}

// formatFloat renders f using the shortest round-trip digits, with fixed
// notation for exponents in [-4, 16) and a trailing ".0" on integral values.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp := 0
	if i := strings.IndexByte(e, 'e'); i >= 0 {
		exp, _ = strconv.Atoi(e[i+1:])
	}
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
