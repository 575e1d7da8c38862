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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
)

// MarshalJSON implements json.Marshaler using the canonical form.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.Canonical(), nil
}

// Indent returns the canonical form of v re-indented with indent per level.
// Escaping and key order are those of the canonical form. It fails only
// for non-finite floats, which have no JSON representation.
func (v Value) Indent(indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, v.Canonical(), "", indent); err != nil {
		return nil, fmt.Errorf("failed to indent document: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Number literals are preserved.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler by handing plain Go values to the encoder.
func (v Value) MarshalYAML() (any, error) {
	return v.Any(), nil
}

// Parse decodes a single JSON document into a Value.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("failed to decode document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("unexpected data after document")
	}
	return FromAny(raw)
}

// MustParse is like Parse but panics on error. Intended for tests and literals.
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

// FromAny converts plain Go values into a Value. It accepts the shapes
// produced by encoding/json (with or without UseNumber), native integer
// and float types, string slices and maps, and Values themselves.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Value:
		if t == nil {
			return Null(), nil
		}
		return *t, nil
	case bool:
		return Bool(t), nil
	case string:
		return Str(t), nil
	case json.Number:
		return Number(t.String())
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(fmt.Sprint(t))
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Number(fmt.Sprint(t))
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case []string:
		return Strings(t), nil
	case []Value:
		return List(t...), nil
	case map[string]Value:
		return Map(t), nil
	case map[string]string:
		return StringMap(t), nil
	case []any:
		list := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			list[i] = ev
		}
		return Value{kind: KindList, list: list}, nil
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = ev
		}
		return Value{kind: KindMap, m: m}, nil
	}

	return fromReflect(reflect.ValueOf(x))
}

// fromReflect handles slices and string-keyed maps of other element types.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make([]Value, rv.Len())
		for i := range list {
			ev, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			list[i] = ev
		}
		return Value{kind: KindList, list: list}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		m := make(map[string]Value, len(keys))
		for _, k := range keys {
			ev, err := FromAny(rv.MapIndex(k).Interface())
			if err != nil {
				return Value{}, err
			}
			m[k.String()] = ev
		}
		return Value{kind: KindMap, m: m}, nil
	}
	return Value{}, fmt.Errorf("unsupported type %T", rv.Interface())
}
