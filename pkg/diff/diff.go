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


package diff

import (
	"slices"
	"strconv"
	"strings"

	"github.com/macfp/macfp/pkg/document"
)

// ListDiff holds the multiset difference of two lists.
type ListDiff struct {
	Added   []document.Value `json:"added"`
	Removed []document.Value `json:"removed"`
}

// Empty reports whether nothing was added or removed.
func (d ListDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// countKey identifies a list element for counting. Strings and structured
// values never collide, and numbers compare by value.
func countKey(v document.Value) string {
	switch v.Kind() {
	case document.KindString:
		s, _ := v.AsString()
		return "s" + s
	case document.KindNumber:
		if f, ok := v.AsFloat(); ok {
			return "n" + strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return "j" + string(v.Canonical())
}

// CompareLists returns the elements whose count grew (added) or shrank
// (removed) from baseline to current.
func CompareLists(baseline, current []document.Value) ListDiff {
	originals := make(map[string]document.Value, len(baseline)+len(current))
	delta := make(map[string]int, len(baseline)+len(current))

	for _, v := range baseline {
		k := countKey(v)
		originals[k] = v
		delta[k]--
	}
	for _, v := range current {
		k := countKey(v)
		originals[k] = v
		delta[k]++
	}

	keys := make([]string, 0, len(delta))
	for k := range delta {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := document.Compare(originals[a], originals[b]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	out := ListDiff{Added: []document.Value{}, Removed: []document.Value{}}
	for _, k := range keys {
		n := delta[k]
		for ; n > 0; n-- {
			out.Added = append(out.Added, originals[k])
		}
		for ; n < 0; n++ {
			out.Removed = append(out.Removed, originals[k])
		}
	}
	slices.SortStableFunc(out.Added, document.Compare)
	slices.SortStableFunc(out.Removed, document.Compare)
	return out
}

// Shape says which detail fields a change carries.
type Shape int

const (
	// ShapeValue carries a single value: a whole added or removed entry.
	ShapeValue Shape = iota
	// ShapeList carries added and removed list elements.
	ShapeList
	// ShapeNested carries nested field changes.
	ShapeNested
	// ShapeScalar carries the baseline and current values.
	ShapeScalar
)

// Delta is the detail of a modification.
type Delta struct {
	Shape    Shape
	Added    []document.Value
	Removed  []document.Value
	Changes  map[string]FieldChange
	Baseline document.Value
	Current  document.Value
}

// delta compares two differing values and returns the detail, or false
// when the difference disappears under multiset or recursive comparison.
func delta(baseline, current document.Value) (Delta, bool) {
	switch {
	case baseline.Kind() == document.KindList && current.Kind() == document.KindList:
		ld := CompareLists(baseline.Items(), current.Items())
		if ld.Empty() {
			return Delta{}, false
		}
		return Delta{Shape: ShapeList, Added: ld.Added, Removed: ld.Removed}, true
	case baseline.Kind() == document.KindMap && current.Kind() == document.KindMap:
		changes := CompareMaps(baseline, current)
		if len(changes) == 0 {
			return Delta{}, false
		}
		return Delta{Shape: ShapeNested, Changes: changes}, true
	default:
		return Delta{Shape: ShapeScalar, Baseline: baseline, Current: current}, true
	}
}

// fields adds the delta's detail entries to m.
func (d Delta) fields(m map[string]document.Value) {
	switch d.Shape {
	case ShapeList:
		m["added"] = document.List(d.Added...)
		m["removed"] = document.List(d.Removed...)
	case ShapeNested:
		nested := make(map[string]document.Value, len(d.Changes))
		for k, c := range d.Changes {
			nested[k] = c.Document()
		}
		m["changes"] = document.Map(nested)
	case ShapeScalar:
		m["baseline"] = d.Baseline
		m["current"] = d.Current
	}
}

// FieldChange describes one changed key inside a collector's output.
type FieldChange struct {
	Type ChangeType
	// Value is set for added and removed keys.
	Value document.Value
	Delta
}

// Document returns the change in its serialized shape.
func (c FieldChange) Document() document.Value {
	m := map[string]document.Value{"type": document.Str(string(c.Type))}
	if c.Type == ChangeModified {
		c.fields(m)
	} else {
		m["value"] = c.Value
	}
	return document.Map(m)
}

// MarshalJSON implements json.Marshaler.
func (c FieldChange) MarshalJSON() ([]byte, error) {
	return c.Document().MarshalJSON()
}

// MarshalYAML implements yaml.Marshaler.
func (c FieldChange) MarshalYAML() (any, error) {
	return c.Document().Any(), nil
}

// CompareMaps compares two map values key by key. Keys whose values are
// equal, or whose nested comparison finds nothing, are omitted.
func CompareMaps(baseline, current document.Value) map[string]FieldChange {
	keys := baseline.Keys()
	for _, k := range current.Keys() {
		if !baseline.Has(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	changes := make(map[string]FieldChange)
	for _, k := range keys {
		b, inBaseline := baseline.Get(k)
		c, inCurrent := current.Get(k)
		switch {
		case !inBaseline:
			changes[k] = FieldChange{Type: ChangeAdded, Value: c}
		case !inCurrent:
			changes[k] = FieldChange{Type: ChangeRemoved, Value: b}
		case !b.Equal(c):
			if d, ok := delta(b, c); ok {
				changes[k] = FieldChange{Type: ChangeModified, Delta: d}
			}
		}
	}
	return changes
}
