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


package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/macfp/macfp/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	name     string
	category Category
	value    document.Value
	err      error
	panicMsg string
	delay    time.Duration
	calls    atomic.Int32
}

func (f *fakeCollector) Name() string       { return f.name }
func (f *fakeCollector) Category() Category { return f.category }

func (f *fakeCollector) Collect(ctx context.Context) (document.Value, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return document.Value{}, ctx.Err()
		}
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return document.Value{}, f.err
	}
	return f.value, nil
}

func ok(name string, cat Category) *fakeCollector {
	return &fakeCollector{name: name, category: cat, value: document.Str(name + "-data")}
}

func newTestRegistry(t *testing.T, cs ...Collector) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, c := range cs {
		require.NoError(t, r.Register(c))
	}
	return r
}

func TestRegisterAndLookup(t *testing.T) {
	r := newTestRegistry(t,
		ok("B", CategorySystem),
		ok("A", CategoryNetwork),
		ok("C", CategorySystem),
	)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"B", "A", "C"}, r.Names())

	c, found := r.Get("A")
	require.True(t, found)
	assert.Equal(t, CategoryNetwork, c.Category())

	_, found = r.Get("missing")
	assert.False(t, found)

	sys := r.ListByCategory(CategorySystem)
	require.Len(t, sys, 2)
	assert.Equal(t, "B", sys[0].Name())
	assert.Equal(t, "C", sys[1].Name())
}

func TestRegisterReplacesInPlace(t *testing.T) {
	r := newTestRegistry(t, ok("A", CategorySystem), ok("B", CategorySystem))
	require.NoError(t, r.Register(ok("A", CategoryUser)))

	assert.Equal(t, []string{"A", "B"}, r.Names())
	c, _ := r.Get("A")
	assert.Equal(t, CategoryUser, c.Category())
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(ok("", CategorySystem)))
	assert.Zero(t, r.Len())
}

func TestUnregisterAndClear(t *testing.T) {
	r := newTestRegistry(t, ok("A", CategorySystem), ok("B", CategorySystem))

	assert.True(t, r.Unregister("A"))
	assert.False(t, r.Unregister("A"))
	assert.Equal(t, []string{"B"}, r.Names())

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.List())
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := newTestRegistry(t, ok("A", CategorySystem))
	b := NewRegistry()

	assert.Equal(t, 1, a.Len())
	assert.Zero(t, b.Len())
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"no filters", nil, nil, []string{"NetworkConfigCollector", "OpenPortsCollector", "HostsFileCollector"}},
		{"whitelist", []string{"HostsFileCollector"}, nil, []string{"HostsFileCollector"}},
		{"blacklist", nil, []string{"OpenPortsCollector"}, []string{"NetworkConfigCollector", "HostsFileCollector"}},
		{"whitelist then blacklist", []string{"NetworkConfigCollector", "OpenPortsCollector"}, []string{"OpenPortsCollector"}, []string{"NetworkConfigCollector"}},
		{"wildcard", []string{"*Ports*", "Hosts*"}, nil, []string{"OpenPortsCollector", "HostsFileCollector"}},
		{"unknown whitelist", []string{"Nope"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t,
				ok("NetworkConfigCollector", CategoryNetwork),
				ok("OpenPortsCollector", CategoryNetwork),
				ok("HostsFileCollector", CategoryNetwork),
			)
			r.Filter(tt.include, tt.exclude)
			names := r.Names()
			if names == nil {
				names = []string{}
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		key     string
		pattern string
		want    bool
	}{
		{"NetworkConfigCollector", "NetworkConfigCollector", true},
		{"NetworkConfigCollector", "Network*", true},
		{"NetworkConfigCollector", "*Collector", true},
		{"NetworkConfigCollector", "*Config*", true},
		{"NetworkConfigCollector", "Net*Coll*", true},
		{"NetworkConfigCollector", "*", true},
		{"NetworkConfigCollector", "SSH*", false},
		{"NetworkConfigCollector", "", false},
		{"a", "a*a", false},
		{"aa", "a*a", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesPattern(tt.key, tt.pattern))
		})
	}
}

func TestRunCapturesFailures(t *testing.T) {
	out := Run(context.Background(), &fakeCollector{name: "Bad", err: errors.New("boom")})
	assert.False(t, out.Success)
	assert.Equal(t, "boom", out.Error)
	assert.Equal(t, `{"error": "boom"}`, string(out.Document().Canonical()))

	out = Run(context.Background(), &fakeCollector{name: "Panics", panicMsg: "kaboom"})
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "kaboom")

	out = Run(context.Background(), ok("Good", CategorySystem))
	assert.True(t, out.Success)
	assert.Equal(t, "Good-data", out.Document().String())
}

func TestRunHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := ok("Good", CategorySystem)
	out := Run(ctx, c)
	assert.False(t, out.Success)
	assert.Zero(t, c.calls.Load())
}

func TestRunAllSequentialOrderAndProgress(t *testing.T) {
	r := newTestRegistry(t,
		ok("A", CategorySystem),
		&fakeCollector{name: "B", err: errors.New("missing tool")},
		ok("C", CategorySystem),
	)

	type call struct {
		name         string
		index, total int
	}
	var calls []call
	results := r.RunAll(context.Background(), WithProgress(func(name string, i, total int) {
		calls = append(calls, call{name, i, total})
	}))

	assert.Equal(t, []call{{"A", 0, 3}, {"B", 1, 3}, {"C", 2, 3}}, calls)
	require.Len(t, results, 3)
	assert.True(t, results["A"].Success)
	assert.False(t, results["B"].Success)
	assert.Equal(t, "missing tool", results["B"].Error)
	assert.True(t, results["C"].Success)
}

func TestRunAllIgnoresPanickingProgress(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		t.Run(fmt.Sprintf("parallel=%v", parallel), func(t *testing.T) {
			r := newTestRegistry(t, ok("A", CategorySystem), ok("B", CategorySystem))
			results := r.RunAll(context.Background(),
				WithParallel(parallel),
				WithProgress(func(string, int, int) { panic("boom") }),
			)

			require.Len(t, results, 2)
			assert.True(t, results["A"].Success)
			assert.True(t, results["B"].Success)
		})
	}
}

func TestRunAllParallelMatchesSequential(t *testing.T) {
	build := func() *Registry {
		r := NewRegistry()
		for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
			_ = r.Register(&fakeCollector{name: n, value: document.Str(n), delay: 5 * time.Millisecond})
		}
		_ = r.Register(&fakeCollector{name: "Boom", panicMsg: "unexpected"})
		_ = r.Register(&fakeCollector{name: "Err", err: errors.New("exit status 1")})
		return r
	}

	seq := build().RunAll(context.Background())

	var mu sync.Mutex
	var indices []int
	par := build().RunAll(context.Background(),
		WithParallel(true),
		WithMaxWorkers(3),
		WithProgress(func(_ string, i, total int) {
			mu.Lock()
			indices = append(indices, i)
			mu.Unlock()
			assert.Equal(t, 8, total)
		}),
	)

	require.Len(t, par, len(seq))
	for name, s := range seq {
		p, found := par[name]
		require.True(t, found, name)
		assert.Equal(t, s.Success, p.Success, name)
		assert.True(t, s.Value.Equal(p.Value), name)
		assert.Equal(t, s.Error == "", p.Error == "", name)
	}
	assert.False(t, par["Boom"].Success)
	assert.False(t, par["Err"].Success)

	sort.Ints(indices)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, indices)
}

func TestRunAllParallelBoundsWorkers(t *testing.T) {
	var active, peak atomic.Int32
	r := NewRegistry()
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		_ = r.Register(&trackingCollector{name: n, active: &active, peak: &peak})
	}

	results := r.RunAll(context.Background(), WithParallel(true), WithMaxWorkers(2))
	assert.Len(t, results, 8)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

type trackingCollector struct {
	name         string
	active, peak *atomic.Int32
}

func (c *trackingCollector) Name() string       { return c.name }
func (c *trackingCollector) Category() Category { return CategorySystem }

func (c *trackingCollector) Collect(context.Context) (document.Value, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return document.Null(), nil
}

func TestParseCategory(t *testing.T) {
	c, found := ParseCategory("security")
	assert.True(t, found)
	assert.Equal(t, CategorySecurity, c)

	_, found = ParseCategory("gpu")
	assert.False(t, found)
}
