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
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/macfp/macfp/pkg/defaults"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called before a collector runs with its submission index and
// the total number of collectors. In parallel mode it is called from worker
// goroutines and must be safe for concurrent use.
type ProgressFunc func(name string, index, total int)

// Registry owns a named, ordered set of collectors.
// Registries are independent: nothing is shared between instances.
type Registry struct {
	mu    sync.RWMutex
	order []string
	items map[string]Collector
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[string]Collector),
	}
}

// Register adds c to the registry. Registering a name that already exists
// replaces the collector and keeps its original position.
func (r *Registry) Register(c Collector) error {
	if c == nil {
		return fmt.Errorf("collector cannot be nil")
	}
	name := c.Name()
	if name == "" {
		return fmt.Errorf("collector name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; !exists {
		r.order = append(r.order, name)
	}
	r.items[name] = c
	return nil
}

// Unregister removes the named collector. It reports whether it was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(name)
}

func (r *Registry) remove(name string) bool {
	if _, ok := r.items[name]; !ok {
		return false
	}
	delete(r.items, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}

// Get returns the named collector.
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[name]
	return c, ok
}

// List returns the registered collectors in registration order.
func (r *Registry) List() []Collector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Collector, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}
	return out
}

// Names returns the registered collector names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// ListByCategory returns the collectors of the given category in registration order.
func (r *Registry) ListByCategory(cat Category) []Collector {
	var out []Collector
	for _, c := range r.List() {
		if c.Category() == cat {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of registered collectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear removes every collector.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.items = make(map[string]Collector)
}

type runConfig struct {
	parallel   bool
	maxWorkers int
	progress   ProgressFunc
}

// RunOption configures RunAll.
type RunOption func(*runConfig)

// WithParallel runs collectors concurrently on a bounded worker pool.
func WithParallel(parallel bool) RunOption {
	return func(c *runConfig) {
		c.parallel = parallel
	}
}

// WithMaxWorkers sets the worker pool size for parallel runs.
// Values below 1 fall back to defaults.MaxWorkers.
func WithMaxWorkers(n int) RunOption {
	return func(c *runConfig) {
		c.maxWorkers = n
	}
}

// WithProgress registers a callback fired before each collector runs.
func WithProgress(fn ProgressFunc) RunOption {
	return func(c *runConfig) {
		c.progress = fn
	}
}

// RunAll executes every registered collector and returns one Outcome per name.
// Collector failures never abort the run; they are recorded as failed outcomes.
func (r *Registry) RunAll(ctx context.Context, opts ...RunOption) map[string]Outcome {
	cfg := &runConfig{maxWorkers: defaults.MaxWorkers}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxWorkers < 1 {
		cfg.maxWorkers = defaults.MaxWorkers
	}

	collectors := r.List()
	start := time.Now()
	defer func() {
		collectionDuration.Observe(time.Since(start).Seconds())
		collectorCount.Set(float64(len(collectors)))
	}()

	if cfg.parallel {
		return runParallel(ctx, collectors, cfg)
	}
	return runSequential(ctx, collectors, cfg)
}

// notify calls the progress callback. A panicking callback is logged and
// does not affect the run.
func (cfg *runConfig) notify(name string, index, total int) {
	if cfg.progress == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("progress callback panicked", "collector", name, "panic", fmt.Sprint(rec))
		}
	}()
	cfg.progress(name, index, total)
}

func runSequential(ctx context.Context, collectors []Collector, cfg *runConfig) map[string]Outcome {
	results := make(map[string]Outcome, len(collectors))
	for i, c := range collectors {
		cfg.notify(c.Name(), i, len(collectors))
		results[c.Name()] = Run(ctx, c)
	}
	return results
}

func runParallel(ctx context.Context, collectors []Collector, cfg *runConfig) map[string]Outcome {
	var mu sync.Mutex
	results := make(map[string]Outcome, len(collectors))

	// Workers never return errors, so the group context is not used for cancellation.
	var g errgroup.Group
	g.SetLimit(cfg.maxWorkers)

	for i, c := range collectors {
		name := c.Name()
		g.Go(func() error {
			var out Outcome
			defer func() {
				if rec := recover(); rec != nil {
					out = Failed(name, fmt.Errorf("worker panicked: %v", rec))
				}
				mu.Lock()
				results[name] = out
				mu.Unlock()
			}()

			cfg.notify(name, i, len(collectors))
			out = Run(ctx, c)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
