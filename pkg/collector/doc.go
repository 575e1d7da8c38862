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


// Package collector defines the collector abstraction and the registry that runs collectors.
//
// # Core Interface
//
// Every data source implements Collector:
//
//	type Collector interface {
//	    Name() string
//	    Category() Category
//	    Collect(ctx context.Context) (document.Value, error)
//	}
//
// Run wraps a single invocation so that errors and panics become a failed
// Outcome instead of escaping. An Outcome is recorded in a fingerprint as the
// collected value or as {"error": message}.
//
// # Registry
//
// Registry is an explicit, instantiable set of collectors keyed by name and
// kept in registration order. There is no package-level registry; callers
// create one and pass it where it is needed:
//
//	reg := collector.NewRegistry()
//	_ = reg.Register(myCollector)
//	reg.Filter([]string{"Network*"}, []string{"NetworkConnectionsCollector"})
//
//	results := reg.RunAll(ctx,
//	    collector.WithParallel(true),
//	    collector.WithMaxWorkers(4),
//	    collector.WithProgress(func(name string, i, total int) {
//	        slog.Debug("collecting", "collector", name, "index", i, "total", total)
//	    }),
//	)
//
// Sequential runs invoke collectors in registration order. Parallel runs use
// a bounded errgroup pool; progress indices follow submission order.
// Either way every registered name appears in the result map.
//
// # Subpackages
//
//   - collector/command - validated external command execution with timeouts
//   - collector/file - size-limited text file reading
//   - collector/macos - the macOS host collectors and their default registry
//
// # Metrics
//
// Collector durations, run totals by status and per-collector failures are
// exported through the default Prometheus registry under the macfp_ prefix.
package collector
