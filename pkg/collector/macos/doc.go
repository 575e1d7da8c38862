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


// Package macos implements the macOS host collectors.
//
// Each collector shells out to a system utility (ls, sysctl, networksetup,
// dscl, brew, ...) through a command.Runner or reads a system file, and
// normalizes the output into a document.Value. Collector names are stable
// identifiers: they key fingerprints, the severity policy and the redaction
// rules, so renaming one breaks comparison with older baselines.
//
// # Failure Handling
//
// Single-source collectors return the runner error, which the registry
// records as {"error": message}. Multi-source collectors record an empty
// value for each source that failed and only fail when every source did.
//
// # Usage
//
//	reg := macos.NewRegistry()
//	results := reg.RunAll(ctx, collector.WithParallel(true))
//
// Tests inject canned output:
//
//	reg := macos.NewRegistry(
//	    macos.WithRunner(command.NewFake().Set("kextstat -l", "...")),
//	    macos.WithRoot(t.TempDir()),
//	)
//
// NewRegistry returns a fresh registry on every call.
package macos
