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


// Package diff compares two fingerprints and ranks each change by severity.
//
// Lists are compared as multisets: duplicates count, so ["x", "x"] against
// ["x"] reports one removed "x". Structured list elements are counted by
// their canonical JSON form and reported as the original values. Output
// lists are sorted by their string form.
//
// Maps are compared key by key in sorted order, recursing into nested maps
// and lists. Each changed key becomes a FieldChange:
//
//	{"type": "added", "value": ...}
//	{"type": "removed", "value": ...}
//	{"type": "modified", "added": [...], "removed": [...]}
//	{"type": "modified", "changes": {...}}
//	{"type": "modified", "baseline": ..., "current": ...}
//
// Compare works on the top-level collector map and produces a Report with
// one Record per changed collector. Severity comes from a fixed table:
//
//	critical  SecuritySettingsCollector, GatekeeperCollector, SSHConfigCollector
//	high      KernelExtensionsCollector, LaunchAgentsCollector,
//	          UserAccountsCollector, NetworkConfigCollector
//	medium    any other removal
//	low       everything else
//
// The table is part of the file format: renaming a collector makes older
// baselines report it as removed and added.
package diff
