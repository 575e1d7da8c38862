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


// Package fingerprint assembles collector outcomes into a timestamped host fingerprint.
//
// A fingerprint document has the shape
//
//	{"timestamp": "2024-05-01T09:30:00.123456", "collectors": {name: value-or-{"error": msg}}}
//
// Fingerprint keeps the raw document so extra top-level fields survive a
// load/save cycle. Hash returns the SHA3-256 hex digest of the canonical
// serialization and is stable across key order and formatting.
//
// # Usage
//
//	reg := macos.NewRegistry()
//	fp, err := fingerprint.Create(ctx, reg,
//	    fingerprint.WithParallel(true),
//	    fingerprint.WithRedaction(true),
//	)
package fingerprint
