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


// Package config loads user defaults for the macfp CLI.
//
// Settings come from, lowest precedence first:
//
//  1. built-in defaults
//  2. the TOML file at ~/.macos-fingerprint/config.toml, or --config
//  3. MACFP_* environment variables, e.g. MACFP_PARALLEL=true
//
// Command-line flags override all of these; the CLI applies a config value
// only when the corresponding flag was not set.
//
// Keys inside TOML sections are lifted to the top level, so
//
//	[scan]
//	parallel = true
//
// is the same as a top-level "parallel = true". A missing file yields the
// defaults. An unreadable or invalid file is logged and also yields the
// defaults.
package config
