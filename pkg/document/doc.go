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


// Package document provides Value, the JSON-shaped tagged union used for
// every piece of collected data, fingerprint and comparison payload.
//
// A Value is one of null, bool, number, string, list or map. Numbers keep
// their textual form so integers survive a load/save cycle unchanged and
// floats render the way the reference JSON encoder renders them.
//
// # Canonical form
//
// Canonical returns the byte-exact serialization used for hashing and HMAC:
// keys sorted by code point, ", " and ": " separators, non-ASCII escaped as
// lowercase \uXXXX (surrogate pairs above the BMP) and no HTML escaping.
// Two equal documents always produce identical canonical bytes.
//
// # Ordering
//
// String returns the raw text for string values and the canonical form for
// everything else. Less orders values by that representation, which is how
// list differences are sorted.
package document
