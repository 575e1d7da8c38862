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


// Package redact replaces privacy-sensitive collector values with one-way hashes.
//
// Rules are keyed by collector name:
//
//   - NetworkConfigCollector: ip_addresses values and the arp_cache,
//     routing_table and wifi_networks lines
//   - SSHConfigCollector: known_hosts lines
//   - HostsFileCollector: every non-comment line
//
// Only string leaves change; a map stays a map and a list stays a list.
// Collector outputs without a rule, and error records, pass through as is.
//
// HashValue is SHA3-256 hex with no key. Equal inputs hash equally so
// redacted documents can still be compared, but known values can be
// recovered by dictionary lookup.
package redact
