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


// Package report renders comparison reports.
//
// Three formats are supported:
//
//   - json: the report document indented by two spaces
//   - html: a static page grouping changes by severity, most severe first
//   - text: a terminal summary with colored severity labels
//
// The HTML page is rendered with html/template, so collector names and
// collected values are escaped wherever they appear. Collected data is
// attacker-controlled: an application bundle can be named "<script>".
//
// Export writes a rendered report to a file with owner-only permissions.
package report
