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
	"strings"
)

// Filter narrows the registry in place: when include is non-empty only
// matching collectors are kept, then every collector matching exclude is
// removed. Patterns support "*" wildcards, e.g. "Network*".
// Callers that need the full set afterwards must filter a fresh registry.
func (r *Registry) Filter(include, exclude []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(include) > 0 {
		for _, name := range append([]string(nil), r.order...) {
			if !matchesAny(name, include) {
				r.remove(name)
			}
		}
	}

	if len(exclude) > 0 {
		for _, name := range append([]string(nil), r.order...) {
			if matchesAny(name, exclude) {
				r.remove(name)
			}
		}
	}
}

// Match reports whether name matches any of the patterns.
func Match(name string, patterns []string) bool {
	return matchesAny(name, patterns)
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if matchesPattern(name, strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}

// matchesPattern checks if a name matches a pattern with "*" wildcards.
func matchesPattern(key, pattern string) bool {
	if pattern == "" {
		return false
	}

	// No wildcard - exact match
	if !strings.Contains(pattern, "*") {
		return key == pattern
	}

	segments := strings.Split(pattern, "*")
	last := len(segments) - 1

	// Leading segment anchors at the start
	if !strings.HasPrefix(key, segments[0]) {
		return false
	}
	pos := len(segments[0])

	// Trailing segment anchors at the end and may not overlap the prefix
	if !strings.HasSuffix(key[pos:], segments[last]) {
		return false
	}
	end := len(key) - len(segments[last])

	// Middle segments must appear in order between the anchors
	for _, segment := range segments[1:last] {
		if segment == "" {
			continue
		}
		idx := strings.Index(key[pos:end], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}
	return true
}
