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


package diff

import (
	"slices"
)

// Severity ranks a change.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// String implements fmt.Stringer.
func (s Severity) String() string {
	return string(s)
}

// Rank returns 0 for critical up to 3 for low, and len(Severities) for unknown values.
func (s Severity) Rank() int {
	if i := slices.Index(Severities, s); i >= 0 {
		return i
	}
	return len(Severities)
}

// ChangeType is the kind of change used for field entries and severity lookup.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Kind is the kind of a top-level collector record.
type Kind string

const (
	KindCollectorAdded   Kind = "collector_added"
	KindCollectorRemoved Kind = "collector_removed"
	KindModified         Kind = "modified"
)

var (
	criticalCollectors = []string{
		"SecuritySettingsCollector",
		"GatekeeperCollector",
		"SSHConfigCollector",
	}

	highCollectors = []string{
		"KernelExtensionsCollector",
		"LaunchAgentsCollector",
		"UserAccountsCollector",
		"NetworkConfigCollector",
	}
)

// ClassifySeverity returns the severity of a change of type ct in the named collector.
func ClassifySeverity(name string, ct ChangeType) Severity {
	switch {
	case slices.Contains(criticalCollectors, name):
		return SeverityCritical
	case slices.Contains(highCollectors, name):
		return SeverityHigh
	case ct == ChangeRemoved:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// CriticalCollectors returns the collector names always classified as critical.
func CriticalCollectors() []string {
	return slices.Clone(criticalCollectors)
}

// HighCollectors returns the collector names always classified as high.
func HighCollectors() []string {
	return slices.Clone(highCollectors)
}
