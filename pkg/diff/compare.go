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
	"log/slog"
	"slices"
	"time"

	"github.com/macfp/macfp/pkg/collector"
	"github.com/macfp/macfp/pkg/document"
	"github.com/macfp/macfp/pkg/fingerprint"
)

// UnknownTimestamp is reported when a fingerprint carries no timestamp.
const UnknownTimestamp = "unknown"

// Record is the change recorded for one collector.
type Record struct {
	Severity Severity
	Type     Kind
	// Data is the whole collector value for added and removed collectors.
	Data document.Value
	Delta
}

// Document returns the record in its serialized shape.
func (r Record) Document() document.Value {
	m := map[string]document.Value{
		"severity": document.Str(string(r.Severity)),
		"type":     document.Str(string(r.Type)),
	}
	if r.Type == KindModified {
		r.fields(m)
	} else {
		m["data"] = r.Data
	}
	return document.Map(m)
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return r.Document().MarshalJSON()
}

// MarshalYAML implements yaml.Marshaler.
func (r Record) MarshalYAML() (any, error) {
	return r.Document().Any(), nil
}

// Summary counts changes per severity.
type Summary struct {
	TotalChanges int `json:"total_changes" yaml:"total_changes"`
	Critical     int `json:"critical" yaml:"critical"`
	High         int `json:"high" yaml:"high"`
	Medium       int `json:"medium" yaml:"medium"`
	Low          int `json:"low" yaml:"low"`
}

func (s *Summary) add(sev Severity) {
	s.TotalChanges++
	switch sev {
	case SeverityCritical:
		s.Critical++
	case SeverityHigh:
		s.High++
	case SeverityMedium:
		s.Medium++
	case SeverityLow:
		s.Low++
	}
}

// Count returns the number of changes at sev.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return s.Critical
	case SeverityHigh:
		return s.High
	case SeverityMedium:
		return s.Medium
	case SeverityLow:
		return s.Low
	default:
		return 0
	}
}

func (s Summary) document() document.Value {
	return document.Map(map[string]document.Value{
		"total_changes": document.Int(int64(s.TotalChanges)),
		"critical":      document.Int(int64(s.Critical)),
		"high":          document.Int(int64(s.High)),
		"medium":        document.Int(int64(s.Medium)),
		"low":           document.Int(int64(s.Low)),
	})
}

// Report is the result of comparing a baseline with a current fingerprint.
type Report struct {
	Timestamp         string
	BaselineTimestamp string
	CurrentTimestamp  string
	Summary           Summary
	Changes           map[string]Record
}

// Names returns the changed collector names sorted.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Changes))
	for name := range r.Changes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// BySeverity returns the sorted names of collectors changed at sev.
func (r *Report) BySeverity(sev Severity) []string {
	var names []string
	for _, name := range r.Names() {
		if r.Changes[name].Severity == sev {
			names = append(names, name)
		}
	}
	return names
}

// HasChanges reports whether any change was found.
func (r *Report) HasChanges() bool {
	return r.Summary.TotalChanges > 0
}

// Document returns the report in its serialized shape.
func (r *Report) Document() document.Value {
	changes := make(map[string]document.Value, len(r.Changes))
	for name, rec := range r.Changes {
		changes[name] = rec.Document()
	}
	return document.Map(map[string]document.Value{
		"timestamp":          document.Str(r.Timestamp),
		"baseline_timestamp": document.Str(r.BaselineTimestamp),
		"current_timestamp":  document.Str(r.CurrentTimestamp),
		"summary":            r.Summary.document(),
		"changes":            document.Map(changes),
	})
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	return r.Document().MarshalJSON()
}

// MarshalYAML implements yaml.Marshaler.
func (r *Report) MarshalYAML() (any, error) {
	return r.Document().Any(), nil
}

// add records a change and counts it once at its severity.
func (r *Report) add(name string, rec Record) {
	r.Changes[name] = rec
	r.Summary.add(rec.Severity)
}

type compareConfig struct {
	ignore []string
	now    func() time.Time
}

// Option configures Compare.
type Option func(*compareConfig)

// WithIgnore skips collectors matching any of the names entirely.
// Names support "*" wildcards.
func WithIgnore(names ...string) Option {
	return func(c *compareConfig) {
		c.ignore = append(c.ignore, names...)
	}
}

// WithClock sets the clock used for the report timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *compareConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Compare diffs the collector maps of baseline and current.
func Compare(baseline, current *fingerprint.Fingerprint, opts ...Option) *Report {
	cfg := &compareConfig{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	report := &Report{
		Timestamp:         cfg.now().Format(fingerprint.TimestampLayout),
		BaselineTimestamp: timestampOf(baseline),
		CurrentTimestamp:  timestampOf(current),
		Changes:           make(map[string]Record),
	}

	before := collectorsOf(baseline)
	after := collectorsOf(current)

	names := before.Keys()
	for _, name := range after.Keys() {
		if !before.Has(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		if collector.Match(name, cfg.ignore) {
			continue
		}
		b, inBaseline := before.Get(name)
		c, inCurrent := after.Get(name)
		switch {
		case !inBaseline:
			report.add(name, Record{Severity: SeverityLow, Type: KindCollectorAdded, Data: c})
		case !inCurrent:
			report.add(name, Record{Severity: SeverityMedium, Type: KindCollectorRemoved, Data: b})
		case !b.Equal(c):
			if d, ok := delta(b, c); ok {
				report.add(name, Record{
					Severity: ClassifySeverity(name, ChangeModified),
					Type:     KindModified,
					Delta:    d,
				})
			}
		}
	}

	slog.Debug("fingerprints compared",
		"baseline", report.BaselineTimestamp,
		"current", report.CurrentTimestamp,
		"changes", report.Summary.TotalChanges)

	return report
}

func collectorsOf(f *fingerprint.Fingerprint) document.Value {
	if f == nil {
		return document.Map(nil)
	}
	return f.Collectors()
}

func timestampOf(f *fingerprint.Fingerprint) string {
	if f == nil {
		return UnknownTimestamp
	}
	v, ok := f.Document().Get(fingerprint.KeyTimestamp)
	if !ok {
		return UnknownTimestamp
	}
	return v.String()
}
