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


package fingerprint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/macfp/macfp/pkg/collector"
	"github.com/macfp/macfp/pkg/document"
	"github.com/macfp/macfp/pkg/redact"
	"golang.org/x/crypto/sha3"
)

const (
	// KeyTimestamp is the top-level timestamp field.
	KeyTimestamp = "timestamp"
	// KeyCollectors is the top-level collector map field.
	KeyCollectors = "collectors"

	// TimestampLayout renders local time with microseconds and no zone.
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

// Fingerprint is an immutable host fingerprint document.
type Fingerprint struct {
	doc document.Value
}

// New wraps a document. It must be a map.
func New(doc document.Value) (*Fingerprint, error) {
	if doc.Kind() != document.KindMap {
		return nil, fmt.Errorf("fingerprint must be a JSON object, got %s", doc.Kind())
	}
	return &Fingerprint{doc: doc}, nil
}

// Build assembles outcomes into a fingerprint stamped with at.
func Build(outcomes map[string]collector.Outcome, at time.Time) *Fingerprint {
	collectors := make(map[string]document.Value, len(outcomes))
	for name, o := range outcomes {
		collectors[name] = o.Document()
	}
	return &Fingerprint{doc: document.Map(map[string]document.Value{
		KeyTimestamp:  document.Str(at.Format(TimestampLayout)),
		KeyCollectors: document.Map(collectors),
	})}
}

// Document returns the underlying document.
func (f *Fingerprint) Document() document.Value {
	return f.doc
}

// Timestamp returns the timestamp field when it is a string.
func (f *Fingerprint) Timestamp() (string, bool) {
	v, ok := f.doc.Get(KeyTimestamp)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// Collectors returns the collector map, or an empty map when absent.
func (f *Fingerprint) Collectors() document.Value {
	v, ok := f.doc.Get(KeyCollectors)
	if !ok || v.Kind() != document.KindMap {
		return document.Map(nil)
	}
	return v
}

// Collector returns one collector's recorded value.
func (f *Fingerprint) Collector(name string) (document.Value, bool) {
	return f.Collectors().Get(name)
}

// CollectorNames returns the sorted collector names.
func (f *Fingerprint) CollectorNames() []string {
	return f.Collectors().Keys()
}

// Failed returns the sorted names of collectors recorded as {"error": ...}.
func (f *Fingerprint) Failed() []string {
	var failed []string
	c := f.Collectors()
	for _, name := range c.Keys() {
		v, _ := c.Get(name)
		if v.Kind() == document.KindMap && v.Len() == 1 && v.Has("error") {
			failed = append(failed, name)
		}
	}
	return failed
}

// Redacted returns a new fingerprint with sensitive collector values hashed.
func (f *Fingerprint) Redacted() *Fingerprint {
	return &Fingerprint{doc: redact.Redact(f.doc)}
}

// Hash returns the SHA3-256 hex digest of the canonical document.
func (f *Fingerprint) Hash() string {
	return Hash(f.doc)
}

// Hash returns the SHA3-256 hex digest of the canonical form of doc.
func Hash(doc document.Value) string {
	sum := sha3.Sum256(doc.Canonical())
	return hex.EncodeToString(sum[:])
}

// MarshalJSON implements json.Marshaler.
func (f *Fingerprint) MarshalJSON() ([]byte, error) {
	return f.doc.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Fingerprint) UnmarshalJSON(data []byte) error {
	v, err := document.Parse(data)
	if err != nil {
		return err
	}
	parsed, err := New(v)
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f *Fingerprint) MarshalYAML() (any, error) {
	return f.doc.Any(), nil
}

type createConfig struct {
	runOpts []collector.RunOption
	include []string
	exclude []string
	redact  bool
	now     func() time.Time
}

// Option configures Create.
type Option func(*createConfig)

// WithParallel runs collectors on a bounded worker pool.
func WithParallel(parallel bool) Option {
	return func(c *createConfig) {
		c.runOpts = append(c.runOpts, collector.WithParallel(parallel))
	}
}

// WithMaxWorkers sets the worker pool size.
func WithMaxWorkers(n int) Option {
	return func(c *createConfig) {
		c.runOpts = append(c.runOpts, collector.WithMaxWorkers(n))
	}
}

// WithProgress reports each collector before it runs.
func WithProgress(fn collector.ProgressFunc) Option {
	return func(c *createConfig) {
		c.runOpts = append(c.runOpts, collector.WithProgress(fn))
	}
}

// WithInclude keeps only the named collectors. Applied to the registry in place.
func WithInclude(names ...string) Option {
	return func(c *createConfig) {
		c.include = append(c.include, names...)
	}
}

// WithExclude removes the named collectors. Applied to the registry in place.
func WithExclude(names ...string) Option {
	return func(c *createConfig) {
		c.exclude = append(c.exclude, names...)
	}
}

// WithRedaction hashes sensitive collector values. Default is true.
func WithRedaction(enabled bool) Option {
	return func(c *createConfig) {
		c.redact = enabled
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *createConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Create filters reg, runs every remaining collector and assembles the
// fingerprint. Collector failures are recorded in the document, never returned.
func Create(ctx context.Context, reg *collector.Registry, opts ...Option) (*Fingerprint, error) {
	if reg == nil {
		return nil, fmt.Errorf("collector registry cannot be nil")
	}
	cfg := &createConfig{redact: true, now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.include) > 0 || len(cfg.exclude) > 0 {
		reg.Filter(cfg.include, cfg.exclude)
	}
	if reg.Len() == 0 {
		return nil, fmt.Errorf("no collectors selected")
	}

	at := cfg.now()
	slog.Debug("starting fingerprint collection", slog.Int("collectors", reg.Len()))
	outcomes := reg.RunAll(ctx, cfg.runOpts...)

	fp := Build(outcomes, at)
	if cfg.redact {
		fp = fp.Redacted()
	}

	slog.Info("fingerprint created",
		slog.Int("collectors", len(outcomes)),
		slog.Int("failed", len(fp.Failed())))
	return fp, nil
}
