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


package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/macfp/macfp/pkg/diff"
	"github.com/macfp/macfp/pkg/document"
	"github.com/macfp/macfp/pkg/storage"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format identifies a report rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatHTML, FormatText}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Reporter renders a comparison report.
type Reporter interface {
	Generate(r *diff.Report) error
}

// New returns the reporter for format writing to w.
func New(format Format, w io.Writer) (Reporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONReporter(w), nil
	case FormatHTML:
		return NewHTMLReporter(w), nil
	case FormatText:
		return NewTextReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Export renders r in format and writes it to path with owner-only permissions.
func Export(path string, format Format, r *diff.Report) error {
	var buf bytes.Buffer
	rep, err := New(format, &buf)
	if err != nil {
		return err
	}
	if err := rep.Generate(r); err != nil {
		return err
	}
	return storage.WriteFile(path, buf.Bytes())
}

var titleCaser = cases.Title(language.English)

// severityLabel returns the display label of a severity, e.g. "Critical".
func severityLabel(s diff.Severity) string {
	return titleCaser.String(string(s))
}

// JSONReporter writes the report document as indented JSON.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Generate implements Reporter.
func (j *JSONReporter) Generate(r *diff.Report) error {
	data, err := r.Document().Indent("  ")
	if err != nil {
		return err
	}
	if _, err := j.writer.Write(data); err != nil {
		return err
	}
	_, err = j.writer.Write([]byte("\n"))
	return err
}

//go:embed templates/report.html.tmpl
var htmlTemplate string

var pageTemplate = template.Must(template.New("report.html").Parse(htmlTemplate))

// HTMLReporter writes a static HTML page.
type HTMLReporter struct {
	writer io.Writer
}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter(w io.Writer) *HTMLReporter {
	return &HTMLReporter{writer: w}
}

type pageCount struct {
	Label string
	Count int
}

type pageEntry struct {
	Name          string
	Severity      string
	Type          string
	Data          string
	HasList       bool
	Added         string
	AddedCount    int
	Removed       string
	RemovedCount  int
	Changes       string
	HasScalar     bool
	BaselineValue string
	CurrentValue  string
}

type pageGroup struct {
	Label   string
	Entries []pageEntry
}

type page struct {
	Timestamp string
	Baseline  string
	Current   string
	Total     int
	Counts    []pageCount
	Groups    []pageGroup
}

// Generate implements Reporter.
func (h *HTMLReporter) Generate(r *diff.Report) error {
	p, err := buildPage(r)
	if err != nil {
		return err
	}
	if err := pageTemplate.Execute(h.writer, p); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

func buildPage(r *diff.Report) (*page, error) {
	p := &page{
		Timestamp: r.Timestamp,
		Baseline:  r.BaselineTimestamp,
		Current:   r.CurrentTimestamp,
		Total:     r.Summary.TotalChanges,
	}
	for _, sev := range diff.Severities {
		p.Counts = append(p.Counts, pageCount{Label: severityLabel(sev), Count: r.Summary.Count(sev)})

		names := r.BySeverity(sev)
		if len(names) == 0 {
			continue
		}
		group := pageGroup{Label: severityLabel(sev)}
		for _, name := range names {
			entry, err := buildEntry(name, r.Changes[name])
			if err != nil {
				return nil, err
			}
			group.Entries = append(group.Entries, entry)
		}
		p.Groups = append(p.Groups, group)
	}
	return p, nil
}

func buildEntry(name string, rec diff.Record) (pageEntry, error) {
	e := pageEntry{
		Name:     name,
		Severity: string(rec.Severity),
		Type:     string(rec.Type),
	}

	var err error
	if rec.Type != diff.KindModified {
		e.Data, err = indented(rec.Data)
		return e, err
	}

	switch rec.Shape {
	case diff.ShapeList:
		e.HasList = true
		e.AddedCount = len(rec.Added)
		e.RemovedCount = len(rec.Removed)
		if e.Added, err = indented(document.List(rec.Added...)); err != nil {
			return e, err
		}
		e.Removed, err = indented(document.List(rec.Removed...))
	case diff.ShapeNested:
		nested := make(map[string]document.Value, len(rec.Changes))
		for k, c := range rec.Changes {
			nested[k] = c.Document()
		}
		e.Changes, err = indented(document.Map(nested))
	case diff.ShapeScalar:
		e.HasScalar = true
		if e.BaselineValue, err = indented(rec.Baseline); err != nil {
			return e, err
		}
		e.CurrentValue, err = indented(rec.Current)
	}
	return e, err
}

func indented(v document.Value) (string, error) {
	data, err := v.Indent("  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
