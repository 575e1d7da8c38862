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
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/macfp/macfp/pkg/diff"
)

// Severity colors
var (
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF8800")
	colorMedium   = lipgloss.Color("#FFFF00")
	colorLow      = lipgloss.Color("#00FF00")
	colorMuted    = lipgloss.Color("#888888")
	colorBorder   = lipgloss.Color("#444444")
)

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
)

// severityStyle returns the lipgloss style for a severity level.
func severityStyle(s diff.Severity) lipgloss.Style {
	switch s {
	case diff.SeverityCritical:
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case diff.SeverityHigh:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case diff.SeverityMedium:
		return lipgloss.NewStyle().Foreground(colorMedium)
	case diff.SeverityLow:
		return lipgloss.NewStyle().Foreground(colorLow)
	default:
		return lipgloss.NewStyle()
	}
}

// TextReporter writes a human-readable terminal summary.
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{writer: w}
}

// Generate implements Reporter.
func (t *TextReporter) Generate(r *diff.Report) error {
	var b strings.Builder

	b.WriteString(styleHeader.Render("Fingerprint Comparison"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Baseline: %s\n", r.BaselineTimestamp)
	fmt.Fprintf(&b, "Current:  %s\n", r.CurrentTimestamp)
	fmt.Fprintf(&b, "Total Changes: %d\n", r.Summary.TotalChanges)

	for _, sev := range diff.Severities {
		label := fmt.Sprintf("%-9s", severityLabel(sev)+":")
		fmt.Fprintf(&b, "  %s %d\n", severityStyle(sev).Render(label), r.Summary.Count(sev))
	}

	if !r.HasChanges() {
		b.WriteString("\n")
		b.WriteString(styleMuted.Render("No changes detected."))
		b.WriteString("\n")
		_, err := io.WriteString(t.writer, b.String())
		return err
	}

	for _, sev := range diff.Severities {
		names := r.BySeverity(sev)
		if len(names) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(severityStyle(sev).Render(strings.ToUpper(string(sev))))
		b.WriteString("\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s %s\n", name, styleMuted.Render(describe(r.Changes[name])))
		}
	}

	_, err := io.WriteString(t.writer, b.String())
	return err
}

// describe returns a one-line description of a record.
func describe(rec diff.Record) string {
	switch rec.Type {
	case diff.KindCollectorAdded:
		return "(collector added)"
	case diff.KindCollectorRemoved:
		return "(collector removed)"
	}
	switch rec.Shape {
	case diff.ShapeList:
		return fmt.Sprintf("(+%d -%d)", len(rec.Added), len(rec.Removed))
	case diff.ShapeNested:
		return fmt.Sprintf("(%d %s changed)", len(rec.Changes), plural(len(rec.Changes), "field", "fields"))
	default:
		return "(value changed)"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
