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


package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/macfp/macfp/pkg/crypto"
	"github.com/macfp/macfp/pkg/diff"
	"github.com/macfp/macfp/pkg/report"
	"github.com/macfp/macfp/pkg/serializer"
	"github.com/macfp/macfp/pkg/storage"
)

// compareFormats lists the --format values of compare.
func compareFormats() []string {
	formats := make([]string, 0, len(report.Formats)+2)
	for _, f := range report.Formats {
		formats = append(formats, string(f))
	}
	return append(formats, string(serializer.FormatYAML), string(serializer.FormatTable))
}

// exportFunc writes r to path. Report formats go through report.Export,
// the rest through the serializer.
type exportFunc func(ctx context.Context, path string, r *diff.Report) error

// parseExportFormat resolves --format for compare.
func parseExportFormat(value string) (exportFunc, error) {
	if f, err := report.ParseFormat(value); err == nil {
		return func(_ context.Context, path string, r *diff.Report) error {
			return report.Export(path, f, r)
		}, nil
	}

	sf := serializer.Format(strings.ToLower(strings.TrimSpace(value)))
	if sf.IsUnknown() {
		return nil, fmt.Errorf("unknown output format: %q, supported values: %s",
			value, strings.Join(compareFormats(), ", "))
	}
	return func(ctx context.Context, path string, r *diff.Report) error {
		w, err := serializer.NewFileWriter(sf, path)
		if err != nil {
			return err
		}
		if err := w.Serialize(ctx, r); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	}, nil
}

func compareCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "baseline",
			Aliases:  []string{"b"},
			Usage:    "Baseline fingerprint file",
			Required: true,
		},
		outputFlag("", "Export the comparison report to this file"),
		formatFlag(string(report.FormatJSON), compareFormats()),
		&cli.BoolFlag{
			Name:  "encrypted",
			Usage: "The baseline is encrypted",
		},
		&cli.StringSliceFlag{
			Name:  "ignore-collectors",
			Usage: "Ignore changes in these collectors (comma-separated, * wildcards allowed)",
		},
	}
	flags = append(flags, passwordFlags()...)
	flags = append(flags, scanFlags()...)

	return &cli.Command{
		Name:                  "compare",
		EnableShellCompletion: true,
		Usage:                 "Compare this host against a baseline fingerprint",
		Description: `Load a baseline, capture a fresh fingerprint with the same collector
options and report every changed collector with its severity.

Severity follows the collector: security posture changes are critical,
persistence, kernel, account and network changes are high, anything removed
is medium and the rest is low.

# Examples

Compare against a baseline:
  macfp compare -b baseline.json

Export an HTML report:
  macfp compare -b baseline.json -o report.html --format html

Ignore noisy collectors:
  macfp compare -b baseline.json --ignore-collectors OpenPortsCollector,NetworkConnectionsCollector`,
		Flags:  flags,
		Action: runCompare,
	}
}

func runCompare(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	scan := resolveScan(cmd, cfg)
	jsonMode := cmd.Bool("json")
	out := stdout(cmd)

	export, err := parseExportFormat(cmd.String("format"))
	if err != nil {
		return fail(ctx, cmd, "invalid format", err)
	}

	encrypted := cmd.Bool("encrypted")
	var password string
	if encrypted {
		password, err = resolvePassword(cmd)
	} else {
		password, err = optionalPassword(cmd)
	}
	if err != nil {
		return fail(ctx, cmd, "failed to resolve password", err)
	}

	if !jsonMode {
		fmt.Fprintln(out, "Loading baseline fingerprint...")
	}
	path := cmd.String("baseline")
	baseline, integrity, err := storage.Load(path,
		storage.WithEncrypted(encrypted),
		storage.WithPassword(password),
	)
	if err != nil {
		slog.Error("failed to load baseline", "path", path, "error", err)
		return fail(ctx, cmd, "could not load baseline", err)
	}
	if integrity == crypto.IntegrityMismatch && !jsonMode {
		fmt.Fprintln(out, "Warning: baseline integrity check failed, the file may have been modified")
	}

	if !jsonMode {
		fmt.Fprintln(out, "Creating current fingerprint...")
	}
	var progress io.Writer = os.Stderr
	if jsonMode {
		progress = nil
	}
	current, err := capture(ctx, cmd, scan, progress)
	if err != nil {
		return fail(ctx, cmd, "failed to create fingerprint", err)
	}

	ignore := splitNames(cmd.StringSlice("ignore-collectors"))
	if !cmd.IsSet("ignore-collectors") {
		ignore = cfg.IgnoreCollectors
	}

	if !jsonMode {
		fmt.Fprintln(out, "Comparing fingerprints...")
	}
	result := diff.Compare(baseline, current, diff.WithIgnore(ignore...))

	var summary report.Reporter = report.NewTextReporter(out)
	if jsonMode {
		summary = report.NewJSONReporter(out)
	}
	if err := summary.Generate(result); err != nil {
		return fail(ctx, cmd, "failed to render comparison", err)
	}

	if dest := cmd.String("output"); dest != "" {
		if err := export(ctx, dest, result); err != nil {
			slog.Error("failed to export comparison", "path", dest, "error", err)
			return fail(ctx, cmd, "failed to export comparison", err)
		}
		if !jsonMode {
			fmt.Fprintf(out, "\nComparison exported to: %s\n", dest)
		}
	}
	return nil
}
