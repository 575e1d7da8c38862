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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/macfp/macfp/pkg/collector"
	"github.com/macfp/macfp/pkg/collector/command"
	"github.com/macfp/macfp/pkg/collector/macos"
	"github.com/macfp/macfp/pkg/config"
	"github.com/macfp/macfp/pkg/defaults"
	"github.com/macfp/macfp/pkg/errors"
	"github.com/macfp/macfp/pkg/fingerprint"
	"github.com/macfp/macfp/pkg/serializer"
	"github.com/macfp/macfp/pkg/storage"
)

// newRegistry builds the collector registry for a run.
var newRegistry = func(runner command.Runner) *collector.Registry {
	return macos.NewRegistry(macos.WithRunner(runner))
}

var (
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	readPassword = func() (string, error) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		return string(b), err
	}
)

func outputFlag(value, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   value,
		Usage:   usage,
	}
}

func formatFlag(value string, supported []string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   value,
		Usage:   fmt.Sprintf("Output format (supported: %s)", strings.Join(supported, ", ")),
	}
}

func jsonFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print machine-readable JSON instead of human-readable text",
	}
}

func passwordFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "password",
			Usage: "Password for encryption and integrity tags (prefer --password-file)",
		},
		&cli.StringFlag{
			Name:  "password-file",
			Usage: "Read the password from a file",
		},
	}
}

// scanFlags are shared by every command that captures a fingerprint.
func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-hash",
			Usage: "Do not hash sensitive fields",
		},
		&cli.StringSliceFlag{
			Name:  "collectors",
			Usage: "Only run these collectors (comma-separated, * wildcards allowed)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Skip these collectors (comma-separated, * wildcards allowed)",
		},
		&cli.BoolFlag{
			Name:  "parallel",
			Usage: "Run collectors in parallel",
		},
		&cli.IntFlag{
			Name:  "max-workers",
			Value: defaults.MaxWorkers,
			Usage: "Maximum concurrent collectors in parallel mode",
		},
		&cli.DurationFlag{
			Name:  "command-timeout",
			Value: defaults.CommandTimeout,
			Usage: "Timeout for each external command",
		},
		&cli.FloatFlag{
			Name:  "command-rate",
			Usage: "Maximum external commands started per second (0 disables the limit)",
		},
		jsonFlag(),
	}
}

// splitNames flattens comma-separated flag values into trimmed names.
func splitNames(values []string) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				names = append(names, p)
			}
		}
	}
	return names
}

// loadConfig reads the file named by --config, or the default location.
// Decoding failures fall back to the built-in defaults.
func loadConfig(cmd *cli.Command) *config.Config {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		return config.Default()
	}
	return cfg
}

// scanSettings are the collection options after merging flags and config.
type scanSettings struct {
	redact     bool
	parallel   bool
	maxWorkers int
	include    []string
	exclude    []string
}

// resolveScan merges scan flags with cfg. Config values apply only to flags
// that were not set.
func resolveScan(cmd *cli.Command, cfg *config.Config) scanSettings {
	s := scanSettings{
		redact:     !cmd.Bool("no-hash"),
		parallel:   cmd.Bool("parallel"),
		maxWorkers: cmd.Int("max-workers"),
		include:    splitNames(cmd.StringSlice("collectors")),
		exclude:    splitNames(cmd.StringSlice("exclude")),
	}
	if !cmd.IsSet("no-hash") {
		s.redact = cfg.HashSensitive
	}
	if !cmd.IsSet("parallel") {
		s.parallel = cfg.Parallel
	}
	if !cmd.IsSet("max-workers") {
		s.maxWorkers = cfg.MaxWorkers
	}
	if !cmd.IsSet("collectors") {
		s.include = cfg.Collectors
	}
	if !cmd.IsSet("exclude") {
		s.exclude = cfg.Exclude
	}
	return s
}

func (s scanSettings) options(progress collector.ProgressFunc) []fingerprint.Option {
	opts := []fingerprint.Option{
		fingerprint.WithRedaction(s.redact),
		fingerprint.WithParallel(s.parallel),
		fingerprint.WithMaxWorkers(s.maxWorkers),
		fingerprint.WithInclude(s.include...),
		fingerprint.WithExclude(s.exclude...),
	}
	if progress != nil {
		opts = append(opts, fingerprint.WithProgress(progress))
	}
	return opts
}

// runnerFromCmd builds the command executor from the scan flags.
func runnerFromCmd(cmd *cli.Command) command.Runner {
	rate := cmd.Float("command-rate")
	burst := 1
	if rate > 1 {
		burst = int(rate)
	}
	return command.NewExecutor(
		command.WithTimeout(cmd.Duration("command-timeout")),
		command.WithRateLimit(rate, burst),
	)
}

// capture runs the registry with the merged scan settings.
func capture(ctx context.Context, cmd *cli.Command, s scanSettings, progress io.Writer) (*fingerprint.Fingerprint, error) {
	var fn collector.ProgressFunc
	if progress != nil {
		fn = func(name string, index, total int) {
			fmt.Fprintf(progress, "  [%d/%d] %s\n", index+1, total, name)
		}
	}

	start := time.Now()
	fp, err := fingerprint.Create(ctx, newRegistry(runnerFromCmd(cmd)), s.options(fn)...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to create fingerprint", err)
	}
	slog.Debug("fingerprint captured", "duration", time.Since(start).String())
	return fp, nil
}

// resolvePassword returns the password from --password, --password-file or
// an interactive prompt, in that order.
func resolvePassword(cmd *cli.Command) (string, error) {
	password, err := optionalPassword(cmd)
	if err != nil || password != "" {
		return password, err
	}

	if !stdinIsTerminal() {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			"--password or --password-file is required in non-interactive mode")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err = readPassword()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read password", err)
	}
	if password == "" {
		return "", errors.New(errors.ErrCodeInvalidRequest, "password cannot be empty")
	}
	return password, nil
}

// optionalPassword returns the password from flags without prompting.
func optionalPassword(cmd *cli.Command) (string, error) {
	if p := cmd.String("password"); p != "" {
		return p, nil
	}
	path := cmd.String("password-file")
	if path == "" {
		return "", nil
	}
	data, err := storage.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "cannot read password file", err)
	}
	p := strings.TrimSpace(string(data))
	if p == "" {
		return "", errors.New(errors.ErrCodeInvalidRequest, "password file is empty")
	}
	return p, nil
}

// stdout returns the writer for command results.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// printJSON writes v as indented JSON to the command output.
func printJSON(ctx context.Context, cmd *cli.Command, v any) error {
	return serializer.NewWriter(serializer.FormatJSON, stdout(cmd)).Serialize(ctx, v)
}

// jsonError is the --json body written when a command fails.
type jsonError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// fail reports err as JSON in --json mode and returns it for the exit status.
func fail(ctx context.Context, cmd *cli.Command, message string, err error) error {
	wrapped := fmt.Errorf("%s: %w", message, err)
	if cmd.Bool("json") {
		if perr := printJSON(ctx, cmd, jsonError{Status: "error", Message: wrapped.Error()}); perr != nil {
			slog.Warn("failed to write error response", "error", perr)
		}
	}
	return wrapped
}

// writeMetrics exports the collector metrics in node_exporter textfile format.
func writeMetrics(path string) error {
	clean, err := storage.SanitizePath(path)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(clean, prometheus.DefaultGatherer); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write metrics", err)
	}
	slog.Debug("metrics written", "path", clean)
	return nil
}
