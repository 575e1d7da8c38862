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

	"github.com/urfave/cli/v3"

	"github.com/macfp/macfp/pkg/config"
	"github.com/macfp/macfp/pkg/storage"
)

// createResult is the --json body of a successful create.
type createResult struct {
	Status     string   `json:"status"`
	Output     string   `json:"output"`
	Hash       string   `json:"hash"`
	Encrypted  bool     `json:"encrypted"`
	Collectors []string `json:"collectors"`
	Failed     []string `json:"failed,omitempty"`
}

func createCmd() *cli.Command {
	flags := []cli.Flag{
		outputFlag(config.DefaultOutput, "Fingerprint output file"),
		&cli.BoolFlag{
			Name:  "encrypt",
			Usage: "Encrypt the fingerprint with a password",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write collector metrics to this file in Prometheus text format",
		},
	}
	flags = append(flags, passwordFlags()...)
	flags = append(flags, scanFlags()...)

	return &cli.Command{
		Name:                  "create",
		EnableShellCompletion: true,
		Usage:                 "Capture a fingerprint of this host",
		Description: `Run the selected collectors and save the result.

Sensitive values (IP addresses, SSH known hosts, hosts file entries) are
replaced with SHA3-256 digests unless --no-hash is given. Unencrypted files
carry an HMAC integrity tag; --encrypt writes an AES-256-GCM envelope instead.

# Examples

Create a baseline:
  macfp create -o baseline.json

Encrypt with a password file:
  macfp create -o secure.json --encrypt --password-file ~/.fp-pass

Only run some collectors, in parallel:
  macfp create --collectors SystemInfoCollector,NetworkConfigCollector --parallel`,
		Flags:  flags,
		Action: runCreate,
	}
}

func runCreate(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(cmd)
	scan := resolveScan(cmd, cfg)
	jsonMode := cmd.Bool("json")
	out := stdout(cmd)

	output := cmd.String("output")
	if !cmd.IsSet("output") && cfg.Output != "" {
		output = cfg.Output
	}
	encrypt := cmd.Bool("encrypt")
	if !cmd.IsSet("encrypt") {
		encrypt = cfg.Encrypt
	}

	var (
		password string
		err      error
	)
	if encrypt {
		password, err = resolvePassword(cmd)
	} else {
		password, err = optionalPassword(cmd)
	}
	if err != nil {
		return fail(ctx, cmd, "failed to resolve password", err)
	}

	if !jsonMode {
		fmt.Fprintln(out, "Creating fingerprint...")
	}

	var progress io.Writer = os.Stderr
	if jsonMode {
		progress = nil
	}
	fp, err := capture(ctx, cmd, scan, progress)
	if err != nil {
		return fail(ctx, cmd, "failed to create fingerprint", err)
	}

	if err := storage.Save(output, fp,
		storage.WithEncryption(encrypt),
		storage.WithPassword(password),
	); err != nil {
		slog.Error("failed to save fingerprint", "path", output, "error", err)
		return fail(ctx, cmd, "failed to save fingerprint", err)
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := writeMetrics(path); err != nil {
			slog.Warn("failed to write metrics", "path", path, "error", err)
		}
	}

	hash := fp.Hash()
	if jsonMode {
		return printJSON(ctx, cmd, createResult{
			Status:     "ok",
			Output:     output,
			Hash:       hash,
			Encrypted:  encrypt,
			Collectors: fp.CollectorNames(),
			Failed:     fp.Failed(),
		})
	}

	fmt.Fprintf(out, "Fingerprint saved to: %s\n", output)
	fmt.Fprintf(out, "Hash: %s\n", hash)
	if failed := fp.Failed(); len(failed) > 0 {
		fmt.Fprintf(out, "Failed collectors: %d\n", len(failed))
	}
	return nil
}
