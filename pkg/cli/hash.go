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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/macfp/macfp/pkg/storage"
)

// hashResult is the --json body of hash.
type hashResult struct {
	Hash      string `json:"hash"`
	Integrity string `json:"integrity"`
}

func hashCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "encrypted",
			Usage: "The file is encrypted",
		},
		jsonFlag(),
	}
	flags = append(flags, passwordFlags()...)

	return &cli.Command{
		Name:      "hash",
		Usage:     "Print the SHA3-256 hash of a saved fingerprint",
		ArgsUsage: "FILE",
		Flags:     flags,
		Action:    runHash,
	}
}

func runHash(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fail(ctx, cmd, "missing argument", fmt.Errorf("fingerprint file is required"))
	}

	encrypted := cmd.Bool("encrypted")
	var (
		password string
		err      error
	)
	if encrypted {
		password, err = resolvePassword(cmd)
	} else {
		password, err = optionalPassword(cmd)
	}
	if err != nil {
		return fail(ctx, cmd, "failed to resolve password", err)
	}

	fp, integrity, err := storage.Load(path,
		storage.WithEncrypted(encrypted),
		storage.WithPassword(password),
	)
	if err != nil {
		slog.Error("failed to load fingerprint", "path", path, "error", err)
		return fail(ctx, cmd, "could not load fingerprint", err)
	}

	h := fp.Hash()
	if cmd.Bool("json") {
		return printJSON(ctx, cmd, hashResult{Hash: h, Integrity: integrity.String()})
	}
	fmt.Fprintf(stdout(cmd), "Hash: %s\n", h)
	return nil
}
