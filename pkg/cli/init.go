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

	"github.com/urfave/cli/v3"

	"github.com/macfp/macfp/pkg/config"
)

// initResult is the --json body of init.
type initResult struct {
	ConfigPath string `json:"config_path"`
	Created    bool   `json:"created"`
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a default config file",
		Description: `Write a commented default configuration to --config, or to
~/.macos-fingerprint/config.toml. An existing file is left untouched.`,
		Flags:  []cli.Flag{jsonFlag()},
		Action: runInit,
	}
}

func runInit(ctx context.Context, cmd *cli.Command) error {
	path, created, err := config.InitFile(cmd.String("config"))
	if err != nil {
		return fail(ctx, cmd, "failed to create config", err)
	}

	if cmd.Bool("json") {
		return printJSON(ctx, cmd, initResult{ConfigPath: path, Created: created})
	}
	if created {
		fmt.Fprintf(stdout(cmd), "Config file created: %s\n", path)
	} else {
		fmt.Fprintf(stdout(cmd), "Config file: %s\n", path)
	}
	return nil
}
