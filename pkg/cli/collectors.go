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
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/macfp/macfp/pkg/collector/command"
)

// collectorInfo describes one collector in list-collectors output.
type collectorInfo struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// collectorList is the --json body of list-collectors.
type collectorList struct {
	Collectors []string        `json:"collectors"`
	Details    []collectorInfo `json:"details"`
}

func listCollectorsCmd() *cli.Command {
	return &cli.Command{
		Name:   "list-collectors",
		Usage:  "List the available collectors",
		Flags:  []cli.Flag{jsonFlag()},
		Action: runListCollectors,
	}
}

func runListCollectors(ctx context.Context, cmd *cli.Command) error {
	reg := newRegistry(command.NewExecutor())

	list := collectorList{Collectors: reg.Names()}
	for _, c := range reg.List() {
		list.Details = append(list.Details, collectorInfo{Name: c.Name(), Category: c.Category().String()})
	}

	if cmd.Bool("json") {
		return printJSON(ctx, cmd, list)
	}

	out := stdout(cmd)
	fmt.Fprintln(out, "Available collectors:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, d := range list.Details {
		fmt.Fprintf(tw, "  %s\t%s\n", d.Name, d.Category)
	}
	return tw.Flush()
}
