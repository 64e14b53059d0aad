// Copyright 2026 PromptVideo
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

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/promptvideo/pvdev/pkg/config"
)

var ConfigCommands = []*cli.Command{
	{
		Name:  "config",
		Usage: "Inspect or change per-user settings",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the CLI config",
				Action: showConfig,
			},
			{
				Name:      "set-python",
				Usage:     "Record a preferred python interpreter",
				Action:    setPython,
				ArgsUsage: "`PATH`",
			},
		},
	},
}

func showConfig(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func setPython(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("no interpreter path provided")
	}
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	cfg.PythonBin = path
	return cfg.PersistIfNeeded()
}
