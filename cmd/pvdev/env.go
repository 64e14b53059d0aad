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
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/promptvideo/pvdev/pkg/config"
	"github.com/promptvideo/pvdev/pkg/util"
)

var EnvCommands = []*cli.Command{
	{
		Name:   "env",
		Usage:  "Print the environment `pvdev run` injects into the backend",
		Action: printEnv,
		Flags: []cli.Flag{
			envFlag,
			&cli.BoolFlag{
				Name:  "write",
				Usage: "Persist the resolved environment to " + config.EnvLocalFile,
			},
		},
	},
}

func printEnv(ctx context.Context, cmd *cli.Command) error {
	proj, dir, err := loadProject()
	if err != nil {
		return err
	}

	overrides, err := parseKeyValuePairs(cmd, "env")
	if err != nil {
		return err
	}
	env, err := proj.ResolveEnv(dir, overrides)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s=%s\n", k, env[k])
	}

	if cmd.Bool("write") {
		if err := config.WriteEnvLocal(dir, env); err != nil {
			return err
		}
		fmt.Printf("Wrote [%s]\n", util.Accented(config.EnvLocalFile))
	}
	return nil
}
