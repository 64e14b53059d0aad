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
	"maps"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/promptvideo/pvdev/pkg/config"
)

var (
	projectDir   string = "."
	tomlFilename string = config.ProjectTOMLFile

	envFlag = &cli.StringSliceFlag{
		Name:    "env",
		Aliases: []string{"e"},
		Usage:   "KEY=VALUE pairs injected into the backend, highest precedence",
	}

	globalFlags = []cli.Flag{
		&cli.StringFlag{
			Name:        "project-dir",
			Aliases:     []string{"C"},
			Usage:       "Project `DIR` containing " + config.ProjectTOMLFile,
			Value:       ".",
			Destination: &projectDir,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Config `TOML` to use in the project directory",
			Value:       config.ProjectTOMLFile,
			Destination: &tomlFilename,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
		},
	}
)

// loadProject reads the project TOML from --project-dir, falling back to
// defaults when the file is absent (a stock checkout needs no pvdev.toml).
func loadProject() (*config.ProjectTOML, string, error) {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, "", err
	}

	proj, exists, err := config.LoadTOMLFile(dir, tomlFilename)
	if err != nil {
		return nil, "", err
	}
	if !exists || proj == nil {
		proj = config.NewProjectTOML()
	}
	return proj, dir, nil
}

func parseKeyValuePairs(c *cli.Command, flag string) (map[string]string, error) {
	pairs := c.StringSlice(flag)
	if len(pairs) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		m, err := godotenv.Unmarshal(pair)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid key-value pair %q", pair)
		}
		maps.Copy(result, m)
	}
	return result, nil
}
