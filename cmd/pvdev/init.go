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
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/promptvideo/pvdev/pkg/config"
	"github.com/promptvideo/pvdev/pkg/util"
)

var InitCommands = []*cli.Command{
	{
		Name:   "init",
		Usage:  "Write a " + config.ProjectTOMLFile + " for this checkout",
		Action: initProject,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend-dir",
				Usage: "Backend `DIR` relative to the project root",
			},
			&cli.StringFlag{
				Name:  "frontend-dir",
				Usage: "Frontend `DIR` relative to the project root",
			},
			&cli.IntFlag{
				Name:  "backend-port",
				Usage: "Backend `PORT`",
			},
			&cli.IntFlag{
				Name:  "frontend-port",
				Usage: "Frontend `PORT`",
			},
			&cli.StringFlag{
				Name:  "mongo-uri",
				Usage: "MongoDB `URI`",
			},
			&cli.StringFlag{
				Name:  "mongo-db",
				Usage: "MongoDB database `NAME`",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing " + config.ProjectTOMLFile,
			},
		},
	},
}

func initProject(ctx context.Context, cmd *cli.Command) error {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return err
	}

	if _, exists, _ := config.LoadTOMLFile(dir, tomlFilename); exists && !cmd.Bool("force") {
		return errors.Errorf("%s already exists, use --force to overwrite", tomlFilename)
	}

	proj := config.NewProjectTOML()
	if v := cmd.String("backend-dir"); v != "" {
		proj.Backend.Dir = v
	}
	if v := cmd.String("frontend-dir"); v != "" {
		proj.Frontend.Dir = v
	}
	if v := cmd.Int("backend-port"); v != 0 {
		proj.Backend.Port = int(v)
	}
	if v := cmd.Int("frontend-port"); v != 0 {
		proj.Frontend.Port = int(v)
	}
	if v := cmd.String("mongo-uri"); v != "" {
		proj.Mongo.URI = v
	}
	if v := cmd.String("mongo-db"); v != "" {
		proj.Mongo.Database = v
	}

	if util.Interactive() {
		if err := promptProject(ctx, proj); err != nil {
			return err
		}
	}

	if err := proj.Validate(); err != nil {
		return err
	}
	if err := proj.SaveTOMLFile(dir, tomlFilename); err != nil {
		return err
	}
	fmt.Printf("Saved project config to [%s]\n", util.Accented(filepath.Join(dir, tomlFilename)))

	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}
	cfg.RememberProject(dir)
	return cfg.PersistIfNeeded()
}

func promptProject(ctx context.Context, proj *config.ProjectTOML) error {
	backendPort := strconv.Itoa(proj.Backend.Port)
	frontendPort := strconv.Itoa(proj.Frontend.Port)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend directory").
				Value(&proj.Backend.Dir),
			huh.NewInput().
				Title("Frontend directory").
				Value(&proj.Frontend.Dir),
			huh.NewInput().
				Title("Backend port").
				Value(&backendPort).
				Validate(validatePort),
			huh.NewInput().
				Title("Frontend port").
				Value(&frontendPort).
				Validate(validatePort),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("MongoDB URI").
				Value(&proj.Mongo.URI),
			huh.NewInput().
				Title("MongoDB database").
				Value(&proj.Mongo.Database),
		),
	).WithTheme(theme)

	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	proj.Backend.Port, _ = strconv.Atoi(backendPort)
	proj.Frontend.Port, _ = strconv.Atoi(frontendPort)
	return nil
}

func validatePort(s string) error {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return errors.New("enter a port between 1 and 65535")
	}
	return nil
}
