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

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/promptvideo/pvdev/pkg/bootstrap"
	"github.com/promptvideo/pvdev/pkg/config"
	"github.com/promptvideo/pvdev/pkg/doctor"
)

var DoctorCommands = []*cli.Command{
	{
		Name:   "doctor",
		Usage:  "Diagnose the development environment",
		Action: runDoctor,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "skip-mongo",
				Usage: "Skip the MongoDB reachability check",
			},
		},
	},
}

func runDoctor(ctx context.Context, cmd *cli.Command) error {
	proj, dir, err := loadProject()
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}

	backendDir := proj.BackendDir(dir)
	venv := bootstrap.ProjectVenv(backendDir, proj.Backend.Venv)

	gitCheck := doctor.CommandCheck("git")
	gitCheck.Optional = true

	checks := []doctor.Check{
		doctor.PythonCheck(cfg.PythonBin),
		gitCheck,
		doctor.VenvCheck(venv),
		doctor.DirWritableCheck("uploads directory writable", proj.UploadDir(dir)),
		doctor.PortFreeCheck("backend", proj.Backend.Port),
		doctor.PortFreeCheck("frontend", proj.Frontend.Port),
	}
	if !cmd.Bool("skip-mongo") {
		checks = append(checks, doctor.MongoCheck(proj.Mongo.URI))
	}

	results := doctor.RunAll(ctx, checks)
	for _, r := range results {
		printResult(r)
	}

	if doctor.Failed(results) {
		return errors.New("environment is not ready, fix the failed checks above")
	}
	return nil
}
