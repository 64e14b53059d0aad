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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"github.com/promptvideo/pvdev/pkg/bootstrap"
	"github.com/promptvideo/pvdev/pkg/config"
	"github.com/promptvideo/pvdev/pkg/logger"
	"github.com/promptvideo/pvdev/pkg/util"
)

var SetupCommands = []*cli.Command{
	{
		Name:   "setup",
		Usage:  "Create the virtualenv, install dependencies, and prepare the checkout",
		Action: setupProject,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reinstall",
				Usage: "Reinstall dependencies even if the virtualenv exists",
			},
		},
	},
}

func setupProject(ctx context.Context, cmd *cli.Command) error {
	proj, dir, err := loadProject()
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		return err
	}

	backendDir := proj.BackendDir(dir)
	if !util.PathExists(backendDir) {
		return errors.Errorf("backend dir %s not found, is this a prompt-to-video checkout?", backendDir)
	}

	// A project taskfile owns installation when it defines an install task.
	tf, err := bootstrap.ParseTaskfile(dir)
	if err != nil {
		return err
	}
	if bootstrap.HasTask(tf, bootstrap.TaskInstall) {
		logger.Debugw("delegating install to taskfile", "task", bootstrap.TaskInstall)
		install, err := bootstrap.NewTask(ctx, dir, bootstrap.TaskInstall, cmd.Bool("verbose"))
		if err != nil {
			return err
		}
		if err := util.Await("Running install task", ctx, func(_ context.Context) error {
			return install()
		}); err != nil {
			return err
		}
	} else {
		if err := installPython(ctx, cmd, cfg, proj, backendDir); err != nil {
			return err
		}
	}

	uploadDir := proj.UploadDir(dir)
	if err := util.EnsureDir(uploadDir); err != nil {
		return err
	}
	logger.Debugw("uploads directory ready", "dir", uploadDir)

	if err := instantiateEnvFiles(dir); err != nil {
		return err
	}

	fmt.Printf("%s Setup complete. Run [%s] to start the dev servers.\n",
		util.OKStyle.Render("✓"), util.Accented("pvdev run"))
	return nil
}

func installPython(ctx context.Context, cmd *cli.Command, cfg *config.CLIConfig, proj *config.ProjectTOML, backendDir string) error {
	ptype, err := bootstrap.DetectProjectType(os.DirFS(backendDir))
	if err != nil {
		return errors.Wrap(err, "detecting backend project type")
	}
	if !ptype.IsPython() {
		return errors.Errorf("backend is %s, only Python backends are supported without a taskfile", ptype.Lang())
	}

	pythonBin, err := bootstrap.FindPython(cfg.PythonBin)
	if err != nil {
		return err
	}
	version, err := bootstrap.PythonVersion(ctx, pythonBin)
	if err != nil {
		return err
	}
	if err := bootstrap.CheckPythonVersion(version); err != nil {
		return err
	}
	logger.Debugw("using python", "bin", pythonBin, "version", version.String())

	venv := bootstrap.ProjectVenv(backendDir, proj.Backend.Venv)

	// Installer output is buffered and only shown on failure or --verbose.
	var out bytes.Buffer
	var w io.Writer = &out
	if cmd.Bool("verbose") {
		w = io.MultiWriter(&out, os.Stderr)
	}

	if !venv.Exists() {
		err = util.Await("Creating virtualenv", ctx, func(ctx context.Context) error {
			return venv.Create(ctx, pythonBin, w)
		})
		if err != nil {
			fmt.Fprint(os.Stderr, out.String())
			return err
		}
	} else if !cmd.Bool("reinstall") {
		fmt.Printf("Virtualenv [%s] already exists, skipping install (--reinstall to force)\n", util.Dimmed(venv.Dir))
		return nil
	}

	reqFile := filepath.Join(backendDir, bootstrap.RequirementsFile)
	if !util.PathExists(reqFile) {
		logger.Warnw("no requirements file found, skipping install", nil, "path", reqFile)
		return nil
	}

	err = util.Await("Installing dependencies", ctx, func(ctx context.Context) error {
		return venv.InstallRequirements(ctx, reqFile, w)
	})
	if err != nil {
		fmt.Fprint(os.Stderr, out.String())
		return err
	}
	return nil
}

// instantiateEnvFiles turns .env.example files into .env.local, prompting for
// unknown values when attached to a terminal and keeping placeholders
// otherwise.
func instantiateEnvFiles(dir string) error {
	substitutions := map[string]string{
		"FLASK_ENV": "development",
	}

	prompt := bootstrap.KeepExampleValues
	if util.Interactive() {
		prompt = func(key, value string) (string, error) {
			answer := value
			err := huh.NewInput().
				Title(key).
				Description("Value for " + key + " (from " + bootstrap.EnvExampleFile + ")").
				Value(&answer).
				WithTheme(theme).
				Run()
			return answer, err
		}
	}

	return errors.Wrap(bootstrap.InstantiateDotEnv(dir, substitutions, prompt), "instantiating env files")
}
