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
	"net"
	"strconv"
	"time"

	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/promptvideo/pvdev/pkg/bootstrap"
	"github.com/promptvideo/pvdev/pkg/config"
	"github.com/promptvideo/pvdev/pkg/frontend"
	"github.com/promptvideo/pvdev/pkg/logger"
	"github.com/promptvideo/pvdev/pkg/runner"
	"github.com/promptvideo/pvdev/pkg/util"
)

var RunCommands = []*cli.Command{
	{
		Name:   "run",
		Usage:  "Start the backend and frontend dev servers and wait on both",
		Action: runProject,
		Flags: []cli.Flag{
			envFlag,
			&cli.StringFlag{
				Name:  "only",
				Usage: "Run a single side: `backend` or `frontend`",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the frontend URL in a browser once everything is up",
			},
			&cli.DurationFlag{
				Name:  "ready-timeout",
				Usage: "How long to wait for the backend port",
				Value: runner.DefaultReadyTimeout,
			},
			&cli.DurationFlag{
				Name:  "grace",
				Usage: "Shutdown grace period before SIGKILL",
				Value: runner.DefaultGracePeriod,
			},
		},
	},
}

func runProject(ctx context.Context, cmd *cli.Command) error {
	proj, dir, err := loadProject()
	if err != nil {
		return err
	}

	only := cmd.String("only")
	if only != "" && only != "backend" && only != "frontend" {
		return errors.Errorf("invalid --only value %q", only)
	}

	overrides, err := parseKeyValuePairs(cmd, "env")
	if err != nil {
		return err
	}
	env, err := proj.ResolveEnv(dir, overrides)
	if err != nil {
		return err
	}

	// The backend expects its uploads directory at boot.
	if err := util.EnsureDir(proj.UploadDir(dir)); err != nil {
		return err
	}

	sup := runner.New(logger.GetLogger(),
		runner.WithGracePeriod(cmd.Duration("grace")),
	)
	defer sup.Stop()

	eg, gctx := errgroup.WithContext(ctx)
	runCtx, cancelRun := context.WithCancel(gctx)
	defer cancelRun()

	backendAddr := net.JoinHostPort("localhost", strconv.Itoa(proj.Backend.Port))

	if only != "frontend" {
		if err := startBackend(ctx, runCtx, cmd, eg, sup, proj, dir, env, backendAddr); err != nil {
			return err
		}
		fmt.Printf("%s Backend ready on [%s]\n", util.OKStyle.Render("✓"), util.Accented("http://"+backendAddr))
	}

	frontendURL := "http://" + net.JoinHostPort("localhost", strconv.Itoa(proj.Frontend.Port))
	if only != "backend" {
		if err := startFrontend(ctx, runCtx, eg, sup, proj, dir); err != nil {
			return err
		}
		fmt.Printf("%s Frontend ready on [%s]\n", util.OKStyle.Render("✓"), util.Accented(frontendURL))
	}

	if cmd.Bool("open") && only != "backend" {
		cfg, err := config.LoadOrCreate()
		if err == nil && !cfg.NoBrowser {
			// best effort; fails in headless environments
			_ = browser.OpenURL(frontendURL)
		}
	}

	eg.Go(func() error {
		return sup.Wait(gctx)
	})

	err = eg.Wait()
	if ctx.Err() != nil {
		// interrupted by the user; shutdown already ran
		fmt.Println("\nShutting down")
		return nil
	}
	return err
}

// startBackend launches the Python backend: the taskfile dev task when one is
// defined, the venv interpreter otherwise. Blocks until the backend port
// accepts connections.
func startBackend(
	ctx, runCtx context.Context,
	cmd *cli.Command,
	eg *errgroup.Group,
	sup *runner.Supervisor,
	proj *config.ProjectTOML,
	dir string,
	env map[string]string,
	backendAddr string,
) error {
	readyTimeout := cmd.Duration("ready-timeout")

	tf, err := bootstrap.ParseTaskfile(dir)
	if err != nil {
		return err
	}
	if bootstrap.HasTask(tf, bootstrap.TaskDev) {
		logger.Debugw("delegating backend to taskfile", "task", bootstrap.TaskDev)
		dev, err := bootstrap.NewTask(runCtx, dir, bootstrap.TaskDev, cmd.Bool("verbose"))
		if err != nil {
			return err
		}
		eg.Go(func() error {
			if err := dev(); err != nil && runCtx.Err() == nil {
				return errors.Wrap(err, "backend dev task")
			}
			return nil
		})
		return errors.Wrapf(
			runner.WaitTCP(ctx, backendAddr, readyTimeout),
			"backend did not become ready on %s", backendAddr,
		)
	}

	backendDir := proj.BackendDir(dir)
	venv := bootstrap.ProjectVenv(backendDir, proj.Backend.Venv)
	if !venv.Exists() {
		return errors.Errorf("virtualenv %s missing, run `pvdev setup` first", venv.Dir)
	}

	return sup.Start(ctx, runner.Process{
		Name:         "backend",
		Command:      []string{venv.Python(), proj.Backend.Entrypoint},
		Dir:          backendDir,
		Env:          env,
		ReadyAddr:    backendAddr,
		ReadyTimeout: readyTimeout,
	})
}

// startFrontend serves static files in-process unless the project configures
// an external command.
func startFrontend(
	ctx, runCtx context.Context,
	eg *errgroup.Group,
	sup *runner.Supervisor,
	proj *config.ProjectTOML,
	dir string,
) error {
	if len(proj.Frontend.Command) > 0 {
		return sup.Start(ctx, runner.Process{
			Name:         "frontend",
			Command:      proj.Frontend.Command,
			Dir:          proj.FrontendDir(dir),
			ReadyAddr:    net.JoinHostPort("localhost", strconv.Itoa(proj.Frontend.Port)),
			ReadyTimeout: 15 * time.Second,
		})
	}

	srv, err := frontend.New(logger.GetLogger(), proj.FrontendDir(dir), proj.Frontend.Port)
	if err != nil {
		return err
	}
	eg.Go(func() error {
		return srv.Run(runCtx)
	})
	return errors.Wrap(
		runner.WaitTCP(ctx, srv.Addr(), 15*time.Second),
		"frontend did not become ready",
	)
}
