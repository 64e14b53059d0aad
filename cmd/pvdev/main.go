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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	pvdev "github.com/promptvideo/pvdev"
	"github.com/promptvideo/pvdev/pkg/logger"
)

func main() {
	app := &cli.Command{
		Name:                   "pvdev",
		Usage:                  "Development launcher for the prompt-to-video app",
		Description:            "Bootstraps the Python backend, resolves its environment, and runs the backend and static frontend under one supervised process tree.",
		Version:                pvdev.Version,
		EnableShellCompletion:  true,
		Suggest:                true,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		Flags:                  globalFlags,
		Before:                 initLogger,
	}

	app.Commands = append(app.Commands, InitCommands...)
	app.Commands = append(app.Commands, SetupCommands...)
	app.Commands = append(app.Commands, RunCommands...)
	app.Commands = append(app.Commands, EnvCommands...)
	app.Commands = append(app.Commands, DoctorCommands...)
	app.Commands = append(app.Commands, ConfigCommands...)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logger.Init("pvdev", cmd.Bool("verbose"))
	return nil, nil
}
