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

// Package bootstrap prepares a prompt-to-video checkout for local
// development: interpreter discovery, virtualenv and dependency installs,
// taskfile hand-off, and env file instantiation.
package bootstrap

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path"
	"runtime"
	"strings"

	"github.com/go-task/task/v3"
	"github.com/go-task/task/v3/taskfile/ast"
	"go.yaml.in/yaml/v4"
)

const TaskFile = "taskfile.yaml"

// Well-known task names. When a project ships a taskfile with these tasks,
// they take precedence over the built-in install/run sequences.
const (
	TaskInstall = "install"
	TaskDev     = "dev"
)

// ParseTaskfile reads rootPath/taskfile.yaml. Returns nil with no error when
// the file is absent.
func ParseTaskfile(rootPath string) (*ast.Taskfile, error) {
	file, err := os.ReadFile(path.Join(rootPath, TaskFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tf := &ast.Taskfile{}
	if err := yaml.Unmarshal(file, tf); err != nil {
		return nil, err
	}
	return tf, nil
}

// HasTask reports whether tf defines a task with the given name.
func HasTask(tf *ast.Taskfile, name string) bool {
	if tf == nil || tf.Tasks == nil {
		return false
	}
	_, ok := tf.Tasks.Get(name)
	return ok
}

func newTaskExecutor(dir string, verbose bool) *task.Executor {
	var o io.Writer = io.Discard
	var e io.Writer = os.Stderr
	if verbose {
		o = os.Stdout
	}
	return &task.Executor{
		Dir:    dir,
		Silent: !verbose,
		Color:  true,
		Stdin:  os.Stdin,
		Stdout: o,
		Stderr: e,
	}
}

// NewTask builds a closure that runs taskName from the project taskfile.
func NewTask(ctx context.Context, dir, taskName string, verbose bool) (func() error, error) {
	exe := newTaskExecutor(dir, verbose)
	if err := exe.Setup(); err != nil {
		return nil, err
	}

	return func() error {
		return exe.Run(ctx, &task.Call{
			Task: taskName,
		})
	}, nil
}

// CommandExists determines if cmd is a binary in PATH or a known alias.
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil || commandIsAlias(cmd)
}

func commandIsAlias(cmd string) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	out, err := exec.Command("alias", cmd).Output()
	if err != nil {
		return false
	}
	output := strings.TrimSpace(string(out))
	return strings.HasPrefix(output, cmd+"=")
}
