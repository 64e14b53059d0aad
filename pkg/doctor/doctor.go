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

// Package doctor runs environment diagnostics for `pvdev doctor`.
package doctor

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"time"

	"github.com/promptvideo/pvdev/pkg/bootstrap"
	"github.com/promptvideo/pvdev/pkg/util"
)

const defaultCheckTimeout = 5 * time.Second

type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

// Check is a single named probe. Optional checks degrade to a warning on
// failure instead of failing the run.
type Check struct {
	Name     string
	Optional bool
	Timeout  time.Duration
	Run      func(ctx context.Context) (string, error)
}

type Result struct {
	Name   string
	Status Status
	// Detail is a short human-readable outcome, e.g. a resolved path
	Detail string
	Err    error
}

// RunAll executes checks sequentially, each under its own timeout.
func RunAll(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		timeout := c.Timeout
		if timeout == 0 {
			timeout = defaultCheckTimeout
		}
		cctx, cancel := context.WithTimeout(ctx, timeout)
		detail, err := c.Run(cctx)
		cancel()

		r := Result{Name: c.Name, Detail: detail, Err: err}
		switch {
		case err == nil:
			r.Status = StatusOK
		case c.Optional:
			r.Status = StatusWarn
		default:
			r.Status = StatusFail
		}
		results = append(results, r)
	}
	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

func CommandCheck(name string) Check {
	return Check{
		Name: fmt.Sprintf("command %q in PATH", name),
		Run: func(ctx context.Context) (string, error) {
			path, err := exec.LookPath(name)
			if err != nil {
				return "", err
			}
			return path, nil
		},
	}
}

func PythonCheck(preferredBin string) Check {
	return Check{
		Name: "python interpreter",
		Run: func(ctx context.Context) (string, error) {
			bin, err := bootstrap.FindPython(preferredBin)
			if err != nil {
				return "", err
			}
			v, err := bootstrap.PythonVersion(ctx, bin)
			if err != nil {
				return "", err
			}
			if err := bootstrap.CheckPythonVersion(v); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s (%s)", bin, v), nil
		},
	}
}

func VenvCheck(venv bootstrap.Venv) Check {
	return Check{
		Name: "virtualenv",
		Run: func(ctx context.Context) (string, error) {
			if !venv.Exists() {
				return "", fmt.Errorf("%s missing, run `pvdev setup`", venv.Dir)
			}
			return venv.Dir, nil
		},
	}
}

func DirWritableCheck(name, dir string) Check {
	return Check{
		Name: name,
		Run: func(ctx context.Context) (string, error) {
			if err := util.EnsureDir(dir); err != nil {
				return "", err
			}
			if err := util.DirWritable(dir); err != nil {
				return "", err
			}
			return dir, nil
		},
	}
}

// PortFreeCheck verifies nothing is already bound where a dev server wants to
// listen.
func PortFreeCheck(name string, port int) Check {
	return Check{
		Name: fmt.Sprintf("%s port %d free", name, port),
		Run: func(ctx context.Context) (string, error) {
			ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
			if err != nil {
				return "", fmt.Errorf("port %d is in use", port)
			}
			_ = ln.Close()
			return fmt.Sprintf(":%d", port), nil
		},
	}
}
