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

package bootstrap

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// MinPythonVersion is the oldest interpreter the backend supports.
const MinPythonVersion = "3.9.0"

const RequirementsFile = "requirements.txt"

// FindPython locates a usable interpreter. A preferred binary (from the CLI
// config) wins over PATH discovery.
func FindPython(preferred string) (string, error) {
	candidates := []string{"python3", "python"}
	if preferred != "" {
		candidates = append([]string{preferred}, candidates...)
	}
	for _, c := range candidates {
		if p, err := exec.LookPath(c); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no python interpreter found in PATH")
}

// PythonVersion runs `bin --version` and parses the result.
func PythonVersion(ctx context.Context, bin string) (*semver.Version, error) {
	out, err := exec.CommandContext(ctx, bin, "--version").CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(err, "running %s --version", bin)
	}
	// "Python 3.11.4"
	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) == 0 {
		return nil, errors.Errorf("%s --version produced no output", bin)
	}
	v, err := semver.NewVersion(fields[len(fields)-1])
	if err != nil {
		return nil, errors.Wrapf(err, "unexpected version output %q", strings.TrimSpace(string(out)))
	}
	return v, nil
}

// CheckPythonVersion enforces MinPythonVersion.
func CheckPythonVersion(v *semver.Version) error {
	min := semver.MustParse(MinPythonVersion)
	if v.LessThan(min) {
		return errors.Errorf("python %s is too old, need %s or newer", v, min)
	}
	return nil
}

// Venv is a project-local virtual environment.
type Venv struct {
	Dir string
}

// ProjectVenv returns the venv rooted in the backend directory.
func ProjectVenv(backendDir, name string) Venv {
	return Venv{Dir: filepath.Join(backendDir, name)}
}

// Exists reports whether the venv has been created. pyvenv.cfg is written by
// `python -m venv` as its last step, so its presence means a complete venv.
func (v Venv) Exists() bool {
	return fileExists(filepath.Join(v.Dir, "pyvenv.cfg"))
}

func (v Venv) binDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts")
	}
	return filepath.Join(v.Dir, "bin")
}

// Python returns the venv interpreter path.
func (v Venv) Python() string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(v.binDir(), name)
}

// Pip returns the venv pip path.
func (v Venv) Pip() string {
	name := "pip"
	if runtime.GOOS == "windows" {
		name = "pip.exe"
	}
	return filepath.Join(v.binDir(), name)
}

// Create builds the venv with the given base interpreter.
func (v Venv) Create(ctx context.Context, pythonBin string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, pythonBin, "-m", "venv", v.Dir)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "creating virtualenv in %s", v.Dir)
	}
	return nil
}

// InstallRequirements installs the pinned dependency set into the venv.
func (v Venv) InstallRequirements(ctx context.Context, requirementsFile string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, v.Pip(), "install", "-r", requirementsFile)
	cmd.Dir = filepath.Dir(requirementsFile)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "installing %s", requirementsFile)
	}
	return nil
}
