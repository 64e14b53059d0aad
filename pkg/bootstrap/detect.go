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
	"io/fs"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type ProjectType string

const (
	ProjectTypePythonPip ProjectType = "python.pip"
	ProjectTypePythonUV  ProjectType = "python.uv"
	ProjectTypeNode      ProjectType = "node"
	ProjectTypeUnknown   ProjectType = "unknown"
)

func (p ProjectType) IsPython() bool {
	return p == ProjectTypePythonPip || p == ProjectTypePythonUV
}

func (p ProjectType) Lang() string {
	switch {
	case p.IsPython():
		return "Python"
	case p == ProjectTypeNode:
		return "Node.js"
	default:
		return ""
	}
}

// DetectProjectType classifies the backend directory by its manifest files.
func DetectProjectType(dir fs.FS) (ProjectType, error) {
	if fileExistsFS(dir, "package.json") {
		return ProjectTypeNode, nil
	}

	if fileExistsFS(dir, "uv.lock") {
		return ProjectTypePythonUV, nil
	}
	if fileExistsFS(dir, "poetry.lock") || fileExistsFS(dir, "Pipfile.lock") {
		return ProjectTypePythonPip, nil
	}
	if fileExistsFS(dir, RequirementsFile) {
		return ProjectTypePythonPip, nil
	}
	if fileExistsFS(dir, "pyproject.toml") {
		if data, err := fs.ReadFile(dir, "pyproject.toml"); err == nil {
			var doc map[string]any
			if err := toml.Unmarshal(data, &doc); err == nil {
				if tool, ok := doc["tool"].(map[string]any); ok {
					if _, hasUv := tool["uv"]; hasUv {
						return ProjectTypePythonUV, nil
					}
				}
			}
		}
		// pyproject.toml without a uv section still installs with pip
		return ProjectTypePythonPip, nil
	}

	return ProjectTypeUnknown, errors.New("expected package.json, requirements.txt, pyproject.toml, or lock files")
}

func fileExistsFS(dir fs.FS, filename string) bool {
	_, err := fs.Stat(dir, filename)
	return err == nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
