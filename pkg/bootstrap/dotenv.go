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
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvExampleFile = ".env.example"
	EnvLocalFile   = ".env.local"
)

// PromptFunc resolves a value for an env key the caller does not know.
// It receives the key and the placeholder value from the example file.
type PromptFunc func(key string, value string) (string, error)

// InstantiateDotEnv walks the project, reading any .env.example, replacing
// keys found in substitutions, prompting for the rest, and writing the result
// to .env.local next to it. A key prompted once keeps its answer for every
// later file.
func InstantiateDotEnv(rootDir string, substitutions map[string]string, prompt PromptFunc) error {
	promptedVars := map[string]string{}

	return filepath.WalkDir(rootDir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if filePath == rootDir {
				return nil
			}
			// no .env.example of ours lives under a venv or vendor tree
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "venv" || name == "node_modules" || name == "__pycache__" {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != EnvExampleFile {
			return nil
		}

		envMap, err := godotenv.Read(filePath)
		if err != nil {
			return err
		}

		for key, oldValue := range envMap {
			if value, ok := substitutions[key]; ok {
				envMap[key] = value
			} else if alreadyPrompted, ok := promptedVars[key]; ok {
				envMap[key] = alreadyPrompted
			} else {
				newValue, err := prompt(key, oldValue)
				if err != nil {
					return err
				}
				envMap[key] = newValue
				promptedVars[key] = newValue
			}
		}

		envContents, err := godotenv.Marshal(envMap)
		if err != nil {
			return err
		}

		envLocalPath := path.Join(path.Dir(filePath), EnvLocalFile)
		return os.WriteFile(envLocalPath, []byte(envContents+"\n"), 0600)
	})
}

// KeepExampleValues is the PromptFunc for non-interactive runs: placeholder
// values pass through untouched.
func KeepExampleValues(_ string, value string) (string, error) {
	return value, nil
}
