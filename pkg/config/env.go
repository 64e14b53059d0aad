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

package config

import (
	"maps"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const EnvLocalFile = ".env.local"

// ResolveEnv computes the environment injected into the backend. Layers, in
// order of increasing precedence: built-in defaults, values derived from
// pvdev.toml, .env.local in the project root, the [env] table, then overrides
// (typically --env flags). The result is exactly what `pvdev run` injects and
// what `pvdev env` prints.
func (p *ProjectTOML) ResolveEnv(projectDir string, overrides map[string]string) (map[string]string, error) {
	env := map[string]string{
		"FLASK_ENV":     "development",
		"MONGO_URI":     DefaultMongoURI,
		"MONGO_DB_NAME": DefaultMongoDatabase,
		"UPLOAD_FOLDER": DefaultUploadDir,
	}

	env["MONGO_URI"] = p.Mongo.URI
	env["MONGO_DB_NAME"] = p.Mongo.Database
	// absolute so the value holds regardless of the backend's working dir
	env["UPLOAD_FOLDER"] = p.UploadDir(projectDir)

	envLocal := filepath.Join(projectDir, EnvLocalFile)
	if _, err := os.Stat(envLocal); err == nil {
		fromFile, err := godotenv.Read(envLocal)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", envLocal)
		}
		maps.Copy(env, fromFile)
	}

	maps.Copy(env, p.Env)
	maps.Copy(env, overrides)

	return env, nil
}

// WriteEnvLocal persists env to .env.local in the project root, readable by
// the owner only since it may hold credentials.
func WriteEnvLocal(projectDir string, env map[string]string) error {
	contents, err := godotenv.Marshal(env)
	if err != nil {
		return err
	}
	envPath := filepath.Join(projectDir, EnvLocalFile)
	return os.WriteFile(envPath, []byte(contents+"\n"), 0600)
}
