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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	ProjectTOMLFile = "pvdev.toml"

	DefaultBackendDir    = "backend"
	DefaultFrontendDir   = "frontend"
	DefaultBackendPort   = 8000
	DefaultFrontendPort  = 5500
	DefaultEntrypoint    = "app.py"
	DefaultVenvDir       = ".venv"
	DefaultUploadDir     = "uploads"
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "prompt_video_app"
)

var ErrInvalidProject = errors.New("invalid project configuration")

// ProjectTOML is the per-project configuration file, pvdev.toml.
type ProjectTOML struct {
	Backend  *BackendConfig    `toml:"backend"`
	Frontend *FrontendConfig   `toml:"frontend"`
	Mongo    *MongoConfig      `toml:"mongo"`
	Env      map[string]string `toml:"env,omitempty"`
}

type BackendConfig struct {
	Dir        string `toml:"dir"`
	Port       int    `toml:"port"`
	Entrypoint string `toml:"entrypoint"`
	Venv       string `toml:"venv"`
	// UploadDir is relative to Dir unless absolute
	UploadDir string `toml:"upload_dir,omitempty"`
}

type FrontendConfig struct {
	Dir  string `toml:"dir"`
	Port int    `toml:"port"`
	// Command, when set, replaces the built-in static server
	Command []string `toml:"command,omitempty"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// NewProjectTOML returns a project config populated with the stock layout of
// the prompt-to-video app.
func NewProjectTOML() *ProjectTOML {
	p := &ProjectTOML{}
	p.applyDefaults()
	return p
}

func (p *ProjectTOML) applyDefaults() {
	if p.Backend == nil {
		p.Backend = &BackendConfig{}
	}
	if p.Backend.Dir == "" {
		p.Backend.Dir = DefaultBackendDir
	}
	if p.Backend.Port == 0 {
		p.Backend.Port = DefaultBackendPort
	}
	if p.Backend.Entrypoint == "" {
		p.Backend.Entrypoint = DefaultEntrypoint
	}
	if p.Backend.Venv == "" {
		p.Backend.Venv = DefaultVenvDir
	}
	if p.Backend.UploadDir == "" {
		p.Backend.UploadDir = DefaultUploadDir
	}
	if p.Frontend == nil {
		p.Frontend = &FrontendConfig{}
	}
	if p.Frontend.Dir == "" {
		p.Frontend.Dir = DefaultFrontendDir
	}
	if p.Frontend.Port == 0 {
		p.Frontend.Port = DefaultFrontendPort
	}
	if p.Mongo == nil {
		p.Mongo = &MongoConfig{}
	}
	if p.Mongo.URI == "" {
		p.Mongo.URI = DefaultMongoURI
	}
	if p.Mongo.Database == "" {
		p.Mongo.Database = DefaultMongoDatabase
	}
}

func (p *ProjectTOML) Validate() error {
	if err := validPort(p.Backend.Port); err != nil {
		return errors.Wrapf(ErrInvalidProject, "backend port: %v", err)
	}
	if err := validPort(p.Frontend.Port); err != nil {
		return errors.Wrapf(ErrInvalidProject, "frontend port: %v", err)
	}
	if p.Backend.Port == p.Frontend.Port {
		return errors.Wrapf(ErrInvalidProject, "backend and frontend cannot share port %d", p.Backend.Port)
	}
	if filepath.IsAbs(p.Backend.Dir) || filepath.IsAbs(p.Frontend.Dir) {
		return errors.Wrap(ErrInvalidProject, "backend and frontend dirs must be relative to the project root")
	}
	return nil
}

func validPort(port int) error {
	if port < 1 || port > 65535 {
		return errors.Errorf("%d out of range", port)
	}
	return nil
}

// BackendDir returns the backend directory resolved against the project root.
func (p *ProjectTOML) BackendDir(projectDir string) string {
	return filepath.Join(projectDir, p.Backend.Dir)
}

func (p *ProjectTOML) FrontendDir(projectDir string) string {
	return filepath.Join(projectDir, p.Frontend.Dir)
}

// UploadDir returns the absolute uploads directory the backend expects at boot.
func (p *ProjectTOML) UploadDir(projectDir string) string {
	if filepath.IsAbs(p.Backend.UploadDir) {
		return p.Backend.UploadDir
	}
	return filepath.Join(p.BackendDir(projectDir), p.Backend.UploadDir)
}

func (p *ProjectTOML) SaveTOMLFile(dir string, tomlFileName string) error {
	f, err := os.Create(filepath.Join(dir, tomlFileName))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(p); err != nil {
		return errors.Wrap(err, "encoding TOML")
	}
	return nil
}

// LoadTOMLFile reads dir/tomlFileName. The second return reports whether the
// file exists, independent of whether it parsed.
func LoadTOMLFile(dir string, tomlFileName string) (*ProjectTOML, bool, error) {
	tomlFile := filepath.Join(dir, tomlFileName)

	if _, err := os.Stat(tomlFile); err != nil {
		return nil, !errors.Is(err, fs.ErrNotExist), nil
	}

	p := &ProjectTOML{}
	if _, err := toml.DecodeFile(tomlFile, p); err != nil {
		return nil, true, errors.Wrapf(err, "parsing %s", tomlFile)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, true, err
	}
	return p, true, nil
}
