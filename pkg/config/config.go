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
	"fmt"
	"os"
	"path"
	"slices"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the per-user configuration stored in ~/.pvdev/config.yaml.
type CLIConfig struct {
	// PythonBin overrides interpreter discovery, e.g. /usr/local/bin/python3.12
	PythonBin string `yaml:"python_bin,omitempty"`
	// NoBrowser suppresses opening the frontend URL on `run --open`
	NoBrowser bool `yaml:"no_browser,omitempty"`
	// Projects lists directories previously initialized with `pvdev init`
	Projects []string `yaml:"projects,omitempty"`
	// absent from YAML
	hasPersisted bool
}

// LoadOrCreate loads the config file from ~/.pvdev/config.yaml.
// If it doesn't exist, it returns an empty config.
func LoadOrCreate() (*CLIConfig, error) {
	configPath, err := getConfigLocation()
	if err != nil {
		return nil, err
	}

	c := &CLIConfig{}
	if s, err := os.Stat(configPath); os.IsNotExist(err) {
		return c, nil
	} else if err != nil {
		return nil, err
	} else if s.Mode().Perm()&0077 != 0 {
		fmt.Fprintf(os.Stderr, "WARNING: config file %s should have permissions %o\n", configPath, 0600)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	if err = yaml.Unmarshal(content, c); err != nil {
		return nil, err
	}
	c.hasPersisted = true

	return c, nil
}

// RememberProject records dir in the known project list, keeping the most
// recent entry first.
func (c *CLIConfig) RememberProject(dir string) {
	c.Projects = slices.DeleteFunc(c.Projects, func(p string) bool { return p == dir })
	c.Projects = append([]string{dir}, c.Projects...)
}

func (c *CLIConfig) PersistIfNeeded() error {
	if c.PythonBin == "" && !c.NoBrowser && len(c.Projects) == 0 && !c.hasPersisted {
		// nothing worth writing yet
		return nil
	}

	configPath, err := getConfigLocation()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(path.Dir(configPath), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err = os.WriteFile(configPath, data, 0600); err != nil {
		return err
	}
	c.hasPersisted = true
	return nil
}

func getConfigLocation() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return path.Join(dir, ".pvdev", "config.yaml"), nil
}
