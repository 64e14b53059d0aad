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

package util

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and any missing parents. An existing directory is
// fine; an existing non-directory is an error.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %s", dir)
	}
	return errors.Wrapf(os.MkdirAll(dir, 0o755), "create %s", dir)
}

// DirWritable probes a directory by creating and removing a sentinel file.
func DirWritable(dir string) error {
	probe := filepath.Join(dir, ".pvdev-probe")
	f, err := os.Create(probe)
	if err != nil {
		return errors.Wrapf(err, "directory %s is not writable", dir)
	}
	_ = f.Close()
	return os.Remove(probe)
}
