package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestInstantiateDotEnv(t *testing.T) {
	dir := t.TempDir()
	example := "FLASK_ENV=production\nMONGO_URI=mongodb://example:27017\nSECRET=changeme\n"
	if err := os.WriteFile(filepath.Join(dir, EnvExampleFile), []byte(example), 0644); err != nil {
		t.Fatal(err)
	}

	var prompted []string
	err := InstantiateDotEnv(dir,
		map[string]string{"FLASK_ENV": "development"},
		func(key, value string) (string, error) {
			prompted = append(prompted, key)
			if key == "SECRET" {
				return "s3cret", nil
			}
			return value, nil
		})
	if err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(filepath.Join(dir, EnvLocalFile))
	if err != nil {
		t.Fatal(err)
	}
	if env["FLASK_ENV"] != "development" {
		t.Errorf("substitution not applied, got %q", env["FLASK_ENV"])
	}
	if env["SECRET"] != "s3cret" {
		t.Errorf("prompt result not applied, got %q", env["SECRET"])
	}
	if env["MONGO_URI"] != "mongodb://example:27017" {
		t.Errorf("passthrough value changed, got %q", env["MONGO_URI"])
	}
	for _, key := range prompted {
		if key == "FLASK_ENV" {
			t.Error("substituted keys must not be prompted")
		}
	}

	info, err := os.Stat(filepath.Join(dir, EnvLocalFile))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf(".env.local permissions = %o, want 0600", perm)
	}
}

func TestInstantiateDotEnvPromptOnce(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		subDir := filepath.Join(dir, sub)
		if err := os.MkdirAll(subDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(subDir, EnvExampleFile), []byte("TOKEN=fill-me\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	err := InstantiateDotEnv(dir, nil, func(key, value string) (string, error) {
		count++
		return "answered", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("TOKEN prompted %d times, want 1", count)
	}

	for _, sub := range []string{"a", "b"} {
		env, err := godotenv.Read(filepath.Join(dir, sub, EnvLocalFile))
		if err != nil {
			t.Fatal(err)
		}
		if env["TOKEN"] != "answered" {
			t.Errorf("%s: TOKEN = %q, want answered", sub, env["TOKEN"])
		}
	}
}

func TestInstantiateDotEnvSkipsVendorDirs(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{
		filepath.Join(".venv", "lib", "site-packages", "somepkg"),
		"node_modules",
		"__pycache__",
	} {
		subDir := filepath.Join(dir, sub)
		if err := os.MkdirAll(subDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(subDir, EnvExampleFile), []byte("VENDORED=1\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, EnvExampleFile), []byte("APP=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	count := 0
	err := InstantiateDotEnv(dir, nil, func(key, value string) (string, error) {
		count++
		return value, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("prompted %d times, want 1 (vendored examples must be skipped)", count)
	}

	if _, err := os.Stat(filepath.Join(dir, EnvLocalFile)); err != nil {
		t.Errorf("project root .env.local missing: %v", err)
	}
	for _, sub := range []string{
		filepath.Join(".venv", "lib", "site-packages", "somepkg"),
		"node_modules",
		"__pycache__",
	} {
		if _, err := os.Stat(filepath.Join(dir, sub, EnvLocalFile)); err == nil {
			t.Errorf("%s: stray .env.local written under a vendor dir", sub)
		}
	}
}

func TestKeepExampleValues(t *testing.T) {
	v, err := KeepExampleValues("ANY", "placeholder")
	if err != nil || v != "placeholder" {
		t.Errorf("KeepExampleValues = %q, %v", v, err)
	}
}

func TestHasTask(t *testing.T) {
	if HasTask(nil, TaskInstall) {
		t.Error("nil taskfile has no tasks")
	}

	dir := t.TempDir()
	taskfile := "version: '3'\ntasks:\n  install:\n    cmds:\n      - echo install\n"
	if err := os.WriteFile(filepath.Join(dir, TaskFile), []byte(taskfile), 0644); err != nil {
		t.Fatal(err)
	}

	tf, err := ParseTaskfile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if tf == nil {
		t.Fatal("taskfile should parse")
	}
	if !HasTask(tf, TaskInstall) {
		t.Error("install task should be found")
	}
	if HasTask(tf, TaskDev) {
		t.Error("dev task should not be found")
	}
}

func TestParseTaskfileAbsent(t *testing.T) {
	tf, err := ParseTaskfile(t.TempDir())
	if err != nil {
		t.Fatalf("absent taskfile is not an error, got %v", err)
	}
	if tf != nil {
		t.Error("absent taskfile should return nil")
	}
}
