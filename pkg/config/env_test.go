package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvDefaults(t *testing.T) {
	dir := t.TempDir()
	p := NewProjectTOML()

	env, err := p.ResolveEnv(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, "development", env["FLASK_ENV"])
	assert.Equal(t, DefaultMongoURI, env["MONGO_URI"])
	assert.Equal(t, DefaultMongoDatabase, env["MONGO_DB_NAME"])
	assert.Equal(t, filepath.Join(dir, DefaultBackendDir, DefaultUploadDir), env["UPLOAD_FOLDER"])
}

func TestResolveEnvPrecedence(t *testing.T) {
	dir := t.TempDir()

	// .env.local overrides toml-derived values
	envLocal := "MONGO_DB_NAME=from_file\nCUSTOM=file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvLocalFile), []byte(envLocal), 0600))

	p := NewProjectTOML()
	p.Mongo.URI = "mongodb://db.internal:27017"
	p.Env = map[string]string{"CUSTOM": "toml-env", "TABLE_ONLY": "yes"}

	env, err := p.ResolveEnv(dir, map[string]string{"CUSTOM": "override"})
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db.internal:27017", env["MONGO_URI"], "toml beats defaults")
	assert.Equal(t, "from_file", env["MONGO_DB_NAME"], ".env.local beats toml")
	assert.Equal(t, "override", env["CUSTOM"], "overrides beat everything")
	assert.Equal(t, "yes", env["TABLE_ONLY"], "[env] table entries survive")
}

func TestResolveEnvBadEnvLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvLocalFile), []byte(`"unterminated`), 0600))

	p := NewProjectTOML()
	_, err := p.ResolveEnv(dir, nil)
	assert.Error(t, err)
}

func TestWriteEnvLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteEnvLocal(dir, map[string]string{"A": "1", "B": "two words"}))

	path := filepath.Join(dir, EnvLocalFile)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	p := NewProjectTOML()
	env, err := p.ResolveEnv(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", env["A"])
	assert.Equal(t, "two words", env["B"])
}
