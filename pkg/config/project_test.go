package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProjectTOMLDefaults(t *testing.T) {
	p := NewProjectTOML()

	assert.Equal(t, DefaultBackendDir, p.Backend.Dir)
	assert.Equal(t, DefaultBackendPort, p.Backend.Port)
	assert.Equal(t, DefaultEntrypoint, p.Backend.Entrypoint)
	assert.Equal(t, DefaultVenvDir, p.Backend.Venv)
	assert.Equal(t, DefaultUploadDir, p.Backend.UploadDir)
	assert.Equal(t, DefaultFrontendDir, p.Frontend.Dir)
	assert.Equal(t, DefaultFrontendPort, p.Frontend.Port)
	assert.Equal(t, DefaultMongoURI, p.Mongo.URI)
	assert.Equal(t, DefaultMongoDatabase, p.Mongo.Database)
	assert.NoError(t, p.Validate())
}

func TestProjectValidate(t *testing.T) {
	p := NewProjectTOML()
	p.Backend.Port = 0
	assert.True(t, errors.Is(p.Validate(), ErrInvalidProject))

	p = NewProjectTOML()
	p.Frontend.Port = p.Backend.Port
	assert.True(t, errors.Is(p.Validate(), ErrInvalidProject))

	p = NewProjectTOML()
	p.Backend.Dir = "/abs/backend"
	assert.True(t, errors.Is(p.Validate(), ErrInvalidProject))
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	p := NewProjectTOML()
	p.Backend.Port = 9000
	p.Mongo.Database = "pv_test"
	p.Env = map[string]string{"EXTRA": "1"}
	require.NoError(t, p.SaveTOMLFile(dir, ProjectTOMLFile))

	loaded, exists, err := LoadTOMLFile(dir, ProjectTOMLFile)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, 9000, loaded.Backend.Port)
	assert.Equal(t, "pv_test", loaded.Mongo.Database)
	assert.Equal(t, "1", loaded.Env["EXTRA"])
}

func TestLoadTOMLFileMissing(t *testing.T) {
	p, exists, err := LoadTOMLFile(t.TempDir(), ProjectTOMLFile)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, p)
}

func TestLoadTOMLFilePartial(t *testing.T) {
	dir := t.TempDir()
	contents := "[backend]\nport = 8080\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectTOMLFile), []byte(contents), 0644))

	p, exists, err := LoadTOMLFile(dir, ProjectTOMLFile)
	require.NoError(t, err)
	require.True(t, exists)
	// unset fields fall back to defaults
	assert.Equal(t, 8080, p.Backend.Port)
	assert.Equal(t, DefaultEntrypoint, p.Backend.Entrypoint)
	assert.Equal(t, DefaultFrontendPort, p.Frontend.Port)
}

func TestLoadTOMLFileInvalid(t *testing.T) {
	dir := t.TempDir()
	contents := "[backend]\nport = 8000\n[frontend]\nport = 8000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectTOMLFile), []byte(contents), 0644))

	_, exists, err := LoadTOMLFile(dir, ProjectTOMLFile)
	assert.True(t, exists)
	assert.Error(t, err)
}

func TestUploadDir(t *testing.T) {
	p := NewProjectTOML()
	assert.Equal(t, filepath.Join("/proj", "backend", "uploads"), p.UploadDir("/proj"))

	p.Backend.UploadDir = "/var/uploads"
	assert.Equal(t, "/var/uploads", p.UploadDir("/proj"))
}
