package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(LoadInput{WorkDir: dir})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "vehicles.metta"), cfg.VehiclesPath())
	assert.Equal(t, filepath.Join(dir, "transactions.metta"), cfg.TransactionsPath())
	assert.Equal(t, filepath.Join(dir, "locations.metta"), cfg.LocationsPath())
	assert.Equal(t, "(= (vehicle-rule", cfg.VehicleMarker)
	assert.True(t, cfg.CreateMissing)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Empty(t, cfg.Sources)
}

func TestLoad_ProjectFileJSONC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFileName, `{
		// data lives next to the app
		"data_dir": "data",
		"vehicles_file": "my_knowledge.metta",
		"create_missing": false, // fail instead of creating
	}`)

	cfg, err := Load(LoadInput{WorkDir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "data", "my_knowledge.metta"), cfg.VehiclesPath())
	assert.False(t, cfg.CreateMissing)
	assert.Equal(t, []string{filepath.Join(dir, ProjectFileName)}, cfg.Sources)
}

func TestLoad_ExplicitYAMLOverridesProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFileName, `{"data_dir": "project", "log_level": "warn"}`)
	explicit := writeFile(t, dir, "atomstore.yaml", `
data_dir: explicit
locations_file: helloworld.metta
schemas_file: schemas/custom.cue
`)

	cfg, err := Load(LoadInput{WorkDir: dir, ConfigPath: "atomstore.yaml"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "explicit"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "explicit", "helloworld.metta"), cfg.LocationsPath())
	assert.Equal(t, filepath.Join(dir, "schemas", "custom.cue"), cfg.SchemasFile)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	assert.Equal(t, []string{filepath.Join(dir, ProjectFileName), explicit}, cfg.Sources)
}

func TestLoad_CLIOverridesWin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectFileName, `{"data_dir": "project", "metrics_file": "a.prom"}`)
	abs := filepath.Join(t.TempDir(), "override")

	cfg, err := Load(LoadInput{
		WorkDir:         dir,
		DataDirOverride: abs,
		LogLevel:        "debug",
		MetricsFile:     "b.prom",
	})
	require.NoError(t, err)

	assert.Equal(t, abs, cfg.DataDir)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, filepath.Join(dir, "b.prom"), cfg.MetricsFile)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"invalid jsonc", "c.json", `{"data_dir": `, ErrConfigInvalid},
		{"unknown json field", "c.json", `{"datadir": "x"}`, ErrConfigInvalid},
		{"unknown yaml field", "c.yml", "datadir: x\n", ErrConfigInvalid},
		{"empty marker", "c.json", `{"vehicle_marker": ""}`, ErrConfigInvalid},
		{"empty file name", "c.yaml", "vehicles_file: \"\"\n", ErrConfigInvalid},
		{"bad log level", "c.json", `{"log_level": "loud"}`, ErrConfigInvalid},
		{"unsupported extension", "c.toml", `data_dir = "x"`, ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := Load(LoadInput{WorkDir: dir, ConfigPath: tt.file})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(LoadInput{WorkDir: t.TempDir(), ConfigPath: "missing.json"})
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_EmptyYAMLIsAllowed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.yaml", "")

	cfg, err := Load(LoadInput{WorkDir: dir, ConfigPath: "empty.yaml"})
	require.NoError(t, err)
	assert.Equal(t, Default().VehiclesFile, cfg.VehiclesFile)
}
