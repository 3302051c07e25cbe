// Package config loads atomstore configuration from defaults, an optional
// project file, an explicit file, and CLI overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// ProjectFileName is the config file picked up from the working directory.
const ProjectFileName = ".atomstore.json"

var (
	ErrConfigInvalid      = errors.New("invalid config")
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
)

// Config holds all configuration options.
type Config struct {
	DataDir          string `json:"data_dir" yaml:"data_dir"`
	VehiclesFile     string `json:"vehicles_file" yaml:"vehicles_file"`
	TransactionsFile string `json:"transactions_file" yaml:"transactions_file"`
	LocationsFile    string `json:"locations_file" yaml:"locations_file"`
	VehicleMarker    string `json:"vehicle_marker" yaml:"vehicle_marker"`
	CreateMissing    bool   `json:"create_missing" yaml:"create_missing"`
	SchemasFile      string `json:"schemas_file,omitempty" yaml:"schemas_file,omitempty"`
	MetricsFile      string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
	LogLevel         string `json:"log_level" yaml:"log_level"`

	// Sources lists the config files that were loaded, lowest precedence first.
	Sources []string `json:"-" yaml:"-"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:          ".",
		VehiclesFile:     "vehicles.metta",
		TransactionsFile: "transactions.metta",
		LocationsFile:    "locations.metta",
		VehicleMarker:    "(= (vehicle-rule",
		CreateMissing:    true,
		LogLevel:         "info",
	}
}

// fileConfig is the on-disk form. Pointers distinguish "unset" from zero.
type fileConfig struct {
	DataDir          *string `json:"data_dir" yaml:"data_dir"`
	VehiclesFile     *string `json:"vehicles_file" yaml:"vehicles_file"`
	TransactionsFile *string `json:"transactions_file" yaml:"transactions_file"`
	LocationsFile    *string `json:"locations_file" yaml:"locations_file"`
	VehicleMarker    *string `json:"vehicle_marker" yaml:"vehicle_marker"`
	CreateMissing    *bool   `json:"create_missing" yaml:"create_missing"`
	SchemasFile      *string `json:"schemas_file" yaml:"schemas_file"`
	MetricsFile      *string `json:"metrics_file" yaml:"metrics_file"`
	LogLevel         *string `json:"log_level" yaml:"log_level"`
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir         string // if empty, os.Getwd() is used
	ConfigPath      string // --config flag value
	DataDirOverride string // --data-dir flag value
	LogLevel        string // set by --verbose; empty means no override
	MetricsFile     string // --metrics-file flag value
}

// Load loads configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Project config file (.atomstore.json in the working dir, if it exists)
//  3. Explicit config file via ConfigPath (must exist)
//  4. CLI overrides
//
// DataDir in the returned Config is absolute. SchemasFile and MetricsFile
// are resolved against the working dir.
func Load(in LoadInput) (Config, error) {
	workDir := in.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	projectPath := filepath.Join(workDir, ProjectFileName)
	if fc, ok, err := loadFile(projectPath, false); err != nil {
		return Config{}, err
	} else if ok {
		cfg = merge(cfg, fc)
		cfg.Sources = append(cfg.Sources, projectPath)
	}

	if in.ConfigPath != "" {
		path := in.ConfigPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		fc, _, err := loadFile(path, true)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fc)
		cfg.Sources = append(cfg.Sources, path)
	}

	if in.DataDirOverride != "" {
		cfg.DataDir = in.DataDirOverride
	}
	if in.LogLevel != "" {
		cfg.LogLevel = in.LogLevel
	}
	if in.MetricsFile != "" {
		cfg.MetricsFile = in.MetricsFile
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	cfg.DataDir = absFrom(workDir, cfg.DataDir)
	if cfg.SchemasFile != "" {
		cfg.SchemasFile = absFrom(workDir, cfg.SchemasFile)
	}
	if cfg.MetricsFile != "" {
		cfg.MetricsFile = absFrom(workDir, cfg.MetricsFile)
	}

	return cfg, nil
}

// Validate reports empty required settings and unknown log levels.
func (c Config) Validate() error {
	var problems []string
	required := []struct{ name, value string }{
		{"data_dir", c.DataDir},
		{"vehicles_file", c.VehiclesFile},
		{"transactions_file", c.TransactionsFile},
		{"locations_file", c.LocationsFile},
		{"vehicle_marker", c.VehicleMarker},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, r.name+" must not be empty")
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Path resolves a data file name against DataDir.
func (c Config) Path(name string) string {
	return absFrom(c.DataDir, name)
}

// VehiclesPath returns the absolute path of the vehicles file.
func (c Config) VehiclesPath() string { return c.Path(c.VehiclesFile) }

// TransactionsPath returns the absolute path of the transactions file.
func (c Config) TransactionsPath() string { return c.Path(c.TransactionsFile) }

// LocationsPath returns the absolute path of the locations file.
func (c Config) LocationsPath() string { return c.Path(c.LocationsFile) }

// SlogLevel returns LogLevel as a slog.Level. Unknown levels map to Info;
// Validate rejects them.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

func absFrom(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// loadFile reads and parses a config file. A missing file is (zero, false,
// nil) unless mustExist.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}
			return fileConfig{}, false, nil
		}
		return fileConfig{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	fc, err := parse(filepath.Ext(path), data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	return fc, true, nil
}

// parse decodes JSONC (.json, .jsonc) or YAML (.yaml, .yml).
func parse(ext string, data []byte) (fileConfig, error) {
	var fc fileConfig

	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(standardized))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
			return fileConfig{}, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return fileConfig{}, fmt.Errorf("unsupported config extension %q (want .json, .jsonc, .yaml or .yml)", ext)
	}

	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.DataDir, overlay.DataDir)
	set(&base.VehiclesFile, overlay.VehiclesFile)
	set(&base.TransactionsFile, overlay.TransactionsFile)
	set(&base.LocationsFile, overlay.LocationsFile)
	set(&base.VehicleMarker, overlay.VehicleMarker)
	set(&base.SchemasFile, overlay.SchemasFile)
	set(&base.MetricsFile, overlay.MetricsFile)
	set(&base.LogLevel, overlay.LogLevel)
	if overlay.CreateMissing != nil {
		base.CreateMissing = *overlay.CreateMissing
	}
	return base
}
