// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	"errors"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/sigil-dev/ifcscene/internal/geometry"
	"github.com/sigil-dev/ifcscene/internal/scene"
	"github.com/sigil-dev/ifcscene/internal/step"
	"github.com/sigil-dev/ifcscene/internal/store"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// DefaultInput is walked when no file is given.
const DefaultInput = "IfcOpenHouse_IFC4.ifc"

// Config is the top-level ifcscene configuration.
type Config struct {
	Input     string          `mapstructure:"input"`
	Loader    LoaderConfig    `mapstructure:"loader"`
	Geometry  GeometryConfig  `mapstructure:"geometry"`
	Traversal TraversalConfig `mapstructure:"traversal"`
	Output    OutputConfig    `mapstructure:"output"`
	Export    ExportConfig    `mapstructure:"export"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// LoaderConfig controls how STEP files are read.
type LoaderConfig struct {
	ChunkSize   int   `mapstructure:"chunk_size"`
	MemoryLimit int64 `mapstructure:"memory_limit"`
}

// GeometryConfig controls tessellation.
type GeometryConfig struct {
	CircleSegments     int  `mapstructure:"circle_segments"`
	CoordinateToOrigin bool `mapstructure:"coordinate_to_origin"`
}

// TraversalConfig controls the hierarchy walk.
type TraversalConfig struct {
	BaseColor []float64 `mapstructure:"base_color"`
}

// OutputConfig selects the walk report format.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// ExportConfig controls glTF export.
type ExportConfig struct {
	Path string `mapstructure:"path"`
	YUp  bool   `mapstructure:"y_up"`
}

// StorageConfig selects the snapshot store.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// New returns a viper instance carrying the defaults and the IFCSCENE_
// environment overrides. Callers may bind flags to it before calling FromViper.
func New() *viper.Viper {
	v := viper.New()

	// Defaults
	v.SetDefault("input", DefaultInput)
	v.SetDefault("loader.chunk_size", step.DefaultChunkSize)
	v.SetDefault("loader.memory_limit", int64(step.DefaultMemoryLimit))
	v.SetDefault("geometry.circle_segments", geometry.DefaultCircleSegments)
	v.SetDefault("geometry.coordinate_to_origin", false)
	v.SetDefault("traversal.base_color", []float64{
		scene.DefaultBaseColor[0], scene.DefaultBaseColor[1], scene.DefaultBaseColor[2], scene.DefaultBaseColor[3],
	})
	v.SetDefault("output.format", "text")
	v.SetDefault("export.path", "scene.glb")
	v.SetDefault("export.y_up", true)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "~/.local/share/ifcscene/scenes.db")
	v.SetDefault("server.listen", "127.0.0.1:18790")
	v.SetDefault("log.level", "info")

	// Environment
	v.SetEnvPrefix("IFCSCENE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads configuration from the given path (or the discovered
// ifcscene.yaml, or defaults) with environment variable overrides.
func Load(path string) (*Config, error) {
	return FromViper(New(), path)
}

// FromViper reads the config file into v, then decodes and validates it.
// An empty path searches ".", "$HOME/.config/ifcscene" and "/etc/ifcscene";
// finding nothing there is not an error.
func FromViper(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, ifcerr.Wrap(err, ifcerr.CodeConfigLoadReadFailure, "expanding config path", ifcerr.FieldPath(path))
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, ifcerr.Wrap(err, ifcerr.CodeConfigLoadReadFailure, "reading config", ifcerr.FieldPath(expanded))
		}
	} else {
		v.SetConfigName("ifcscene")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home + "/.config/ifcscene")
		}
		v.AddConfigPath("/etc/ifcscene")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, ifcerr.Wrap(err, ifcerr.CodeConfigParseInvalidFormat, "reading discovered config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeConfigParseInvalidFormat, "unmarshalling config")
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ifcerr.Wrap(errors.Join(errs...), ifcerr.CodeConfigValidateInvalidValue, "validating config")
	}

	return &cfg, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Input, &c.Export.Path, &c.Storage.Path} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return ifcerr.Wrap(err, ifcerr.CodeConfigParseInvalidFormat, "expanding path", ifcerr.FieldPath(*p))
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateLoader()...)
	errs = append(errs, c.validateGeometry()...)
	errs = append(errs, c.validateTraversal()...)
	errs = append(errs, c.validateOutput()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateLog()...)

	return errs
}

func (c *Config) validateLoader() []error {
	var errs []error

	if c.Loader.ChunkSize <= 0 {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: loader.chunk_size must be greater than 0, got %d", c.Loader.ChunkSize))
	}
	if c.Loader.MemoryLimit <= 0 {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: loader.memory_limit must be greater than 0, got %d", c.Loader.MemoryLimit))
	}

	return errs
}

func (c *Config) validateGeometry() []error {
	if c.Geometry.CircleSegments < 3 {
		return []error{ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: geometry.circle_segments must be at least 3, got %d", c.Geometry.CircleSegments)}
	}
	return nil
}

func (c *Config) validateTraversal() []error {
	var errs []error

	if len(c.Traversal.BaseColor) != 4 {
		return []error{ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: traversal.base_color must have 4 components (r, g, b, a), got %d", len(c.Traversal.BaseColor))}
	}
	for i, f := range c.Traversal.BaseColor {
		if f < 0 || f > 1 {
			errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
				"config: traversal.base_color[%d] must be within [0, 1], got %g", i, f))
		}
	}

	return errs
}

func (c *Config) validateOutput() []error {
	validFormats := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validFormats[c.Output.Format] {
		return []error{ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: output.format must be one of [text, json, yaml], got %q", c.Output.Format)}
	}
	return nil
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"sqlite": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: storage.backend must be one of [sqlite], got %q",
			c.Storage.Backend,
		))
	}
	if c.Storage.Path == "" {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue, "config: storage.path must not be empty"))
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err,
		))
		return errs
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q",
			portStr,
		))
	} else if port < 0 || port > 65535 {
		errs = append(errs, ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 0 and 65535, got %d",
			port,
		))
	}

	return errs
}

func (c *Config) validateLog() []error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return []error{ifcerr.Errorf(ifcerr.CodeConfigValidateInvalidValue,
			"config: log.level must be one of [debug, info, warn, error], got %q", c.Log.Level)}
	}
	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

// SceneSettings converts the config into the settings scene.Open expects.
func (c *Config) SceneSettings(logger *slog.Logger) scene.Settings {
	s := scene.Settings{
		Loader: step.Settings{
			ChunkSize:   c.Loader.ChunkSize,
			MemoryLimit: c.Loader.MemoryLimit,
		},
		Geometry: geometry.Settings{
			CircleSegments:     c.Geometry.CircleSegments,
			CoordinateToOrigin: c.Geometry.CoordinateToOrigin,
		},
		Logger: logger,
	}
	if len(c.Traversal.BaseColor) == 4 {
		s.BaseColor = &mgl64.Vec4{
			c.Traversal.BaseColor[0], c.Traversal.BaseColor[1], c.Traversal.BaseColor[2], c.Traversal.BaseColor[3],
		}
	}
	return s
}

// StoreConfig converts the storage section for store.NewSceneStore.
func (c *Config) StoreConfig() *store.StorageConfig {
	return &store.StorageConfig{Backend: c.Storage.Backend, Path: c.Storage.Path}
}
