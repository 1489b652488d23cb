// SPDX-License-Identifier: MPL-2.0

// Package config loads the trogon configuration file. The file is written
// in CUE, validated against an embedded schema, and merged into viper so
// absent fields fall back to built-in defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jrcribb/trogon/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for config and cache paths.
	AppName = "trogon"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

type (
	// Config is the decoded configuration.
	Config struct {
		UI         UIConfig         `mapstructure:"ui"`
		Serializer SerializerConfig `mapstructure:"serializer"`
		Log        LogConfig        `mapstructure:"log"`
	}

	// UIConfig controls the builder TUI.
	UIConfig struct {
		// ColorScheme selects the TUI palette.
		ColorScheme string `mapstructure:"color_scheme"`
		// ShowHidden includes hidden commands and flags in the tree.
		ShowHidden bool `mapstructure:"show_hidden"`
	}

	// SerializerConfig controls invocation rendering.
	SerializerConfig struct {
		// DeclaredOrder emits parameters strictly in declaration order
		// instead of the options-before-arguments convention.
		DeclaredOrder bool `mapstructure:"declared_order"`
	}

	// LogConfig controls the rotating debug log file.
	LogConfig struct {
		File       string `mapstructure:"file"`
		Level      string `mapstructure:"level"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		UI:         UIConfig{ColorScheme: "charm"},
		Serializer: SerializerConfig{},
		Log:        LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// ConfigDir returns the trogon configuration directory using the platform's
// conventions: %APPDATA% on Windows, ~/Library/Application Support on macOS,
// $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration. A missing file is not an error: defaults
// apply. A present-but-invalid file is reported with suggestions and no
// partial configuration is returned.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.show_hidden", defaults.UI.ShowHidden)
	v.SetDefault("serializer.declared_order", defaults.Serializer.DeclaredOrder)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)

	path, err := resolveConfigFile()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare the fields against the documented schema").
				WithSuggestion("Delete the file to fall back to defaults").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// resolveConfigFile returns the config file to load, or "" when none exists.
func resolveConfigFile() (string, error) {
	if configFileOverride != "" {
		if !fileExists(configFileOverride) {
			return "", issue.NewContext().
				WithOperation("load configuration").
				WithResource(configFileOverride).
				WithSuggestion("Verify the --config path is correct").
				Wrap(fmt.Errorf("config file not found")).
				BuildError()
		}
		return configFileOverride, nil
	}

	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, nil
	}
	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the embedded
// #Config schema, and merges its contents into viper. The config decodes to
// a map rather than a struct so viper keeps defaults for absent fields, and
// validation uses Concrete(false) because every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema, cue.Filename("config_schema.cue"))
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("invalid CUE: %w", userValue.Err())
	}

	def := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}

	var configMap map[string]any
	if err := userValue.Decode(&configMap); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
