// Package config reads gosc settings from flags, the environment and an
// optional gosc.toml or gosc.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gosc-lang/gosc/compiler"
)

// Keys understood by Load.
const (
	KeyEntry       = "entry"
	KeyCaptures    = "captures"
	KeyLogLevel    = "log-level"
	KeyCacheDir    = "cache.dir"
	KeyFFIManifest = "ffi.manifest"
	KeyColor       = "color"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds resolved settings.
type Config struct {
	Entry       string
	Captures    compiler.CaptureMode
	LogLevel    zerolog.Level
	CacheDir    string
	FFIManifest string
	Color       string
	// File is the config file that was read, if any.
	File string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEntry, compiler.DefaultEntryPoint)
	v.SetDefault(KeyCaptures, compiler.CaptureChain.String())
	v.SetDefault(KeyLogLevel, zerolog.WarnLevel.String())
	v.SetDefault(KeyCacheDir, defaultCacheDir())
	v.SetDefault(KeyFFIManifest, "")
	v.SetDefault(KeyColor, ColorAuto)
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gosc")
	}
	return filepath.Join(dir, "gosc")
}

// Load resolves settings on v. Environment variables use the GOSC_ prefix
// with dots and dashes turned into underscores, as in GOSC_CACHE_DIR. When
// file is empty, gosc.toml or gosc.yaml is looked up in dir; a missing file
// is not an error.
func Load(v *viper.Viper, file, dir string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("GOSC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("gosc")
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	captures, err := compiler.ParseCaptureMode(v.GetString(KeyCaptures))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyCaptures, err)
	}
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString(KeyLogLevel)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	color := strings.ToLower(v.GetString(KeyColor))
	switch color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return nil, fmt.Errorf("%s: unknown mode %q (want auto, always or never)", KeyColor, color)
	}
	entry := v.GetString(KeyEntry)
	if entry == "" {
		return nil, fmt.Errorf("%s: must not be empty", KeyEntry)
	}
	cacheDir, err := homedir.Expand(v.GetString(KeyCacheDir))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyCacheDir, err)
	}
	manifest, err := homedir.Expand(v.GetString(KeyFFIManifest))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyFFIManifest, err)
	}
	return &Config{
		Entry:       entry,
		Captures:    captures,
		LogLevel:    level,
		CacheDir:    cacheDir,
		FFIManifest: manifest,
		Color:       color,
		File:        v.ConfigFileUsed(),
	}, nil
}

// UseColor reports whether output should be colored, given whether it goes
// to a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}

// Fingerprint identifies the settings that change compiler output. It is
// part of every cache key.
func (c *Config) Fingerprint() []string {
	return []string{"entry=" + c.Entry, "captures=" + c.Captures.String()}
}
