package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"

	"github.com/Paintersrp/m3urel/internal/constants"
	"github.com/Paintersrp/m3urel/internal/logging"
)

// Keys shared by the config file, the environment and the command flags.
const (
	KeyDepth              = "depth"
	KeyStrictExtension    = "strict_extension"
	KeyFollowSymlinks     = "follow_symlinks"
	KeyLogLevel           = "log_level"
	KeyPlaylistExtensions = "playlist_extensions"
)

var ErrInvalidDepth = errors.New("invalid depth")

type Config struct {
	Depth              int      `yaml:"depth"               json:"depth"`
	StrictExtension    bool     `yaml:"strict_extension"    json:"strict_extension"`
	FollowSymlinks     bool     `yaml:"follow_symlinks"     json:"follow_symlinks"`
	LogLevel           string   `yaml:"log_level"           json:"log_level"`
	PlaylistExtensions []string `yaml:"playlist_extensions" json:"playlist_extensions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Depth:              constants.DefaultDepth,
		StrictExtension:    false,
		FollowSymlinks:     true,
		LogLevel:           logging.LevelInfo.String(),
		PlaylistExtensions: append([]string(nil), constants.DefaultPlaylistExtensions...),
	}
}

// Load reads the config file below home. A missing or empty file yields the
// defaults; keys absent from the file keep their default values.
func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// Validate checks ranges and normalises the playlist extensions.
func (cfg *Config) Validate() error {
	if err := ValidateDepth(cfg.Depth); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}

	cfg.PlaylistExtensions = normalizeExtensions(cfg.PlaylistExtensions)
	if len(cfg.PlaylistExtensions) == 0 {
		cfg.PlaylistExtensions = append([]string(nil), constants.DefaultPlaylistExtensions...)
	}
	return nil
}

// ValidateDepth accepts depths in [0, constants.MaxDepth].
func ValidateDepth(depth int) error {
	if depth < 0 || depth > constants.MaxDepth {
		return fmt.Errorf("%w: %d. Depth must be between 0 and %d", ErrInvalidDepth, depth, constants.MaxDepth)
	}
	return nil
}

// IgnoreExtension reports whether extensions are stripped before matching.
func (cfg *Config) IgnoreExtension() bool {
	return !cfg.StrictExtension
}

// Level returns the parsed log level.
func (cfg *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return level
}

// Bind registers cfg as the defaults of v and enables environment overrides
// (M3UREL_DEPTH, M3UREL_STRICT_EXTENSION, ...). Command flags bound to v
// afterwards take precedence over both.
func Bind(v *viper.Viper, cfg *Config) {
	v.SetDefault(KeyDepth, cfg.Depth)
	v.SetDefault(KeyStrictExtension, cfg.StrictExtension)
	v.SetDefault(KeyFollowSymlinks, cfg.FollowSymlinks)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)
	v.SetDefault(KeyPlaylistExtensions, cfg.PlaylistExtensions)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()
}

// Resolve builds the effective configuration from v.
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Depth:              v.GetInt(KeyDepth),
		StrictExtension:    v.GetBool(KeyStrictExtension),
		FollowSymlinks:     v.GetBool(KeyFollowSymlinks),
		LogLevel:           v.GetString(KeyLogLevel),
		PlaylistExtensions: v.GetStringSlice(KeyPlaylistExtensions),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalizeExtensions(exts []string) []string {
	seen := make(map[string]bool, len(exts))
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}
