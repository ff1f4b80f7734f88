package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/m3urel/internal/config"
)

func writeConfig(t *testing.T, home string, data map[string]any) {
	t.Helper()
	path := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}
	if cfg.Depth != 1 || cfg.StrictExtension || !cfg.FollowSymlinks {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !slices.Equal(cfg.PlaylistExtensions, []string{".m3u", ".m3u8"}) {
		t.Fatalf("unexpected default extensions: %v", cfg.PlaylistExtensions)
	}

	if _, err := os.Stat(config.GetConfigPath(home)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected load not to create a config file")
	}
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"depth":               3,
		"playlist_extensions": []string{"PLS", ".m3u", ""},
	})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("expected load to succeed: %v", err)
	}
	if cfg.Depth != 3 {
		t.Fatalf("expected depth 3, got %d", cfg.Depth)
	}
	if !cfg.FollowSymlinks {
		t.Fatalf("expected follow_symlinks to keep its default")
	}
	if !slices.Equal(cfg.PlaylistExtensions, []string{".pls", ".m3u"}) {
		t.Fatalf("expected normalised extensions, got %v", cfg.PlaylistExtensions)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]any{
		"depth":     {"depth": 300},
		"negative":  {"depth": -1},
		"log level": {"log_level": "verbose"},
	}

	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, data)

			_, err := config.Load(home)
			if err == nil {
				t.Fatal("expected load to fail")
			}
			var cfgErr *config.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	home := t.TempDir()
	path := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("depth: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := config.Load(home)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error naming the config path, got %v", err)
	}
}

func TestValidateDepth(t *testing.T) {
	for _, depth := range []int{0, 1, 255} {
		if err := config.ValidateDepth(depth); err != nil {
			t.Fatalf("expected depth %d to be valid: %v", depth, err)
		}
	}
	if err := config.ValidateDepth(256); !errors.Is(err, config.ErrInvalidDepth) {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
}

func TestResolvePrecedence(t *testing.T) {
	cfg := config.Default()
	cfg.Depth = 2

	v := viper.New()
	config.Bind(v, cfg)

	resolved, err := config.Resolve(v)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.Depth != 2 {
		t.Fatalf("expected config file value 2, got %d", resolved.Depth)
	}

	t.Setenv("M3UREL_DEPTH", "4")
	resolved, err = config.Resolve(v)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.Depth != 4 {
		t.Fatalf("expected environment value 4, got %d", resolved.Depth)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("depth", 1, "")
	if err := v.BindPFlag(config.KeyDepth, flags.Lookup("depth")); err != nil {
		t.Fatalf("BindPFlag returned error: %v", err)
	}

	resolved, err = config.Resolve(v)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.Depth != 4 {
		t.Fatalf("expected unchanged flag not to override environment, got %d", resolved.Depth)
	}

	if err := flags.Parse([]string{"--depth", "5"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	resolved, err = config.Resolve(v)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.Depth != 5 {
		t.Fatalf("expected flag value 5, got %d", resolved.Depth)
	}
}

func TestResolveRejectsInvalidDepth(t *testing.T) {
	v := viper.New()
	config.Bind(v, config.Default())
	v.Set(config.KeyDepth, 1000)

	if _, err := config.Resolve(v); !errors.Is(err, config.ErrInvalidDepth) {
		t.Fatalf("expected ErrInvalidDepth, got %v", err)
	}
}
