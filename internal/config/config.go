// Package config defines boorudex's runtime configuration, loaded from
// the YAML file named on the command line (§6).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lorehash/boorudex/internal/utils"
	"github.com/lorehash/boorudex/pkg/api"
)

// Config is the top-level application configuration.
type Config struct {
	RedisURL         string        `yaml:"redis_url"`
	UpstreamBaseURL  string        `yaml:"upstream_base_url"`
	IndexerUA        string        `yaml:"indexer_ua"`
	MinDownloadDelay Duration      `yaml:"min_download_delay"`
	ExcludeTags      []string      `yaml:"exclude_tags"`
	RefreshInterval  Duration      `yaml:"refresh_interval"`

	Server  ServerConfig   `yaml:"server"`
	Cache   CacheConfig    `yaml:"cache"`
	Logging utils.LogConfig `yaml:"logging"`
}

// Duration wraps time.Duration so it unmarshals from YAML's natural
// string form ("30m", "90s") rather than a raw integer nanosecond
// count, which yaml.v3 would otherwise demand.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// ServerConfig configures the HTTP query surface.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// CacheConfig configures the index's read-through LRU.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// Default returns the configuration the system should run with absent
// an operator-supplied file.
func Default() Config {
	return Config{
		RedisURL:         "redis://localhost:6379/0",
		UpstreamBaseURL:  api.DefaultUpstreamBaseURL,
		IndexerUA:        "boorudex/" + api.VersionString,
		MinDownloadDelay: Duration(api.DefaultMinDownloadDelay),
		ExcludeTags:      append([]string(nil), api.DefaultExcludeTags...),
		RefreshInterval:  Duration(api.DefaultRefreshInterval),
		Server:           ServerConfig{ListenAddr: api.DefaultListenAddr},
		Cache:            CacheConfig{Size: api.DefaultCacheSize},
		Logging:          utils.GetDefaultConfig(),
	}
}

// Load reads a YAML config file at path, overlaying it on Default. A
// missing file is not an error: Default is returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
