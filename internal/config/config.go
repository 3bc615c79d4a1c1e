package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application, including the two
// static reference tables (target revenue and tag metadata) that the
// engine consumes read-only.
type Config struct {
	Server        ServerConfig      `yaml:"server"`
	Thresholds    ThresholdConfig   `yaml:"thresholds"`
	TargetRevenue map[string]string `yaml:"target_revenue"`
	TagInfo       []TagInfo         `yaml:"tag_info"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ThresholdConfig keeps the two revenue thresholds separate: the target
// multiplier applies inside the resolver, the celebration figure belongs
// to the dashboard and must never feed the x7 rule.
type ThresholdConfig struct {
	TargetMultiplierRevenue float64 `yaml:"target_multiplier_revenue"`
	CelebrationRevenue      float64 `yaml:"celebration_revenue"`
}

// TagInfo is the per-tag display metadata (stack/manager/type label).
type TagInfo struct {
	Tag       string `yaml:"tag" json:"tag"`
	Stack     string `yaml:"stack" json:"stack"`
	Manager   string `yaml:"manager" json:"manager"`
	TypeLabel string `yaml:"type_label" json:"type_label"`
}

// Load reads configuration from a YAML file, after loading .env if one is
// present. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	// Load .env for local development (ignore errors if not present)
	godotenv.Load()

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Thresholds: ThresholdConfig{
			TargetMultiplierRevenue: 40000,
			CelebrationRevenue:      15000,
		},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Thresholds.TargetMultiplierRevenue == 0 {
		c.Thresholds.TargetMultiplierRevenue = 40000
	}
	if c.Thresholds.CelebrationRevenue == 0 {
		c.Thresholds.CelebrationRevenue = 15000
	}
}

// TagInfoByName returns the metadata table keyed by upper-cased tag name.
func (c *Config) TagInfoByName() map[string]TagInfo {
	out := make(map[string]TagInfo, len(c.TagInfo))
	for _, info := range c.TagInfo {
		out[normalizeTag(info.Tag)] = info
	}
	return out
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}
