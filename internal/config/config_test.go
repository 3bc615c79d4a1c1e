package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
thresholds:
  target_multiplier_revenue: 40000
  celebration_revenue: 15000
target_revenue:
  JSG43: "$1,800"
  CM: "0"
  ET31: "JSG43"
tag_info:
  - tag: jsg43
    stack: "Stack A"
    manager: "R. Alvarez"
    type_label: "Native"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 40000.0, cfg.Thresholds.TargetMultiplierRevenue)
	assert.Equal(t, 15000.0, cfg.Thresholds.CelebrationRevenue)
	assert.Equal(t, "$1,800", cfg.TargetRevenue["JSG43"])

	byName := cfg.TagInfoByName()
	info, ok := byName["JSG43"] // keys upper-cased
	require.True(t, ok)
	assert.Equal(t, "Stack A", info.Stack)
	assert.Equal(t, "Native", info.TypeLabel)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 40000.0, cfg.Thresholds.TargetMultiplierRevenue)
	assert.Equal(t, 15000.0, cfg.Thresholds.CelebrationRevenue)
	assert.Empty(t, cfg.TargetRevenue)
}

func TestLoadConfigPortOverride(t *testing.T) {
	t.Setenv("PORT", "3000")
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map\n")
	_, err := Load(path)
	assert.Error(t, err)
}
