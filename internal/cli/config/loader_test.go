package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "kgforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing", "kgforge.yaml"), nil)
	require.Error(t, err)
	assert.Nil(t, cfg)

	// No config file at all: defaults apply.
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultReasoner, cfg.Reasoner)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	path := writeConfigFile(t, dir, `
robot: /opt/robot/bin/robot
reasoner: elk
default_namespace: http://example.org/
format: table
prefixes:
  ex: http://example.org/
  foaf: http://xmlns.com/foaf/0.1/
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/opt/robot/bin/robot", cfg.Robot)
	assert.Equal(t, "elk", cfg.Reasoner)
	assert.Equal(t, "http://example.org/", cfg.DefaultNamespace)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, "http://xmlns.com/foaf/0.1/", cfg.Prefixes["foaf"])
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, cfg, GetCurrentConfig())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	path := writeConfigFile(t, dir, "reasoner: elk\n")

	t.Setenv("KGFORGE_REASONER", "hermit")
	t.Setenv("KGFORGE_VERBOSE", "true")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "hermit", cfg.Reasoner)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("KGFORGE_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "", "")
	require.NoError(t, flags.Parse([]string{"--format", "md"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.Format)
}

func TestLoadConfigUnchangedFlagIgnored(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "table", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	// Flag was never set on the command line, so the default wins.
	assert.Equal(t, DefaultFormat, cfg.Format)
}

func TestLoadConfigRobotEnvFallback(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("ROBOT", "/usr/local/bin/robot")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/robot", cfg.Robot)

	// An explicit KGFORGE_ROBOT beats the bare ROBOT variable.
	t.Setenv("KGFORGE_ROBOT", "/elsewhere/robot")
	cfg, err = LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/robot", cfg.Robot)
}

func TestGetLoggerFallback(t *testing.T) {
	logger := GetLogger(t.Context())
	require.NotNil(t, logger)
}
