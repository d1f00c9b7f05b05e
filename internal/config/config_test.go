package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terranastra/terran/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terran.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverCLI, cfg.Driver)
	assert.Equal(t, 10*time.Minute, cfg.CommandTimeout)
	assert.Equal(t, 30*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 2*time.Minute, cfg.LockTimeout)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, domain.DefaultTarget(), cfg.Target())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `log_level: debug
driver: api
command_timeout: 90s
probe_timeout: 5s
lock_timeout: 1m
container:
  name: pi-sql
  compose_file: compose/arm.yml
  profile: arm64
server:
  addr: 127.0.0.1:8080
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DriverAPI, cfg.Driver)
	assert.Equal(t, 90*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, time.Minute, cfg.LockTimeout)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, domain.Target{ContainerName: "pi-sql", ComposeFile: "compose/arm.yml", ComposeProfile: "arm64"}, cfg.Target())
}

func TestLoadConfig_PartialFileMergesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "container:\n  profile: arm64\n"))
	require.NoError(t, err)

	assert.Equal(t, "arm64", cfg.Container.Profile)
	assert.Equal(t, "frank-mssql", cfg.Container.Name)
	assert.Equal(t, "docker-compose.mssql.yml", cfg.Container.ComposeFile)
	assert.Equal(t, 10*time.Minute, cfg.CommandTimeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed yaml":   "container: [unterminated\n",
		"bad duration":     "command_timeout: soon\n",
		"unknown driver":   "driver: podman\n",
		"negative timeout": "probe_timeout: -5s\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
