package config

import (
	"fmt"
	"os"
	"time"

	"github.com/terranastra/terran/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where terran looks for its configuration file.
const DefaultPath = "terran.yaml"

// Runtime drivers.
const (
	DriverCLI = "cli"
	DriverAPI = "api"
)

// ContainerConfig names the managed container and how to provision it.
type ContainerConfig struct {
	// Name is the exact container name
	Name string `yaml:"name"`

	// ComposeFile is the compose definition used to provision the container
	ComposeFile string `yaml:"compose_file"`

	// Profile is the compose profile activated by `compose up`
	Profile string `yaml:"profile"`
}

// ServerConfig configures the status HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config represents terran configuration options
type Config struct {
	// LogLevel sets the diagnostics verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Driver selects how docker is queried: "cli" or "api"
	Driver string `yaml:"driver"`

	// CommandTimeout bounds every external command
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// ProbeTimeout bounds a container status query
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// LockTimeout is how long to wait for another provisioning run to finish
	LockTimeout time.Duration `yaml:"lock_timeout"`

	Container ContainerConfig `yaml:"container"`
	Server    ServerConfig    `yaml:"server"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	t := domain.DefaultTarget()
	return &Config{
		LogLevel:       "info",
		Driver:         DriverCLI,
		CommandTimeout: 10 * time.Minute,
		ProbeTimeout:   30 * time.Second,
		LockTimeout:    2 * time.Minute,
		Container: ContainerConfig{
			Name:        t.ContainerName,
			ComposeFile: t.ComposeFile,
			Profile:     t.ComposeProfile,
		},
		Server: ServerConfig{Addr: ":3000"},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("30s", "10m").
	type yamlConfig struct {
		LogLevel       string          `yaml:"log_level"`
		Driver         string          `yaml:"driver"`
		CommandTimeout string          `yaml:"command_timeout"`
		ProbeTimeout   string          `yaml:"probe_timeout"`
		LockTimeout    string          `yaml:"lock_timeout"`
		Container      ContainerConfig `yaml:"container"`
		Server         ServerConfig    `yaml:"server"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.Driver != "" {
		cfg.Driver = yamlCfg.Driver
	}
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"command_timeout", yamlCfg.CommandTimeout, &cfg.CommandTimeout},
		{"probe_timeout", yamlCfg.ProbeTimeout, &cfg.ProbeTimeout},
		{"lock_timeout", yamlCfg.LockTimeout, &cfg.LockTimeout},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s format %q: %w", d.name, d.raw, err)
		}
		*d.dst = v
	}
	if yamlCfg.Container.Name != "" {
		cfg.Container.Name = yamlCfg.Container.Name
	}
	if yamlCfg.Container.ComposeFile != "" {
		cfg.Container.ComposeFile = yamlCfg.Container.ComposeFile
	}
	if yamlCfg.Container.Profile != "" {
		cfg.Container.Profile = yamlCfg.Container.Profile
	}
	if yamlCfg.Server.Addr != "" {
		cfg.Server.Addr = yamlCfg.Server.Addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverCLI, DriverAPI:
	default:
		return fmt.Errorf("invalid driver %q: must be %q or %q", c.Driver, DriverCLI, DriverAPI)
	}
	if c.Container.Name == "" {
		return fmt.Errorf("container.name must not be empty")
	}
	if c.Container.ComposeFile == "" {
		return fmt.Errorf("container.compose_file must not be empty")
	}
	if c.Container.Profile == "" {
		return fmt.Errorf("container.profile must not be empty")
	}
	if c.CommandTimeout <= 0 || c.ProbeTimeout <= 0 || c.LockTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// Target returns the provisioning target described by the config.
func (c *Config) Target() domain.Target {
	return domain.Target{
		ContainerName:  c.Container.Name,
		ComposeFile:    c.Container.ComposeFile,
		ComposeProfile: c.Container.Profile,
	}
}
