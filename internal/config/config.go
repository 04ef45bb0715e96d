package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fluxgpu/clrt/internal/device"
)

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
		Encoding  string `yaml:"encoding"`
	} `yaml:"logger"`
	// Device limit overrides applied to every device a loaded program
	// descriptor names. Zero fields keep the backend defaults.
	Device struct {
		MaxThreadsPerGroup         int `yaml:"maxThreadsPerGroup"`
		PreferredWorkGroupMultiple int `yaml:"preferredWorkGroupMultiple"`
	} `yaml:"device"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.Logger.Verbosity = "info"
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Limits resolves the effective device limits under this configuration.
func (c *Config) Limits() device.Limits {
	limits := device.DefaultLimits()
	if c.Device.MaxThreadsPerGroup > 0 {
		limits.MaxThreadsPerGroup = c.Device.MaxThreadsPerGroup
	}
	if c.Device.PreferredWorkGroupMultiple > 0 {
		limits.PreferredWorkGroupMultiple = c.Device.PreferredWorkGroupMultiple
	}
	return limits
}
