package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// config holds the settings that can come from the config file or flags.
type config struct {
	Provider string        `yaml:"provider"`
	Endpoint string        `yaml:"endpoint"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	LogFile  string        `yaml:"log_file"`
	Debug    bool          `yaml:"debug"`
}

// loadConfig reads a YAML config file. A missing file yields the zero
// config unless required is set.
func loadConfig(path string, required bool) (config, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !required:
		return config{}, nil
	default:
		return config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var c config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// merge returns c with every non-zero field of o applied on top.
func (c config) merge(o config) config {
	if o.Provider != "" {
		c.Provider = o.Provider
	}
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.APIKey != "" {
		c.APIKey = o.APIKey
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.Debug {
		c.Debug = true
	}
	return c
}

func (c config) providerName() string {
	if c.Provider == "" {
		return providerTextgen
	}
	return c.Provider
}
