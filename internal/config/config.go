package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/videonote/shell/internal/logger"
	"github.com/videonote/shell/internal/sidecar"
)

// Defaults applied when the corresponding keys are absent.
const (
	DefaultName       = "vn-sidecar"
	DefaultListenAddr = "127.0.0.1:1420"
	DefaultBasePath   = "/sidecar"
)

// SidecarConfig is the [sidecar] section of the TOML file.
type SidecarConfig struct {
	Name    string   `toml:"name" mapstructure:"name"`
	Command string   `toml:"command" mapstructure:"command"`
	Args    []string `toml:"args" mapstructure:"args"`
	WorkDir string   `toml:"workdir" mapstructure:"workdir"`
	Env     []string `toml:"env" mapstructure:"env"`
}

// ServerConfig is the [server] section: the local HTTP boundary the GUI talks to.
type ServerConfig struct {
	Listen        string `toml:"listen" mapstructure:"listen"`
	BasePath      string `toml:"base_path" mapstructure:"base_path"`
	MetricsListen string `toml:"metrics_listen" mapstructure:"metrics_listen"` // empty disables the metrics server
}

// HistoryConfig is the [history] section; an empty DSN disables the sink.
type HistoryConfig struct {
	DSN string `toml:"dsn" mapstructure:"dsn"`
}

// Config is the top-level TOML structure.
type Config struct {
	Sidecar SidecarConfig `toml:"sidecar" mapstructure:"sidecar"`
	Log     logger.Config `toml:"log" mapstructure:"log"`
	Server  ServerConfig  `toml:"server" mapstructure:"server"`
	History HistoryConfig `toml:"history" mapstructure:"history"`
}

// Load reads and validates a TOML config file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Sidecar.Name == "" {
		c.Sidecar.Name = DefaultName
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListenAddr
	}
	if c.Server.BasePath == "" {
		c.Server.BasePath = DefaultBasePath
	}
}

func (c *Config) validate() error {
	if c.Sidecar.Command == "" {
		return fmt.Errorf("config: sidecar.command is required")
	}
	return nil
}

// Spec builds the launch spec for the configured worker.
func (c *Config) Spec() sidecar.Spec {
	return sidecar.Spec{
		Name:    c.Sidecar.Name,
		Command: c.Sidecar.Command,
		Args:    c.Sidecar.Args,
		WorkDir: c.Sidecar.WorkDir,
		Env:     c.Sidecar.Env,
		Log:     c.Log,
	}
}
