package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pulsar/pkg/whatpulse"
)

// Config captures where the WhatPulse client listens and how pulsar behaves.
type Config struct {
	Host           string
	Port           int
	Scheme         string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/pulsar/config.toml"
	defaultLogFile        = "~/.local/state/pulsar/pulsar.log"
	defaultLogLevel       = "info"
	defaultPollInterval   = 2 * time.Second
	defaultRequestTimeout = 5 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Host:           whatpulse.DefaultHost,
		Port:           whatpulse.DefaultPort,
		Scheme:         whatpulse.DefaultScheme,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
	}
}

// Load locates and parses the pulsar config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Host           string `toml:"host"`
		Port           int    `toml:"port"`
		Scheme         string `toml:"scheme"`
		PollInterval   int    `toml:"poll_interval"`
		RequestTimeout int    `toml:"request_timeout"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if host := strings.TrimSpace(raw.Host); host != "" {
		cfg.Host = host
	}
	if raw.Port < 0 || raw.Port > 65535 {
		return Config{}, fmt.Errorf("parse config: port %d out of range", raw.Port)
	}
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	if scheme := strings.TrimSpace(raw.Scheme); scheme != "" {
		cfg.Scheme = scheme
	}
	if raw.PollInterval > 0 {
		cfg.PollInterval = time.Duration(raw.PollInterval) * time.Second
	}
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}

	return cfg, nil
}

// Overrides holds command-line values that take precedence over the file.
// Zero values leave the loaded setting untouched.
type Overrides struct {
	Host           string
	Port           int
	Scheme         string
	RequestTimeout time.Duration
	PollInterval   time.Duration
}

// Apply returns a copy of c with the non-zero overrides applied.
func (o Overrides) Apply(c Config) Config {
	if host := strings.TrimSpace(o.Host); host != "" {
		c.Host = host
	}
	if o.Port != 0 {
		c.Port = o.Port
	}
	if scheme := strings.TrimSpace(o.Scheme); scheme != "" {
		c.Scheme = scheme
	}
	if o.RequestTimeout > 0 {
		c.RequestTimeout = o.RequestTimeout
	}
	if o.PollInterval > 0 {
		c.PollInterval = o.PollInterval
	}
	return c
}

// ClientOptions returns the whatpulse options for this endpoint.
func (c Config) ClientOptions() []whatpulse.Option {
	return []whatpulse.Option{
		whatpulse.WithHost(c.Host),
		whatpulse.WithPort(c.Port),
		whatpulse.WithScheme(c.Scheme),
	}
}

// Endpoint returns a short host:port label for display.
func (c Config) Endpoint() string {
	host := c.Host
	if strings.TrimSpace(host) == "" {
		host = whatpulse.DefaultHost
	}
	port := c.Port
	if port == 0 {
		port = whatpulse.DefaultPort
	}
	return fmt.Sprintf("%s:%d", host, port)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
