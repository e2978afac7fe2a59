package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from YAML. Durations are
// given in milliseconds to keep the file format plain.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	NATS struct {
		URL           string `yaml:"url"`
		Stream        string `yaml:"stream"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`

	Provisioner struct {
		Workers      int `yaml:"workers"`
		MaxAttempts  int `yaml:"max_attempts"`
		RetryDelayMS int `yaml:"retry_delay_ms"`
	} `yaml:"provisioner"`

	Outbox struct {
		PollIntervalMS int   `yaml:"poll_interval_ms"`
		BatchSize      int32 `yaml:"batch_size"`
		MaxRetries     int   `yaml:"max_retries"`
		RetryDelayMS   int   `yaml:"retry_delay_ms"`
	} `yaml:"outbox"`
}

func defaultConfig() *Config {
	var c Config
	c.Server.Port = "8080"
	c.NATS.URL = "nats://localhost:4222"
	c.NATS.Stream = "SQUAD_EVENTS"
	c.NATS.SubjectPrefix = "squad.events"
	c.Provisioner.Workers = 4
	c.Provisioner.MaxAttempts = 3
	c.Provisioner.RetryDelayMS = 200
	c.Outbox.PollIntervalMS = 5000
	c.Outbox.BatchSize = 100
	c.Outbox.MaxRetries = 3
	c.Outbox.RetryDelayMS = 1000
	return &c
}

// loadConfig reads the YAML config at path, falling back to defaults when the
// file does not exist. Zero values in the file fall back field by field.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	defaults := defaultConfig()
	if config.Server.Port == "" {
		config.Server.Port = defaults.Server.Port
	}
	if config.NATS.URL == "" {
		config.NATS.URL = defaults.NATS.URL
	}
	if config.NATS.Stream == "" {
		config.NATS.Stream = defaults.NATS.Stream
	}
	if config.NATS.SubjectPrefix == "" {
		config.NATS.SubjectPrefix = defaults.NATS.SubjectPrefix
	}
	if config.Provisioner.Workers <= 0 {
		config.Provisioner.Workers = defaults.Provisioner.Workers
	}
	if config.Provisioner.MaxAttempts <= 0 {
		config.Provisioner.MaxAttempts = defaults.Provisioner.MaxAttempts
	}
	if config.Provisioner.RetryDelayMS <= 0 {
		config.Provisioner.RetryDelayMS = defaults.Provisioner.RetryDelayMS
	}
	if config.Outbox.PollIntervalMS <= 0 {
		config.Outbox.PollIntervalMS = defaults.Outbox.PollIntervalMS
	}
	if config.Outbox.BatchSize <= 0 {
		config.Outbox.BatchSize = defaults.Outbox.BatchSize
	}
	if config.Outbox.MaxRetries <= 0 {
		config.Outbox.MaxRetries = defaults.Outbox.MaxRetries
	}
	if config.Outbox.RetryDelayMS <= 0 {
		config.Outbox.RetryDelayMS = defaults.Outbox.RetryDelayMS
	}

	return config, nil
}

func (c *Config) provisionerRetryDelay() time.Duration {
	return time.Duration(c.Provisioner.RetryDelayMS) * time.Millisecond
}

func (c *Config) outboxPollInterval() time.Duration {
	return time.Duration(c.Outbox.PollIntervalMS) * time.Millisecond
}

func (c *Config) outboxRetryDelay() time.Duration {
	return time.Duration(c.Outbox.RetryDelayMS) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
