package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Terminal     TerminalConfig    `yaml:"terminal"`
	Database     DatabaseConfig    `yaml:"database"`
	RabbitMQ     RabbitMQConfig    `yaml:"rabbitmq"`
	Remote       RemoteConfig      `yaml:"remote"`
	Sync         SyncConfig        `yaml:"sync"`
	Reservations ReservationConfig `yaml:"reservations"`
}

// TerminalConfig identifies this point-of-sale terminal. Organization and
// branch are stamped onto every locally created row.
type TerminalConfig struct {
	ID             string `yaml:"id"`
	OrganizationID string `yaml:"organization_id"`
	BranchID       string `yaml:"branch_id"`
}

// DatabaseConfig points at the terminal's local PostgreSQL instance.
// An empty host selects the in-memory store (dev/demo mode).
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// RemoteConfig describes the central system of record. The session token
// used for the credential exchange is taken from the POS_SESSION_TOKEN
// environment variable so it never lands in the config file.
type RemoteConfig struct {
	BaseURL              string `yaml:"base_url"`
	AuthTimeoutSeconds   int    `yaml:"auth_timeout_seconds"`
	UploadTimeoutSeconds int    `yaml:"upload_timeout_seconds"`
}

type SyncConfig struct {
	BatchSize       int `yaml:"batch_size"`
	IntervalSeconds int `yaml:"interval_seconds"`
}

type ReservationConfig struct {
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	MaxAgeMinutes        int `yaml:"max_age_minutes"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Remote.AuthTimeoutSeconds <= 0 {
		c.Remote.AuthTimeoutSeconds = 10
	}
	if c.Remote.UploadTimeoutSeconds <= 0 {
		c.Remote.UploadTimeoutSeconds = 30
	}
	if c.Sync.BatchSize <= 0 {
		c.Sync.BatchSize = 50
	}
	if c.Sync.IntervalSeconds <= 0 {
		c.Sync.IntervalSeconds = 60
	}
	if c.Reservations.SweepIntervalSeconds <= 0 {
		c.Reservations.SweepIntervalSeconds = 300
	}
	if c.Reservations.MaxAgeMinutes <= 0 {
		c.Reservations.MaxAgeMinutes = 30
	}
}

func (c *Config) validate() error {
	if c.Terminal.ID == "" {
		return fmt.Errorf("terminal.id is required")
	}
	if c.Terminal.BranchID == "" {
		return fmt.Errorf("terminal.branch_id is required")
	}
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	return nil
}

// SessionToken returns the bearer token supplied by the authentication
// layer, read from the environment on each call.
func (c *Config) SessionToken() string {
	return os.Getenv("POS_SESSION_TOKEN")
}

// UseMemoryStore reports whether the terminal runs on the in-memory
// store instead of local PostgreSQL.
func (c *Config) UseMemoryStore() bool {
	return c.Database.Host == ""
}
