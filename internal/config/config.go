package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/0xReLogic/Greeter/internal/environ"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 5000
)

// Config represents the main configuration structure for Greeter
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Environment EnvironmentConfig `yaml:"environment"`
}

// ServerConfig holds the listener configuration
type ServerConfig struct {
	Host            string         `yaml:"host"`
	Port            int            `yaml:"port" validate:"gt=0,lte=65535"`
	Timeouts        TimeoutsConfig `yaml:"timeouts"`
	ShutdownTimeout int            `yaml:"shutdown_timeout" validate:"gte=0"`
	TLS             TLSConfig      `yaml:"tls"`
}

// TimeoutsConfig holds HTTP server timeouts in seconds. Zero selects the default.
type TimeoutsConfig struct {
	Read  int `yaml:"read" validate:"gte=0"`
	Write int `yaml:"write" validate:"gte=0"`
	Idle  int `yaml:"idle" validate:"gte=0"`
}

// TLSConfig holds the TLS configuration
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file" validate:"required_if=Enabled true"`
	KeyFile  string `yaml:"key_file" validate:"required_if=Enabled true"`
}

// LoggingConfig controls the process logger and request logging
type LoggingConfig struct {
	Level         string          `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	Format        string          `yaml:"format" validate:"omitempty,oneof=text json"`
	IncludeCaller bool            `yaml:"include_caller"`
	AccessLog     bool            `yaml:"access_log"`
	RequestID     RequestIDConfig `yaml:"request_id"`
}

// RequestIDConfig controls request identifier propagation
type RequestIDConfig struct {
	Enabled bool   `yaml:"enabled"`
	Header  string `yaml:"header"`
}

// EnvironmentConfig controls the startup environment dump
type EnvironmentConfig struct {
	Dump   bool   `yaml:"dump"`
	Key    string `yaml:"key" validate:"required"`
	Absent string `yaml:"absent"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Timeouts:        TimeoutsConfig{Read: 15, Write: 15, Idle: 60},
			ShutdownTimeout: 10,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			AccessLog: true,
			RequestID: RequestIDConfig{Enabled: true, Header: "X-Request-ID"},
		},
		Environment: EnvironmentConfig{
			Dump:   true,
			Key:    environ.DefaultKey,
			Absent: environ.DefaultAbsent,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file on top of the defaults
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// Load is LoadConfig where a missing file falls back to the defaults unless required is set
func Load(filePath string, required bool) (*Config, error) {
	cfg, err := LoadConfig(filePath)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the listen address from the HOST and PORT variables
func (c *Config) ApplyEnv(src environ.Source) error {
	if host, ok := src.Lookup("HOST"); ok && strings.TrimSpace(host) != "" {
		c.Server.Host = strings.TrimSpace(host)
	}
	if raw, ok := src.Lookup("PORT"); ok && strings.TrimSpace(raw) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		c.Server.Port = port
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and required fields
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the host:port listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
