package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Community store backends
const (
	BackendSQLite     = "sqlite"
	BackendClickHouse = "clickhouse"
	BackendMock       = "mock"
)

// ErrInvalid is wrapped by every error returned by Load, LoadFromEnv, Validate and ValidateCommunity
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration
type Config struct {
	// Transport is stdio or http. Empty means the selected server's default.
	Transport  string
	HTTPAddr   string
	AuthSecret string // HS256 key for bearer tokens; empty disables auth

	// DataDir holds the <store>.db files
	DataDir string

	CommunityBackend string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	LogLevel  string
	LogFormat string
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// LoadFromEnv loads configuration from environment variables and validates it
func LoadFromEnv() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads environment variables without validating them, so callers can
// apply overrides first and call Validate once
func Load() (*Config, error) {
	config := &Config{
		Transport:          os.Getenv("MCP_TRANSPORT"),
		HTTPAddr:           getEnv("MCP_HTTP_ADDR", ":8000"),
		AuthSecret:         os.Getenv("MCP_AUTH_SECRET"),
		DataDir:            getEnv("DATA_DIR", "./db"),
		CommunityBackend:   getEnv("COMMUNITY_BACKEND", BackendSQLite),
		ClickHouseHost:     os.Getenv("CLICKHOUSE_HOST"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: os.Getenv("CLICKHOUSE_PASSWORD"), // optional, can be empty
		ClickHouseUseTLS:   os.Getenv("CLICKHOUSE_USE_TLS") == "true",
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	portStr := os.Getenv("CLICKHOUSE_PORT")
	if portStr == "" {
		config.ClickHousePort = 9000 // Default ClickHouse native port
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid CLICKHOUSE_PORT: %v", ErrInvalid, err)
		}
		config.ClickHousePort = port
	}
	return config, nil
}

// Validate checks the settings every server needs
func (c *Config) Validate() error {
	switch c.Transport {
	case "", TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("%w: transport must be %s or %s, got %q", ErrInvalid, TransportStdio, TransportHTTP, c.Transport)
	}

	switch c.CommunityBackend {
	case BackendSQLite, BackendMock, BackendClickHouse:
	default:
		return fmt.Errorf("%w: unknown COMMUNITY_BACKEND %q", ErrInvalid, c.CommunityBackend)
	}

	if c.DataDir == "" {
		return fmt.Errorf("%w: DATA_DIR must not be empty", ErrInvalid)
	}
	return nil
}

// ValidateCommunity checks the settings of the selected community backend.
// Only the community server needs them.
func (c *Config) ValidateCommunity() error {
	if c.CommunityBackend == BackendClickHouse && c.ClickHouseHost == "" {
		return fmt.Errorf("%w: CLICKHOUSE_HOST is required when COMMUNITY_BACKEND is %s", ErrInvalid, BackendClickHouse)
	}
	return nil
}

// TransportOr returns the configured transport, or def when none is set
func (c *Config) TransportOr(def string) string {
	if c.Transport == "" {
		return def
	}
	return c.Transport
}
