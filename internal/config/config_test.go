package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadFromEnv reads so the host environment does not leak in
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MCP_TRANSPORT", "MCP_HTTP_ADDR", "MCP_AUTH_SECRET", "DATA_DIR", "COMMUNITY_BACKEND",
		"CLICKHOUSE_HOST", "CLICKHOUSE_PORT", "CLICKHOUSE_DATABASE", "CLICKHOUSE_USER",
		"CLICKHOUSE_PASSWORD", "CLICKHOUSE_USE_TLS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Transport)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.AuthSecret)
	assert.Equal(t, "./db", cfg.DataDir)
	assert.Equal(t, BackendSQLite, cfg.CommunityBackend)
	assert.Equal(t, 9000, cfg.ClickHousePort)
	assert.Equal(t, "default", cfg.ClickHouseDatabase)
	assert.Equal(t, "default", cfg.ClickHouseUser)
	assert.False(t, cfg.ClickHouseUseTLS)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "http with auth",
			env:  map[string]string{"MCP_TRANSPORT": "http", "MCP_HTTP_ADDR": "127.0.0.1:9999", "MCP_AUTH_SECRET": "s3cret"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, TransportHTTP, cfg.Transport)
				assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
				assert.Equal(t, "s3cret", cfg.AuthSecret)
			},
		},
		{
			name: "clickhouse backend",
			env: map[string]string{
				"COMMUNITY_BACKEND":  "clickhouse",
				"CLICKHOUSE_HOST":    "ch.local",
				"CLICKHOUSE_PORT":    "9440",
				"CLICKHOUSE_USE_TLS": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, BackendClickHouse, cfg.CommunityBackend)
				assert.Equal(t, "ch.local", cfg.ClickHouseHost)
				assert.Equal(t, 9440, cfg.ClickHousePort)
				assert.True(t, cfg.ClickHouseUseTLS)
			},
		},
		{name: "unknown transport", env: map[string]string{"MCP_TRANSPORT": "sse"}, wantErr: true},
		{name: "unknown backend", env: map[string]string{"COMMUNITY_BACKEND": "postgres"}, wantErr: true},
		{name: "bad port", env: map[string]string{"CLICKHOUSE_PORT": "native"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadFromEnv()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestConfig_TransportOr(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, TransportHTTP, cfg.TransportOr(TransportHTTP))

	cfg.Transport = TransportStdio
	assert.Equal(t, TransportStdio, cfg.TransportOr(TransportHTTP))
}

func TestLoad_DoesNotValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_TRANSPORT", "sse")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sse", cfg.Transport)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg.Transport = TransportStdio
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ValidateCommunity(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "sqlite", cfg: Config{CommunityBackend: BackendSQLite}},
		{name: "mock", cfg: Config{CommunityBackend: BackendMock}},
		{name: "clickhouse with host", cfg: Config{CommunityBackend: BackendClickHouse, ClickHouseHost: "ch.local"}},
		{name: "clickhouse without host", cfg: Config{CommunityBackend: BackendClickHouse}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.ValidateCommunity()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			assert.NoError(t, err)
		})
	}
}
