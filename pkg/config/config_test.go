package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	cm := NewConfigManager()
	cm.BindEnvVariables()
	require.NoError(t, cm.LoadConfig(t.TempDir()))

	cfg := cm.GetConfig()
	assert.Equal(t, 3001, cfg.Port)
	assert.False(t, cfg.Development)
	require.NotNil(t, cfg.Pagination)
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	require.NotNil(t, cfg.Auth)
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoadConfigFileFragmentsAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scaffold.yaml"), `
port: 4000
db:
  driver: sqlite
  path: /tmp/test.db
pagination:
  defaultLimit: 20
include:
  - extra/auth.yaml
`)
	writeFile(t, filepath.Join(dir, "scaffold.limits.yaml"), `
pagination:
  maxLimit: 50
`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "extra"), 0o700))
	writeFile(t, filepath.Join(dir, "extra", "auth.yaml"), `
auth:
  mode: basic
  username: admin
  password: secret
`)
	t.Setenv("SCAFFOLD_DEVELOPMENT", "true")
	t.Setenv("SCAFFOLD_PORT", "4100")

	cm := NewConfigManager()
	cm.BindEnvVariables()
	require.NoError(t, cm.LoadConfig(dir))
	require.NoError(t, cm.Validate())

	cfg := cm.GetConfig()
	assert.True(t, cfg.Development)
	assert.Equal(t, 4100, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.DB.Path)
	assert.Equal(t, 20, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
	assert.Equal(t, AuthModeBasic, cfg.Auth.Mode)
	assert.Equal(t, "admin", cfg.Auth.Username)
}

func TestLoadConfigMissingInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scaffold.yaml"), "include:\n  - nope.yaml\n")

	cm := NewConfigManager()
	assert.Error(t, cm.LoadConfig(dir))
}

func TestAppConfigValidate(t *testing.T) {
	valid := func() *AppConfig {
		return &AppConfig{
			Port:       3001,
			DB:         &DatabaseConfig{Driver: DriverSQLite},
			Pagination: &PaginationConfig{DefaultLimit: 10, MaxLimit: 100},
			Auth:       &AuthConfig{Mode: AuthModeNone},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *AppConfig) {}},
		{name: "bad port", mutate: func(c *AppConfig) { c.Port = 0 }, wantErr: true},
		{name: "zero default limit", mutate: func(c *AppConfig) { c.Pagination.DefaultLimit = 0 }, wantErr: true},
		{name: "negative max limit", mutate: func(c *AppConfig) { c.Pagination.MaxLimit = -1 }, wantErr: true},
		{name: "default above max", mutate: func(c *AppConfig) { c.Pagination.DefaultLimit = 500 }},
		{name: "unknown driver", mutate: func(c *AppConfig) { c.DB.Driver = "mysql" }, wantErr: true},
		{name: "postgres without password", mutate: func(c *AppConfig) { c.DB.Driver = DriverPostgres }, wantErr: true},
		{name: "basic without password", mutate: func(c *AppConfig) {
			c.Auth = &AuthConfig{Mode: AuthModeBasic, Username: "admin"}
		}, wantErr: true},
		{name: "jwt without secret", mutate: func(c *AppConfig) { c.Auth = &AuthConfig{Mode: AuthModeJWT} }, wantErr: true},
		{name: "unknown auth mode", mutate: func(c *AppConfig) { c.Auth = &AuthConfig{Mode: "oauth"} }, wantErr: true},
		{name: "nil sections get defaults", mutate: func(c *AppConfig) {
			c.Pagination = nil
			c.Auth = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSQLiteDefaults(t *testing.T) {
	db := &DatabaseConfig{Driver: DriverSQLite}
	require.NoError(t, db.Validate())
	assert.True(t, filepath.IsAbs(db.Path))
	assert.Equal(t, "scaffold.db", filepath.Base(db.Path))

	memory := &DatabaseConfig{Driver: DriverSQLite, Path: "file:test?mode=memory&cache=shared"}
	require.NoError(t, memory.Validate())
	assert.Equal(t, "file:test?mode=memory&cache=shared", memory.Path)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "SCAFFOLD_TEST_DOTENV=loaded\n")
	t.Setenv("SCAFFOLD_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("SCAFFOLD_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("SCAFFOLD_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
