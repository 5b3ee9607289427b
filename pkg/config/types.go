/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"
	"slices"

	"github.com/masteryyh/scaffold/pkg/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"
	AuthModeBasic AuthMode = "basic"
	AuthModeJWT   AuthMode = "jwt"
)

// AppConfig is the config definition for the scaffold server
type AppConfig struct {
	// Development enables text logs, gin debug mode and stack traces in error responses
	Development bool `mapstructure:"development" yaml:"development"`

	// Port of the HTTP server
	Port int `mapstructure:"port" yaml:"port"`

	DB *DatabaseConfig `mapstructure:"db" yaml:"db"`

	Pagination *PaginationConfig `mapstructure:"pagination" yaml:"pagination"`

	// Auth guards the write routes, disabled when mode is none
	Auth *AuthConfig `mapstructure:"auth" yaml:"auth"`
}

// DatabaseConfig selects the gorm driver and its connection settings
type DatabaseConfig struct {
	// Driver is either postgres or sqlite
	Driver string `mapstructure:"driver" yaml:"driver"`

	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
	SSLMode  string `mapstructure:"sslMode" yaml:"sslMode"`

	// Path of the sqlite database file
	Path string `mapstructure:"path" yaml:"path"`
}

type PaginationConfig struct {
	DefaultLimit int `mapstructure:"defaultLimit" yaml:"defaultLimit"`
	MaxLimit     int `mapstructure:"maxLimit" yaml:"maxLimit"`
}

type AuthConfig struct {
	Mode AuthMode `mapstructure:"mode" yaml:"mode"`

	// Username and Password for basic mode
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// JWTSecret signs HS256 bearer tokens in jwt mode
	JWTSecret string `mapstructure:"jwtSecret" yaml:"jwtSecret"`
	JWTIssuer string `mapstructure:"jwtIssuer" yaml:"jwtIssuer"`
}

func (c *DatabaseConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if !slices.Contains([]string{DriverPostgres, DriverSQLite}, c.Driver) {
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	if c.Driver == DriverSQLite {
		if c.Path == "" {
			c.Path = "scaffold.db"
		}
		cleaned, err := utils.CleanDatabasePath(c.Path)
		if err != nil {
			return fmt.Errorf("invalid sqlite path %q: %w", c.Path, err)
		}
		c.Path = cleaned
		return nil
	}

	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 5432
	}
	if c.Username == "" {
		c.Username = "postgres"
	}
	if c.Password == "" {
		return fmt.Errorf("database password is required")
	}
	if c.Database == "" {
		c.Database = "scaffold"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	return nil
}

// Validate rejects non-positive limits. A default above the maximum is
// allowed; it is clamped when pagination options are derived.
func (c *PaginationConfig) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("pagination default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit <= 0 {
		return fmt.Errorf("pagination max limit must be positive, got %d", c.MaxLimit)
	}
	return nil
}

func (c *AuthConfig) Enabled() bool {
	return c != nil && c.Mode != "" && c.Mode != AuthModeNone
}

func (c *AuthConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}

	switch c.Mode {
	case AuthModeBasic:
		if c.Username == "" {
			return fmt.Errorf("auth username is required in basic mode")
		}
		if c.Password == "" {
			return fmt.Errorf("auth password is required in basic mode")
		}
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("auth jwt secret is required in jwt mode")
		}
	default:
		return fmt.Errorf("unsupported auth mode: %s", c.Mode)
	}
	return nil
}

func (c *AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}

	if c.DB == nil {
		c.DB = &DatabaseConfig{}
	}
	if c.Pagination == nil {
		c.Pagination = &PaginationConfig{DefaultLimit: 10, MaxLimit: 100}
	}
	if c.Auth == nil {
		c.Auth = &AuthConfig{Mode: AuthModeNone}
	}

	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("invalid pagination config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	return c.DB.Validate()
}
