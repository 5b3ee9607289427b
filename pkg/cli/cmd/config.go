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

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const defaultBaseURL = "http://localhost:3001"

type CLIConfig struct {
	BaseURL  string `mapstructure:"baseUrl" yaml:"baseUrl"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Token    string `mapstructure:"token" yaml:"token,omitempty"`
}

var cliConfig *CLIConfig

func loadCLIConfig() error {
	v := viper.New()
	v.SetConfigName("cli-config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SCAFFOLD_CLI")
	v.AutomaticEnv()

	v.SetDefault("baseUrl", defaultBaseURL)
	for _, key := range []string{"baseUrl", "username", "password", "token"} {
		_ = v.BindEnv(key)
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".scaffold"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading CLI config file: %w", err)
		}
	}

	cliConfig = &CLIConfig{}
	if err := v.Unmarshal(cliConfig); err != nil {
		return fmt.Errorf("unable to decode CLI config: %w", err)
	}
	return nil
}

func GetCLIConfig() *CLIConfig {
	if cliConfig == nil {
		if err := loadCLIConfig(); err != nil {
			cliConfig = &CLIConfig{
				BaseURL: defaultBaseURL,
			}
		}
	}
	return cliConfig
}

// Redacted hides the secrets for display.
func (c CLIConfig) Redacted() CLIConfig {
	if c.Password != "" {
		c.Password = "****"
	}
	if c.Token != "" {
		c.Token = "****"
	}
	return c
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the CLI configuration",
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the effective CLI configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadCLIConfig(); err != nil {
			return err
		}
		cfg := cliConfig.Redacted()
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configViewCmd)
}
