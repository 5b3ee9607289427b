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
	"os"

	"github.com/masteryyh/scaffold/pkg/cli/api"
	"github.com/masteryyh/scaffold/pkg/utils/signal"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	baseURL string
)

var rootCmd = &cobra.Command{
	Use:           "scaffoldctl",
	Short:         "Command line client for the scaffold API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func GetClient() *api.Client {
	cfg := GetCLIConfig()

	url := cfg.BaseURL
	if baseURL != "" {
		url = baseURL
	}

	var opts []api.Option
	switch {
	case cfg.Token != "":
		opts = append(opts, api.WithBearerToken(cfg.Token))
	case cfg.Username != "":
		opts = append(opts, api.WithBasicAuth(cfg.Username, cfg.Password))
	}
	return api.NewClient(url, opts...)
}

func Execute() {
	ctx, cancel := signal.SetupContext()
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	apiErr, ok := api.AsError(err)
	if !ok {
		pterm.Error.Println(err)
		return
	}

	if len(apiErr.Details) == 0 {
		pterm.Error.Println(apiErr.Error())
		return
	}

	pterm.Error.Printf("%s (%d)\n", apiErr.Message, apiErr.StatusCode)
	tableData := pterm.TableData{{"Field", "Message", "Code"}}
	for field, detail := range apiErr.Details {
		tableData = append(tableData, []string{field, detail.Message, detail.Value})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "CLI config file (default is $HOME/.scaffold/cli-config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL, overrides the config file")
}
