package cmd

import (
	"fmt"
	"sort"

	"github.com/masteryyh/scaffold/pkg/services"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show the server health report",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := GetClient().Health(cmd.Context())
		if err != nil {
			return err
		}

		checks := map[string]*services.HealthCheckResult{
			"database": report.Checks.Database,
			"memory":   report.Checks.Memory,
			"disk":     report.Checks.Disk,
		}
		names := make([]string, 0, len(checks))
		for name, check := range checks {
			if check != nil {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		tableData := pterm.TableData{{"Check", "Status", "Message"}}
		for _, name := range names {
			tableData = append(tableData, []string{name, string(checks[name].Status), checks[name].Message})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
			return err
		}

		summary := fmt.Sprintf("Overall: %s, version %s, uptime %ds", report.Status, report.Version, report.Uptime/1000)
		switch report.Status {
		case services.HealthStatusHealthy:
			pterm.Success.Println(summary)
		case services.HealthStatusDegraded:
			pterm.Warning.Println(summary)
		default:
			pterm.Error.Println(summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
