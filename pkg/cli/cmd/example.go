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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masteryyh/scaffold/pkg/models"
	"github.com/masteryyh/scaffold/pkg/utils/pagination"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var exampleCmd = &cobra.Command{
	Use:     "examples",
	Aliases: []string{"example"},
	Short:   "Manage examples",
	Long:    `Create, list, update and delete examples`,
}

func renderExamples(examples []models.ExampleDto) error {
	tableData := pterm.TableData{
		{"ID", "Name", "Created At"},
	}
	for _, e := range examples {
		tableData = append(tableData, []string{e.ID.String(), e.Name, e.CreatedAt.Local().Format(time.DateTime)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

var exampleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetClient()

		all, _ := cmd.Flags().GetBool("all")
		if all {
			examples, err := c.ListExamples(cmd.Context())
			if err != nil {
				return err
			}
			if len(examples) == 0 {
				pterm.Warning.Println("No examples found")
				return nil
			}
			return renderExamples(examples)
		}

		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		sortBy, _ := cmd.Flags().GetString("sort-by")
		sortOrder, _ := cmd.Flags().GetString("sort-order")

		result, err := c.ListExamplesPaginated(cmd.Context(), pagination.Query{
			Page:      positive(page),
			Limit:     positive(limit),
			SortBy:    sortBy,
			SortOrder: sortOrder,
		})
		if err != nil {
			return err
		}

		if len(result.Data) == 0 {
			pterm.Warning.Println("No examples found")
			return nil
		}
		if err := renderExamples(result.Data); err != nil {
			return err
		}
		meta := result.Pagination
		pterm.Info.Printf("Total: %d, Page: %d/%d\n", meta.Total, meta.Page, meta.TotalPages)
		return nil
	},
}

var exampleGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one example",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The id is sent as typed so the server reports malformed ones.
		example, err := GetClient().GetExample(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderExamples([]models.ExampleDto{*example})
	},
}

func nameFromArgsOrPrompt(args []string, prompt, current string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("name is required when not running in an interactive terminal")
	}

	input := pterm.DefaultInteractiveTextInput
	if current != "" {
		input = *input.WithDefaultValue(current)
	}
	name, err := input.Show(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

var exampleCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an example",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := nameFromArgsOrPrompt(args, "Example name", "")
		if err != nil {
			return err
		}

		example, err := GetClient().CreateExample(cmd.Context(), &models.CreateExampleDto{Name: name})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Example created: %s (%s)\n", example.Name, example.ID)
		return nil
	},
}

var exampleUpdateCmd = &cobra.Command{
	Use:   "update <id> [name]",
	Short: "Rename an example",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid example id %q: %w", args[0], err)
		}

		c := GetClient()
		current := ""
		if len(args) == 1 {
			existing, err := c.GetExample(cmd.Context(), id.String())
			if err != nil {
				return err
			}
			current = existing.Name
		}

		name, err := nameFromArgsOrPrompt(args[1:], "Name", current)
		if err != nil {
			return err
		}
		if name == current {
			pterm.Info.Println("No changes detected, skipping update")
			return nil
		}

		updated, err := c.UpdateExample(cmd.Context(), id, &models.UpdateExampleDto{Name: name})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Example updated: %s\n", updated.Name)
		return nil
	},
}

var exampleDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete examples",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uuid.UUID, 0, len(args))
		for _, arg := range lo.Uniq(args) {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid example id %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("refusing to delete without --yes outside an interactive terminal")
			}
			confirm, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete %d example(s)?", len(ids)))
			if err != nil {
				return err
			}
			if !confirm {
				pterm.Info.Println("Cancelled")
				return nil
			}
		}

		c := GetClient()
		for _, id := range ids {
			if err := c.DeleteExample(cmd.Context(), id); err != nil {
				return err
			}
			pterm.Success.Printf("Example deleted: %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)

	exampleCmd.AddCommand(exampleListCmd)
	exampleListCmd.Flags().Bool("all", false, "List every example without pagination")
	exampleListCmd.Flags().Int("page", 1, "Page number")
	exampleListCmd.Flags().Int("limit", 10, "Page size")
	exampleListCmd.Flags().String("sort-by", "", "Sort column (name or createdAt)")
	exampleListCmd.Flags().String("sort-order", "", "Sort order (asc or desc)")

	exampleCmd.AddCommand(exampleGetCmd)
	exampleCmd.AddCommand(exampleCreateCmd)
	exampleCmd.AddCommand(exampleUpdateCmd)

	exampleCmd.AddCommand(exampleDeleteCmd)
	exampleDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
