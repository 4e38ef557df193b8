// Update command applies a JSON payload to matching rows.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <page-url> <data-json>",
	Short: "Update matching rows in a table",
	Long: `Update applies the JSON object to every row matching the filters,
keyed by column display name. Without filters, every row matches.

Example:
  notional update https://www.notion.so/acme/03a3b3... '{"Done": true}' --filter Name=dods`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data map[string]any
		if err := json.Unmarshal([]byte(args[1]), &data); err != nil {
			return fmt.Errorf("parse data: want a JSON object: %w", err)
		}

		filters, err := parseFilters(flagFilters)
		if err != nil {
			return err
		}

		table, err := client.Table(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		result, err := table.UpdateRows(cmd.Context(), data, filters)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	updateCmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "row filter as name=value (repeatable)")
}
