// Insert command creates new rows from JSON input.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var insertCmd = &cobra.Command{
	Use:   "insert <page-url> <rows-json>",
	Short: "Insert rows into a table",
	Long: `Insert creates one row per object in the given JSON input, which
may be a single object or an array of objects keyed by column display
name. Unknown column names are dropped with a warning.

Example:
  notional insert https://www.notion.so/acme/03a3b3... '[{"Name": "dods"}]'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := parseRows(args[1])
		if err != nil {
			return err
		}

		table, err := client.Table(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		result, err := table.InsertRows(cmd.Context(), rows)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

// parseRows accepts a JSON object or array of objects.
func parseRows(input string) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.Unmarshal([]byte(input), &rows); err == nil {
		return rows, nil
	}

	var row map[string]any
	if err := json.Unmarshal([]byte(input), &row); err != nil {
		return nil, fmt.Errorf("parse rows: want a JSON object or array of objects: %w", err)
	}
	return []map[string]any{row}, nil
}
