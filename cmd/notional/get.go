// Get command fetches and prints a table's rows.
package main

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <page-url>",
	Short: "Fetch rows from a table",
	Long: `Get fetches the rows of the table on the given page, decoded to
plain values, optionally narrowed by filters.

Example:
  notional get https://www.notion.so/acme/03a3b3... --filter Name=dods`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFilters(flagFilters)
		if err != nil {
			return err
		}

		table, err := client.Table(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rows, err := table.GetRows(cmd.Context(), filters)
		if err != nil {
			return err
		}
		return printJSON(rows)
	},
}

func init() {
	getCmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "row filter as name=value (repeatable)")
}
