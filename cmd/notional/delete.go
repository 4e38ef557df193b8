// Delete command soft-deletes matching rows.
package main

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <page-url>",
	Short: "Soft-delete matching rows from a table",
	Long: `Delete marks every row matching the filters as not alive. The rows
stay linked to their collection and can be restored from the backend's
trash. Without filters, every row matches.

Example:
  notional delete https://www.notion.so/acme/03a3b3... --filter Name=dods`,
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

		result, err := table.DeleteRows(cmd.Context(), filters)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	deleteCmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "row filter as name=value (repeatable)")
}
