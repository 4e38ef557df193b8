// Schema command prints a table's schema.
package main

import (
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <page-url>",
	Short: "Print a table's schema",
	Long:  `Schema prints the table's visible columns: display name, internal id, and type.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := client.Table(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		schema, err := table.Schema(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(schema)
	},
}
