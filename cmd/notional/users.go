// Users command prints the workspace member list.
package main

import (
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users <page-url>",
	Short: "Print the workspace members visible from a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := client.Table(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		users, err := table.Users(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(users)
	},
}
