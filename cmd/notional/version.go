// Version command for the notional CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notional/pkg/notional"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the notional version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("notional", notional.Version)
	},
}
