// Keys command resolves and inspects table keys.
package main

import (
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys [page-url]",
	Short: "Resolve a page URL to table keys, or list the cached entries",
	Long: `Keys resolves the given page URL to its collection and view ids.
Without an argument, it lists every cached url → keys entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			cached, err := client.CachedTableKeys()
			if err != nil {
				return err
			}
			return printJSON(cached)
		}

		keys, err := client.TableKeysFromURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(keys)
	},
}
