// Init command writes the default configuration file.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notional/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration file",
	Long: `Init creates the configuration directory and writes a default
config.yaml for you to fill in with your token and user id.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		if _, err := loadConfig(configDir); err != nil {
			return err
		}
		fmt.Println("wrote", filepath.Join(configDir, configFileExt))
		return nil
	},
}
