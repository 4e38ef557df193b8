// Root command for the notional CLI.
package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notional/internal/paths"
	"github.com/mesh-intelligence/notional/pkg/notional"
	"github.com/mesh-intelligence/notional/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagVerbose   bool
	flagFilters   []string
)

// client is the global client, initialized on startup for every command
// that talks to the backend.
var client *notional.Client

var rootCmd = &cobra.Command{
	Use:     "notional",
	Short:   "Notional reads and writes block-backed tables from the command line",
	Version: notional.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "init" {
			return nil
		}
		slog.SetDefault(newLogger())
		return initClient()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeClient()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for the key cache (default: $(CWD)/.notional)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(keysCmd)
}

// initClient loads config.yaml and builds the global client.
func initClient() error {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg := types.Config{
		Token:   v.GetString(cfgKeyToken),
		UserID:  v.GetString(cfgKeyUserID),
		BaseURL: v.GetString(cfgKeyBaseURL),
		Cache:   v.GetBool(cfgKeyCache),
	}
	if cfg.Cache {
		dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dataDir
	}

	client, err = notional.New(cfg, notional.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// closeClient releases the client's resources.
func closeClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}
