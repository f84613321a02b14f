package commands

import (
	"fmt"
	"os"

	"folio/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Folio configuration",
	Long: `View and update Folio configuration settings.
Every key can also be overridden with a FOLIO_ environment variable,
e.g. FOLIO_SERVER_URL.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get configuration value",
	Long:  "Display specific configuration value or all configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		// If no argument is provided, show all config
		if len(args) == 0 {
			fmt.Fprintln(out, "Current configuration:")
			for _, key := range config.Keys() {
				value, _ := globalConfig.Get(key)
				fmt.Fprintf(out, "%s: %s\n", key, value)
			}
			return nil
		}

		value, err := globalConfig.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set configuration value",
	Long:  "Update a configuration setting and save the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldValue, err := globalConfig.Get(args[0])
		if err != nil {
			return err
		}

		if err := globalConfig.Set(args[0], args[1]); err != nil {
			return err
		}

		if err := globalConfig.Save(globalConfig.Path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		newValue, _ := globalConfig.Get(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated: %s -> %s\n", args[0], oldValue, newValue)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  "Create a new configuration file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		force, _ := cmd.Flags().GetBool("force")

		// Check if config file exists
		if _, err := os.Stat(globalConfig.Path); err == nil && !force {
			fmt.Fprintln(out, "Configuration file already exists.")
			fmt.Fprintln(out, "Use 'folio config set' to modify existing configuration.")
			return nil
		}

		// Create default configuration
		cfg := &config.Config{
			ServerURL: config.DefaultServerURL,
			Timeout:   config.DefaultTimeout,
			LogLevel:  config.DefaultLogLevel,
			LogFormat: config.DefaultLogFormat,
		}

		// Override defaults with provided flags
		if serverURLOverride != "" {
			cfg.ServerURL = serverURLOverride
		}
		cfg.WebURL = cfg.ServerURL
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := cfg.Save(globalConfig.Path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Fprintln(out, "Configuration initialized successfully.")
		fmt.Fprintf(out, "Configuration file created at: %s\n", globalConfig.Path)
		return nil
	},
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show configuration file paths",
	Long:  "Display paths to the configuration file and the session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		store, err := tokenStore()
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Config paths:")
		fmt.Fprintf(out, "- Config file: %s (%s)\n", globalConfig.Path, existence(globalConfig.Path))
		fmt.Fprintf(out, "- Session token: %s (%s)\n", store.TokenFile, existence(store.TokenFile))
		return nil
	},
}

func existence(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "does not exist"
	}
	return "exists"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathsCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
