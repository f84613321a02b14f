package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"folio/internal/api"
	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/models"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	globalConfig *config.Config
	logger       = zap.NewNop()

	// Persistent flag values
	configPath        string
	serverURLOverride string
	verbose           bool
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio - publish projects and their files to the portfolio gallery",
	Long: `Folio is a command-line tool for the project portfolio gallery.
It creates a project from a title, description and category, then uploads
the selected files to it one at a time, reporting each file's outcome.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if serverURLOverride != "" {
			// web_url follows server_url unless it was set on its own
			if cfg.WebURL == cfg.ServerURL {
				cfg.WebURL = strings.TrimRight(serverURLOverride, "/")
			}
			cfg.ServerURL = strings.TrimRight(serverURLOverride, "/")
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		logCfg := logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}
		if verbose {
			logCfg.Level = "debug"
		}
		l, err := logging.New(logCfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		globalConfig = cfg
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// tokenStore returns the session token store in the configuration directory
func tokenStore() (*models.TokenStore, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return models.NewTokenStore(dir), nil
}

// newClient creates an API client for the configured server
func newClient() (*api.Client, error) {
	store, err := tokenStore()
	if err != nil {
		return nil, err
	}

	return api.NewClient(globalConfig.ServerURL, store,
		api.WithTimeout(globalConfig.Timeout),
		api.WithRateLimit(globalConfig.RateLimit),
		api.WithLogger(logger.Named("api")),
	)
}

// requireLogin returns a client that carries a session token
func requireLogin() (*api.Client, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	if client.SessionToken == "" {
		return nil, fmt.Errorf("not logged in: run 'folio login' first")
	}
	return client, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.folio/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURLOverride, "server-url", "", "API server URL (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
