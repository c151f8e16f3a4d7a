// Package cli provides the pilot command-line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interview-pilot/internal/config"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// Build information, set from main.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	verbose    bool

	// appConfig is resolved once per process by loadConfig.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Interview Pilot: practice interviews grounded in your own notes",
	Long: `Interview Pilot runs mock interviews backed by a knowledge base of
interview guides, question banks and notes.

Build the knowledge base with 'pilot ingest', rehearse in the terminal with
'pilot practice', or expose retrieval and scoring to an AI assistant with
'pilot mcp serve'.

Configuration is read from ~/.interview-pilot/config.toml, a .env file in
the working directory and the environment, in increasing precedence.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion records build information for the version command.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
}

// Execute runs the root command until it returns or an interrupt arrives.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig resolves configuration and applies the log level.
// Credentials are checked by the commands that need them.
func loadConfig(_ *cobra.Command, _ []string) error {
	if appConfig == nil {
		cfg, err := config.LoadSettings(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg
	}

	if level, ok := logger.ParseLevel(appConfig.EffectiveLogLevel()); ok {
		logger.SetLevel(level)
	}
	if verbose {
		logger.SetVerbose(true)
	}
	return nil
}
