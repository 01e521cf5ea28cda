package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/webring/internal/app"
	"github.com/MrSnakeDoc/webring/internal/config"
	"github.com/MrSnakeDoc/webring/internal/logger"
	"github.com/MrSnakeDoc/webring/internal/version"
)

var (
	logLevel string

	cfg          *config.Config
	loggerClient logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "webring",
	Short: "Serve and render the Saturn91 webring widget",
	Long: `webring renders the Saturn91 webring widget: it reads the ring's index
and category files, picks random links per category and mounts the widget
markup into a page.

Configuration comes from WEBRING_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		loggerClient = logger.New(cfg.LogLevel, cfg.PrettyLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if loggerClient != nil {
			_ = loggerClient.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the widget HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.New(cfg, loggerClient).Run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	// No config or logger needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
