package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"krishibondhu/config"
)

var rootCmd = &cobra.Command{
	Use:   "krishibondhu",
	Short: "KrishiBondhu content and assistant server",
	Long: `KrishiBondhu serves the farmer-facing crop, news, market and weather content,
the AI crop doctor, and the admin content API.

Content is kept in a local SQLite database and mirrored to a hosted table store
when REMOTE_URL is set. Without it the server runs on local and built-in data.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	rootCmd.PersistentFlags().String("port", "", "listen port (overrides PORT)")
	rootCmd.PersistentFlags().String("db", "", "SQLite file (overrides DB_PATH)")
	rootCmd.AddCommand(serveCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies command-line overrides on top of the environment.
func loadConfig(cmd *cobra.Command) config.AppConfig {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	return cfg
}
