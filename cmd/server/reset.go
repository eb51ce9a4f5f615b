package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"krishibondhu/pkg/logging"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard local content and restore the built-in data set",
	Long: `Reset clears every collection saved in the local database. The next server
start seeds from the built-in data set and then refreshes from the remote store.
Remote tables are not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		a, err := openStore(cfg, log)
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.store.ResetAll(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.store.Close(ctx)

		fmt.Fprintf(cmd.OutOrStdout(), "local data in %s reset\n", cfg.DBPath)
		return nil
	},
}
