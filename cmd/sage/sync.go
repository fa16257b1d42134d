package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eliseohh/sagebot/internal/index"
	"github.com/eliseohh/sagebot/internal/log"
)

var resetIndex bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync Canvas courses and assignments into the local index once",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()
		db, err := buildDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if resetIndex {
			log.GetLogger(log.CLIModule).Warn("resetting index")
			if err := db.Reset(); err != nil {
				return err
			}
		}

		stats, err := index.NewIndexer(db, buildCanvasClient()).Sync(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "courses=%d new=%d changed=%d failed=%d pruned=%d\n",
			stats.Courses, stats.New, stats.Changed, stats.Failed, stats.Pruned)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&resetIndex, "reset", false, "drop the index (including reminders) before syncing")
	rootCmd.AddCommand(syncCmd)
}
