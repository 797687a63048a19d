package cmd

import (
	"fmt"

	"github.com/ccoveille/go-safecast"
	"github.com/dustin/go-humanize"
	"github.com/jon4hz/feedbox/internal/config"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display statistics about registered users, their feedback and the database storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Total Users: %s\n", humanize.Comma(stats.TotalUsers))
		fmt.Printf("Total Feedback: %s\n", humanize.Comma(stats.TotalFeedback))

		if len(stats.TopAuthors) > 0 {
			fmt.Println("\nTop Authors:")
			for _, author := range stats.TopAuthors {
				fmt.Printf("  %s: %s\n", author.Username, humanize.Comma(author.Count))
			}
		}

		storage, err := db.Storage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get storage info: %w", err)
		}

		fileSize, err := safecast.ToUint64(storage.FileSize)
		if err != nil {
			return fmt.Errorf("invalid database file size: %w", err)
		}

		fmt.Println("\nStorage:")
		fmt.Printf("  Database File: %s (%s)\n", storage.Path, humanize.Bytes(fileSize))
		fmt.Printf("  Disk Free: %s of %s (%.1f%% used)\n", humanize.Bytes(storage.DiskFree), humanize.Bytes(storage.DiskTotal), storage.DiskUsedPercent)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
