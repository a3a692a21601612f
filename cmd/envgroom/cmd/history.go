package cmd

import (
	"fmt"
	"time"

	"github.com/envgroom/envgroom/internal/audit"
	"github.com/envgroom/envgroom/internal/core/db"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent applied actions for a profile",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "number of entries (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	queries, err := db.LoadQueries(database)
	if err != nil {
		return err
	}

	limit := historyLimit
	if limit <= 0 {
		limit = cfg.HistoryLimit
	}

	log := audit.NewLog(queries)
	entries, err := log.Recent(cfg.Profile, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "no history for profile %s\n", cfg.Profile)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s -> %s  (%s)\n",
			e.Timestamp.Format(time.RFC3339), e.Action.OldName, e.Action.NewName, e.Action.Reason)
	}

	total, err := log.Count(cfg.Profile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "showing %d of %d entries\n", len(entries), total)
	return nil
}
