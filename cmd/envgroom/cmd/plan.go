package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/envgroom/envgroom/internal/apply"
	"github.com/envgroom/envgroom/internal/core/db"
	"github.com/envgroom/envgroom/internal/plan"
	"github.com/envgroom/envgroom/internal/rules"
	"github.com/envgroom/envgroom/internal/types"
	"github.com/spf13/cobra"
)

var (
	planEnvFile string
	planJSON    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute rename suggestions for a snapshot without changing anything",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planEnvFile, "env-file", "", "snapshot file, .env or .json (required)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "emit the action list as JSON")
	planCmd.MarkFlagRequired("env-file")
}

// compiledRules loads the profile's stored rules and, when configured,
// evaluates the built-in heuristic seeds ahead of them.
func compiledRules(profileName string, queries *db.Queries, heuristics bool) (*rules.CompiledSet, error) {
	store, _, err := openStore(profileName, queries)
	if err != nil {
		return nil, err
	}
	compiled := store.Compiled()
	if heuristics {
		compiled, err = plan.MergeSeeds(plan.Heuristics(), compiled)
		if err != nil {
			return nil, fmt.Errorf("built-in heuristic rules failed to compile: %w", err)
		}
	}
	return compiled, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	compiled, err := compiledRules(cfg.Profile, queries, cfg.Heuristics)
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(planEnvFile)
	if err != nil {
		return err
	}

	result, err := plan.Plan(compiled, snap)
	var conflictErr *types.ConflictError
	if errors.As(err, &conflictErr) {
		printConflicts(cmd, conflictErr)
		return fmt.Errorf("plan has %d conflict(s); resolve the rules before applying", len(conflictErr.Conflicts))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if planJSON {
		encoded, err := json.MarshalIndent(result.Actions, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(encoded))
		return nil
	}

	if len(result.Actions) == 0 {
		fmt.Fprintln(out, "no changes suggested")
		return nil
	}
	for _, a := range result.Actions {
		fmt.Fprintln(out, apply.DescribeAction(a))
	}
	fmt.Fprintf(out, "%d suggestion(s)\n", len(result.Actions))
	return nil
}

func printConflicts(cmd *cobra.Command, conflictErr *types.ConflictError) {
	out := cmd.ErrOrStderr()
	for _, c := range conflictErr.Conflicts {
		fmt.Fprintf(out, "conflict: %s\n", c.String())
	}
}
