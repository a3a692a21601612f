package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/envgroom/envgroom/internal/apply"
	"github.com/envgroom/envgroom/internal/audit"
	"github.com/envgroom/envgroom/internal/core/db"
	"github.com/envgroom/envgroom/internal/plan"
	"github.com/envgroom/envgroom/internal/types"
	"github.com/spf13/cobra"
)

var (
	applyEnvFile string
	applyPreview bool
	applyYes     bool
	applyOut     string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Plan and execute renames against a snapshot",
	Long: `Plans renames for the snapshot and applies them, writing the renamed
snapshot back out and recording every applied action in the audit log.
Values move byte-for-byte and are never printed.`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&applyEnvFile, "env-file", "", "snapshot file, .env or .json (required)")
	applyCmd.Flags().BoolVar(&applyPreview, "preview", false, "validate the plan without mutating or auditing anything")
	applyCmd.Flags().BoolVar(&applyYes, "yes", false, "apply without the interactive confirmation")
	applyCmd.Flags().StringVar(&applyOut, "out", "", "write the renamed snapshot here instead of overwriting --env-file")
	applyCmd.MarkFlagRequired("env-file")
}

func runApply(cmd *cobra.Command, args []string) error {
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
	snap, err := loadSnapshot(applyEnvFile)
	if err != nil {
		return err
	}

	planned, err := plan.Plan(compiled, snap)
	var conflictErr *types.ConflictError
	if errors.As(err, &conflictErr) {
		printConflicts(cmd, conflictErr)
		return fmt.Errorf("plan has %d conflict(s); nothing applied", len(conflictErr.Conflicts))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(planned.Actions) == 0 {
		fmt.Fprintln(out, "no changes suggested")
		return nil
	}

	for _, a := range planned.Actions {
		fmt.Fprintln(out, apply.DescribeAction(a))
	}

	if applyPreview {
		result := apply.Preview(planned.Actions, snap)
		printApplyErrors(cmd, result)
		summary := apply.Summarize(result)
		fmt.Fprintf(out, "preview: %d action(s), %d would succeed, %d would fail\n",
			summary.Total, summary.Successful, summary.Failed)
		return nil
	}

	if !applyYes && !confirm(cmd, len(planned.Actions)) {
		fmt.Fprintln(out, "aborted")
		return nil
	}

	result := apply.Apply(cfg.Profile, planned.Actions, snap, audit.NewLog(queries))
	printApplyErrors(cmd, result)

	target := applyOut
	if target == "" {
		target = applyEnvFile
	}
	if err := writeSnapshot(target, result.Snapshot); err != nil {
		return err
	}

	summary := apply.Summarize(result)
	fmt.Fprintf(out, "applied %d of %d action(s) (%d failed); snapshot written to %s\n",
		summary.Successful, summary.Total, summary.Failed, target)
	if summary.Failed > 0 {
		return fmt.Errorf("%d action(s) failed", summary.Failed)
	}
	return nil
}

func printApplyErrors(cmd *cobra.Command, result apply.Result) {
	out := cmd.ErrOrStderr()
	for _, e := range result.Errors {
		fmt.Fprintf(out, "failed: %s\n", e.Error())
	}
	// Audit failures are warnings: the rename stood, only its history entry
	// is missing.
	for _, e := range result.AuditErrors {
		fmt.Fprintf(out, "warning: %s\n", e.Error())
	}
}

func confirm(cmd *cobra.Command, count int) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "apply %d action(s)? [y/N] ", count)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
