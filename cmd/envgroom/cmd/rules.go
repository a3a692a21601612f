package cmd

import (
	"fmt"

	"github.com/envgroom/envgroom/internal/core/db"
	"github.com/envgroom/envgroom/internal/core/storage"
	"github.com/envgroom/envgroom/internal/rules"
	"github.com/envgroom/envgroom/internal/types"
	"github.com/spf13/cobra"
)

var (
	rulePattern     string
	ruleDescription string
	ruleCase        string
	rulePrefix      string
	ruleOp          string
	ruleCategory    string
	ruleIndex       int
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage transformation rules for a profile",
}

var rulesAddCmd = &cobra.Command{
	Use:   "add CATEGORY",
	Short: "Add a rule (category: exclusion, naming, prefix, transform)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesAdd,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rules",
	RunE:  runRulesList,
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a rule by category and index",
	RunE:  runRulesRemove,
}

var rulesEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the profile's rule set",
	RunE:  func(cmd *cobra.Command, args []string) error { return setRulesEnabled(cmd, true) },
}

var rulesDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the profile's rule set (planning yields no actions)",
	RunE:  func(cmd *cobra.Command, args []string) error { return setRulesEnabled(cmd, false) },
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesAddCmd, rulesListCmd, rulesRemoveCmd, rulesEnableCmd, rulesDisableCmd)

	rulesAddCmd.Flags().StringVar(&rulePattern, "pattern", "", "regular expression matched against variable names (required)")
	rulesAddCmd.Flags().StringVar(&ruleDescription, "description", "", "human-readable description")
	rulesAddCmd.Flags().StringVar(&ruleCase, "case", "", "target case for naming rules (uppercase, lowercase, snake_case, screaming_snake_case, camel_case, pascal_case)")
	rulesAddCmd.Flags().StringVar(&rulePrefix, "prefix", "", "prefix for prefix rules")
	rulesAddCmd.Flags().StringVar(&ruleOp, "op", "", "operation for transform rules (replace:OLD:NEW, regex:PATTERN:REPLACEMENT[:FLAGS], remove_prefix:P, remove_suffix:S)")
	rulesAddCmd.MarkFlagRequired("pattern")

	rulesListCmd.Flags().StringVar(&ruleCategory, "category", "", "limit listing to one category")

	rulesRemoveCmd.Flags().StringVar(&ruleCategory, "category", "", "rule category (required)")
	rulesRemoveCmd.Flags().IntVar(&ruleIndex, "index", -1, "rule index within the category (required)")
	rulesRemoveCmd.MarkFlagRequired("category")
	rulesRemoveCmd.MarkFlagRequired("index")
}

// openStore loads the profile's persisted rule set into a compiled store.
func openStore(profileName string, queries *db.Queries) (*rules.Store, *storage.RuleRepository, error) {
	repo := storage.NewRuleRepository(queries)
	set, err := repo.Load(profileName)
	if err != nil {
		return nil, nil, err
	}
	store, err := rules.NewStoreFromSet(set)
	if err != nil {
		return nil, nil, fmt.Errorf("stored rules failed to compile: %w", err)
	}
	return store, repo, nil
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	category, err := types.ParseCategory(args[0])
	if err != nil {
		return err
	}

	rule := types.Rule{
		Category:    category,
		Pattern:     rulePattern,
		Description: ruleDescription,
	}
	switch category {
	case types.CategoryNaming:
		tc, err := types.ParseCase(ruleCase)
		if err != nil {
			return fmt.Errorf("naming rules need --case: %w", err)
		}
		rule.TargetCase = tc
	case types.CategoryPrefix:
		if rulePrefix == "" {
			return fmt.Errorf("prefix rules need --prefix")
		}
		rule.Prefix = rulePrefix
	case types.CategoryTransform:
		spec, err := types.ParseTransformSpec(ruleOp)
		if err != nil {
			return fmt.Errorf("transform rules need --op: %w", err)
		}
		rule.Transform = spec
	}

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

	store, repo, err := openStore(cfg.Profile, queries)
	if err != nil {
		return err
	}

	idx, err := store.Add(rule)
	if err != nil {
		return err
	}
	if err := repo.Save(cfg.Profile, store.ListAll()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %s rule at index %d\n", category, idx)
	return nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
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

	store, _, err := openStore(cfg.Profile, queries)
	if err != nil {
		return err
	}

	categories := types.Categories
	if ruleCategory != "" {
		c, err := types.ParseCategory(ruleCategory)
		if err != nil {
			return err
		}
		categories = []types.Category{c}
	}

	out := cmd.OutOrStdout()
	if !store.Enabled() {
		fmt.Fprintln(out, "(rule set disabled)")
	}
	for _, c := range categories {
		list := store.List(c)
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s:\n", c)
		for i, r := range list {
			fmt.Fprintf(out, "  [%d] %s%s\n", i, r.Pattern, ruleDetail(r))
		}
	}
	return nil
}

func ruleDetail(r types.Rule) string {
	detail := ""
	switch r.Category {
	case types.CategoryNaming:
		detail = " -> " + string(r.TargetCase)
	case types.CategoryPrefix:
		detail = " -> prefix " + r.Prefix
	case types.CategoryTransform:
		detail = " -> " + r.Transform.String()
	}
	if r.Description != "" {
		detail += " (" + r.Description + ")"
	}
	return detail
}

func runRulesRemove(cmd *cobra.Command, args []string) error {
	category, err := types.ParseCategory(ruleCategory)
	if err != nil {
		return err
	}

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

	store, repo, err := openStore(cfg.Profile, queries)
	if err != nil {
		return err
	}

	removed, err := store.Remove(category, ruleIndex)
	if err != nil {
		return err
	}
	if err := repo.Save(cfg.Profile, store.ListAll()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s rule %q; subsequent indices shifted down\n", category, removed.Pattern)
	return nil
}

func setRulesEnabled(cmd *cobra.Command, enabled bool) error {
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

	store, repo, err := openStore(cfg.Profile, queries)
	if err != nil {
		return err
	}
	store.SetEnabled(enabled)
	if err := repo.Save(cfg.Profile, store.ListAll()); err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rule set %s for profile %s\n", state, cfg.Profile)
	return nil
}
