// internal/plan/planner.go
package plan

import (
	"strings"

	"github.com/envgroom/envgroom/internal/rules"
	"github.com/envgroom/envgroom/internal/types"
)

/*
 * Suggestion planner.
 *
 * Transforms a snapshot of variable names into an ordered, non-conflicting
 * list of rename actions. Pure computation over read-only inputs; the rule
 * set and snapshot are never mutated.
 *
 * Per variable, in snapshot order:
 *   1. Exclusion check: any matching exclusion rule makes the variable
 *      immune to every other category.
 *   2. Naming rules, first match wins: decides the target case, staging
 *      normalize(name, case) as the working name.
 *   3. Prefix rules, first match wins: matched against the ORIGINAL name
 *      (predictable detection). The winning rule prepends its prefix to the
 *      staged name, or leaves it alone when already present (idempotency);
 *      either way it claims the variable for this category.
 *   4. Transform rules, first match wins: matched against and applied to
 *      the staged name (categories compose in sequence).
 *   5. A staged name different from the original emits one rename action.
 *
 * Each variable passes through each category at most once, so planning
 * terminates regardless of rule authoring mistakes.
 *
 * Conflict detection runs over the full candidate list afterwards: duplicate
 * targets and targets colliding with untouched existing variables abort the
 * batch with *types.ConflictError carrying every offending pair. The planner
 * never silently picks a winner.
 *
 * Determinism: actions carry no IDs or timestamps at planning time (the
 * applier stamps them), so identical inputs produce byte-identical output.
 */

// Result is the planner's output: the ordered candidate actions plus any
// conflicts found among their targets. When Conflicts is non-empty the
// actions must not be applied; both sides of every conflict remain in
// Actions so callers can present them unresolved.
type Result struct {
	Actions   []types.Action
	Conflicts []types.Conflict
}

// Plan generates rename actions for snap from the compiled rule set.
// Returns *types.ConflictError when two actions target the same final name
// or a target collides with an untouched existing variable.
func Plan(cs *rules.CompiledSet, snap *types.Snapshot) (Result, error) {
	return PlanWith(cs, snap, nil)
}

// PlanWith additionally folds in externally supplied candidate actions
// (for example from a metadata-analysis collaborator). Suggestions pass
// through the same exclusion and conflict logic as rule-generated actions;
// a suggestion for a variable the rules already rename is dropped in favor
// of the rule-generated action, keeping one action per variable.
func PlanWith(cs *rules.CompiledSet, snap *types.Snapshot, suggestions []types.Action) (Result, error) {
	var actions []types.Action
	if cs.Enabled {
		for _, name := range snap.Names() {
			if action, ok := planName(cs, name); ok {
				actions = append(actions, action)
			}
		}
	}

	claimed := make(map[string]bool, len(actions))
	for _, a := range actions {
		claimed[a.OldName] = true
	}
	for _, s := range suggestions {
		if s.OldName == s.NewName || claimed[s.OldName] {
			continue
		}
		if cs.Enabled && excluded(cs, s.OldName) {
			continue
		}
		if !snap.Has(s.OldName) {
			continue
		}
		claimed[s.OldName] = true
		actions = append(actions, types.Action{
			Type:    types.ActionRename,
			OldName: s.OldName,
			NewName: s.NewName,
			Reason:  s.Reason,
			Source:  types.SourceCustom,
		})
	}

	conflicts := detectConflicts(actions, snap)
	result := Result{Actions: actions, Conflicts: conflicts}
	if len(conflicts) > 0 {
		return result, &types.ConflictError{Conflicts: conflicts}
	}
	return result, nil
}

// planName runs one variable through the category pipeline. Returns the
// staged rename action and true when the final name differs.
func planName(cs *rules.CompiledSet, name string) (types.Action, bool) {
	if excluded(cs, name) {
		return types.Action{}, false
	}

	staged := name
	var reasons []string

	// Naming: first matching rule decides the target case.
	for _, r := range cs.Naming {
		if !r.Matches(name) {
			continue
		}
		if candidate := rules.Normalize(staged, r.Rule.TargetCase); candidate != staged {
			staged = candidate
			reasons = append(reasons, reasonOrDefault(r.Rule, "apply "+string(r.Rule.TargetCase)+" naming"))
		}
		break
	}

	// Prefix: matched against the original name so detection stays
	// predictable. The first matching rule claims the variable; a staged
	// name already carrying that prefix stays as-is rather than falling
	// through to later groups, or names matching several groups would gain
	// a new prefix on every replan.
	for _, r := range cs.Prefix {
		prefix := r.Rule.Prefix
		if prefix == "" || !r.Matches(name) {
			continue
		}
		if !strings.HasPrefix(staged, prefix) {
			staged = prefix + staged
			reasons = append(reasons, reasonOrDefault(r.Rule, "add prefix "+prefix))
		}
		break
	}

	// Transform: matched against the staged name, the previous stage's output.
	for _, r := range cs.Transform {
		if !r.Matches(staged) {
			continue
		}
		if candidate := r.Transform(staged); candidate != staged {
			staged = candidate
			reasons = append(reasons, reasonOrDefault(r.Rule, "apply transform "+r.Rule.Transform.String()))
		}
		break
	}

	if staged == name {
		return types.Action{}, false
	}
	return types.Action{
		Type:    types.ActionRename,
		OldName: name,
		NewName: staged,
		Reason:  strings.Join(reasons, "; "),
		Source:  types.SourceRuleEngine,
	}, true
}

// excluded reports whether any exclusion rule matches name.
func excluded(cs *rules.CompiledSet, name string) bool {
	for _, r := range cs.Exclusions {
		if r.Matches(name) {
			return true
		}
	}
	return false
}

func reasonOrDefault(r types.Rule, fallback string) string {
	if r.Description != "" {
		return r.Description
	}
	return fallback
}

// detectConflicts finds duplicate targets among the candidate actions and
// targets that collide with snapshot variables no action touches. Conflicts
// are reported in first-occurrence order for deterministic output.
func detectConflicts(actions []types.Action, snap *types.Snapshot) []types.Conflict {
	renamed := make(map[string]bool, len(actions))
	for _, a := range actions {
		renamed[a.OldName] = true
	}

	byTarget := make(map[string][]string, len(actions))
	var order []string
	for _, a := range actions {
		if _, seen := byTarget[a.NewName]; !seen {
			order = append(order, a.NewName)
		}
		byTarget[a.NewName] = append(byTarget[a.NewName], a.OldName)
	}

	var conflicts []types.Conflict
	for _, target := range order {
		sources := byTarget[target]
		// A target occupied by a variable that is itself being renamed away
		// is not a collision; the applier frees it in the same batch only if
		// ordering permits, so we still flag occupied-and-untouched targets.
		existing := snap.Has(target) && !renamed[target]
		if len(sources) > 1 || existing {
			conflicts = append(conflicts, types.Conflict{
				NewName:        target,
				OldNames:       sources,
				ExistingTarget: existing,
			})
		}
	}
	return conflicts
}
