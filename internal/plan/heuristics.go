// internal/plan/heuristics.go
package plan

import (
	"github.com/envgroom/envgroom/internal/rules"
	"github.com/envgroom/envgroom/internal/types"
)

/*
 * Built-in heuristic seed rules.
 *
 * Encodes the standard hygiene suggestions as ordinary Rule values so the
 * planner treats built-in and custom rules uniformly: same precedence
 * semantics, same exclusion handling, same first-match-per-category logic.
 * Seeds are evaluated ahead of custom rules within each category.
 *
 * Heuristics:
 *   - secret-looking names (key/secret/token/password) in lowercase get
 *     uppercased
 *   - unseparated mixed-case names get uppercased for consistency
 *   - service-group candidates (database/api/auth/aws/redis/email keywords)
 *     get a grouping prefix
 *
 * None of the patterns re-match their own output: the naming heuristics
 * require lowercase letters, group keywords end at a separator, and the
 * winning prefix rule leaves an already-prefixed name alone.
 */

// secretLower matches names made of lowercase/digit/separator characters
// that contain a secret-ish keyword.
const secretLower = `^[a-z0-9_-]*(key|secret|token|password)[a-z0-9_-]*$`

// mixedCase matches unseparated names carrying both cases; digits may sit
// between the differing-case letters.
const mixedCase = `^[A-Za-z0-9]*([a-z][0-9]*[A-Z]|[A-Z][0-9]*[a-z])[A-Za-z0-9]*$`

// serviceGroups pairs a grouping prefix with the keyword pattern that
// identifies its members. Ordered: earlier groups win for names matching
// several (first-match-per-category).
var serviceGroups = []struct {
	prefix  string
	pattern string
	reason  string
}{
	{"DATABASE_", `(?i)(^|_|-)(db|database|postgres|mysql|mongo)`, "Group database-related variables"},
	{"API_", `(?i)(^|_|-)(api|endpoint|url)(_|-|$)`, "Group api-related variables"},
	{"AUTH_", `(?i)(^|_|-)(auth|oauth)`, "Group auth-related variables"},
	{"AWS_", `(?i)(^|_|-)(aws|s3|ec2|lambda)(_|-|$)`, "Group aws-related variables"},
	{"REDIS_", `(?i)(^|_|-)(redis)(_|-|$)`, "Group redis-related variables"},
	{"SMTP_", `(?i)(^|_|-)(smtp|email|mail)(_|-|$)`, "Group email-related variables"},
}

// Heuristics returns the built-in seed rules in evaluation order.
func Heuristics() []types.Rule {
	seeds := []types.Rule{
		{
			Category:    types.CategoryNaming,
			Pattern:     secretLower,
			TargetCase:  types.CaseUpper,
			Description: "Secret variables should be uppercase",
		},
		{
			Category:    types.CategoryNaming,
			Pattern:     mixedCase,
			TargetCase:  types.CaseUpper,
			Description: "Use consistent UPPER_SNAKE_CASE",
		},
	}
	for _, g := range serviceGroups {
		seeds = append(seeds, types.Rule{
			Category:    types.CategoryPrefix,
			Pattern:     g.pattern,
			Prefix:      g.prefix,
			Description: g.reason,
		})
	}
	return seeds
}

// MergeSeeds compiles the seed rules and places them ahead of the custom
// set within each category, preserving both orders. The custom set's
// Enabled flag carries over. Panics never: built-in patterns are constants
// covered by tests, and custom rules were compiled at registration, so the
// only error source is a malformed caller-supplied seed.
func MergeSeeds(seeds []types.Rule, custom *rules.CompiledSet) (*rules.CompiledSet, error) {
	merged := &rules.CompiledSet{Enabled: custom.Enabled}
	for _, seed := range seeds {
		cr, err := rules.Compile(seed)
		if err != nil {
			return nil, err
		}
		switch seed.Category {
		case types.CategoryExclusion:
			merged.Exclusions = append(merged.Exclusions, cr)
		case types.CategoryNaming:
			merged.Naming = append(merged.Naming, cr)
		case types.CategoryPrefix:
			merged.Prefix = append(merged.Prefix, cr)
		case types.CategoryTransform:
			merged.Transform = append(merged.Transform, cr)
		}
	}
	merged.Exclusions = append(merged.Exclusions, custom.Exclusions...)
	merged.Naming = append(merged.Naming, custom.Naming...)
	merged.Prefix = append(merged.Prefix, custom.Prefix...)
	merged.Transform = append(merged.Transform, custom.Transform...)
	return merged, nil
}
