// internal/rules/compile.go
package rules

import (
	"fmt"
	"regexp"

	"github.com/envgroom/envgroom/internal/types"
)

/*
 * Rule compilation and validation.
 *
 * Compiles types.Rule to CompiledRule with a pre-compiled name matcher and,
 * for regex transforms, a pre-compiled replacement pattern.
 *
 * Compilation workflow:
 *   1. Compile the match pattern (search semantics: matches anywhere unless
 *      the pattern carries its own ^/$ anchors)
 *   2. Validate the variant payload (target case, transform operation)
 *   3. For regex transforms, compile the operation pattern with flags
 *
 * Why compile-time validation: Rejecting bad patterns during rule
 * registration moves error detection to add time rather than plan time.
 * Planning and matching over stored rules is guaranteed failure-free.
 */

// CompiledRule pairs a rule with its compiled matchers, ready for
// failure-free evaluation.
type CompiledRule struct {
	Rule types.Rule

	re *regexp.Regexp // match pattern
	op *regexp.Regexp // regex transform operation, nil otherwise
}

// CompiledSet is a fully pre-processed rule set in evaluation order.
type CompiledSet struct {
	Exclusions []*CompiledRule
	Naming     []*CompiledRule
	Prefix     []*CompiledRule
	Transform  []*CompiledRule
	Enabled    bool
}

// Compile validates and pre-processes a rule. Returns
// *types.InvalidPatternError when the match pattern or a regex transform
// pattern does not compile, and a plain error for malformed payloads.
func Compile(rule types.Rule) (*CompiledRule, error) {
	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return nil, &types.InvalidPatternError{Pattern: rule.Pattern, Err: err}
	}

	compiled := &CompiledRule{Rule: rule, re: re}

	switch rule.Category {
	case types.CategoryExclusion:
		// Pattern-only variant, nothing further to validate.
	case types.CategoryNaming:
		// Canonicalize alias spellings ("upper", "camelCase") here so the
		// normalizer only ever sees canonical Case constants; a validated
		// rule must never be a silent no-op at plan time.
		tc, err := types.ParseCase(string(rule.TargetCase))
		if err != nil {
			return nil, err
		}
		compiled.Rule.TargetCase = tc
	case types.CategoryPrefix:
		// An empty prefix would make every rule application a no-op; allow
		// it so round-tripped legacy rule files still load, the planner
		// simply never emits an action for it.
	case types.CategoryTransform:
		op, err := compileTransform(rule.Transform)
		if err != nil {
			return nil, err
		}
		compiled.op = op
	default:
		if _, err := types.ParseCategory(string(rule.Category)); err != nil {
			return nil, err
		}
	}

	return compiled, nil
}

// compileTransform validates a transform operation and pre-compiles the
// regex variant. Supported flag: "i" (case-insensitive), applied as an
// inline (?i) group so the source pattern string stays language-neutral.
func compileTransform(spec types.TransformSpec) (*regexp.Regexp, error) {
	switch spec.Op {
	case types.OpReplace:
		if spec.Old == "" {
			return nil, fmt.Errorf("replace transform needs a non-empty search string")
		}
		return nil, nil
	case types.OpRemovePrefix, types.OpRemoveSuffix:
		if spec.Affix == "" {
			return nil, fmt.Errorf("%s transform needs a non-empty affix", spec.Op)
		}
		return nil, nil
	case types.OpRegex:
		pattern := spec.Pattern
		for _, f := range spec.Flags {
			if f == 'i' {
				pattern = "(?i)" + pattern
			}
		}
		op, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &types.InvalidPatternError{Pattern: spec.Pattern, Err: err}
		}
		return op, nil
	}
	return nil, fmt.Errorf("unknown transform operation %q", spec.Op)
}

// CompileSet compiles every rule in the set, preserving per-category order.
// The first invalid rule aborts compilation; a set loaded from the rule
// store never fails here because Store.Add validated each rule.
func CompileSet(rs *types.RuleSet) (*CompiledSet, error) {
	cs := &CompiledSet{Enabled: rs.Enabled}
	for _, c := range types.Categories {
		for _, r := range rs.Rules(c) {
			cr, err := Compile(r)
			if err != nil {
				return nil, err
			}
			switch c {
			case types.CategoryExclusion:
				cs.Exclusions = append(cs.Exclusions, cr)
			case types.CategoryNaming:
				cs.Naming = append(cs.Naming, cr)
			case types.CategoryPrefix:
				cs.Prefix = append(cs.Prefix, cr)
			case types.CategoryTransform:
				cs.Transform = append(cs.Transform, cr)
			}
		}
	}
	return cs, nil
}

// Matches reports whether the rule's pattern matches the variable name.
// Standard regex search: the pattern matches anywhere in the name unless it
// anchors itself with ^ or $. Never fails; the pattern compiled at add time.
func (c *CompiledRule) Matches(name string) bool {
	return c.re.MatchString(name)
}

// Matches is the ad-hoc form of the pattern matcher for callers that hold a
// raw pattern string rather than a registered rule. Returns
// *types.InvalidPatternError when the pattern does not compile.
func Matches(pattern, name string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, &types.InvalidPatternError{Pattern: pattern, Err: err}
	}
	return re.MatchString(name), nil
}
