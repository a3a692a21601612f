// internal/types/rules.go
package types

/*
 * Domain types for the rename rule engine.
 *
 * Provides Rule, RuleSet, Case, and TransformSpec structures used by
 * internal/rules for compilation and by internal/plan for suggestion
 * generation. These types are persistence-format agnostic - row-to-types
 * conversion happens at the repository boundary.
 *
 * Key types:
 *   - Rule: one pattern-driven instruction, discriminated by Category
 *   - RuleSet: the four ordered per-category sequences for one profile
 *   - Case: supported naming conventions for naming rules
 *   - TransformSpec: parsed transform operation (replace/regex/strip)
 *
 * Rule is a closed polymorphic set (exclusion | naming | prefix | transform)
 * modeled as a tagged struct: the Category field selects which payload
 * fields are meaningful. The category set is fixed, so tag dispatch beats a
 * type hierarchy.
 *
 * Dependencies: standard library only.
 */

import (
	"fmt"
	"strings"
	"time"
)

// Category discriminates the four rule variants.
type Category string

const (
	CategoryExclusion Category = "exclusion"
	CategoryNaming    Category = "naming"
	CategoryPrefix    Category = "prefix"
	CategoryTransform Category = "transform"
)

// Categories lists all rule categories in evaluation order: exclusions are
// checked first, then naming, prefix, and transform rules compose in
// sequence during planning.
var Categories = []Category{
	CategoryExclusion,
	CategoryNaming,
	CategoryPrefix,
	CategoryTransform,
}

// ParseCategory validates a category token.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryExclusion:
		return CategoryExclusion, nil
	case CategoryNaming:
		return CategoryNaming, nil
	case CategoryPrefix:
		return CategoryPrefix, nil
	case CategoryTransform:
		return CategoryTransform, nil
	}
	return "", fmt.Errorf("unknown rule category %q (expected exclusion, naming, prefix, or transform)", s)
}

// Case enumerates the naming conventions a naming rule can target.
type Case string

const (
	CaseUpper          Case = "uppercase"
	CaseLower          Case = "lowercase"
	CaseSnake          Case = "snake_case"
	CaseScreamingSnake Case = "screaming_snake_case"
	CaseCamel          Case = "camel_case"
	CasePascal         Case = "pascal_case"
)

// ParseCase validates a target-case token. Accepts both the canonical
// snake tokens and the display spellings (camelCase, PascalCase,
// SCREAMING_SNAKE_CASE) used by older rule files.
func ParseCase(s string) (Case, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uppercase", "upper":
		return CaseUpper, nil
	case "lowercase", "lower":
		return CaseLower, nil
	case "snake_case", "snake":
		return CaseSnake, nil
	case "screaming_snake_case", "screaming":
		return CaseScreamingSnake, nil
	case "camel_case", "camelcase", "camel":
		return CaseCamel, nil
	case "pascal_case", "pascalcase", "pascal":
		return CasePascal, nil
	}
	return "", fmt.Errorf("unknown target case %q", s)
}

// TransformOp enumerates transform rule operations.
type TransformOp string

const (
	OpReplace      TransformOp = "replace"
	OpRegex        TransformOp = "regex"
	OpRemovePrefix TransformOp = "remove_prefix"
	OpRemoveSuffix TransformOp = "remove_suffix"
)

// TransformSpec describes a transform rule's operation. Which fields are
// meaningful depends on Op:
//
//	replace:       Old, New
//	regex:         Pattern, Replacement, Flags ("i" for case-insensitive)
//	remove_prefix: Affix
//	remove_suffix: Affix
type TransformSpec struct {
	Op          TransformOp `json:"op"`
	Old         string      `json:"old,omitempty"`
	New         string      `json:"new,omitempty"`
	Pattern     string      `json:"pattern,omitempty"`
	Replacement string      `json:"replacement,omitempty"`
	Flags       string      `json:"flags,omitempty"`
	Affix       string      `json:"affix,omitempty"`
}

// ParseTransformSpec parses the colon-delimited transform notation used on
// the command line and in legacy rule files:
//
//	replace:OLD:NEW
//	regex:PATTERN:REPLACEMENT[:FLAGS]
//	remove_prefix:PREFIX
//	remove_suffix:SUFFIX
//
// Pattern validity is checked later at rule registration, not here.
func ParseTransformSpec(s string) (TransformSpec, error) {
	op, rest, _ := strings.Cut(s, ":")
	switch TransformOp(op) {
	case OpReplace:
		old, new_, ok := strings.Cut(rest, ":")
		if !ok || old == "" {
			return TransformSpec{}, fmt.Errorf("replace transform must be replace:OLD:NEW, got %q", s)
		}
		return TransformSpec{Op: OpReplace, Old: old, New: new_}, nil
	case OpRegex:
		parts := strings.SplitN(rest, ":", 3)
		if len(parts) < 2 || parts[0] == "" {
			return TransformSpec{}, fmt.Errorf("regex transform must be regex:PATTERN:REPLACEMENT[:FLAGS], got %q", s)
		}
		spec := TransformSpec{Op: OpRegex, Pattern: parts[0], Replacement: parts[1]}
		if len(parts) == 3 {
			spec.Flags = parts[2]
		}
		return spec, nil
	case OpRemovePrefix:
		if rest == "" {
			return TransformSpec{}, fmt.Errorf("remove_prefix transform needs a prefix, got %q", s)
		}
		return TransformSpec{Op: OpRemovePrefix, Affix: rest}, nil
	case OpRemoveSuffix:
		if rest == "" {
			return TransformSpec{}, fmt.Errorf("remove_suffix transform needs a suffix, got %q", s)
		}
		return TransformSpec{Op: OpRemoveSuffix, Affix: rest}, nil
	}
	return TransformSpec{}, fmt.Errorf("unknown transform operation %q", op)
}

// String renders the spec back to the colon-delimited notation.
func (t TransformSpec) String() string {
	switch t.Op {
	case OpReplace:
		return fmt.Sprintf("replace:%s:%s", t.Old, t.New)
	case OpRegex:
		if t.Flags != "" {
			return fmt.Sprintf("regex:%s:%s:%s", t.Pattern, t.Replacement, t.Flags)
		}
		return fmt.Sprintf("regex:%s:%s", t.Pattern, t.Replacement)
	case OpRemovePrefix:
		return "remove_prefix:" + t.Affix
	case OpRemoveSuffix:
		return "remove_suffix:" + t.Affix
	}
	return string(t.Op)
}

// Rule is one stored pattern-driven instruction. Pattern is a regular
// expression source string matched against variable names with standard
// search semantics (anywhere in the name unless the pattern anchors itself).
//
// Exactly one payload group is meaningful, selected by Category:
// TargetCase for naming rules, Prefix for prefix rules, Transform for
// transform rules; exclusion rules carry only the pattern.
type Rule struct {
	Category    Category      `json:"category"`
	Pattern     string        `json:"pattern"`
	Description string        `json:"description,omitempty"`
	TargetCase  Case          `json:"target_case,omitempty"`
	Prefix      string        `json:"prefix,omitempty"`
	Transform   TransformSpec `json:"transform,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
}

// RuleSet holds one profile's rules: four ordered sequences, one per
// category. Order is insertion order and is significant - the planner uses
// first-match-wins within each category. A RuleSet is never mutated during
// planning or applying.
type RuleSet struct {
	Exclusions     []Rule `json:"exclusions"`
	NamingRules    []Rule `json:"naming_rules"`
	PrefixRules    []Rule `json:"prefix_rules"`
	TransformRules []Rule `json:"transform_rules"`

	// Enabled gates the whole set: a disabled set plans zero actions.
	Enabled bool `json:"enabled"`
}

// NewRuleSet returns an empty, enabled rule set. Profiles get one created
// on first use.
func NewRuleSet() *RuleSet {
	return &RuleSet{Enabled: true}
}

// Rules returns the ordered sequence for one category.
func (rs *RuleSet) Rules(c Category) []Rule {
	switch c {
	case CategoryExclusion:
		return rs.Exclusions
	case CategoryNaming:
		return rs.NamingRules
	case CategoryPrefix:
		return rs.PrefixRules
	case CategoryTransform:
		return rs.TransformRules
	}
	return nil
}

// Len returns the total number of rules across all categories.
func (rs *RuleSet) Len() int {
	return len(rs.Exclusions) + len(rs.NamingRules) + len(rs.PrefixRules) + len(rs.TransformRules)
}
