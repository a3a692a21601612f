// internal/rules/store.go
package rules

import (
	"time"

	"github.com/envgroom/envgroom/internal/types"
)

/*
 * Rule store.
 *
 * Holds one profile's ordered rule collections keyed by category and keeps
 * the compiled form alongside, so planning never compiles (or fails) at
 * match time.
 *
 * Index semantics: indices are positions within a category's sequence at
 * call time. Remove shifts subsequent indices down by one; callers removing
 * several rules must account for the shift (remove highest index first).
 *
 * Registration errors leave the store unchanged: Compile runs before any
 * mutation, so no partial rule is ever stored.
 */

// Store is an in-memory rule store for a single profile. It is not safe for
// concurrent use; the host serializes access per profile.
type Store struct {
	set      types.RuleSet
	compiled map[types.Category][]*CompiledRule
}

// NewStore returns an empty, enabled store.
func NewStore() *Store {
	return &Store{
		set:      types.RuleSet{Enabled: true},
		compiled: make(map[types.Category][]*CompiledRule),
	}
}

// NewStoreFromSet builds a store from a persisted rule set, compiling every
// rule. Fails with *types.InvalidPatternError if a persisted pattern no
// longer compiles (hand-edited storage).
func NewStoreFromSet(rs *types.RuleSet) (*Store, error) {
	s := NewStore()
	s.set.Enabled = rs.Enabled
	for _, c := range types.Categories {
		for _, r := range rs.Rules(c) {
			if _, err := s.Add(r); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Add validates rule and appends it to its category's sequence, returning
// the rule's index within that category. The rule's Category field selects
// the sequence; a missing CreatedAt is stamped now.
func (s *Store) Add(rule types.Rule) (int, error) {
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	compiled, err := Compile(rule)
	if err != nil {
		return 0, err
	}
	// Compile canonicalizes field spellings (TargetCase aliases); store the
	// canonical copy so listing and persistence never diverge from what the
	// planner evaluates.
	rule = compiled.Rule

	var idx int
	switch rule.Category {
	case types.CategoryExclusion:
		s.set.Exclusions = append(s.set.Exclusions, rule)
		idx = len(s.set.Exclusions) - 1
	case types.CategoryNaming:
		s.set.NamingRules = append(s.set.NamingRules, rule)
		idx = len(s.set.NamingRules) - 1
	case types.CategoryPrefix:
		s.set.PrefixRules = append(s.set.PrefixRules, rule)
		idx = len(s.set.PrefixRules) - 1
	case types.CategoryTransform:
		s.set.TransformRules = append(s.set.TransformRules, rule)
		idx = len(s.set.TransformRules) - 1
	}
	s.compiled[rule.Category] = append(s.compiled[rule.Category], compiled)
	return idx, nil
}

// List returns the ordered rules for one category. The returned slice is a
// copy of the sequence header; rules themselves are values.
func (s *Store) List(c types.Category) []types.Rule {
	src := s.set.Rules(c)
	out := make([]types.Rule, len(src))
	copy(out, src)
	return out
}

// ListAll returns a copy of the whole rule set.
func (s *Store) ListAll() types.RuleSet {
	return types.RuleSet{
		Exclusions:     s.List(types.CategoryExclusion),
		NamingRules:    s.List(types.CategoryNaming),
		PrefixRules:    s.List(types.CategoryPrefix),
		TransformRules: s.List(types.CategoryTransform),
		Enabled:        s.set.Enabled,
	}
}

// Remove deletes the rule at index within category and returns it.
// Subsequent indices in the same category shift down by one.
// Fails with *types.NotFoundError when the index is out of range.
func (s *Store) Remove(c types.Category, index int) (types.Rule, error) {
	seq := s.set.Rules(c)
	if index < 0 || index >= len(seq) {
		return types.Rule{}, &types.NotFoundError{Category: c, Index: index}
	}
	removed := seq[index]

	switch c {
	case types.CategoryExclusion:
		s.set.Exclusions = append(s.set.Exclusions[:index], s.set.Exclusions[index+1:]...)
	case types.CategoryNaming:
		s.set.NamingRules = append(s.set.NamingRules[:index], s.set.NamingRules[index+1:]...)
	case types.CategoryPrefix:
		s.set.PrefixRules = append(s.set.PrefixRules[:index], s.set.PrefixRules[index+1:]...)
	case types.CategoryTransform:
		s.set.TransformRules = append(s.set.TransformRules[:index], s.set.TransformRules[index+1:]...)
	}
	s.compiled[c] = append(s.compiled[c][:index], s.compiled[c][index+1:]...)
	return removed, nil
}

// SetEnabled toggles the whole set. A disabled store plans zero actions.
func (s *Store) SetEnabled(enabled bool) {
	s.set.Enabled = enabled
}

// Enabled reports whether the set is active.
func (s *Store) Enabled() bool {
	return s.set.Enabled
}

// Compiled returns the pre-compiled evaluation view of the store. The view
// shares the store's compiled rules; it is a read-only input for planning
// and must not outlive subsequent Add/Remove calls.
func (s *Store) Compiled() *CompiledSet {
	return &CompiledSet{
		Exclusions: s.compiled[types.CategoryExclusion],
		Naming:     s.compiled[types.CategoryNaming],
		Prefix:     s.compiled[types.CategoryPrefix],
		Transform:  s.compiled[types.CategoryTransform],
		Enabled:    s.set.Enabled,
	}
}
