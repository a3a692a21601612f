// internal/rules/transform.go
package rules

import (
	"strings"

	"github.com/envgroom/envgroom/internal/types"
)

/*
 * Transform engine.
 *
 * Applies a single transform rule's operation to a variable name:
 *   - replace: literal substring replacement (all occurrences)
 *   - regex: pre-compiled regexp replacement with $1-style references
 *   - remove_prefix / remove_suffix: affix stripping, no-op when absent
 *
 * Operates on names only; values never pass through this package.
 *
 * Why function-based: four operations via switch statement beats four
 * single-method interface implementations with minimal behavior variation
 * (same call as the planner's category dispatch).
 */

// Transform applies the rule's operation to name. Only meaningful for
// transform-category rules; other categories return the name unchanged.
// Never fails: regex operations were compiled at registration.
func (c *CompiledRule) Transform(name string) string {
	if c.Rule.Category != types.CategoryTransform {
		return name
	}
	spec := c.Rule.Transform
	switch spec.Op {
	case types.OpReplace:
		return strings.ReplaceAll(name, spec.Old, spec.New)
	case types.OpRegex:
		return c.op.ReplaceAllString(name, spec.Replacement)
	case types.OpRemovePrefix:
		return strings.TrimPrefix(name, spec.Affix)
	case types.OpRemoveSuffix:
		return strings.TrimSuffix(name, spec.Affix)
	}
	return name
}
