// Package storage persists rule sets through the database layer.
//
// The persisted representation is language-neutral: pattern source strings
// plus a JSON payload per rule variant, never compiled matchers. Loading
// re-compiles through the rule store, which re-validates every pattern.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/envgroom/envgroom/internal/core/db"
	"github.com/envgroom/envgroom/internal/types"
)

// RuleRepository loads and saves per-profile rule sets.
// Single-writer access per profile is the host's responsibility (the engine
// holds no locks); Save rewrites the profile's rows wholesale so positions
// always mirror in-memory order.
type RuleRepository struct {
	q *db.Queries
}

// NewRuleRepository creates a repository over loaded named queries.
func NewRuleRepository(q *db.Queries) *RuleRepository {
	return &RuleRepository{q: q}
}

// rulePayload is the JSON shape of a rule's variant-specific fields.
type rulePayload struct {
	TargetCase string               `json:"target_case,omitempty"`
	Prefix     string               `json:"prefix,omitempty"`
	Transform  *types.TransformSpec `json:"transform,omitempty"`
}

type ruleRow struct {
	Category    string `db:"category"`
	Position    int    `db:"position"`
	Pattern     string `db:"pattern"`
	Description string `db:"description"`
	Payload     string `db:"payload"`
	CreatedAt   string `db:"created_at"`
}

type profileRow struct {
	Name    string `db:"name"`
	Enabled bool   `db:"enabled"`
}

// Load returns the profile's rule set. A profile with no stored rows gets a
// fresh enabled empty set (created on first use).
func (r *RuleRepository) Load(profile string) (*types.RuleSet, error) {
	rs := types.NewRuleSet()

	var p profileRow
	err := r.q.Get("get-profile", &p, profile)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return rs, nil
	case err != nil:
		return nil, fmt.Errorf("load profile %s: %w", profile, err)
	}
	rs.Enabled = p.Enabled

	var rows []ruleRow
	if err := r.q.Select("list-profile-rules", &rows, profile); err != nil {
		return nil, fmt.Errorf("load rules for %s: %w", profile, err)
	}

	for _, row := range rows {
		rule, err := rowToRule(row)
		if err != nil {
			return nil, fmt.Errorf("decode rule for %s: %w", profile, err)
		}
		switch rule.Category {
		case types.CategoryExclusion:
			rs.Exclusions = append(rs.Exclusions, rule)
		case types.CategoryNaming:
			rs.NamingRules = append(rs.NamingRules, rule)
		case types.CategoryPrefix:
			rs.PrefixRules = append(rs.PrefixRules, rule)
		case types.CategoryTransform:
			rs.TransformRules = append(rs.TransformRules, rule)
		}
	}
	return rs, nil
}

// Save rewrites the profile's rows to mirror rs. Positions are the indices
// within each category's sequence. The delete and the reinserts run in one
// transaction: a failed insert rolls back to the previously stored set
// instead of leaving the profile half-written.
func (r *RuleRepository) Save(profile string, rs types.RuleSet) error {
	return r.q.Tx(func(tx *db.TxQueries) error {
		if _, err := tx.Exec("upsert-profile", profile, rs.Enabled); err != nil {
			return fmt.Errorf("save profile %s: %w", profile, err)
		}
		if _, err := tx.Exec("delete-profile-rules", profile); err != nil {
			return fmt.Errorf("clear rules for %s: %w", profile, err)
		}

		for _, c := range types.Categories {
			for i, rule := range rs.Rules(c) {
				payload, err := payloadJSON(rule)
				if err != nil {
					return fmt.Errorf("encode rule for %s: %w", profile, err)
				}
				createdAt := rule.CreatedAt
				if createdAt.IsZero() {
					createdAt = time.Now().UTC()
				}
				_, err = tx.Exec("insert-rule",
					profile, string(c), i, rule.Pattern, rule.Description,
					payload, createdAt.UTC().Format(time.RFC3339))
				if err != nil {
					return fmt.Errorf("insert rule for %s: %w", profile, err)
				}
			}
		}
		return nil
	})
}

func payloadJSON(rule types.Rule) (string, error) {
	p := rulePayload{}
	switch rule.Category {
	case types.CategoryNaming:
		p.TargetCase = string(rule.TargetCase)
	case types.CategoryPrefix:
		p.Prefix = rule.Prefix
	case types.CategoryTransform:
		spec := rule.Transform
		p.Transform = &spec
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func rowToRule(row ruleRow) (types.Rule, error) {
	category, err := types.ParseCategory(row.Category)
	if err != nil {
		return types.Rule{}, err
	}

	var p rulePayload
	if err := json.Unmarshal([]byte(row.Payload), &p); err != nil {
		return types.Rule{}, fmt.Errorf("payload for pattern %q: %w", row.Pattern, err)
	}

	rule := types.Rule{
		Category:    category,
		Pattern:     row.Pattern,
		Description: row.Description,
	}
	if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		rule.CreatedAt = t
	}

	switch category {
	case types.CategoryNaming:
		tc, err := types.ParseCase(p.TargetCase)
		if err != nil {
			return types.Rule{}, err
		}
		rule.TargetCase = tc
	case types.CategoryPrefix:
		rule.Prefix = p.Prefix
	case types.CategoryTransform:
		if p.Transform == nil {
			return types.Rule{}, fmt.Errorf("transform rule %q missing operation payload", row.Pattern)
		}
		rule.Transform = *p.Transform
	}
	return rule, nil
}
