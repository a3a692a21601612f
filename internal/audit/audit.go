// Package audit maintains the append-only per-profile history of applied
// actions.
//
// Entries record only names, reasons, and timestamps. The schema has no
// value column and this package receives none: the security contract that
// secret values never reach the audit trail holds by construction.
package audit

import (
	"fmt"
	"time"

	"github.com/envgroom/envgroom/internal/core/db"
	"github.com/envgroom/envgroom/internal/types"
)

// Log is the database-backed audit trail. It satisfies the applier's
// Recorder interface.
type Log struct {
	q *db.Queries
}

// NewLog creates an audit log over loaded named queries.
func NewLog(q *db.Queries) *Log {
	return &Log{q: q}
}

type entryRow struct {
	ID         string `db:"id"`
	Profile    string `db:"profile"`
	ActionID   string `db:"action_id"`
	ActionType string `db:"action_type"`
	OldName    string `db:"old_name"`
	NewName    string `db:"new_name"`
	Reason     string `db:"reason"`
	Source     string `db:"source"`
	AppliedAt  string `db:"applied_at"`
}

// Record appends one applied action to the profile's history.
func (l *Log) Record(profile string, action types.Action) error {
	ts := action.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := l.q.Exec("insert-audit-entry",
		types.NewAuditEntryID(),
		profile,
		string(action.ID),
		string(action.Type),
		action.OldName,
		action.NewName,
		action.Reason,
		string(action.Source),
		ts.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append audit entry for %s: %w", profile, err)
	}
	return nil
}

// Recent returns up to limit entries for the profile, newest first.
func (l *Log) Recent(profile string, limit int) ([]types.AuditEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []entryRow
	if err := l.q.Select("list-audit-entries", &rows, profile, limit); err != nil {
		return nil, fmt.Errorf("list audit entries for %s: %w", profile, err)
	}

	entries := make([]types.AuditEntry, 0, len(rows))
	for _, row := range rows {
		ts, err := time.Parse(time.RFC3339Nano, row.AppliedAt)
		if err != nil {
			return nil, fmt.Errorf("audit entry %s has malformed timestamp: %w", row.ID, err)
		}
		entries = append(entries, types.AuditEntry{
			ID:      row.ID,
			Profile: row.Profile,
			Action: types.Action{
				ID:        types.ActionID(row.ActionID),
				Type:      types.ActionType(row.ActionType),
				OldName:   row.OldName,
				NewName:   row.NewName,
				Reason:    row.Reason,
				Source:    types.ActionSource(row.Source),
				Applied:   true,
				Timestamp: ts,
			},
			Timestamp: ts,
		})
	}
	return entries, nil
}

// Count returns the number of entries recorded for the profile.
func (l *Log) Count(profile string) (int, error) {
	var n int
	if err := l.q.Get("count-audit-entries", &n, profile); err != nil {
		return 0, fmt.Errorf("count audit entries for %s: %w", profile, err)
	}
	return n, nil
}
