// Package types provides domain models shared across envgroom components.
//
// Zero-dependency design: types.go, rules.go, and errors.go use only the
// standard library so the engine packages stay embeddable. ID utilities in
// ids.go import uuid but are isolated for selective inclusion.
//
// Separation from persistence: database row shapes live in internal/core/db.
// This package contains hand-written types for the transformation domain
// (snapshots, actions, audit entries) that stay wire-format agnostic.
package types

import "time"

// ValueMasked is the only representation of a variable value that may ever
// appear in logs, previews, or any external-facing summary of an Action.
const ValueMasked = "[PRESERVED - NOT SHOWN]"

// ActionType identifies the kind of change an Action performs.
// The engine supports exactly one: rename. Naming, prefix, and transform
// rules all reduce to a rename of the variable's key.
type ActionType string

const (
	ActionRename ActionType = "rename"
)

// ActionSource records who proposed an action.
type ActionSource string

const (
	// SourceRuleEngine marks actions generated from stored or built-in rules.
	SourceRuleEngine ActionSource = "rule_engine"

	// SourceCustom marks externally supplied candidate actions (for example
	// suggestions produced by a metadata-analysis collaborator).
	SourceCustom ActionSource = "custom"
)

// Action is the unit of change: a single proposed or applied rename.
// Created by the planner, consumed by the applier, immutable once applied.
// An Action never carries the variable's value.
type Action struct {
	ID        ActionID     `json:"id"`
	Type      ActionType   `json:"action_type"`
	OldName   string       `json:"old_name"`
	NewName   string       `json:"new_name"`
	Reason    string       `json:"reason"`
	Source    ActionSource `json:"source"`
	Applied   bool         `json:"applied"`
	Timestamp time.Time    `json:"timestamp"`
}

// AuditEntry is one row of the append-only per-profile history.
// It records the action and when it was applied, never the value.
type AuditEntry struct {
	ID        string    `json:"id"`
	Profile   string    `json:"profile"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is an ordered name -> value mapping representing a profile's
// variables at a point in time. Iteration order is insertion order; a rename
// keeps the variable at its original position so repeated planning passes
// see a stable ordering.
//
// Values are opaque: the engine copies them between keys and never inspects,
// normalizes, or prints them.
type Snapshot struct {
	names  []string
	values map[string]string
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{values: make(map[string]string)}
}

// SnapshotFromPairs builds a snapshot from ordered name/value pairs.
// Duplicate names keep their first position with the last value.
func SnapshotFromPairs(pairs [][2]string) *Snapshot {
	s := NewSnapshot()
	for _, p := range pairs {
		s.Set(p[0], p[1])
	}
	return s
}

// Set inserts or updates a variable. New names append to the order.
func (s *Snapshot) Set(name, value string) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

// Get returns the value for name and whether it exists.
func (s *Snapshot) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name exists in the snapshot.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Delete removes a variable, preserving the relative order of the rest.
func (s *Snapshot) Delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Rename moves the value from oldName to newName in place, keeping the
// variable's position in the iteration order. No-op when oldName is absent
// or the names are equal; the caller is responsible for collision checks.
func (s *Snapshot) Rename(oldName, newName string) {
	v, ok := s.values[oldName]
	if !ok || oldName == newName {
		return
	}
	delete(s.values, oldName)
	s.values[newName] = v
	for i, n := range s.names {
		if n == oldName {
			s.names[i] = newName
			break
		}
	}
}

// Names returns the variable names in snapshot order.
// The returned slice is a copy; mutating it does not affect the snapshot.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of variables.
func (s *Snapshot) Len() int {
	return len(s.names)
}

// Clone returns a deep copy. Apply operates on a clone so that failed
// batches never leave the caller's snapshot half-mutated.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		names:  make([]string, len(s.names)),
		values: make(map[string]string, len(s.values)),
	}
	copy(c.names, s.names)
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}
