package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for envgroom operations. Structured error types below
// wrap these so callers can branch with errors.Is while still receiving
// the offending names.
var (
	// ErrInvalidPattern indicates a rule pattern failed to compile.
	// Raised only at rule registration; stored rules always match cleanly.
	ErrInvalidPattern = errors.New("invalid rule pattern")

	// ErrConflict indicates two planned actions target the same final name,
	// or a planned name collides with an untouched existing variable.
	ErrConflict = errors.New("conflicting rename targets")

	// ErrMissingSource indicates an apply-time action whose old name is
	// absent from the snapshot (stale plan).
	ErrMissingSource = errors.New("source variable not found")

	// ErrNameCollision indicates an apply-time action whose new name is
	// already occupied in the snapshot.
	ErrNameCollision = errors.New("target variable already exists")

	// ErrNotFound indicates a rule-store removal of a nonexistent index.
	ErrNotFound = errors.New("rule not found")
)

// InvalidPatternError reports a pattern that does not compile, with the
// compiler's diagnostic attached.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid rule pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidPattern) succeed.
func (e *InvalidPatternError) Is(target error) bool { return target == ErrInvalidPattern }

// Conflict identifies one colliding target name and every entry that claims
// it. OldNames lists the snapshot variables whose planned rename produces
// NewName; ExistingTarget is true when NewName also belongs to an untouched
// variable already in the snapshot.
type Conflict struct {
	NewName        string
	OldNames       []string
	ExistingTarget bool
}

func (c Conflict) String() string {
	if c.ExistingTarget {
		return fmt.Sprintf("%s -> %s (target already exists)", strings.Join(c.OldNames, ", "), c.NewName)
	}
	return fmt.Sprintf("%s -> %s", strings.Join(c.OldNames, ", "), c.NewName)
}

// ConflictError aborts a planning batch. It carries every colliding pair so
// the caller can present both unresolved sides; the planner never silently
// picks a winner.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return "conflicting rename targets: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrConflict) succeed.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// MissingSourceError reports an action whose source variable vanished
// between planning and applying.
type MissingSourceError struct {
	Name string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("source variable %q not found", e.Name)
}

// Is makes errors.Is(err, ErrMissingSource) succeed.
func (e *MissingSourceError) Is(target error) bool { return target == ErrMissingSource }

// NameCollisionError reports an action whose target name is already taken.
// The old key/value pair is left untouched when this is returned.
type NameCollisionError struct {
	OldName string
	NewName string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("cannot rename %q: target %q already exists", e.OldName, e.NewName)
}

// Is makes errors.Is(err, ErrNameCollision) succeed.
func (e *NameCollisionError) Is(target error) bool { return target == ErrNameCollision }

// NotFoundError reports a rule-store lookup or removal that addressed a
// position outside the category's current sequence.
type NotFoundError struct {
	Category Category
	Index    int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s rule at index %d", e.Category, e.Index)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
