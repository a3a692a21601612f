// internal/apply/applier.go
package apply

import (
	"fmt"
	"time"

	"github.com/envgroom/envgroom/internal/types"
)

/*
 * Action applier.
 *
 * Applies an approved action list to a snapshot. Each action succeeds or
 * fails independently: partial application is a first-class, reported
 * outcome, never an exception that aborts the batch.
 *
 * Per action:
 *   1. old name present in the working snapshot, else MissingSourceError
 *   2. new name free (unless equal to old), else NameCollisionError
 *   3. rename: value moves byte-for-byte to the new key, old key removed
 *   4. action stamped applied=true with a timestamp and a fresh ID
 *
 * Value safety: the value is touched only by Snapshot.Rename's internal
 * copy. Nothing in this package reads a value into an error, a log line, or
 * a summary; failed actions leave their old key/value pair untouched.
 *
 * Preview runs the identical validation path with the mutation and audit
 * hooks disabled, so preview output truthfully predicts apply outcomes.
 */

// ActionError pairs a failed action with its per-action error.
type ActionError struct {
	Action types.Action
	Err    error
}

func (e ActionError) Error() string {
	return fmt.Sprintf("%s -> %s: %v", e.Action.OldName, e.Action.NewName, e.Err)
}

func (e ActionError) Unwrap() error { return e.Err }

// Result reports one apply or preview run.
type Result struct {
	// Snapshot reflects only the successful actions. In preview mode it is
	// the input snapshot untouched.
	Snapshot *types.Snapshot

	// Applied lists the actions that succeeded, stamped and in input order.
	// In preview mode these are the actions that WOULD succeed, unstamped.
	Applied []types.Action

	// Errors lists per-action failures in input order. Every entry here
	// left its old key/value pair untouched.
	Errors []ActionError

	// AuditErrors lists recorder failures for actions whose rename stood.
	// Those actions also appear in Applied; an audit bookkeeping failure
	// never undoes or double-counts a rename.
	AuditErrors []ActionError

	Preview bool
}

// Recorder receives applied actions for the audit trail. Implementations
// must not have access to variable values; the engine hands them none.
type Recorder interface {
	Record(profile string, action types.Action) error
}

// Apply executes actions against snap and returns a new snapshot alongside
// the per-action outcomes. snap itself is never mutated. Applied actions
// are reported to rec (when non-nil) as they land; a recorder failure is
// surfaced in AuditErrors but the rename stands, since the snapshot mutation
// already happened and values must not be lost to bookkeeping errors.
func Apply(profile string, actions []types.Action, snap *types.Snapshot, rec Recorder) Result {
	return run(profile, actions, snap, rec, false)
}

// Preview validates actions against snap without mutating anything or
// writing audit entries. The error set equals what Apply would produce
// against the same snapshot.
func Preview(actions []types.Action, snap *types.Snapshot) Result {
	return run("", actions, snap, nil, true)
}

func run(profile string, actions []types.Action, snap *types.Snapshot, rec Recorder, preview bool) Result {
	working := snap.Clone()
	result := Result{Preview: preview}

	for _, action := range actions {
		if action.Applied {
			continue
		}

		if !working.Has(action.OldName) {
			result.Errors = append(result.Errors, ActionError{
				Action: action,
				Err:    &types.MissingSourceError{Name: action.OldName},
			})
			continue
		}
		if action.NewName != action.OldName && working.Has(action.NewName) {
			result.Errors = append(result.Errors, ActionError{
				Action: action,
				Err:    &types.NameCollisionError{OldName: action.OldName, NewName: action.NewName},
			})
			continue
		}

		// The working clone is renamed in preview mode too: later actions in
		// the same batch must validate against the state earlier actions
		// leave behind, or preview would miss intra-batch collisions that a
		// real apply reports.
		working.Rename(action.OldName, action.NewName)

		if preview {
			result.Applied = append(result.Applied, action)
			continue
		}

		applied := action
		applied.ID = types.NewActionID()
		applied.Applied = true
		applied.Timestamp = time.Now().UTC()

		if rec != nil {
			if err := rec.Record(profile, applied); err != nil {
				result.AuditErrors = append(result.AuditErrors, ActionError{
					Action: applied,
					Err:    fmt.Errorf("audit record: %w", err),
				})
			}
		}
		result.Applied = append(result.Applied, applied)
	}

	if preview {
		result.Snapshot = snap
	} else {
		result.Snapshot = working
	}
	return result
}

// Summary renders counts the way operators expect from a batch run.
type Summary struct {
	Total      int
	Successful int
	Failed     int
}

// Summarize derives batch counts from a result. Recorder failures do not
// count as failed actions: the rename stood, so the action is successful and
// the audit gap is reported separately.
func Summarize(r Result) Summary {
	return Summary{
		Total:      len(r.Applied) + len(r.Errors),
		Successful: len(r.Applied),
		Failed:     len(r.Errors),
	}
}

// DescribeAction renders an action for any external-facing surface. The
// associated value is represented only by the constant mask; no code path
// exists from here to a variable's value.
func DescribeAction(a types.Action) string {
	return fmt.Sprintf("%s -> %s (%s) value: %s", a.OldName, a.NewName, a.Reason, types.ValueMasked)
}
