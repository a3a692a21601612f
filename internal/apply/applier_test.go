package apply

import (
	"errors"
	"testing"

	"github.com/envgroom/envgroom/internal/types"
)

// memRecorder collects recorded actions in memory; failingRecorder always
// errors.
type memRecorder struct {
	profile string
	actions []types.Action
}

func (m *memRecorder) Record(profile string, action types.Action) error {
	m.profile = profile
	m.actions = append(m.actions, action)
	return nil
}

type failingRecorder struct{}

func (failingRecorder) Record(string, types.Action) error {
	return errors.New("audit storage unavailable")
}

func rename(old, new string) types.Action {
	return types.Action{Type: types.ActionRename, OldName: old, NewName: new, Source: types.SourceRuleEngine}
}

func TestApply_Success(t *testing.T) {
	snap := types.SnapshotFromPairs([][2]string{
		{"api_key", "secret123"},
		{"PATH", "/usr/bin"},
	})
	rec := &memRecorder{}

	result := Apply("default", []types.Action{rename("api_key", "API_KEY")}, snap, rec)

	if len(result.Errors) != 0 {
		t.Fatalf("Apply() errors = %v", result.Errors)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("Apply() applied %d actions, want 1", len(result.Applied))
	}

	a := result.Applied[0]
	if !a.Applied || a.ID == "" || a.Timestamp.IsZero() {
		t.Errorf("applied action not stamped: %+v", a)
	}

	// Value moved byte-for-byte.
	if v, ok := result.Snapshot.Get("API_KEY"); !ok || v != "secret123" {
		t.Errorf("API_KEY = %q, %v; want secret123 under the new name", v, ok)
	}
	if result.Snapshot.Has("api_key") {
		t.Error("old name still present after rename")
	}
	if v, _ := result.Snapshot.Get("PATH"); v != "/usr/bin" {
		t.Error("untouched variable changed")
	}

	// Input snapshot untouched.
	if !snap.Has("api_key") || snap.Has("API_KEY") {
		t.Error("Apply() mutated the input snapshot")
	}

	if rec.profile != "default" || len(rec.actions) != 1 {
		t.Errorf("recorder saw %q/%d, want default/1", rec.profile, len(rec.actions))
	}
}

func TestApply_RenamePreservesOrder(t *testing.T) {
	snap := types.SnapshotFromPairs([][2]string{
		{"first", "1"}, {"second", "2"}, {"third", "3"},
	})

	result := Apply("default", []types.Action{rename("second", "SECOND")}, snap, nil)

	want := []string{"first", "SECOND", "third"}
	got := result.Snapshot.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v (renamed variable keeps its position)", got, want)
		}
	}
}

func TestApply_PartialBatch(t *testing.T) {
	snap := types.SnapshotFromPairs([][2]string{
		{"a", "1"},
		{"c", "3"},
		{"occupied", "x"},
	})

	actions := []types.Action{
		rename("a", "A"),        // succeeds
		rename("missing", "M"),  // source absent
		rename("c", "occupied"), // target taken
	}

	result := Apply("default", actions, snap, nil)

	if len(result.Applied) != 1 || result.Applied[0].OldName != "a" {
		t.Fatalf("Applied = %+v, want only a -> A", result.Applied)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Errors = %+v, want 2", result.Errors)
	}
	if !errors.Is(result.Errors[0].Err, types.ErrMissingSource) {
		t.Errorf("first error = %v, want ErrMissingSource", result.Errors[0].Err)
	}
	if !errors.Is(result.Errors[1].Err, types.ErrNameCollision) {
		t.Errorf("second error = %v, want ErrNameCollision", result.Errors[1].Err)
	}

	// Failed actions leave their variables untouched.
	if v, _ := result.Snapshot.Get("c"); v != "3" {
		t.Error("failed action must leave its variable untouched")
	}
	if v, _ := result.Snapshot.Get("A"); v != "1" {
		t.Error("successful action in the same batch must still land")
	}
}

func TestApply_SkipsAlreadyApplied(t *testing.T) {
	snap := types.SnapshotFromPairs([][2]string{{"a", "1"}})
	done := rename("a", "A")
	done.Applied = true

	result := Apply("default", []types.Action{done}, snap, nil)
	if len(result.Applied) != 0 || len(result.Errors) != 0 {
		t.Fatalf("already-applied action must be skipped, got %+v", result)
	}
	if !result.Snapshot.Has("a") {
		t.Error("skipped action must not rename")
	}
}

func TestApply_IntraBatchChain(t *testing.T) {
	// b frees its name before a claims it; order matters.
	snap := types.SnapshotFromPairs([][2]string{{"a", "1"}, {"b", "2"}})
	actions := []types.Action{
		rename("b", "c"),
		rename("a", "b"),
	}

	result := Apply("default", actions, snap, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("chained renames failed: %v", result.Errors)
	}
	if v, _ := result.Snapshot.Get("b"); v != "1" {
		t.Errorf("b = %q, want value of former a", v)
	}
	if v, _ := result.Snapshot.Get("c"); v != "2" {
		t.Errorf("c = %q, want value of former b", v)
	}
}

func TestApply_RecorderFailureKeepsRename(t *testing.T) {
	snap := types.SnapshotFromPairs([][2]string{{"a", "1"}})

	result := Apply("default", []types.Action{rename("a", "A")}, snap, failingRecorder{})

	if !result.Snapshot.Has("A") {
		t.Fatal("rename must stand even when the audit write fails")
	}
	if len(result.Applied) != 1 {
		t.Fatalf("Applied = %+v, want the renamed action", result.Applied)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %+v, want none: the rename succeeded", result.Errors)
	}
	if len(result.AuditErrors) != 1 {
		t.Fatalf("AuditErrors = %+v, want the surfaced audit failure", result.AuditErrors)
	}

	// The rename that stood counts as successful, once. The audit gap is a
	// warning, not a failed action.
	s := Summarize(result)
	if s.Total != 1 || s.Successful != 1 || s.Failed != 0 {
		t.Errorf("Summarize() = %+v, want 1/1/0", s)
	}
}

func TestPreview_MatchesApplyOutcomes(t *testing.T) {
	pairs := [][2]string{
		{"a", "1"},
		{"occupied", "x"},
		{"c", "3"},
	}
	actions := []types.Action{
		rename("a", "occupied2"),
		rename("missing", "M"),
		rename("c", "occupied"),
	}

	preview := Preview(actions, types.SnapshotFromPairs(pairs))
	applied := Apply("default", actions, types.SnapshotFromPairs(pairs), nil)

	if len(preview.Applied) != len(applied.Applied) {
		t.Errorf("preview predicted %d successes, apply produced %d",
			len(preview.Applied), len(applied.Applied))
	}
	if len(preview.Errors) != len(applied.Errors) {
		t.Fatalf("preview predicted %d failures, apply produced %d",
			len(preview.Errors), len(applied.Errors))
	}
	for i := range preview.Errors {
		if !errors.Is(applied.Errors[i].Err, errorSentinel(preview.Errors[i].Err)) {
			t.Errorf("error %d differs between preview (%v) and apply (%v)",
				i, preview.Errors[i].Err, applied.Errors[i].Err)
		}
	}
}

func errorSentinel(err error) error {
	switch {
	case errors.Is(err, types.ErrMissingSource):
		return types.ErrMissingSource
	case errors.Is(err, types.ErrNameCollision):
		return types.ErrNameCollision
	default:
		return err
	}
}

func TestPreview_NoMutationNoStampsNoAudit(t *testing.T) {
	snap := types.SnapshotFromPairs([][2]string{{"a", "1"}, {"b", "2"}})
	rec := &memRecorder{}

	// Preview takes no recorder by signature; run a preview and verify the
	// snapshot and actions are untouched.
	result := Preview([]types.Action{rename("a", "A"), rename("b", "a")}, snap)

	if !result.Preview {
		t.Error("result not flagged as preview")
	}
	if result.Snapshot != snap {
		t.Error("preview must return the input snapshot")
	}
	if snap.Has("A") || !snap.Has("a") {
		t.Error("preview mutated the snapshot")
	}
	for _, a := range result.Applied {
		if a.Applied || a.ID != "" || !a.Timestamp.IsZero() {
			t.Errorf("preview stamped an action: %+v", a)
		}
	}
	if len(rec.actions) != 0 {
		t.Error("preview wrote audit entries")
	}

	// Intra-batch dependency honored: b -> a is valid only because a -> A
	// frees the name first.
	if len(result.Errors) != 0 {
		t.Errorf("preview rejected a valid chained batch: %v", result.Errors)
	}
}

func TestDescribeAction_MasksValue(t *testing.T) {
	a := rename("api_key", "API_KEY")
	a.Reason = "standardize case"

	got := DescribeAction(a)
	want := "api_key -> API_KEY (standardize case) value: " + types.ValueMasked
	if got != want {
		t.Errorf("DescribeAction() = %q, want %q", got, want)
	}
}

func TestSummarize(t *testing.T) {
	r := Result{
		Applied: []types.Action{rename("a", "A"), rename("b", "B")},
		Errors:  []ActionError{{Action: rename("c", "C"), Err: types.ErrMissingSource}},
	}
	s := Summarize(r)
	if s.Total != 3 || s.Successful != 2 || s.Failed != 1 {
		t.Errorf("Summarize() = %+v, want 3/2/1", s)
	}
}
