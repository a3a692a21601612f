package types

import (
	"errors"
	"testing"
)

func TestSnapshot_RenamePreservesOrderAndValue(t *testing.T) {
	snap := SnapshotFromPairs([][2]string{
		{"first", "1"}, {"target", "secret"}, {"last", "3"},
	})

	snap.Rename("target", "TARGET")

	want := []string{"first", "TARGET", "last"}
	got := snap.Names()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
	if v, ok := snap.Get("TARGET"); !ok || v != "secret" {
		t.Errorf("value after rename = %q, %v; want secret", v, ok)
	}
	if snap.Has("target") {
		t.Error("old name still present")
	}
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	snap := SnapshotFromPairs([][2]string{{"a", "1"}})
	clone := snap.Clone()
	clone.Rename("a", "A")
	clone.Set("b", "2")

	if !snap.Has("a") || snap.Has("A") || snap.Has("b") {
		t.Errorf("mutating the clone changed the original: %v", snap.Names())
	}
}

func TestSnapshot_SetUpdatesInPlace(t *testing.T) {
	snap := NewSnapshot()
	snap.Set("a", "1")
	snap.Set("b", "2")
	snap.Set("a", "updated")

	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", snap.Len())
	}
	if names := snap.Names(); names[0] != "a" {
		t.Errorf("re-setting a name must keep its position, got %v", names)
	}
	if v, _ := snap.Get("a"); v != "updated" {
		t.Errorf("a = %q, want updated", v)
	}
}

func TestParseTransformSpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TransformSpec
		wantErr bool
	}{
		{
			name:  "replace",
			input: "replace:TEMP:TMP",
			want:  TransformSpec{Op: OpReplace, Old: "TEMP", New: "TMP"},
		},
		{
			name:  "replace with empty new",
			input: "replace:TEMP:",
			want:  TransformSpec{Op: OpReplace, Old: "TEMP", New: ""},
		},
		{
			name:  "regex",
			input: "regex:_V[0-9]+$:_LATEST",
			want:  TransformSpec{Op: OpRegex, Pattern: "_V[0-9]+$", Replacement: "_LATEST"},
		},
		{
			name:  "regex with flags",
			input: "regex:legacy_::i",
			want:  TransformSpec{Op: OpRegex, Pattern: "legacy_", Replacement: "", Flags: "i"},
		},
		{
			name:  "remove prefix",
			input: "remove_prefix:MYAPP_",
			want:  TransformSpec{Op: OpRemovePrefix, Affix: "MYAPP_"},
		},
		{
			name:  "remove suffix",
			input: "remove_suffix:_OLD",
			want:  TransformSpec{Op: OpRemoveSuffix, Affix: "_OLD"},
		},
		{name: "replace missing new", input: "replace:ONLY", wantErr: true},
		{name: "replace empty old", input: "replace::NEW", wantErr: true},
		{name: "regex missing replacement", input: "regex:pat", wantErr: true},
		{name: "remove prefix empty", input: "remove_prefix:", wantErr: true},
		{name: "unknown op", input: "rot13:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransformSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTransformSpec(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got != tt.want {
				t.Errorf("ParseTransformSpec(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			// The notation round-trips.
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"invalid pattern", &InvalidPatternError{Pattern: "("}, ErrInvalidPattern},
		{"conflict", &ConflictError{}, ErrConflict},
		{"missing source", &MissingSourceError{Name: "a"}, ErrMissingSource},
		{"name collision", &NameCollisionError{OldName: "a", NewName: "b"}, ErrNameCollision},
		{"not found", &NotFoundError{Category: CategoryNaming, Index: 3}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%T, sentinel) = false", tt.err)
			}
			if tt.err.Error() == "" {
				t.Errorf("%T has empty Error()", tt.err)
			}
		})
	}
}

func TestActionIDs(t *testing.T) {
	id := NewActionID()
	parsed, err := ParseActionID(string(id))
	if err != nil {
		t.Fatalf("ParseActionID(%q) failed: %v", id, err)
	}
	if parsed != id {
		t.Errorf("ParseActionID round trip = %q, want %q", parsed, id)
	}
	if ActionIDTime(id).IsZero() {
		t.Error("ActionIDTime returned zero time for a fresh UUIDv7")
	}
	if _, err := ParseActionID("not-a-uuid"); err == nil {
		t.Error("ParseActionID accepted a malformed ID")
	}
}

func TestParseCase(t *testing.T) {
	tests := []struct {
		input   string
		want    Case
		wantErr bool
	}{
		{"uppercase", CaseUpper, false},
		{"UPPERCASE", CaseUpper, false},
		{"upper", CaseUpper, false},
		{"lowercase", CaseLower, false},
		{"snake_case", CaseSnake, false},
		{"snake", CaseSnake, false},
		{"screaming_snake_case", CaseScreamingSnake, false},
		{"camel_case", CaseCamel, false},
		{"camelCase", CaseCamel, false},
		{"pascal_case", CasePascal, false},
		{"shouting", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCase(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCase(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCase(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
