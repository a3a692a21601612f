package plan

import (
	"testing"

	"github.com/envgroom/envgroom/internal/rules"
	"github.com/envgroom/envgroom/internal/types"
)

func heuristicSet(t *testing.T) *rules.CompiledSet {
	t.Helper()
	cs, err := MergeSeeds(Heuristics(), rules.NewStore().Compiled())
	if err != nil {
		t.Fatalf("MergeSeeds() failed: %v", err)
	}
	return cs
}

func TestHeuristics_Suggestions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // "" means no suggestion
	}{
		{"lowercase secret uppercased", "api_key", "API_KEY"},
		{"lowercase token uppercased", "session_token", "SESSION_TOKEN"},
		{"mixed case uppercased", "apiUrl", "APIURL"},
		{"db variable grouped", "db_host", "DATABASE_db_host"},
		{"endpoint variable grouped", "service_endpoint", "API_service_endpoint"},
		{"url variable grouped", "service_url", "API_service_url"},
		{"redis variable grouped", "redis_port", "REDIS_redis_port"},
		{"smtp variable grouped", "smtp_server", "SMTP_smtp_server"},
		{"auth variable grouped", "oauth_client", "AUTH_oauth_client"},
		{"multi-keyword name claimed by first group", "auth_db_host", "DATABASE_auth_db_host"},
		{"already uppercase secret untouched", "API_KEY", ""},
		{"already prefixed untouched", "DATABASE_URL", ""},
		{"plain variable untouched", "hostname", ""},
	}

	cs := heuristicSet(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := types.SnapshotFromPairs([][2]string{{tt.input, "v"}})
			result, err := Plan(cs, snap)
			if err != nil {
				t.Fatalf("Plan() failed: %v", err)
			}
			if tt.expected == "" {
				if len(result.Actions) != 0 {
					t.Fatalf("want no suggestion for %q, got %+v", tt.input, result.Actions)
				}
				return
			}
			if len(result.Actions) != 1 {
				t.Fatalf("want one suggestion for %q, got %+v", tt.input, result.Actions)
			}
			if got := result.Actions[0].NewName; got != tt.expected {
				t.Errorf("suggestion for %q = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Applying a heuristic suggestion and planning again must yield nothing:
// no heuristic may re-match its own output.
func TestHeuristics_StableUnderReplanning(t *testing.T) {
	inputs := []string{
		"api_key", "session_token", "apiUrl", "db_host",
		"redis_port", "smtp_server", "oauth_client", "aws_region",
		// service_url's target still ends in "_url" and auth_db_host matches
		// two groups; both must settle after one rename.
		"service_endpoint", "service_url", "auth_db_host",
	}

	cs := heuristicSet(t)
	for _, input := range inputs {
		snap := types.SnapshotFromPairs([][2]string{{input, "v"}})
		first, err := Plan(cs, snap)
		if err != nil {
			t.Fatalf("Plan(%q) failed: %v", input, err)
		}
		if len(first.Actions) == 0 {
			continue
		}
		renamed := types.SnapshotFromPairs([][2]string{{first.Actions[0].NewName, "v"}})
		second, err := Plan(cs, renamed)
		if err != nil {
			t.Fatalf("Plan() over renamed snapshot failed: %v", err)
		}
		if len(second.Actions) != 0 {
			t.Errorf("heuristic re-matched its own output: %q -> %q -> %q",
				input, first.Actions[0].NewName, second.Actions[0].NewName)
		}
	}
}

// Custom rules run after the seeds within each category: a custom naming
// rule only applies when no seed matched first.
func TestHeuristics_SeedsPrecedeCustomRules(t *testing.T) {
	s := rules.NewStore()
	if _, err := s.Add(types.Rule{Category: types.CategoryNaming, Pattern: ".*", TargetCase: types.CaseLower}); err != nil {
		t.Fatal(err)
	}
	cs, err := MergeSeeds(Heuristics(), s.Compiled())
	if err != nil {
		t.Fatalf("MergeSeeds() failed: %v", err)
	}

	// api_key matches the secret seed (uppercase) before the custom
	// lowercase rule.
	snap := types.SnapshotFromPairs([][2]string{{"api_key", "v"}})
	result, err := Plan(cs, snap)
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}
	if len(result.Actions) != 1 || result.Actions[0].NewName != "API_KEY" {
		t.Fatalf("seed must win over custom rule, got %+v", result.Actions)
	}

	// HOSTNAME matches no seed; the custom rule applies.
	snap = types.SnapshotFromPairs([][2]string{{"HOSTNAME", "v"}})
	result, err = Plan(cs, snap)
	if err != nil {
		t.Fatalf("Plan() failed: %v", err)
	}
	if len(result.Actions) != 1 || result.Actions[0].NewName != "hostname" {
		t.Fatalf("custom rule must apply when no seed matches, got %+v", result.Actions)
	}
}
