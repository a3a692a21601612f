package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/envgroom/envgroom/internal/types"
)

func TestNormalize_Cases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		target   types.Case
		expected string
	}{
		{"uppercase simple", "api_key", types.CaseUpper, "API_KEY"},
		{"uppercase already upper", "API_KEY", types.CaseUpper, "API_KEY"},
		{"uppercase hyphen normalized", "api-key", types.CaseUpper, "API_KEY"},
		{"uppercase no separators keeps shape", "apiKey", types.CaseUpper, "APIKEY"},
		{"lowercase simple", "API_KEY", types.CaseLower, "api_key"},
		{"lowercase mixed separators", "My-Api_Key", types.CaseLower, "my_api_key"},
		{"snake from camel", "apiKey", types.CaseSnake, "api_key"},
		{"snake from pascal", "ApiKey", types.CaseSnake, "api_key"},
		{"snake from screaming", "API_KEY", types.CaseSnake, "api_key"},
		{"snake acronym tail", "HTTPServerPort", types.CaseSnake, "http_server_port"},
		{"snake digits stay with word", "db2Host", types.CaseSnake, "db2_host"},
		{"screaming from camel", "apiKey", types.CaseScreamingSnake, "API_KEY"},
		{"screaming from hyphens", "api-key-id", types.CaseScreamingSnake, "API_KEY_ID"},
		{"camel from snake", "api_key", types.CaseCamel, "apiKey"},
		{"camel from screaming", "API_KEY_ID", types.CaseCamel, "apiKeyId"},
		{"pascal from snake", "api_key", types.CasePascal, "ApiKey"},
		{"pascal from hyphens", "redis-host", types.CasePascal, "RedisHost"},
		{"empty input", "", types.CaseUpper, ""},
		{"single word upper", "path", types.CaseUpper, "PATH"},
		{"unknown case unchanged", "api_key", types.Case("shouting"), "api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input, tt.target)
			if got != tt.expected {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.input, tt.target, got, tt.expected)
			}
		})
	}
}

// A second normalization pass over already-normalized output must be a
// no-op, otherwise repeated planning would keep suggesting renames.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"api_key", "apiKey", "HTTPServerPort", "My-Api-Key", "db2Host", "PATH"}
	cases := []types.Case{
		types.CaseUpper, types.CaseLower, types.CaseSnake,
		types.CaseScreamingSnake, types.CaseCamel, types.CasePascal,
	}
	for _, input := range inputs {
		for _, c := range cases {
			once := Normalize(input, c)
			twice := Normalize(once, c)
			if once != twice {
				t.Errorf("Normalize(%q, %q): second pass changed %q to %q", input, c, once, twice)
			}
		}
	}
}

func TestNormalize_PropertyTotalAndIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	allCases := []types.Case{
		types.CaseUpper, types.CaseLower, types.CaseSnake,
		types.CaseScreamingSnake, types.CaseCamel, types.CasePascal,
	}

	properties.Property("never panics on arbitrary identifiers", prop.ForAll(
		func(name string, caseIdx int) bool {
			target := allCases[caseIdx%len(allCases)]
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Normalize(%q, %q) panicked: %v", name, target, r)
				}
			}()
			_ = Normalize(name, target)
			return true
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z0-9_-]{0,20}`),
		gen.IntRange(0, 5),
	))

	// camelCase/PascalCase are excluded: with single-letter words the
	// segmentation of their own output is ambiguous (a_b_c -> ABC).
	separatorCases := []types.Case{
		types.CaseUpper, types.CaseLower, types.CaseSnake, types.CaseScreamingSnake,
	}

	properties.Property("separator-joined cases are idempotent", prop.ForAll(
		func(name string, caseIdx int) bool {
			target := separatorCases[caseIdx%len(separatorCases)]
			once := Normalize(name, target)
			return Normalize(once, target) == once
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z0-9_-]{0,20}`),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}
