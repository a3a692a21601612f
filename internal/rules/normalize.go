// internal/rules/normalize.go
package rules

import (
	"strings"

	"github.com/envgroom/envgroom/internal/types"
)

/*
 * Naming normalizer.
 *
 * Converts variable names between the supported case conventions. Total
 * function: never fails, empty input maps to empty output, unknown cases
 * return the name unchanged.
 *
 * Word segmentation uses three boundary kinds:
 *   - explicit separators: underscore and hyphen
 *   - lower/digit -> upper transitions (apiKey -> api | Key)
 *   - acronym tails: the last upper of an upper run before a lower
 *     (HTTPServer -> HTTP | Server)
 *
 * uppercase/lowercase deliberately skip case-transition splitting: they only
 * recase the token, normalizing separators to underscores when the original
 * had any. This keeps uppercase("apiKey") == "APIKEY", matching how
 * operators expect plain recasing to behave, while snake/screaming variants
 * do the full word split.
 */

// Normalize converts name into the target case convention.
func Normalize(name string, target types.Case) string {
	if name == "" {
		return ""
	}

	switch target {
	case types.CaseUpper:
		return recase(name, strings.ToUpper)
	case types.CaseLower:
		return recase(name, strings.ToLower)
	case types.CaseSnake:
		return joinSegments(splitWords(name), strings.ToLower, "_")
	case types.CaseScreamingSnake:
		return joinSegments(splitWords(name), strings.ToUpper, "_")
	case types.CaseCamel:
		segs := splitWords(name)
		if len(segs) == 0 {
			return name
		}
		var b strings.Builder
		b.WriteString(strings.ToLower(segs[0]))
		for _, s := range segs[1:] {
			b.WriteString(capitalize(s))
		}
		return b.String()
	case types.CasePascal:
		segs := splitWords(name)
		var b strings.Builder
		for _, s := range segs {
			b.WriteString(capitalize(s))
		}
		return b.String()
	}
	return name
}

// recase applies fn to separator-delimited segments, joining with "_" when
// the original had separators, else to the whole token unchanged in shape.
func recase(name string, fn func(string) string) string {
	if !strings.ContainsAny(name, "_-") {
		return fn(name)
	}
	segs := splitSeparators(name)
	return joinSegments(segs, fn, "_")
}

// splitSeparators splits on underscores and hyphens only, dropping empty
// segments produced by doubled or leading separators.
func splitSeparators(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
}

// splitWords splits a name into word segments at separators and case
// transitions.
func splitWords(name string) []string {
	var words []string
	for _, tok := range splitSeparators(name) {
		words = append(words, splitCaseTransitions(tok)...)
	}
	return words
}

// splitCaseTransitions breaks one separator-free token at lower->upper
// boundaries and at the end of acronym runs.
func splitCaseTransitions(tok string) []string {
	runes := []rune(tok)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		if isLowerOrDigit(prev) && isUpper(cur) {
			boundary = true
		} else if isUpper(prev) && isUpper(cur) && i+1 < len(runes) && isLower(runes[i+1]) {
			// Acronym tail: HTTPServer splits before the 'S'.
			boundary = true
		}
		if boundary {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

func joinSegments(segs []string, fn func(string) string, sep string) string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = fn(s)
	}
	return strings.Join(out, sep)
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

func isLowerOrDigit(r rune) bool {
	return isLower(r) || (r >= '0' && r <= '9')
}
