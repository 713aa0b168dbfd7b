package scope

import "strings"

// suffixSeparator joins a resource name and the company abbreviation.
// The separator is part of the convention: "Depósito Central - NS".
const suffixSeparator = " - "

// Scope identifies the tenant company a resource name is namespaced to.
type Scope struct {
	CompanyName string
	Abbr        string
}

// Operation identifies which codec operation a Verify call is checking.
type Operation string

const (
	// OpApply is the suffix-adding operation
	OpApply Operation = "apply"
	// OpStrip is the suffix-removing operation
	OpStrip Operation = "strip"
)

// Apply appends the scope suffix " - <abbr>" to an identifier.
//
// The second return value reports whether the identifier was changed.
// It is false when the identifier already carries the suffix (Apply is
// idempotent) and when either argument is blank. The scoping convention
// is advisory metadata on top of the ERP's freeform name field, so
// malformed input degrades to a no-op instead of an error.
func Apply(identifier, abbr string) (string, bool) {
	abbr = strings.TrimSpace(abbr)
	if strings.TrimSpace(identifier) == "" || abbr == "" {
		return identifier, false
	}
	if HasScope(identifier, abbr) {
		return identifier, false
	}
	return identifier + suffixSeparator + abbr, true
}

// Strip removes the scope suffix " - <abbr>" from an identifier.
// Identifiers that do not carry the suffix are returned unchanged with
// a false second return value.
func Strip(identifier, abbr string) (string, bool) {
	abbr = strings.TrimSpace(abbr)
	if abbr == "" || !HasScope(identifier, abbr) {
		return identifier, false
	}
	trimmed := strings.TrimRight(identifier, " \t")
	return strings.TrimSuffix(trimmed, suffixSeparator+abbr), true
}

// HasScope reports whether an identifier already ends with the scope
// suffix for the given abbreviation. Trailing whitespace on the
// identifier is tolerated.
func HasScope(identifier, abbr string) bool {
	trimmed := strings.TrimRight(identifier, " \t")
	return strings.HasSuffix(trimmed, suffixSeparator+strings.TrimSpace(abbr))
}

// Verify recomputes the expected result of a codec operation and reports
// whether the observed result matches. Callers use it as a post-hoc
// sanity check after a transform; it never blocks the operation itself.
//
// It detects a missing suffix after Apply, a residual suffix after
// Strip, a duplicated suffix, and a base-identifier mismatch.
func Verify(original, result, abbr string, op Operation) bool {
	switch op {
	case OpApply:
		expected, _ := Apply(original, abbr)
		if result != expected {
			return false
		}
		// A duplicated suffix survives one Strip.
		base, _ := Strip(result, abbr)
		return !HasScope(base, abbr)
	case OpStrip:
		expected, _ := Strip(original, abbr)
		return result == expected && !HasScope(result, abbr)
	default:
		return false
	}
}

// ResolvePartyName scopes a customer or supplier name like Apply, with
// one extra guard: a name that already carries a trailing " - <token>"
// whose token does not match abbr (case-insensitively) belongs to a
// different tenant and is never re-scoped.
func ResolvePartyName(name, abbr string) (string, bool) {
	abbr = strings.TrimSpace(abbr)
	if strings.TrimSpace(name) == "" || abbr == "" {
		return name, false
	}
	if _, ok := trailingScopeToken(name); ok {
		// Either this tenant's suffix (possibly in a different case) or
		// a foreign one; the name must not gain a second suffix.
		return name, false
	}
	return Apply(name, abbr)
}

// trailingScopeToken extracts the token of a trailing " - <token>"
// pattern. Scope abbreviations are short single words, so a tail that
// contains spaces (e.g. "Fret - Los Alamos") is a name fragment, not a
// scope suffix.
func trailingScopeToken(name string) (string, bool) {
	idx := strings.LastIndex(name, suffixSeparator)
	if idx < 0 {
		return "", false
	}
	token := strings.TrimRight(name[idx+len(suffixSeparator):], " \t")
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
