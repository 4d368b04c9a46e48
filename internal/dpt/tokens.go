package dpt

import (
	"regexp"
	"strings"
)

// FindName returns the first token that equals one of names, ignoring case.
// The returned string is the matching entry of names.
func FindName(tokens []string, names ...string) (string, bool) {
	for _, tok := range tokens {
		for _, name := range names {
			if strings.EqualFold(tok, name) {
				return name, true
			}
		}
	}
	return "", false
}

// FindPattern returns the conversion of the first token that matches re and
// converts without error. convert receives the submatches of re.
func FindPattern[T any](tokens []string, re *regexp.Regexp, convert func(match []string) (T, error)) (T, bool) {
	for _, tok := range tokens {
		match := re.FindStringSubmatch(tok)
		if match == nil {
			continue
		}
		if v, err := convert(match); err == nil {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// HasToken reports whether any token equals one of candidates, ignoring case.
func HasToken(tokens []string, candidates ...string) bool {
	_, ok := FindName(tokens, candidates...)
	return ok
}

// splitTokens splits whitespace-delimited input the way the CLI does.
func splitTokens(s string) []string {
	return strings.Fields(s)
}
