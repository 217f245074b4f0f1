package authz

import "strings"

// MatchPattern reports whether pattern grants required. Both are
// "resource:action" strings and "*" matches any one half; "*" alone or
// "*:*" matches everything. Strings without a colon compare whole.
func MatchPattern(pattern, required string) bool {
	if pattern == required || pattern == "*" || pattern == "*:*" {
		return true
	}
	patRes, patAct, patOK := strings.Cut(pattern, ":")
	reqRes, reqAct, reqOK := strings.Cut(required, ":")
	if !patOK || !reqOK {
		return false
	}
	return wildcard(patRes, reqRes) && wildcard(patAct, reqAct)
}

// MatchAny reports whether any of patterns grants required.
func MatchAny(patterns []string, required string) bool {
	for _, p := range patterns {
		if MatchPattern(p, required) {
			return true
		}
	}
	return false
}

func wildcard(pattern, value string) bool {
	return pattern == "*" || pattern == value
}
