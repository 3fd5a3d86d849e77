package common

import "strings"

// ContainsFold reports whether s contains substr, case-insensitively. Used
// by the rule table (§6) to match WM_CLASS/WM_INSTANCE/title substrings.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
