package events

import (
	"testing"

	"github.com/leukipp/wmgo/common"
)

// Rule class=Firefox -> tags=1<<8.
func TestMatchRuleClassAssignsTags(t *testing.T) {
	rules := []common.Rule{
		{Class: "Gimp", IsFloating: true, Monitor: -1},
		{Class: "Firefox", Tags: 1 << 8, Monitor: -1},
	}

	r, ok := matchRule("Firefox", "Navigator", "Mozilla Firefox", rules)
	if !ok {
		t.Fatalf("matchRule should match the Firefox rule")
	}
	if r.Tags != 1<<8 {
		t.Fatalf("matched rule tags = %#x, want %#x", r.Tags, uint32(1<<8))
	}
}

func TestMatchRuleFirstMatchWins(t *testing.T) {
	rules := []common.Rule{
		{Class: "Firefox", Tags: 1, Monitor: -1},
		{Class: "Firefox", Tags: 2, Monitor: -1},
	}
	r, ok := matchRule("Firefox", "", "", rules)
	if !ok || r.Tags != 1 {
		t.Fatalf("matchRule should return the first matching rule, got %+v ok=%v", r, ok)
	}
}

func TestMatchRuleNoMatch(t *testing.T) {
	rules := []common.Rule{{Class: "Gimp", IsFloating: true}}
	_, ok := matchRule("Firefox", "", "", rules)
	if ok {
		t.Fatalf("matchRule should report no match for an unrelated class")
	}
}

func TestMatchRuleRequiresAllNonEmptyFields(t *testing.T) {
	rules := []common.Rule{{Class: "Firefox", Title: "Private Browsing"}}
	if _, ok := matchRule("Firefox", "", "Mozilla Firefox", rules); ok {
		t.Fatalf("matchRule should require the title field to match too")
	}
	if _, ok := matchRule("Firefox", "", "Private Browsing - Mozilla Firefox", rules); !ok {
		t.Fatalf("matchRule should match once both class and title match")
	}
}

func TestMatchesIgnore(t *testing.T) {
	ignore := [][2]string{{"Picture-in-Picture", ""}}
	if !matchesIgnore("Firefox Picture-in-Picture", "", ignore) {
		t.Fatalf("matchesIgnore should match on class substring with an empty instance pattern")
	}
	if matchesIgnore("Firefox", "", ignore) {
		t.Fatalf("matchesIgnore matched a class that doesn't contain the pattern")
	}
}
