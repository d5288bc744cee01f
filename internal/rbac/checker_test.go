package rbac

import "testing"

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	tests := []struct {
		role, perm string
		want       bool
	}{
		{"employee", "article:view", true},
		{"employee", "quiz:take", true},
		{"employee", "quiz:edit", false},
		{"employee", "article:edit", false},
		{"editor", "quiz:edit", true},
		{"editor", "article:delete", true},
		{"admin", "anything:at-all", true},
		{"", "article:view", false},
		{"unknown", "article:view", false},
	}
	for _, tc := range tests {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"bot": {"quiz:*"}})
	if !c.Has("bot", "quiz:take") || !c.Has("bot", "quiz:edit") {
		t.Error("prefix wildcard should match quiz permissions")
	}
	if c.Has("bot", "article:view") {
		t.Error("prefix wildcard must not match other namespaces")
	}
	if !c.Any("bot", "article:view", "quiz:take") {
		t.Error("Any should succeed when one permission matches")
	}
}
