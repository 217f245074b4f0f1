package authz

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, required string
		want              bool
	}{
		{"*:*", "user:read", true},
		{"*", "anything", true},
		{"user:*", "user:summary", true},
		{"*:read", "user:read", true},
		{"user:read", "user:read", true},
		{"user:read", "user:write", false},
		{"user:*", "order:read", false},
		{"*:read", "user:write", false},
		{"user", "user:read", false},
		{"user", "user", true},
		{"", "user:read", false},
	}
	for _, tt := range tests {
		if got := MatchPattern(tt.pattern, tt.required); got != tt.want {
			t.Errorf("MatchPattern(%q, %q) = %v, want %v", tt.pattern, tt.required, got, tt.want)
		}
	}
}

func TestMapChecker(t *testing.T) {
	c := NewMapChecker(map[string][]string{
		"admin": {"*:*"},
		"user":  {"user:read", "profile:*"},
	})
	tests := []struct {
		subjects   []string
		permission string
		want       bool
	}{
		{[]string{"admin"}, "user:summary", true},
		{[]string{"user"}, "user:read", true},
		{[]string{"user"}, "profile:update", true},
		{[]string{"user"}, "user:summary", false},
		{[]string{"guest"}, "user:read", false},
		{nil, "user:read", false},
		{[]string{"guest", "user"}, "user:read", true},
	}
	for _, tt := range tests {
		if got := AnyHas(c, tt.subjects, tt.permission); got != tt.want {
			t.Errorf("AnyHas(%v, %q) = %v, want %v", tt.subjects, tt.permission, got, tt.want)
		}
	}
}

func TestCheckerFunc(t *testing.T) {
	deny := CheckerFunc(func(string, string) bool { return false })
	if AnyHas(deny, []string{"admin"}, "user:read") {
		t.Error("CheckerFunc result ignored")
	}
}
