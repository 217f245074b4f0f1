package authz

// Checker decides whether subject, usually a role, holds permission.
type Checker interface {
	HasPermission(subject, permission string) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(subject, permission string) bool

// HasPermission implements Checker.
func (f CheckerFunc) HasPermission(subject, permission string) bool {
	return f(subject, permission)
}

// MapChecker is a static subject to permission-pattern table.
type MapChecker struct {
	permissions map[string][]string
}

// NewMapChecker creates a MapChecker. The map is not copied.
func NewMapChecker(permissions map[string][]string) *MapChecker {
	return &MapChecker{permissions: permissions}
}

// HasPermission implements Checker. Unknown subjects hold nothing.
func (c *MapChecker) HasPermission(subject, required string) bool {
	return MatchAny(c.permissions[subject], required)
}

// AnyHas reports whether at least one of subjects holds permission.
func AnyHas(c Checker, subjects []string, permission string) bool {
	for _, s := range subjects {
		if c.HasPermission(s, permission) {
			return true
		}
	}
	return false
}
