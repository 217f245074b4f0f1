// Package authz maps roles to "resource:action" permissions.
//
// Patterns may use "*" for either half:
//
//	checker := authz.NewMapChecker(map[string][]string{
//	    "admin": {"*:*"},
//	    "user":  {"user:read"},
//	})
//	checker.HasPermission("user", "user:read")    // true
//	checker.HasPermission("user", "user:summary") // false
//
// middleware.RequirePermission checks the roles carried by request claims
// against a Checker.
package authz
