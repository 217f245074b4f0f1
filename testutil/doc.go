// Package testutil holds helpers shared by resultkit tests: lifecycle
// management for components, throwaway in-memory databases and free ports.
//
//	func TestRepo(t *testing.T) {
//	    db := testutil.OpenDB(t, &users.User{})
//	    // ...
//	}
package testutil
