// Package database provides a GORM database with connection retry,
// zerolog query logging, optional OpenTelemetry spans and helpers that speak
// result.Result.
//
// RunInTx treats a result as a unit-of-work signal: a success commits, and a
// result whose ShouldAbort reports true rolls the transaction back. ErrorFrom
// maps driver errors onto error kinds so repositories can return failures
// directly:
//
//	func (r *Repo) Get(ctx context.Context, id string) result.Result[User] {
//	    var u User
//	    err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
//	    return database.From(u, err, "user")
//	}
//
// The default driver is github.com/glebarez/sqlite, a pure-Go dialector, so
// the package builds without cgo. Driver "postgres" uses gorm.io/driver/postgres
// over pgx.
package database
