// Package result provides a generic success-or-failure value for service
// code that reports expected failures without panics or sentinel errors.
//
// A Result is either a Success holding an optional value and a message, or a
// Failure holding an *errors.Error. Results are immutable; every operator
// returns a new Result.
//
// # Absent values
//
// A success may carry no value (Empty, or Success with a nil pointer, map,
// slice, interface, chan or func). Map, FlatMap, Validate and OnSuccess skip
// their callback for such results instead of calling it with a nil value.
// This mirrors the library's historical behaviour and is easy to miss.
//
// # Usage
//
//	r := result.Success(user).
//	    Validate(func(u User) bool { return u.Active }, "user is inactive")
//	name := result.Map(r, func(u User) string { return u.Name })
//
//	all := result.Combine([]result.Result[int]{a, b, c})
//
// # Messages
//
// Default success and error texts come from a Messages provider. The
// process-wide provider can be replaced once at startup with SetMessages;
// callers needing isolation pass one explicitly (SuccessWith) or through a
// context (WithMessages, SuccessCtx).
package result
