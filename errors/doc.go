// Package errors provides the closed error taxonomy used by result values.
//
// Every failure carries exactly one Kind and a human-readable message:
//
//	Generic        unexpected failures (mapped to 500)
//	Validation     rejected input (400)
//	Unauthorized   missing or invalid credentials (401)
//	NotFound       missing resource (404)
//	AlreadyExists  duplicate resource (409)
//
// The set is closed. Adding a kind means updating Kinds, the code table and
// every transport mapping (see package response).
//
// # Usage
//
//	err := errors.NotFound("user 42 was not found")
//	err.Kind()    // errors.KindNotFound
//	err.Message() // "user 42 was not found"
package errors
