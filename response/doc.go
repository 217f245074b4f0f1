// Package response maps results onto transport responses.
//
// Map turns a result.Result into an HTTP status code and an Envelope:
//
//	{"success": true,  "message": "...", "data": {...}}   200
//	{"success": false, "message": "...", "data": null}    400/401/404/409/500
//
// Status codes by error kind:
//
//	Validation     400
//	Unauthorized   401
//	NotFound       404
//	AlreadyExists  409
//	Generic        500 (also any unknown kind)
//
// The package never writes bytes; see package server for the gin binding.
package response
