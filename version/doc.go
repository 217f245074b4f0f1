// Package version reports the build a resultkit service runs from.
//
// Values are stamped at link time and fall back to the VCS settings the Go
// toolchain records in the binary:
//
//	go build -ldflags "-X github.com/kbukum/resultkit/version.Version=1.4.0" ./cmd/resultd
//
// bootstrap uses String as the service version when the config leaves it
// empty, and serves Get on GET /version.
package version
