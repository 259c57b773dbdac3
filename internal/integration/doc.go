// Package integration holds the end to end suite. It needs docker and runs
// with the integration build tag: go test -tags integration ./internal/integration/...
package integration
