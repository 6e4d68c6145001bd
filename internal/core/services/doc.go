// Package services implements the driving port interfaces.
// Services contain the token lifecycle, request orchestration and
// generic command dispatch, and call out to driven ports (adapters).
//
// Services are pure Go with no CGO. Beyond the standard library they
// only import golang.org/x packages.
package services
