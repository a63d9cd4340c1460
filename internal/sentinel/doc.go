// Package sentinel provides a const-declarable error type for sentinel
// error declarations.
//
// Sentinels declared with errors.New are package-level variables that can
// be reassigned. Declaring them as sentinel.Error constants makes them
// immutable while staying compatible with errors.Is through wrapping.
package sentinel
