// Package testutil provides seeded synthetic sample generators for
// tests and examples.
package testutil
