// Package testutil provides fixtures shared by package tests: seeded data
// directories, a discarding logger, and fixed request ids.
//
// testutil imports only leaf packages so that any package's internal tests
// can use it without an import cycle.
package testutil
