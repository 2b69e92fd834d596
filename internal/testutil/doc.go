// Package testutil provides small builders shared by _test files across
// jogcore packages.
package testutil
