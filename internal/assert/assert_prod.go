//go:build !debug

package assert

// Invariant is a no-op unless built with the debug tag.
func Invariant(bool, string) {}
