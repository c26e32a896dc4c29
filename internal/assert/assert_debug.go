//go:build debug

package assert

import "fmt"

// Invariant panics in debug builds when ok is false.
// Use it for internal sanity checks, never for validating configuration or
// request input.
//
//	assert.Invariant(len(b.keys) == len(b.values), "bag keys and values out of sync")
func Invariant(ok bool, msg string) {
	if !ok {
		panic(fmt.Sprintf("INVARIANT VIOLATION: %s", msg))
	}
}
