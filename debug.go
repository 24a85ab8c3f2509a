package scenegraph

import "fmt"

// DebugChecks enables contract-violation panics: reading a stale world AABB,
// assigning an out-of-range render queue, exceeding the tree depth guard.
// These indicate caller bugs, not runtime conditions; with checks disabled
// the behavior of a violating call is undefined.
var DebugChecks = true

func debugAssert(cond bool, format string, args ...any) {
	if DebugChecks && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
