package csbitvectors

import "os"

// DebugAssertions toggles extra, expensive correctness checks in
// package rrr's Build (re-deriving every encoded block and panicking on
// mismatch). Off by default so production builds pay nothing for it;
// set CSBV_DEBUG_ASSERT=1 before process start to enable it. Read once
// at init, matching the teacher's pattern of environment-driven dev
// toggles that never sit on the hot path.
var DebugAssertions bool

func init() {
	DebugAssertions = os.Getenv("CSBV_DEBUG_ASSERT") == "1"
}
