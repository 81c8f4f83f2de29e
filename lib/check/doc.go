// Package check contains the named precondition checks of the emulated
// memcached client.
//
// Every check is a pure function returning nil when the precondition holds
// and an *AssertionFailure otherwise. The message always starts with the
// check name followed by "failed", the predicate and the observed value:
//
//	checkDelay failed delay is greater than or equals 0, got "-1".
//
// Callers may append a context suffix (for example
// `Invalid value for option "19".`).
//
// Policy decides what a failure means at the client boundary: record it and
// return false, or panic with the failure in fail-fast mode.
package check
