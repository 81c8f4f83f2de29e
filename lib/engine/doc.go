// Package engine implements the state of the emulated memcached server.
//
// The Engine keeps three pieces of state:
//
//   - the store, a map from fully-qualified key to Entry, backed by an
//     xsync.MapOf
//   - the delete queue, keys waiting for a delayed delete ordered by release
//     time (util.MapHeap)
//   - an optional delayed flush deadline
//
// There are no timers or background goroutines. Every public method first
// applies a due flush and releases elapsed deletes, then answers against the
// engine Clock. Tests inject a ManualClock to move time explicitly.
//
// Time arguments follow memcached: values below RelativeThreshold (30 days)
// are relative to now, larger values are unix timestamps. An expiration of 0
// never expires, a delay of 0 means now. See NormalizeExpiration and
// NormalizeDelay.
//
// Per key the engine moves between three states:
//
//	Absent --Put--> Live --Delete(0)/expiry--> Absent
//	Live --Delete(d>0)--> PendingDelete --release < now--> Absent
//
// While a key is pending, Lookup does not find it even if Put stored a new
// entry in the meantime. The entry is removed together with the queue row.
package engine
