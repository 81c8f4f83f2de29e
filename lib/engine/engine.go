package engine

import (
	"github.com/ValentinKolb/mcmock/lib/engine/util"
	"github.com/puzpuzpuz/xsync/v3"
	"sort"
)

// --------------------------------------------------------------------------
// Flush Scheduler
// --------------------------------------------------------------------------

// flushScheduler holds at most one pending flush deadline.
type flushScheduler struct {
	deadline int64 // 0 = no flush scheduled
}

// schedule overwrites the pending deadline.
func (f *flushScheduler) schedule(at int64) { f.deadline = at }

// due reports whether the pending flush must run at now and clears it if so.
func (f *flushScheduler) due(now int64) bool {
	if f.deadline == 0 || f.deadline > now {
		return false
	}
	f.deadline = 0
	return true
}

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Engine is the emulated cache server state: the entry store, the delayed
// delete queue and the delayed flush. Nothing happens in the background.
// Expired entries, released deletes and due flushes are applied lazily at the
// start of the next call that touches the engine.
//
// Thread-safety: Engine is not thread-safe. Callers serialize access, the
// memcached.Client holds one lock for the whole of each operation.
type Engine struct {
	clock Clock
	data  *xsync.MapOf[string, Entry]
	queue *util.MapHeap // key -> release time of delayed deletes
	flush flushScheduler
}

// Stats summarizes the engine state.
type Stats struct {
	Items          int   `json:"curr_items"`      // Live entries
	Bytes          int64 `json:"bytes"`           // Sum of live payload sizes
	PendingDeletes int   `json:"pending_deletes"` // Keys waiting for a delayed delete
	AvgItemSize    int   `json:"avg_item_size"`
	MedianItemSize int   `json:"median_item_size"`
	FlushAt        int64 `json:"flush_at"` // Pending flush deadline, 0 for none
	Time           int64 `json:"time"`     // Current engine time
}

// New creates an empty engine. A nil clock uses the wall clock.
func New(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		clock: clock,
		data:  xsync.NewMapOf[string, Entry](),
		queue: util.NewMapHeap(),
	}
}

// Now returns the current engine time in unix seconds.
func (e *Engine) Now() int64 {
	return e.clock.Now().Unix()
}

// ExpireAt normalizes an expiration argument against the engine clock.
func (e *Engine) ExpireAt(expiration int64) int64 {
	return NormalizeExpiration(e.Now(), expiration)
}

// sweep applies a due delayed flush and removes every key whose delayed
// delete has been released. Returns the current time.
func (e *Engine) sweep() int64 {
	now := e.Now()
	if e.flush.due(now) {
		e.data.Clear()
	}
	for _, key := range e.queue.PopBefore(now) {
		e.data.Delete(key)
	}
	return now
}

// live returns the entry of key if it exists and is not expired. Expired
// entries are removed.
func (e *Engine) live(key string, now int64) (Entry, bool) {
	return e.data.Compute(key, func(old Entry, loaded bool) (Entry, bool) {
		if !loaded || old.Expired(now) {
			return old, true
		}
		return old, false
	})
}

// --------------------------------------------------------------------------
// Read Operations
// --------------------------------------------------------------------------

// Lookup returns the entry of key if it is live and not waiting for a
// delayed delete.
func (e *Engine) Lookup(key string) (Entry, bool) {
	now := e.sweep()
	if e.queue.Contains(key) {
		return Entry{}, false
	}
	return e.live(key, now)
}

// Has reports whether Lookup would find key.
func (e *Engine) Has(key string) bool {
	_, ok := e.Lookup(key)
	return ok
}

// Pending reports whether key waits for a delayed delete.
func (e *Engine) Pending(key string) bool {
	e.sweep()
	return e.queue.Contains(key)
}

// Expiry returns the absolute expiration of a visible key, NeverExpires for
// entries without expiration.
func (e *Engine) Expiry(key string) (int64, bool) {
	entry, ok := e.Lookup(key)
	if !ok {
		return 0, false
	}
	return entry.ExpireAt, true
}

// Keys returns the sorted keys of all visible entries.
func (e *Engine) Keys() []string {
	now := e.sweep()
	keys := make([]string, 0, e.data.Size())
	var expired []string
	e.data.Range(func(key string, entry Entry) bool {
		switch {
		case entry.Expired(now):
			expired = append(expired, key)
		case !e.queue.Contains(key):
			keys = append(keys, key)
		}
		return true
	})
	for _, key := range expired {
		e.data.Delete(key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of visible entries.
func (e *Engine) Len() int {
	return len(e.Keys())
}

// Stats returns a snapshot of the engine state.
func (e *Engine) Stats() Stats {
	keys := e.Keys()
	sizes := make([]int, 0, len(keys))
	for _, key := range keys {
		if entry, ok := e.data.Load(key); ok {
			sizes = append(sizes, len(entry.Payload))
		}
	}
	summary := util.Summarize(sizes)
	return Stats{
		Items:          len(keys),
		Bytes:          summary.Sum,
		PendingDeletes: e.queue.Len(),
		AvgItemSize:    summary.Average,
		MedianItemSize: summary.Median,
		FlushAt:        e.flush.deadline,
		Time:           e.Now(),
	}
}

// --------------------------------------------------------------------------
// Write Operations
// --------------------------------------------------------------------------

// Put stores entry under key, replacing any previous entry. Put bypasses the
// delete queue: a key waiting for a delayed delete stays hidden and is removed
// once the delete is released.
func (e *Engine) Put(key string, entry Entry) {
	e.sweep()
	e.data.Store(key, entry)
}

// Touch sets a new absolute expiration on a visible key.
func (e *Engine) Touch(key string, expireAt int64) bool {
	now := e.sweep()
	if e.queue.Contains(key) {
		return false
	}
	_, ok := e.data.Compute(key, func(old Entry, loaded bool) (Entry, bool) {
		if !loaded || old.Expired(now) {
			return old, true
		}
		old.ExpireAt = expireAt
		return old, false
	})
	return ok
}

// Delete removes key. With delay 0 the entry and any queue row are removed
// immediately, otherwise the key is queued until the normalized release time.
// A release in the past takes effect on the next access. An existing queue
// row is only moved to an earlier release, never to a later one.
// Returns false when the key is neither live nor queued.
func (e *Engine) Delete(key string, delay int64) bool {
	now := e.sweep()
	_, live := e.live(key, now)
	pending := e.queue.Contains(key)
	if !live && !pending {
		return false
	}

	if delay == 0 {
		e.data.Delete(key)
		e.queue.RemoveByKey(key)
		return true
	}

	release := NormalizeDelay(now, delay)
	if current, ok := e.queue.GetByKey(key); ok && current <= release {
		return true
	}
	e.queue.AddItem(key, release)
	return true
}

// Flush invalidates all entries. A delay below 1 clears the store
// immediately, otherwise the flush runs on the first access at or after the
// normalized deadline. A newer delayed flush replaces an older one.
func (e *Engine) Flush(delay int64) {
	now := e.sweep()
	if delay < 1 {
		e.data.Clear()
		return
	}
	e.flush.schedule(NormalizeDelay(now, delay))
}
