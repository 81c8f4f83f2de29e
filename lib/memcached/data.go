package memcached

import (
	"fmt"
	"github.com/ValentinKolb/mcmock/lib/check"
	"github.com/ValentinKolb/mcmock/lib/engine"
	"github.com/ValentinKolb/mcmock/lib/result"
	"sort"
)

// ReadThroughFunc produces the value of a key missing from the cache. It
// receives the client and the fully-qualified key. Returning false keeps the
// miss, otherwise the value is stored without expiration and returned.
//
// The client lock is not held while the function runs, so it may call the
// client itself.
type ReadThroughFunc func(c *Client, key string) (value any, ok bool)

// --------------------------------------------------------------------------
// Storing Data
// --------------------------------------------------------------------------

// Set stores value under key, replacing any previous value. Set also writes
// keys that wait for a delayed delete, the new value stays hidden until the
// delete is released and is then removed with it.
func (c *Client) Set(key string, value any, expiration int64) bool {
	defer c.trace("set", map[string]any{"key": key, "value": value, "expiration": expiration})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return false
	}
	return c.set(key, value, expiration)
}

// SetMulti stores every item with the same expiration. All items are
// attempted, in key order. The result is false if any item failed and the
// last result then reports the first failure.
func (c *Client) SetMulti(items map[string]any, expiration int64) bool {
	defer c.trace("setMulti", map[string]any{"items": items, "expiration": expiration})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return false
	}

	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var firstFailure *result.Error
	for _, k := range keys {
		if !c.set(k, items[k], expiration) && firstFailure == nil {
			firstFailure = c.last
		}
	}
	if firstFailure != nil {
		c.last = firstFailure
		return false
	}
	return true
}

func (c *Client) set(key string, value any, expiration int64) bool {
	full, ok := c.resolve(key)
	if !ok {
		return false
	}
	if !c.require(result.ResInvalidArguments, check.Value(value)) {
		return false
	}
	if !c.store(full, value, c.engine.ExpireAt(expiration)) {
		return false
	}
	c.succeed()
	return true
}

// Add stores value only if key is neither present nor waiting for a delayed
// delete. A conflict is reported as ResNotStored.
func (c *Client) Add(key string, value any, expiration int64) bool {
	defer c.trace("add", map[string]any{"key": key, "value": value, "expiration": expiration})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected(result.ResWriteFailure) {
		return false
	}
	full, ok := c.resolve(key)
	if !ok {
		return false
	}
	if !c.require(result.ResNotStored, check.NotInDeleteQueue(full, c.engine.Pending(full))) {
		return false
	}
	if !c.require(result.ResNotStored, check.HasNotInCache(full, c.engine.Has(full))) {
		return false
	}
	if !c.require(result.ResInvalidArguments, check.Value(value)) {
		return false
	}
	if !c.store(full, value, c.engine.ExpireAt(expiration)) {
		return false
	}
	c.succeed()
	return true
}

// Replace stores value only if key is present. A key waiting for a delayed
// delete fails with ResDataExists, a missing key with ResNotFound.
func (c *Client) Replace(key string, value any, expiration int64) bool {
	defer c.trace("replace", map[string]any{"key": key, "value": value, "expiration": expiration})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected(result.ResWriteFailure) {
		return false
	}
	full, ok := c.resolve(key)
	if !ok {
		return false
	}
	if !c.require(result.ResDataExists, check.NotInDeleteQueue(full, c.engine.Pending(full))) {
		return false
	}
	if !c.require(result.ResNotFound, check.HasInCache(full, c.engine.Has(full))) {
		return false
	}
	if !c.require(result.ResInvalidArguments, check.Value(value)) {
		return false
	}
	if !c.store(full, value, c.engine.ExpireAt(expiration)) {
		return false
	}
	c.succeed()
	return true
}

// Append adds value to the end of the stored value. Both values must be
// scalars, the result is stored as string and keeps the expiration.
func (c *Client) Append(key string, value any) bool {
	defer c.trace("append", map[string]any{"key": key, "value": value})()
	return c.concat(key, value, false)
}

// Prepend adds value to the front of the stored value. Both values must be
// scalars, the result is stored as string and keeps the expiration.
func (c *Client) Prepend(key string, value any) bool {
	defer c.trace("prepend", map[string]any{"key": key, "value": value})()
	return c.concat(key, value, true)
}

func (c *Client) concat(key string, value any, front bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	verb := "append"
	if front {
		verb = "prepend"
	}

	if !c.connected(result.ResWriteFailure) {
		return false
	}
	full, ok := c.resolve(key)
	if !ok {
		return false
	}
	entry, present := c.engine.Lookup(full)
	if !c.require(result.ResNotStored, check.HasInCache(full, present)) {
		return false
	}
	if !c.require(result.ResInvalidArguments, check.ScalarValue(value, fmt.Sprintf("Can only %s a scalar value.", verb))) {
		return false
	}
	current, ok := c.decode(entry)
	if !ok {
		return false
	}
	if !c.require(result.ResInvalidArguments, check.ScalarValue(current, fmt.Sprintf("Can only %s to a scalar value.", verb))) {
		return false
	}

	joined := fmt.Sprint(current) + fmt.Sprint(value)
	if front {
		joined = fmt.Sprint(value) + fmt.Sprint(current)
	}
	if !c.store(full, joined, entry.ExpireAt) {
		return false
	}
	c.succeed()
	return true
}

// Touch sets a new expiration on a present key.
func (c *Client) Touch(key string, expiration int64) bool {
	defer c.trace("touch", map[string]any{"key": key, "expiration": expiration})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected(result.ResWriteFailure) {
		return false
	}
	full, ok := c.resolve(key)
	if !ok {
		return false
	}
	if !c.require(result.ResNotFound, check.HasInCache(full, c.engine.Has(full))) {
		return false
	}
	c.engine.Touch(full, c.engine.ExpireAt(expiration))
	c.succeed()
	return true
}

// --------------------------------------------------------------------------
// Reading Data
// --------------------------------------------------------------------------

// Get returns the value of key. A miss returns false with ResNotFound.
func (c *Client) Get(key string) (any, bool) {
	defer c.trace("get", map[string]any{"key": key, "cache_cb": false, "cas_token": false})()
	return c.get(key, nil)
}

// GetOrLoad returns the value of key and calls load on a miss.
//
// load runs without the client lock. Nothing is reserved while it runs: a
// value stored for the key by another call in the meantime is overwritten by
// the loaded value, and concurrent misses may each call load.
func (c *Client) GetOrLoad(key string, load ReadThroughFunc) (any, bool) {
	defer c.trace("get", map[string]any{"key": key, "cache_cb": load != nil, "cas_token": false})()
	return c.get(key, load)
}

func (c *Client) get(key string, load ReadThroughFunc) (any, bool) {
	full, v, hit, ok := c.fetch(key)
	if !ok {
		return nil, false
	}
	if hit {
		return v, true
	}
	if load == nil {
		return nil, false
	}

	value, loaded := load(c, full)
	if !loaded {
		c.mu.Lock()
		c.fail(result.ResNotFound)
		c.mu.Unlock()
		return nil, false
	}
	return c.storeLoaded(full, value)
}

// fetch looks up key. ok is false if a check failed, hit is false on a miss.
func (c *Client) fetch(key string) (full string, v any, hit bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return "", nil, false, false
	}
	if full, ok = c.resolve(key); !ok {
		return "", nil, false, false
	}
	entry, found := c.engine.Lookup(full)
	if !found {
		c.fail(result.ResNotFound)
		return full, nil, false, true
	}
	if v, ok = c.decode(entry); !ok {
		return "", nil, false, false
	}
	c.succeed()
	return full, v, true, true
}

func (c *Client) storeLoaded(full string, value any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.require(result.ResInvalidArguments, check.Value(value)) {
		return nil, false
	}
	if !c.store(full, value, engine.NeverExpires) {
		return nil, false
	}
	c.succeed()
	return value, true
}

// GetMulti returns the values of all present keys, indexed by the caller
// keys. Missing keys are left out.
func (c *Client) GetMulti(keys []string) (map[string]any, bool) {
	defer c.trace("getMulti", map[string]any{"keys": keys, "cas_tokens": false})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return nil, false
	}

	out := make(map[string]any, len(keys))
	for _, key := range keys {
		full, ok := c.resolve(key)
		if !ok {
			return nil, false
		}
		entry, found := c.engine.Lookup(full)
		if !found {
			continue
		}
		v, ok := c.decode(entry)
		if !ok {
			return nil, false
		}
		out[key] = v
	}
	c.succeed()
	return out, true
}

// --------------------------------------------------------------------------
// Deleting Data
// --------------------------------------------------------------------------

// Delete removes key. With a delay above 0 the key is hidden immediately and
// removed when the delay has passed, add and replace fail until then. A
// negative delay is a release time in the past and removes the key on the
// next access. A second delayed delete never moves the removal to a later
// time, a delete with delay 0 always removes the key at once.
func (c *Client) Delete(key string, delay int64) bool {
	defer c.trace("delete", map[string]any{"key": key, "time": delay})()
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.delete(key, delay)
}

// DeleteMulti deletes every key. All keys are attempted, the result is false
// with ResNotFound if any delete failed.
func (c *Client) DeleteMulti(keys []string, delay int64) bool {
	defer c.trace("deleteMulti", map[string]any{"keys": keys, "time": delay})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return false
	}
	ok := true
	for _, key := range keys {
		ok = c.delete(key, delay) && ok
	}
	if !ok {
		c.fail(result.ResNotFound)
		return false
	}
	return true
}

func (c *Client) delete(key string, delay int64) bool {
	if !c.connected() {
		return false
	}
	full, ok := c.resolve(key)
	if !ok {
		return false
	}
	if !c.engine.Delete(full, delay) {
		c.fail(result.ResNotFound)
		return false
	}
	c.succeed()
	return true
}

// Flush invalidates all keys, immediately for a delay of 0, otherwise once
// the delay has passed. A newer delayed flush replaces an older one.
func (c *Client) Flush(delay int64) bool {
	defer c.trace("flush", map[string]any{"delay": delay})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return false
	}
	if !c.require(result.ResInvalidArguments, check.Delay(delay)) {
		return false
	}
	c.engine.Flush(delay)
	c.succeed()
	return true
}
