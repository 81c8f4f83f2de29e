package memcached

import (
	"github.com/ValentinKolb/mcmock/lib/check"
	"github.com/ValentinKolb/mcmock/lib/result"
)

// Increment adds offset to the integer stored under key and returns the new
// value. A missing key is created with initial (offset is not applied) and
// the given expiry. An existing key keeps its expiration. Counters are stored
// as int64, an increment past math.MaxInt64 fails with invalid arguments and
// leaves the value unchanged.
func (c *Client) Increment(key string, offset, initial, expiry int64) (int64, bool) {
	defer c.trace("increment", map[string]any{"key": key, "offset": offset, "initial_value": initial, "expiry": expiry})()
	return c.count(key, offset, initial, expiry, false)
}

// Decrement subtracts offset from the integer stored under key and returns
// the new value, never going below 0. Missing keys behave as in Increment.
func (c *Client) Decrement(key string, offset, initial, expiry int64) (int64, bool) {
	defer c.trace("decrement", map[string]any{"key": key, "offset": offset, "initial_value": initial, "expiry": expiry})()
	return c.count(key, offset, initial, expiry, true)
}

func (c *Client) count(key string, offset, initial, expiry int64, decrement bool) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return 0, false
	}
	full, ok := c.resolve(key)
	if !ok {
		return 0, false
	}

	entry, present := c.engine.Lookup(full)
	if !present {
		if !c.require(result.ResInvalidArguments, check.Expiry(expiry)) {
			return 0, false
		}
		if !c.store(full, initial, c.engine.ExpireAt(expiry)) {
			return 0, false
		}
		c.succeed()
		return initial, true
	}

	if !c.require(result.ResInvalidArguments, check.Offset(offset)) {
		return 0, false
	}
	current, ok := c.decode(entry)
	if !ok {
		return 0, false
	}
	suffix := "Increment can only be done on an integer value."
	if decrement {
		suffix = "Decrement can only be done on an integer value."
	}
	if !c.require(result.ResInvalidArguments, check.IntValue(current, suffix)) {
		return 0, false
	}

	if !c.require(result.ResInvalidArguments, check.IntRange(current, suffix)) {
		return 0, false
	}

	n, _ := check.AsInt(current)
	if decrement {
		if n < offset {
			n = 0
		} else {
			n -= offset
		}
	} else {
		if !c.require(result.ResInvalidArguments, check.Increment(n, offset)) {
			return 0, false
		}
		n += offset
	}

	if !c.store(full, n, entry.ExpireAt) {
		return 0, false
	}
	c.succeed()
	return n, true
}
