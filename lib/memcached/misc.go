package memcached

import (
	"strconv"
)

const (
	// StatsVersion is the server version reported by Stats.
	StatsVersion = "1.x.dev"
	// MockVersion is the server version reported by Version.
	MockVersion = "x.x.mock"
)

// AllKeys returns the fully-qualified keys of all visible entries, sorted.
func (c *Client) AllKeys() ([]string, bool) {
	defer c.trace("getAllKeys", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return nil, false
	}
	keys := c.engine.Keys()
	c.succeed()
	return keys, true
}

// Stats returns one stats map per server, indexed by "host:port". All
// servers share the same emulated store and report the same numbers.
func (c *Client) Stats() (map[string]map[string]string, bool) {
	defer c.trace("getStats", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return nil, false
	}

	s := c.engine.Stats()
	out := make(map[string]map[string]string, len(c.servers))
	for _, srv := range c.servers {
		out[srv.Addr()] = map[string]string{
			"version":          StatsVersion,
			"time":             strconv.FormatInt(s.Time, 10),
			"curr_items":       strconv.Itoa(s.Items),
			"bytes":            strconv.FormatInt(s.Bytes, 10),
			"pending_deletes":  strconv.Itoa(s.PendingDeletes),
			"avg_item_size":    strconv.Itoa(s.AvgItemSize),
			"median_item_size": strconv.Itoa(s.MedianItemSize),
		}
	}
	c.succeed()
	return out, true
}

// Version returns the server version per "host:port".
func (c *Client) Version() (map[string]string, bool) {
	defer c.trace("getVersion", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected() {
		return nil, false
	}
	out := make(map[string]string, len(c.servers))
	for _, srv := range c.servers {
		out[srv.Addr()] = MockVersion
	}
	c.succeed()
	return out, true
}
