package memcached

import (
	"testing"

	"github.com/ValentinKolb/mcmock/lib/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddServer(t *testing.T) {
	c := New(nil)

	assert.True(t, c.AddServer("127.0.0.1", 11211, 0))
	assert.True(t, c.AddServer("cache", 11212, 5))
	assert.Equal(t, []Server{{Host: "127.0.0.1", Port: 11211}, {Host: "cache", Port: 11212}}, c.ServerList())

	tests := []struct {
		host   string
		port   int
		weight int
		msg    string
	}{
		{"", 11211, 0, `checkServer failed host is not empty, got "".`},
		{"h", 0, 0, `checkServer failed port is greater than 0, got "0".`},
		{"h", 1, -1, `checkServer failed weight greater than or equals 0, got "-1".`},
	}
	for _, tt := range tests {
		assert.False(t, c.AddServer(tt.host, tt.port, tt.weight))
		assert.Equal(t, result.ResHostLookupFailure, c.ResultCode())
		failures := c.Failures()
		assert.Equal(t, tt.msg, failures[len(failures)-1].Message)
	}
	assert.Len(t, c.ServerList(), 2)
}

func TestAddServers(t *testing.T) {
	c := New(nil)

	assert.False(t, c.AddServers([]Server{{Host: "a", Port: 1}, {Host: "b", Port: 0}, {Host: "c", Port: 3}}))
	assert.Equal(t, result.ResHostLookupFailure, c.ResultCode())
	assert.Empty(t, c.ServerList(), "a list with an invalid server adds nothing")

	assert.True(t, c.AddServers([]Server{{Host: "a", Port: 1}, {Host: "d", Port: 4, Weight: 2}}))
	assert.Equal(t, []Server{{Host: "a", Port: 1}, {Host: "d", Port: 4}}, c.ServerList())
}

func TestNotConnected(t *testing.T) {
	c := New(nil)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, result.ResHostLookupFailure, c.ResultCode())
	assert.Equal(t, `checkConnected failed is connected, got "0 servers".`, c.Failures()[0].Message)

	writes := map[string]func() bool{
		"add":     func() bool { return c.Add("k", 1, 0) },
		"append":  func() bool { return c.Append("k", 1) },
		"prepend": func() bool { return c.Prepend("k", 1) },
		"replace": func() bool { return c.Replace("k", 1, 0) },
		"touch":   func() bool { return c.Touch("k", 0) },
	}
	for name, fn := range writes {
		assert.False(t, fn(), name)
		assert.Equal(t, result.ResWriteFailure, c.ResultCode(), name)
	}

	others := map[string]func() bool{
		"set":         func() bool { return c.Set("k", 1, 0) },
		"setMulti":    func() bool { return c.SetMulti(map[string]any{"k": 1}, 0) },
		"delete":      func() bool { return c.Delete("k", 0) },
		"deleteMulti": func() bool { return c.DeleteMulti([]string{"k"}, 0) },
		"flush":       func() bool { return c.Flush(0) },
		"increment":   func() bool { _, ok := c.Increment("k", 1, 0, 0); return ok },
		"decrement":   func() bool { _, ok := c.Decrement("k", 1, 0, 0); return ok },
		"getMulti":    func() bool { _, ok := c.GetMulti([]string{"k"}); return ok },
		"allKeys":     func() bool { _, ok := c.AllKeys(); return ok },
		"stats":       func() bool { _, ok := c.Stats(); return ok },
		"version":     func() bool { _, ok := c.Version(); return ok },
	}
	for name, fn := range others {
		assert.False(t, fn(), name)
		assert.Equal(t, result.ResHostLookupFailure, c.ResultCode(), name)
	}
}

func TestQuitKeepsData(t *testing.T) {
	c := New(nil)
	require.True(t, c.AddServer("127.0.0.1", 11211, 0))
	require.True(t, c.Set("k", "v", 0))

	assert.True(t, c.Quit())
	assert.Empty(t, c.ServerList())
	_, ok := c.Get("k")
	assert.False(t, ok)

	require.True(t, c.AddServer("127.0.0.1", 11211, 0))
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	assert.True(t, c.ResetServerList())
	assert.Empty(t, c.ServerList())
}

func TestPersistence(t *testing.T) {
	assert.False(t, New(nil).IsPersistent())
	assert.True(t, New(&ClientOptions{PersistentID: "pool"}).IsPersistent())
	assert.False(t, New(nil).IsPristine())
}

func TestStatsAndVersion(t *testing.T) {
	c := New(nil)
	require.True(t, c.AddServer("127.0.0.1", 11211, 0))
	require.True(t, c.AddServer("10.0.0.2", 11212, 0))
	require.True(t, c.Set("k", "value", 0))

	versions, ok := c.Version()
	require.True(t, ok)
	assert.Equal(t, map[string]string{"127.0.0.1:11211": MockVersion, "10.0.0.2:11212": MockVersion}, versions)

	stats, ok := c.Stats()
	require.True(t, ok)
	require.Len(t, stats, 2)
	for addr, s := range stats {
		assert.Equal(t, StatsVersion, s["version"], addr)
		assert.Equal(t, "1", s["curr_items"], addr)
		assert.Equal(t, "0", s["pending_deletes"], addr)
	}
}
