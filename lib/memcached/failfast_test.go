package memcached

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/mcmock/lib/check"
	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/ValentinKolb/mcmock/lib/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailFastPanicsWithAssertionFailure(t *testing.T) {
	rec := diag.NewRecorder()
	c := New(&ClientOptions{FailFast: true, Sink: rec})

	defer func() {
		r := recover()
		f, ok := r.(*check.AssertionFailure)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, check.CheckConnected, f.Check)
		assert.Equal(t, []string{f.Message}, rec.Errors())
		assert.Equal(t, 0, rec.Open(), "the operation is stopped on panic")
		assert.Equal(t, result.ResHostLookupFailure, c.ResultCode(), "result is set before the panic")
	}()
	c.Get("k")
	t.Fatal("Get should have panicked")
}

func TestFailFastToggle(t *testing.T) {
	c := New(nil)
	require.True(t, c.AddServer("127.0.0.1", 11211, 0))

	assert.False(t, c.Flush(-1))

	c.SetFailFast(true)
	assert.PanicsWithError(t, `checkDelay failed delay is greater than or equals 0, got "-1".`, func() {
		c.Flush(-1)
	})

	// the lock was released by the panic
	assert.True(t, c.Set("k", "v", 0))

	c.SetFailFast(false)
	assert.False(t, c.Add("k", "v", 0))
	assert.Len(t, c.Failures(), 3)
}

func TestNotFoundIsNotAFailure(t *testing.T) {
	c := New(&ClientOptions{FailFast: true})
	require.True(t, c.AddServer("127.0.0.1", 11211, 0))

	assert.NotPanics(t, func() {
		_, ok := c.Get("missing")
		assert.False(t, ok)
		assert.False(t, c.Delete("missing", 0))
	})
	assert.Equal(t, result.ResNotFound, c.ResultCode())
}

func TestUnsupportedMethodsAlwaysPanic(t *testing.T) {
	for _, failFast := range []bool{false, true} {
		c := New(&ClientOptions{FailFast: failFast})

		calls := map[string]func(){
			"AddByKey":         func() { c.AddByKey("s", "k", 1, 0) },
			"AppendByKey":      func() { c.AppendByKey("s", "k", 1) },
			"CAS":              func() { c.CAS(1, "k", 1, 0) },
			"CASByKey":         func() { c.CASByKey(1, "s", "k", 1, 0) },
			"DecrementByKey":   func() { c.DecrementByKey("s", "k", 1, 0, 0) },
			"DeleteByKey":      func() { c.DeleteByKey("s", "k", 0) },
			"DeleteMultiByKey": func() { c.DeleteMultiByKey("s", []string{"k"}, 0) },
			"Fetch":            func() { c.Fetch() },
			"FetchAll":         func() { c.FetchAll() },
			"GetByKey":         func() { c.GetByKey("s", "k") },
			"GetDelayed":       func() { c.GetDelayed([]string{"k"}, false, nil) },
			"GetDelayedByKey":  func() { c.GetDelayedByKey("s", []string{"k"}, false, nil) },
			"GetMultiByKey":    func() { c.GetMultiByKey("s", []string{"k"}) },
			"GetServerByKey":   func() { c.GetServerByKey("s") },
			"IncrementByKey":   func() { c.IncrementByKey("s", "k", 1, 0, 0) },
			"PrependByKey":     func() { c.PrependByKey("s", "k", 1) },
			"ReplaceByKey":     func() { c.ReplaceByKey("s", "k", 1, 0) },
			"SetByKey":         func() { c.SetByKey("s", "k", 1, 0) },
			"SetMultiByKey":    func() { c.SetMultiByKey("s", map[string]any{"k": 1}, 0) },
			"TouchByKey":       func() { c.TouchByKey("s", "k", 0) },
		}
		for name, call := range calls {
			func() {
				defer func() {
					err, ok := recover().(error)
					require.True(t, ok, name)
					assert.True(t, errors.Is(err, ErrNotImplemented), name)
					assert.Contains(t, err.Error(), name)
				}()
				call()
			}()
		}
	}
}

func TestDiagnosticsSinks(t *testing.T) {
	metrics := diag.NewMetrics(nil)
	rec := diag.NewRecorder()
	c := New(&ClientOptions{Sink: diag.Multi(metrics, rec)})
	require.True(t, c.AddServer("127.0.0.1", 11211, 0))

	c.Set("k", "v", 0)
	c.Get("k")
	c.Get("k")
	c.Flush(-1)

	assert.Equal(t, uint64(2), metrics.Calls("get"))
	assert.Equal(t, uint64(1), metrics.Calls("set"))
	assert.Equal(t, uint64(1), metrics.Failures())

	debug := rec.Debug()
	require.Len(t, debug, 5)
	assert.Equal(t, "addServer", debug[0].Message)
	assert.Equal(t, map[string]any{"key": "k", "cache_cb": false, "cas_token": false}, debug[2].Params)
	assert.Equal(t, 5, rec.Stopped())
}
