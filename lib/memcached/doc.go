// Package memcached provides Client, an in-process emulation of a memcached
// client. It lets code written against a memcached client run in tests
// without a cache server.
//
// The Client keeps its data in an engine.Engine and reports the outcome of
// every call through ResultCode and ResultMessage:
//
//	c := memcached.New(nil)
//	c.AddServer("127.0.0.1", 11211, 0)
//
//	c.Set("user:1", map[string]any{"name": "ada"}, 60)
//	v, ok := c.Get("user:1")
//
//	c.Delete("user:1", 5)       // hidden now, removed after 5 seconds
//	c.Add("user:1", "x", 0)     // false, ResNotStored until then
//
// Failure Handling:
//
//	Invalid input and key state conflicts are checked before any state
//	changes. A failed check sets the last result, is recorded (Failures)
//	and reported to the diagnostics sink. By default the method then returns
//	its failure value; with fail-fast enabled it panics with the
//	*check.AssertionFailure instead. Unsupported methods (CAS, *ByKey,
//	delayed gets) always panic with an error wrapping ErrNotImplemented.
//
// Time:
//
//	Expirations and delays below 30 days are relative seconds, larger values
//	are unix timestamps. Nothing runs in the background: expiry, delayed
//	deletes and delayed flushes are applied on the next call. Inject an
//	engine.ManualClock through ClientOptions to control time in tests.
//
// Thread-safety: all Client methods are safe for concurrent use. Each call
// holds the client lock for its whole duration, except GetOrLoad which
// releases it while the load function runs. A GetOrLoad store is therefore
// not atomic with its miss, the loaded value replaces whatever was written
// to the key during the load.
package memcached
