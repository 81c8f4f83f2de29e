package memcached

import (
	"fmt"
	"github.com/ValentinKolb/mcmock/lib/check"
	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/ValentinKolb/mcmock/lib/engine"
	"github.com/ValentinKolb/mcmock/lib/keyspace"
	"github.com/ValentinKolb/mcmock/lib/result"
	"github.com/ValentinKolb/mcmock/lib/serializer"
	"github.com/lni/dragonboat/v4/logger"
	"sort"
	"sync"
)

var log = logger.GetLogger("memcached")

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// Client emulates a memcached client backed by an in-process Engine.
//
// Every public method runs under one client lock, so a Client can be shared
// between goroutines. Independent clients never share state.
type Client struct {
	mu sync.Mutex

	persistent bool
	engine     *engine.Engine
	keys       keyspace.Namespacer
	policy     *check.Policy
	sink       diag.Sink
	servers    []Server
	options    map[Opt]any
	last       *result.Error
}

// New creates a client with the specified options (optional)
func New(opts *ClientOptions) *Client {
	if opts == nil {
		opts = DefaultClientOptions()
	}

	c := &Client{
		persistent: opts.PersistentID != "",
		engine:     engine.New(opts.Clock),
		sink:       opts.Sink,
		options:    defaultOptionValues(),
		last:       result.Success(),
	}
	c.policy = check.NewPolicy(opts.FailFast, c.reportFailure)
	return c
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// trace reports the start of method to the sink and returns the matching stop.
// Usage: defer c.trace("get", params)()
func (c *Client) trace(method string, params map[string]any) func() {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()

	if sink == nil {
		return func() {}
	}
	sink.Start(method, params)
	return func() { sink.Stop(method) }
}

// reportFailure forwards failure messages to the sink. Called with c.mu held.
func (c *Client) reportFailure(message string) {
	if c.sink != nil {
		c.sink.Failure(message)
	}
}

func (c *Client) succeed() {
	c.last = result.Success()
}

func (c *Client) fail(code result.Code) {
	c.last = result.NewError(code, "")
}

// require sets code as the last result and applies the failure policy when f
// is not nil. It returns true if the check passed.
func (c *Client) require(code result.Code, f *check.AssertionFailure) bool {
	if f == nil {
		return true
	}
	c.fail(code)
	return c.policy.Apply(f)
}

// connected checks that at least one server was added. writeCode replaces
// the host lookup failure for write operations.
func (c *Client) connected(writeCode ...result.Code) bool {
	code := result.ResHostLookupFailure
	if len(writeCode) > 0 {
		code = writeCode[0]
	}
	return c.require(code, check.Connected(len(c.servers)))
}

// resolve maps a caller key to its fully-qualified key.
func (c *Client) resolve(key string) (string, bool) {
	full, f := c.keys.Resolve(key)
	if !c.require(result.ResBadKeyProvided, f) {
		return "", false
	}
	return full, true
}

// encode serializes value according to the serializer and compression options.
func (c *Client) encode(value any, expireAt int64) (engine.Entry, bool) {
	id, _ := check.AsInt(c.options[OptSerializer])
	compress, _ := c.options[OptCompression].(bool)

	payload, flags, err := serializer.Encode(value, serializer.ID(id), compress)
	if err != nil {
		log.Warningf("failed to encode value: %v", err)
		c.fail(result.ResPayloadFailure)
		return engine.Entry{}, false
	}
	return engine.Entry{Payload: payload, Flags: flags, ExpireAt: expireAt}, true
}

// decode deserializes a stored entry.
func (c *Client) decode(entry engine.Entry) (any, bool) {
	v, err := serializer.Decode(entry.Payload, entry.Flags)
	if err != nil {
		log.Warningf("failed to decode value: %v", err)
		c.fail(result.ResPayloadFailure)
		return nil, false
	}
	return v, true
}

// lookup returns the decoded value of a visible key.
func (c *Client) lookup(full string) (any, engine.Entry, bool) {
	entry, ok := c.engine.Lookup(full)
	if !ok {
		return nil, engine.Entry{}, false
	}
	v, ok := c.decode(entry)
	return v, entry, ok
}

// store encodes value and writes it under full.
func (c *Client) store(full string, value any, expireAt int64) bool {
	entry, ok := c.encode(value, expireAt)
	if !ok {
		return false
	}
	c.engine.Put(full, entry)
	return true
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// ResultCode returns the code of the last operation.
func (c *Client) ResultCode() result.Code {
	defer c.trace("getResultCode", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last.Code
}

// ResultMessage returns the message of the last operation.
func (c *Client) ResultMessage() string {
	defer c.trace("getResultMessage", nil)()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last.Msg
}

// --------------------------------------------------------------------------
// Client Extras (not part of the memcached API)
// --------------------------------------------------------------------------

// SetSink replaces the diagnostics sink, nil disables diagnostics.
func (c *Client) SetSink(sink diag.Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink = sink
}

// Sink returns the diagnostics sink.
func (c *Client) Sink() diag.Sink {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sink
}

// SetFailFast makes failed checks panic with *check.AssertionFailure instead
// of returning a failure value.
func (c *Client) SetFailFast(failFast bool) {
	c.policy.SetFailFast(failFast)
}

// Failures returns every failed check since the client was created.
func (c *Client) Failures() []*check.AssertionFailure {
	return c.policy.Failures()
}

// Expiry returns the absolute expiration (unix seconds) of a visible key,
// 0 if the entry never expires. Expiry does not change the last result.
func (c *Client) Expiry(key string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	full, f := c.keys.Resolve(key)
	if f != nil {
		return 0, false
	}
	return c.engine.Expiry(full)
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Option returns the value of an option. The bool is false for unknown
// options and for known options that were never set.
func (c *Client) Option(opt Opt) (any, bool) {
	defer c.trace("getOption", map[string]any{"option": int(opt)})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.require(result.ResInvalidArguments, check.Option(int(opt), KnownOption(opt))) {
		return nil, false
	}
	c.succeed()
	v, ok := c.options[opt]
	return v, ok
}

// SetOption validates and sets an option.
func (c *Client) SetOption(opt Opt, value any) bool {
	defer c.trace("setOption", map[string]any{"option": int(opt), "value": value})()
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.checkOption(opt, value) {
		return false
	}
	c.applyOption(opt, value)
	c.succeed()
	return true
}

// SetOptions sets every option of the map or none of them. All options are
// validated in option order before the first one is applied, the result is
// false if any of them failed.
func (c *Client) SetOptions(options map[Opt]any) bool {
	defer c.trace("setOptions", map[string]any{"options": options})()
	c.mu.Lock()
	defer c.mu.Unlock()

	opts := make([]Opt, 0, len(options))
	for opt := range options {
		opts = append(opts, opt)
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i] < opts[j] })

	ok := true
	for _, opt := range opts {
		ok = c.checkOption(opt, options[opt]) && ok
	}
	if !ok {
		return false
	}
	for _, opt := range opts {
		c.applyOption(opt, options[opt])
	}
	c.succeed()
	return true
}

// checkOption runs every check for opt and value without changing the client.
func (c *Client) checkOption(opt Opt, value any) bool {
	if !c.require(result.ResInvalidArguments, check.Option(int(opt), KnownOption(opt))) {
		return false
	}
	if !c.require(result.ResInvalidArguments, check.OptionValue(value)) {
		return false
	}

	var f *check.AssertionFailure
	switch opt {
	case OptPrefixKey:
		f = keyspace.CheckPrefix(value)
	case OptSendTimeout, OptRecvTimeout:
		if f = check.IntValue(value, invalidOption(opt)); f == nil {
			f = check.IntRange(value, invalidOption(opt))
		}
	case OptSerializer:
		f = check.Serializer(value, serializer.Known)
	case OptCompression:
		f = check.BoolValue(value, invalidOption(opt))
	}
	return c.require(result.ResInvalidArguments, f)
}

// applyOption sets an option that passed checkOption.
func (c *Client) applyOption(opt Opt, value any) {
	if opt == OptPrefixKey {
		c.keys.SetPrefix(value)
	}
	c.options[opt] = value
}

func invalidOption(opt Opt) string {
	return fmt.Sprintf(`Invalid value for option "%d".`, int(opt))
}
