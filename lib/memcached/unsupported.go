package memcached

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is wrapped by the panic value of every unsupported
// method. These methods exist so the Client offers the full memcached API,
// calling one is always a programming error.
var ErrNotImplemented = errors.New("not implemented")

// DelayedFunc receives one result of a delayed get.
type DelayedFunc func(c *Client, item map[string]any)

func notImplemented(method string) {
	panic(fmt.Errorf("memcached.%s: %w", method, ErrNotImplemented))
}

// AddByKey is not supported.
func (c *Client) AddByKey(serverKey, key string, value any, expiration int64) bool {
	notImplemented("AddByKey")
	return false
}

// AppendByKey is not supported.
func (c *Client) AppendByKey(serverKey, key string, value any) bool {
	notImplemented("AppendByKey")
	return false
}

// CAS is not supported.
func (c *Client) CAS(casToken uint64, key string, value any, expiration int64) bool {
	notImplemented("CAS")
	return false
}

// CASByKey is not supported.
func (c *Client) CASByKey(casToken uint64, serverKey, key string, value any, expiration int64) bool {
	notImplemented("CASByKey")
	return false
}

// DecrementByKey is not supported.
func (c *Client) DecrementByKey(serverKey, key string, offset, initial, expiry int64) (int64, bool) {
	notImplemented("DecrementByKey")
	return 0, false
}

// DeleteByKey is not supported.
func (c *Client) DeleteByKey(serverKey, key string, delay int64) bool {
	notImplemented("DeleteByKey")
	return false
}

// DeleteMultiByKey is not supported.
func (c *Client) DeleteMultiByKey(serverKey string, keys []string, delay int64) bool {
	notImplemented("DeleteMultiByKey")
	return false
}

// Fetch is not supported.
func (c *Client) Fetch() (map[string]any, bool) {
	notImplemented("Fetch")
	return nil, false
}

// FetchAll is not supported.
func (c *Client) FetchAll() ([]map[string]any, bool) {
	notImplemented("FetchAll")
	return nil, false
}

// GetByKey is not supported.
func (c *Client) GetByKey(serverKey, key string) (any, bool) {
	notImplemented("GetByKey")
	return nil, false
}

// GetDelayed is not supported.
func (c *Client) GetDelayed(keys []string, withCAS bool, fn DelayedFunc) bool {
	notImplemented("GetDelayed")
	return false
}

// GetDelayedByKey is not supported.
func (c *Client) GetDelayedByKey(serverKey string, keys []string, withCAS bool, fn DelayedFunc) bool {
	notImplemented("GetDelayedByKey")
	return false
}

// GetMultiByKey is not supported.
func (c *Client) GetMultiByKey(serverKey string, keys []string) (map[string]any, bool) {
	notImplemented("GetMultiByKey")
	return nil, false
}

// GetServerByKey is not supported.
func (c *Client) GetServerByKey(serverKey string) (Server, bool) {
	notImplemented("GetServerByKey")
	return Server{}, false
}

// IncrementByKey is not supported.
func (c *Client) IncrementByKey(serverKey, key string, offset, initial, expiry int64) (int64, bool) {
	notImplemented("IncrementByKey")
	return 0, false
}

// PrependByKey is not supported.
func (c *Client) PrependByKey(serverKey, key string, value any) bool {
	notImplemented("PrependByKey")
	return false
}

// ReplaceByKey is not supported.
func (c *Client) ReplaceByKey(serverKey, key string, value any, expiration int64) bool {
	notImplemented("ReplaceByKey")
	return false
}

// SetByKey is not supported.
func (c *Client) SetByKey(serverKey, key string, value any, expiration int64) bool {
	notImplemented("SetByKey")
	return false
}

// SetMultiByKey is not supported.
func (c *Client) SetMultiByKey(serverKey string, items map[string]any, expiration int64) bool {
	notImplemented("SetMultiByKey")
	return false
}

// TouchByKey is not supported.
func (c *Client) TouchByKey(serverKey, key string, expiration int64) bool {
	notImplemented("TouchByKey")
	return false
}
