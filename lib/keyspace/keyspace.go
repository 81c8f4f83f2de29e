// Package keyspace maps caller keys to fully-qualified cache keys by applying
// the client's key prefix.
package keyspace

import (
	"sync"

	"github.com/ValentinKolb/mcmock/lib/check"
)

const (
	// MaxKeyLength is the longest accepted fully-qualified key (prefix + key).
	MaxKeyLength = 256
	// MaxPrefixLength is the longest accepted key prefix.
	MaxPrefixLength = 128
)

// Namespacer holds the active prefix. The zero value uses the empty prefix.
//
// Thread-safety: Namespacer is safe for concurrent use.
type Namespacer struct {
	mu     sync.RWMutex
	prefix string
}

// CheckPrefix fails unless v is a string of at most MaxPrefixLength characters.
func CheckPrefix(v any) *check.AssertionFailure {
	return check.Prefix(v, MaxPrefixLength)
}

// SetPrefix validates and installs a new prefix, the previous prefix is kept
// when v fails CheckPrefix.
func (n *Namespacer) SetPrefix(v any) *check.AssertionFailure {
	if f := CheckPrefix(v); f != nil {
		return f
	}
	n.mu.Lock()
	n.prefix = v.(string)
	n.mu.Unlock()
	return nil
}

// Prefix returns the active prefix.
func (n *Namespacer) Prefix() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.prefix
}

// Resolve returns prefix + raw. The length limit applies to the combined key
// and is evaluated against the prefix active at call time.
func (n *Namespacer) Resolve(raw string) (string, *check.AssertionFailure) {
	full := n.Prefix() + raw
	if f := check.Key(full, MaxKeyLength); f != nil {
		return "", f
	}
	return full, nil
}
