package keyspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWithoutPrefix(t *testing.T) {
	var n Namespacer

	full, f := n.Resolve("foo")
	require.Nil(t, f)
	assert.Equal(t, "foo", full)

	_, f = n.Resolve(strings.Repeat("a", MaxKeyLength))
	assert.Nil(t, f)

	_, f = n.Resolve(strings.Repeat("a", MaxKeyLength+1))
	require.NotNil(t, f)
	assert.Contains(t, f.Message, "(257).")
}

func TestResolveCountsPrefix(t *testing.T) {
	var n Namespacer
	require.Nil(t, n.SetPrefix("app:"))

	full, f := n.Resolve("foo")
	require.Nil(t, f)
	assert.Equal(t, "app:foo", full)

	// 4 + 253 > 256
	_, f = n.Resolve(strings.Repeat("a", 253))
	require.NotNil(t, f)
	assert.Equal(t, `checkKey failed key (+ prefix) is less than 256 characters, got "app:`+strings.Repeat("a", 253)+`" (257).`, f.Message)

	// shrinking the prefix is honoured on the next call
	require.Nil(t, n.SetPrefix(""))
	_, f = n.Resolve(strings.Repeat("a", 253))
	assert.Nil(t, f)
}

func TestSetPrefixRejectsInvalid(t *testing.T) {
	var n Namespacer
	require.Nil(t, n.SetPrefix("keep:"))

	f := n.SetPrefix(strings.Repeat("p", MaxPrefixLength+1))
	require.NotNil(t, f)
	assert.Equal(t, "keep:", n.Prefix())

	f = n.SetPrefix(42)
	require.NotNil(t, f)
	assert.Equal(t, `checkPrefix failed prefix is a string, got "int".`, f.Message)

	assert.Nil(t, n.SetPrefix(strings.Repeat("p", MaxPrefixLength)))
}
