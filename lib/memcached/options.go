package memcached

import (
	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/ValentinKolb/mcmock/lib/engine"
	"github.com/ValentinKolb/mcmock/lib/serializer"
)

// --------------------------------------------------------------------------
// Option Table
// --------------------------------------------------------------------------

// Opt identifies a client option. The numbering follows the memcached
// OPT_* constants.
type Opt int

const (
	OptCompressionType      Opt = -1004
	OptSerializer           Opt = -1003
	OptPrefixKey            Opt = -1002
	OptCompression          Opt = -1001
	OptNoBlock              Opt = 0
	OptTCPNoDelay           Opt = 1
	OptHash                 Opt = 2
	OptSocketRecvSize       Opt = 5
	OptCacheLookups         Opt = 6
	OptPollTimeout          Opt = 8
	OptBufferWrites         Opt = 10
	OptSortHosts            Opt = 12
	OptVerifyKey            Opt = 13
	OptConnectTimeout       Opt = 14
	OptRetryTimeout         Opt = 15
	OptLibketamaCompatible  Opt = 16
	OptLibketamaHash        Opt = 17
	OptBinaryProtocol       Opt = 18
	OptSendTimeout          Opt = 19
	OptRecvTimeout          Opt = 20
	OptServerFailureLimit   Opt = 21
	OptHashWithPrefixKey    Opt = 25
	OptNoReply              Opt = 26
	OptUseUDP               Opt = 27
	OptAutoEjectHosts       Opt = 28
	OptNumberOfReplicas     Opt = 29
	OptRandomizeReplicaRead Opt = 30
	OptTCPKeepAlive         Opt = 32
	OptRemoveFailedServers  Opt = 35
)

var knownOptions = map[Opt]struct{}{
	OptCompressionType: {}, OptSerializer: {}, OptPrefixKey: {}, OptCompression: {},
	OptNoBlock: {}, OptTCPNoDelay: {}, OptHash: {}, OptSocketRecvSize: {},
	OptCacheLookups: {}, OptPollTimeout: {}, OptBufferWrites: {}, OptSortHosts: {},
	OptVerifyKey: {}, OptConnectTimeout: {}, OptRetryTimeout: {}, OptLibketamaCompatible: {},
	OptLibketamaHash: {}, OptBinaryProtocol: {}, OptSendTimeout: {}, OptRecvTimeout: {},
	OptServerFailureLimit: {}, OptHashWithPrefixKey: {}, OptNoReply: {}, OptUseUDP: {},
	OptAutoEjectHosts: {}, OptNumberOfReplicas: {}, OptRandomizeReplicaRead: {}, OptTCPKeepAlive: {},
	OptRemoveFailedServers: {},
}

// KnownOption reports whether opt is part of the option table.
func KnownOption(opt Opt) bool {
	_, ok := knownOptions[opt]
	return ok
}

// defaultOptionValues returns the option values of a new client.
func defaultOptionValues() map[Opt]any {
	return map[Opt]any{
		OptSerializer:          int(serializer.IDGob),
		OptPrefixKey:           "",
		OptCompression:         true,
		OptNoBlock:             0,
		OptTCPNoDelay:          0,
		OptHash:                0,
		OptLibketamaCompatible: 0,
		OptBinaryProtocol:      0,
		OptSendTimeout:         0,
		OptRecvTimeout:         0,
	}
}

// --------------------------------------------------------------------------
// Client Options
// --------------------------------------------------------------------------

// ClientOptions configures a Client during initialization
type ClientOptions struct {
	PersistentID string       // Non-empty marks the client as persistent
	Clock        engine.Clock // Time source (nil = wall clock)
	Sink         diag.Sink    // Diagnostics sink (nil = none)
	FailFast     bool         // Panic with *check.AssertionFailure on failed checks
}

// DefaultClientOptions returns the options of a non-persistent client using
// the wall clock, without diagnostics and without fail-fast.
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		Clock: engine.SystemClock{},
	}
}
