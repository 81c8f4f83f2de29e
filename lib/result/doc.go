// Package result defines the result codes and messages reported by the
// emulated memcached client after each operation.
//
// Every client operation overwrites the last result with either Success() or
// a failure created through NewError. Callers read it back through
// Client.ResultCode and Client.ResultMessage, the same way the memcached
// extension exposes getResultCode and getResultMessage.
//
// Codes without a default message (for example custom codes used by tests)
// must always be given an explicit message:
//
//	err := result.NewError(result.ResNotFound, "")     // "NOT FOUND"
//	err = result.NewError(result.Code(99), "custom")   // ok
//	err = result.NewError(result.Code(99), "")         // panics
package result
