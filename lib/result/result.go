package result

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Result Codes
// --------------------------------------------------------------------------

// Code is the numeric result of the last client operation. The values follow
// the memcached client numbering so callers can compare them with the real
// extension.
type Code int

const (
	ResSuccess           Code = 0     // 0: Operation succeeded.
	ResHostLookupFailure Code = 2     // 2: No server configured.
	ResWriteFailure      Code = 5     // 5: Write attempted without a server.
	ResDataExists        Code = 12    // 12: Key is present or pending delete.
	ResNotStored         Code = 14    // 14: Append/prepend on a missing key.
	ResNotFound          Code = 16    // 16: Key is not present.
	ResBadKeyProvided    Code = 33    // 33: Key failed validation.
	ResInvalidArguments  Code = 38    // 38: Argument failed validation.
	ResPayloadFailure    Code = -1001 // -1001: Value could not be (de)serialized.
)

var messages = map[Code]string{
	ResSuccess:           "SUCCESS",
	ResHostLookupFailure: "getaddrinfo() or getnameinfo() HOSTNAME LOOKUP FAILURE",
	ResWriteFailure:      "WRITE FAILURE",
	ResDataExists:        "CONNECTION DATA EXISTS",
	ResNotStored:         "NOT STORED",
	ResNotFound:          "NOT FOUND",
	ResBadKeyProvided:    "A BAD KEY WAS PROVIDED/CHARACTERS OUT OF RANGE",
	ResInvalidArguments:  "INVALID ARGUMENTS",
	ResPayloadFailure:    "PAYLOAD FAILURE",
}

// Message returns the default message of a code and whether the code is mapped.
func (c Code) Message() (string, bool) {
	msg, ok := messages[c]
	return msg, ok
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if msg, ok := messages[c]; ok {
		return fmt.Sprintf("%d (%s)", int(c), msg)
	}
	return fmt.Sprintf("%d", int(c))
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error pairs a result code with its message. Success is an Error with
// ResSuccess as well (see Success), it is never nil.
type Error struct {
	Code Code   // The result code
	Msg  string // The result message
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("memcached result %d: %s", int(e.Code), e.Msg)
}

// NewError creates a new Error. An empty msg is replaced by the default
// message of code. Codes without a default message must be given a message,
// NewError panics otherwise since this is always a programming error.
func NewError(code Code, msg string) *Error {
	if msg == "" {
		def, ok := messages[code]
		if !ok {
			panic(fmt.Sprintf("Unknown result failed code \"%d\", supply an error message.", int(code)))
		}
		msg = def
	}
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Success returns the result of a successful operation.
func Success() *Error {
	return &Error{Code: ResSuccess, Msg: messages[ResSuccess]}
}
