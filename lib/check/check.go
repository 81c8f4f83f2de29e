package check

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// --------------------------------------------------------------------------
// Assertion Failure
// --------------------------------------------------------------------------

// AssertionFailure describes a failed precondition. Message is the exact,
// human readable text reported to the diagnostics sink and raised in
// fail-fast mode.
type AssertionFailure struct {
	Check   string // Name of the failed check, one of Catalog
	Message string // Full failure message
}

// Error implements the error interface.
func (f *AssertionFailure) Error() string {
	return f.Message
}

// newFailure builds the message "<check> failed <predicate>, got "<observed>"."
// and appends the optional suffix separated by a space.
func newFailure(check, predicate, observed string, suffix ...string) *AssertionFailure {
	msg := fmt.Sprintf("%s failed %s, got \"%s\".", check, predicate, observed)
	if s := strings.TrimSpace(strings.Join(suffix, " ")); s != "" {
		msg += " " + s
	}
	return &AssertionFailure{Check: check, Message: msg}
}

// --------------------------------------------------------------------------
// Check Catalog
// --------------------------------------------------------------------------

const (
	CheckConnected        = "checkConnected"
	CheckKey              = "checkKey"
	CheckPrefix           = "checkPrefix"
	CheckOption           = "checkOption"
	CheckOptionValue      = "checkOptionValue"
	CheckIntValue         = "checkIntValue"
	CheckIntRange         = "checkIntRange"
	CheckBoolValue        = "checkBoolValue"
	CheckScalarValue      = "checkScalarValue"
	CheckValue            = "checkValue"
	CheckServer           = "checkServer"
	CheckDelay            = "checkDelay"
	CheckOffset           = "checkOffset"
	CheckExpiry           = "checkExpiry"
	CheckHasInCache       = "checkHasInCache"
	CheckHasNotInCache    = "checkHasNotInCache"
	CheckNotInDeleteQueue = "checkNotInDeleteQueue"
	CheckSerializer       = "checkSerializer"
)

// Catalog lists every named check in the order they are documented.
var Catalog = []string{
	CheckConnected,
	CheckKey,
	CheckPrefix,
	CheckOption,
	CheckOptionValue,
	CheckIntValue,
	CheckIntRange,
	CheckBoolValue,
	CheckScalarValue,
	CheckValue,
	CheckServer,
	CheckDelay,
	CheckOffset,
	CheckExpiry,
	CheckHasInCache,
	CheckHasNotInCache,
	CheckNotInDeleteQueue,
	CheckSerializer,
}

// --------------------------------------------------------------------------
// Checks
// --------------------------------------------------------------------------

// Connected fails when no server has been added to the client.
func Connected(servers int) *AssertionFailure {
	if servers > 0 {
		return nil
	}
	return newFailure(CheckConnected, "is connected", fmt.Sprintf("%d servers", servers))
}

// Key fails when the fully-qualified key (prefix included) is longer than max.
func Key(full string, max int) *AssertionFailure {
	if len(full) <= max {
		return nil
	}
	return &AssertionFailure{
		Check: CheckKey,
		Message: fmt.Sprintf("%s failed key (+ prefix) is less than %d characters, got \"%s\" (%d).",
			CheckKey, max, full, len(full)),
	}
}

// Prefix fails when v is not a string or is longer than max.
func Prefix(v any, max int) *AssertionFailure {
	p, ok := v.(string)
	if !ok {
		return newFailure(CheckPrefix, "prefix is a string", TypeName(v))
	}
	if len(p) > max {
		return &AssertionFailure{
			Check: CheckPrefix,
			Message: fmt.Sprintf("%s failed prefix is less than %d characters, got \"%s\" (%d).",
				CheckPrefix, max, p, len(p)),
		}
	}
	return nil
}

// Option fails when the option id is not part of the known option table.
func Option(option int, known bool) *AssertionFailure {
	if known {
		return nil
	}
	return newFailure(CheckOption, "option is known", fmt.Sprintf("%d", option))
}

// OptionValue fails when an option value cannot be stored.
func OptionValue(v any) *AssertionFailure {
	if Storable(v) {
		return nil
	}
	return newFailure(CheckOptionValue, "value is not a resource", TypeName(v))
}

// IntValue fails when v is not of an integer type.
func IntValue(v any, suffix ...string) *AssertionFailure {
	if integer(v) {
		return nil
	}
	return newFailure(CheckIntValue, "value is an integer", TypeName(v), suffix...)
}

// IntRange fails when v is not an integer that fits into an int64.
func IntRange(v any, suffix ...string) *AssertionFailure {
	if _, ok := AsInt(v); ok {
		return nil
	}
	return newFailure(CheckIntRange, "value fits in int64", fmt.Sprintf("%v", v), suffix...)
}

// Increment fails when adding a non-negative offset to n overflows int64.
func Increment(n, offset int64) *AssertionFailure {
	if n <= 0 || offset <= math.MaxInt64-n {
		return nil
	}
	return newFailure(CheckIntRange, "value fits in int64", fmt.Sprintf("%d + %d", n, offset))
}

// BoolValue fails when v is not a bool.
func BoolValue(v any, suffix ...string) *AssertionFailure {
	if _, ok := v.(bool); ok {
		return nil
	}
	return newFailure(CheckBoolValue, "value is a boolean", TypeName(v), suffix...)
}

// ScalarValue fails when v is not a bool, string, integer or float.
func ScalarValue(v any, suffix ...string) *AssertionFailure {
	if Scalar(v) {
		return nil
	}
	return newFailure(CheckScalarValue, "value is a scalar", TypeName(v), suffix...)
}

// Value fails when v is a channel, a function or an unsafe pointer.
func Value(v any, suffix ...string) *AssertionFailure {
	if Storable(v) {
		return nil
	}
	return newFailure(CheckValue, "value is not a resource", TypeName(v), suffix...)
}

// Server validates the host, port and weight of a server entry.
func Server(host string, port, weight int) *AssertionFailure {
	switch {
	case host == "":
		return newFailure(CheckServer, "host is not empty", host)
	case port <= 0:
		return newFailure(CheckServer, "port is greater than 0", fmt.Sprintf("%d", port))
	case weight < 0:
		return newFailure(CheckServer, "weight greater than or equals 0", fmt.Sprintf("%d", weight))
	}
	return nil
}

// Delay fails for negative flush delays.
func Delay(delay int64) *AssertionFailure {
	if delay >= 0 {
		return nil
	}
	return newFailure(CheckDelay, "delay is greater than or equals 0", fmt.Sprintf("%d", delay))
}

// Offset fails for negative increment or decrement offsets.
func Offset(offset int64) *AssertionFailure {
	if offset >= 0 {
		return nil
	}
	return newFailure(CheckOffset, "offset is greater than or equals 0", fmt.Sprintf("%d", offset))
}

// Expiry fails for negative counter expiries.
func Expiry(expiry int64) *AssertionFailure {
	if expiry >= 0 {
		return nil
	}
	return newFailure(CheckExpiry, "expiry is greater than or equals 0", fmt.Sprintf("%d", expiry))
}

// HasInCache fails when the key is not present.
func HasInCache(key string, present bool) *AssertionFailure {
	if present {
		return nil
	}
	return newFailure(CheckHasInCache, "key is in cache", key)
}

// HasNotInCache fails when the key is present.
func HasNotInCache(key string, present bool) *AssertionFailure {
	if !present {
		return nil
	}
	return newFailure(CheckHasNotInCache, "key is not in cache", key)
}

// NotInDeleteQueue fails when the key waits for a delayed delete.
func NotInDeleteQueue(key string, pending bool) *AssertionFailure {
	if !pending {
		return nil
	}
	return newFailure(CheckNotInDeleteQueue, "key is not in delete queue", key)
}

// Serializer fails when v is not an integer or known reports false for it.
func Serializer(v any, known func(id int) bool) *AssertionFailure {
	id, ok := AsInt(v)
	if !ok {
		return newFailure(CheckSerializer, "serializer is an integer", TypeName(v))
	}
	if !known(int(id)) {
		return newFailure(CheckSerializer, "serializer is known", fmt.Sprintf("%d", id))
	}
	return nil
}

// --------------------------------------------------------------------------
// Type Helpers
// --------------------------------------------------------------------------

// TypeName returns the Go type of v as used in failure messages, "nil" for nil.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// AsInt converts any signed or unsigned integer to int64. Unsigned values
// above math.MaxInt64 are rejected.
func AsInt(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func integer(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// Scalar reports whether v is a bool, string, integer or float.
func Scalar(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Storable reports whether v can be kept in the cache. Channels, functions and
// unsafe pointers are process resources and are rejected, everything else
// (nil included) is accepted.
func Storable(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return false
	}
	return true
}
