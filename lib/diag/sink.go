package diag

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"sort"
	"strings"
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Sink receives the diagnostics of a memcached client: one Start/Stop pair per
// public operation and one Failure per failed check.
type Sink interface {
	// Start is called when an operation begins. Callback parameters are
	// reported as booleans telling whether a callback was given.
	Start(method string, params map[string]any)
	// Stop is called when the operation returns.
	Stop(method string)
	// Failure receives the message of a failed check.
	Failure(message string)
}

// --------------------------------------------------------------------------
// Logger Sink
// --------------------------------------------------------------------------

// Logger is a Sink that logs every operation at debug level and every failure
// at error level. If a timer is given, the duration of each operation is
// recorded in it.
//
// Thread-safety: Logger is safe for concurrent use.
type Logger struct {
	log   logger.ILogger
	timer gometrics.Timer

	mu    sync.Mutex
	spans []span // open operations, innermost last
}

type span struct {
	method string
	start  time.Time
}

// NewLogger creates a logger sink. Both log and timer may be nil.
func NewLogger(log logger.ILogger, timer gometrics.Timer) *Logger {
	return &Logger{log: log, timer: timer}
}

// ILogger returns the wrapped logger.
func (l *Logger) ILogger() logger.ILogger { return l.log }

// Timer returns the wrapped timer.
func (l *Logger) Timer() gometrics.Timer { return l.timer }

func (l *Logger) Start(method string, params map[string]any) {
	l.mu.Lock()
	l.spans = append(l.spans, span{method: method, start: time.Now()})
	l.mu.Unlock()

	if l.log != nil {
		l.log.Debugf("%s %s", method, FormatParams(params))
	}
}

func (l *Logger) Stop(method string) {
	l.mu.Lock()
	var s span
	found := false
	for i := len(l.spans) - 1; i >= 0; i-- {
		if l.spans[i].method == method {
			s, found = l.spans[i], true
			l.spans = append(l.spans[:i], l.spans[i+1:]...)
			break
		}
	}
	l.mu.Unlock()

	if found && l.timer != nil {
		l.timer.UpdateSince(s.start)
	}
}

func (l *Logger) Failure(message string) {
	if l.log != nil {
		l.log.Errorf("%s", message)
	}
}

// FormatParams renders params as "{k=v, ...}" sorted by key.
func FormatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, params[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// --------------------------------------------------------------------------
// Fan-out
// --------------------------------------------------------------------------

type multi []Sink

// Multi forwards every call to all sinks in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m multi) Start(method string, params map[string]any) {
	for _, s := range m {
		s.Start(method, params)
	}
}

func (m multi) Stop(method string) {
	for _, s := range m {
		s.Stop(method)
	}
}

func (m multi) Failure(message string) {
	for _, s := range m {
		s.Failure(message)
	}
}
