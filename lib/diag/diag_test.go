package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerSink(t *testing.T) {
	var buf bytes.Buffer
	timer := gometrics.NewTimer()
	sink := NewLogger(NewStdLogger("memcached", &buf, logger.DEBUG), timer)

	sink.Start("get", map[string]any{"key": "foo", "cache_cb": false})
	sink.Stop("get")
	sink.Failure(`checkKey failed key is a string, got "nil".`)

	out := buf.String()
	assert.Contains(t, out, "DEBUG | memcached       | get {cache_cb=false, key=foo}")
	assert.Contains(t, out, `ERROR | memcached       | checkKey failed key is a string, got "nil".`)
	assert.Equal(t, int64(1), timer.Count())
	assert.Same(t, timer, sink.Timer())
}

func TestLoggerSinkNestedSpans(t *testing.T) {
	timer := gometrics.NewTimer()
	sink := NewLogger(nil, timer)

	sink.Start("get", nil)
	sink.Start("set", nil)
	sink.Stop("set")
	sink.Stop("get")
	sink.Stop("get") // unmatched stop is ignored

	assert.Equal(t, int64(2), timer.Count())
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogger(NewStdLogger("memcached", &buf, logger.INFO), nil)

	sink.Start("get", nil)
	assert.Empty(t, buf.String(), "debug lines are filtered at info level")

	sink.Failure("boom")
	assert.Contains(t, buf.String(), "boom")
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logger.LogLevel{
		"debug": logger.DEBUG,
		"INFO":  logger.INFO,
		"warn":  logger.WARNING,
		"error": logger.ERROR,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLogLevel("loud")
	assert.Error(t, err)
	assert.Error(t, InitLoggers("loud"))
}

func TestMetricsSink(t *testing.T) {
	m := NewMetrics(nil)

	m.Start("get", nil)
	m.Stop("get")
	m.Start("get", nil)
	m.Stop("get")
	m.Start("set", nil)
	m.Stop("set")
	m.Failure("x")

	assert.Equal(t, uint64(2), m.Calls("get"))
	assert.Equal(t, uint64(1), m.Calls("set"))
	assert.Equal(t, uint64(1), m.Failures())

	var buf bytes.Buffer
	m.WritePrometheus(&buf)
	out := buf.String()
	assert.True(t, strings.Contains(out, `mcmock_calls_total{method="get"} 2`), out)
	assert.Contains(t, out, `mcmock_assertion_failures_total 1`)
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	sink := Multi(a, nil, b)

	sink.Start("set", map[string]any{"key": "k"})
	sink.Failure("bad")
	sink.Stop("set")

	for _, r := range []*Recorder{a, b} {
		require.Len(t, r.Records(), 2)
		assert.Equal(t, "set", r.Debug()[0].Message)
		assert.Equal(t, "k", r.Debug()[0].Params["key"])
		assert.Equal(t, []string{"bad"}, r.Errors())
		assert.Equal(t, 0, r.Open())
		assert.Equal(t, 1, r.Stopped())
	}
}

func TestFormatParams(t *testing.T) {
	assert.Equal(t, "{}", FormatParams(nil))
	assert.Equal(t, "{a=1, b=[x y]}", FormatParams(map[string]any{"b": []string{"x", "y"}, "a": 1}))
}
