package shell

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/ValentinKolb/mcmock/lib/engine"
	"github.com/ValentinKolb/mcmock/lib/memcached"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const start = 1_700_000_000

func newTestInterpreter(t *testing.T, failFast bool) *Interpreter {
	t.Helper()
	clock := engine.NewManualClock(time.Unix(start, 0))
	metrics := diag.NewMetrics(nil)
	client := memcached.New(&memcached.ClientOptions{Clock: clock, Sink: metrics, FailFast: failFast})
	require.True(t, client.AddServer("127.0.0.1", 11211, 0))
	return NewInterpreter(client, clock, metrics)
}

func exec(t *testing.T, in *Interpreter, line string) string {
	t.Helper()
	out, err := in.Exec(line)
	require.NoError(t, err, line)
	return out
}

func TestSplitArgs(t *testing.T) {
	args, err := splitArgs(`set  "a key"	"x\ty" 42 1.5 true nil word`)
	require.NoError(t, err)
	require.Len(t, args, 8)

	assert.Equal(t, "a key", args[1].value())
	assert.Equal(t, "x\ty", args[2].value())
	assert.Equal(t, int64(42), args[3].value())
	assert.Equal(t, 1.5, args[4].value())
	assert.Equal(t, true, args[5].value())
	assert.Nil(t, args[6].value())
	assert.Equal(t, "word", args[7].value())

	quoted, err := splitArgs(`set k "42"`)
	require.NoError(t, err)
	assert.Equal(t, "42", quoted[2].value())

	_, err = splitArgs(`set k "open`)
	assert.Error(t, err)
}

func TestInterpreterStoreAndRead(t *testing.T) {
	in := newTestInterpreter(t, false)

	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "set greeting hello 10"))
	assert.Equal(t, `"hello" [0 (SUCCESS)]`, exec(t, in, "get greeting"))
	assert.Equal(t, "false [16 (NOT FOUND)]", exec(t, in, "get missing"))
	assert.Equal(t, "false [14 (NOT STORED)]", exec(t, in, "add greeting other"))
	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, `append greeting " world"`))
	assert.Equal(t, `"hello world" [0 (SUCCESS)]`, exec(t, in, "get greeting"))
	assert.Equal(t, "1700000010", exec(t, in, "expiry greeting"))

	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "set n 5"))
	assert.Equal(t, "never", exec(t, in, "expiry n"))
	assert.Equal(t, "8 [0 (SUCCESS)]", exec(t, in, "incr n 3"))
	assert.Equal(t, "0 [0 (SUCCESS)]", exec(t, in, "decr n 100"))
	assert.Equal(t, `{greeting="hello world", n=0} [0 (SUCCESS)]`, exec(t, in, "mget greeting missing n"))
	assert.Equal(t, "[greeting n] [0 (SUCCESS)]", exec(t, in, "keys"))
}

func TestInterpreterClock(t *testing.T) {
	in := newTestInterpreter(t, false)

	exec(t, in, "set k v 5")
	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "delete k 10"))
	assert.Equal(t, "false [14 (NOT STORED)]", exec(t, in, "add k v"))
	assert.Equal(t, "1700000011", exec(t, in, "advance 11"))
	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "add k v"))

	_, err := NewInterpreter(in.client, nil, nil).Exec("advance 1")
	assert.Error(t, err)
}

func TestInterpreterOptionsAndServers(t *testing.T) {
	in := newTestInterpreter(t, false)

	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "option -1002 app:"))
	assert.Equal(t, `"app:" [0 (SUCCESS)]`, exec(t, in, "option -1002"))
	assert.Equal(t, "false [38 (INVALID ARGUMENTS)]", exec(t, in, "option 667"))
	assert.Equal(t, "code=38 msg=INVALID ARGUMENTS", exec(t, in, "result"))

	exec(t, in, "set k v")
	assert.Equal(t, "[app:k] [0 (SUCCESS)]", exec(t, in, "keys"))

	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "addserver cache 11212 3"))
	assert.Equal(t, "[127.0.0.1:11211 cache:11212] [0 (SUCCESS)]", exec(t, in, "servers"))
	assert.Equal(t, "127.0.0.1:11211=x.x.mock cache:11212=x.x.mock [0 (SUCCESS)]", exec(t, in, "version"))
	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "quit"))
	assert.Equal(t, "false [2 (getaddrinfo() or getnameinfo() HOSTNAME LOOKUP FAILURE)]", exec(t, in, "get k"))
}

func TestInterpreterErrors(t *testing.T) {
	in := newTestInterpreter(t, false)

	out, err := in.Exec("")
	assert.NoError(t, err)
	assert.Empty(t, out)
	out, err = in.Exec("# comment")
	assert.NoError(t, err)
	assert.Empty(t, out)

	_, err = in.Exec("frobnicate")
	assert.ErrorContains(t, err, "unknown command")
	_, err = in.Exec("get")
	assert.EqualError(t, err, "usage: get <key>")
	_, err = in.Exec("set k v soon")
	assert.EqualError(t, err, `"soon" is not an integer`)
}

func TestInterpreterFailFast(t *testing.T) {
	in := newTestInterpreter(t, true)

	_, err := in.Exec("flush -1")
	assert.EqualError(t, err, `checkDelay failed delay is greater than or equals 0, got "-1".`)

	// the client is still usable
	assert.Equal(t, "true [0 (SUCCESS)]", exec(t, in, "set k v"))
}

func TestInterpreterRun(t *testing.T) {
	in := newTestInterpreter(t, false)

	script := strings.Join([]string{
		"# seed",
		"set k 1",
		"incr k",
		"bogus",
		"get k",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, in.Run(strings.NewReader(script), &out, false))
	assert.Equal(t, strings.Join([]string{
		"true [0 (SUCCESS)]",
		"2 [0 (SUCCESS)]",
		`ERROR unknown command "bogus" (try help)`,
		"2 [0 (SUCCESS)]",
		"",
	}, "\n"), out.String())
}

func TestInterpreterMetrics(t *testing.T) {
	in := newTestInterpreter(t, false)
	exec(t, in, "set k v")
	exec(t, in, "get k")
	exec(t, in, "get k")

	out := exec(t, in, "metrics")
	assert.Contains(t, out, `mcmock_calls_total{method="get"} 2`)
	assert.Contains(t, out, `mcmock_calls_total{method="set"} 1`)
}

func TestInterpreterStats(t *testing.T) {
	in := newTestInterpreter(t, false)
	exec(t, in, "set k v")

	out := exec(t, in, "stats")
	assert.True(t, strings.HasPrefix(out, "127.0.0.1:11211 avg_item_size="), out)
	assert.Contains(t, out, " curr_items=1 ")
	assert.Contains(t, out, " time=1700000000 ")
	assert.True(t, strings.HasSuffix(out, "[0 (SUCCESS)]"), out)
}
