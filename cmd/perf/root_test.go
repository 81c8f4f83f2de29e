package perf

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/mcmock/lib/memcached"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPerf installs a small configuration and a connected client for the
// duration of the test.
func setupPerf(t *testing.T, skip ...string) {
	t.Helper()
	oldClient, oldSkip, oldKeys, oldThreads, oldLarge := client, perfSkip, perfKeySpread, perfNumThreads, perfLargeValueSizeKB
	t.Cleanup(func() {
		client, perfSkip, perfKeySpread, perfNumThreads, perfLargeValueSizeKB = oldClient, oldSkip, oldKeys, oldThreads, oldLarge
		viper.Reset()
	})

	client = memcached.New(nil)
	require.True(t, client.AddServer("127.0.0.1", 11211, 0))
	perfSkip = skip
	perfKeySpread = 3
	perfNumThreads = 2
	perfLargeValueSizeKB = 1
}

func allBenchmarksExcept(name string) []string {
	var skip []string
	for _, bm := range benchmarks() {
		if bm.name != name {
			skip = append(skip, bm.name)
		}
	}
	return skip
}

func TestGetKeys(t *testing.T) {
	setupPerf(t)

	getKey, iter := getKeys("set")
	assert.Equal(t, "__test-set-0", getKey(0))
	assert.Equal(t, "__test-set-1", getKey(4), "keys wrap around the key spread")

	var keys []string
	iter(func(k string) { keys = append(keys, k) })
	assert.Equal(t, []string{"__test-set-0", "__test-set-1", "__test-set-2"}, keys)
}

func TestShouldSkip(t *testing.T) {
	setupPerf(t, "set", "get")

	assert.True(t, shouldSkip("set"))
	assert.True(t, shouldSkip("get"))
	assert.False(t, shouldSkip("incr"))
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer

	printResult(&out, "set", testing.BenchmarkResult{})
	printResult(&out, "get", testing.BenchmarkResult{N: 10, T: time.Microsecond})

	assert.Equal(t, "set                 skipped\n"+
		"get                 100ns/op (100ns/op)\t10000000 ops/sec\n", out.String())
}

func TestWriteResultsToCSV(t *testing.T) {
	setupPerf(t)
	viper.Set("serializer", "json")
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, writeResultsToCSV(path, map[string]testing.BenchmarkResult{
		"set": {},
		"get": {N: 10, T: time.Microsecond},
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Test", rows[0][0])

	byName := map[string][]string{}
	for _, row := range rows[1:] {
		byName[row[0]] = row
	}
	assert.Equal(t, []string{"get", "100", "100ns", "10000000", "false", "json", "false", "2", "1", "3"}, byName["get"])
	assert.Equal(t, "true", byName["set"][4])
	assert.Equal(t, "0", byName["set"][1])

	assert.Error(t, writeResultsToCSV(filepath.Join(t.TempDir(), "missing", "results.csv"), nil))
}

func TestRunWritesToCommandOutput(t *testing.T) {
	setupPerf(t)
	perfSkip = allBenchmarksExcept("get")
	path := filepath.Join(t.TempDir(), "results.csv")
	viper.Set("csv", path)

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, run(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "Threads: 2")
	assert.Contains(t, text, "set                 skipped\n")
	assert.Contains(t, text, "mixed               skipped\n")
	assert.Regexp(t, `(?m)^get\s+\d+ns/op`, text)
	assert.Contains(t, text, "Export complete")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(benchmarks())+1, strings.Count(string(data), "\n"))

	// the seeded keys are removed once the benchmark is done
	keys, ok := client.AllKeys()
	require.True(t, ok)
	assert.Empty(t, keys)
}

func TestProcessPerfConfig(t *testing.T) {
	setupPerf(t)
	viper.Set("servers", "127.0.0.1:11211")
	viper.Set("serializer", "gob")
	viper.Set("keys", 7)
	viper.Set("threads", 4)
	viper.Set("large-value-size", 2)
	viper.Set("skip", "set,get")

	require.NoError(t, processPerfConfig(PerfCmd, nil))
	assert.Equal(t, 7, perfKeySpread)
	assert.Equal(t, 4, perfNumThreads)
	assert.Equal(t, 2, perfLargeValueSizeKB)
	assert.Equal(t, []string{"set", "get"}, perfSkip)
	assert.Len(t, client.ServerList(), 1)

	viper.Set("keys", 0)
	assert.EqualError(t, processPerfConfig(PerfCmd, nil), "keys must be at least 1")
}
