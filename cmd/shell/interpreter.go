package shell

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/ValentinKolb/mcmock/lib/engine"
	"github.com/ValentinKolb/mcmock/lib/memcached"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Interpreter executes shell commands against a single client. Every command
// prints its return value followed by the result of the operation, e.g.
//
//	> set greeting hello 60
//	true [0 (SUCCESS)]
type Interpreter struct {
	client  *memcached.Client
	clock   *engine.ManualClock
	metrics *diag.Metrics
}

// NewInterpreter creates an interpreter. clock and metrics are optional, the
// advance and metrics commands fail without them.
func NewInterpreter(client *memcached.Client, clock *engine.ManualClock, metrics *diag.Metrics) *Interpreter {
	return &Interpreter{client: client, clock: clock, metrics: metrics}
}

type command struct {
	usage   string
	minArgs int
	maxArgs int // -1 = unbounded
	run     func(in *Interpreter, args []arg) (string, error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"set":       {"set <key> <value> [expiration]", 2, 3, cmdStore((*memcached.Client).Set)},
		"add":       {"add <key> <value> [expiration]", 2, 3, cmdStore((*memcached.Client).Add)},
		"replace":   {"replace <key> <value> [expiration]", 2, 3, cmdStore((*memcached.Client).Replace)},
		"append":    {"append <key> <value>", 2, 2, cmdConcat((*memcached.Client).Append)},
		"prepend":   {"prepend <key> <value>", 2, 2, cmdConcat((*memcached.Client).Prepend)},
		"get":       {"get <key>", 1, 1, cmdGet},
		"mget":      {"mget <key>...", 1, -1, cmdGetMulti},
		"incr":      {"incr <key> [offset] [initial] [expiry]", 1, 4, cmdCount((*memcached.Client).Increment)},
		"decr":      {"decr <key> [offset] [initial] [expiry]", 1, 4, cmdCount((*memcached.Client).Decrement)},
		"delete":    {"delete <key> [delay]", 1, 2, cmdDelete},
		"mdelete":   {"mdelete <delay> <key>...", 2, -1, cmdDeleteMulti},
		"touch":     {"touch <key> <expiration>", 2, 2, cmdTouch},
		"flush":     {"flush [delay]", 0, 1, cmdFlush},
		"keys":      {"keys", 0, 0, cmdKeys},
		"expiry":    {"expiry <key>", 1, 1, cmdExpiry},
		"option":    {"option <id> [value]", 1, 2, cmdOption},
		"servers":   {"servers", 0, 0, cmdServers},
		"addserver": {"addserver <host> <port> [weight]", 2, 3, cmdAddServer},
		"quit":      {"quit", 0, 0, cmdQuit},
		"stats":     {"stats", 0, 0, cmdStats},
		"version":   {"version", 0, 0, cmdVersion},
		"result":    {"result", 0, 0, cmdResult},
		"advance":   {"advance <seconds>", 1, 1, cmdAdvance},
		"metrics":   {"metrics", 0, 0, cmdMetrics},
		"help":      {"help", 0, 0, cmdHelp},
	}
}

// Exec runs a single command line. Empty lines and comments (#) produce no
// output. A panic of a fail-fast client is returned as error.
func (in *Interpreter) Exec(line string) (out string, err error) {
	args, err := splitArgs(line)
	if err != nil {
		return "", err
	}
	if len(args) == 0 || strings.HasPrefix(args[0].text, "#") {
		return "", nil
	}

	name := strings.ToLower(args[0].text)
	cmd, ok := commands[name]
	if !ok {
		return "", fmt.Errorf("unknown command %q (try help)", args[0].text)
	}
	args = args[1:]
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return "", fmt.Errorf("usage: %s", cmd.usage)
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return cmd.run(in, args)
}

// Run executes every line of r and writes the output to w. Command errors
// are written as "ERROR <message>" and do not stop the run.
func (in *Interpreter) Run(r io.Reader, w io.Writer, prompt bool) error {
	scanner := bufio.NewScanner(r)
	for {
		if prompt {
			fmt.Fprint(w, "> ")
		}
		if !scanner.Scan() {
			break
		}
		out, err := in.Exec(scanner.Text())
		switch {
		case err != nil:
			log.Debugf("command failed: %v", err)
			fmt.Fprintf(w, "ERROR %v\n", err)
		case out != "":
			fmt.Fprintln(w, out)
		}
	}
	return scanner.Err()
}

// withResult appends the result of the last operation
func (in *Interpreter) withResult(value string) string {
	return fmt.Sprintf("%s [%s]", value, in.client.ResultCode())
}

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

func cmdStore(fn func(*memcached.Client, string, any, int64) bool) func(*Interpreter, []arg) (string, error) {
	return func(in *Interpreter, args []arg) (string, error) {
		exp, err := optInt(args, 2, 0)
		if err != nil {
			return "", err
		}
		ok := fn(in.client, args[0].text, args[1].value(), exp)
		return in.withResult(strconv.FormatBool(ok)), nil
	}
}

func cmdConcat(fn func(*memcached.Client, string, any) bool) func(*Interpreter, []arg) (string, error) {
	return func(in *Interpreter, args []arg) (string, error) {
		ok := fn(in.client, args[0].text, args[1].value())
		return in.withResult(strconv.FormatBool(ok)), nil
	}
}

func cmdCount(fn func(*memcached.Client, string, int64, int64, int64) (int64, bool)) func(*Interpreter, []arg) (string, error) {
	return func(in *Interpreter, args []arg) (string, error) {
		offset, err := optInt(args, 1, 1)
		if err != nil {
			return "", err
		}
		initial, err := optInt(args, 2, 0)
		if err != nil {
			return "", err
		}
		expiry, err := optInt(args, 3, 0)
		if err != nil {
			return "", err
		}
		n, ok := fn(in.client, args[0].text, offset, initial, expiry)
		if !ok {
			return in.withResult("false"), nil
		}
		return in.withResult(strconv.FormatInt(n, 10)), nil
	}
}

func cmdGet(in *Interpreter, args []arg) (string, error) {
	v, ok := in.client.Get(args[0].text)
	if !ok {
		return in.withResult("false"), nil
	}
	return in.withResult(formatValue(v)), nil
}

func cmdGetMulti(in *Interpreter, args []arg) (string, error) {
	keys := texts(args)
	values, ok := in.client.GetMulti(keys)
	if !ok {
		return in.withResult("false"), nil
	}
	parts := make([]string, 0, len(values))
	for _, k := range keys {
		if v, found := values[k]; found {
			parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(v)))
		}
	}
	return in.withResult("{" + strings.Join(parts, ", ") + "}"), nil
}

func cmdDelete(in *Interpreter, args []arg) (string, error) {
	delay, err := optInt(args, 1, 0)
	if err != nil {
		return "", err
	}
	return in.withResult(strconv.FormatBool(in.client.Delete(args[0].text, delay))), nil
}

func cmdDeleteMulti(in *Interpreter, args []arg) (string, error) {
	delay, err := optInt(args, 0, 0)
	if err != nil {
		return "", err
	}
	return in.withResult(strconv.FormatBool(in.client.DeleteMulti(texts(args[1:]), delay))), nil
}

func cmdTouch(in *Interpreter, args []arg) (string, error) {
	exp, err := optInt(args, 1, 0)
	if err != nil {
		return "", err
	}
	return in.withResult(strconv.FormatBool(in.client.Touch(args[0].text, exp))), nil
}

func cmdFlush(in *Interpreter, args []arg) (string, error) {
	delay, err := optInt(args, 0, 0)
	if err != nil {
		return "", err
	}
	return in.withResult(strconv.FormatBool(in.client.Flush(delay))), nil
}

func cmdKeys(in *Interpreter, _ []arg) (string, error) {
	keys, ok := in.client.AllKeys()
	if !ok {
		return in.withResult("false"), nil
	}
	return in.withResult("[" + strings.Join(keys, " ") + "]"), nil
}

func cmdExpiry(in *Interpreter, args []arg) (string, error) {
	exp, ok := in.client.Expiry(args[0].text)
	if !ok {
		return "", fmt.Errorf("key %q not found", args[0].text)
	}
	if exp == engine.NeverExpires {
		return "never", nil
	}
	return strconv.FormatInt(exp, 10), nil
}

func cmdOption(in *Interpreter, args []arg) (string, error) {
	id, err := optInt(args, 0, 0)
	if err != nil {
		return "", err
	}
	if len(args) == 2 {
		ok := in.client.SetOption(memcached.Opt(id), args[1].value())
		return in.withResult(strconv.FormatBool(ok)), nil
	}
	v, ok := in.client.Option(memcached.Opt(id))
	if !ok {
		return in.withResult("false"), nil
	}
	return in.withResult(formatValue(v)), nil
}

func cmdServers(in *Interpreter, _ []arg) (string, error) {
	servers := in.client.ServerList()
	addrs := make([]string, len(servers))
	for i, s := range servers {
		addrs[i] = s.Addr()
	}
	return in.withResult("[" + strings.Join(addrs, " ") + "]"), nil
}

func cmdAddServer(in *Interpreter, args []arg) (string, error) {
	port, err := optInt(args, 1, 0)
	if err != nil {
		return "", err
	}
	weight, err := optInt(args, 2, 0)
	if err != nil {
		return "", err
	}
	ok := in.client.AddServer(args[0].text, int(port), int(weight))
	return in.withResult(strconv.FormatBool(ok)), nil
}

func cmdQuit(in *Interpreter, _ []arg) (string, error) {
	return in.withResult(strconv.FormatBool(in.client.Quit())), nil
}

func cmdStats(in *Interpreter, _ []arg) (string, error) {
	stats, ok := in.client.Stats()
	if !ok {
		return in.withResult("false"), nil
	}
	var sb strings.Builder
	for _, addr := range sortedKeys(stats) {
		sb.WriteString(addr)
		for _, name := range sortedKeys(stats[addr]) {
			sb.WriteString(fmt.Sprintf(" %s=%s", name, stats[addr][name]))
		}
		sb.WriteString("\n")
	}
	return in.withResult(strings.TrimSuffix(sb.String(), "\n")), nil
}

func cmdVersion(in *Interpreter, _ []arg) (string, error) {
	versions, ok := in.client.Version()
	if !ok {
		return in.withResult("false"), nil
	}
	parts := make([]string, 0, len(versions))
	for _, addr := range sortedKeys(versions) {
		parts = append(parts, fmt.Sprintf("%s=%s", addr, versions[addr]))
	}
	return in.withResult(strings.Join(parts, " ")), nil
}

func cmdResult(in *Interpreter, _ []arg) (string, error) {
	return fmt.Sprintf("code=%d msg=%s", in.client.ResultCode(), in.client.ResultMessage()), nil
}

func cmdAdvance(in *Interpreter, args []arg) (string, error) {
	if in.clock == nil {
		return "", errors.New("advance requires --manual-clock")
	}
	secs, err := optInt(args, 0, 0)
	if err != nil {
		return "", err
	}
	in.clock.Advance(time.Duration(secs) * time.Second)
	return strconv.FormatInt(in.clock.Now().Unix(), 10), nil
}

func cmdMetrics(in *Interpreter, _ []arg) (string, error) {
	if in.metrics == nil {
		return "", errors.New("metrics are disabled")
	}
	var sb strings.Builder
	in.metrics.WritePrometheus(&sb)
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func cmdHelp(_ *Interpreter, _ []arg) (string, error) {
	usages := make([]string, 0, len(commands))
	for _, cmd := range commands {
		usages = append(usages, "  "+cmd.usage)
	}
	sort.Strings(usages)
	return strings.Join(usages, "\n"), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func optInt(args []arg, i int, def int64) (int64, error) {
	if i >= len(args) {
		return def, nil
	}
	n, err := strconv.ParseInt(args[i].text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", args[i].text)
	}
	return n, nil
}

func texts(args []arg) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.text
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue quotes strings so "1" and 1 can be told apart
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprintf("%v", v)
}
