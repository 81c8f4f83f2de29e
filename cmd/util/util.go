package util

import (
	"fmt"
	"github.com/ValentinKolb/mcmock/lib/diag"
	"github.com/ValentinKolb/mcmock/lib/engine"
	"github.com/ValentinKolb/mcmock/lib/memcached"
	"github.com/ValentinKolb/mcmock/lib/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strconv"
	"strings"
	"time"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Client Config
// --------------------------------------------------------------------------

// ClientConfig describes how the command line builds a memcached.Client
type ClientConfig struct {
	Servers     []string // host:port[:weight]
	Prefix      string
	Serializer  string // gob or json
	Compression bool
	FailFast    bool
	ManualClock bool  // freeze time, only the advance command moves it
	StartTime   int64 // unix seconds of the manual clock (0 = now)
	LogLevel    string
}

// SetupClientFlags adds the client flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "servers"
	cmd.PersistentFlags().String(key, "127.0.0.1:11211", WrapString("Comma-separated list of servers to register (host:port[:weight]). No connection is ever opened"))

	key = "prefix"
	cmd.PersistentFlags().String(key, "", WrapString("Key prefix applied to every key"))

	key = "serializer"
	cmd.PersistentFlags().String(key, "gob", WrapString("Serializer used to store values (gob, json)"))

	key = "compression"
	cmd.PersistentFlags().Bool(key, true, WrapString("Compress large values with snappy"))

	key = "fail-fast"
	cmd.PersistentFlags().Bool(key, false, WrapString("Abort the command on the first failed check instead of reporting a result code"))

	key = "manual-clock"
	cmd.PersistentFlags().Bool(key, false, WrapString("Freeze the clock. Time only moves with the advance command"))

	key = "start-time"
	cmd.PersistentFlags().Int64(key, 0, WrapString("Unix time the manual clock starts at (0 = now)"))
}

// InitConfig loads .env files and binds MCMOCK_* environment variables
func InitConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("mcmock")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetClientConfig reads the client configuration from viper
func GetClientConfig() *ClientConfig {
	var servers []string
	for _, s := range strings.Split(viper.GetString("servers"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	return &ClientConfig{
		Servers:     servers,
		Prefix:      viper.GetString("prefix"),
		Serializer:  viper.GetString("serializer"),
		Compression: viper.GetBool("compression"),
		FailFast:    viper.GetBool("fail-fast"),
		ManualClock: viper.GetBool("manual-clock"),
		StartTime:   viper.GetInt64("start-time"),
		LogLevel:    viper.GetString("log-level"),
	}
}

// ParseServer parses "host:port[:weight]"
func ParseServer(s string) (memcached.Server, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return memcached.Server{}, fmt.Errorf("invalid server %q (expected host:port[:weight])", s)
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return memcached.Server{}, fmt.Errorf("invalid port in %q: %w", s, err)
	}
	server := memcached.Server{Host: parts[0], Port: port}
	if len(parts) == 3 {
		if server.Weight, err = strconv.Atoi(parts[2]); err != nil {
			return memcached.Server{}, fmt.Errorf("invalid weight in %q: %w", s, err)
		}
	}
	return server, nil
}

// NewClient creates a client from the configuration. The returned clock is
// nil unless ManualClock is set.
func (c *ClientConfig) NewClient(sink diag.Sink) (*memcached.Client, *engine.ManualClock, error) {
	id, ok := serializer.ParseName(c.Serializer)
	if !ok {
		return nil, nil, fmt.Errorf("invalid serializer %s", c.Serializer)
	}

	servers := make([]memcached.Server, 0, len(c.Servers))
	for _, s := range c.Servers {
		server, err := ParseServer(s)
		if err != nil {
			return nil, nil, err
		}
		servers = append(servers, server)
	}

	opts := memcached.DefaultClientOptions()
	opts.Sink = sink
	opts.FailFast = c.FailFast

	var clock *engine.ManualClock
	if c.ManualClock {
		start := time.Now()
		if c.StartTime > 0 {
			start = time.Unix(c.StartTime, 0)
		}
		clock = engine.NewManualClock(start)
		opts.Clock = clock
	}

	client := memcached.New(opts)
	if !client.SetOptions(map[memcached.Opt]any{
		memcached.OptPrefixKey:   c.Prefix,
		memcached.OptSerializer:  int(id),
		memcached.OptCompression: c.Compression,
	}) {
		return nil, nil, fmt.Errorf("invalid client options: %s", client.ResultMessage())
	}
	if len(servers) > 0 && !client.AddServers(servers) {
		return nil, nil, fmt.Errorf("invalid server list: %s", client.ResultMessage())
	}
	return client, clock, nil
}

// String returns a human-readable representation of the configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Prefix", strconv.Quote(c.Prefix))
	addField("Serializer", c.Serializer)
	addField("Compression", strconv.FormatBool(c.Compression))
	addField("Fail Fast", strconv.FormatBool(c.FailFast))
	if c.ManualClock {
		addField("Clock", fmt.Sprintf("manual (start %d)", c.StartTime))
	} else {
		addField("Clock", "system")
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	addSection("Servers")
	for i, s := range c.Servers {
		addField(strconv.Itoa(i), s)
	}

	return sb.String()
}
