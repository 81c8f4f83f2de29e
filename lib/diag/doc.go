// Package diag provides the diagnostics sinks of the emulated memcached
// client.
//
// A Sink sees every public client operation as a Start/Stop pair and every
// failed check as a Failure. Implementations:
//
//   - Logger: debug line per operation and error line per failure through a
//     dragonboat logger.ILogger, optional go-metrics Timer for durations.
//   - Metrics: VictoriaMetrics counters and summaries per method.
//   - Recorder: keeps everything in memory, meant for tests.
//   - Multi: fans out to several sinks.
//
// The package also carries the "LEVEL | name | message" logger used by the
// command line tool (NewStdLogger, CreateLogger, InitLoggers).
package diag
