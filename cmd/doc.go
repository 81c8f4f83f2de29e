// Package cmd implements the command-line interface of mcmock, an in-process
// memcached client emulation. The commands drive a memcached.Client without
// any server, which makes them useful to explore expiration, delayed delete
// and result code behavior interactively.
//
// The package is organized into several subpackages:
//
//   - shell: Line based interpreter running memcached commands (set, get, incr, delete, ...)
//   - perf: Benchmarks of the emulated client
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See mcmock -help for a list of all commands.
package cmd
