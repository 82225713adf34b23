// Package cli contains the command line interface for quant.
//
// # Usage
//
//	quant [flags] <command> [args]
//
// Without a command, quant starts an interactive session:
//
//	quant
//	➜ show 3 * Feet + 1 * Meter
//
// Programs are executed with run, and single expressions with eval:
//
//	quant run units.qty physics.qty
//	quant eval '60 * Miles / (1 * Hour)'
//
// # Inputs
//
// Every command starts from the built-in prelude (unless --no-prelude is
// given) followed by the YAML catalogs named with --catalog. Relative file
// names that do not exist in the working directory are searched for in the
// --include directories, then in $QUANT_PATH, then in the catalogs directory
// under the configuration directory.
//
// # Configuration
//
// Flags can be set in config.yaml under the user configuration directory
// ($XDG_CONFIG_HOME/quant on Linux). The init command writes the current
// flag values there:
//
//	log:
//	  level: info
//	include: [~/units]
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output or indent JSON output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// (go build -tags pprof):
//
//   - --pprof-mode: Profiling mode (cpu, mem, ...)
//   - --pprof-dir: Output directory for profile files
package cli
