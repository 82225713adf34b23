// Package cmd implements the quant subcommands.
//
// Every command builds its [lang.Instance] with [NewInstance], which loads the
// prelude and the catalogs described by the [Setup] stored in the context:
//
//	run      Execute statement files
//	eval     Evaluate expressions
//	list     List declarations, optionally filtered
//	catalog  Export the declarations of statement files as a YAML catalog
//	fmt      Reformat statement files
//	init     Write the default configuration file
//	repl     Start an interactive session
//
// Commands read from and write to the streams set with [WithStdio], which
// default to [os.Stdin] and [os.Stdout].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
