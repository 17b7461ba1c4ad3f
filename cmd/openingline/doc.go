// Package main hosts the openingline CLI entrypoint and command graph.
//
// discover and curate drive the two pipeline stages; status and entries are
// read-only views over movies.json and entries.json; config scaffolds and
// checks the TOML configuration. Configuration and the logger are resolved
// once per invocation by commandContext so subcommands only wire the internal
// packages together.
package main
