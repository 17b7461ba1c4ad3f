// Package config loads, normalizes, and validates openingline configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file, and honours the
// TMDB_API_KEY and OPEN_SUBTITLES_API_KEY environment variables. The Config type
// is built once per command and handed to the API clients, so a missing secret
// is reported at startup rather than at first use.
package config
