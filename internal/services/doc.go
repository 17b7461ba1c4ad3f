// Package services defines shared utilities consumed by the discovery and
// curation pipelines and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp candidate IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so configuration, format,
//     not-found, and I/O failures stay classifiable with errors.Is after they
//     cross package boundaries.
//
// Use these helpers when wiring new pipeline logic so error reporting and
// observability stay uniform across commands.
package services
