// Package candidates manages the movie candidate backlog persisted in
// movies.json.
//
// A Repository is opened once per command run. Ingest deduplicates by TMDB id
// without touching existing records, PickUnprocessed draws uniformly from the
// unprocessed subset, and MarkProcessed flips a record to processed exactly
// once a curation attempt concludes. Records are never removed.
package candidates
