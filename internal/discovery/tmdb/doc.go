// Package tmdb provides the minimal TMDB API client used by movie discovery.
//
// Only /discover/movie is exposed. Requests authenticate with the v3 api_key
// query parameter and responses decode into typed pages; callers validate the
// individual results before persisting them.
package tmdb
