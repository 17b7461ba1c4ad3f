// Package discovery turns a release year into movie candidates.
//
// The Service asks for a year when none is given, walks every page of the
// TMDB discover query for that year, rejects malformed results, and ingests
// the whole set in one call so a failed run leaves movies.json untouched.
package discovery
