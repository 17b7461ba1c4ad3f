// Package opensubtitles is a small client for the OpenSubtitles REST API.
//
// It covers the two calls curation needs: a /subtitles search keyed by TMDB
// id, and the /download negotiation that returns a short-lived link which is
// then fetched for the raw SRT payload. Every request carries the Api-Key and
// User-Agent headers the API requires.
package opensubtitles
