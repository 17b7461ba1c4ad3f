// Package entries persists curated opening lines to entries.json.
package entries
