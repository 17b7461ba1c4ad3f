// Package curation drives the operator-facing half of the pipeline.
//
// Each Run picks a random unprocessed candidate, fetches its most downloaded
// English subtitle, and offers the first lines plus a skip option. Selected
// lines become one entry; skip only marks the candidate processed; an empty
// selection changes nothing and leaves the candidate in the backlog.
package curation
