// Package prompt wraps the interactive questions asked during discovery and
// curation behind a small interface so orchestration code can be exercised
// with scripted answers.
package prompt
