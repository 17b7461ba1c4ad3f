// Package textutil holds the small text helpers shared by the subtitle
// reducer and the CLI renderers.
//
// NormalizeLine is the single place that decides what a displayable subtitle
// line looks like. Curated entries store its output verbatim.
package textutil
