package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// markupPattern matches HTML-style subtitle tags (<i>, </font>, <b>) and ASS
// override blocks such as {\an8} or {\i1}.
var markupPattern = regexp.MustCompile(`</?[A-Za-z][^<>]*>|\{\\[^{}]*\}`)

// StripMarkup removes subtitle styling tags and leaves the spoken text.
func StripMarkup(text string) string {
	return markupPattern.ReplaceAllString(text, "")
}

// CollapseWhitespace trims text and replaces every whitespace run, newlines
// included, with a single space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeLine reduces a subtitle cue to one clean display line: markup
// removed, whitespace collapsed, and Unicode in NFC form.
func NormalizeLine(text string) string {
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	text = StripMarkup(text)
	text = CollapseWhitespace(text)
	return norm.NFC.String(text)
}

// JoinLines joins already-normalized lines with single spaces, skipping
// blanks.
func JoinLines(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, " ")
}
