package entries

import (
	"errors"
	"strings"
)

// Entry is a curated opening line.
type Entry struct {
	Movie       string `json:"movie"`
	Year        int    `json:"year"`
	OpeningLine string `json:"openingLine"`
	URL         string `json:"url"`
}

// Validate reports whether the entry carries the fields every consumer needs.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Movie) == "" {
		return errors.New("entry movie is empty")
	}
	if strings.TrimSpace(e.OpeningLine) == "" {
		return errors.New("entry opening line is empty")
	}
	if strings.ContainsAny(e.OpeningLine, "\r\n") {
		return errors.New("entry opening line contains a newline")
	}
	return nil
}
