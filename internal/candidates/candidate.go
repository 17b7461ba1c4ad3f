package candidates

import (
	"errors"
	"fmt"
	"strings"
)

const (
	minYear = 1900
	maxYear = 9999
)

// Candidate is a movie eligible for curation, keyed by its TMDB id.
type Candidate struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Processed bool   `json:"processed"`
}

// Validate reports whether the record is well formed.
func (c Candidate) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("candidate id must be positive, got %d", c.ID)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("candidate %d has an empty name", c.ID)
	}
	if c.Year < minYear || c.Year > maxYear {
		return fmt.Errorf("candidate %d has year %d outside %d..%d", c.ID, c.Year, minYear, maxYear)
	}
	return nil
}

// String renders a short human label, e.g. "Heat (1995)".
func (c Candidate) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Year)
}

var errNoUnprocessed = errors.New("no unprocessed candidates")
