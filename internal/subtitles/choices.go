package subtitles

import "openingline/internal/textutil"

// Lines reduces the first limit cues to single normalized lines. Cues that
// normalize to nothing still count against limit and are left out of the
// result. A limit of zero or less uses every cue.
func Lines(cues []Cue, limit int) []string {
	if limit > 0 && len(cues) > limit {
		cues = cues[:limit]
	}
	lines := make([]string, 0, len(cues))
	for _, cue := range cues {
		if line := textutil.NormalizeLine(cue.Text); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
