package subtitles

import (
	"regexp"
	"strings"
)

// creditLine matches a line that is nothing but a subtitle credit, such as
// "Subtitles by someone" or "Synced and corrected by someone".
var creditLine = regexp.MustCompile(`(?i)^(subtitles?|subs|captions?|sync(ed)?|resync(ed)?|ripped|translated|transcribed|corrected)( (and|&) (corrected|synced|sync))? by:? [\w.@&' -]+$`)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhttps?://\S+`),
	regexp.MustCompile(`(?i)\bwww\.[a-z0-9-]+\.[a-z]{2,}`),
	regexp.MustCompile(`(?i)\b(opensubtitles|subscene|addic7ed|podnapisi|yts|yify)\.(org|com|net|mx|am|lt|to)\b`),
	regexp.MustCompile(`(?i)advertise your product or brand`),
	regexp.MustCompile(`(?i)become (a )?vip member`),
}

// DropAdvertisements removes cues that credit or advertise a subtitle source
// and reports how many were removed.
func DropAdvertisements(cues []Cue) ([]Cue, int) {
	kept := make([]Cue, 0, len(cues))
	removed := 0
	for _, cue := range cues {
		if isAdvertisement(cue.Text) {
			removed++
			continue
		}
		kept = append(kept, cue)
	}
	return kept, removed
}

func isAdvertisement(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if creditLine.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	payload := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}
