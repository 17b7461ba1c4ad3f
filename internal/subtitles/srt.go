package subtitles

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed subtitle block.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// ParseSRT decodes SubRip content into cues in file order. A cue starts at
// every timing line, so a missing blank line between cues does not merge them.
// A numeric line directly above a timing line is that cue's index. Text before
// the first timing line is ignored, as are cues with no text. A malformed
// timing line is an error.
func ParseSRT(data []byte) ([]Cue, error) {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	lines := strings.Split(content, "\n")
	timings := make([]int, 0, len(lines)/3)
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timings = append(timings, i)
		}
	}

	cues := make([]Cue, 0, len(timings))
	for k, at := range timings {
		limit := len(lines)
		if k+1 < len(timings) {
			limit = timings[k+1]
			if limit-1 > at && isNumeric(lines[limit-1]) {
				limit--
			}
		}
		cue, ok, err := parseCue(lines, at, limit)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if cue.Index == 0 {
			cue.Index = len(cues) + 1
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

// parseCue builds the cue whose timing line is lines[at]. Text runs from the
// line after the timing up to limit or the first blank line after the text.
func parseCue(lines []string, at, limit int) (Cue, bool, error) {
	var cue Cue
	if at > 0 && isNumeric(lines[at-1]) {
		cue.Index, _ = strconv.Atoi(strings.TrimSpace(lines[at-1]))
	}
	start, end, err := parseTiming(lines[at])
	if err != nil {
		return Cue{}, false, err
	}
	cue.Start, cue.End = start, end

	text := make([]string, 0, 2)
	for _, line := range lines[at+1 : limit] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(text) > 0 {
				break
			}
			continue
		}
		text = append(text, trimmed)
	}
	if len(text) == 0 {
		return Cue{}, false, nil
	}
	cue.Text = strings.Join(text, "\n")
	return cue, true, nil
}

func parseTiming(line string) (time.Duration, time.Duration, error) {
	parts := strings.SplitN(line, "-->", 2)
	start, err := parseSRTTimestamp(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// Position hints such as "X1:100 X2:600" may follow the end time.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp in %q", line)
	}
	end, err := parseSRTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseSRTTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}
