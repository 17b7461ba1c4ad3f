package candidates

import "sort"

// YearStats counts candidates released in one year.
type YearStats struct {
	Year        int `json:"year"`
	Total       int `json:"total"`
	Processed   int `json:"processed"`
	Unprocessed int `json:"unprocessed"`
}

// Stats summarizes the curation backlog.
type Stats struct {
	Total       int         `json:"total"`
	Processed   int         `json:"processed"`
	Unprocessed int         `json:"unprocessed"`
	Years       []YearStats `json:"years"`
}

// Stats returns backlog counts overall and per year, newest year first.
func (r *Repository) Stats() Stats {
	return summarize(r.items)
}

func summarize(items []Candidate) Stats {
	var out Stats
	byYear := make(map[int]*YearStats)
	for _, c := range items {
		ys, ok := byYear[c.Year]
		if !ok {
			ys = &YearStats{Year: c.Year}
			byYear[c.Year] = ys
		}
		out.Total++
		ys.Total++
		if c.Processed {
			out.Processed++
			ys.Processed++
		} else {
			out.Unprocessed++
			ys.Unprocessed++
		}
	}
	out.Years = make([]YearStats, 0, len(byYear))
	for _, ys := range byYear {
		out.Years = append(out.Years, *ys)
	}
	sort.Slice(out.Years, func(i, j int) bool { return out.Years[i].Year > out.Years[j].Year })
	return out
}
