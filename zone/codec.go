package zone

import (
	"strconv"
	"strings"
)

// Format renders records as zone text, one line per record.
func Format(records []Record) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// Parse reads zone text into records. Blank lines and lines starting with
// "#" are skipped, as is any line with fewer than three colon-separated
// segments. Parse never fails; unreadable lines are dropped.
func Parse(text string) []Record {
	var records []Record
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if r, ok := parseLine(line); ok {
			records = append(records, r)
		}
	}
	return records
}

// parseLine applies the positional heuristic from the package comment.
func parseLine(line string) (Record, bool) {
	segs := splitSegments(line)
	if len(segs) < 3 {
		return Record{}, false
	}
	r := Record{
		Type:  RecordType(segs[0]),
		Label: segs[1],
		Value: segs[len(segs)-1],
	}
	if len(segs) > 3 {
		if p, err := strconv.Atoi(segs[2]); err == nil && strings.EqualFold(segs[0], string(TypeMX)) {
			r.Priority = &p
			r.Value = segs[3]
			if len(segs) > 4 {
				if ttl, err := strconv.Atoi(segs[4]); err == nil {
					r.TTL = &ttl
				}
			}
		} else if ttl, err := strconv.Atoi(segs[len(segs)-1]); err == nil {
			r.TTL = &ttl
			r.Value = segs[len(segs)-2]
		}
	}
	return r, true
}

// splitSegments splits on ":" and drops empty segments, so stray or
// doubled separators do not shift field positions.
func splitSegments(line string) []string {
	var segs []string
	for _, s := range strings.Split(line, ":") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
