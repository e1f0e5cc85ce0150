package deploy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SourceEntry is one line of a schema's source dictionary: a phrase,
// its spelling code (space-separated syllables), and its weight. This
// is the plain-text format the maintenance worker compiles into a
// `.table.bin` (spec.md §1 scopes the compiler itself out as an
// external collaborator; this package defines the text format it
// consumes).
type SourceEntry struct {
	Text   string
	Code   []string
	Weight float64
	Line   int
}

// ParseSourceDict reads tab-separated "text\tcode\tweight" lines, one
// entry per line. Weight is optional and defaults to 0. Blank lines
// and lines starting with '#' are ignored.
func ParseSourceDict(r io.Reader) ([]SourceEntry, error) {
	var entries []SourceEntry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("deploy: line %d: expected at least text and code columns", lineNo)
		}
		entry := SourceEntry{
			Text: fields[0],
			Code: strings.Fields(fields[1]),
			Line: lineNo,
		}
		if len(fields) >= 3 && fields[2] != "" {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("deploy: line %d: bad weight %q: %w", lineNo, fields[2], err)
			}
			entry.Weight = w
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("deploy: scan source dict: %w", err)
	}
	return entries, nil
}
