package userdb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rimecore/rimecore/pkg/core"
)

// Record is one stored user-dictionary entry: a code/text pair with
// its commit count and decayed-exposure score (spec.md §4.7's
// "commits"/"dee").
type Record struct {
	Code       core.Code
	Text       string
	Commits    int32
	Dee        float64
	LastTick   int64
	Tombstoned bool // Commits < 0
}

// entryKey builds the KV key for (code, text): the space-separated
// code followed by a tab and the text, per spec.md §4.7 ("Keys share
// the prefix \"<space-separated code> \t<text>\"").
func entryKey(code core.Code, text string) string {
	return codePrefix(code) + "\t" + text
}

// codePrefix is the space-separated code alone, the prefix shared by
// every record under that exact code.
func codePrefix(code core.Code) string {
	parts := make([]string, len(code))
	for i, s := range code {
		parts[i] = strconv.Itoa(int(s))
	}
	return strings.Join(parts, " ")
}

// parseEntryKey splits a stored key back into its code and text,
// the inverse of entryKey.
func parseEntryKey(key string) (core.Code, string, error) {
	tab := strings.IndexByte(key, '\t')
	if tab < 0 {
		return nil, "", fmt.Errorf("userdb: malformed key %q", key)
	}
	codeStr, text := key[:tab], key[tab+1:]
	var code core.Code
	if codeStr != "" {
		for _, tok := range strings.Split(codeStr, " ") {
			n, err := strconv.Atoi(tok)
			if err != nil {
				return nil, "", fmt.Errorf("userdb: malformed code in key %q: %w", key, err)
			}
			code = append(code, core.SyllableId(n))
		}
	}
	return code, text, nil
}

// encodeValue/decodeValue serialize a record's mutable fields as
// "commits\x1Fdee\x1FlastTick" inside the KV value column.
func encodeValue(commits int32, dee float64, lastTick int64) string {
	return fmt.Sprintf("%d\x1f%s\x1f%d", commits, strconv.FormatFloat(dee, 'g', -1, 64), lastTick)
}

func decodeValue(raw string) (commits int32, dee float64, lastTick int64, err error) {
	parts := strings.Split(raw, "\x1f")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("userdb: malformed value %q", raw)
	}
	c, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("userdb: malformed commits in %q: %w", raw, err)
	}
	d, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("userdb: malformed dee in %q: %w", raw, err)
	}
	t, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("userdb: malformed tick in %q: %w", raw, err)
	}
	return int32(c), d, t, nil
}

// Get reads the raw stored record for (code, text), if any.
func (s *Store) Get(ctx context.Context, code core.Code, text string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx, code, text)
}

func (s *Store) getLocked(ctx context.Context, code core.Code, text string) (Record, bool, error) {
	key := entryKey(code, text)
	row := s.conn().QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	var raw string
	switch err := row.Scan(&raw); {
	case err == sql.ErrNoRows:
		return Record{}, false, nil
	case err != nil:
		return Record{}, false, fmt.Errorf("userdb: get %q: %w", key, err)
	}
	commits, dee, lastTick, err := decodeValue(raw)
	if err != nil {
		return Record{}, false, err
	}
	return Record{Code: code, Text: text, Commits: commits, Dee: dee, LastTick: lastTick, Tombstoned: commits < 0}, true, nil
}

// decay implements spec.md §4.7's decay(Δ) = 0.5^(Δ / half_life).
func decay(deltaTicks int64, halfLifeTicks int64) float64 {
	if halfLifeTicks <= 0 {
		return 0
	}
	return math.Pow(0.5, float64(deltaTicks)/float64(halfLifeTicks))
}

// UpdateEntry applies spec.md §4.7's update_entry(entry, commits)
// transition against the stored record for (code, text), writing the
// result back through whatever transaction is currently open.
//
//   - commits == 0: a user read; dee' = dee*decay(Δ) + 1, commits unchanged.
//   - commits  > 0: a user commit; commits' = commits + commits_prev,
//     dee' = dee*decay(Δ) + 1.
//   - commits  < 0: delete/forget; commits' = min(-1, -|commits_prev|)
//     (tombstone), dee' zeroed.
func (s *Store) UpdateEntry(ctx context.Context, code core.Code, text string, commits int32, halfLifeTicks int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	currentTick, err := s.tickLocked(ctx)
	if err != nil {
		return err
	}

	existing, found, err := s.getLocked(ctx, code, text)
	if err != nil {
		return err
	}
	var prevCommits int32
	var prevDee float64
	var prevTick int64
	if found {
		prevCommits, prevDee, prevTick = existing.Commits, existing.Dee, existing.LastTick
	}
	d := decay(currentTick-prevTick, halfLifeTicks)

	var newCommits int32
	var newDee float64
	switch {
	case commits == 0:
		newCommits = prevCommits
		newDee = prevDee*d + 1
	case commits > 0:
		newCommits = prevCommits + commits
		newDee = prevDee*d + 1
	default:
		abs := prevCommits
		if abs < 0 {
			abs = -abs
		}
		if abs < 1 {
			abs = 1
		}
		newCommits = -abs
		newDee = 0
	}

	key := entryKey(code, text)
	value := encodeValue(newCommits, newDee, currentTick)
	_, err = s.conn().ExecContext(ctx, `INSERT INTO kv(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("userdb: update entry %q: %w", key, err)
	}
	return nil
}

// Weight computes spec.md §4.7's lookup weight, log(dee+1) + bias.
func (r Record) Weight(bias float64) float64 {
	return math.Log(r.Dee+1) + bias
}
