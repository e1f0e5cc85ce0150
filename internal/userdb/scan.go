package userdb

import (
	"context"
	"fmt"

	"github.com/rimecore/rimecore/pkg/core"
)

// prefixUpperBound returns a string that sorts after every string
// having prefix as a proper string-prefix, under SQLite's default
// byte-wise TEXT ordering: appending the maximal Unicode code point
// puts the bound above any realistically stored suffix.
func prefixUpperBound(prefix string) string {
	return prefix + "\U0010FFFF"
}

// PrefixScan returns every stored record whose key starts with prefix,
// in ascending key order, excluding metadata keys (spec.md §4.7: "get,
// put, delete, prefix scan").
func (s *Store) PrefixScan(ctx context.Context, prefix string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn().QueryContext(ctx,
		`SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key ASC`,
		prefix, prefixUpperBound(prefix))
	if err != nil {
		return nil, fmt.Errorf("userdb: prefix scan %q: %w", prefix, err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("userdb: scan row: %w", err)
		}
		code, text, err := parseEntryKey(key)
		if err != nil {
			continue // metadata key, e.g. "\x01/tick"
		}
		commits, dee, lastTick, err := decodeValue(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{Code: code, Text: text, Commits: commits, Dee: dee, LastTick: lastTick, Tombstoned: commits < 0})
	}
	return out, rows.Err()
}

// Delete removes the stored record for (code, text) outright. Most
// callers should prefer UpdateEntry with commits < 0 to tombstone
// instead, per spec.md §4.7's learning-aware delete semantics.
func (s *Store) Delete(ctx context.Context, code core.Code, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entryKey(code, text)
	_, err := s.conn().ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("userdb: delete %q: %w", key, err)
	}
	return nil
}
