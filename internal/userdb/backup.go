package userdb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Backup writes every stored record (entries and metadata alike) as a
// TSV snapshot: one "key\tvalue" line per record, with tabs and
// newlines inside key/value escaped so the two-column split stays
// unambiguous (spec.md §4.7 "backup/restore to a TSV snapshot").
func (s *Store) Backup(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	rows, err := s.conn().QueryContext(ctx, `SELECT key, value FROM kv ORDER BY key ASC`)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("userdb: backup query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bw := bufio.NewWriter(w)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("userdb: backup scan: %w", err)
		}
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", escapeTSV(key), escapeTSV(value)); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

// Restore replaces the store's contents with the records read from a
// TSV snapshot previously written by Backup.
func (s *Store) Restore(ctx context.Context, r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("userdb: restore begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("userdb: restore clear: %w", err)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			_ = tx.Rollback()
			return fmt.Errorf("userdb: restore: malformed line %q", line)
		}
		key := unescapeTSV(line[:tab])
		value := unescapeTSV(line[tab+1:])
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES (?, ?)`, key, value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("userdb: restore insert %q: %w", key, err)
		}
	}
	if err := sc.Err(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("userdb: restore scan: %w", err)
	}
	return tx.Commit()
}

func escapeTSV(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "\t", "\\t", "\n", "\\n")
	return r.Replace(s)
}

func unescapeTSV(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 't':
				b.WriteByte('\t')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
