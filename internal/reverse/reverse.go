// Package reverse implements the reverse-lookup database used by
// reverse_lookup_filter and the reverse translator: text -> code
// strings, backed by a compact sorted string table (spec.md §4.9,
// §2's translator table).
package reverse

import "sort"

// DB is an immutable, sorted text->codes index built once at load
// time (analogous to a prism's double-array trie, but keyed by
// display text rather than spelling), plus a sorted code->text index
// for prefix search by the reverse translator.
type DB struct {
	texts []string
	codes [][]string

	byCode     []string // sorted, parallel to byCodeText
	byCodeText []string
}

// Build constructs a reverse lookup DB from a text->codes map,
// collapsing duplicate codes for the same text.
func Build(entries map[string][]string) *DB {
	texts := make([]string, 0, len(entries))
	for t := range entries {
		texts = append(texts, t)
	}
	sort.Strings(texts)

	codes := make([][]string, len(texts))
	for i, t := range texts {
		cs := append([]string(nil), entries[t]...)
		sort.Strings(cs)
		codes[i] = dedupSorted(cs)
	}

	db := &DB{texts: texts, codes: codes}
	for i, t := range texts {
		for _, c := range codes[i] {
			db.byCode = append(db.byCode, c)
			db.byCodeText = append(db.byCodeText, t)
		}
	}
	order := make([]int, len(db.byCode))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return db.byCode[order[i]] < db.byCode[order[j]] })
	sortedCodes := make([]string, len(order))
	sortedTexts := make([]string, len(order))
	for i, idx := range order {
		sortedCodes[i] = db.byCode[idx]
		sortedTexts[i] = db.byCodeText[idx]
	}
	db.byCode, db.byCodeText = sortedCodes, sortedTexts
	return db
}

// TextsForPrefix returns every text whose code starts with prefix, in
// code order, for the reverse translator's prefix search.
func (d *DB) TextsForPrefix(prefix string) []string {
	lo := sort.SearchStrings(d.byCode, prefix)
	var out []string
	for i := lo; i < len(d.byCode) && len(d.byCode[i]) >= len(prefix) && d.byCode[i][:len(prefix)] == prefix; i++ {
		out = append(out, d.byCodeText[i])
	}
	return out
}

func dedupSorted(xs []string) []string {
	out := xs[:0]
	var last string
	for i, x := range xs {
		if i == 0 || x != last {
			out = append(out, x)
			last = x
		}
	}
	return out
}

// Lookup returns every code string registered for text, or nil if
// none are known.
func (d *DB) Lookup(text string) []string {
	i := sort.SearchStrings(d.texts, text)
	if i >= len(d.texts) || d.texts[i] != text {
		return nil
	}
	return d.codes[i]
}

// Comment formats the first known code for text as a display comment,
// the form reverse_lookup_filter amends onto a candidate (spec.md
// §4.9: "amends comment with a code string read from a reverse DB,
// unless a comment is already set").
func (d *DB) Comment(text string) (string, bool) {
	codes := d.Lookup(text)
	if len(codes) == 0 {
		return "", false
	}
	return codes[0], true
}
