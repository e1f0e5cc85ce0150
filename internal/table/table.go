// Package table implements the hierarchical code->entries index whose
// leaves carry display text and weight (spec.md §3 "Table on-disk",
// §4.6 "Table / dictionary lookup").
package table

import (
	"fmt"
	"math"
	"sort"

	"github.com/rimecore/rimecore/pkg/core"
)

// FormatTag/FormatMaxLength mirror spec.md §6's table format tag.
const (
	FormatTag       = "Rime::Table/1.0"
	FormatMaxLength = 32
)

// Entry is a single table leaf: display text and a float32 weight
// (spec.md §3 "Table on-disk").
type Entry struct {
	Text   string
	Weight float32
}

// trunkLevel holds the entries and next-level index reachable by one
// more syllable in the code path, at depth < core.IndexCodeMaxLength
// (spec.md §3 "TrunkIndexNode").
type trunkLevel struct {
	entries []Entry
	next    map[core.SyllableId]*trunkLevel
	tail    []tailNode
}

// tailNode is a leaf beyond core.IndexCodeMaxLength: the remaining code
// is matched by a linear scan rather than another index level
// (spec.md §3 "TailIndexNode").
type tailNode struct {
	extraCode core.Code
	entry     Entry
}

// Table is the in-memory representation of the hierarchical index. A
// Dictionary (package dict) may stack several Tables, primary first
// (spec.md §4.6).
type Table struct {
	syllabary    []string // syllable id -> display form, for diagnostics
	numEntries   int
	head         map[core.SyllableId]*trunkLevel
	mapped       bool // true if backed by an mmap'd file (Close then unmaps)
	unmapCloseFn func() error
}

// New creates an empty table ready for Insert calls, used by the
// maintenance worker building a table from source entries and by
// tests.
func New(syllabary []string) *Table {
	return &Table{syllabary: syllabary, head: make(map[core.SyllableId]*trunkLevel)}
}

// Insert adds one (code, entry) pair to the table.
func (t *Table) Insert(code core.Code, entry Entry) {
	if len(code) == 0 {
		return
	}
	level := t.descendOrCreate(code)
	idx := len(code)
	if idx <= core.IndexCodeMaxLength {
		level.entries = append(level.entries, entry)
		sort.SliceStable(level.entries, func(i, j int) bool { return level.entries[i].Weight > level.entries[j].Weight })
	} else {
		level.tail = append(level.tail, tailNode{extraCode: code[core.IndexCodeMaxLength:], entry: entry})
	}
	t.numEntries++
}

// descendOrCreate walks (creating as needed) the trunk levels for
// code's first min(len(code), IndexCodeMaxLength) syllables and
// returns the level at that depth.
func (t *Table) descendOrCreate(code core.Code) *trunkLevel {
	depth := len(code)
	if depth > core.IndexCodeMaxLength {
		depth = core.IndexCodeMaxLength
	}
	head, ok := t.head[code[0]]
	if !ok {
		head = &trunkLevel{next: make(map[core.SyllableId]*trunkLevel)}
		t.head[code[0]] = head
	}
	level := head
	for i := 1; i < depth; i++ {
		next, ok := level.next[code[i]]
		if !ok {
			next = &trunkLevel{next: make(map[core.SyllableId]*trunkLevel)}
			level.next[code[i]] = next
		}
		level = next
	}
	return level
}

// NumEntries returns the number of entries inserted.
func (t *Table) NumEntries() int { return t.numEntries }

// Accessor is a pointer into a table's entry array along with the
// remaining, unconsumed code beyond the matched path -- the
// TableAccessor of spec.md §4.6 step 2.
type Accessor struct {
	IndexCode     core.Code
	Entries       []Entry
	RemainingCode core.Code // non-nil when this accessor is a completion match
}

// WalkPath descends the trunk index along exactly the syllables in
// path. At depth < IndexCodeMaxLength it follows the trunk index; at
// IndexCodeMaxLength it matches the tail index by linearly comparing
// extra_code to the remaining syllables of path (spec.md §4.6 step 1).
func (t *Table) WalkPath(path core.Code) ([]Accessor, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("table: empty path")
	}
	head, ok := t.head[path[0]]
	if !ok {
		return nil, nil
	}
	level := head
	depth := len(path)
	if depth > core.IndexCodeMaxLength {
		depth = core.IndexCodeMaxLength
	}
	for i := 1; i < depth; i++ {
		next, ok := level.next[path[i]]
		if !ok {
			return nil, nil
		}
		level = next
	}

	var out []Accessor
	if len(level.entries) > 0 {
		out = append(out, Accessor{IndexCode: path[:depth].Clone(), Entries: level.entries})
	}
	if len(path) > core.IndexCodeMaxLength {
		extra := path[core.IndexCodeMaxLength:]
		for _, tn := range level.tail {
			if tn.extraCode.Equal(extra) {
				out = append(out, Accessor{IndexCode: path.Clone(), Entries: []Entry{tn.entry}})
			}
		}
	}
	return out, nil
}

// CompletionAccessors returns every entry reachable below path's final
// matched trunk/tail level, tagging each with its remaining code beyond
// path -- used for predictive/completion search (spec.md §4.6
// "Predictive/completion lookup").
func (t *Table) CompletionAccessors(path core.Code) ([]Accessor, error) {
	if len(path) == 0 || len(path) > core.IndexCodeMaxLength {
		// Completion search only descends through the dense trunk
		// levels; deeper paths already resolved exactly via WalkPath.
		return nil, nil
	}
	head, ok := t.head[path[0]]
	if !ok {
		return nil, nil
	}
	level := head
	for i := 1; i < len(path); i++ {
		next, ok := level.next[path[i]]
		if !ok {
			return nil, nil
		}
		level = next
	}

	var out []Accessor
	var walk func(lv *trunkLevel, suffix core.Code)
	walk = func(lv *trunkLevel, suffix core.Code) {
		if len(lv.entries) > 0 {
			out = append(out, Accessor{IndexCode: path.Clone(), Entries: lv.entries, RemainingCode: suffix})
		}
		for _, tn := range lv.tail {
			out = append(out, Accessor{IndexCode: path.Clone(), Entries: []Entry{tn.entry}, RemainingCode: append(suffix.Clone(), tn.extraCode...)})
		}
		// Sort child syllables for deterministic traversal.
		keys := make([]core.SyllableId, 0, len(lv.next))
		for k := range lv.next {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			walk(lv.next[k], append(suffix.Clone(), k))
		}
	}
	walk(level, nil)
	return out, nil
}

// Close releases the mmap backing this table, if it was loaded from
// disk.
func (t *Table) Close() error {
	if t.unmapCloseFn != nil {
		return t.unmapCloseFn()
	}
	return nil
}

func float32Bits(f float32) uint32     { return math.Float32bits(f) }
func float32FromBits(b uint32) float32 { return math.Float32frombits(b) }
