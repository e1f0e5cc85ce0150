package filter

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// mergeTables combines several Unicode range tables into one, the
// shape charset_filter and cjk_minifier both need to express "any of
// these scripts" as a single membership test.
func mergeTables(tables []*unicode.RangeTable) *unicode.RangeTable {
	return rangetable.Merge(tables...)
}

// basicCJKTable is the Unicode block traditionally called "CJK
// Unified Ideographs" (U+4E00-U+9FFF), used by cjk_minifier's
// extended_charset gate (spec.md §4.9).
var basicCJKTable = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}},
}
