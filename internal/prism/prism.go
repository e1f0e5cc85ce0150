// Package prism implements the double-array trie mapping spellings to
// spelling ids, plus the spelling -> syllable map (spec.md §3 "Prism
// on-disk", §6 "Binary file formats").
package prism

import (
	"fmt"
	"sort"

	"github.com/rimecore/rimecore/internal/mapfile"
	"github.com/rimecore/rimecore/pkg/core"
)

// FormatTag is the zero-terminated ASCII tag at the start of a prism
// file (spec.md §6). FormatMaxLength bounds its on-disk size.
const (
	FormatTag       = "Rime::Prism/1.0"
	FormatMaxLength = 32
)

// SpellingDescriptor is one syllable a spelling can resolve to, along
// with the properties of that resolution (spec.md §3, §4.5).
type SpellingDescriptor struct {
	SyllableId core.SyllableId
	Properties core.SpellingProperties
}

// Metadata mirrors the on-disk Metadata struct from spec.md §3.
type Metadata struct {
	Format             string
	DictFileChecksum   uint32
	SchemaFileChecksum uint32
	NumSyllables       int
	NumSpellings       int
	DoubleArraySize    int
	Alphabet           [256]bool
}

// Prism is an in-memory, build-time representation of the double-array
// trie and spelling map. A build-time collaborator (out of scope per
// spec.md §1) serializes this to the on-disk format; Prism also
// supports loading that format back via Open for the lookup path the
// syllabifier uses at runtime.
type Prism struct {
	meta     Metadata
	da       *doubleArray
	spellMap [][]SpellingDescriptor // indexed by spelling id

	// mapped is set when this Prism was loaded from an mmap'd file;
	// nil when it was built in memory (e.g. by the maintenance worker
	// or by tests).
	mapped *mapfile.File
}

// New builds an in-memory prism from a syllabary: a set of spellings
// each mapping to one canonical syllable id, used by the maintenance
// worker and by tests that don't need the on-disk format.
func New(spellings map[string]core.SyllableId) *Prism {
	keys := make([]string, 0, len(spellings))
	for k := range spellings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := &Prism{
		meta: Metadata{
			Format:       FormatTag,
			NumSyllables: len(spellings),
			NumSpellings: len(keys),
		},
	}
	p.da = buildDoubleArray(keys)
	p.spellMap = make([][]SpellingDescriptor, len(keys))
	for i, k := range keys {
		p.spellMap[i] = []SpellingDescriptor{{
			SyllableId: spellings[k],
			Properties: core.SpellingProperties{Type: core.SpellingNormal, Credibility: 1.0},
		}}
	}
	return p
}

// AddFuzzySpelling registers spelling as an additional (non-canonical)
// way to reach syllable with the given type and credibility; used by
// the maintenance worker to encode spelling algebra derivations and
// abbreviations (spec.md §4.5 "supporting spelling algebra").
func (p *Prism) AddFuzzySpelling(spelling string, syllable core.SyllableId, typ core.SpellingType, credibility float64) {
	id, ok := p.da.lookupExact(spelling)
	if !ok {
		p.da.insert(spelling, len(p.spellMap))
		p.spellMap = append(p.spellMap, nil)
		id = len(p.spellMap) - 1
		p.meta.NumSpellings++
	}
	p.spellMap[id] = append(p.spellMap[id], SpellingDescriptor{
		SyllableId: syllable,
		Properties: core.SpellingProperties{Type: typ, Credibility: credibility},
	})
}

// Match is one result of CommonPrefixSearch: a prefix of the queried
// string of the given length resolves to spellingID.
type Match struct {
	Length     int
	SpellingId int
}

// CommonPrefixSearch returns every prefix of s that is a registered
// spelling, in increasing length order (spec.md §4.5, §8.3).
func (p *Prism) CommonPrefixSearch(s string) []Match {
	return p.da.commonPrefixSearch(s)
}

// ExpandSearch returns every spelling that has s as a prefix, used for
// abbreviation/completion candidates during syllabification.
func (p *Prism) ExpandSearch(s string) []Match {
	return p.da.expandSearch(s)
}

// QuerySpelling returns the syllable descriptors a spelling id resolves
// to. A spelling can resolve to more than one syllable (homophone
// spellings, e.g. "zhi" for several tonal readings in a toneless
// scheme).
func (p *Prism) QuerySpelling(id int) ([]SpellingDescriptor, error) {
	if id < 0 || id >= len(p.spellMap) {
		return nil, fmt.Errorf("prism: spelling id %d out of range", id)
	}
	return p.spellMap[id], nil
}

// NumSyllables returns the number of distinct syllables in the prism.
func (p *Prism) NumSyllables() int { return p.meta.NumSyllables }

// Metadata returns a copy of the prism's metadata.
func (p *Prism) Metadata() Metadata { return p.meta }

// Close releases the mmap backing this prism, if it was loaded from
// disk. Safe to call on an in-memory prism.
func (p *Prism) Close() error {
	if p.mapped != nil {
		return p.mapped.Close()
	}
	return nil
}
