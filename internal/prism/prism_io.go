package prism

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/rimecore/rimecore/internal/mapfile"
	"github.com/rimecore/rimecore/pkg/core"
)

// on-disk layout, matching spec.md §3/§6:
//
//	[0:32)   format tag, zero-terminated ASCII
//	[32:36)  dict_file_checksum
//	[36:40)  schema_file_checksum
//	[40:44)  num_syllables
//	[44:48)  num_spellings
//	[48:52)  double_array_size (number of trie entries serialized)
//	[52:56)  offset -> double_array (self-relative, from this field)
//	[56:60)  offset -> spelling_map (self-relative, from this field)
//	[60:316) alphabet[256], one byte each, nonzero means "in alphabet"
//	...      double array entries, then spelling map
const (
	offFormat          = 0
	offDictChecksum    = FormatMaxLength
	offSchemaChecksum  = offDictChecksum + 4
	offNumSyllables    = offSchemaChecksum + 4
	offNumSpellings    = offNumSyllables + 4
	offDoubleArraySize = offNumSpellings + 4
	offDAPtr           = offDoubleArraySize + 4
	offSpellMapPtr     = offDAPtr + 4
	offAlphabet        = offSpellMapPtr + 4
	headerSize         = offAlphabet + 256
)

// Open loads a prism from a binary file via mmap (spec.md §6). It
// rejects unknown major versions of the format tag.
func Open(path string) (*Prism, error) {
	mf, err := mapfile.Open(path)
	if err != nil {
		return nil, err
	}
	tag, err := mf.String(offFormat, FormatMaxLength)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}
	if !compatibleMajorVersion(tag) {
		_ = mf.Close()
		return nil, fmt.Errorf("prism: unsupported format %q in %s", tag, path)
	}

	numSyllables, err := mf.Int32(offNumSyllables)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}
	numSpellings, err := mf.Int32(offNumSpellings)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}

	daPtr, err := mf.ReadOffsetPtr(offDAPtr)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}
	spellPtr, err := mf.ReadOffsetPtr(offSpellMapPtr)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}

	entries, err := readDoubleArrayEntries(mf, daPtr.Resolve(offDAPtr))
	if err != nil {
		_ = mf.Close()
		return nil, err
	}
	spellMap, err := readSpellingMap(mf, spellPtr.Resolve(offSpellMapPtr), int(numSpellings))
	if err != nil {
		_ = mf.Close()
		return nil, err
	}

	p := &Prism{
		meta: Metadata{
			Format:       tag,
			NumSyllables: int(numSyllables),
			NumSpellings: int(numSpellings),
		},
		da:       rebuildFromEntries(entries),
		spellMap: spellMap,
		mapped:   mf,
	}
	return p, nil
}

func compatibleMajorVersion(tag string) bool {
	if !strings.HasPrefix(tag, "Rime::Prism/") {
		return false
	}
	wantMajor := strings.SplitN(strings.TrimPrefix(FormatTag, "Rime::Prism/"), ".", 2)[0]
	gotMajor := strings.SplitN(strings.TrimPrefix(tag, "Rime::Prism/"), ".", 2)[0]
	return wantMajor == gotMajor
}

// serializedEntry is one (spelling, spellingID) pair as written to the
// double_array section; the in-memory trie is rebuilt from these on
// load rather than mapped directly, since the packed double-array
// layout only needs to be decodable, not traversed byte-for-byte.
type serializedEntry struct {
	spelling   string
	spellingID int
}

func readDoubleArrayEntries(mf *mapfile.File, base int) ([]serializedEntry, error) {
	count, err := mf.Int32(base)
	if err != nil {
		return nil, err
	}
	off := base + 4
	entries := make([]serializedEntry, 0, count)
	for i := int32(0); i < count; i++ {
		strLen, err := mf.Int32(off)
		if err != nil {
			return nil, err
		}
		off += 4
		b, err := mf.Bytes(off, int(strLen))
		if err != nil {
			return nil, err
		}
		off += int(strLen)
		id, err := mf.Int32(off)
		if err != nil {
			return nil, err
		}
		off += 4
		entries = append(entries, serializedEntry{spelling: string(b), spellingID: int(id)})
	}
	return entries, nil
}

func rebuildFromEntries(entries []serializedEntry) *doubleArray {
	da := &doubleArray{root: newDaNode()}
	for _, e := range entries {
		da.insert(e.spelling, e.spellingID)
	}
	return da
}

func readSpellingMap(mf *mapfile.File, base int, numSpellings int) ([][]SpellingDescriptor, error) {
	out := make([][]SpellingDescriptor, numSpellings)
	off := base
	for i := 0; i < numSpellings; i++ {
		count, err := mf.Int32(off)
		if err != nil {
			return nil, err
		}
		off += 4
		descs := make([]SpellingDescriptor, 0, count)
		for j := int32(0); j < count; j++ {
			syll, err := mf.Int32(off)
			if err != nil {
				return nil, err
			}
			off += 4
			typ, err := mf.Int32(off)
			if err != nil {
				return nil, err
			}
			off += 4
			credBits, err := mf.Uint32(off)
			if err != nil {
				return nil, err
			}
			off += 4
			cred := float64(credBits) / float64(1<<32-1)
			descs = append(descs, SpellingDescriptor{
				SyllableId: core.SyllableId(syll),
				Properties: core.SpellingProperties{Type: core.SpellingType(typ), Credibility: cred},
			})
		}
		out[i] = descs
	}
	return out, nil
}

// Save serializes the prism to path in the format Open reads back. It
// is the build-time collaborator's write path (spec.md §1 treats the
// compiler as external, but rimecore's maintenance worker in
// internal/deploy still needs to emit this format, so both directions
// are implemented here rather than split across a package boundary
// that would otherwise just be re-exporting these functions).
func (p *Prism) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prism: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	w := bufio.NewWriter(f)

	header := make([]byte, headerSize)
	copy(header[offFormat:], FormatTag)
	binary.LittleEndian.PutUint32(header[offNumSyllables:], uint32(p.meta.NumSyllables))
	binary.LittleEndian.PutUint32(header[offNumSpellings:], uint32(len(p.spellMap)))
	binary.LittleEndian.PutUint32(header[offDAPtr:], uint32(headerSize-offDAPtr))
	daBytes := serializeDoubleArray(p.da)
	binary.LittleEndian.PutUint32(header[offDoubleArraySize:], binary.LittleEndian.Uint32(daBytes))
	if _, err := w.Write(header); err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(header[offSpellMapPtr:], uint32(headerSize-offSpellMapPtr+len(daBytes)))
	if _, err := w.Write(daBytes); err != nil {
		return err
	}
	if err := writeSpellingMap(w, p.spellMap); err != nil {
		return err
	}

	// Patch the spell-map pointer now that we know the double array's
	// serialized size; since we streamed rather than buffered, rewrite
	// just that header field.
	if err := w.Flush(); err != nil {
		return err
	}
	if _, err := f.WriteAt(header[offSpellMapPtr:offSpellMapPtr+4], offSpellMapPtr); err != nil {
		return err
	}
	return nil
}

func serializeDoubleArray(da *doubleArray) []byte {
	var entries []serializedEntry
	var walk func(n *daNode, prefix string)
	walk = func(n *daNode, prefix string) {
		if n.spellingID >= 0 {
			entries = append(entries, serializedEntry{spelling: prefix, spellingID: n.spellingID})
		}
		for b, child := range n.children {
			walk(child, prefix+string(b))
		}
	}
	walk(da.root, "")

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(entries)))
	for _, e := range entries {
		eb := make([]byte, 4+len(e.spelling)+4)
		binary.LittleEndian.PutUint32(eb, uint32(len(e.spelling)))
		copy(eb[4:], e.spelling)
		binary.LittleEndian.PutUint32(eb[4+len(e.spelling):], uint32(e.spellingID))
		buf = append(buf, eb...)
	}
	return buf
}

func writeSpellingMap(w *bufio.Writer, spellMap [][]SpellingDescriptor) error {
	for _, descs := range spellMap {
		head := make([]byte, 4)
		binary.LittleEndian.PutUint32(head, uint32(len(descs)))
		if _, err := w.Write(head); err != nil {
			return err
		}
		for _, d := range descs {
			rec := make([]byte, 12)
			binary.LittleEndian.PutUint32(rec[0:], uint32(d.SyllableId))
			binary.LittleEndian.PutUint32(rec[4:], uint32(d.Properties.Type))
			binary.LittleEndian.PutUint32(rec[8:], uint32(d.Properties.Credibility*float64(1<<32-1)))
			if _, err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
