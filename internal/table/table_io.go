package table

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/rimecore/rimecore/internal/mapfile"
	"github.com/rimecore/rimecore/pkg/core"
)

// on-disk layout, matching spec.md §3/§6. Like internal/prism, the
// in-memory trunk/tail levels are rebuilt from the serialized form on
// Open rather than walked byte-for-byte against the mapping; the
// mapfile.File is still held open for the lifetime of the Table so the
// refcounting in internal/dictmap governs when the backing pages are
// released.
//
//	[0:32)  format tag
//	[32:36) dict_file_checksum
//	[36:40) num_syllables
//	[40:44) num_entries
//	[44:48) offset -> Syllabary (Array<String>)
//	[48:52) offset -> Index (HeadIndexNode array)
const (
	offFormat        = 0
	offDictChecksum  = FormatMaxLength
	offNumSyllables  = offDictChecksum + 4
	offNumEntries    = offNumSyllables + 4
	offSyllabaryPtr  = offNumEntries + 4
	offIndexPtr      = offSyllabaryPtr + 4
	tableHeaderBytes = offIndexPtr + 4
)

// Open loads a table from a binary file via mmap (spec.md §6).
func Open(path string) (*Table, error) {
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
		return nil, fmt.Errorf("table: unsupported format %q in %s", tag, path)
	}

	syllPtr, err := mf.ReadOffsetPtr(offSyllabaryPtr)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}
	indexPtr, err := mf.ReadOffsetPtr(offIndexPtr)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}

	syllabary, err := readSyllabary(mf, syllPtr.Resolve(offSyllabaryPtr))
	if err != nil {
		_ = mf.Close()
		return nil, err
	}

	t := &Table{syllabary: syllabary, head: make(map[core.SyllableId]*trunkLevel), mapped: true}
	off := indexPtr.Resolve(offIndexPtr)
	numHead, err := mf.Int32(off)
	if err != nil {
		_ = mf.Close()
		return nil, err
	}
	off += 4
	for i := int32(0); i < numHead; i++ {
		key, err := mf.Int32(off)
		if err != nil {
			_ = mf.Close()
			return nil, err
		}
		off += 4
		level, newOff, err := readTrunkLevel(mf, off)
		if err != nil {
			_ = mf.Close()
			return nil, err
		}
		off = newOff
		t.head[core.SyllableId(key)] = level
	}
	t.unmapCloseFn = mf.Close
	return t, nil
}

func compatibleMajorVersion(tag string) bool {
	if !strings.HasPrefix(tag, "Rime::Table/") {
		return false
	}
	wantMajor := strings.SplitN(strings.TrimPrefix(FormatTag, "Rime::Table/"), ".", 2)[0]
	gotMajor := strings.SplitN(strings.TrimPrefix(tag, "Rime::Table/"), ".", 2)[0]
	return wantMajor == gotMajor
}

func readSyllabary(mf *mapfile.File, off int) ([]string, error) {
	n, err := mf.Int32(off)
	if err != nil {
		return nil, err
	}
	off += 4
	out := make([]string, 0, n)
	for i := int32(0); i < n; i++ {
		l, err := mf.Int32(off)
		if err != nil {
			return nil, err
		}
		off += 4
		b, err := mf.Bytes(off, int(l))
		if err != nil {
			return nil, err
		}
		off += int(l)
		out = append(out, string(b))
	}
	return out, nil
}

func readEntries(mf *mapfile.File, off int) ([]Entry, int, error) {
	n, err := mf.Int32(off)
	if err != nil {
		return nil, 0, err
	}
	off += 4
	out := make([]Entry, 0, n)
	for i := int32(0); i < n; i++ {
		l, err := mf.Int32(off)
		if err != nil {
			return nil, 0, err
		}
		off += 4
		b, err := mf.Bytes(off, int(l))
		if err != nil {
			return nil, 0, err
		}
		off += int(l)
		wBits, err := mf.Uint32(off)
		if err != nil {
			return nil, 0, err
		}
		off += 4
		out = append(out, Entry{Text: string(b), Weight: float32FromBits(wBits)})
	}
	return out, off, nil
}

func readTrunkLevel(mf *mapfile.File, off int) (*trunkLevel, int, error) {
	entries, off, err := readEntries(mf, off)
	if err != nil {
		return nil, 0, err
	}
	lvl := &trunkLevel{entries: entries, next: make(map[core.SyllableId]*trunkLevel)}

	numTail, err := mf.Int32(off)
	if err != nil {
		return nil, 0, err
	}
	off += 4
	for i := int32(0); i < numTail; i++ {
		codeLen, err := mf.Int32(off)
		if err != nil {
			return nil, 0, err
		}
		off += 4
		extra := make(core.Code, codeLen)
		for j := int32(0); j < codeLen; j++ {
			v, err := mf.Int32(off)
			if err != nil {
				return nil, 0, err
			}
			off += 4
			extra[j] = core.SyllableId(v)
		}
		textLen, err := mf.Int32(off)
		if err != nil {
			return nil, 0, err
		}
		off += 4
		b, err := mf.Bytes(off, int(textLen))
		if err != nil {
			return nil, 0, err
		}
		off += int(textLen)
		wBits, err := mf.Uint32(off)
		if err != nil {
			return nil, 0, err
		}
		off += 4
		lvl.tail = append(lvl.tail, tailNode{extraCode: extra, entry: Entry{Text: string(b), Weight: float32FromBits(wBits)}})
	}

	numNext, err := mf.Int32(off)
	if err != nil {
		return nil, 0, err
	}
	off += 4
	for i := int32(0); i < numNext; i++ {
		key, err := mf.Int32(off)
		if err != nil {
			return nil, 0, err
		}
		off += 4
		child, newOff, err := readTrunkLevel(mf, off)
		if err != nil {
			return nil, 0, err
		}
		off = newOff
		lvl.next[core.SyllableId(key)] = child
	}
	return lvl, off, nil
}

// Save serializes the table to path in the format Open reads back.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("table: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	w := bufio.NewWriter(f)

	header := make([]byte, tableHeaderBytes)
	copy(header[offFormat:], FormatTag)
	binary.LittleEndian.PutUint32(header[offNumSyllables:], uint32(len(t.syllabary)))
	binary.LittleEndian.PutUint32(header[offNumEntries:], uint32(t.numEntries))
	binary.LittleEndian.PutUint32(header[offSyllabaryPtr:], uint32(tableHeaderBytes-offSyllabaryPtr))
	if _, err := w.Write(header); err != nil {
		return err
	}

	syllBytes := serializeSyllabary(t.syllabary)
	binary.LittleEndian.PutUint32(header[offIndexPtr:], uint32(tableHeaderBytes-offIndexPtr+len(syllBytes)))
	if _, err := w.Write(syllBytes); err != nil {
		return err
	}
	if err := writeIndex(w, t.head); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err = f.WriteAt(header[offIndexPtr:offIndexPtr+4], offIndexPtr)
	return err
}

func serializeSyllabary(syllabary []string) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(syllabary)))
	for _, s := range syllabary {
		rec := make([]byte, 4+len(s))
		binary.LittleEndian.PutUint32(rec, uint32(len(s)))
		copy(rec[4:], s)
		buf = append(buf, rec...)
	}
	return buf
}

func writeIndex(w *bufio.Writer, head map[core.SyllableId]*trunkLevel) error {
	n := make([]byte, 4)
	binary.LittleEndian.PutUint32(n, uint32(len(head)))
	if _, err := w.Write(n); err != nil {
		return err
	}
	for key, level := range head {
		k := make([]byte, 4)
		binary.LittleEndian.PutUint32(k, uint32(key))
		if _, err := w.Write(k); err != nil {
			return err
		}
		if err := writeTrunkLevel(w, level); err != nil {
			return err
		}
	}
	return nil
}

func writeTrunkLevel(w *bufio.Writer, level *trunkLevel) error {
	if err := writeEntries(w, level.entries); err != nil {
		return err
	}
	nt := make([]byte, 4)
	binary.LittleEndian.PutUint32(nt, uint32(len(level.tail)))
	if _, err := w.Write(nt); err != nil {
		return err
	}
	for _, tn := range level.tail {
		cl := make([]byte, 4)
		binary.LittleEndian.PutUint32(cl, uint32(len(tn.extraCode)))
		if _, err := w.Write(cl); err != nil {
			return err
		}
		for _, s := range tn.extraCode {
			sb := make([]byte, 4)
			binary.LittleEndian.PutUint32(sb, uint32(s))
			if _, err := w.Write(sb); err != nil {
				return err
			}
		}
		tb := make([]byte, 4+len(tn.entry.Text)+4)
		binary.LittleEndian.PutUint32(tb, uint32(len(tn.entry.Text)))
		copy(tb[4:], tn.entry.Text)
		binary.LittleEndian.PutUint32(tb[4+len(tn.entry.Text):], float32Bits(tn.entry.Weight))
		if _, err := w.Write(tb); err != nil {
			return err
		}
	}
	nn := make([]byte, 4)
	binary.LittleEndian.PutUint32(nn, uint32(len(level.next)))
	if _, err := w.Write(nn); err != nil {
		return err
	}
	for key, child := range level.next {
		k := make([]byte, 4)
		binary.LittleEndian.PutUint32(k, uint32(key))
		if _, err := w.Write(k); err != nil {
			return err
		}
		if err := writeTrunkLevel(w, child); err != nil {
			return err
		}
	}
	return nil
}

func writeEntries(w *bufio.Writer, entries []Entry) error {
	n := make([]byte, 4)
	binary.LittleEndian.PutUint32(n, uint32(len(entries)))
	if _, err := w.Write(n); err != nil {
		return err
	}
	for _, e := range entries {
		rec := make([]byte, 4+len(e.Text)+4)
		binary.LittleEndian.PutUint32(rec, uint32(len(e.Text)))
		copy(rec[4:], e.Text)
		binary.LittleEndian.PutUint32(rec[4+len(e.Text):], float32Bits(e.Weight))
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
