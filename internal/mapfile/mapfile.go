// Package mapfile provides zero-copy access to binary dictionary files
// via self-relative offset pointers over an mmap'd region
// (spec.md §3 "Prism on-disk" / "Table on-disk", §9 "Offset pointers").
//
// All integer fields in the mapped files are little-endian
// (spec.md §6). A File owns the mmap for its lifetime; callers share it
// through internal/dictmap's refcounting rather than mapping the same
// path twice.
package mapfile

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only mmap'd region with little-endian accessors.
// Offset is always relative to the start of this region, never to a
// per-field address, so arithmetic never produces a pointer that
// outlives the mapping (spec.md §9).
type File struct {
	path string
	f    *os.File
	data []byte
}

// Open mmaps the file at path for read-only access.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile: open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mapfile: stat %s: %w", path, err)
	}
	if st.Size() == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("mapfile: %s is empty", path)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mapfile: mmap %s: %w", path, err)
	}
	return &File{path: path, f: f, data: data}, nil
}

// Close unmaps the region and closes the underlying file descriptor.
func (m *File) Close() error {
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			return fmt.Errorf("mapfile: munmap %s: %w", m.path, err)
		}
		m.data = nil
	}
	return m.f.Close()
}

// Path returns the mapped file's path.
func (m *File) Path() string { return m.path }

// Size returns the length of the mapped region in bytes.
func (m *File) Size() int { return len(m.data) }

// Bytes returns a view of n bytes starting at byte offset off. Returns
// an error rather than panicking on out-of-range access, per spec.md §7
// ("offset out of mapped range" is an invariant violation, not a
// crash): callers convert this into an empty result at the component
// boundary.
func (m *File) Bytes(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(m.data) {
		return nil, fmt.Errorf("mapfile: range [%d,%d) out of bounds (size %d) in %s", off, off+n, len(m.data), m.path)
	}
	return m.data[off : off+n], nil
}

// Uint32 reads a little-endian uint32 at byte offset off.
func (m *File) Uint32(off int) (uint32, error) {
	b, err := m.Bytes(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a little-endian int32 at byte offset off.
func (m *File) Int32(off int) (int32, error) {
	v, err := m.Uint32(off)
	return int32(v), err
}

// String reads a zero-terminated, at-most-maxLen ASCII string starting
// at byte offset off (used for the format tag, spec.md §6).
func (m *File) String(off, maxLen int) (string, error) {
	b, err := m.Bytes(off, maxLen)
	if err != nil {
		return "", err
	}
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n]), nil
}

// OffsetPtr is a typed, self-relative 32-bit offset into a File
// (spec.md §9). Zero means null. The zero value of OffsetPtr is null.
type OffsetPtr int32

// IsNull reports whether the offset pointer is null.
func (p OffsetPtr) IsNull() bool { return p == 0 }

// Resolve returns the absolute byte offset of p relative to base, the
// byte offset at which the OffsetPtr itself was read. This mirrors the
// self-relative offset convention: arithmetic happens on the region's
// base address, never on a per-field address (spec.md §9).
func (p OffsetPtr) Resolve(base int) int {
	return base + int(p)
}

// ReadOffsetPtr reads the OffsetPtr stored at byte offset off and
// returns it unresolved. The on-disk formats in spec.md §3 encode
// "offset -> X" fields relative to their own location, so callers
// resolve the result with Resolve(off).
func (m *File) ReadOffsetPtr(off int) (OffsetPtr, error) {
	v, err := m.Int32(off)
	if err != nil {
		return 0, err
	}
	return OffsetPtr(v), nil
}
