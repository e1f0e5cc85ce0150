package output

import "os"

// isTerminal reports whether f looks like an interactive character
// device. golang.org/x/term would normally answer this, but
// SPEC_FULL.md's domain stack has no component that exercises the rest
// of x/term's surface (raw mode, terminal size), so this checks the
// one bit cobra's own completion output already relies on via
// os.ModeCharDevice instead of importing a library for a single stat
// call.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
