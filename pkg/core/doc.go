// Package core defines the shared language of the rimecore engine.
//
// This package contains:
//   - Wire-level value types shared by the dictionary stack (SyllableId,
//     Code, DictEntry, SpellingProperties)
//   - Composition-level types shared by context, pipeline, and menu
//     (Segment, Segmentation, Candidate and its variants)
//   - Severity/status enums used across component boundaries
//
// The Golden Rule: pkg/core imports ONLY the standard library. All other
// packages depend on core, not the reverse.
package core
