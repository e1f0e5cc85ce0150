package filter

import (
	"github.com/rimecore/rimecore/internal/menu"
	"github.com/rimecore/rimecore/pkg/core"
)

// Converter is the external collaborator that performs the actual
// script conversion (e.g. an OpenCC binding); spec.md §1 scopes the
// conversion engine itself out, leaving only the filter's wiring
// contract here.
type Converter interface {
	Convert(text string) (string, bool)
}

// Simplifier runs Converter over each candidate's text, emitting the
// original and/or converted form tagged with Tip (spec.md §4.9).
type Simplifier struct {
	Converter Converter
	Tip       string
	// KeepOriginal also emits the untouched candidate alongside the
	// converted one; otherwise the converted form replaces it.
	KeepOriginal bool
}

func (f *Simplifier) Name() string { return "simplifier" }

func (f *Simplifier) Apply(src menu.Translation) menu.Translation {
	if f.Converter == nil {
		return src
	}
	var out []*core.Candidate
	for {
		c, ok := src.Next()
		if !ok {
			break
		}
		converted, ok := f.Converter.Convert(c.Text)
		if !ok || converted == c.Text {
			out = append(out, c)
			continue
		}
		if f.KeepOriginal {
			out = append(out, c)
		}
		out = append(out, c.Shadow(converted, f.tipComment(c), c.Preedit))
	}
	return menu.NewSliceTranslation(out)
}

func (f *Simplifier) tipComment(c *core.Candidate) string {
	if f.Tip == "" {
		return c.Comment
	}
	return f.Tip
}
