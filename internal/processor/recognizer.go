package processor

import (
	"regexp"

	"github.com/rimecore/rimecore/internal/context"
	"github.com/rimecore/rimecore/internal/keybind"
	"github.com/rimecore/rimecore/pkg/core"
)

// RecognizerPattern pairs a tag with the regular expression that
// triggers it, e.g. a URL or number pattern (spec.md §4.3
// "recognizer"). Template, if set, renders a replacement candidate
// from the pattern's named capture groups once a matching segment is
// translated (see internal/translator's RecognizerTranslator).
type RecognizerPattern struct {
	Tag      string
	Pattern  *regexp.Regexp
	Template *keybind.Template
}

// Recognizer accepts a key that, appended to the pending input, would
// match one of its registered patterns, taking over input that would
// otherwise fall to the speller. It records the matched tag in the
// "recognized_tag" property (segments don't exist yet at processor
// time). No segmentor reads that property: the segment is tagged only
// if a matcher segmentor with its own patterns matches it.
type Recognizer struct {
	Patterns []RecognizerPattern
}

func (p *Recognizer) Name() string { return "recognizer" }

func (p *Recognizer) Process(ctx *context.Context, key core.KeyEvent) Result {
	if key.Release || ctx.Options["ascii_mode"] {
		return Noop
	}
	r, ok := key.Rune()
	if !ok {
		return Noop
	}
	candidate := ctx.Input[:ctx.CaretPos] + string(r) + ctx.Input[ctx.CaretPos:]
	for _, rp := range p.Patterns {
		if !rp.Pattern.MatchString(candidate) {
			continue
		}
		ctx.Properties["recognized_tag"] = rp.Tag
		ctx.PushInput(string(r))
		return Accepted
	}
	return Noop
}
