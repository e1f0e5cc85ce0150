// Package output renders CLI results, adapting between a human
// terminal and a scripted/piped caller the way the teacher's
// internal/cli/output did: styled text on a TTY, plain JSON otherwise.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Mode selects how a Renderer formats its output.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// Styles groups the lipgloss styles a command can reach for.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Renderer is the single output surface every command writes through.
type Renderer struct {
	out, errOut io.Writer
	mode        Mode
	styles      Styles
}

// NewRenderer builds a Renderer for mode, defaulting ModeAuto to text
// when out is a terminal and json otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return &Renderer{out: out, errOut: errOut, mode: mode, styles: defaultStyles()}
}

// EffectiveMode resolves ModeAuto against the output stream.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if f, ok := r.out.(*os.File); ok && isTerminal(f) {
		return ModeText
	}
	return ModeJSON
}

// Styles returns the renderer's style set; callers on a non-terminal
// effective mode may still use it, lipgloss degrades to plain text
// when NO_COLOR or a non-tty is detected.
func (r *Renderer) Styles() Styles { return r.styles }

func (r *Renderer) Println(s string) { fmt.Fprintln(r.out, s) }

func (r *Renderer) Printf(format string, args ...any) { fmt.Fprintf(r.out, format, args...) }

func (r *Renderer) Warning(s string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning: "+s))
}

func (r *Renderer) Errorf(format string, args ...any) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// JSON encodes v with two-space indentation.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under header as a go-pretty table, mirroring
// internal/cli/commands/query_render.go's renderTable.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	hrow := make(table.Row, len(header))
	for i, h := range header {
		hrow[i] = h
	}
	t.AppendHeader(hrow)

	for _, row := range rows {
		trow := make(table.Row, len(row))
		for i, v := range row {
			trow[i] = v
		}
		t.AppendRow(trow)
	}
	t.Render()
}
