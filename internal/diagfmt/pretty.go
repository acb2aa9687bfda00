package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, bold func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		bold:   mk(color.Bold),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	}
	return p.info(s.String())
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// Диагностики без позиции печатают только заголовок.
func Pretty(w io.Writer, bag *diag.Bag, src *Sources, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	errors := 0
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			errors++
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.bold(location(src, d.Module, d.Primary, opts.PathMode)),
			p.severity(d.Severity), d.Code.ID(), d.Message)
		writeContext(w, p, src, d.Module, d.Primary, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note("note:"), location(src, d.Module, n.Span, opts.PathMode), n.Msg)
			writeContext(w, p, src, d.Module, n.Span, opts)
		}
	}
	if opts.Summary && errors > 0 {
		noun := "errors"
		if errors == 1 {
			noun = "error"
		}
		fmt.Fprintf(w, "%s\n", p.err(fmt.Sprintf("%d %s", errors, noun)))
	}
}

func location(src *Sources, module string, sp source.Span, mode PathMode) string {
	path := src.Path(module, mode)
	if module == "" {
		path = "<program>"
	}
	if sp.IsZero() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, sp.Start.Line, sp.Start.Col)
}

func writeContext(w io.Writer, p palette, src *Sources, module string, sp source.Span, opts PrettyOpts) {
	if sp.IsZero() || opts.Context < 0 {
		return
	}
	ctx := uint32(opts.Context)
	first := sp.Start.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := sp.Start.Line + ctx
	gutter := len(fmt.Sprint(last))
	for n := first; n <= last; n++ {
		line, ok := src.Line(module, n)
		if !ok {
			if n == sp.Start.Line {
				return
			}
			continue
		}
		line = expandTabs(line)
		if opts.Width > 0 {
			line = runewidth.Truncate(line, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter(fmt.Sprintf("%*d |", gutter, n)), line)
		if n != sp.Start.Line {
			continue
		}
		raw, _ := src.Line(module, n)
		pad, width := underline(raw, sp)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter(strings.Repeat(" ", gutter)+" |"),
			strings.Repeat(" ", pad), p.caret("^"+strings.Repeat("~", width-1)))
	}
}

// underline returns the display offset and width of sp on line, whose
// columns count runes from 1. Spans running past the line are clipped.
func underline(line string, sp source.Span) (int, int) {
	runes := []rune(line)
	start := min(int(sp.Start.Col)-1, len(runes))
	start = max(start, 0)
	end := len(runes)
	if sp.End.Line == sp.Start.Line {
		end = min(int(sp.End.Col)-1, len(runes))
	}
	pad := runewidth.StringWidth(expandTabs(string(runes[:start])))
	width := runewidth.StringWidth(expandTabs(string(runes[start:max(end, start)])))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
