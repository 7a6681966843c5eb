package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"treelower/internal/diag"
	"treelower/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics in human-readable form, in bag order (call
// bag.Sort() first for stable output). Each diagnostic looks like
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 | val x = foo(1)
//	     |         ^~~~~~
//
// followed by its notes when opts.ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := p.severity(d.Severity)
		loc := location(d.Primary, fs, opts.PathMode, opts.BaseDir)
		if loc != "" {
			fmt.Fprintf(w, "%s: ", p.bold.Sprint(loc))
		}
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), sev.Sprint(d.Code.ID()), d.Message)
		if hasLocation(d.Primary, fs) {
			writeSnippet(w, p, fs, d.Primary, opts.Context)
		}
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s ", p.note.Sprint("note:"))
			if nl := location(n.Span, fs, opts.PathMode, opts.BaseDir); nl != "" {
				fmt.Fprintf(w, "%s: ", nl)
			}
			fmt.Fprintln(w, n.Msg)
		}
	}
}

func location(sp source.Span, fs *source.FileSet, mode PathMode, base string) string {
	if !hasLocation(sp, fs) {
		return ""
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, base), start.Line, start.Col)
}

func writeSnippet(w io.Writer, p palette, fs *source.FileSet, sp source.Span, context int8) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)

	first := start.Line
	if context > 0 {
		if back := uint32(context); back < first {
			first -= back
		} else {
			first = 1
		}
	}
	width := len(fmt.Sprint(start.Line))
	gutter := func(label string) string {
		return p.gutter.Sprintf("%*s |", width+2, label)
	}

	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", gutter(fmt.Sprint(ln)), expandTabs(f.GetLine(ln)))
	}

	line := f.GetLine(start.Line)
	col := clampCol(start.Col, line)
	stop := uint32(len(line)) + 1
	if end.Line == start.Line {
		stop = max(col, clampCol(end.Col, line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:col-1]))
	span := max(1, runewidth.StringWidth(expandTabs(line[col-1:stop-1])))
	underline := "^" + strings.Repeat("~", span-1)
	fmt.Fprintf(w, "%s %s%s\n", gutter(""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

// clampCol keeps a 1-based column inside line, allowing one past the end.
func clampCol(col uint32, line string) uint32 {
	limit := uint32(len(line)) + 1
	if col < 1 {
		return 1
	}
	if col > limit {
		return limit
	}
	return col
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
