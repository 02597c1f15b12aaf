package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"plinth/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, sources Sources, opts PrettyOpts) {
	p := printer{w: w, sources: sources, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

type printer struct {
	w       io.Writer
	sources Sources
	opts    PrettyOpts
}

func (p printer) paint(attrs []color.Attribute, s string) string {
	if !p.opts.Color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func severityAttrs(sev diag.Severity) []color.Attribute {
	switch sev {
	case diag.SevError:
		return []color.Attribute{color.FgRed, color.Bold}
	case diag.SevWarning:
		return []color.Attribute{color.FgYellow, color.Bold}
	default:
		return []color.Attribute{color.FgCyan, color.Bold}
	}
}

func (p printer) diagnostic(d diag.Diagnostic) {
	loc := resolve(p.sources, d.Module, d.Primary)
	sev := p.paint(severityAttrs(d.Severity), d.Severity.String())
	fmt.Fprintf(p.w, "%s: %s %s: %s\n", p.position(loc), sev, d.Code.ID(), d.Message)
	p.excerpt(loc, severityAttrs(d.Severity))

	if !p.opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		nloc := resolve(p.sources, note.Module, note.Span)
		fmt.Fprintf(p.w, "  %s %s: %s\n", p.paint([]color.Attribute{color.FgBlue, color.Bold}, "note"), p.position(nloc), note.Msg)
		p.excerpt(nloc, []color.Attribute{color.FgBlue})
	}
}

func (p printer) position(loc location) string {
	if loc.path == "" {
		return "<project>"
	}
	if !loc.resolved {
		return loc.path
	}
	return fmt.Sprintf("%s:%d:%d", loc.path, loc.line, loc.col)
}

func (p printer) excerpt(loc location, attrs []color.Attribute) {
	if !loc.resolved || loc.lineText == "" {
		return
	}
	text := strings.ReplaceAll(loc.lineText, "\t", " ")
	fmt.Fprintf(p.w, "    %s\n", text)

	col := int(loc.col) - 1
	if col > len(text) {
		return
	}
	pad := runewidth.StringWidth(text[:col])
	width := 1
	if loc.end > loc.start {
		end := min(col+int(loc.end-loc.start), len(text))
		width = max(runewidth.StringWidth(text[col:end]), 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(p.w, "    %s%s\n", strings.Repeat(" ", pad), p.paint(attrs, marker))
}
