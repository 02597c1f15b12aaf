package diagfmt

import (
	"strings"

	"plinth/internal/source"
)

func resolve(sources Sources, module string, span source.Span) location {
	loc := location{path: module, start: span.Start, end: span.End}
	if sources == nil || module == "" {
		return loc
	}
	path, code, ok := sources(module)
	if !ok {
		return loc
	}
	if path != "" {
		loc.path = path
	}
	if code == "" {
		return loc
	}

	lines := source.NewLineNumbers(code)
	pos := lines.LineCol(span.Start)
	loc.line, loc.col = pos.Line, pos.Col
	loc.resolved = true

	begin, _ := lines.LineStart(pos.Line)
	rest := code[min(int(begin), len(code)):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	loc.lineText = rest
	return loc
}
