package diagfmt

// Sources resolves a module name to its display path and source text.
type Sources func(module string) (path, code string, ok bool)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	IncludeNotes     bool
	Max              int // обрезка вывода, не Bag
}

type location struct {
	path       string
	start, end uint32
	line, col  uint32
	lineText   string
	resolved   bool
}
