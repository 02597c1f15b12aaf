package source

import (
	"fmt"

	"fortio.org/safecast"
)

// LineNumbers indexes the newline offsets of a module's source text so byte
// offsets can be mapped back to line/column positions.
type LineNumbers struct {
	newlines []uint32
	length   uint32
}

// NewLineNumbers builds the index for code.
func NewLineNumbers(code string) LineNumbers {
	length, err := safecast.Conv[uint32](len(code))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	return LineNumbers{
		newlines: buildLineIndex(code),
		length:   length,
	}
}

// Lines returns the number of lines in the indexed text.
func (ln LineNumbers) Lines() int {
	return len(ln.newlines) + 1
}

// Len returns the length in bytes of the indexed text.
func (ln LineNumbers) Len() uint32 {
	return ln.length
}

// LineCol resolves a byte offset. Offsets past the end are clamped.
func (ln LineNumbers) LineCol(off uint32) LineCol {
	if off > ln.length {
		off = ln.length
	}
	return toLineCol(ln.newlines, off)
}

// Resolve converts a span into line and column positions.
func (ln LineNumbers) Resolve(span Span) (start, end LineCol) {
	return ln.LineCol(span.Start), ln.LineCol(span.End)
}

// LineStart returns the byte offset at which line (1-based) begins.
func (ln LineNumbers) LineStart(line uint32) (uint32, bool) {
	switch {
	case line == 0:
		return 0, false
	case line == 1:
		return 0, true
	}
	idx := int(line) - 2
	if idx >= len(ln.newlines) {
		return 0, false
	}
	return ln.newlines[idx] + 1, true
}

// Offsets returns a copy of the newline offsets.
func (ln LineNumbers) Offsets() []uint32 {
	out := make([]uint32, len(ln.newlines))
	copy(out, ln.newlines)
	return out
}

func buildLineIndex(code string) []uint32 {
	out := make([]uint32, 0, len(code)/32)
	for i := 0; i < len(code); i++ {
		if code[i] == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line offset overflow: %w", err))
			}
			out = append(out, off)
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Если индекс пустой, то весь файл - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: количество переводов строки строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := lo

	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}

	lineNo, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return LineCol{Line: lineNo, Col: off - startOff + 1}
}
