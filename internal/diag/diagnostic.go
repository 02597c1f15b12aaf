package diag

import (
	"plinth/internal/source"
)

type Note struct {
	Module string
	Span   source.Span
	Msg    string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Module   string
	Message  string
	Primary  source.Span
	Notes    []Note
}
