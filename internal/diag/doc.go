// Package diag defines the diagnostic model shared by the project layer and
// its callers.
//
// Producers emit through a Reporter and never format text themselves; the CLI
// decides how a Bag is rendered. Diagnostics are addressed by module name plus
// a byte span inside that module's source.
package diag
