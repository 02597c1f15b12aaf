package ast

// TypeInfo is the public interface of a checked module as produced by the
// type checker: exported type constructors and values with their rendered
// types. It is opaque to the project layer and forwarded to code generation.
type TypeInfo struct {
	Name    string
	Package string
	Types   map[string]string
	Values  map[string]string
}
