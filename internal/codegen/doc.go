// Package codegen assembles the input of code generation: a symbol table
// merging builtins with every checked module's functions and data types, the
// source text and line index of each module, and the trace level compiled
// code should carry. The generator itself lives downstream and only reads a
// Context.
package codegen
