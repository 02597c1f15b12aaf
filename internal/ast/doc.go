// Package ast holds the module-level definitions the project layer needs from
// parsed and type-checked modules. Expression bodies are opaque here: the
// parser and checker own them, this package only carries what sequencing,
// symbol aggregation and validator enumeration look at.
package ast
