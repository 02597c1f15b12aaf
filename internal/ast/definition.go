package ast

import (
	"plinth/internal/source"
)

type DefinitionKind uint8

const (
	DefFn DefinitionKind = iota
	DefDataType
	DefTypeAlias
	DefModuleConstant
	DefTest
	DefValidator
	DefUse
)

func (k DefinitionKind) String() string {
	switch k {
	case DefFn:
		return "fn"
	case DefDataType:
		return "type"
	case DefTypeAlias:
		return "alias"
	case DefModuleConstant:
		return "const"
	case DefTest:
		return "test"
	case DefValidator:
		return "validator"
	case DefUse:
		return "use"
	default:
		return "unknown"
	}
}

// Definition is a top-level item of a module.
type Definition interface {
	Kind() DefinitionKind
	Location() source.Span
}

// Arg is a function, constructor or validator parameter.
type Arg struct {
	Label      string
	Annotation string
	Location   source.Span
	Doc        string
}

// Function is a named function definition. Type is filled in by the checker.
type Function struct {
	Name       string
	Public     bool
	Arguments  []Arg
	ReturnType string
	Type       string
	Body       any
	Doc        string
	Span       source.Span
}

func (*Function) Kind() DefinitionKind    { return DefFn }
func (f *Function) Location() source.Span { return f.Span }

// Constructor is one variant of a data type.
type Constructor struct {
	Name     string
	Fields   []Arg
	Location source.Span
	Doc      string
}

type DataType struct {
	Name         string
	Public       bool
	Opaque       bool
	Parameters   []string
	Constructors []Constructor
	Doc          string
	Span         source.Span
}

func (*DataType) Kind() DefinitionKind    { return DefDataType }
func (d *DataType) Location() source.Span { return d.Span }

type TypeAlias struct {
	Name       string
	Public     bool
	Parameters []string
	Annotation string
	Doc        string
	Span       source.Span
}

func (*TypeAlias) Kind() DefinitionKind    { return DefTypeAlias }
func (a *TypeAlias) Location() source.Span { return a.Span }

type ModuleConstant struct {
	Name   string
	Public bool
	Value  any
	Doc    string
	Span   source.Span
}

func (*ModuleConstant) Kind() DefinitionKind    { return DefModuleConstant }
func (c *ModuleConstant) Location() source.Span { return c.Span }

type Test struct {
	Name string
	Body any
	Span source.Span
}

func (*Test) Kind() DefinitionKind    { return DefTest }
func (t *Test) Location() source.Span { return t.Span }

// Validator is a contract entry point: the main handler Fun and an optional
// secondary handler OtherFun sharing the same parameters.
type Validator struct {
	Params   []Arg
	Fun      Function
	OtherFun *Function
	Doc      string
	Span     source.Span
}

func (*Validator) Kind() DefinitionKind    { return DefValidator }
func (v *Validator) Location() source.Span { return v.Span }

// Name is the name of the main handler.
func (v *Validator) Name() string { return v.Fun.Name }

// Use imports another module by its slash-separated path.
type Use struct {
	Module      []string
	As          string
	Unqualified []string
	Span        source.Span
}

func (*Use) Kind() DefinitionKind    { return DefUse }
func (u *Use) Location() source.Span { return u.Span }
