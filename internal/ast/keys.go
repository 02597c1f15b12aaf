package ast

import "cmp"

// FunctionAccessKey qualifies a function by the module that defines it.
type FunctionAccessKey struct {
	ModuleName   string
	FunctionName string
}

func (k FunctionAccessKey) String() string {
	return k.ModuleName + "." + k.FunctionName
}

// Compare orders keys by module name, then function name.
func (k FunctionAccessKey) Compare(other FunctionAccessKey) int {
	return cmp.Or(cmp.Compare(k.ModuleName, other.ModuleName), cmp.Compare(k.FunctionName, other.FunctionName))
}

// DataTypeKey qualifies a data type by the module that defines it.
type DataTypeKey struct {
	ModuleName  string
	DefinedType string
}

func (k DataTypeKey) String() string {
	return k.ModuleName + "." + k.DefinedType
}

func (k DataTypeKey) Compare(other DataTypeKey) int {
	return cmp.Or(cmp.Compare(k.ModuleName, other.ModuleName), cmp.Compare(k.DefinedType, other.DefinedType))
}
