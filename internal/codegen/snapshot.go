package codegen

import (
	"crypto/sha256"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is a serialisable summary of a Context. Two contexts built from
// the same inputs encode to identical bytes.
type Snapshot struct {
	TraceLevel string          `msgpack:"trace_level"`
	Functions  []FunctionEntry `msgpack:"functions"`
	DataTypes  []DataTypeEntry `msgpack:"data_types"`
	Modules    []ModuleEntry   `msgpack:"modules"`
}

type FunctionEntry struct {
	Module string   `msgpack:"module"`
	Name   string   `msgpack:"name"`
	Public bool     `msgpack:"public"`
	Params []string `msgpack:"params"`
	Return string   `msgpack:"return,omitempty"`
	Type   string   `msgpack:"type,omitempty"`
}

type DataTypeEntry struct {
	Module       string   `msgpack:"module"`
	Name         string   `msgpack:"name"`
	Public       bool     `msgpack:"public"`
	Opaque       bool     `msgpack:"opaque"`
	Parameters   []string `msgpack:"parameters"`
	Constructors []string `msgpack:"constructors"`
}

type ModuleEntry struct {
	Name     string   `msgpack:"name"`
	Hash     [32]byte `msgpack:"hash"`
	Newlines []uint32 `msgpack:"newlines"`
}

// Snapshot summarises the context in key order.
func (c *Context) Snapshot() Snapshot {
	snap := Snapshot{
		TraceLevel: c.traceLevel.String(),
		Functions:  make([]FunctionEntry, 0, len(c.functionKeys)),
		DataTypes:  make([]DataTypeEntry, 0, len(c.dataTypeKeys)),
		Modules:    make([]ModuleEntry, 0, len(c.moduleNames)),
	}

	for _, key := range c.functionKeys {
		fn := c.symbols.Functions[key]
		params := make([]string, len(fn.Arguments))
		for i, arg := range fn.Arguments {
			params[i] = arg.Label + ":" + arg.Annotation
		}
		snap.Functions = append(snap.Functions, FunctionEntry{
			Module: key.ModuleName,
			Name:   key.FunctionName,
			Public: fn.Public,
			Params: params,
			Return: fn.ReturnType,
			Type:   fn.Type,
		})
	}

	for _, key := range c.dataTypeKeys {
		dt := c.symbols.DataTypes[key]
		ctors := make([]string, len(dt.Constructors))
		for i, ctor := range dt.Constructors {
			ctors[i] = ctor.Name
		}
		snap.DataTypes = append(snap.DataTypes, DataTypeEntry{
			Module:       key.ModuleName,
			Name:         key.DefinedType,
			Public:       dt.Public,
			Opaque:       dt.Opaque,
			Parameters:   slices.Clone(dt.Parameters),
			Constructors: ctors,
		})
	}

	for _, name := range c.moduleNames {
		m := c.moduleSrc[name]
		snap.Modules = append(snap.Modules, ModuleEntry{
			Name:     name,
			Hash:     sha256.Sum256([]byte(m.Code)),
			Newlines: m.Lines.Offsets(),
		})
	}

	return snap
}

// MarshalBinary encodes the snapshot with msgpack.
func (c *Context) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(c.Snapshot())
}

// DecodeSnapshot reverses MarshalBinary.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	err := msgpack.Unmarshal(data, &snap)
	return snap, err
}
