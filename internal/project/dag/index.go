package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type ModuleID uint32

// ModuleIndex is a bijection between module names and dense node ids.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex собирает уникальные имена, сортирует и раздаёт ID по порядку,
// чтобы нумерация узлов не зависела от порядка обхода map.
func BuildIndex(names []string) ModuleIndex {
	uniq := make(map[string]struct{}, len(names))
	for _, name := range names {
		uniq[name] = struct{}{}
	}

	sorted := make([]string, 0, len(uniq))
	for name := range uniq {
		sorted = append(sorted, name)
	}
	slices.Sort(sorted)

	nameToID := make(map[string]ModuleID, len(sorted))
	for i, name := range sorted {
		nameToID[name] = toID(i)
	}

	return ModuleIndex{
		NameToID: nameToID,
		IDToName: sorted,
	}
}

// Len returns the number of indexed modules.
func (idx ModuleIndex) Len() int {
	return len(idx.IDToName)
}

// Lookup returns the id of name.
func (idx ModuleIndex) Lookup(name string) (ModuleID, bool) {
	id, ok := idx.NameToID[name]
	return id, ok
}

// Name returns the module name for id.
func (idx ModuleIndex) Name(id ModuleID) string {
	return idx.IDToName[int(id)]
}

// Names maps ids back to module names.
func (idx ModuleIndex) Names(ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.Name(id)
	}
	return out
}

func toID(i int) ModuleID {
	id, err := safecast.Conv[ModuleID](i)
	if err != nil {
		panic(fmt.Errorf("module id overflow: %w", err))
	}
	return id
}
