package solc

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrSymbolNotFound is returned when a name is not exported by a source unit
var ErrSymbolNotFound = errors.New("symbol not found")

// AmbiguousSymbolErr is returned when more than one declaration is exported
// under the same name. First holds the id that would have been picked.
type AmbiguousSymbolErr struct {
	Name  string
	IDs   []int64
	First int64
}

func (e AmbiguousSymbolErr) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("symbol %q is exported %d times (ids %s)", e.Name, len(e.IDs), strings.Join(ids, ", "))
}

// SymbolIndex answers symbol and inheritance lookups over a source unit.
// A nil unit is valid and behaves like an empty AST.
type SymbolIndex struct {
	unit *SourceUnit
}

// NewSymbolIndex creates an index over unit
func NewSymbolIndex(unit *SourceUnit) *SymbolIndex {
	return &SymbolIndex{unit: unit}
}

// ResolveSymbol returns the declaration id exported under name.
// When the name is exported more than once the first id is still returned
// together with an AmbiguousSymbolErr so callers can decide.
func (s *SymbolIndex) ResolveSymbol(name string) (int64, error) {
	if s.unit == nil {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	ids := s.unit.ExportedSymbols[name]
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	if len(ids) > 1 {
		return ids[0], AmbiguousSymbolErr{Name: name, IDs: slices.Clone(ids), First: ids[0]}
	}
	return ids[0], nil
}

// FindContract returns the contract definition named name declared in file,
// or nil if the unit is not for file or declares no such contract.
func (s *SymbolIndex) FindContract(file, name string) *Node {
	if s.unit == nil || s.unit.AbsolutePath != file {
		return nil
	}
	for i := range s.unit.Nodes {
		node := &s.unit.Nodes[i]
		if node.IsContractDefinition() && node.Name == name {
			return node
		}
	}
	return nil
}

// LinearizedBases returns the inheritance chain of a contract, most-derived first
func (s *SymbolIndex) LinearizedBases(file, name string) []int64 {
	node := s.FindContract(file, name)
	if node == nil {
		return nil
	}
	return node.LinearizedBaseContracts
}

// InheritsFrom reports whether the contract's linearized bases contain symbolID
func (s *SymbolIndex) InheritsFrom(file, name string, symbolID int64) bool {
	return slices.Contains(s.LinearizedBases(file, name), symbolID)
}

// ImportPaths lists the absolute paths of every top-level node that carries one
func (s *SymbolIndex) ImportPaths() []string {
	if s.unit == nil {
		return nil
	}
	var paths []string
	for _, node := range s.unit.Nodes {
		if node.AbsolutePath != "" {
			paths = append(paths, node.AbsolutePath)
		}
	}
	return paths
}
