// Package solc models the subset of the solc AST that proxy analysis needs.
package solc

import "encoding/json"

// Node types used by the analyzer
const (
	NodeTypeSourceUnit         = "SourceUnit"
	NodeTypeImportDirective    = "ImportDirective"
	NodeTypeContractDefinition = "ContractDefinition"
)

// SourceUnit is the root node of a compiled source file
type SourceUnit struct {
	ID              int64              `json:"id"`
	NodeType        string             `json:"nodeType"`
	AbsolutePath    string             `json:"absolutePath"`
	ExportedSymbols map[string][]int64 `json:"exportedSymbols"`
	Nodes           []Node             `json:"nodes"`
}

// Node is a top-level AST node. Only the fields used for proxy
// detection are decoded; everything else is ignored.
type Node struct {
	ID       int64  `json:"id"`
	NodeType string `json:"nodeType"`

	// Set on import directives (and source units)
	AbsolutePath string `json:"absolutePath,omitempty"`

	// Set on contract definitions
	Name                    string  `json:"name,omitempty"`
	ContractKind            string  `json:"contractKind,omitempty"`
	Abstract                bool    `json:"abstract,omitempty"`
	LinearizedBaseContracts []int64 `json:"linearizedBaseContracts,omitempty"`
}

// IsContractDefinition reports whether the node defines a contract
func (n Node) IsContractDefinition() bool {
	return n.NodeType == NodeTypeContractDefinition
}

// ParseSourceUnit decodes a raw solc AST. An empty or null payload yields nil.
func ParseSourceUnit(raw json.RawMessage) (*SourceUnit, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var unit SourceUnit
	if err := json.Unmarshal(raw, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}
