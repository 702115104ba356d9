package domain

import (
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/treb-proxy/internal/domain/solc"
)

// CompilationOutput is the solc standard-json output for one compilation unit,
// keyed by source path.
type CompilationOutput struct {
	Sources   map[string]CompiledSource              `json:"sources"`
	Contracts map[string]map[string]CompiledContract `json:"contracts"`
}

// CompiledSource holds the AST of a single source file
type CompiledSource struct {
	ID  int64            `json:"id"`
	AST *solc.SourceUnit `json:"ast"`
}

// CompiledContract is a contract emitted by the compiler
type CompiledContract struct {
	ABI            []ABIEntry     `json:"abi"`
	Bytecode       string         `json:"bytecode"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

// SourceAST returns the AST for file, or nil when the file or its AST is missing
func (o *CompilationOutput) SourceAST(file string) *solc.SourceUnit {
	if o == nil {
		return nil
	}
	src, ok := o.Sources[file]
	if !ok {
		return nil
	}
	return src.AST
}

// ContractsIn returns the contracts compiled from file
func (o *CompilationOutput) ContractsIn(file string) map[string]CompiledContract {
	if o == nil {
		return nil
	}
	return o.Contracts[file]
}

// Contract looks up a single contract by file and name
func (o *CompilationOutput) Contract(file, name string) (CompiledContract, bool) {
	c, ok := o.ContractsIn(file)[name]
	return c, ok
}

// ABIEntry is one element of a contract ABI
type ABIEntry struct {
	Type            string     `json:"type" yaml:"type"`
	Name            string     `json:"name,omitempty" yaml:"name,omitempty"`
	Inputs          []ABIParam `json:"inputs" yaml:"inputs"`
	Outputs         []ABIParam `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty" yaml:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty" yaml:"anonymous,omitempty"`
}

// ABIParam is a typed input or output of an ABI entry
type ABIParam struct {
	Name         string     `json:"name" yaml:"name"`
	Type         string     `json:"type" yaml:"type"`
	InternalType string     `json:"internalType,omitempty" yaml:"internalType,omitempty"`
	Indexed      bool       `json:"indexed,omitempty" yaml:"indexed,omitempty"`
	Components   []ABIParam `json:"components,omitempty" yaml:"components,omitempty"`
}

// IsFunction reports whether the entry is a function named name
func (e ABIEntry) IsFunction(name string) bool {
	return e.Type == "function" && e.Name == name
}

// FindABIEntry returns the first function named name
func FindABIEntry(abi []ABIEntry, name string) *ABIEntry {
	for i := range abi {
		if abi[i].IsFunction(name) {
			entry := abi[i]
			return &entry
		}
	}
	return nil
}

// ParsedInput is a UI-describable initializer input
type ParsedInput struct {
	Name         string        `json:"name" yaml:"name"`
	Type         string        `json:"type" yaml:"type"`
	InternalType string        `json:"internalType,omitempty" yaml:"internalType,omitempty"`
	Placeholder  string        `json:"placeholder" yaml:"placeholder"`
	Components   []ParsedInput `json:"components,omitempty" yaml:"components,omitempty"`
}

// NormalizeSourcePath converts file to the project-relative, slash-separated
// form solc uses as source key
func NormalizeSourcePath(projectRoot, file string) string {
	if filepath.IsAbs(file) && projectRoot != "" {
		if rel, err := filepath.Rel(projectRoot, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(file))
}
