package abi

import (
	"fmt"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

// InputDescriber turns ABI entries into input schemas for prompts and tables
type InputDescriber struct{}

// NewInputDescriber creates a new input describer
func NewInputDescriber() *InputDescriber {
	return &InputDescriber{}
}

// GetInputs describes each input of entry. It returns nil when entry takes
// no inputs.
func (d *InputDescriber) GetInputs(entry domain.ABIEntry) []domain.ParsedInput {
	return describe(entry.Inputs)
}

func describe(params []domain.ABIParam) []domain.ParsedInput {
	if len(params) == 0 {
		return nil
	}
	out := make([]domain.ParsedInput, len(params))
	for i, p := range params {
		out[i] = domain.ParsedInput{
			Name:         p.Name,
			Type:         p.Type,
			InternalType: p.InternalType,
			Placeholder:  placeholder(p),
			Components:   describe(p.Components),
		}
	}
	return out
}

func placeholder(p domain.ABIParam) string {
	typ := canonicalType(p)
	if p.Name == "" {
		return typ
	}
	return fmt.Sprintf("%s %s", typ, p.Name)
}
