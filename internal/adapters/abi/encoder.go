package abi

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

// Encoder ABI-encodes constructor arguments and function calls with
// go-ethereum's packer. It holds no state.
type Encoder struct{}

// NewEncoder creates a new ABI encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeConstructorArgs encodes args against the constructor inputs and
// returns the 0x-prefixed encoding (no selector)
func (e *Encoder) EncodeConstructorArgs(args []any, ctor domain.ABIEntry) (string, error) {
	target := Signature("constructor", ctor.Inputs)

	packed, err := pack(ctor.Inputs, args)
	if err != nil {
		return "", &domain.EncodingError{Target: target, Err: err}
	}
	return "0x" + common.Bytes2Hex(packed), nil
}

// EncodeFunctionCall returns the 4-byte selector of fn followed by the
// encoded args, 0x-prefixed
func (e *Encoder) EncodeFunctionCall(args []any, fn domain.ABIEntry) (string, error) {
	target := Signature(fn.Name, fn.Inputs)
	if fn.Name == "" {
		return "", &domain.EncodingError{Target: target, Err: fmt.Errorf("function ABI has no name")}
	}

	method, err := toMethod(fn)
	if err != nil {
		return "", &domain.EncodingError{Target: target, Err: err}
	}

	packed, err := pack(fn.Inputs, args)
	if err != nil {
		return "", &domain.EncodingError{Target: target, Err: err}
	}

	data := append(append([]byte{}, method.ID...), packed...)
	return "0x" + common.Bytes2Hex(data), nil
}

// DecodeConstructorArgs reverses EncodeConstructorArgs
func (e *Encoder) DecodeConstructorArgs(data string, ctor domain.ABIEntry) ([]any, error) {
	target := Signature("constructor", ctor.Inputs)

	arguments, err := toArguments(ctor.Inputs)
	if err != nil {
		return nil, &domain.EncodingError{Target: target, Err: err}
	}
	raw, err := decodeHex(data)
	if err != nil {
		return nil, &domain.EncodingError{Target: target, Err: err}
	}
	values, err := arguments.Unpack(raw)
	if err != nil {
		return nil, &domain.EncodingError{Target: target, Err: fmt.Errorf("failed to unpack: %w", err)}
	}
	return values, nil
}

// Selector returns the 0x-prefixed 4-byte selector of fn
func (e *Encoder) Selector(fn domain.ABIEntry) (string, error) {
	method, err := toMethod(fn)
	if err != nil {
		return "", &domain.EncodingError{Target: Signature(fn.Name, fn.Inputs), Err: err}
	}
	return hexutil.Encode(method.ID), nil
}

// Signature renders name(type,...) for error messages and display
func Signature(name string, inputs []domain.ABIParam) string {
	types := make([]string, len(inputs))
	for i, in := range inputs {
		types[i] = canonicalType(in)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(types, ","))
}

func canonicalType(p domain.ABIParam) string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	inner := make([]string, len(p.Components))
	for i, c := range p.Components {
		inner[i] = canonicalType(c)
	}
	return "(" + strings.Join(inner, ",") + ")" + strings.TrimPrefix(p.Type, "tuple")
}

func pack(inputs []domain.ABIParam, args []any) ([]byte, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("argument count mismatch: expected %d, got %d", len(inputs), len(args))
	}

	arguments, err := toArguments(inputs)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(args))
	for i, arg := range args {
		v, err := coerce(arguments[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, paramLabel(inputs[i], i), err)
		}
		values[i] = v
	}

	packed, err := arguments.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack: %w", err)
	}
	return packed, nil
}

func toMethod(fn domain.ABIEntry) (abi.Method, error) {
	inputs, err := toArguments(fn.Inputs)
	if err != nil {
		return abi.Method{}, err
	}
	outputs, err := toArguments(fn.Outputs)
	if err != nil {
		return abi.Method{}, err
	}
	mutability := fn.StateMutability
	if mutability == "" {
		mutability = "nonpayable"
	}
	isConst := mutability == "view" || mutability == "pure"
	return abi.NewMethod(fn.Name, fn.Name, abi.Function, mutability, isConst, mutability == "payable", inputs, outputs), nil
}

func toArguments(params []domain.ABIParam) (abi.Arguments, error) {
	arguments := make(abi.Arguments, len(params))
	for i, p := range params {
		typ, err := abi.NewType(p.Type, p.InternalType, toMarshaling(p.Components))
		if err != nil {
			return nil, fmt.Errorf("invalid type %q for %s: %w", p.Type, paramLabel(p, i), err)
		}
		arguments[i] = abi.Argument{Name: p.Name, Type: typ, Indexed: p.Indexed}
	}
	return arguments, nil
}

func toMarshaling(components []domain.ABIParam) []abi.ArgumentMarshaling {
	if len(components) == 0 {
		return nil
	}
	out := make([]abi.ArgumentMarshaling, len(components))
	for i, c := range components {
		out[i] = abi.ArgumentMarshaling{
			Name:         c.Name,
			Type:         c.Type,
			InternalType: c.InternalType,
			Components:   toMarshaling(c.Components),
			Indexed:      c.Indexed,
		}
	}
	return out
}

func paramLabel(p domain.ABIParam, i int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%d", i)
}
