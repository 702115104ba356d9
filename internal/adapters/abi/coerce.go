package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// coerce converts a loosely typed argument into the Go value go-ethereum's
// packer expects for t. Strings come from the command line; json.Number and
// []any come from JSON list syntax. Values that are not strings, numbers or
// lists are passed through unchanged and left to the packer to type check.
func coerce(t abi.Type, v any) (any, error) {
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}

	switch t.T {
	case abi.AddressTy:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return common.HexToAddress(s), nil

	case abi.UintTy, abi.IntTy:
		return coerceInteger(t, v)

	case abi.BoolTy:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", s)
		}
		return b, nil

	case abi.StringTy:
		return v, nil

	case abi.BytesTy:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		return decodeHex(s)

	case abi.FixedBytesTy:
		return coerceFixedBytes(t, v)

	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, v)

	case abi.TupleTy:
		return coerceTuple(t, v)

	default:
		return v, nil
	}
}

func coerceInteger(t abi.Type, v any) (any, error) {
	var n *big.Int
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		var ok bool
		n, ok = new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid %s %q", t.String(), val)
		}
	case int:
		n = big.NewInt(int64(val))
	case int64:
		n = big.NewInt(val)
	case uint64:
		n = new(big.Int).SetUint64(val)
	case *big.Int:
		n = val
	default:
		return v, nil
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value %s for %s", n, t.String())
		}
		if n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	}

	// Only 8, 16, 32 and 64 bit integers pack from sized Go integers;
	// every other width, uint24 or uint48 included, packs from *big.Int.
	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return n, nil
	}
	out := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}

func coerceFixedBytes(t abi.Type, v any) (any, error) {
	var raw []byte
	switch val := v.(type) {
	case string:
		b, err := decodeHex(val)
		if err != nil {
			return nil, err
		}
		raw = b
	case []byte:
		raw = val
	default:
		return v, nil
	}

	if len(raw) != t.Size {
		return nil, fmt.Errorf("%s expects %d bytes, got %d", t.String(), t.Size, len(raw))
	}
	out := reflect.New(t.GetType()).Elem()
	reflect.Copy(out, reflect.ValueOf(raw))
	return out.Interface(), nil
}

func coerceList(t abi.Type, v any) (any, error) {
	items, ok, err := listItems(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", t.String(), err)
	}
	if !ok {
		return v, nil
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, fmt.Errorf("%s expects %d elements, got %d", t.String(), t.Size, len(items))
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}
	for i, item := range items {
		elem, err := coerce(*t.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		if err := assign(out.Index(i), elem); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out.Interface(), nil
}

func coerceTuple(t abi.Type, v any) (any, error) {
	items, ok, err := listItems(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", t.String(), err)
	}
	if !ok {
		return v, nil
	}
	if len(items) != len(t.TupleElems) {
		return nil, fmt.Errorf("%s expects %d components, got %d", t.String(), len(t.TupleElems), len(items))
	}

	out := reflect.New(t.TupleType).Elem()
	for i, item := range items {
		elem, err := coerce(*t.TupleElems[i], item)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		if err := assign(out.Field(i), elem); err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
	}
	return out.Interface(), nil
}

// listItems unpacks JSON list syntax. ok is false when v is not a list.
func listItems(v any) (items []any, ok bool, err error) {
	switch val := v.(type) {
	case []any:
		return val, true, nil
	case []string:
		items = make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return items, true, nil
	case string:
		dec := json.NewDecoder(strings.NewReader(val))
		dec.UseNumber()
		if err := dec.Decode(&items); err != nil {
			return nil, false, err
		}
		return items, true, nil
	default:
		return nil, false, nil
	}
}

func assign(dst reflect.Value, v any) error {
	src := reflect.ValueOf(v)
	if !src.IsValid() || !src.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("cannot use %T as %s", v, dst.Type())
	}
	dst.Set(src)
	return nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte{}, nil
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return b, nil
}
