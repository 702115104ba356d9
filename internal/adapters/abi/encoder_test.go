package abi

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

func word(hex string) string {
	return strings.Repeat("0", 64-len(hex)) + hex
}

var initializeOwner = domain.ABIEntry{
	Type: "function",
	Name: "initialize",
	Inputs: []domain.ABIParam{
		{Name: "owner", Type: "address", InternalType: "address"},
	},
	StateMutability: "nonpayable",
}

func TestEncoder_EncodeConstructorArgs(t *testing.T) {
	enc := NewEncoder()
	impl := "0x00000000000000000000000000000000000000aa"

	tests := []struct {
		name    string
		args    []any
		want    string
		wantErr string
	}{
		{
			name: "string arguments",
			args: []any{impl, "0x1234"},
			want: "0x" + word("aa") + word("40") + word("2") + "1234" + strings.Repeat("0", 60),
		},
		{
			name: "typed arguments",
			args: []any{common.HexToAddress(impl), []byte{0x12, 0x34}},
			want: "0x" + word("aa") + word("40") + word("2") + "1234" + strings.Repeat("0", 60),
		},
		{
			name: "empty init data",
			args: []any{impl, ""},
			want: "0x" + word("aa") + word("40") + word("0"),
		},
		{
			name:    "missing argument",
			args:    []any{impl},
			wantErr: "argument count mismatch: expected 2, got 1",
		},
		{
			name:    "bad address",
			args:    []any{"0x1234", "0x"},
			wantErr: "invalid address",
		},
		{
			name:    "bad bytes",
			args:    []any{impl, "0xzz"},
			wantErr: "invalid hex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.EncodeConstructorArgs(tt.args, domain.ERC1967ConstructorABI)
			if tt.wantErr != "" {
				require.Error(t, err)
				var encErr *domain.EncodingError
				require.True(t, errors.As(err, &encErr))
				assert.Equal(t, "constructor(address,bytes)", encErr.Target)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncoder_ConstructorRoundTrip(t *testing.T) {
	enc := NewEncoder()
	impl := common.HexToAddress("0xAbC0000000000000000000000000000000001234")

	initData, err := enc.EncodeFunctionCall([]any{"0x00000000000000000000000000000000000000b0"}, initializeOwner)
	require.NoError(t, err)

	encoded, err := enc.EncodeConstructorArgs([]any{impl.Hex(), initData}, domain.ERC1967ConstructorABI)
	require.NoError(t, err)

	decoded, err := enc.DecodeConstructorArgs(encoded, domain.ERC1967ConstructorABI)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, impl, decoded[0])
	assert.Equal(t, common.FromHex(initData), decoded[1])
}

func TestEncoder_EncodeFunctionCall(t *testing.T) {
	enc := NewEncoder()
	addr := "0x00000000000000000000000000000000000000aa"

	tests := []struct {
		name    string
		fn      domain.ABIEntry
		args    []any
		want    string
		wantErr string
	}{
		{
			name: "upgradeTo",
			fn:   domain.UpgradeToABI,
			args: []any{addr},
			want: "0x3659cfe6" + word("aa"),
		},
		{
			name: "upgradeToAndCall with empty data",
			fn:   domain.UpgradeToAndCallABI,
			args: []any{addr, "0x"},
			want: "0x4f1ef286" + word("aa") + word("40") + word("0"),
		},
		{
			name: "initialize without inputs",
			fn:   domain.ABIEntry{Type: "function", Name: "initialize"},
			args: []any{},
			want: "0x8129fc1c",
		},
		{
			name: "initialize(address)",
			fn:   initializeOwner,
			args: []any{addr},
			want: "0xc4d66de8" + word("aa"),
		},
		{
			name:    "too many arguments",
			fn:      domain.UpgradeToABI,
			args:    []any{addr, addr},
			wantErr: "argument count mismatch",
		},
		{
			name:    "unnamed function",
			fn:      domain.ABIEntry{Type: "function"},
			args:    []any{},
			wantErr: "function ABI has no name",
		},
		{
			name: "unknown type",
			fn: domain.ABIEntry{Type: "function", Name: "f", Inputs: []domain.ABIParam{
				{Name: "x", Type: "notatype"},
			}},
			args:    []any{"1"},
			wantErr: "invalid type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.EncodeFunctionCall(tt.args, tt.fn)
			if tt.wantErr != "" {
				var encErr *domain.EncodingError
				require.ErrorAs(t, err, &encErr)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncoder_OddWidthIntegers(t *testing.T) {
	enc := NewEncoder()

	tests := []struct {
		name    string
		typ     string
		arg     string
		want    string
		wantErr string
	}{
		{name: "uint24", typ: "uint24", arg: "3000", want: word("bb8")},
		{name: "uint48", typ: "uint48", arg: "86400", want: word("15180")},
		{name: "int24 negative", typ: "int24", arg: "-1", want: strings.Repeat("f", 64)},
		{name: "uint48 overflow", typ: "uint48", arg: "0x1000000000000", wantErr: "overflows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := domain.ABIEntry{
				Type:   "function",
				Name:   "initialize",
				Inputs: []domain.ABIParam{{Name: "x", Type: tt.typ}},
			}

			var (
				got string
				err error
			)
			require.NotPanics(t, func() {
				got, err = enc.EncodeFunctionCall([]any{tt.arg}, fn)
			})
			if tt.wantErr != "" {
				var encErr *domain.EncodingError
				require.ErrorAs(t, err, &encErr)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			sel, err := enc.Selector(fn)
			require.NoError(t, err)
			assert.Equal(t, sel+tt.want, got)
		})
	}
}

func TestEncoder_Deterministic(t *testing.T) {
	enc := NewEncoder()
	args := []any{"0x00000000000000000000000000000000000000aa"}

	first, err := enc.EncodeFunctionCall(args, domain.UpgradeToABI)
	require.NoError(t, err)
	second, err := enc.EncodeFunctionCall(args, domain.UpgradeToABI)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", args[0])
}

func TestEncoder_Selector(t *testing.T) {
	enc := NewEncoder()

	sel, err := enc.Selector(domain.UpgradeToAndCallABI)
	require.NoError(t, err)
	assert.Equal(t, "0x4f1ef286", sel)
}

func TestSignature(t *testing.T) {
	inputs := []domain.ABIParam{
		{Name: "owner", Type: "address"},
		{Name: "cfg", Type: "tuple[]", Components: []domain.ABIParam{
			{Name: "a", Type: "uint256"},
			{Name: "b", Type: "bool"},
		}},
	}
	assert.Equal(t, "setup(address,(uint256,bool)[])", Signature("setup", inputs))
}

func TestCoerce(t *testing.T) {
	mustType := func(typ string, components ...domain.ABIParam) domain.ABIParam {
		return domain.ABIParam{Name: "v", Type: typ, Components: components}
	}

	tests := []struct {
		name    string
		param   domain.ABIParam
		in      any
		want    any
		wantErr string
	}{
		{name: "uint256 decimal", param: mustType("uint256"), in: "1000", want: big.NewInt(1000)},
		{name: "uint256 hex", param: mustType("uint256"), in: "0xff", want: big.NewInt(255)},
		{name: "uint8 sized", param: mustType("uint8"), in: "7", want: uint8(7)},
		{name: "int64 negative", param: mustType("int64"), in: "-5", want: int64(-5)},
		{name: "int from go int", param: mustType("uint32"), in: 9, want: uint32(9)},
		{name: "uint24 as big.Int", param: mustType("uint24"), in: "3000", want: big.NewInt(3000)},
		{name: "int24 negative", param: mustType("int24"), in: "-3000", want: big.NewInt(-3000)},
		{name: "uint48 as big.Int", param: mustType("uint48"), in: "86400", want: big.NewInt(86400)},
		{name: "uint24 overflow", param: mustType("uint24"), in: "16777216", wantErr: "overflows"},
		{name: "uint8 overflow", param: mustType("uint8"), in: "256", wantErr: "overflows"},
		{name: "int8 overflow", param: mustType("int8"), in: "128", wantErr: "overflows"},
		{name: "uint negative", param: mustType("uint256"), in: "-1", wantErr: "negative"},
		{name: "uint garbage", param: mustType("uint256"), in: "abc", wantErr: "invalid uint256"},
		{name: "bool", param: mustType("bool"), in: "true", want: true},
		{name: "bad bool", param: mustType("bool"), in: "yes", wantErr: "invalid bool"},
		{name: "string passthrough", param: mustType("string"), in: "hello", want: "hello"},
		{name: "bytes without prefix", param: mustType("bytes"), in: "abcd", want: []byte{0xab, 0xcd}},
		{name: "bytes4", param: mustType("bytes4"), in: "0x01020304", want: [4]byte{1, 2, 3, 4}},
		{name: "bytes4 wrong length", param: mustType("bytes4"), in: "0x0102", wantErr: "expects 4 bytes"},
		{
			name:  "address slice",
			param: mustType("address[]"),
			in:    `["0x00000000000000000000000000000000000000aa","0x00000000000000000000000000000000000000bb"]`,
			want: []common.Address{
				common.HexToAddress("0xaa"),
				common.HexToAddress("0xbb"),
			},
		},
		{name: "uint array", param: mustType("uint16[2]"), in: "[1, 2]", want: [2]uint16{1, 2}},
		{name: "fixed array length", param: mustType("uint16[2]"), in: "[1]", wantErr: "expects 2 elements"},
		{name: "bad list", param: mustType("uint256[]"), in: "1,2", wantErr: "invalid uint256[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := toArguments([]domain.ABIParam{tt.param})
			require.NoError(t, err)

			got, err := coerce(args[0].Type, tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncoder_TupleArgument(t *testing.T) {
	enc := NewEncoder()
	fn := domain.ABIEntry{
		Type: "function",
		Name: "configure",
		Inputs: []domain.ABIParam{
			{Name: "cfg", Type: "tuple", Components: []domain.ABIParam{
				{Name: "admin", Type: "address"},
				{Name: "fee", Type: "uint256"},
			}},
		},
	}

	got, err := enc.EncodeFunctionCall([]any{`["0x00000000000000000000000000000000000000aa", 10]`}, fn)
	require.NoError(t, err)

	sel, err := enc.Selector(fn)
	require.NoError(t, err)
	assert.Equal(t, sel+word("aa")+word("a"), got)
}
