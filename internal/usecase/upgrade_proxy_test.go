package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	abiadapter "github.com/trebuchet-org/treb-proxy/internal/adapters/abi"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

func TestUpgradeProxy_MissingAddresses(t *testing.T) {
	tests := []struct {
		name    string
		params  usecase.UpgradeProxyParams
		wantErr error
	}{
		{
			name:    "missing implementation",
			params:  usecase.UpgradeProxyParams{ProxyAddress: proxyAddr},
			wantErr: domain.ErrMissingImplementation,
		},
		{
			name:    "missing proxy",
			params:  usecase.UpgradeProxyParams{NewImplAddress: implAddr},
			wantErr: domain.ErrMissingProxy,
		},
		{
			name:    "missing both reports implementation first",
			params:  usecase.UpgradeProxyParams{},
			wantErr: domain.ErrMissingImplementation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder := &MockABIEncoder{}
			dispatcher := &MockProxyDispatcher{}
			uc := usecase.NewUpgradeProxy(encoder, dispatcher, &MockProxyRecordStore{}, &MockProgressSink{}, newTestLogger())

			for _, kind := range []domain.PatternKind{domain.PatternUUPS, domain.PatternTransparent, domain.PatternNone} {
				_, err := uc.Run(context.Background(), domain.PatternClassification{Kind: kind, File: tokenFile}, tt.params)
				require.ErrorIs(t, err, tt.wantErr, "kind %s", kind)
			}
			encoder.AssertNotCalled(t, "EncodeFunctionCall", mock.Anything, mock.Anything)
			dispatcher.AssertNotCalled(t, "UpgradeProxy", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpgradeProxy_Composes(t *testing.T) {
	tests := []struct {
		name     string
		params   usecase.UpgradeProxyParams
		wantFn   domain.ABIEntry
		wantArgs []any
		wantData string
	}{
		{
			name: "upgradeTo",
			params: usecase.UpgradeProxyParams{
				ProxyAddress:   proxyAddr,
				NewImplAddress: implAddr,
			},
			wantFn:   domain.UpgradeToABI,
			wantArgs: []any{implAddr},
			wantData: "3659cfe6" + word("aa"),
		},
		{
			name: "upgradeToAndCall without data",
			params: usecase.UpgradeProxyParams{
				ProxyAddress:   proxyAddr,
				NewImplAddress: implAddr,
				AndCall:        true,
			},
			wantFn:   domain.UpgradeToAndCallABI,
			wantArgs: []any{implAddr, ""},
			wantData: "4f1ef286" + word("aa") + word("40") + word("0"),
		},
		{
			name: "call data implies upgradeToAndCall",
			params: usecase.UpgradeProxyParams{
				ProxyAddress:   proxyAddr,
				NewImplAddress: implAddr,
				CallData:       "0x8129fc1c",
			},
			wantFn:   domain.UpgradeToAndCallABI,
			wantArgs: []any{implAddr, "0x8129fc1c"},
			wantData: "4f1ef286" + word("aa") + word("40") + word("4") + "8129fc1c" + word("")[:56],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dispatcher := &MockProxyDispatcher{}
			records := &MockProxyRecordStore{}
			progress := &MockProgressSink{}

			receipt := &domain.DispatchReceipt{TxHash: "0x02", ChainID: 31337, To: proxyAddr}
			dispatcher.On("UpgradeProxy", mock.Anything, proxyAddr, implAddr, mock.Anything, mock.Anything).Return(receipt, nil)
			records.On("Save", mock.Anything, mock.MatchedBy(func(r domain.ProxyRecord) bool {
				return r.Kind == domain.ProxyRecordUpgrade && r.Proxy == proxyAddr && r.Implementation == implAddr
			})).Return(nil)

			implementation := domain.ContractDescriptor{Name: "TokenV2", File: tokenFile}
			params := tt.params
			params.Implementation = implementation

			uc := usecase.NewUpgradeProxy(abiadapter.NewEncoder(), dispatcher, records, progress, newTestLogger())
			result, err := uc.Run(ctx, uupsClassification(), params)
			require.NoError(t, err)

			tx := result.TxData
			assert.False(t, tx.IsDeployment())
			assert.Empty(t, tx.ContractByteCode)
			assert.Equal(t, tt.wantFn, tx.FunAbi)
			assert.Equal(t, tt.wantArgs, tx.FunArgs)
			assert.Equal(t, tt.wantData, tx.DataHex)
			assert.Equal(t, domain.ERC1967ProxyABI, tx.ContractABI)

			assert.Equal(t, "TokenV2", implementation.Name)
			assert.Equal(t, domain.ProxyContractName, result.Descriptor.Name)
			assert.Equal(t, receipt, result.Receipt)
			assert.Len(t, progress.events, 4)

			dispatcher.AssertExpectations(t)
			records.AssertExpectations(t)
		})
	}
}

func TestUpgradeProxy_Gating(t *testing.T) {
	params := usecase.UpgradeProxyParams{
		ProxyAddress:   proxyAddr,
		NewImplAddress: implAddr,
		Implementation: domain.ContractDescriptor{Name: "TokenV2"},
	}

	t.Run("transparent is not implemented", func(t *testing.T) {
		encoder := &MockABIEncoder{}
		uc := usecase.NewUpgradeProxy(encoder, &MockProxyDispatcher{}, &MockProxyRecordStore{}, &MockProgressSink{}, newTestLogger())

		_, err := uc.Run(context.Background(), domain.PatternClassification{Kind: domain.PatternTransparent}, params)

		require.ErrorIs(t, err, domain.ErrPatternNotImplemented)
		encoder.AssertNotCalled(t, "EncodeFunctionCall", mock.Anything, mock.Anything)
	})

	t.Run("none is skipped", func(t *testing.T) {
		encoder := &MockABIEncoder{}
		dispatcher := &MockProxyDispatcher{}
		uc := usecase.NewUpgradeProxy(encoder, dispatcher, &MockProxyRecordStore{}, &MockProgressSink{}, newTestLogger())

		result, err := uc.Run(context.Background(), domain.PatternClassification{Kind: domain.PatternNone}, params)

		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Equal(t, "TokenV2", result.Descriptor.Name)
		encoder.AssertNotCalled(t, "EncodeFunctionCall", mock.Anything, mock.Anything)
		dispatcher.AssertNotCalled(t, "UpgradeProxy", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpgradeProxy_DispatchError(t *testing.T) {
	dispatcher := &MockProxyDispatcher{}
	records := &MockProxyRecordStore{}
	rpcErr := errors.New("nonce too low")
	dispatcher.On("UpgradeProxy", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, rpcErr)

	uc := usecase.NewUpgradeProxy(abiadapter.NewEncoder(), dispatcher, records, &MockProgressSink{}, newTestLogger())
	_, err := uc.Run(context.Background(), uupsClassification(), usecase.UpgradeProxyParams{
		ProxyAddress:   proxyAddr,
		NewImplAddress: implAddr,
	})

	var dispatchErr *domain.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, "upgrade", dispatchErr.Op)
	assert.ErrorIs(t, err, rpcErr)
	records.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
