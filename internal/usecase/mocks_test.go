package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/solc"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// MockABIEncoder is a mock implementation of ABIEncoder
type MockABIEncoder struct {
	mock.Mock
}

func (m *MockABIEncoder) EncodeConstructorArgs(args []any, ctor domain.ABIEntry) (string, error) {
	ret := m.Called(args, ctor)
	return ret.String(0), ret.Error(1)
}

func (m *MockABIEncoder) EncodeFunctionCall(args []any, fn domain.ABIEntry) (string, error) {
	ret := m.Called(args, fn)
	return ret.String(0), ret.Error(1)
}

// MockProxyArtifactProvider is a mock implementation of ProxyArtifactProvider
type MockProxyArtifactProvider struct {
	mock.Mock
}

func (m *MockProxyArtifactProvider) Get(ctx context.Context) (*domain.ProxyArtifact, error) {
	ret := m.Called(ctx)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.ProxyArtifact), ret.Error(1)
}

// MockProxyDispatcher is a mock implementation of ProxyDispatcher
type MockProxyDispatcher struct {
	mock.Mock
}

func (m *MockProxyDispatcher) DeployProxy(ctx context.Context, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error) {
	ret := m.Called(ctx, tx, descriptor)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.DispatchReceipt), ret.Error(1)
}

func (m *MockProxyDispatcher) UpgradeProxy(ctx context.Context, proxyAddress, newImplAddress string, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error) {
	ret := m.Called(ctx, proxyAddress, newImplAddress, tx, descriptor)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.DispatchReceipt), ret.Error(1)
}

// MockChainIDReader is a mock implementation of ChainIDReader
type MockChainIDReader struct {
	mock.Mock
}

func (m *MockChainIDReader) ChainID(ctx context.Context) (uint64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(uint64), ret.Error(1)
}

// MockProxyRecordStore is a mock implementation of ProxyRecordStore
type MockProxyRecordStore struct {
	mock.Mock
}

func (m *MockProxyRecordStore) Save(ctx context.Context, record domain.ProxyRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockProxyRecordStore) List(ctx context.Context, filter domain.ProxyRecordFilter) ([]domain.ProxyRecord, error) {
	ret := m.Called(ctx, filter)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]domain.ProxyRecord), ret.Error(1)
}

// MockContractBuilder is a mock implementation of ContractBuilder
type MockContractBuilder struct {
	mock.Mock
}

func (m *MockContractBuilder) Build(ctx context.Context, paths ...string) error {
	return m.Called(ctx, paths).Error(0)
}

// MockCompilationProvider is a mock implementation of CompilationProvider
type MockCompilationProvider struct {
	mock.Mock
}

func (m *MockCompilationProvider) Load(ctx context.Context, file string) (*domain.CompilationOutput, error) {
	ret := m.Called(ctx, file)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*domain.CompilationOutput), ret.Error(1)
}

// MockContractSelector is a mock implementation of ContractSelector
type MockContractSelector struct {
	mock.Mock
}

func (m *MockContractSelector) SelectContract(ctx context.Context, names []string, prompt string) (string, error) {
	ret := m.Called(ctx, names, prompt)
	return ret.String(0), ret.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	stages := make([]string, len(m.events))
	for i, e := range m.events {
		stages[i] = e.Stage
	}
	return stages
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func word(hex string) string {
	return strings.Repeat("0", 64-len(hex)) + hex
}

const (
	tokenFile  = "A.sol"
	uupsImport = "@openzeppelin/contracts-upgradeable/proxy/utils/UUPSUpgradeable.sol"
	implAddr   = "0x00000000000000000000000000000000000000AA"
	ownerAddr  = "0x00000000000000000000000000000000000000bb"
	proxyAddr  = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
)

var (
	initializeOwner = domain.ABIEntry{
		Type: "function",
		Name: "initialize",
		Inputs: []domain.ABIParam{
			{Name: "owner", Type: "address"},
		},
	}

	initializeNoArgs = domain.ABIEntry{
		Type:            "function",
		Name:            "initialize",
		Inputs:          []domain.ABIParam{},
		StateMutability: "nonpayable",
	}

	transferABI = domain.ABIEntry{
		Type: "function",
		Name: "transfer",
		Inputs: []domain.ABIParam{
			{Name: "to", Type: "address"},
			{Name: "amount", Type: "uint256"},
		},
	}
)

// tokenAST is A.sol importing UUPSUpgradeable (id 7) with Token inheriting it
// and Plain inheriting nothing
func tokenAST(imports ...string) *solc.SourceUnit {
	unit := &solc.SourceUnit{
		ID:           20,
		NodeType:     solc.NodeTypeSourceUnit,
		AbsolutePath: tokenFile,
		ExportedSymbols: map[string][]int64{
			"Token":           {19},
			"Plain":           {25},
			"UUPSUpgradeable": {7},
		},
	}
	for i, path := range imports {
		unit.Nodes = append(unit.Nodes, solc.Node{
			ID:           int64(i + 1),
			NodeType:     solc.NodeTypeImportDirective,
			AbsolutePath: path,
		})
	}
	unit.Nodes = append(unit.Nodes,
		solc.Node{ID: 19, NodeType: solc.NodeTypeContractDefinition, Name: "Token", ContractKind: "contract", LinearizedBaseContracts: []int64{19, 7, 3}},
		solc.Node{ID: 25, NodeType: solc.NodeTypeContractDefinition, Name: "Plain", ContractKind: "contract", LinearizedBaseContracts: []int64{25}},
	)
	return unit
}

func tokenOutput(unit *solc.SourceUnit, tokenABI []domain.ABIEntry) *domain.CompilationOutput {
	return &domain.CompilationOutput{
		Sources: map[string]domain.CompiledSource{
			tokenFile: {ID: 0, AST: unit},
		},
		Contracts: map[string]map[string]domain.CompiledContract{
			tokenFile: {
				"Token": {ABI: tokenABI, Bytecode: "6080"},
				"Plain": {ABI: []domain.ABIEntry{transferABI}, Bytecode: "6080"},
			},
		},
	}
}

func uupsClassification() domain.PatternClassification {
	return domain.PatternClassification{Kind: domain.PatternUUPS, File: tokenFile, Marker: uupsImport}
}
