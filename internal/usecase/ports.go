package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

// CompilationProvider supplies solc output for a source file
type CompilationProvider interface {
	Load(ctx context.Context, file string) (*domain.CompilationOutput, error)
}

// ContractBuilder compiles the project so compilation output is fresh
type ContractBuilder interface {
	Build(ctx context.Context, paths ...string) error
}

// InputDescriber translates an ABI entry into a describable input schema
type InputDescriber interface {
	GetInputs(entry domain.ABIEntry) []domain.ParsedInput
}

// ABIEncoder encodes constructor arguments and function calls.
// Both return 0x-prefixed hex and fail with *domain.EncodingError.
type ABIEncoder interface {
	EncodeConstructorArgs(args []any, ctor domain.ABIEntry) (string, error)
	EncodeFunctionCall(args []any, fn domain.ABIEntry) (string, error)
}

// ProxyArtifactProvider supplies the compiled ERC1967Proxy
type ProxyArtifactProvider interface {
	Get(ctx context.Context) (*domain.ProxyArtifact, error)
}

// ProxyDispatcher hands composed transactions to the network. It returns
// once the transaction is sent, without waiting for it to be mined.
type ProxyDispatcher interface {
	DeployProxy(ctx context.Context, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error)
	UpgradeProxy(ctx context.Context, proxyAddress, newImplAddress string, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error)
}

// ChainIDReader reports the chain ID of the configured network
type ChainIDReader interface {
	ChainID(ctx context.Context) (uint64, error)
}

// ProxyRecordStore persists dispatched proxy transactions
type ProxyRecordStore interface {
	Save(ctx context.Context, record domain.ProxyRecord) error
	List(ctx context.Context, filter domain.ProxyRecordFilter) ([]domain.ProxyRecord, error)
}

// ContractSelector lets the user pick a contract interactively
type ContractSelector interface {
	SelectContract(ctx context.Context, names []string, prompt string) (string, error)
}

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// ExecutionStage is a step of the proxy transaction state machine
type ExecutionStage string

const (
	StageRequested  ExecutionStage = "Requested"
	StageEncoding   ExecutionStage = "Encoding"
	StageComposed   ExecutionStage = "Composed"
	StageDispatched ExecutionStage = "Dispatched"
)
