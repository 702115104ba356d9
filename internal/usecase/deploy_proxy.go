package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

// DeployProxyParams contains parameters for deploying a proxy
type DeployProxyParams struct {
	ImplAddress    string
	InitArgs       domain.InitializerArgs
	InitializerABI *domain.ABIEntry
	Implementation domain.ContractDescriptor
}

// DeployProxyResult is the outcome of a proxy deployment
type DeployProxyResult struct {
	Skipped    bool                      `json:"skipped"`
	InitData   string                    `json:"initData,omitempty"`
	TxData     *domain.ProxyTxData       `json:"txData,omitempty"`
	Descriptor domain.ContractDescriptor `json:"descriptor"`
	Receipt    *domain.DispatchReceipt   `json:"receipt,omitempty"`
}

// DeployProxy composes and dispatches an ERC1967Proxy deployment in front
// of an implementation contract
type DeployProxy struct {
	encoder    ABIEncoder
	artifacts  ProxyArtifactProvider
	dispatcher ProxyDispatcher
	records    ProxyRecordStore
	progress   ProgressSink
	log        *slog.Logger
}

// NewDeployProxy creates a new DeployProxy use case
func NewDeployProxy(
	encoder ABIEncoder,
	artifacts ProxyArtifactProvider,
	dispatcher ProxyDispatcher,
	records ProxyRecordStore,
	progress ProgressSink,
	log *slog.Logger,
) *DeployProxy {
	return &DeployProxy{
		encoder:    encoder,
		artifacts:  artifacts,
		dispatcher: dispatcher,
		records:    records,
		progress:   progress,
		log:        log.With("component", "DeployProxy"),
	}
}

// Run deploys a proxy for the implementation at params.ImplAddress.
// Files not classified as UUPS are skipped without error; transparent
// proxies fail with ErrPatternNotImplemented.
func (uc *DeployProxy) Run(ctx context.Context, classification domain.PatternClassification, params DeployProxyParams) (*DeployProxyResult, error) {
	if params.InitializerABI == nil {
		return nil, domain.ErrMissingInitializer
	}

	switch classification.Kind {
	case domain.PatternUUPS:
	case domain.PatternTransparent:
		return nil, fmt.Errorf("deploying %s proxies: %w", classification.Kind, domain.ErrPatternNotImplemented)
	default:
		uc.log.DebugContext(ctx, "skipping proxy deployment", "file", classification.File, "kind", classification.Kind)
		return &DeployProxyResult{Skipped: true, Descriptor: params.Implementation}, nil
	}

	uc.report(ctx, StageRequested, fmt.Sprintf("Deploying %s behind %s", params.Implementation.Name, domain.ProxyContractName))

	uc.report(ctx, StageEncoding, "Encoding initializer call")
	initData, err := uc.encoder.EncodeFunctionCall(params.InitArgs.Values(), *params.InitializerABI)
	if err != nil {
		return nil, err
	}

	artifact, err := uc.artifacts.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load proxy artifact: %w", err)
	}

	args := []any{params.ImplAddress, initData}
	ctorData, err := uc.encoder.EncodeConstructorArgs(args, domain.ERC1967ConstructorABI)
	if err != nil {
		return nil, err
	}

	tx := &domain.ProxyTxData{
		ContractABI:      artifact.ABI,
		ContractByteCode: artifact.Bytecode,
		ContractName:     domain.ProxyContractName,
		FunAbi:           domain.ERC1967ConstructorABI,
		FunArgs:          args,
		LinkReferences:   map[string]any{},
		DataHex:          artifact.Bytecode + domain.StripHexPrefix(ctorData),
	}
	descriptor := params.Implementation.WithName(domain.ProxyContractName)
	uc.report(ctx, StageComposed, "Proxy deployment composed")

	receipt, err := uc.dispatcher.DeployProxy(ctx, tx, descriptor)
	if err != nil {
		return nil, &domain.DispatchError{Op: "deploy", Err: err}
	}
	uc.report(ctx, StageDispatched, "Proxy deployment sent")

	if !receipt.DryRun {
		uc.save(ctx, domain.ProxyRecord{
			Kind:           domain.ProxyRecordDeploy,
			Contract:       params.Implementation.Name,
			File:           params.Implementation.File,
			ChainID:        receipt.ChainID,
			Proxy:          receipt.ContractAddress,
			Implementation: params.ImplAddress,
			TxHash:         receipt.TxHash,
			CreatedAt:      time.Now(),
		})
	}

	return &DeployProxyResult{
		InitData:   initData,
		TxData:     tx,
		Descriptor: descriptor,
		Receipt:    receipt,
	}, nil
}

func (uc *DeployProxy) report(ctx context.Context, stage ExecutionStage, message string) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(stage),
		Message: message,
		Spinner: stage != StageDispatched,
	})
}

// save records a sent transaction. The transaction is already on its way,
// so a store failure is logged rather than returned.
func (uc *DeployProxy) save(ctx context.Context, record domain.ProxyRecord) {
	if err := uc.records.Save(ctx, record); err != nil {
		uc.log.WarnContext(ctx, "failed to record proxy transaction", "tx", record.TxHash, "error", err)
	}
}
