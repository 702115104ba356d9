package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
)

// UpgradeProxyParams contains parameters for upgrading a proxy
type UpgradeProxyParams struct {
	ProxyAddress   string
	NewImplAddress string
	Implementation domain.ContractDescriptor

	// AndCall selects upgradeToAndCall, the only upgrade entry point of
	// OpenZeppelin 5 proxies. A non-empty CallData implies it.
	AndCall  bool
	CallData string
}

// UpgradeProxyResult is the outcome of a proxy upgrade
type UpgradeProxyResult struct {
	Skipped    bool                      `json:"skipped"`
	TxData     *domain.ProxyTxData       `json:"txData,omitempty"`
	Descriptor domain.ContractDescriptor `json:"descriptor"`
	Receipt    *domain.DispatchReceipt   `json:"receipt,omitempty"`
}

// UpgradeProxy composes and dispatches a call repointing a UUPS proxy at a
// new implementation
type UpgradeProxy struct {
	encoder    ABIEncoder
	dispatcher ProxyDispatcher
	records    ProxyRecordStore
	progress   ProgressSink
	log        *slog.Logger
}

// NewUpgradeProxy creates a new UpgradeProxy use case
func NewUpgradeProxy(
	encoder ABIEncoder,
	dispatcher ProxyDispatcher,
	records ProxyRecordStore,
	progress ProgressSink,
	log *slog.Logger,
) *UpgradeProxy {
	return &UpgradeProxy{
		encoder:    encoder,
		dispatcher: dispatcher,
		records:    records,
		progress:   progress,
		log:        log.With("component", "UpgradeProxy"),
	}
}

// Run upgrades the proxy at params.ProxyAddress. Gating matches DeployProxy.
func (uc *UpgradeProxy) Run(ctx context.Context, classification domain.PatternClassification, params UpgradeProxyParams) (*UpgradeProxyResult, error) {
	if params.NewImplAddress == "" {
		return nil, domain.ErrMissingImplementation
	}
	if params.ProxyAddress == "" {
		return nil, domain.ErrMissingProxy
	}

	switch classification.Kind {
	case domain.PatternUUPS:
	case domain.PatternTransparent:
		return nil, fmt.Errorf("upgrading %s proxies: %w", classification.Kind, domain.ErrPatternNotImplemented)
	default:
		uc.log.DebugContext(ctx, "skipping proxy upgrade", "file", classification.File, "kind", classification.Kind)
		return &UpgradeProxyResult{Skipped: true, Descriptor: params.Implementation}, nil
	}

	uc.report(ctx, StageRequested, fmt.Sprintf("Upgrading %s to %s", params.ProxyAddress, params.NewImplAddress))

	fn := domain.UpgradeToABI
	args := []any{params.NewImplAddress}
	if params.AndCall || params.CallData != "" {
		fn = domain.UpgradeToAndCallABI
		args = append(args, params.CallData)
	}

	uc.report(ctx, StageEncoding, fmt.Sprintf("Encoding %s call", fn.Name))
	fnData, err := uc.encoder.EncodeFunctionCall(args, fn)
	if err != nil {
		return nil, err
	}

	tx := &domain.ProxyTxData{
		ContractABI:    domain.ERC1967ProxyABI,
		ContractName:   domain.ProxyContractName,
		FunAbi:         fn,
		FunArgs:        args,
		LinkReferences: map[string]any{},
		DataHex:        domain.StripHexPrefix(fnData),
	}
	descriptor := params.Implementation.WithName(domain.ProxyContractName)
	uc.report(ctx, StageComposed, "Proxy upgrade composed")

	receipt, err := uc.dispatcher.UpgradeProxy(ctx, params.ProxyAddress, params.NewImplAddress, tx, descriptor)
	if err != nil {
		return nil, &domain.DispatchError{Op: "upgrade", Err: err}
	}
	uc.report(ctx, StageDispatched, "Proxy upgrade sent")

	if !receipt.DryRun {
		if err := uc.records.Save(ctx, domain.ProxyRecord{
			Kind:           domain.ProxyRecordUpgrade,
			Contract:       params.Implementation.Name,
			File:           params.Implementation.File,
			ChainID:        receipt.ChainID,
			Proxy:          params.ProxyAddress,
			Implementation: params.NewImplAddress,
			TxHash:         receipt.TxHash,
			CreatedAt:      time.Now(),
		}); err != nil {
			uc.log.WarnContext(ctx, "failed to record proxy transaction", "tx", receipt.TxHash, "error", err)
		}
	}

	return &UpgradeProxyResult{
		TxData:     tx,
		Descriptor: descriptor,
		Receipt:    receipt,
	}, nil
}

func (uc *UpgradeProxy) report(ctx context.Context, stage ExecutionStage, message string) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(stage),
		Message: message,
		Spinner: stage != StageDispatched,
	})
}
