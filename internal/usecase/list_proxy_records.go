package usecase

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// ListProxyRecordsParams contains parameters for listing dispatched proxy transactions
type ListProxyRecordsParams struct {
	Contract string
	Kind     domain.ProxyRecordKind
	ChainID  uint64 // overrides the configured network when set
}

// ListProxyRecords lists the proxy transactions recorded by deploy and upgrade
type ListProxyRecords struct {
	config *config.RuntimeConfig
	store  ProxyRecordStore
	chain  ChainIDReader
	log    *slog.Logger
}

// NewListProxyRecords creates a new ListProxyRecords use case
func NewListProxyRecords(cfg *config.RuntimeConfig, store ProxyRecordStore, chain ChainIDReader, log *slog.Logger) *ListProxyRecords {
	return &ListProxyRecords{
		config: cfg,
		store:  store,
		chain:  chain,
		log:    log.With("component", "ListProxyRecords"),
	}
}

// Run returns matching records, newest first. Without an explicit chain the
// configured network narrows the list, asking the node for its chain ID when
// none is configured. With no network, or an unreachable one, every chain is
// listed.
func (uc *ListProxyRecords) Run(ctx context.Context, params ListProxyRecordsParams) ([]domain.ProxyRecord, error) {
	filter := domain.ProxyRecordFilter{
		ChainID:  params.ChainID,
		Contract: params.Contract,
		Kind:     params.Kind,
	}
	if filter.ChainID == 0 {
		filter.ChainID = uc.networkChainID(ctx)
	}
	return uc.store.List(ctx, filter)
}

func (uc *ListProxyRecords) networkChainID(ctx context.Context) uint64 {
	network := uc.config.Network
	if network == nil {
		return 0
	}
	if network.ChainID != 0 || network.RPCURL == "" {
		return network.ChainID
	}

	chainID, err := uc.chain.ChainID(ctx)
	if err != nil {
		uc.log.WarnContext(ctx, "could not read chain ID, listing every chain", "network", network.Name, "error", err)
		return 0
	}
	return chainID
}
