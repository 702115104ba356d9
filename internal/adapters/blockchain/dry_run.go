package blockchain

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// DryRunDispatcher accepts composed transactions without broadcasting them
type DryRunDispatcher struct {
	log        *slog.Logger
	chainID    uint64
	privateKey string
}

// NewDryRunDispatcher creates a dispatcher that never touches the network
func NewDryRunDispatcher(cfg *config.RuntimeConfig, log *slog.Logger) *DryRunDispatcher {
	var chainID uint64
	if cfg.Network != nil {
		chainID = cfg.Network.ChainID
	}
	return &DryRunDispatcher{
		log:        log.With("component", "DryRunDispatcher"),
		chainID:    chainID,
		privateKey: cfg.PrivateKey,
	}
}

// DeployProxy records the deployment without sending it
func (d *DryRunDispatcher) DeployProxy(ctx context.Context, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error) {
	d.log.Info("dry run: skipping proxy deployment", "contract", descriptor.Name, "bytes", len(tx.DataHex)/2)
	return &domain.DispatchReceipt{
		From:    d.sender(),
		ChainID: d.chainID,
		DryRun:  true,
	}, nil
}

// UpgradeProxy records the upgrade without sending it
func (d *DryRunDispatcher) UpgradeProxy(ctx context.Context, proxyAddress, newImplAddress string, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error) {
	d.log.Info("dry run: skipping proxy upgrade", "proxy", proxyAddress, "implementation", newImplAddress)
	to := proxyAddress
	if common.IsHexAddress(proxyAddress) {
		to = common.HexToAddress(proxyAddress).Hex()
	}
	return &domain.DispatchReceipt{
		From:    d.sender(),
		To:      to,
		ChainID: d.chainID,
		DryRun:  true,
	}, nil
}

// sender derives the signer address when a key is configured
func (d *DryRunDispatcher) sender() string {
	if d.privateKey == "" {
		return ""
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(d.privateKey, "0x"))
	if err != nil {
		return ""
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}
