package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// Backend is the part of ethclient.Client the dispatcher uses
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// DialFunc opens a backend for an RPC URL
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

func dialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	return ethclient.DialContext(ctx, rpcURL)
}

// Dispatcher signs proxy transactions with the configured private key and
// broadcasts them. It does not wait for the transaction to be mined.
type Dispatcher struct {
	log        *slog.Logger
	network    *config.Network
	privateKey string
	dial       DialFunc
}

// NewDispatcher creates a dispatcher for the configured network
func NewDispatcher(cfg *config.RuntimeConfig, log *slog.Logger) *Dispatcher {
	return NewDispatcherWithDialer(cfg, log, dialEthclient)
}

// NewDispatcherWithDialer creates a dispatcher with a custom backend dialer
func NewDispatcherWithDialer(cfg *config.RuntimeConfig, log *slog.Logger, dial DialFunc) *Dispatcher {
	return &Dispatcher{
		log:        log.With("component", "Dispatcher"),
		network:    cfg.Network,
		privateKey: cfg.PrivateKey,
		dial:       dial,
	}
}

// DeployProxy sends a contract creation transaction carrying tx.DataHex
func (d *Dispatcher) DeployProxy(ctx context.Context, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error) {
	d.log.Debug("dispatching proxy deployment", "contract", descriptor.Name, "implementation", descriptor.Address)
	return d.send(ctx, nil, tx.DataHex)
}

// UpgradeProxy sends tx.DataHex to the proxy
func (d *Dispatcher) UpgradeProxy(ctx context.Context, proxyAddress, newImplAddress string, tx *domain.ProxyTxData, descriptor domain.ContractDescriptor) (*domain.DispatchReceipt, error) {
	if !common.IsHexAddress(proxyAddress) {
		return nil, fmt.Errorf("%w: proxy %q", domain.ErrInvalidAddress, proxyAddress)
	}
	to := common.HexToAddress(proxyAddress)
	d.log.Debug("dispatching proxy upgrade", "contract", descriptor.Name, "proxy", to.Hex(), "implementation", newImplAddress)
	return d.send(ctx, &to, tx.DataHex)
}

func (d *Dispatcher) send(ctx context.Context, to *common.Address, dataHex string) (*domain.DispatchReceipt, error) {
	key, err := d.key()
	if err != nil {
		return nil, err
	}
	data := common.FromHex(dataHex)

	backend, chainID, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	from := crypto.PubkeyToAddress(key.PublicKey)
	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := backend.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   to,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(unsigned, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	receipt := &domain.DispatchReceipt{
		TxHash:  signed.Hash().Hex(),
		From:    from.Hex(),
		ChainID: chainID.Uint64(),
		Nonce:   nonce,
	}
	if to == nil {
		receipt.ContractAddress = crypto.CreateAddress(from, nonce).Hex()
	} else {
		receipt.To = to.Hex()
	}

	d.log.Info("transaction sent", "hash", receipt.TxHash, "nonce", nonce, "chainId", receipt.ChainID)
	return receipt, nil
}

func (d *Dispatcher) key() (*ecdsa.PrivateKey, error) {
	if d.privateKey == "" {
		return nil, fmt.Errorf("no private key configured (set TREB_PRIVATE_KEY or --private-key)")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(d.privateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// ChainID returns the chain ID reported by the configured network
func (d *Dispatcher) ChainID(ctx context.Context) (uint64, error) {
	backend, chainID, err := d.connect(ctx)
	if err != nil {
		return 0, err
	}
	backend.Close()
	return chainID.Uint64(), nil
}

// connect dials the network and verifies its chain ID. The caller closes
// the returned backend.
func (d *Dispatcher) connect(ctx context.Context) (Backend, *big.Int, error) {
	if d.network == nil || d.network.RPCURL == "" {
		return nil, nil, fmt.Errorf("no network configured (use --network)")
	}

	backend, err := d.dial(ctx, d.network.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if d.network.ChainID != 0 && networkChainID.Uint64() != d.network.ChainID {
		backend.Close()
		return nil, nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", d.network.ChainID, networkChainID.Uint64())
	}

	return backend, networkChainID, nil
}
