package forge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/domain/config"
)

// erc1967Source is the OpenZeppelin source path suffix of the proxy
const erc1967Source = "proxy/ERC1967/ERC1967Proxy.sol"

// ProxyArtifactLoader provides the compiled ERC1967Proxy. It reads the
// Foundry artifact and falls back to scanning build info when the artifact
// file is missing.
type ProxyArtifactLoader struct {
	log       *slog.Logger
	path      string
	buildInfo *BuildInfoLoader
}

// NewProxyArtifactLoader creates a new proxy artifact loader
func NewProxyArtifactLoader(cfg *config.RuntimeConfig, buildInfo *BuildInfoLoader, log *slog.Logger) *ProxyArtifactLoader {
	return &ProxyArtifactLoader{
		log:       log.With("component", "ProxyArtifactLoader"),
		path:      cfg.ProxyArtifact,
		buildInfo: buildInfo,
	}
}

// foundryArtifact is the subset of out/<File>.sol/<Contract>.json we read
type foundryArtifact struct {
	ABI      []domain.ABIEntry `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
}

// Get returns the proxy creation bytecode and ABI
func (l *ProxyArtifactLoader) Get(ctx context.Context) (*domain.ProxyArtifact, error) {
	artifact, err := l.readArtifact()
	if err == nil {
		return artifact, nil
	}
	if !errors.Is(err, os.ErrNotExist) || l.buildInfo == nil {
		return nil, err
	}

	l.log.Debug("proxy artifact missing, scanning build info", "path", l.path)
	contract, findErr := l.buildInfo.FindContract(ctx, erc1967Source, domain.ProxyContractName)
	if findErr != nil {
		return nil, fmt.Errorf("%s artifact not found at %s and not in build info (import @openzeppelin/contracts/proxy/ERC1967/ERC1967Proxy.sol or set proxy_artifact): %w",
			domain.ProxyContractName, l.path, findErr)
	}

	abi := contract.ABI
	if len(abi) == 0 {
		abi = domain.ERC1967ProxyABI
	}
	return &domain.ProxyArtifact{
		Name:     domain.ProxyContractName,
		ABI:      abi,
		Bytecode: contract.Bytecode,
	}, nil
}

func (l *ProxyArtifactLoader) readArtifact() (*domain.ProxyArtifact, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy artifact: %w", err)
	}

	var raw foundryArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse proxy artifact %s: %w", l.path, err)
	}

	bytecode := domain.StripHexPrefix(raw.Bytecode.Object)
	if bytecode == "" {
		return nil, fmt.Errorf("proxy artifact %s has no bytecode", l.path)
	}

	abi := raw.ABI
	if len(abi) == 0 {
		abi = domain.ERC1967ProxyABI
	}

	return &domain.ProxyArtifact{
		Name:     domain.ProxyContractName,
		ABI:      abi,
		Bytecode: bytecode,
	}, nil
}
